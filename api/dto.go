/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Field names follow
  the snake_case contract the web client already uses (type, date,
  percentage_used, ...), so the domain types can evolve independently.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY:
  Requests accept amounts as JSON numbers or strings and decode them
  exactly into decimal.Decimal. Responses emit plain JSON numbers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/finance-advisor/advice"
	"github.com/warp/finance-advisor/analytics"
	"github.com/warp/finance-advisor/ledger"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateTransactionRequest is the POST /api/transactions body.
type CreateTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Date        *time.Time      `json:"date,omitempty"` // defaults to now
}

// SetBudgetRequest is the POST /api/budgets body.
type SetBudgetRequest struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type TransactionDTO struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Date        string  `json:"date"`
}

type BudgetDTO struct {
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Period      string  `json:"period"`
	CreatedDate string  `json:"created_date,omitempty"`
}

// MessageResponse acknowledges a write.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

type IncomeExpensesDTO struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

type BudgetStatusDTO struct {
	Spent          float64 `json:"spent"`
	Budget         float64 `json:"budget"`
	Remaining      float64 `json:"remaining"`
	PercentageUsed float64 `json:"percentage_used"`
}

// SummaryResponse is the GET /api/summary body.
type SummaryResponse struct {
	IncomeExpenses     IncomeExpensesDTO          `json:"income_expenses"`
	SpendingByCategory map[string]float64         `json:"spending_by_category"`
	BudgetStatus       map[string]BudgetStatusDTO `json:"budget_status"`
}

type AdviceDTO struct {
	Type       string   `json:"type"`
	Icon       string   `json:"icon"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Category   string   `json:"category,omitempty"`
	Value      *float64 `json:"value,omitempty"`
}

type WeeklySpendingDTO struct {
	Week   string  `json:"week"`
	Amount float64 `json:"amount"`
	Start  string  `json:"start"`
	End    string  `json:"end"`
}

// AnalyticsResponse is the GET /api/analytics body.
type AnalyticsResponse struct {
	WeeklySpending []WeeklySpendingDTO `json:"weekly_spending"`
	CategoryTrends map[string]float64  `json:"category_trends"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toTransactionDTO(tx ledger.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:          string(tx.ID),
		Amount:      tx.Amount.InexactFloat64(),
		Category:    tx.Category,
		Description: tx.Description,
		Type:        string(tx.Kind),
		Date:        tx.Timestamp.Format(time.RFC3339),
	}
}

func toBudgetDTO(b ledger.Budget) BudgetDTO {
	dto := BudgetDTO{
		Category: b.Category,
		Amount:   b.MonthlyAmount.InexactFloat64(),
		Period:   string(b.Period),
	}
	if !b.CreatedAt.IsZero() {
		dto.CreatedDate = b.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toSpendingMap(spend analytics.CategorySpend) map[string]float64 {
	out := make(map[string]float64, len(spend))
	for category, amount := range spend {
		out[category] = amount.InexactFloat64()
	}
	return out
}

func toSummaryResponse(s analytics.Summary) SummaryResponse {
	status := make(map[string]BudgetStatusDTO, len(s.Budgets))
	for _, b := range s.Budgets {
		status[b.Category] = BudgetStatusDTO{
			Spent:          b.Spent.InexactFloat64(),
			Budget:         b.Budget.InexactFloat64(),
			Remaining:      b.Remaining.InexactFloat64(),
			PercentageUsed: b.PercentageUsed.InexactFloat64(),
		}
	}
	return SummaryResponse{
		IncomeExpenses: IncomeExpensesDTO{
			Income:   s.Totals.Income.InexactFloat64(),
			Expenses: s.Totals.Expenses.InexactFloat64(),
			Net:      s.Totals.Net().InexactFloat64(),
		},
		SpendingByCategory: toSpendingMap(s.Spending),
		BudgetStatus:       status,
	}
}

func toAdviceDTOs(items []advice.Item) []AdviceDTO {
	dtos := make([]AdviceDTO, len(items))
	for i, it := range items {
		dtos[i] = AdviceDTO{
			Type:       string(it.Kind),
			Icon:       it.Icon,
			Message:    it.Message,
			Suggestion: it.Suggestion,
			Category:   it.Category,
		}
		if it.Value != nil {
			v := it.Value.InexactFloat64()
			dtos[i].Value = &v
		}
	}
	return dtos
}

func toWeeklyDTOs(points []analytics.WeeklyPoint) []WeeklySpendingDTO {
	dtos := make([]WeeklySpendingDTO, len(points))
	for i, p := range points {
		dtos[i] = WeeklySpendingDTO{
			Week:   p.Label,
			Amount: p.Amount.InexactFloat64(),
			Start:  p.Start.Format(time.RFC3339),
			End:    p.End.Format(time.RFC3339),
		}
	}
	return dtos
}
