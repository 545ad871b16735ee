package analytics

import (
	"github.com/shopspring/decimal"
)

// BudgetWindowDays is the spend window budgets are evaluated against.
const BudgetWindowDays = 30

var hundred = decimal.NewFromInt(100)

// BudgetStatus is the utilization of one configured budget.
// Remaining goes negative on overspend; PercentageUsed is unbounded above.
type BudgetStatus struct {
	Category       string
	Spent          decimal.Decimal
	Budget         decimal.Decimal
	Remaining      decimal.Decimal
	PercentageUsed decimal.Decimal
}

// Over reports spend beyond the budget (percentage strictly above 100).
func (b BudgetStatus) Over() bool { return b.PercentageUsed.GreaterThan(hundred) }

// Overspend is Spent - Budget.
func (b BudgetStatus) Overspend() decimal.Decimal { return b.Spent.Sub(b.Budget) }

// BudgetReport preserves budget iteration order (category order from the store).
type BudgetReport []BudgetStatus

// ByCategory returns the mapping view used by the transport layer.
func (r BudgetReport) ByCategory() map[string]BudgetStatus {
	m := make(map[string]BudgetStatus, len(r))
	for _, s := range r {
		m[s.Category] = s
	}
	return m
}

// EvaluateBudgets joins configured budgets against category spend over
// windowDays. Only budgeted categories appear; unspent ones show zero.
// A zero budget reports 0% used.
func EvaluateBudgets(s Snapshot, windowDays int) (BudgetReport, error) {
	spend, err := SpendingByCategory(s, windowDays)
	if err != nil {
		return nil, err
	}

	report := make(BudgetReport, 0, len(s.Budgets))
	for _, b := range s.Budgets {
		spent, ok := spend[b.Category]
		if !ok {
			spent = decimal.Zero
		}
		report = append(report, newBudgetStatus(b.Category, spent, b.MonthlyAmount))
	}
	return report, nil
}

func newBudgetStatus(category string, spent, budget decimal.Decimal) BudgetStatus {
	pct := decimal.Zero
	if budget.IsPositive() {
		pct = spent.Div(budget).Mul(hundred)
	}
	return BudgetStatus{
		Category:       category,
		Spent:          spent,
		Budget:         budget,
		Remaining:      budget.Sub(spent),
		PercentageUsed: pct,
	}
}
