/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built ledgers that exercise specific advice rules. Each
	scenario resets the database, then records transactions dated
	relative to the engine clock, and sets budgets.

AVAILABLE SCENARIOS:

	balanced:         Steady salary, modest spending, budgets under control
	overspender:      Expenses exceed income, two budgets blown
	saver:            High savings rate, low category concentration
	frequent-spender: Many small purchases in the last week

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Set budgets
 3. Append transactions at offsets from now

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "overspender"}

ADDING NEW SCENARIOS:
 1. Add a Scenario to the scenarios slice with its budgets and entries

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ResetDatabase
  - cmd/advisor/demo.go: the same loaders from the CLI
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/finance-advisor/ledger"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ErrUnknownScenario is returned for scenario IDs not in Scenarios().
var ErrUnknownScenario = errors.New("unknown scenario")

// Scenario is a named demo ledger.
type Scenario struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Budgets     []scenarioEntry `json:"-"`
	Entries     []scenarioEntry `json:"-"`
}

type scenarioEntry struct {
	kind        ledger.Kind
	amount      string
	category    string
	description string
	daysAgo     float64
}

func income(amount, category, description string, daysAgo float64) scenarioEntry {
	return scenarioEntry{ledger.KindIncome, amount, category, description, daysAgo}
}

func expense(amount, category, description string, daysAgo float64) scenarioEntry {
	return scenarioEntry{ledger.KindExpense, amount, category, description, daysAgo}
}

func budgetOf(category, amount string) scenarioEntry {
	return scenarioEntry{category: category, amount: amount}
}

var scenarios = []Scenario{
	{
		ID:          "balanced",
		Name:        "Balanced",
		Description: "Steady salary, modest spending, budgets under control",
		Budgets:     []scenarioEntry{budgetOf("Food", "400"), budgetOf("Transportation", "150")},
		Entries: []scenarioEntry{
			income("3000", "Salary", "Monthly salary", 20),
			expense("1000", "Utilities", "Rent share", 19),
			expense("220", "Food", "Groceries", 12),
			expense("60", "Food", "Restaurants", 3),
			expense("90", "Transportation", "Transit pass", 15),
			expense("45", "Entertainment", "Concert", 6),
		},
	},
	{
		ID:          "overspender",
		Name:        "Overspender",
		Description: "Expenses exceed income and two budgets are blown",
		Budgets: []scenarioEntry{
			budgetOf("Entertainment", "100"),
			budgetOf("Food", "300"),
			budgetOf("Shopping", "200"),
		},
		Entries: []scenarioEntry{
			income("1800", "Salary", "Part-time salary", 25),
			expense("1100", "Utilities", "Rent", 24),
			expense("340", "Food", "Groceries and takeout", 10),
			expense("150", "Entertainment", "Streaming and games", 8),
			expense("190", "Shopping", "Clothes", 5),
			expense("260", "Shopping", "Headphones", 2),
		},
	},
	{
		ID:          "saver",
		Name:        "Saver",
		Description: "High savings rate with spending spread across categories",
		Budgets:     []scenarioEntry{budgetOf("Food", "350")},
		Entries: []scenarioEntry{
			income("5200", "Salary", "Monthly salary", 14),
			income("300", "Freelance", "Side project", 4),
			expense("400", "Utilities", "Bills", 13),
			expense("310", "Food", "Groceries", 9),
			expense("250", "Transportation", "Car service", 7),
			expense("200", "Healthcare", "Dentist", 3),
			expense("150", "Entertainment", "Weekend trip", 2),
		},
	},
	{
		ID:          "frequent-spender",
		Name:        "Frequent Spender",
		Description: "Two dozen small purchases in the last week",
		Entries:     frequentSpenderEntries(),
	},
}

func frequentSpenderEntries() []scenarioEntry {
	entries := []scenarioEntry{income("2500", "Salary", "Monthly salary", 10)}
	for i := 0; i < 24; i++ {
		entries = append(entries, expense("6.50", "Food", "Coffee", float64(i)*0.25+0.1))
	}
	return entries
}

// Scenarios lists the available demo scenarios.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// =============================================================================
// LOADING
// =============================================================================

// LoadScenario resets store and writes the named scenario, dating entries
// relative to now.
func LoadScenario(ctx context.Context, store ledger.AdminStore, id string, now time.Time) (Scenario, error) {
	var sc *Scenario
	for i := range scenarios {
		if scenarios[i].ID == id {
			sc = &scenarios[i]
			break
		}
	}
	if sc == nil {
		return Scenario{}, &ledger.ValidationError{Field: "scenario_id", Value: id, Err: ErrUnknownScenario}
	}

	if err := store.Reset(ctx); err != nil {
		return Scenario{}, fmt.Errorf("reset before scenario %s: %w", id, err)
	}
	for _, b := range sc.Budgets {
		budget, err := ledger.NewBudget(b.category, decimal.RequireFromString(b.amount))
		if err != nil {
			return Scenario{}, err
		}
		budget.CreatedAt = now
		if err := store.SetBudget(ctx, budget); err != nil {
			return Scenario{}, fmt.Errorf("scenario %s budget %s: %w", id, b.category, err)
		}
	}
	for _, e := range sc.Entries {
		at := now.Add(-time.Duration(e.daysAgo * float64(24*time.Hour)))
		tx, err := ledger.NewTransaction(decimal.RequireFromString(e.amount), e.category, e.description, e.kind, at)
		if err != nil {
			return Scenario{}, err
		}
		if err := store.AppendTransaction(ctx, tx); err != nil {
			return Scenario{}, fmt.Errorf("scenario %s: %w", id, err)
		}
	}
	return *sc, nil
}

// =============================================================================
// HANDLERS
// =============================================================================

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Scenarios())
}

// GetCurrentScenario returns the most recently loaded scenario, or null.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the database and loads a demo scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sc, err := LoadScenario(r.Context(), h.Store, req.ScenarioID, h.Analytics.Now())
	if err != nil {
		if errors.Is(err, ErrUnknownScenario) {
			writeError(w, http.StatusBadRequest, "Unknown scenario", err)
			return
		}
		h.writeDomainError(w, r, "Failed to load scenario", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = sc.ID
	h.mu.Unlock()
	h.Logger.WithField("component", "api").WithField("scenario", sc.ID).Info("scenario loaded")

	writeJSON(w, http.StatusOK, MessageResponse{
		Success: true,
		Message: fmt.Sprintf("Loaded scenario: %s", sc.Name),
		ID:      sc.ID,
	})
}
