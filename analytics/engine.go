package analytics

import (
	"context"
	"time"

	"github.com/warp/finance-advisor/ledger"
)

// Engine exposes the aggregates to the transport layer. Each call validates
// its window, loads a fresh snapshot sized to that window, and computes.
// Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	reader ledger.Reader
	now    func() time.Time
}

type Option func(*Engine)

// WithClock overrides the wall clock. Tests use it to pin Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(r ledger.Reader, opts ...Option) *Engine {
	e := &Engine{reader: r, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine clock's current instant.
func (e *Engine) Now() time.Time { return e.now() }

// Snapshot loads the ledger rows in the trailing horizon plus all budgets.
func (e *Engine) Snapshot(ctx context.Context, horizon time.Duration) (Snapshot, error) {
	return LoadSnapshot(ctx, e.reader, e.now(), horizon)
}

func (e *Engine) SpendingByCategory(ctx context.Context, windowDays int) (CategorySpend, error) {
	if err := ledger.CheckWindow(windowDays, "days"); err != nil {
		return nil, err
	}
	snap, err := e.Snapshot(ctx, Days(windowDays))
	if err != nil {
		return nil, err
	}
	return SpendingByCategory(snap, windowDays)
}

func (e *Engine) IncomeVsExpenses(ctx context.Context, windowDays int) (Totals, error) {
	if err := ledger.CheckWindow(windowDays, "days"); err != nil {
		return Totals{}, err
	}
	snap, err := e.Snapshot(ctx, Days(windowDays))
	if err != nil {
		return Totals{}, err
	}
	return IncomeVsExpenses(snap, windowDays)
}

// BudgetStatus evaluates every budget against the fixed 30-day spend window.
func (e *Engine) BudgetStatus(ctx context.Context) (BudgetReport, error) {
	snap, err := e.Snapshot(ctx, Days(BudgetWindowDays))
	if err != nil {
		return nil, err
	}
	return EvaluateBudgets(snap, BudgetWindowDays)
}

func (e *Engine) WeeklySeries(ctx context.Context, numWeeks int) ([]WeeklyPoint, error) {
	if err := ledger.CheckWindow(numWeeks, "weeks"); err != nil {
		return nil, err
	}
	snap, err := e.Snapshot(ctx, Weeks(numWeeks))
	if err != nil {
		return nil, err
	}
	return WeeklySeries(snap, numWeeks)
}

// Summary is the combined view served by /api/summary.
type Summary struct {
	Totals   Totals
	Spending CategorySpend
	Budgets  BudgetReport
}

// Summary computes totals, spend and budget status from one snapshot so the
// three views agree with each other.
func (e *Engine) Summary(ctx context.Context, windowDays int) (Summary, error) {
	if err := ledger.CheckWindow(windowDays, "days"); err != nil {
		return Summary{}, err
	}
	horizon := windowDays
	if horizon < BudgetWindowDays {
		horizon = BudgetWindowDays
	}
	snap, err := e.Snapshot(ctx, Days(horizon))
	if err != nil {
		return Summary{}, err
	}

	var out Summary
	if out.Totals, err = IncomeVsExpenses(snap, windowDays); err != nil {
		return Summary{}, err
	}
	if out.Spending, err = SpendingByCategory(snap, windowDays); err != nil {
		return Summary{}, err
	}
	if out.Budgets, err = EvaluateBudgets(snap, BudgetWindowDays); err != nil {
		return Summary{}, err
	}
	return out, nil
}
