package advice

import (
	"context"

	"github.com/warp/finance-advisor/analytics"
)

// Engine generates advice from one snapshot per call.
type Engine struct {
	analytics *analytics.Engine
	config    Config
	rules     []Rule
}

func NewEngine(a *analytics.Engine, cfg Config) *Engine {
	return &Engine{analytics: a, config: cfg, rules: DefaultRules}
}

// WithRules returns a copy of the engine running rules instead of the defaults.
func (e *Engine) WithRules(rules []Rule) *Engine {
	cp := *e
	cp.rules = rules
	return &cp
}

func (e *Engine) Config() Config { return e.config }

// Generate loads one snapshot covering every configured window and evaluates
// the rule battery over it.
func (e *Engine) Generate(ctx context.Context) ([]Item, error) {
	snap, err := e.analytics.Snapshot(ctx, analytics.Days(e.config.Horizon()))
	if err != nil {
		return nil, err
	}
	in, err := BuildInputs(snap, e.config)
	if err != nil {
		return nil, err
	}
	return Evaluate(in, e.rules), nil
}

// BuildInputs derives every aggregate the rules need from snap.
func BuildInputs(snap analytics.Snapshot, cfg Config) (Inputs, error) {
	totals, err := analytics.IncomeVsExpenses(snap, cfg.WindowDays)
	if err != nil {
		return Inputs{}, err
	}
	spending, err := analytics.SpendingByCategory(snap, cfg.WindowDays)
	if err != nil {
		return Inputs{}, err
	}
	budgets, err := analytics.EvaluateBudgets(snap, cfg.WindowDays)
	if err != nil {
		return Inputs{}, err
	}
	recent, err := analytics.CountSince(snap, cfg.FrequencyWindowDays)
	if err != nil {
		return Inputs{}, err
	}
	return Inputs{
		Totals:      totals,
		Spending:    spending,
		Budgets:     budgets,
		RecentCount: recent,
		Config:      cfg,
	}, nil
}
