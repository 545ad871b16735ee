package advice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/finance-advisor/ledger"
)

// Config holds the windows and thresholds the rules read. It is passed in
// explicitly so tests can shrink windows or move thresholds.
type Config struct {
	WindowDays          int // totals, category spend, budgets
	FrequencyWindowDays int
	FrequencyThreshold  int // strictly more than this many transactions fires

	NearBudgetPercent    decimal.Decimal // caution above this, up to OverBudgetPercent
	OverBudgetPercent    decimal.Decimal // warning above this
	ConcentrationRatio   decimal.Decimal // share of income
	SavingsGoalRate      decimal.Decimal // percent; goal band is [0, SavingsGoalRate)
	SavingsExcellentRate decimal.Decimal // percent; excellent at or above
	EmergencyFundMonths  decimal.Decimal
}

func DefaultConfig() Config {
	return Config{
		WindowDays:           30,
		FrequencyWindowDays:  7,
		FrequencyThreshold:   20,
		NearBudgetPercent:    decimal.NewFromInt(80),
		OverBudgetPercent:    decimal.NewFromInt(100),
		ConcentrationRatio:   decimal.RequireFromString("0.3"),
		SavingsGoalRate:      decimal.NewFromInt(10),
		SavingsExcellentRate: decimal.NewFromInt(20),
		EmergencyFundMonths:  decimal.NewFromInt(3),
	}
}

// Horizon is the number of days one evaluation snapshot must cover.
func (c Config) Horizon() int {
	h := c.WindowDays
	if c.FrequencyWindowDays > h {
		h = c.FrequencyWindowDays
	}
	return h
}

func (c Config) Validate() error {
	if c.WindowDays <= 0 {
		return fmt.Errorf("window_days must be positive, got %d", c.WindowDays)
	}
	if c.FrequencyWindowDays <= 0 {
		return fmt.Errorf("frequency_window_days must be positive, got %d", c.FrequencyWindowDays)
	}
	if h := c.Horizon(); h > ledger.MaxWindowDays {
		return fmt.Errorf("window days must be at most %d, got %d", ledger.MaxWindowDays, h)
	}
	if c.NearBudgetPercent.GreaterThan(c.OverBudgetPercent) {
		return fmt.Errorf("near_budget_percent %s exceeds over_budget_percent %s",
			c.NearBudgetPercent, c.OverBudgetPercent)
	}
	if c.SavingsGoalRate.GreaterThan(c.SavingsExcellentRate) {
		return fmt.Errorf("savings_goal_rate %s exceeds savings_excellent_rate %s",
			c.SavingsGoalRate, c.SavingsExcellentRate)
	}
	return nil
}
