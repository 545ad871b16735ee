package advice

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/finance-advisor/analytics"
)

// Inputs is everything a rule may look at. Rules never see each other's output.
type Inputs struct {
	Totals      analytics.Totals
	Spending    analytics.CategorySpend
	Budgets     analytics.BudgetReport
	RecentCount int // transactions in the frequency window
	Config      Config
}

// Rule is one independent check. Eval returns nil when the rule does not fire.
type Rule struct {
	Name string
	Eval func(Inputs) []Item
}

// DefaultRules is the battery in display-priority order. The fallback is
// not a rule; Evaluate appends it when every rule returns nothing.
var DefaultRules = []Rule{
	{Name: "deficit", Eval: deficitRule},
	{Name: "surplus", Eval: surplusRule},
	{Name: "over_budget", Eval: overBudgetRule},
	{Name: "near_budget", Eval: nearBudgetRule},
	{Name: "top_category", Eval: topCategoryRule},
	{Name: "concentration", Eval: concentrationRule},
	{Name: "savings_rate", Eval: savingsRateRule},
	{Name: "frequency", Eval: frequencyRule},
	{Name: "emergency_fund", Eval: emergencyFundRule},
}

var hundred = decimal.NewFromInt(100)

func money(d decimal.Decimal) string   { return "$" + d.StringFixed(2) }
func percent(d decimal.Decimal) string { return d.StringFixed(1) + "%" }

func one(it Item) []Item { return []Item{it} }

// =============================================================================
// CASH FLOW
// =============================================================================

func deficitRule(in Inputs) []Item {
	income, expenses := in.Totals.Income, in.Totals.Expenses
	if !income.IsPositive() || !expenses.GreaterThan(income) {
		return nil
	}
	deficit := expenses.Sub(income)
	return one(Item{
		Kind:       KindAlert,
		Icon:       "🚨",
		Message:    fmt.Sprintf("ALERT: You're spending %s more than you earn this month!", money(deficit)),
		Suggestion: "Consider reducing discretionary expenses or finding additional income sources.",
		Value:      valueOf(deficit),
	})
}

func surplusRule(in Inputs) []Item {
	income, expenses := in.Totals.Income, in.Totals.Expenses
	if !income.IsPositive() || !income.GreaterThan(expenses) {
		return nil
	}
	surplus := income.Sub(expenses)
	return one(Item{
		Kind:       KindPositive,
		Icon:       "🎉",
		Message:    fmt.Sprintf("Great job! You have a surplus of %s this month.", money(surplus)),
		Suggestion: "Consider saving or investing this extra money for future goals.",
		Value:      valueOf(surplus),
	})
}

// =============================================================================
// BUDGETS (may fire once per budget)
// =============================================================================

func overBudgetRule(in Inputs) []Item {
	var items []Item
	for _, s := range in.Budgets {
		if !s.PercentageUsed.GreaterThan(in.Config.OverBudgetPercent) {
			continue
		}
		overspend := s.Overspend()
		items = append(items, Item{
			Kind:    KindWarning,
			Icon:    "🚨",
			Message: fmt.Sprintf("Over budget in %s by %s", s.Category, money(overspend)),
			Suggestion: fmt.Sprintf("You've used %s of your %s budget. Consider cutting back on non-essential %s expenses.",
				percent(s.PercentageUsed), s.Category, strings.ToLower(s.Category)),
			Value:    valueOf(overspend),
			Category: s.Category,
		})
	}
	return items
}

func nearBudgetRule(in Inputs) []Item {
	var items []Item
	for _, s := range in.Budgets {
		pct := s.PercentageUsed
		if !pct.GreaterThan(in.Config.NearBudgetPercent) || pct.GreaterThan(in.Config.OverBudgetPercent) {
			continue
		}
		items = append(items, Item{
			Kind:    KindCaution,
			Icon:    "⚡",
			Message: fmt.Sprintf("Close to %s budget limit (%s used)", s.Category, percent(pct)),
			Suggestion: fmt.Sprintf("You have %s left in your %s budget. Plan carefully for the rest of the month.",
				money(s.Remaining), s.Category),
			Value:    valueOf(s.Remaining),
			Category: s.Category,
		})
	}
	return items
}

// =============================================================================
// SPENDING PATTERNS
// =============================================================================

func topCategoryRule(in Inputs) []Item {
	category, amount, ok := in.Spending.Top()
	if !ok {
		return nil
	}
	suggestion := ""
	if in.Totals.Expenses.IsPositive() {
		share := amount.Div(in.Totals.Expenses).Mul(hundred)
		suggestion = fmt.Sprintf("This represents %s of your total expenses.", percent(share))
	}
	return one(Item{
		Kind:       KindInfo,
		Icon:       "📊",
		Message:    fmt.Sprintf("Your highest spending category is %s (%s)", category, money(amount)),
		Suggestion: suggestion,
		Value:      valueOf(amount),
		Category:   category,
	})
}

func concentrationRule(in Inputs) []Item {
	category, amount, ok := in.Spending.Top()
	income := in.Totals.Income
	if !ok || !income.IsPositive() || !amount.GreaterThan(income.Mul(in.Config.ConcentrationRatio)) {
		return nil
	}
	return one(Item{
		Kind:       KindInsight,
		Icon:       "💭",
		Message:    fmt.Sprintf("Your %s spending is high relative to income", category),
		Suggestion: fmt.Sprintf("Consider if %s on %s aligns with your financial priorities.", amount.StringFixed(2), category),
		Value:      valueOf(amount),
		Category:   category,
	})
}

// =============================================================================
// SAVINGS
// =============================================================================

// SavingsRate is (income - expenses) / income * 100. ok is false when there
// is no income.
func SavingsRate(t analytics.Totals) (rate decimal.Decimal, ok bool) {
	if !t.Income.IsPositive() {
		return decimal.Zero, false
	}
	return t.Net().Div(t.Income).Mul(hundred), true
}

// savingsRateRule leaves [goal, excellent) silent. With the defaults that is
// the 10-20% band; see DESIGN.md.
func savingsRateRule(in Inputs) []Item {
	rate, ok := SavingsRate(in.Totals)
	if !ok {
		return nil
	}
	cfg := in.Config

	switch {
	case rate.IsNegative():
		return one(Item{
			Kind:       KindUrgent,
			Icon:       "🆘",
			Message:    "Negative savings rate - spending exceeds income",
			Suggestion: "Create an emergency budget focusing only on essential expenses.",
			Value:      valueOf(rate),
		})
	case rate.LessThan(cfg.SavingsGoalRate):
		target := in.Totals.Income.Mul(cfg.SavingsGoalRate).Div(hundred)
		return one(Item{
			Kind:    KindGoal,
			Icon:    "💰",
			Message: fmt.Sprintf("Current savings rate: %s", percent(rate)),
			Suggestion: fmt.Sprintf("Aim to save %s monthly (%s%% of income) for financial security.",
				money(target), cfg.SavingsGoalRate.String()),
			Value: valueOf(rate),
		})
	case rate.GreaterThanOrEqual(cfg.SavingsExcellentRate):
		return one(Item{
			Kind:       KindExcellent,
			Icon:       "🌟",
			Message:    fmt.Sprintf("Excellent savings rate of %s!", percent(rate)),
			Suggestion: "Consider diversifying investments or increasing emergency fund contributions.",
			Value:      valueOf(rate),
		})
	}
	return nil
}

// =============================================================================
// BEHAVIOR & PLANNING
// =============================================================================

func frequencyRule(in Inputs) []Item {
	if in.RecentCount <= in.Config.FrequencyThreshold {
		return nil
	}
	dailyAvg := decimal.NewFromInt(int64(in.RecentCount)).Div(decimal.NewFromInt(int64(in.Config.FrequencyWindowDays)))
	return one(Item{
		Kind:    KindBehavioral,
		Icon:    "📱",
		Message: fmt.Sprintf("High transaction frequency: %d transactions this week", in.RecentCount),
		Suggestion: fmt.Sprintf("Averaging %s transactions per day. Consider consolidating purchases to reduce impulse spending.",
			dailyAvg.StringFixed(1)),
		Value: valueOf(dailyAvg),
	})
}

func emergencyFundRule(in Inputs) []Item {
	expenses := in.Totals.Expenses
	if !expenses.IsPositive() {
		return nil
	}
	target := expenses.Mul(in.Config.EmergencyFundMonths)
	return one(Item{
		Kind:    KindPlanning,
		Icon:    "🛡️",
		Message: "Emergency Fund Recommendation",
		Suggestion: fmt.Sprintf("Based on your monthly expenses (%s), aim for an emergency fund of %s (%s months of expenses).",
			money(expenses), money(target), in.Config.EmergencyFundMonths.String()),
		Value: valueOf(target),
	})
}

// Fallback is emitted alone when no rule fires.
func Fallback() Item {
	return Item{
		Kind:       KindEncouragement,
		Icon:       "💡",
		Message:    "Keep tracking your finances!",
		Suggestion: "More insights will be available as you add more transaction data. You're building great financial habits!",
	}
}

// Evaluate runs rules in order and concatenates their output. The result is
// never empty.
func Evaluate(in Inputs, rules []Rule) []Item {
	var items []Item
	for _, r := range rules {
		items = append(items, r.Eval(in)...)
	}
	if len(items) == 0 {
		items = append(items, Fallback())
	}
	return items
}
