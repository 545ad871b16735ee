package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/warp/finance-advisor/advice"
	"github.com/warp/finance-advisor/analytics"
	"github.com/warp/finance-advisor/api"
	"github.com/warp/finance-advisor/ledger"
)

// Theme colors
var (
	colorBorder = lipgloss.Color("#575653")
	colorMuted  = lipgloss.Color("#878580")
	colorText   = lipgloss.Color("#FFFCF0")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorOrange = lipgloss.Color("#DA702C")
	colorRed    = lipgloss.Color("#D14D41")
	colorBlue   = lipgloss.Color("#4385BE")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	barStyle    = lipgloss.NewStyle().Foreground(colorBlue)
)

// kindColors groups advice kinds by tone.
var kindColors = map[advice.Kind]lipgloss.Color{
	advice.KindAlert:     colorRed,
	advice.KindUrgent:    colorRed,
	advice.KindWarning:   colorOrange,
	advice.KindCaution:   colorOrange,
	advice.KindPositive:  colorGreen,
	advice.KindExcellent: colorGreen,
}

func money(d decimal.Decimal) string { return "$" + d.StringFixed(2) }

func renderTitle(title string) string {
	return titleStyle.Render(title)
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if col > 0 {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})
	return t.String()
}

// =============================================================================
// ADVICE
// =============================================================================

func renderAdvice(items []advice.Item) string {
	var b strings.Builder
	b.WriteString(renderTitle("FINANCIAL ADVICE"))
	b.WriteString("\n\n")

	for i, it := range items {
		style := lipgloss.NewStyle().Bold(true)
		if c, ok := kindColors[it.Kind]; ok {
			style = style.Foreground(c)
		}
		fmt.Fprintf(&b, "%2d. %s %s\n", i+1, it.Icon, style.Render(it.Message))
		if it.Suggestion != "" {
			fmt.Fprintf(&b, "    %s\n", mutedStyle.Render(it.Suggestion))
		}
	}
	return b.String()
}

// =============================================================================
// SUMMARY
// =============================================================================

func renderSummary(s analytics.Summary, weekly []analytics.WeeklyPoint, days int) string {
	var b strings.Builder
	b.WriteString(renderTitle(fmt.Sprintf("FINANCE SUMMARY  Last %dd", days)))
	b.WriteString("\n\n")

	b.WriteString(renderTable([]string{"", "Amount"}, [][]string{
		{"Income", money(s.Totals.Income)},
		{"Expenses", money(s.Totals.Expenses)},
		{"Net", money(s.Totals.Net())},
	}))
	b.WriteString("\n\n")

	if len(s.Spending) > 0 {
		total := s.Spending.Total()
		var rows [][]string
		for _, category := range s.Spending.Categories() {
			amount := s.Spending[category]
			share := decimal.Zero
			if total.IsPositive() {
				share = amount.Div(total).Mul(decimal.NewFromInt(100))
			}
			rows = append(rows, []string{category, money(amount), share.StringFixed(1) + "%"})
		}
		b.WriteString(headerStyle.Render("  Spending by category"))
		b.WriteString("\n")
		b.WriteString(renderTable([]string{"Category", "Spent", "Share"}, rows))
		b.WriteString("\n\n")
	}

	if len(s.Budgets) > 0 {
		b.WriteString(headerStyle.Render("  Budgets (30d)"))
		b.WriteString("\n")
		b.WriteString(renderBudgetStatus(s.Budgets))
		b.WriteString("\n\n")
	}

	if len(weekly) > 0 {
		b.WriteString(headerStyle.Render("  Weekly spending"))
		b.WriteString("\n")
		b.WriteString(renderWeekly(weekly, 30))
	}
	return b.String()
}

func renderBudgetStatus(report analytics.BudgetReport) string {
	rows := make([][]string, len(report))
	for i, st := range report {
		used := st.PercentageUsed.StringFixed(1) + "%"
		if st.Over() {
			used = lipgloss.NewStyle().Foreground(colorRed).Render(used)
		}
		rows[i] = []string{st.Category, money(st.Spent), money(st.Budget), money(st.Remaining), used}
	}
	return renderTable([]string{"Category", "Spent", "Budget", "Remaining", "Used"}, rows)
}

// renderWeekly draws one bar per week scaled to the largest week.
func renderWeekly(points []analytics.WeeklyPoint, width int) string {
	peak := decimal.Zero
	for _, p := range points {
		if p.Amount.GreaterThan(peak) {
			peak = p.Amount
		}
	}

	var b strings.Builder
	for _, p := range points {
		n := 0
		if peak.IsPositive() {
			n = int(p.Amount.Div(peak).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart())
		}
		fmt.Fprintf(&b, "  %-7s %s %s\n", p.Label, barStyle.Render(strings.Repeat("█", n)), money(p.Amount))
	}
	return b.String()
}

// =============================================================================
// LISTS
// =============================================================================

func renderBudgets(budgets []ledger.Budget) string {
	if len(budgets) == 0 {
		return mutedStyle.Render("  No budgets set.") + "\n"
	}
	rows := make([][]string, len(budgets))
	for i, bg := range budgets {
		rows[i] = []string{bg.Category, money(bg.MonthlyAmount), string(bg.Period)}
	}
	return renderTable([]string{"Category", "Amount", "Period"}, rows) + "\n"
}

func renderScenarios(list []api.Scenario) string {
	rows := make([][]string, len(list))
	for i, sc := range list {
		rows[i] = []string{sc.ID, sc.Description}
	}
	return renderTable([]string{"ID", "Description"}, rows) + "\n"
}
