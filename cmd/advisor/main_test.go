package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/finance-advisor/advice"
	"github.com/warp/finance-advisor/analytics"
	"github.com/warp/finance-advisor/ledger"
)

// chdir is the Go 1.21 equivalent of t.Chdir: it changes the working
// directory for the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

// run executes the CLI against db and returns stdout.
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root, a := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--db", db}, args...))
	err := root.Execute()
	require.NoError(t, a.close())
	return out.String(), err
}

func TestCLI_AddBudgetAndReports(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("ADVISOR_LOG_LEVEL", "error")
	db := filepath.Join(dir, "ledger.db")

	out, err := run(t, db, "add", "income", "2000", "Salary", "March", "pay")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded")

	_, err = run(t, db, "add", "expense", "$450.25", "Food")
	require.NoError(t, err)

	out, err = run(t, db, "budget", "set", "Food", "400")
	require.NoError(t, err)
	assert.Equal(t, "Budget set: $400.00 for Food\n", out)

	out, err = run(t, db, "budget", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "$400.00")

	out, err = run(t, db, "advice")
	require.NoError(t, err)
	assert.Contains(t, out, "FINANCIAL ADVICE")
	assert.Contains(t, out, "Over budget in Food by $50.25")

	out, err = run(t, db, "summary", "--days", "7", "--weeks", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Last 7d")
	assert.Contains(t, out, "$1549.75")
	assert.Contains(t, out, "Week 2")
}

func TestCLI_RejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("ADVISOR_LOG_LEVEL", "error")
	db := filepath.Join(dir, "ledger.db")

	_, err := run(t, db, "add", "gift", "10", "Other")
	assert.ErrorIs(t, err, ledger.ErrInvalidKind)

	_, err = run(t, db, "add", "expense", "ten", "Other")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = run(t, db, "summary", "--days", "0")
	assert.ErrorIs(t, err, ledger.ErrInvalidWindow)

	_, err = run(t, db, "demo", "load", "nope")
	assert.Error(t, err)
}

func TestCLI_DemoLoad(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("ADVISOR_LOG_LEVEL", "error")
	db := filepath.Join(dir, "ledger.db")

	out, err := run(t, db, "demo", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "overspender")

	out, err = run(t, db, "demo", "load", "saver")
	require.NoError(t, err)
	assert.Equal(t, "Loaded scenario: Saver\n", out)

	out, err = run(t, db, "advice")
	require.NoError(t, err)
	assert.Contains(t, out, "Excellent")
}

func TestRenderWeekly_ScalesToPeak(t *testing.T) {
	points := []analytics.WeeklyPoint{
		{Label: "Week 2", Amount: decimal.NewFromInt(50)},
		{Label: "Week 1", Amount: decimal.NewFromInt(100)},
	}
	lines := strings.Split(strings.TrimRight(renderWeekly(points, 10), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, 5, strings.Count(lines[0], "█"))
	assert.Equal(t, 10, strings.Count(lines[1], "█"))
	assert.Contains(t, lines[1], "$100.00")
}

func TestRenderAdvice_NumbersItems(t *testing.T) {
	out := renderAdvice([]advice.Item{advice.Fallback()})
	assert.Contains(t, out, " 1. 💡 Keep tracking your finances!")
	assert.Contains(t, out, "More insights will be available")
}

func TestRenderSummary_EmptyLedger(t *testing.T) {
	out := renderSummary(analytics.Summary{Spending: analytics.CategorySpend{}}, nil, 30)
	assert.Contains(t, out, "Income")
	assert.NotContains(t, out, "Spending by category")
}
