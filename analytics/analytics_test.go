package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/finance-advisor/analytics"
	"github.com/warp/finance-advisor/ledger"
	"github.com/warp/finance-advisor/ledger/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var now = time.Date(2026, time.March, 31, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tx(kind ledger.Kind, amount, category string, age time.Duration) ledger.Transaction {
	return ledger.Transaction{
		ID:        ledger.TransactionID(category + amount + age.String() + string(kind)),
		Amount:    dec(amount),
		Category:  category,
		Kind:      kind,
		Timestamp: now.Add(-age),
	}
}

func expense(amount, category string, age time.Duration) ledger.Transaction {
	return tx(ledger.KindExpense, amount, category, age)
}

func income(amount string, age time.Duration) ledger.Transaction {
	return tx(ledger.KindIncome, amount, "Salary", age)
}

func snapshot(txs ...ledger.Transaction) analytics.Snapshot {
	return analytics.Snapshot{Now: now, Transactions: txs}
}

func days(n int) time.Duration { return analytics.Days(n) }

type failingReader struct{ err error }

func (f failingReader) QueryTransactions(context.Context, ledger.Filter) ([]ledger.Transaction, error) {
	return nil, f.err
}

func (f failingReader) QueryBudgets(context.Context) ([]ledger.Budget, error) {
	return nil, nil
}

// =============================================================================
// SPENDING BY CATEGORY
// =============================================================================

func TestSpendingByCategory_GroupsExpensesInWindow(t *testing.T) {
	snap := snapshot(
		expense("12.50", "Food", days(1)),
		expense("7.25", "Food", days(10)),
		expense("40", "Transportation", days(29)),
		expense("99", "Food", days(31)), // outside 30d
		income("1000", days(2)),          // not an expense
	)

	spend, err := analytics.SpendingByCategory(snap, 30)
	require.NoError(t, err)

	assert.Len(t, spend, 2)
	assert.True(t, dec("19.75").Equal(spend["Food"]))
	assert.True(t, dec("40").Equal(spend["Transportation"]))
	_, ok := spend["Salary"]
	assert.False(t, ok, "categories without expenses are absent")
}

func TestSpendingByCategory_WindowBoundaryIsInclusive(t *testing.T) {
	snap := snapshot(expense("5", "Food", days(30)))

	spend, err := analytics.SpendingByCategory(snap, 30)
	require.NoError(t, err)
	assert.True(t, dec("5").Equal(spend["Food"]))
}

func TestSpendingByCategory_PartitionsTotalExpenses(t *testing.T) {
	snap := snapshot(
		expense("10.10", "Food", days(1)),
		expense("20.20", "Shopping", days(2)),
		expense("30.30", "Utilities", days(3)),
		expense("0.01", "Food", days(4)),
		income("500", days(1)),
	)

	spend, err := analytics.SpendingByCategory(snap, 30)
	require.NoError(t, err)
	totals, err := analytics.IncomeVsExpenses(snap, 30)
	require.NoError(t, err)

	assert.True(t, spend.Total().Equal(totals.Expenses), "category totals must sum to total expenses")
}

func TestSpendingByCategory_RejectsNonPositiveWindow(t *testing.T) {
	for _, w := range []int{0, -1, -30} {
		_, err := analytics.SpendingByCategory(snapshot(), w)
		assert.ErrorIs(t, err, ledger.ErrInvalidWindow)

		var werr *ledger.WindowError
		require.ErrorAs(t, err, &werr)
		assert.Equal(t, w, werr.Length)
	}
}

func TestSpendingByCategory_WindowBeyondSnapshotFails(t *testing.T) {
	snap := snapshot()
	snap.Since = now.Add(-days(7))

	_, err := analytics.SpendingByCategory(snap, 30)
	assert.ErrorIs(t, err, ledger.ErrWindowOutsideSnapshot)
}

func TestCategorySpend_TopBreaksTiesLexicographically(t *testing.T) {
	spend := analytics.CategorySpend{
		"Shopping": dec("50"),
		"Food":     dec("50"),
		"Other":    dec("10"),
	}

	category, amount, ok := spend.Top()
	require.True(t, ok)
	assert.Equal(t, "Food", category)
	assert.True(t, dec("50").Equal(amount))

	_, _, ok = analytics.CategorySpend{}.Top()
	assert.False(t, ok)
}

// =============================================================================
// INCOME VS EXPENSES
// =============================================================================

func TestIncomeVsExpenses_AbsentKindIsZero(t *testing.T) {
	totals, err := analytics.IncomeVsExpenses(snapshot(expense("25", "Food", days(1))), 30)
	require.NoError(t, err)

	assert.True(t, totals.Income.IsZero())
	assert.True(t, dec("25").Equal(totals.Expenses))
}

func TestIncomeVsExpenses_SumEqualsAllAmountsInWindow(t *testing.T) {
	txs := []ledger.Transaction{
		income("3000", days(3)),
		expense("1200.40", "Utilities", days(4)),
		expense("300.60", "Food", days(6)),
		income("150", days(12)),
		expense("999", "Food", days(45)),
	}

	totals, err := analytics.IncomeVsExpenses(snapshot(txs...), 30)
	require.NoError(t, err)

	assert.True(t, dec("3150").Equal(totals.Income))
	assert.True(t, dec("1501").Equal(totals.Expenses))
	assert.True(t, dec("4651").Equal(totals.Income.Add(totals.Expenses)))
	assert.True(t, dec("1649").Equal(totals.Net()))
}

func TestCountSince_CountsBothKinds(t *testing.T) {
	n, err := analytics.CountSince(snapshot(
		income("1", days(1)),
		expense("1", "Food", days(2)),
		expense("1", "Food", days(8)),
	), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

// =============================================================================
// WEEKLY SERIES
// =============================================================================

func TestWeeklySeries_AlwaysHasRequestedLength(t *testing.T) {
	for _, n := range []int{1, 4, 12} {
		points, err := analytics.WeeklySeries(snapshot(), n)
		require.NoError(t, err)
		require.Len(t, points, n)
		for _, p := range points {
			assert.True(t, p.Amount.IsZero())
		}
	}
}

func TestWeeklySeries_BucketsAndLabels(t *testing.T) {
	week := analytics.Weeks(1)
	snap := snapshot(
		expense("10", "Food", days(1)),           // week index 0
		expense("5", "Food", week),               // exactly one week back: start of index 0
		expense("20", "Food", week+time.Second),  // index 1
		expense("40", "Food", 3*week+days(2)),    // index 3
		expense("80", "Food", 4*week+time.Hour),  // beyond 4 weeks
		income("1000", days(2)),                  // ignored
	)

	points, err := analytics.WeeklySeries(snap, 4)
	require.NoError(t, err)
	require.Len(t, points, 4)

	assert.Equal(t, "Week 4", points[0].Label)
	assert.Equal(t, "Week 1", points[3].Label)

	assert.True(t, dec("15").Equal(points[0].Amount))
	assert.True(t, dec("20").Equal(points[1].Amount))
	assert.True(t, points[2].Amount.IsZero())
	assert.True(t, dec("40").Equal(points[3].Amount))

	assert.Equal(t, now, points[0].End)
	assert.Equal(t, now.Add(-week), points[0].Start)
}

func TestWeeklySeries_NowIsExcluded(t *testing.T) {
	points, err := analytics.WeeklySeries(snapshot(expense("10", "Food", 0)), 1)
	require.NoError(t, err)
	assert.True(t, points[0].Amount.IsZero(), "upper bound is exclusive")
}

func TestWeeklySeries_RejectsNonPositiveWeeks(t *testing.T) {
	_, err := analytics.WeeklySeries(snapshot(), 0)
	assert.ErrorIs(t, err, ledger.ErrInvalidWindow)
}

func TestWeeklySeries_RejectsWeeksPastCap(t *testing.T) {
	_, err := analytics.WeeklySeries(snapshot(), 50000000)
	assert.ErrorIs(t, err, ledger.ErrInvalidWindow)
}

func TestWindowCapsConvertWithoutOverflow(t *testing.T) {
	assert.Greater(t, analytics.Days(ledger.MaxWindowDays), time.Duration(0))
	assert.Greater(t, analytics.Weeks(ledger.MaxWindowWeeks), time.Duration(0))
}

// =============================================================================
// BUDGET EVALUATOR
// =============================================================================

func TestEvaluateBudgets_OnlyBudgetedCategories(t *testing.T) {
	snap := snapshot(
		expense("180", "Food", days(2)),
		expense("70", "Shopping", days(3)),
	)
	snap.Budgets = []ledger.Budget{
		{Category: "Entertainment", MonthlyAmount: dec("100")},
		{Category: "Food", MonthlyAmount: dec("200")},
	}

	report, err := analytics.EvaluateBudgets(snap, analytics.BudgetWindowDays)
	require.NoError(t, err)
	require.Len(t, report, 2)

	assert.Equal(t, "Entertainment", report[0].Category)
	assert.True(t, report[0].Spent.IsZero())
	assert.True(t, dec("100").Equal(report[0].Remaining))
	assert.True(t, report[0].PercentageUsed.IsZero())

	food := report.ByCategory()["Food"]
	assert.True(t, dec("180").Equal(food.Spent))
	assert.True(t, dec("20").Equal(food.Remaining))
	assert.True(t, dec("90").Equal(food.PercentageUsed))
	assert.False(t, food.Over())

	_, ok := report.ByCategory()["Shopping"]
	assert.False(t, ok, "spend without a budget is excluded")
}

func TestEvaluateBudgets_Overspend(t *testing.T) {
	snap := snapshot(expense("150", "Food", days(1)))
	snap.Budgets = []ledger.Budget{{Category: "Food", MonthlyAmount: dec("100")}}

	report, err := analytics.EvaluateBudgets(snap, 30)
	require.NoError(t, err)

	food := report[0]
	assert.True(t, dec("150").Equal(food.PercentageUsed))
	assert.True(t, dec("-50").Equal(food.Remaining))
	assert.True(t, dec("50").Equal(food.Overspend()))
	assert.True(t, food.Over())
}

func TestEvaluateBudgets_ZeroBudgetIsZeroPercent(t *testing.T) {
	snap := snapshot(expense("42", "Food", days(1)))
	snap.Budgets = []ledger.Budget{{Category: "Food", MonthlyAmount: decimal.Zero}}

	report, err := analytics.EvaluateBudgets(snap, 30)
	require.NoError(t, err)
	assert.True(t, report[0].PercentageUsed.IsZero())
	assert.True(t, dec("-42").Equal(report[0].Remaining))
}

// =============================================================================
// ENGINE
// =============================================================================

func seededEngine(t *testing.T, txs ...ledger.Transaction) (*analytics.Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	ctx := context.Background()
	for _, tx := range txs {
		require.NoError(t, mem.AppendTransaction(ctx, tx))
	}
	return analytics.NewEngine(mem, analytics.WithClock(func() time.Time { return now })), mem
}

func TestEngine_IsIdempotent(t *testing.T) {
	engine, mem := seededEngine(t,
		income("2000", days(3)),
		expense("300", "Food", days(2)),
		expense("120", "Utilities", days(9)),
	)
	require.NoError(t, mem.SetBudget(context.Background(), ledger.Budget{Category: "Food", MonthlyAmount: dec("250")}))
	ctx := context.Background()

	first, err := engine.Summary(ctx, 30)
	require.NoError(t, err)
	second, err := engine.Summary(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	w1, err := engine.WeeklySeries(ctx, 4)
	require.NoError(t, err)
	w2, err := engine.WeeklySeries(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, w1, w2)
}

func TestEngine_HugeWindowsAreRejectedNotWrapped(t *testing.T) {
	// GIVEN one expense five days old
	engine, _ := seededEngine(t, expense("50", "Food", days(5)))
	ctx := context.Background()

	// WHEN windows past the cap are requested
	_, err := engine.SpendingByCategory(ctx, 106752)
	var werr *ledger.WindowError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, 106752, werr.Length)
	assert.Equal(t, ledger.MaxWindowDays, werr.Max)

	_, err = engine.WeeklySeries(ctx, 30501)
	assert.ErrorIs(t, err, ledger.ErrInvalidWindow)

	// THEN the largest allowed window still sees the expense
	points, err := engine.WeeklySeries(ctx, ledger.MaxWindowWeeks)
	require.NoError(t, err)
	require.Len(t, points, ledger.MaxWindowWeeks)
	assert.True(t, dec("50").Equal(points[0].Amount))

	spend, err := engine.SpendingByCategory(ctx, ledger.MaxWindowDays)
	require.NoError(t, err)
	assert.True(t, dec("50").Equal(spend["Food"]))
}

func TestEngine_BudgetStatusUsesThirtyDays(t *testing.T) {
	engine, mem := seededEngine(t,
		expense("60", "Food", days(5)),
		expense("500", "Food", days(40)),
	)
	require.NoError(t, mem.SetBudget(context.Background(), ledger.Budget{Category: "Food", MonthlyAmount: dec("100")}))

	report, err := engine.BudgetStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.True(t, dec("60").Equal(report[0].Spent))
}

func TestEngine_LongWindowSeesOlderRows(t *testing.T) {
	engine, _ := seededEngine(t,
		expense("60", "Food", days(5)),
		expense("500", "Food", days(80)),
	)

	spend, err := engine.SpendingByCategory(context.Background(), 90)
	require.NoError(t, err)
	assert.True(t, dec("560").Equal(spend["Food"]))
}

func TestEngine_RejectsInvalidWindowBeforeQuerying(t *testing.T) {
	engine := analytics.NewEngine(failingReader{err: errors.New("should not be called")})

	_, err := engine.IncomeVsExpenses(context.Background(), 0)
	assert.ErrorIs(t, err, ledger.ErrInvalidWindow)
}

func TestEngine_PropagatesStoreFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	engine := analytics.NewEngine(failingReader{err: boom})

	_, err := engine.SpendingByCategory(context.Background(), 30)
	assert.ErrorIs(t, err, boom)
}
