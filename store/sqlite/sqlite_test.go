package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/finance-advisor/analytics"
	"github.com/warp/finance-advisor/ledger"
	"github.com/warp/finance-advisor/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

var base = time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC)

func appendTx(t *testing.T, s *sqlite.Store, kind ledger.Kind, amount, category string, at time.Time) ledger.Transaction {
	t.Helper()
	tx, err := ledger.NewTransaction(decimal.RequireFromString(amount), category, "desc", kind, at)
	require.NoError(t, err)
	require.NoError(t, s.AppendTransaction(context.Background(), tx))
	return tx
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestStore_RoundTripPreservesDecimalsAndTime(t *testing.T) {
	s := newTestStore(t)
	at := base.Add(123456789 * time.Nanosecond)
	tx := appendTx(t, s, ledger.KindExpense, "19.99", "Food", at)

	txs, err := s.QueryTransactions(context.Background(), ledger.Filter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)

	got := txs[0]
	assert.Equal(t, tx.ID, got.ID)
	assert.True(t, decimal.RequireFromString("19.99").Equal(got.Amount))
	assert.Equal(t, "Food", got.Category)
	assert.Equal(t, "desc", got.Description)
	assert.Equal(t, ledger.KindExpense, got.Kind)
	assert.True(t, at.Equal(got.Timestamp))
}

func TestStore_QueryOrderAndFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	appendTx(t, s, ledger.KindExpense, "1", "Food", base)
	appendTx(t, s, ledger.KindIncome, "2", "Salary", base.Add(time.Hour))
	appendTx(t, s, ledger.KindExpense, "3", "Food", base.Add(500*time.Millisecond))
	latest := appendTx(t, s, ledger.KindExpense, "4", "Shopping", base.Add(2*time.Hour))

	all, err := s.QueryTransactions(ctx, ledger.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, latest.ID, all[0].ID)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Timestamp.After(all[i-1].Timestamp), "most recent first")
	}

	since := base.Add(time.Second)
	kind := ledger.KindExpense
	filtered, err := s.QueryTransactions(ctx, ledger.Filter{MinTimestamp: &since, Kind: &kind})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Shopping", filtered[0].Category)

	limited, err := s.QueryTransactions(ctx, ledger.Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStore_DuplicateIDRejected(t *testing.T) {
	s := newTestStore(t)
	tx := appendTx(t, s, ledger.KindExpense, "1", "Food", base)

	err := s.AppendTransaction(context.Background(), tx)
	assert.ErrorIs(t, err, ledger.ErrDuplicateTransaction)
}

func TestStore_DeleteTransaction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tx := appendTx(t, s, ledger.KindExpense, "1", "Food", base)

	require.NoError(t, s.DeleteTransaction(ctx, tx.ID))
	assert.ErrorIs(t, s.DeleteTransaction(ctx, tx.ID), ledger.ErrTransactionNotFound)

	txs, err := s.QueryTransactions(ctx, ledger.Filter{})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

// =============================================================================
// BUDGETS & CATEGORIES
// =============================================================================

func TestStore_SetBudgetReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	food, err := ledger.NewBudget("Food", decimal.NewFromInt(200))
	require.NoError(t, err)
	require.NoError(t, s.SetBudget(ctx, food))
	fun, err := ledger.NewBudget("Entertainment", decimal.NewFromInt(80))
	require.NoError(t, err)
	require.NoError(t, s.SetBudget(ctx, fun))

	food.MonthlyAmount = decimal.RequireFromString("250.50")
	require.NoError(t, s.SetBudget(ctx, food))

	budgets, err := s.QueryBudgets(ctx)
	require.NoError(t, err)
	require.Len(t, budgets, 2)
	assert.Equal(t, "Entertainment", budgets[0].Category)
	assert.Equal(t, "Food", budgets[1].Category)
	assert.True(t, decimal.RequireFromString("250.50").Equal(budgets[1].MonthlyAmount))
	assert.Equal(t, ledger.PeriodMonthly, budgets[1].Period)
}

func TestStore_CategoriesSeededAndReset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, ledger.DefaultCategories, cats)

	require.NoError(t, s.AddCategory(ctx, "Travel"))
	require.NoError(t, s.AddCategory(ctx, "Travel"))
	appendTx(t, s, ledger.KindExpense, "1", "Travel", base)

	cats, err = s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, len(ledger.DefaultCategories)+1)

	require.NoError(t, s.Reset(ctx))
	cats, err = s.ListCategories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, ledger.DefaultCategories, cats)

	txs, err := s.QueryTransactions(ctx, ledger.Filter{})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestStore_FileDatabaseReopensWithoutRemigrating(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	s, err := sqlite.New(path)
	require.NoError(t, err)
	appendTx(t, s, ledger.KindIncome, "100", "Salary", base)
	require.NoError(t, s.Close())

	s, err = sqlite.New(path)
	require.NoError(t, err)
	defer s.Close()

	txs, err := s.QueryTransactions(context.Background(), ledger.Filter{})
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestStore_RejectsRowsWithMalformedTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// GIVEN rows written by hand with non-canonical dates
	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.Exec(`INSERT INTO transactions (id, amount, category, description, type, date, created_at)
		VALUES ('t1', '10', 'Food', '', 'expense', '2026-04-01T10:00:00Z', '2026-04-01T10:00:00.000000000Z')`)
	require.NoError(t, err)
	_, err = raw.Exec(`INSERT INTO budgets (category, amount, period, created_date)
		VALUES ('Food', '100', 'monthly', 'yesterday')`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	s, err = sqlite.New(path)
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	// WHEN they are read back
	_, err = s.QueryTransactions(ctx, ledger.Filter{})

	// THEN the store fails loudly instead of misplacing them
	assert.ErrorContains(t, err, `bad date "2026-04-01T10:00:00Z"`)

	_, err = s.QueryBudgets(ctx)
	assert.ErrorContains(t, err, `bad created_date "yesterday"`)
}

// =============================================================================
// ENGINE OVER SQLITE
// =============================================================================

func TestStore_ServesAnalyticsEngine(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := base.Add(48 * time.Hour)

	appendTx(t, s, ledger.KindIncome, "1000", "Salary", now.Add(-24*time.Hour))
	appendTx(t, s, ledger.KindExpense, "150", "Food", now.Add(-2*time.Hour))
	appendTx(t, s, ledger.KindExpense, "50", "Food", now.Add(-40*24*time.Hour))
	budget, err := ledger.NewBudget("Food", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, s.SetBudget(ctx, budget))

	engine := analytics.NewEngine(s, analytics.WithClock(func() time.Time { return now }))
	summary, err := engine.Summary(ctx, 30)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(1000).Equal(summary.Totals.Income))
	assert.True(t, decimal.NewFromInt(150).Equal(summary.Totals.Expenses))
	require.Len(t, summary.Budgets, 1)
	assert.True(t, decimal.NewFromInt(150).Equal(summary.Budgets[0].PercentageUsed))
}
