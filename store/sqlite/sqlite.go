/*
Package sqlite provides a SQLite-backed implementation of the ledger interfaces.

PURPOSE:
  Implements ledger.AdminStore and ledger.CategoryStore on SQLite.
  Aggregation happens in the analytics package, not in SQL; the store
  only filters by time and kind and returns rows in order.

KEY TABLES:
  transactions: income/expense rows (amount stored as decimal TEXT)
  budgets:      one row per category (upserted)
  categories:   known category names, seeded with defaults

TIMESTAMPS:
  Stored as fixed-width UTC text (nanosecond precision) so string
  comparison in SQL matches time ordering.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, and WAL mode on file databases.
  ":memory:" databases are pinned to one connection so every query sees
  the same database.

MIGRATION:
  Schema is applied on New() by golang-migrate from embedded SQL files
  (migrations/*.sql).

USAGE:
  store, err := sqlite.New("./finance_tracker.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/finance-advisor/ledger"
)

// timestampLayout sorts lexicographically in time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// Store implements the ledger storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_foreign_keys=on&_journal_mode=WAL"
	if dbPath == ":memory:" {
		dsn = dbPath
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection, used by health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// AppendTransaction adds a row to the ledger.
func (s *Store) AppendTransaction(ctx context.Context, tx ledger.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, amount, category, description, type, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(tx.ID),
		tx.Amount.String(),
		tx.Category,
		tx.Description,
		string(tx.Kind),
		formatTime(tx.Timestamp),
		formatTime(time.Now()),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ledger.ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

// QueryTransactions returns matching rows, most recent first.
func (s *Store) QueryTransactions(ctx context.Context, filter ledger.Filter) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.MinTimestamp != nil {
		where = append(where, "date >= ?")
		args = append(args, formatTime(*filter.MinTimestamp))
	}
	if filter.Kind != nil {
		where = append(where, "type = ?")
		args = append(args, string(*filter.Kind))
	}

	query := `SELECT id, amount, category, description, type, date FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []ledger.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func scanTransaction(rows *sql.Rows) (ledger.Transaction, error) {
	var (
		tx     ledger.Transaction
		id     string
		amount string
		kind   string
		date   string
	)
	if err := rows.Scan(&id, &amount, &tx.Category, &tx.Description, &kind, &date); err != nil {
		return tx, fmt.Errorf("failed to scan transaction: %w", err)
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return tx, fmt.Errorf("transaction %s: bad amount %q: %w", id, amount, err)
	}
	at, err := parseTime(date)
	if err != nil {
		return tx, fmt.Errorf("transaction %s: bad date %q: %w", id, date, err)
	}

	tx.ID = ledger.TransactionID(id)
	tx.Amount = value
	tx.Kind = ledger.Kind(kind)
	tx.Timestamp = at
	return tx, nil
}

// DeleteTransaction removes a row by ID.
func (s *Store) DeleteTransaction(ctx context.Context, id ledger.TransactionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", string(id))
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n == 0 {
		return ledger.ErrTransactionNotFound
	}
	return nil
}

// =============================================================================
// BUDGETS
// =============================================================================

// SetBudget upserts the budget for b.Category.
func (s *Store) SetBudget(ctx context.Context, b ledger.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if b.Period == "" {
		b.Period = ledger.PeriodMonthly
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (category, amount, period, created_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET
			amount = excluded.amount,
			period = excluded.period,
			created_date = excluded.created_date`,
		b.Category, b.MonthlyAmount.String(), string(b.Period), formatTime(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to set budget: %w", err)
	}
	return nil
}

// QueryBudgets returns every budget ordered by category.
func (s *Store) QueryBudgets(ctx context.Context) ([]ledger.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT category, amount, period, created_date FROM budgets ORDER BY category ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []ledger.Budget
	for rows.Next() {
		var (
			b       ledger.Budget
			amount  string
			period  string
			created string
		)
		if err := rows.Scan(&b.Category, &amount, &period, &created); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		if b.MonthlyAmount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("budget %s: bad amount %q: %w", b.Category, amount, err)
		}
		b.Period = ledger.Period(period)
		if b.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("budget %s: bad created_date %q: %w", b.Category, created, err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// =============================================================================
// CATEGORIES
// =============================================================================

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT name FROM categories ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AddCategory is a no-op when the name already exists.
func (s *Store) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ledger.ErrEmptyCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO categories (name) VALUES (?)", name); err != nil {
		return fmt.Errorf("failed to add category: %w", err)
	}
	return nil
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset clears all data and re-seeds the default categories.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM transactions",
		"DELETE FROM budgets",
		"DELETE FROM categories",
	} {
		if _, err := sqlTx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to reset: %w", err)
		}
	}
	for _, name := range ledger.DefaultCategories {
		if _, err := sqlTx.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", name); err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
	}
	return sqlTx.Commit()
}

// =============================================================================
// HELPERS
// =============================================================================

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTime accepts only timestampLayout. Window filters compare the date
// column as text, which orders correctly only for fixed-width values.
func parseTime(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}

func isUniqueConstraintError(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		se.ExtendedCode == sqlite3.ErrConstraintUnique
}

var (
	_ ledger.AdminStore    = (*Store)(nil)
	_ ledger.CategoryStore = (*Store)(nil)
)
