/*
store.go - Persistence interfaces for transactions and budgets

PURPOSE:
  Defines the boundary between the analytics engine and whatever holds
  the ledger. The engine only needs Reader; the API and CLI also write.

KEY INTERFACES:
  Reader:        Transaction and budget queries (all the engine uses)
  Writer:        Append transaction, upsert budget
  Store:         Reader + Writer
  AdminStore:    Store + delete/reset
  CategoryStore: Known category names

ORDERING CONTRACT:
  QueryTransactions returns most-recent-first.
  QueryBudgets returns budgets ordered by category name. Budget-driven
  advice follows this order, so it must be stable.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - ledger/store/memory.go: In-memory for testing
*/
package ledger

import "context"

// Reader is the query surface the analytics engine consumes.
type Reader interface {
	// QueryTransactions returns matching transactions, most recent first.
	QueryTransactions(ctx context.Context, filter Filter) ([]Transaction, error)

	// QueryBudgets returns every configured budget ordered by category.
	QueryBudgets(ctx context.Context) ([]Budget, error)
}

// Writer appends transactions and upserts budgets.
type Writer interface {
	AppendTransaction(ctx context.Context, tx Transaction) error

	// SetBudget replaces any existing budget for the same category.
	SetBudget(ctx context.Context, b Budget) error
}

type Store interface {
	Reader
	Writer
}

// AdminStore adds destructive operations used by administrative endpoints.
type AdminStore interface {
	Store

	// DeleteTransaction removes a transaction. Returns ErrTransactionNotFound
	// if the ID does not exist.
	DeleteTransaction(ctx context.Context, id TransactionID) error

	// Reset clears transactions and budgets. Categories are re-seeded.
	Reset(ctx context.Context) error
}

type CategoryStore interface {
	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string) error
}
