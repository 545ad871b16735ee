/*
Package ledger provides the transaction ledger model for the finance advisor.

PURPOSE:
  This package contains the records the rest of the system reads from:
  income and expense transactions, per-category budgets, and the query
  filter used to pull a window of the ledger. Analytics and advice are
  derived from these records and never written back.

KEY CONCEPTS IN THIS FILE (types.go):
  - Transaction: An immutable income or expense entry
  - Budget: A monthly spending limit for one category (upserted)
  - Filter: Query bounds for the ledger collaborator
  - Kind: income | expense

DESIGN PRINCIPLES:
  1. Immutability: Transactions are never modified, only deleted by an admin
  2. Precision: Uses decimal.Decimal for every amount
  3. One budget per category: SetBudget replaces, never accumulates

USAGE:
  tx, err := ledger.NewTransaction(decimal.NewFromInt(42), "Food", "groceries",
      ledger.KindExpense, time.Now())

SEE ALSO:
  - store.go: Reader/Writer interfaces
  - errors.go: Validation errors
  - store/memory.go: In-memory implementation
*/
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// KIND - Direction of money flow
// =============================================================================

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// ParseKind accepts "income" or "expense" in any case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", &ValidationError{Field: "type", Value: s, Err: ErrInvalidKind}
	}
	return k, nil
}

// =============================================================================
// TRANSACTION - Immutable ledger entry
// =============================================================================

type TransactionID string

type Transaction struct {
	ID          TransactionID
	Amount      decimal.Decimal
	Category    string
	Description string
	Kind        Kind
	Timestamp   time.Time
}

// NewTransaction validates the input and assigns a fresh ID.
// Category is accepted as-is; unknown categories are not rejected.
func NewTransaction(amount decimal.Decimal, category, description string, kind Kind, at time.Time) (Transaction, error) {
	tx := Transaction{
		ID:          TransactionID(uuid.NewString()),
		Amount:      amount,
		Category:    strings.TrimSpace(category),
		Description: description,
		Kind:        kind,
		Timestamp:   at.UTC(),
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Validate checks the invariants every stored transaction must satisfy.
func (tx Transaction) Validate() error {
	if !tx.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Value: tx.Amount.String(), Err: ErrInvalidAmount}
	}
	if tx.Category == "" {
		return &ValidationError{Field: "category", Err: ErrEmptyCategory}
	}
	if !tx.Kind.Valid() {
		return &ValidationError{Field: "type", Value: string(tx.Kind), Err: ErrInvalidKind}
	}
	return nil
}

func (tx Transaction) IsExpense() bool { return tx.Kind == KindExpense }
func (tx Transaction) IsIncome() bool  { return tx.Kind == KindIncome }

func (tx Transaction) String() string {
	return fmt.Sprintf("%s %s %s (%s)", tx.Kind, tx.Amount.StringFixed(2), tx.Category, tx.Timestamp.Format(time.RFC3339))
}

// =============================================================================
// BUDGET - Monthly limit per category
// =============================================================================

type Period string

const PeriodMonthly Period = "monthly"

type Budget struct {
	Category      string
	MonthlyAmount decimal.Decimal
	Period        Period
	CreatedAt     time.Time
}

// NewBudget builds a monthly budget. A zero amount is allowed and means
// "no limit tracked"; negative amounts are rejected.
func NewBudget(category string, amount decimal.Decimal) (Budget, error) {
	b := Budget{
		Category:      strings.TrimSpace(category),
		MonthlyAmount: amount,
		Period:        PeriodMonthly,
		CreatedAt:     time.Now().UTC(),
	}
	if err := b.Validate(); err != nil {
		return Budget{}, err
	}
	return b, nil
}

func (b Budget) Validate() error {
	if b.Category == "" {
		return &ValidationError{Field: "category", Err: ErrEmptyCategory}
	}
	if b.MonthlyAmount.IsNegative() {
		return &ValidationError{Field: "amount", Value: b.MonthlyAmount.String(), Err: ErrInvalidAmount}
	}
	return nil
}

// =============================================================================
// FILTER - Ledger query bounds
// =============================================================================

type Filter struct {
	MinTimestamp *time.Time
	Kind         *Kind
	Limit        int // 0 = no limit
}

// Since returns a filter for all transactions at or after t.
func Since(t time.Time) Filter {
	return Filter{MinTimestamp: &t}
}

// Matches reports whether tx passes the timestamp and kind bounds.
// Limit is applied by the store after ordering.
func (f Filter) Matches(tx Transaction) bool {
	if f.MinTimestamp != nil && tx.Timestamp.Before(*f.MinTimestamp) {
		return false
	}
	if f.Kind != nil && tx.Kind != *f.Kind {
		return false
	}
	return true
}

// DefaultCategories seeds a fresh ledger.
var DefaultCategories = []string{
	"Food",
	"Transportation",
	"Entertainment",
	"Utilities",
	"Healthcare",
	"Shopping",
	"Other",
}
