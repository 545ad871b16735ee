// Package store provides ledger.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/finance-advisor/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	transactions []ledger.Transaction // sorted most-recent-first
	ids          map[ledger.TransactionID]bool
	budgets      map[string]ledger.Budget
	categories   map[string]bool
}

func NewMemory() *Memory {
	m := &Memory{}
	m.resetLocked()
	return m
}

func (m *Memory) resetLocked() {
	m.transactions = nil
	m.ids = make(map[ledger.TransactionID]bool)
	m.budgets = make(map[string]ledger.Budget)
	m.categories = make(map[string]bool)
	for _, c := range ledger.DefaultCategories {
		m.categories[c] = true
	}
}

// AppendTransaction inserts tx keeping most-recent-first order.
func (m *Memory) AppendTransaction(_ context.Context, tx ledger.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ids[tx.ID] {
		return ledger.ErrDuplicateTransaction
	}

	// Equal timestamps: the later append sorts first, matching the SQLite store.
	i := sort.Search(len(m.transactions), func(i int) bool {
		return !m.transactions[i].Timestamp.After(tx.Timestamp)
	})
	m.transactions = append(m.transactions, ledger.Transaction{})
	copy(m.transactions[i+1:], m.transactions[i:])
	m.transactions[i] = tx
	m.ids[tx.ID] = true
	return nil
}

func (m *Memory) QueryTransactions(_ context.Context, filter ledger.Filter) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []ledger.Transaction
	for _, tx := range m.transactions {
		if !filter.Matches(tx) {
			continue
		}
		result = append(result, tx)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

// SetBudget upserts by category.
func (m *Memory) SetBudget(_ context.Context, b ledger.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if b.Period == "" {
		b.Period = ledger.PeriodMonthly
	}
	m.budgets[b.Category] = b
	return nil
}

func (m *Memory) QueryBudgets(_ context.Context) ([]ledger.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ledger.Budget, 0, len(m.budgets))
	for _, b := range m.budgets {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result, nil
}

func (m *Memory) DeleteTransaction(_ context.Context, id ledger.TransactionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ids[id] {
		return ledger.ErrTransactionNotFound
	}
	for i, tx := range m.transactions {
		if tx.ID == id {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			break
		}
	}
	delete(m.ids, id)
	return nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	return nil
}

func (m *Memory) ListCategories(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.categories))
	for c := range m.categories {
		names = append(names, c)
	}
	sort.Strings(names)
	return names, nil
}

func (m *Memory) AddCategory(_ context.Context, name string) error {
	if name == "" {
		return ledger.ErrEmptyCategory
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[name] = true
	return nil
}

var (
	_ ledger.AdminStore    = (*Memory)(nil)
	_ ledger.CategoryStore = (*Memory)(nil)
)
