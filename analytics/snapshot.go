/*
Package analytics computes aggregates and budget status over the ledger.

PURPOSE:
  Every computation here is a pure function of a Snapshot: the ledger
  rows at or after Since, the configured budgets, and the instant Now
  that all windows are measured back from. Recomputing with the same
  snapshot always gives the same result.

WINDOWS:
  A window of N days covers [Now - N days, Now]. Weekly buckets are
  half-open: [Now-(w+1) weeks, Now-w weeks).

SNAPSHOT HORIZON:
  A snapshot only holds rows since Since. Asking for a window that
  reaches further back fails with ErrWindowOutsideSnapshot instead of
  silently undercounting.

SEE ALSO:
  - aggregator.go: Category spend, totals, weekly series
  - budget.go: Budget utilization
  - engine.go: Loads snapshots from a ledger.Reader
*/
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/warp/finance-advisor/ledger"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// Snapshot is a read of the ledger. Transactions and budgets come from two
// separate queries; each is as consistent as the store makes it, and a
// budget write may land between them.
type Snapshot struct {
	Now          time.Time
	Since        time.Time // zero = entire ledger
	Transactions []ledger.Transaction
	Budgets      []ledger.Budget
}

// LoadSnapshot reads transactions in the trailing horizon and all budgets.
// The two queries run concurrently with no shared store transaction; either
// failure is returned unchanged.
func LoadSnapshot(ctx context.Context, r ledger.Reader, now time.Time, horizon time.Duration) (Snapshot, error) {
	if horizon <= 0 {
		return Snapshot{}, &ledger.WindowError{Unit: "days", Length: int(horizon / day)}
	}

	snap := Snapshot{Now: now, Since: now.Add(-horizon)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := r.QueryTransactions(gctx, ledger.Since(snap.Since))
		if err != nil {
			return fmt.Errorf("query transactions: %w", err)
		}
		snap.Transactions = txs
		return nil
	})
	g.Go(func() error {
		budgets, err := r.QueryBudgets(gctx)
		if err != nil {
			return fmt.Errorf("query budgets: %w", err)
		}
		snap.Budgets = budgets
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// windowStart returns the inclusive lower bound of a trailing window.
func (s Snapshot) windowStart(length time.Duration) (time.Time, error) {
	start := s.Now.Add(-length)
	if !s.Since.IsZero() && start.Before(s.Since) {
		return time.Time{}, fmt.Errorf("%w: window starts %s, snapshot since %s",
			ledger.ErrWindowOutsideSnapshot, start.Format(time.RFC3339), s.Since.Format(time.RFC3339))
	}
	return start, nil
}

// Days converts a day count to a duration.
func Days(n int) time.Duration { return time.Duration(n) * day }

// Weeks converts a week count to a duration.
func Weeks(n int) time.Duration { return time.Duration(n) * week }
