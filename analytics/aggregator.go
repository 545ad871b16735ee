package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/finance-advisor/ledger"
)

// =============================================================================
// CATEGORY SPEND
// =============================================================================

// CategorySpend maps category to summed expense amount. Categories with no
// expense in the window are absent, not zero.
type CategorySpend map[string]decimal.Decimal

// Total sums every category.
func (c CategorySpend) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range c {
		total = total.Add(v)
	}
	return total
}

// Categories returns the category names in lexicographic order.
func (c CategorySpend) Categories() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Top returns the category with the highest total. Ties go to the
// lexicographically smallest name. ok is false when c is empty.
func (c CategorySpend) Top() (category string, amount decimal.Decimal, ok bool) {
	for _, name := range c.Categories() {
		v := c[name]
		if !ok || v.GreaterThan(amount) {
			category, amount, ok = name, v, true
		}
	}
	return category, amount, ok
}

// SpendingByCategory sums expenses with timestamp >= Now - windowDays.
func SpendingByCategory(s Snapshot, windowDays int) (CategorySpend, error) {
	if err := ledger.CheckWindow(windowDays, "days"); err != nil {
		return nil, err
	}
	start, err := s.windowStart(Days(windowDays))
	if err != nil {
		return nil, err
	}

	spend := make(CategorySpend)
	for _, tx := range s.Transactions {
		if !tx.IsExpense() || tx.Timestamp.Before(start) {
			continue
		}
		spend[tx.Category] = spend[tx.Category].Add(tx.Amount)
	}
	return spend, nil
}

// =============================================================================
// INCOME VS EXPENSES
// =============================================================================

type Totals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// Net is income minus expenses; negative on a deficit.
func (t Totals) Net() decimal.Decimal { return t.Income.Sub(t.Expenses) }

// IncomeVsExpenses sums each kind independently over the window.
func IncomeVsExpenses(s Snapshot, windowDays int) (Totals, error) {
	if err := ledger.CheckWindow(windowDays, "days"); err != nil {
		return Totals{}, err
	}
	start, err := s.windowStart(Days(windowDays))
	if err != nil {
		return Totals{}, err
	}

	totals := Totals{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, tx := range s.Transactions {
		if tx.Timestamp.Before(start) {
			continue
		}
		switch tx.Kind {
		case ledger.KindIncome:
			totals.Income = totals.Income.Add(tx.Amount)
		case ledger.KindExpense:
			totals.Expenses = totals.Expenses.Add(tx.Amount)
		}
	}
	return totals, nil
}

// CountSince counts transactions of either kind in the window.
func CountSince(s Snapshot, windowDays int) (int, error) {
	if err := ledger.CheckWindow(windowDays, "days"); err != nil {
		return 0, err
	}
	start, err := s.windowStart(Days(windowDays))
	if err != nil {
		return 0, err
	}

	n := 0
	for _, tx := range s.Transactions {
		if !tx.Timestamp.Before(start) {
			n++
		}
	}
	return n, nil
}

// =============================================================================
// WEEKLY SERIES
// =============================================================================

type WeeklyPoint struct {
	Index  int // 0 = most recent week
	Label  string
	Start  time.Time // inclusive
	End    time.Time // exclusive
	Amount decimal.Decimal
}

// WeeklySeries buckets expenses into numWeeks trailing weeks. Entry w covers
// [Now-(w+1) weeks, Now-w weeks) and is labeled "Week numWeeks-w". The result
// always has numWeeks entries; empty weeks carry zero.
func WeeklySeries(s Snapshot, numWeeks int) ([]WeeklyPoint, error) {
	if err := ledger.CheckWindow(numWeeks, "weeks"); err != nil {
		return nil, err
	}
	if _, err := s.windowStart(Weeks(numWeeks)); err != nil {
		return nil, err
	}

	points := make([]WeeklyPoint, numWeeks)
	for w := range points {
		points[w] = WeeklyPoint{
			Index:  w,
			Label:  fmt.Sprintf("Week %d", numWeeks-w),
			Start:  s.Now.Add(-Weeks(w + 1)),
			End:    s.Now.Add(-Weeks(w)),
			Amount: decimal.Zero,
		}
	}

	for _, tx := range s.Transactions {
		if !tx.IsExpense() {
			continue
		}
		age := s.Now.Sub(tx.Timestamp)
		if age <= 0 {
			// At or after Now: outside every half-open bucket.
			continue
		}
		// age in (w weeks, w+1 weeks] lands in bucket w.
		w := int((age - 1) / week)
		if w >= numWeeks {
			continue
		}
		points[w].Amount = points[w].Amount.Add(tx.Amount)
	}
	return points, nil
}
