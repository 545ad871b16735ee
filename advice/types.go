/*
Package advice turns ledger aggregates into an ordered list of insights.

PURPOSE:
  A fixed battery of independent rules runs in priority order over one
  snapshot's aggregates. Each rule returns zero or more items (only the
  per-budget rules can return several). The driver concatenates them in
  rule order; that order is the display order.

RULE ORDER:
   1. deficit         expenses > income > 0
   2. surplus         income > expenses, income > 0
   3. over-budget     per budget, used > 100%
   4. near-budget     per budget, 80% < used <= 100%
   5. top category    any expense in the window
   6. concentration   top category > 30% of income
   7. savings rate    < 0 urgent, [0,10) goal, >= 20 excellent
   8. frequency       > 20 transactions in 7 days
   9. emergency fund  expenses > 0
  10. fallback        nothing else fired

NUMBERS:
  Item.Value is the exact decimal the rule computed. Messages round for
  display only: currency to 2 places, percentages to 1.

SEE ALSO:
  - rules.go: Rule implementations
  - engine.go: Snapshot loading and evaluation
*/
package advice

import (
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindAlert         Kind = "alert"
	KindPositive      Kind = "positive"
	KindWarning       Kind = "warning"
	KindCaution       Kind = "caution"
	KindInfo          Kind = "info"
	KindInsight       Kind = "insight"
	KindUrgent        Kind = "urgent"
	KindGoal          Kind = "goal"
	KindExcellent     Kind = "excellent"
	KindBehavioral    Kind = "behavioral"
	KindPlanning      Kind = "planning"
	KindEncouragement Kind = "encouragement"
)

// Item is one piece of generated guidance.
type Item struct {
	Kind       Kind
	Icon       string
	Message    string
	Suggestion string           // may be empty
	Value      *decimal.Decimal // figure behind the message, nil for fallback
	Category   string           // set by category rules
}

func valueOf(d decimal.Decimal) *decimal.Decimal { return &d }

// Kinds returns the item kinds in order. Handy for logs and tests.
func Kinds(items []Item) []Kind {
	kinds := make([]Kind, len(items))
	for i, it := range items {
		kinds[i] = it.Kind
	}
	return kinds
}
