/*
errors.go - Centralized error types for the ledger and analytics

PURPOSE:
  All error types in one place. Analytics and API packages wrap or
  classify these with errors.Is / errors.As.

ERROR CATEGORIES:
  1. Validation errors - bad amounts, kinds, categories, windows
  2. Lookup errors - unknown transaction IDs
  3. Store errors - wrapped database failures (not defined here)

NOT ERRORS:
  Zero budgets and zero income are defined to produce 0 percentages.
  They never surface as errors.
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidWindow is returned when a window length is not positive or
	// exceeds the cap for its unit.
	ErrInvalidWindow = errors.New("invalid window length")

	// ErrWindowOutsideSnapshot is returned when a window reaches further back
	// than the loaded snapshot covers.
	ErrWindowOutsideSnapshot = errors.New("window exceeds snapshot horizon")

	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid transaction type: must be income or expense")
	ErrEmptyCategory = errors.New("category is required")

	// ErrTransactionNotFound is returned by admin deletes of unknown IDs.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDuplicateTransaction is returned when an ID is appended twice.
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// WindowError reports the offending window length.
type WindowError struct {
	Unit   string // "days" or "weeks"
	Length int
	Max    int // cap for Unit; zero when the length was not positive
}

func (e *WindowError) Error() string {
	if e.Max > 0 {
		return fmt.Sprintf("invalid window: %d %s (must be at most %d)", e.Length, e.Unit, e.Max)
	}
	return fmt.Sprintf("invalid window: %d %s (must be positive)", e.Length, e.Unit)
}

func (e *WindowError) Unwrap() error {
	return ErrInvalidWindow
}

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Window caps, roughly a century in either unit.
const (
	MaxWindowDays  = 36500
	MaxWindowWeeks = 5200
)

// CheckWindow returns a *WindowError when length is not positive or exceeds
// the cap for unit ("days" or "weeks"). Lengths that pass convert to a
// time.Duration without overflow.
func CheckWindow(length int, unit string) error {
	if length <= 0 {
		return &WindowError{Unit: unit, Length: length}
	}
	limit := MaxWindowDays
	if unit == "weeks" {
		limit = MaxWindowWeeks
	}
	if length > limit {
		return &WindowError{Unit: unit, Length: length, Max: limit}
	}
	return nil
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidWindow) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrEmptyCategory) ||
		errors.Is(err, ErrDuplicateTransaction)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTransactionNotFound)
}
