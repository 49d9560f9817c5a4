/*
errors.go - Centralized error types for the attendance engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match with errors.Is/errors.As; the API layer maps these
  onto HTTP status codes.

ERROR CATEGORIES:
  1. Not-found errors - Unknown employee, team, scenario
  2. Validation errors - Invalid status, day, range, mode
  3. Conflict errors - Duplicate employee

NOTE ON RESOLUTION:
  Resolve never returns an error. Unknown employees resolve to no
  status and missing entries are the normal "not set" state. Errors
  here guard the WRITE boundary only.
*/
package attendance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned by mutators referencing an unknown id.
	// Writes for unknown employees are rejected rather than stored
	// unreachably.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrDuplicateEmployee is returned when adding an id that already exists.
	ErrDuplicateEmployee = errors.New("employee id already exists")

	// ErrInvalidStatus is returned when a write carries a status outside the
	// closed set (office, home, unset).
	ErrInvalidStatus = errors.New("status not in writable set")

	// ErrInvalidDay is returned for malformed ISO date strings.
	ErrInvalidDay = errors.New("invalid day")

	// ErrInvalidRange is returned when a range has end before start.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrNotWeekend is returned when flagging a weekday as a weekend shift.
	ErrNotWeekend = errors.New("weekend shift requires a Saturday or Sunday")

	// ErrInvalidMode is returned for an unrecognized attendance mode.
	ErrInvalidMode = errors.New("invalid attendance mode")

	// ErrUnknownTemplate is returned for a template key outside the catalog.
	ErrUnknownTemplate = errors.New("unknown template key")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidStatusError reports the rejected value and where it was headed.
type InvalidStatusError struct {
	Employee EmployeeID
	Day      Day
	Value    Status
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q for %s on %s", e.Value, e.Employee, e.Day)
}

func (e *InvalidStatusError) Unwrap() error { return ErrInvalidStatus }

// InvalidDayError reports a date string that failed to parse.
type InvalidDayError struct {
	Input string
}

func (e *InvalidDayError) Error() string {
	return fmt.Sprintf("invalid day %q: want YYYY-MM-DD", e.Input)
}

func (e *InvalidDayError) Unwrap() error { return ErrInvalidDay }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidDay) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrNotWeekend) ||
		errors.Is(err, ErrInvalidMode) ||
		errors.Is(err, ErrUnknownTemplate)
}

// IsConflict returns true if the error indicates a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateEmployee)
}
