/*
Package attendance provides the core attendance tracking engine.

PURPOSE:
  This package contains the domain model and the resolution engine for
  per-employee, per-day attendance. Given overlapping data sources
  (holiday flags, weekend duty shifts, vacations, manual overrides and
  structural attendance modes) it computes exactly one status for any
  (employee, day) pair.

KEY CONCEPTS IN THIS FILE (types.go):
  - Status: A resolved or assigned attendance value (office, home, ...)
  - AttendanceMode: An employee's structural default behavior
  - WorkingHours: One of the fixed daily start/end windows
  - Employee: The entity all stores are keyed by
  - ChangeEntry: Append-only audit record written by every mutation

DESIGN PRINCIPLES:
  1. One store: all override sections live in a single Store aggregate,
     so cross-section invariants are enforced in one place.
  2. Closed status set: writes are validated at the boundary; readers
     never see a status outside the enumeration.
  3. Determinism: resolution is a pure function of store contents.

SEE ALSO:
  - store.go: The Store aggregate and its mutators
  - resolve.go: The resolution engine and headcount
  - day.go: Day/DayRange calendar types
*/
package attendance

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string

// NewEmployeeID mints a fresh identifier for records created without one.
func NewEmployeeID() EmployeeID {
	return EmployeeID("emp-" + uuid.NewString())
}

// =============================================================================
// STATUS - The resolved attendance value
// =============================================================================

// Status is an attendance value. The zero value ("") means "no status":
// nothing resolved and nothing written. StatusUnset is different: it is an
// explicit blank written by a clearing pass, distinguishable from never
// having decided.
type Status string

const (
	StatusNone     Status = ""
	StatusOffice   Status = "office"
	StatusHome     Status = "home"
	StatusVacation Status = "vacation"
	StatusHoliday  Status = "holiday"
	StatusUnset    Status = "unset"
)

// writableStatuses is the closed set accepted by SetStatus and write sets.
// Vacation and holiday are derived from their own store sections and cannot
// be written as overrides.
var writableStatuses = map[Status]bool{
	StatusOffice: true,
	StatusHome:   true,
	StatusUnset:  true,
}

// Writable reports whether s may be stored as a schedule override.
func (s Status) Writable() bool { return writableStatuses[s] }

// Resolved reports whether s carries information. StatusNone and the
// explicit StatusUnset sentinel both count as unresolved for reporting.
func (s Status) Resolved() bool { return s != StatusNone && s != StatusUnset }

// Label returns the human-readable form used in change log descriptions.
func (s Status) Label() string {
	switch s {
	case StatusOffice:
		return "On-site"
	case StatusHome:
		return "Remote"
	case StatusVacation:
		return "Vacation"
	case StatusHoliday:
		return "Holiday/Shift"
	case StatusUnset:
		return "Cleared"
	default:
		return "No status"
	}
}

// =============================================================================
// ATTENDANCE MODE - Structural default per employee
// =============================================================================

type AttendanceMode string

const (
	ModeAlwaysOffice AttendanceMode = "always_office"
	ModeAlwaysHome   AttendanceMode = "always_home"
	ModeVariable     AttendanceMode = "variable"
)

func (m AttendanceMode) Valid() bool {
	switch m {
	case ModeAlwaysOffice, ModeAlwaysHome, ModeVariable:
		return true
	}
	return false
}

// DefaultStatus returns the status an employee resolves to when no
// override applies. Variable employees have no intrinsic default.
func (m AttendanceMode) DefaultStatus() Status {
	switch m {
	case ModeAlwaysOffice:
		return StatusOffice
	case ModeAlwaysHome:
		return StatusHome
	default:
		return StatusNone
	}
}

// =============================================================================
// WORKING HOURS - Fixed enumerated daily windows
// =============================================================================

// WorkingHours is a daily start/end window in whole hours.
type WorkingHours struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

var (
	Hours9to17  = WorkingHours{Start: 9, End: 17}
	Hours10to18 = WorkingHours{Start: 10, End: 18}
	Hours11to19 = WorkingHours{Start: 11, End: 19}

	DefaultWorkingHours = Hours9to17

	// WorkingHoursOptions is the fixed set employees may choose from.
	WorkingHoursOptions = []WorkingHours{Hours9to17, Hours10to18, Hours11to19}
)

func (w WorkingHours) Valid() bool {
	for _, o := range WorkingHoursOptions {
		if w == o {
			return true
		}
	}
	return false
}

// Covers reports whether the window fully contains [start, end).
func (w WorkingHours) Covers(start, end int) bool {
	return w.Start <= start && w.End >= end
}

// =============================================================================
// EMPLOYEE
// =============================================================================

type Employee struct {
	ID        EmployeeID   `json:"id"`
	Name      string       `json:"name"`
	Team      string       `json:"team"` // free-text grouping, "" = unassigned
	IsManager bool         `json:"is_manager"`
	Hours     WorkingHours `json:"hours"`

	// OfficeDays is the advisory on-site days/week target (1-5). It is never
	// enforced; templates use it as a tie-break signal during reconciliation.
	OfficeDays int `json:"office_days"`

	// PreferHomeDays marks weekdays the employee prefers to work remotely.
	PreferHomeDays map[time.Weekday]bool `json:"prefer_home_days,omitempty"`

	Mode AttendanceMode `json:"mode"`
}

// PrefersHome reports whether the employee marked wd as a preferred-remote day.
func (e Employee) PrefersHome(wd time.Weekday) bool {
	return e.PreferHomeDays[wd]
}

// =============================================================================
// DAY TYPE - Day classification, separate from the per-employee status
// =============================================================================

// DayType classifies a calendar day independently of any employee.
// This keeps "what kind of day is it" separate from "is this person on duty",
// instead of overloading the holiday status value with both meanings.
type DayType string

const (
	DayNormal       DayType = "normal"
	DayHoliday      DayType = "holiday"
	DayWeekendShift DayType = "weekend_shift"
)

// ResolvedDay is the full resolution result for one (employee, day) pair.
// Status alone answers "what shows in the cell"; DayType and OnDuty let
// callers distinguish duty-roster members from standby staff.
type ResolvedDay struct {
	Status  Status  `json:"status"`
	DayType DayType `json:"day_type"`
	OnDuty  bool    `json:"on_duty"`
}

// =============================================================================
// CHANGE LOG
// =============================================================================

// ChangeEntry is an append-only audit record. Purely observational:
// no algorithm ever reads the change log back.
type ChangeEntry struct {
	ID          string    `json:"id"`
	At          time.Time `json:"at"`
	Description string    `json:"description"`
}

// changeLogCap bounds the retained history to the most recent entries.
const changeLogCap = 100

// =============================================================================
// WRITE SET - Atomic batch of schedule override writes
// =============================================================================

// Assignment is one (employee, day) -> status decision.
type Assignment struct {
	Employee EmployeeID `json:"employee"`
	Day      Day        `json:"day"`
	Status   Status     `json:"status"`
}

// WriteSet is an ordered batch of assignments produced by a template planner.
// Planners are pure; the only way their output reaches the store is through
// Store.ApplyWriteSet, which applies the whole batch under one lock so no
// reader ever observes a half-applied template run.
type WriteSet []Assignment
