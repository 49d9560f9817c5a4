/*
store.go - The Store aggregate owning every override section

PURPOSE:
  One aggregate owns every override section (schedules, vacations,
  holidays, duty rosters) rather than passing independent maps around.
  Cross-section invariants - e.g. "a holiday date is never also
  evaluated as a weekend shift" - are enforced here, in one place,
  instead of being reconstructed by every caller.

SECTIONS:
  employees:       identity records, insertion-ordered
  overrides:       employee -> day -> explicit status
  vacations:       employee -> single active inclusive range
  holidays:        org-wide holiday flags + per-date duty rosters
  weekend shifts:  activated Saturday/Sunday flags + duty rosters
  change log:      capped audit trail, newest first

WRITE DISCIPLINE:
  Every mutator validates, then writes, then appends a change log
  entry, all under one lock. ApplyWriteSet applies a whole template
  batch the same way: a concurrent reader sees either none of the
  batch or all of it, never day 3 of 20.

CONCURRENCY:
  sync.RWMutex. Readers (resolution, coverage, reports) take the read
  lock through the accessor methods; there is no other way in.

SEE ALSO:
  - resolve.go: The read side built on these accessors
  - types.go: Section value types
*/
package attendance

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store owns all attendance state for one logical session.
type Store struct {
	mu sync.RWMutex

	order []EmployeeID
	byID  map[EmployeeID]Employee

	overrides map[EmployeeID]map[Day]Status
	vacations map[EmployeeID]DayRange

	holidays       map[Day]bool
	holidayRosters map[Day]map[EmployeeID]bool

	weekendShifts  map[Day]bool
	weekendRosters map[Day]map[EmployeeID]bool

	changes []ChangeEntry

	now func() time.Time // injectable for deterministic change log tests
}

func NewStore() *Store {
	return &Store{
		byID:           make(map[EmployeeID]Employee),
		overrides:      make(map[EmployeeID]map[Day]Status),
		vacations:      make(map[EmployeeID]DayRange),
		holidays:       make(map[Day]bool),
		holidayRosters: make(map[Day]map[EmployeeID]bool),
		weekendShifts:  make(map[Day]bool),
		weekendRosters: make(map[Day]map[EmployeeID]bool),
		now:            time.Now,
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// AddEmployee registers a new employee. Zero-value fields get defaults:
// variable mode, 9-17 hours, 3 advisory office days.
func (s *Store) AddEmployee(e Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = NewEmployeeID()
	}
	if _, ok := s.byID[e.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEmployee, e.ID)
	}
	normalizeEmployee(&e)
	if !e.Mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, e.Mode)
	}

	s.byID[e.ID] = e
	s.order = append(s.order, e.ID)
	s.appendChange(fmt.Sprintf("Added employee %s", e.Name))
	return nil
}

// ImportEmployees bulk-creates employees from bare names. Each becomes a
// variable-mode employee with default hours and no team assignment.
func (s *Store) ImportEmployees(names []string) []EmployeeID {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []EmployeeID
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		e := Employee{ID: NewEmployeeID(), Name: name}
		normalizeEmployee(&e)
		s.byID[e.ID] = e
		s.order = append(s.order, e.ID)
		ids = append(ids, e.ID)
	}
	if len(ids) > 0 {
		s.appendChange(fmt.Sprintf("Imported %d employees", len(ids)))
	}
	return ids
}

// UpdateEmployee replaces the record with the same ID in place.
func (s *Store) UpdateEmployee(e Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[e.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrEmployeeNotFound, e.ID)
	}
	normalizeEmployee(&e)
	if !e.Mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, e.Mode)
	}
	s.byID[e.ID] = e
	s.appendChange(fmt.Sprintf("Updated employee %s", e.Name))
	return nil
}

// RemoveEmployee deletes the employee and cascades: schedule overrides,
// the vacation record, and any duty roster memberships go with it.
func (s *Store) RemoveEmployee(id EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	delete(s.overrides, id)
	delete(s.vacations, id)
	for _, roster := range s.holidayRosters {
		delete(roster, id)
	}
	for _, roster := range s.weekendRosters {
		delete(roster, id)
	}
	s.appendChange(fmt.Sprintf("Removed employee %s", e.Name))
	return nil
}

// Employee returns a copy of the record for id.
func (s *Store) Employee(id EmployeeID) (Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	return copyEmployee(e), ok
}

// Employees returns all employees in insertion order.
func (s *Store) Employees() []Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Employee, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, copyEmployee(s.byID[id]))
	}
	return out
}

// TeamMembers returns the employees in the given team, insertion order.
func (s *Store) TeamMembers(team string) []Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Employee
	for _, id := range s.order {
		if e := s.byID[id]; e.Team == team {
			out = append(out, copyEmployee(e))
		}
	}
	return out
}

// Teams returns the distinct non-empty team names, sorted.
func (s *Store) Teams() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, id := range s.order {
		team := s.byID[id].Team
		if team != "" && !seen[team] {
			seen[team] = true
			out = append(out, team)
		}
	}
	sort.Strings(out)
	return out
}

func normalizeEmployee(e *Employee) {
	if e.Mode == "" {
		e.Mode = ModeVariable
	}
	if e.Hours == (WorkingHours{}) {
		e.Hours = DefaultWorkingHours
	}
	if e.OfficeDays < 1 || e.OfficeDays > 5 {
		e.OfficeDays = 3
	}
}

func copyEmployee(e Employee) Employee {
	if e.PreferHomeDays != nil {
		prefs := make(map[time.Weekday]bool, len(e.PreferHomeDays))
		for wd, v := range e.PreferHomeDays {
			prefs[wd] = v
		}
		e.PreferHomeDays = prefs
	}
	return e
}

// =============================================================================
// SCHEDULE OVERRIDES
// =============================================================================

// SetStatus writes an explicit override for (id, day). The status must be in
// the writable set; vacation and holiday are derived values and are rejected
// here. Unknown employees are rejected instead of being stored unreachably.
func (s *Store) SetStatus(id EmployeeID, day Day, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
	}
	if !status.Writable() {
		return &InvalidStatusError{Employee: id, Day: day, Value: status}
	}
	s.setStatusLocked(id, day, status)
	s.appendChange(fmt.Sprintf("%s: %s on %s", e.Name, status.Label(), day))
	return nil
}

// ClearStatus removes the override entry for (id, day), returning the pair
// to its "never set" state.
func (s *Store) ClearStatus(id EmployeeID, day Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
	}
	if days, ok := s.overrides[id]; ok {
		delete(days, day)
		if len(days) == 0 {
			delete(s.overrides, id)
		}
	}
	s.appendChange(fmt.Sprintf("%s: override cleared on %s", e.Name, day))
	return nil
}

// Override returns the explicit entry for (id, day), if any.
func (s *Store) Override(id EmployeeID, day Day) (Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.overrides[id][day]
	return st, ok
}

// ApplyWriteSet applies a planner's output as one atomic batch: everything is
// validated first, then written under a single lock acquisition with a single
// change log entry. An invalid assignment fails the whole batch with nothing
// written.
func (s *Store) ApplyWriteSet(label string, ws WriteSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range ws {
		if _, ok := s.byID[a.Employee]; !ok {
			return fmt.Errorf("%w: %s", ErrEmployeeNotFound, a.Employee)
		}
		if !a.Status.Writable() {
			return &InvalidStatusError{Employee: a.Employee, Day: a.Day, Value: a.Status}
		}
	}
	for _, a := range ws {
		s.setStatusLocked(a.Employee, a.Day, a.Status)
	}
	s.appendChange(fmt.Sprintf("Template %q: %d assignments applied", label, len(ws)))
	return nil
}

func (s *Store) setStatusLocked(id EmployeeID, day Day, status Status) {
	days, ok := s.overrides[id]
	if !ok {
		days = make(map[Day]Status)
		s.overrides[id] = days
	}
	days[day] = status
}

// =============================================================================
// VACATIONS
// =============================================================================

// SetVacation sets the single active vacation range for id, replacing any
// previous one. Both ends are inclusive.
func (s *Store) SetVacation(id EmployeeID, r DayRange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
	}
	if !r.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidRange, r)
	}
	s.vacations[id] = r
	s.appendChange(fmt.Sprintf("%s: vacation %s", e.Name, r))
	return nil
}

func (s *Store) ClearVacation(id EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
	}
	delete(s.vacations, id)
	s.appendChange(fmt.Sprintf("%s: vacation cleared", e.Name))
	return nil
}

func (s *Store) Vacation(id EmployeeID) (DayRange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.vacations[id]
	return r, ok
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SetHoliday flags day as an organization-wide holiday with the given duty
// roster (may be empty). Unknown roster members are dropped silently.
func (s *Store) SetHoliday(day Day, roster []EmployeeID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.holidays[day] = true
	s.holidayRosters[day] = s.knownSet(roster)
	s.appendChange(fmt.Sprintf("Holiday on %s (%d on duty)", day, len(s.holidayRosters[day])))
}

func (s *Store) ClearHoliday(day Day) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.holidays, day)
	delete(s.holidayRosters, day)
	s.appendChange(fmt.Sprintf("Holiday removed on %s", day))
}

func (s *Store) IsHoliday(day Day) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.holidays[day]
}

// Holidays returns all flagged days, sorted.
func (s *Store) Holidays() []Day {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedDays(s.holidays)
}

// HolidayRoster returns the duty roster for day, sorted by id.
func (s *Store) HolidayRoster(day Day) []EmployeeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedIDs(s.holidayRosters[day])
}

// =============================================================================
// WEEKEND SHIFTS
// =============================================================================

// SetWeekendShift activates a Saturday/Sunday date as a duty shift with the
// given roster. Weekday dates are rejected; holiday flags make this section
// irrelevant for the same date by resolution precedence.
func (s *Store) SetWeekendShift(day Day, roster []EmployeeID) error {
	if !day.IsWeekend() {
		return fmt.Errorf("%w: %s is a %s", ErrNotWeekend, day, day.Weekday())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.weekendShifts[day] = true
	s.weekendRosters[day] = s.knownSet(roster)
	s.appendChange(fmt.Sprintf("Weekend shift on %s (%d on duty)", day, len(s.weekendRosters[day])))
	return nil
}

func (s *Store) ClearWeekendShift(day Day) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.weekendShifts, day)
	delete(s.weekendRosters, day)
	s.appendChange(fmt.Sprintf("Weekend shift removed on %s", day))
}

func (s *Store) IsWeekendShift(day Day) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weekendShifts[day]
}

func (s *Store) WeekendShifts() []Day {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedDays(s.weekendShifts)
}

func (s *Store) WeekendRoster(day Day) []EmployeeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedIDs(s.weekendRosters[day])
}

func (s *Store) knownSet(ids []EmployeeID) map[EmployeeID]bool {
	set := make(map[EmployeeID]bool)
	for _, id := range ids {
		if _, ok := s.byID[id]; ok {
			set[id] = true
		}
	}
	return set
}

// =============================================================================
// CHANGE LOG
// =============================================================================

// Changes returns the retained change log, newest first.
func (s *Store) Changes() []ChangeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ChangeEntry, len(s.changes))
	copy(out, s.changes)
	return out
}

// appendChange prepends an entry and trims to the cap. Callers hold the lock.
func (s *Store) appendChange(desc string) {
	entry := ChangeEntry{ID: uuid.NewString(), At: s.now(), Description: desc}
	s.changes = append([]ChangeEntry{entry}, s.changes...)
	if len(s.changes) > changeLogCap {
		s.changes = s.changes[:changeLogCap]
	}
}

// =============================================================================
// SNAPSHOT / RESTORE - Contract with the persistence layer
// =============================================================================

// Snapshot is the serializable image of every store section. The engine does
// not care where it goes: the sqlite store flushes it out and loads it back,
// and that is the entire persistence contract.
type Snapshot struct {
	Employees      []Employee                    `json:"employees"`
	Overrides      map[EmployeeID]map[Day]Status `json:"overrides"`
	Vacations      map[EmployeeID]DayRange       `json:"vacations"`
	Holidays       []Day                         `json:"holidays"`
	HolidayRosters map[Day][]EmployeeID          `json:"holiday_rosters"`
	WeekendShifts  []Day                         `json:"weekend_shifts"`
	WeekendRosters map[Day][]EmployeeID          `json:"weekend_rosters"`
	Changes        []ChangeEntry                 `json:"changes"`
}

// Snapshot captures the full store state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Overrides:      make(map[EmployeeID]map[Day]Status),
		Vacations:      make(map[EmployeeID]DayRange),
		HolidayRosters: make(map[Day][]EmployeeID),
		WeekendRosters: make(map[Day][]EmployeeID),
		Holidays:       sortedDays(s.holidays),
		WeekendShifts:  sortedDays(s.weekendShifts),
	}
	for _, id := range s.order {
		snap.Employees = append(snap.Employees, copyEmployee(s.byID[id]))
	}
	for id, days := range s.overrides {
		m := make(map[Day]Status, len(days))
		for d, st := range days {
			m[d] = st
		}
		snap.Overrides[id] = m
	}
	for id, r := range s.vacations {
		snap.Vacations[id] = r
	}
	for d, roster := range s.holidayRosters {
		snap.HolidayRosters[d] = sortedIDs(roster)
	}
	for d, roster := range s.weekendRosters {
		snap.WeekendRosters[d] = sortedIDs(roster)
	}
	snap.Changes = append(snap.Changes, s.changes...)
	return snap
}

// Restore replaces the entire store contents with the snapshot.
// No change log entry is written; the log itself is part of the snapshot.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.byID = make(map[EmployeeID]Employee)
	for _, e := range snap.Employees {
		normalizeEmployee(&e)
		s.byID[e.ID] = copyEmployee(e)
		s.order = append(s.order, e.ID)
	}

	s.overrides = make(map[EmployeeID]map[Day]Status)
	for id, days := range snap.Overrides {
		m := make(map[Day]Status, len(days))
		for d, st := range days {
			m[d] = st
		}
		s.overrides[id] = m
	}

	s.vacations = make(map[EmployeeID]DayRange)
	for id, r := range snap.Vacations {
		s.vacations[id] = r
	}

	s.holidays = make(map[Day]bool)
	s.holidayRosters = make(map[Day]map[EmployeeID]bool)
	for _, d := range snap.Holidays {
		s.holidays[d] = true
	}
	for d, roster := range snap.HolidayRosters {
		set := make(map[EmployeeID]bool, len(roster))
		for _, id := range roster {
			set[id] = true
		}
		s.holidayRosters[d] = set
	}

	s.weekendShifts = make(map[Day]bool)
	s.weekendRosters = make(map[Day]map[EmployeeID]bool)
	for _, d := range snap.WeekendShifts {
		s.weekendShifts[d] = true
	}
	for d, roster := range snap.WeekendRosters {
		set := make(map[EmployeeID]bool, len(roster))
		for _, id := range roster {
			set[id] = true
		}
		s.weekendRosters[d] = set
	}

	s.changes = append([]ChangeEntry(nil), snap.Changes...)
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

func sortedDays(set map[Day]bool) []Day {
	out := make([]Day, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedIDs(set map[EmployeeID]bool) []EmployeeID {
	out := make([]EmployeeID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
