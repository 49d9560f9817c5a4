/*
resolve.go - The attendance resolution engine

PURPOSE:
  Computes exactly one status for any (employee, day) pair from five
  overlapping, priority-ordered sources. The precedence is load-bearing
  and deliberately NOT "most specific wins": organization-wide
  exceptional days beat even individually-assigned vacation or manual
  overrides.

PRECEDENCE (first match wins):
  1. Holiday flag            -> holiday
  2. Activated weekend shift -> holiday
  3. Active vacation range   -> vacation
  4. Explicit override       -> the stored value verbatim
  5. Attendance-mode default -> office / home / nothing

FAILURE SEMANTICS:
  Resolution never fails. An unknown employee resolves to no status,
  and absence of any entry is the normal "not set" state.

SEE ALSO:
  - store.go: The sections read here
  - types.go: ResolvedDay and the DayType split
*/
package attendance

// Resolver is the read side of the engine: a pure view over a Store.
// Each call takes a single read lock; no state is held between calls.
type Resolver struct {
	store *Store
}

func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the status for (id, day). StatusNone means no data:
// either the employee is unknown or nothing applies to a variable employee.
func (r *Resolver) Resolve(id EmployeeID, day Day) Status {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveLocked(id, day)
}

// ResolveDay returns the full resolution result including the day
// classification and duty roster membership. Resolve alone cannot tell a
// duty-roster member from standby staff (both show holiday); callers that
// need the distinction read DayType and OnDuty here.
func (r *Resolver) ResolveDay(id EmployeeID, day Day) ResolvedDay {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rd := ResolvedDay{
		Status:  s.resolveLocked(id, day),
		DayType: s.dayTypeLocked(day),
	}
	switch rd.DayType {
	case DayHoliday:
		rd.OnDuty = s.holidayRosters[day][id]
	case DayWeekendShift:
		rd.OnDuty = s.weekendRosters[day][id]
	}
	return rd
}

// DayType classifies day independently of any employee. The holiday check
// has strict precedence: a flagged holiday is never evaluated as a weekend
// shift even when both flags are set.
func (r *Resolver) DayType(day Day) DayType {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dayTypeLocked(day)
}

// OfficeHeadcount returns the on-site count for day. On flagged days the
// count is the duty roster size, not a scan: standby staff are at home.
func (r *Resolver) OfficeHeadcount(day Day) int {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.dayTypeLocked(day) {
	case DayHoliday:
		return len(s.holidayRosters[day])
	case DayWeekendShift:
		return len(s.weekendRosters[day])
	}

	count := 0
	for _, id := range s.order {
		if s.resolveLocked(id, day) == StatusOffice {
			count++
		}
	}
	return count
}

// PresentOnSite returns the team members resolving to office on day,
// in insertion order. The coverage analyzer builds on this.
func (r *Resolver) PresentOnSite(team string, day Day) []Employee {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Employee
	for _, id := range s.order {
		e := s.byID[id]
		if e.Team != team {
			continue
		}
		if s.resolveLocked(id, day) == StatusOffice {
			out = append(out, copyEmployee(e))
		}
	}
	return out
}

// =============================================================================
// LOCKED INTERNALS - callers hold s.mu
// =============================================================================

func (s *Store) resolveLocked(id EmployeeID, day Day) Status {
	if s.holidays[day] {
		return StatusHoliday
	}
	if day.IsWeekend() && s.weekendShifts[day] {
		return StatusHoliday
	}

	e, ok := s.byID[id]
	if !ok {
		return StatusNone
	}

	// Vacation beats manual overrides: an override written before the
	// vacation was entered must not leak through.
	if r, ok := s.vacations[id]; ok && r.Contains(day) {
		return StatusVacation
	}

	if st, ok := s.overrides[id][day]; ok {
		return st
	}

	return e.Mode.DefaultStatus()
}

func (s *Store) dayTypeLocked(day Day) DayType {
	if s.holidays[day] {
		return DayHoliday
	}
	if day.IsWeekend() && s.weekendShifts[day] {
		return DayWeekendShift
	}
	return DayNormal
}
