/*
template.go - Template distribution planners

PURPOSE:
  Bulk-assigns office/home statuses across a date range for a cohort of
  employees. Three planners:

  PlanBalanced:        weekly-ratio templates with optional preference
                       respect and per-date target reconciliation
  PlanManagerRotation: guarantees a minimum number of managers on-site
                       every weekday, rotating the burden evenly
  PlanManual:          clear-to-blank, all-office, all-home, or a seeded
                       random 50/50 split

SCOPE RULES (all planners):
  - Weekday dates only; Saturday/Sunday are governed by shift flags
  - Variable-mode employees only; always_office/always_home are already
    determined structurally and are never touched
  - Empty cohort or weekday-free range yields an empty WriteSet

DETERMINISM:
  Cohort order is the caller's target order. All selection offsets and
  tie-breaks derive from cohort index and date index, so the same inputs
  always produce the same WriteSet. The one random variant takes an
  injected *rand.Rand so tests can fix the seed.
*/
package planning

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/warp/attendance-engine/attendance"
)

// ErrUnknownVariant is returned by PlanManual for a variant outside the set.
var ErrUnknownVariant = errors.New("unknown manual variant")

// ErrNilRand is returned when the random variant is used without a source.
var ErrNilRand = errors.New("random split requires a rand source")

var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

// =============================================================================
// BALANCED TEMPLATE
// =============================================================================

// PlanBalanced produces the write set for a weekly-ratio template.
//
// Step 1 assigns each cohort member a set of named on-site weekdays. With
// respectPreferences the selection starts from the complement of the
// employee's preferred-remote days, cycling at an offset equal to the cohort
// index so the favorable days rotate across the team; if that cannot fill the
// required count the remainder comes from the full week. Without preferences
// it is a plain round-robin offset by cohort index.
//
// Step 2, when targetOffice > 0, reconciles each calendar date independently
// against the organization-wide on-site target: under target flips remote
// members with the highest advisory OfficeDays first, over target flips
// on-site members with the lowest advisory OfficeDays first.
func PlanBalanced(store *attendance.Store, key TemplateKey, targets []attendance.EmployeeID, respectPreferences bool, r attendance.DayRange, targetOffice int) (attendance.WriteSet, error) {
	tmpl, err := Lookup(key)
	if err != nil {
		return nil, err
	}

	cohort := variableCohort(store, targets)
	weekdays := r.Weekdays()
	if len(cohort) == 0 || len(weekdays) == 0 {
		return nil, nil
	}

	// Step 1: per-person weekday selection.
	onSite := make([]map[time.Weekday]bool, len(cohort))
	for i, e := range cohort {
		onSite[i] = selectOfficeWeekdays(e, i, tmpl.officeCountFor(i), respectPreferences)
	}

	// Materialize per-date decisions for the whole range.
	plan := make([]map[attendance.EmployeeID]attendance.Status, len(weekdays))
	for di, day := range weekdays {
		decisions := make(map[attendance.EmployeeID]attendance.Status, len(cohort))
		for i, e := range cohort {
			if onSite[i][day.Weekday()] {
				decisions[e.ID] = attendance.StatusOffice
			} else {
				decisions[e.ID] = attendance.StatusHome
			}
		}
		plan[di] = decisions
	}

	// Step 2: per-date reconciliation toward the office target.
	if targetOffice > 0 {
		alwaysOffice := 0
		for _, e := range store.Employees() {
			if e.Mode == attendance.ModeAlwaysOffice {
				alwaysOffice++
			}
		}
		neededVariable := targetOffice - alwaysOffice
		if neededVariable < 0 {
			neededVariable = 0
		}
		for _, decisions := range plan {
			reconcileDate(cohort, decisions, neededVariable)
		}
	}

	return buildWriteSet(cohort, weekdays, plan), nil
}

// selectOfficeWeekdays picks count named weekdays for the employee at
// cohort index idx.
func selectOfficeWeekdays(e attendance.Employee, idx, count int, respectPreferences bool) map[time.Weekday]bool {
	selected := make(map[time.Weekday]bool, count)

	if respectPreferences && len(e.PreferHomeDays) > 0 {
		var candidates []time.Weekday
		for _, wd := range weekOrder {
			if !e.PrefersHome(wd) {
				candidates = append(candidates, wd)
			}
		}
		for j := 0; j < len(candidates) && len(selected) < count; j++ {
			selected[candidates[(idx+j)%len(candidates)]] = true
		}
		// Preferences could not fill the count: fall back to the full week,
		// the map skips days already selected.
		for j := 0; j < len(weekOrder) && len(selected) < count; j++ {
			selected[weekOrder[(idx+j)%len(weekOrder)]] = true
		}
		return selected
	}

	for j := 0; j < count; j++ {
		selected[weekOrder[(idx+j)%len(weekOrder)]] = true
	}
	return selected
}

// reconcileDate flips decisions for one date toward neededVariable on-site
// members. Sorting is stable over cohort order so ties keep the caller's
// ordering deterministic.
func reconcileDate(cohort []attendance.Employee, decisions map[attendance.EmployeeID]attendance.Status, neededVariable int) {
	var onSite, remote []attendance.Employee
	for _, e := range cohort {
		if decisions[e.ID] == attendance.StatusOffice {
			onSite = append(onSite, e)
		} else {
			remote = append(remote, e)
		}
	}

	difference := neededVariable - len(onSite)
	switch {
	case difference > 0:
		// Under target: prefer people who want MORE on-site days.
		sort.SliceStable(remote, func(i, j int) bool {
			return remote[i].OfficeDays > remote[j].OfficeDays
		})
		if difference > len(remote) {
			difference = len(remote)
		}
		for _, e := range remote[:difference] {
			decisions[e.ID] = attendance.StatusOffice
		}
	case difference < 0:
		// Over target: flip people who want FEWER on-site days first.
		sort.SliceStable(onSite, func(i, j int) bool {
			return onSite[i].OfficeDays < onSite[j].OfficeDays
		})
		flip := -difference
		if flip > len(onSite) {
			flip = len(onSite)
		}
		for _, e := range onSite[:flip] {
			decisions[e.ID] = attendance.StatusHome
		}
	}
}

// =============================================================================
// MANAGER ROTATION TEMPLATE
// =============================================================================

// PlanManagerRotation guarantees at least minimum managers on-site every
// weekday in the range. Fixed (always_office) managers count toward the
// floor structurally; the remainder rotates through the variable managers
// via (dateIndex + i) mod n. Preferences are deliberately ignored: meeting
// the staffing floor overrides personal preference.
//
// A nil targets slice means every manager in the store.
func PlanManagerRotation(store *attendance.Store, targets []attendance.EmployeeID, minimum int, r attendance.DayRange) (attendance.WriteSet, error) {
	managers := managerCohort(store, targets)

	fixed := 0
	var variable []attendance.Employee
	for _, e := range managers {
		switch e.Mode {
		case attendance.ModeAlwaysOffice:
			fixed++
		case attendance.ModeVariable:
			variable = append(variable, e)
		}
	}

	weekdays := r.Weekdays()
	if len(variable) == 0 || len(weekdays) == 0 {
		return nil, nil
	}

	needed := minimum - fixed
	if needed < 0 {
		needed = 0
	}

	var ws attendance.WriteSet
	for di, day := range weekdays {
		if needed >= len(variable) {
			// The floor cannot be met by rotation: everyone is on-site.
			for _, e := range variable {
				ws = append(ws, attendance.Assignment{Employee: e.ID, Day: day, Status: attendance.StatusOffice})
			}
			continue
		}
		selected := make(map[attendance.EmployeeID]bool, needed)
		for i := 0; i < needed; i++ {
			selected[variable[(di+i)%len(variable)].ID] = true
		}
		for _, e := range variable {
			st := attendance.StatusHome
			if selected[e.ID] {
				st = attendance.StatusOffice
			}
			ws = append(ws, attendance.Assignment{Employee: e.ID, Day: day, Status: st})
		}
	}
	return ws, nil
}

// =============================================================================
// MANUAL TEMPLATE
// =============================================================================

type ManualVariant string

const (
	// ManualClear writes the explicit blank sentinel, distinct from never
	// having written anything.
	ManualClear ManualVariant = "clear"

	ManualAllOffice ManualVariant = "all_office"
	ManualAllHome   ManualVariant = "all_home"

	// ManualRandomSplit gives each date an independent ~50/50 office/home
	// split drawn from the injected rand source.
	ManualRandomSplit ManualVariant = "random_split"
)

// PlanManual produces the write set for the manual/blank template variants.
// rng is only consulted for ManualRandomSplit.
func PlanManual(store *attendance.Store, targets []attendance.EmployeeID, r attendance.DayRange, variant ManualVariant, rng *rand.Rand) (attendance.WriteSet, error) {
	cohort := variableCohort(store, targets)
	weekdays := r.Weekdays()
	if len(cohort) == 0 || len(weekdays) == 0 {
		return nil, nil
	}

	var ws attendance.WriteSet
	switch variant {
	case ManualClear, ManualAllOffice, ManualAllHome:
		st := attendance.StatusUnset
		if variant == ManualAllOffice {
			st = attendance.StatusOffice
		} else if variant == ManualAllHome {
			st = attendance.StatusHome
		}
		for _, day := range weekdays {
			for _, e := range cohort {
				ws = append(ws, attendance.Assignment{Employee: e.ID, Day: day, Status: st})
			}
		}

	case ManualRandomSplit:
		if rng == nil {
			return nil, ErrNilRand
		}
		for _, day := range weekdays {
			perm := rng.Perm(len(cohort))
			officeCount := (len(cohort) + 1) / 2
			statuses := make(map[attendance.EmployeeID]attendance.Status, len(cohort))
			for pi, ci := range perm {
				if pi < officeCount {
					statuses[cohort[ci].ID] = attendance.StatusOffice
				} else {
					statuses[cohort[ci].ID] = attendance.StatusHome
				}
			}
			for _, e := range cohort {
				ws = append(ws, attendance.Assignment{Employee: e.ID, Day: day, Status: statuses[e.ID]})
			}
		}

	default:
		return nil, ErrUnknownVariant
	}
	return ws, nil
}

// =============================================================================
// COHORT HELPERS
// =============================================================================

// variableCohort resolves target ids to variable-mode employees, preserving
// the caller's order. Unknown ids and fixed-mode employees are skipped.
func variableCohort(store *attendance.Store, targets []attendance.EmployeeID) []attendance.Employee {
	var cohort []attendance.Employee
	for _, id := range targets {
		e, ok := store.Employee(id)
		if !ok || e.Mode != attendance.ModeVariable {
			continue
		}
		cohort = append(cohort, e)
	}
	return cohort
}

// managerCohort resolves targets to managers; nil targets means all managers.
func managerCohort(store *attendance.Store, targets []attendance.EmployeeID) []attendance.Employee {
	var cohort []attendance.Employee
	if targets == nil {
		for _, e := range store.Employees() {
			if e.IsManager {
				cohort = append(cohort, e)
			}
		}
		return cohort
	}
	for _, id := range targets {
		e, ok := store.Employee(id)
		if !ok || !e.IsManager {
			continue
		}
		cohort = append(cohort, e)
	}
	return cohort
}

func buildWriteSet(cohort []attendance.Employee, days []attendance.Day, plan []map[attendance.EmployeeID]attendance.Status) attendance.WriteSet {
	var ws attendance.WriteSet
	for di, day := range days {
		for _, e := range cohort {
			ws = append(ws, attendance.Assignment{Employee: e.ID, Day: day, Status: plan[di][e.ID]})
		}
	}
	return ws
}
