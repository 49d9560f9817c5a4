/*
template_test.go - Distribution planner tests

Covers weekday selection fairness, preference handling, per-date target
reconciliation, the manager-rotation floor guarantee, and the manual
variants including the seeded random split.
*/
package planning_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/planning"
)

// Week of Mon 2026-01-05 .. Fri 2026-01-09.
var week = attendance.NewDayRange(
	attendance.NewDay(2026, time.January, 5),
	attendance.NewDay(2026, time.January, 9),
)

var mondayOnly = attendance.NewDayRange(week.From, week.From)

func storeWithVariable(t *testing.T, n int) (*attendance.Store, []attendance.EmployeeID) {
	t.Helper()
	s := attendance.NewStore()
	var ids []attendance.EmployeeID
	for i := 0; i < n; i++ {
		id := attendance.EmployeeID(fmt.Sprintf("e%d", i))
		require.NoError(t, s.AddEmployee(attendance.Employee{
			ID: id, Name: string(id), Mode: attendance.ModeVariable, OfficeDays: 3,
		}))
		ids = append(ids, id)
	}
	return s, ids
}

// statusesByDay indexes a write set for assertions.
func statusesByDay(ws attendance.WriteSet) map[attendance.Day]map[attendance.EmployeeID]attendance.Status {
	out := make(map[attendance.Day]map[attendance.EmployeeID]attendance.Status)
	for _, a := range ws {
		if out[a.Day] == nil {
			out[a.Day] = make(map[attendance.EmployeeID]attendance.Status)
		}
		out[a.Day][a.Employee] = a.Status
	}
	return out
}

// =============================================================================
// BALANCED TEMPLATE
// =============================================================================

func TestPlanBalanced_RoundRobinSpread(t *testing.T) {
	// GIVEN: 5 variable employees, 3x2 template, no preferences
	// THEN:  every weekday has exactly 3 on-site and every employee gets
	//        exactly 3 on-site days - the offset start spreads the load

	s, ids := storeWithVariable(t, 5)
	ws, err := planning.PlanBalanced(s, planning.TemplateBalanced, ids, false, week, 0)
	require.NoError(t, err)
	require.Len(t, ws, 25, "5 employees x 5 weekdays")

	byDay := statusesByDay(ws)
	perEmployee := make(map[attendance.EmployeeID]int)
	for _, day := range week.Weekdays() {
		office := 0
		for id, st := range byDay[day] {
			if st == attendance.StatusOffice {
				office++
				perEmployee[id]++
			}
		}
		assert.Equal(t, 3, office, "on-site count on %s", day)
	}
	for _, id := range ids {
		assert.Equal(t, 3, perEmployee[id], "weekly on-site days for %s", id)
	}
}

func TestPlanBalanced_PerEmployeeCountsStableForAnyCohortSize(t *testing.T) {
	// Offsets wrap the 5-day week, so no cohort size starves anyone.
	s, ids := storeWithVariable(t, 7)
	ws, err := planning.PlanBalanced(s, planning.TemplateBalanced, ids, false, week, 0)
	require.NoError(t, err)

	perEmployee := make(map[attendance.EmployeeID]int)
	for _, a := range ws {
		if a.Status == attendance.StatusOffice {
			perEmployee[a.Employee]++
		}
	}
	for _, id := range ids {
		assert.Equal(t, 3, perEmployee[id])
	}
}

func TestPlanBalanced_RespectsPreferences(t *testing.T) {
	// GIVEN: the first employee prefers home on Monday
	// THEN:  with preferences on, their on-site days avoid Monday

	s, ids := storeWithVariable(t, 2)
	e, _ := s.Employee(ids[0])
	e.PreferHomeDays = map[time.Weekday]bool{time.Monday: true}
	require.NoError(t, s.UpdateEmployee(e))

	ws, err := planning.PlanBalanced(s, planning.TemplateBalanced, ids, true, week, 0)
	require.NoError(t, err)

	byDay := statusesByDay(ws)
	assert.Equal(t, attendance.StatusHome, byDay[week.From][ids[0]], "Monday stays remote")
}

func TestPlanBalanced_PreferenceFallbackFillsFromFullWeek(t *testing.T) {
	// GIVEN: an employee preferring home Mon-Thu but a 3-day template
	// THEN:  Friday is taken first, the remainder spills into the week

	s, ids := storeWithVariable(t, 1)
	e, _ := s.Employee(ids[0])
	e.PreferHomeDays = map[time.Weekday]bool{
		time.Monday: true, time.Tuesday: true, time.Wednesday: true, time.Thursday: true,
	}
	require.NoError(t, s.UpdateEmployee(e))

	ws, err := planning.PlanBalanced(s, planning.TemplateBalanced, ids, true, week, 0)
	require.NoError(t, err)

	office := make(map[time.Weekday]bool)
	for _, a := range ws {
		if a.Status == attendance.StatusOffice {
			office[a.Day.Weekday()] = true
		}
	}
	assert.True(t, office[time.Friday], "the only preference-compatible day is used")
	assert.Len(t, office, 3, "count is still met via fallback")
}

func TestPlanBalanced_ReconciliationOverTarget(t *testing.T) {
	// GIVEN: office_first puts e0 and e2 on-site on Monday, target 1
	// THEN:  the member with the lowest advisory OfficeDays flips home

	s, ids := storeWithVariable(t, 3)
	for i, days := range map[int]int{0: 5, 1: 3, 2: 1} {
		e, _ := s.Employee(ids[i])
		e.OfficeDays = days
		require.NoError(t, s.UpdateEmployee(e))
	}

	ws, err := planning.PlanBalanced(s, planning.TemplateOfficeFirst, ids, false, mondayOnly, 1)
	require.NoError(t, err)

	byDay := statusesByDay(ws)
	assert.Equal(t, attendance.StatusOffice, byDay[week.From][ids[0]])
	assert.Equal(t, attendance.StatusHome, byDay[week.From][ids[1]])
	assert.Equal(t, attendance.StatusHome, byDay[week.From][ids[2]], "lowest OfficeDays flips first")
}

func TestPlanBalanced_ReconciliationUnderTarget(t *testing.T) {
	// GIVEN: office_first leaves only e1 remote on Monday, target 3
	// THEN:  e1 flips on-site to meet the target

	s, ids := storeWithVariable(t, 3)
	ws, err := planning.PlanBalanced(s, planning.TemplateOfficeFirst, ids, false, mondayOnly, 3)
	require.NoError(t, err)

	byDay := statusesByDay(ws)
	for _, id := range ids {
		assert.Equal(t, attendance.StatusOffice, byDay[week.From][id])
	}
}

func TestPlanBalanced_TargetDiscountsAlwaysOffice(t *testing.T) {
	// Always-office staff count toward the target structurally, shrinking
	// the variable quota.
	s, ids := storeWithVariable(t, 2)
	require.NoError(t, s.AddEmployee(attendance.Employee{
		ID: "anchor", Name: "Anchor", Mode: attendance.ModeAlwaysOffice,
	}))

	ws, err := planning.PlanBalanced(s, planning.TemplateOfficeFirst, ids, false, mondayOnly, 1)
	require.NoError(t, err)

	byDay := statusesByDay(ws)
	for _, id := range ids {
		assert.Equal(t, attendance.StatusHome, byDay[week.From][id],
			"target 1 is already met by the always-office anchor")
	}
}

func TestPlanBalanced_AlternateRoundsTowardEarlierIndexes(t *testing.T) {
	// The 2.5 ratio yields 3 on-site days for even cohort indexes, 2 for odd.
	s, ids := storeWithVariable(t, 4)
	ws, err := planning.PlanBalanced(s, planning.TemplateAlternate, ids, false, week, 0)
	require.NoError(t, err)

	perEmployee := make(map[attendance.EmployeeID]int)
	for _, a := range ws {
		if a.Status == attendance.StatusOffice {
			perEmployee[a.Employee]++
		}
	}
	assert.Equal(t, 3, perEmployee[ids[0]])
	assert.Equal(t, 2, perEmployee[ids[1]])
	assert.Equal(t, 3, perEmployee[ids[2]])
	assert.Equal(t, 2, perEmployee[ids[3]])
}

func TestPlanBalanced_SkipsFixedModeEmployees(t *testing.T) {
	s, ids := storeWithVariable(t, 2)
	require.NoError(t, s.AddEmployee(attendance.Employee{
		ID: "fixed", Name: "Fixed", Mode: attendance.ModeAlwaysOffice,
	}))

	ws, err := planning.PlanBalanced(s, planning.TemplateBalanced, append(ids, "fixed"), false, week, 0)
	require.NoError(t, err)

	for _, a := range ws {
		assert.NotEqual(t, attendance.EmployeeID("fixed"), a.Employee,
			"structurally determined employees are untouched")
	}
}

func TestPlanBalanced_EdgeCases(t *testing.T) {
	s, ids := storeWithVariable(t, 3)

	// Empty cohort.
	ws, err := planning.PlanBalanced(s, planning.TemplateBalanced, nil, false, week, 0)
	require.NoError(t, err)
	assert.Empty(t, ws)

	// Pure-weekend range.
	weekend := attendance.NewDayRange(attendance.NewDay(2026, time.January, 10), attendance.NewDay(2026, time.January, 11))
	ws, err = planning.PlanBalanced(s, planning.TemplateBalanced, ids, false, weekend, 0)
	require.NoError(t, err)
	assert.Empty(t, ws)

	// Unknown key.
	_, err = planning.PlanBalanced(s, planning.TemplateKey("bogus"), ids, false, week, 0)
	assert.ErrorIs(t, err, attendance.ErrUnknownTemplate)
}

func TestPlanBalanced_Deterministic(t *testing.T) {
	s, ids := storeWithVariable(t, 6)
	a, err := planning.PlanBalanced(s, planning.TemplateBalanced, ids, false, week, 4)
	require.NoError(t, err)
	b, err := planning.PlanBalanced(s, planning.TemplateBalanced, ids, false, week, 4)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// =============================================================================
// MANAGER ROTATION
// =============================================================================

func managerStore(t *testing.T, fixed, variable int) (*attendance.Store, []attendance.EmployeeID) {
	t.Helper()
	s := attendance.NewStore()
	var ids []attendance.EmployeeID
	for i := 0; i < fixed; i++ {
		id := attendance.EmployeeID(fmt.Sprintf("f%d", i))
		require.NoError(t, s.AddEmployee(attendance.Employee{
			ID: id, Name: string(id), IsManager: true, Mode: attendance.ModeAlwaysOffice,
		}))
		ids = append(ids, id)
	}
	for i := 0; i < variable; i++ {
		id := attendance.EmployeeID(fmt.Sprintf("m%d", i))
		require.NoError(t, s.AddEmployee(attendance.Employee{
			ID: id, Name: string(id), IsManager: true, Mode: attendance.ModeVariable,
		}))
		ids = append(ids, id)
	}
	return s, ids
}

func TestPlanManagerRotation_MinimumMetEveryDay(t *testing.T) {
	// GIVEN: 0 fixed and 3 variable managers, minimum 2, one week
	// THEN:  exactly 2 on-site every weekday, and rotation gives each
	//        manager at least floor(2*days/3) on-site days

	s, ids := managerStore(t, 0, 3)
	ws, err := planning.PlanManagerRotation(s, ids, 2, week)
	require.NoError(t, err)

	byDay := statusesByDay(ws)
	perManager := make(map[attendance.EmployeeID]int)
	for _, day := range week.Weekdays() {
		office := 0
		for id, st := range byDay[day] {
			if st == attendance.StatusOffice {
				office++
				perManager[id]++
			}
		}
		assert.Equal(t, 2, office, "on-site managers on %s", day)
	}

	floor := 2 * 5 / 3
	for _, id := range ids {
		assert.GreaterOrEqual(t, perManager[id], floor, "rotation fairness for %s", id)
	}
}

func TestPlanManagerRotation_AllOnSiteWhenFloorUnreachable(t *testing.T) {
	// needed >= variable count: every variable manager works every day.
	s, ids := managerStore(t, 0, 2)
	ws, err := planning.PlanManagerRotation(s, ids, 3, week)
	require.NoError(t, err)

	for _, a := range ws {
		assert.Equal(t, attendance.StatusOffice, a.Status)
	}
	assert.Len(t, ws, 10, "2 managers x 5 weekdays")
}

func TestPlanManagerRotation_FixedManagersCountTowardFloor(t *testing.T) {
	// GIVEN: 1 always_office manager and 2 variable, minimum 2
	// THEN:  exactly 1 variable manager rotates on per day

	s, ids := managerStore(t, 1, 2)
	ws, err := planning.PlanManagerRotation(s, ids, 2, week)
	require.NoError(t, err)

	byDay := statusesByDay(ws)
	for _, day := range week.Weekdays() {
		office := 0
		for _, st := range byDay[day] {
			if st == attendance.StatusOffice {
				office++
			}
		}
		assert.Equal(t, 1, office, "variable managers on-site on %s", day)
		assert.Len(t, byDay[day], 2, "every variable manager gets a decision")
	}
}

func TestPlanManagerRotation_NilTargetsMeansAllManagers(t *testing.T) {
	s, _ := managerStore(t, 0, 3)
	require.NoError(t, s.AddEmployee(attendance.Employee{ID: "ic", Name: "IC", Mode: attendance.ModeVariable}))

	ws, err := planning.PlanManagerRotation(s, nil, 1, mondayOnly)
	require.NoError(t, err)

	for _, a := range ws {
		assert.NotEqual(t, attendance.EmployeeID("ic"), a.Employee, "non-managers excluded")
	}
	assert.Len(t, ws, 3)
}

// =============================================================================
// MANUAL VARIANTS
// =============================================================================

func TestPlanManual_ClearWritesExplicitBlank(t *testing.T) {
	s, ids := storeWithVariable(t, 2)
	ws, err := planning.PlanManual(s, ids, week, planning.ManualClear, nil)
	require.NoError(t, err)

	require.Len(t, ws, 10)
	for _, a := range ws {
		assert.Equal(t, attendance.StatusUnset, a.Status,
			"clearing writes the blank sentinel, not a delete")
	}
}

func TestPlanManual_AllOfficeAllHome(t *testing.T) {
	s, ids := storeWithVariable(t, 2)

	ws, err := planning.PlanManual(s, ids, mondayOnly, planning.ManualAllOffice, nil)
	require.NoError(t, err)
	for _, a := range ws {
		assert.Equal(t, attendance.StatusOffice, a.Status)
	}

	ws, err = planning.PlanManual(s, ids, mondayOnly, planning.ManualAllHome, nil)
	require.NoError(t, err)
	for _, a := range ws {
		assert.Equal(t, attendance.StatusHome, a.Status)
	}
}

func TestPlanManual_RandomSplitSeededAndBalanced(t *testing.T) {
	// GIVEN: a fixed seed
	// THEN:  the split is reproducible and each date is half office

	s, ids := storeWithVariable(t, 4)

	a, err := planning.PlanManual(s, ids, week, planning.ManualRandomSplit, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := planning.PlanManual(s, ids, week, planning.ManualRandomSplit, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Equal(t, a, b, "same seed, same plan")

	byDay := statusesByDay(a)
	for _, day := range week.Weekdays() {
		office := 0
		for _, st := range byDay[day] {
			if st == attendance.StatusOffice {
				office++
			}
		}
		assert.Equal(t, 2, office, "half the cohort on-site on %s", day)
	}
}

func TestPlanManual_Errors(t *testing.T) {
	s, ids := storeWithVariable(t, 2)

	_, err := planning.PlanManual(s, ids, week, planning.ManualRandomSplit, nil)
	assert.ErrorIs(t, err, planning.ErrNilRand)

	_, err = planning.PlanManual(s, ids, week, planning.ManualVariant("chaos"), nil)
	assert.ErrorIs(t, err, planning.ErrUnknownVariant)
}

// =============================================================================
// END TO END - plan then apply atomically
// =============================================================================

func TestPlanThenApply(t *testing.T) {
	s, ids := storeWithVariable(t, 3)
	r := attendance.NewResolver(s)

	ws, err := planning.PlanBalanced(s, planning.TemplateBalanced, ids, false, week, 0)
	require.NoError(t, err)
	require.NoError(t, s.ApplyWriteSet(string(planning.TemplateBalanced), ws))

	// Every weekday now resolves for every cohort member.
	for _, day := range week.Weekdays() {
		for _, id := range ids {
			st := r.Resolve(id, day)
			assert.Contains(t, []attendance.Status{attendance.StatusOffice, attendance.StatusHome}, st)
		}
	}

	// One change log entry for the whole batch.
	changes := s.Changes()
	require.NotEmpty(t, changes)
	assert.Contains(t, changes[0].Description, "15 assignments")
}
