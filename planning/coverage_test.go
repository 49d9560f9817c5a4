package planning_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/planning"
)

func supportMember(t *testing.T, s *attendance.Store, id string, hours attendance.WorkingHours, mode attendance.AttendanceMode) {
	t.Helper()
	require.NoError(t, s.AddEmployee(attendance.Employee{
		ID: attendance.EmployeeID(id), Name: id, Team: "Support", Hours: hours, Mode: mode,
	}))
}

func TestAnalyzeTeamCoverage_StructuralLateGap(t *testing.T) {
	// GIVEN: a support team of three, all on 9-17, all on-site
	// WHEN:  analyzing a plain Monday
	// THEN:  17-18 and 18-19 are gaps nobody on the team could ever cover

	s := attendance.NewStore()
	for _, id := range []string{"s1", "s2", "s3"} {
		supportMember(t, s, id, attendance.Hours9to17, attendance.ModeAlwaysOffice)
	}
	a := planning.NewAnalyzer(s)

	report := a.AnalyzeTeamCoverage("Support", attendance.NewDay(2026, time.January, 5))

	require.True(t, report.HasGaps)
	require.Len(t, report.Gaps, 2)
	assert.Len(t, report.Present, 3)

	for _, gap := range report.Gaps {
		assert.False(t, gap.HasPotentialCoverage, "no 9-17 window reaches %d-%d", gap.Slot.Start, gap.Slot.End)
		assert.Empty(t, gap.PotentialCoverage)
	}
	assert.Equal(t, planning.Slot{Start: 17, End: 18}, report.Gaps[0].Slot)
	assert.Equal(t, planning.Slot{Start: 18, End: 19}, report.Gaps[1].Slot)
}

func TestAnalyzeTeamCoverage_RecoverableGapNamesCandidates(t *testing.T) {
	// GIVEN: the late shift exists on the team but is not on-site today
	// THEN:  the late gaps remain, with the absent member listed as the fix

	s := attendance.NewStore()
	supportMember(t, s, "early", attendance.Hours9to17, attendance.ModeAlwaysOffice)
	supportMember(t, s, "late", attendance.Hours11to19, attendance.ModeVariable)
	a := planning.NewAnalyzer(s)

	report := a.AnalyzeTeamCoverage("Support", attendance.NewDay(2026, time.January, 5))

	require.True(t, report.HasGaps)
	require.Len(t, report.Gaps, 2)
	for _, gap := range report.Gaps {
		assert.True(t, gap.HasPotentialCoverage)
		assert.Equal(t, []attendance.EmployeeID{"late"}, gap.PotentialCoverage)
	}
}

func TestAnalyzeTeamCoverage_ComplementaryShiftsCoverEverything(t *testing.T) {
	// 9-17 plus 11-19 together span all five critical slots.
	s := attendance.NewStore()
	supportMember(t, s, "early", attendance.Hours9to17, attendance.ModeAlwaysOffice)
	supportMember(t, s, "late", attendance.Hours11to19, attendance.ModeAlwaysOffice)
	a := planning.NewAnalyzer(s)

	report := a.AnalyzeTeamCoverage("Support", attendance.NewDay(2026, time.January, 5))

	assert.False(t, report.HasGaps)
	assert.Empty(t, report.Gaps)
	assert.Len(t, report.Present, 2)
}

func TestAnalyzeTeamCoverage_NobodyPresent(t *testing.T) {
	// A variable member with nothing set is not on-site: every slot gaps,
	// each recoverable through that member.
	s := attendance.NewStore()
	supportMember(t, s, "only", attendance.Hours10to18, attendance.ModeVariable)
	a := planning.NewAnalyzer(s)

	report := a.AnalyzeTeamCoverage("Support", attendance.NewDay(2026, time.January, 5))

	require.True(t, report.HasGaps)
	assert.Empty(t, report.Present)
	require.Len(t, report.Gaps, len(planning.CriticalSlots))
	// 10-18 covers the middle three slots but not the edges.
	assert.True(t, report.Gaps[1].HasPotentialCoverage, "10-11 is inside 10-18")
	assert.False(t, report.Gaps[0].HasPotentialCoverage, "9-10 is outside 10-18")
	assert.False(t, report.Gaps[4].HasPotentialCoverage, "18-19 is outside 10-18")
}

func TestScanCoverage_SkipsExceptionalDays(t *testing.T) {
	// GIVEN: a Mon-Sun window with Wednesday flagged as a holiday
	// THEN:  the scan visits the four remaining weekdays only

	s := attendance.NewStore()
	supportMember(t, s, "s1", attendance.Hours9to17, attendance.ModeAlwaysOffice)
	a := planning.NewAnalyzer(s)

	mon := attendance.NewDay(2026, time.January, 5)
	s.SetHoliday(mon.AddDays(2), nil)

	window := attendance.NewDayRange(mon, mon.AddDays(6))
	reports := a.ScanCoverage("Support", window, 0)

	require.Len(t, reports, 4)
	for _, r := range reports {
		assert.NotEqual(t, mon.AddDays(2), r.Day, "holiday must not be analyzed")
		assert.False(t, r.Day.IsWeekend())
	}
}

func TestScanCoverage_HonorsDayLimit(t *testing.T) {
	s := attendance.NewStore()
	supportMember(t, s, "s1", attendance.Hours9to17, attendance.ModeAlwaysOffice)
	a := planning.NewAnalyzer(s)

	mon := attendance.NewDay(2026, time.January, 5)
	window := attendance.NewDayRange(mon, mon.AddDays(13))

	reports := a.ScanCoverage("Support", window, 2)
	require.Len(t, reports, 2)
	assert.Equal(t, mon, reports[0].Day)
	assert.Equal(t, mon.AddDays(1), reports[1].Day)
}
