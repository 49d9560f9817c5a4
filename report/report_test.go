package report_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/report"
)

// Mon 2026-01-05 .. Fri 2026-01-09.
var workweek = attendance.NewDayRange(
	attendance.NewDay(2026, time.January, 5),
	attendance.NewDay(2026, time.January, 9),
)

func TestEmployeeSummary_Percentages(t *testing.T) {
	// GIVEN: an always_office employee with a Wed-Thu vacation
	// WHEN:  summarizing the Mon-Fri window
	// THEN:  3 office + 2 vacation days, 60% / 40% over 5 resolvable days

	s := attendance.NewStore()
	require.NoError(t, s.AddEmployee(attendance.Employee{ID: "e1", Name: "Ada", Team: "Eng", Mode: attendance.ModeAlwaysOffice}))
	wed := attendance.NewDay(2026, time.January, 7)
	require.NoError(t, s.SetVacation("e1", attendance.NewDayRange(wed, wed.AddDays(1))))

	a := report.NewAggregator(s)
	summary, err := a.EmployeeSummary("e1", workweek)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.WindowDays)
	assert.Equal(t, 5, summary.ResolvableDays)
	assert.Equal(t, report.StatusCounts{Office: 3, Vacation: 2}, summary.Counts)
	assert.False(t, summary.InsufficientData)
	assert.Equal(t, "60", summary.OfficePercent.String())
	assert.Equal(t, "40", summary.VacationPercent.String())
	assert.True(t, summary.HomePercent.IsZero())
}

func TestEmployeeSummary_UnresolvedDaysExcludedFromDenominator(t *testing.T) {
	// GIVEN: a variable employee with exactly 3 of 5 days decided
	// THEN:  percentages are over 3, not the 5 window days

	s := attendance.NewStore()
	require.NoError(t, s.AddEmployee(attendance.Employee{ID: "e1", Name: "Ben", Mode: attendance.ModeVariable}))
	mon := workweek.From
	require.NoError(t, s.SetStatus("e1", mon, attendance.StatusOffice))
	require.NoError(t, s.SetStatus("e1", mon.AddDays(1), attendance.StatusOffice))
	require.NoError(t, s.SetStatus("e1", mon.AddDays(2), attendance.StatusHome))

	a := report.NewAggregator(s)
	summary, err := a.EmployeeSummary("e1", workweek)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.WindowDays)
	assert.Equal(t, 3, summary.ResolvableDays)
	assert.False(t, summary.InsufficientData)
	assert.Equal(t, "66.7", summary.OfficePercent.String())
	assert.Equal(t, "33.3", summary.HomePercent.String())
}

func TestEmployeeSummary_InsufficientData(t *testing.T) {
	// Under 3 resolvable days the percentages are withheld entirely.
	s := attendance.NewStore()
	require.NoError(t, s.AddEmployee(attendance.Employee{ID: "e1", Name: "Cara", Mode: attendance.ModeVariable}))
	require.NoError(t, s.SetStatus("e1", workweek.From, attendance.StatusOffice))

	a := report.NewAggregator(s)
	summary, err := a.EmployeeSummary("e1", workweek)
	require.NoError(t, err)

	assert.True(t, summary.InsufficientData)
	assert.Equal(t, 1, summary.ResolvableDays)
	assert.True(t, summary.OfficePercent.IsZero(), "no percentage is reported")
}

func TestEmployeeSummary_ClearedSentinelIsUnresolved(t *testing.T) {
	// An explicit blank counts as no data, same as never having written.
	s := attendance.NewStore()
	require.NoError(t, s.AddEmployee(attendance.Employee{ID: "e1", Name: "Dev", Mode: attendance.ModeVariable}))
	for i := 0; i < 5; i++ {
		require.NoError(t, s.SetStatus("e1", workweek.From.AddDays(i), attendance.StatusUnset))
	}

	a := report.NewAggregator(s)
	summary, err := a.EmployeeSummary("e1", workweek)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.ResolvableDays)
	assert.True(t, summary.InsufficientData)
}

func TestEmployeeSummary_UnknownEmployee(t *testing.T) {
	a := report.NewAggregator(attendance.NewStore())
	_, err := a.EmployeeSummary("ghost", workweek)
	assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)
}

func TestOrganizationSummary(t *testing.T) {
	// GIVEN: two always_office employees, one on vacation Friday
	// THEN:  peak is any full day, quiet is Friday, average reflects both

	s := attendance.NewStore()
	require.NoError(t, s.AddEmployee(attendance.Employee{ID: "e1", Name: "Ada", Team: "Eng", Mode: attendance.ModeAlwaysOffice}))
	require.NoError(t, s.AddEmployee(attendance.Employee{ID: "e2", Name: "Ben", Team: "Eng", Mode: attendance.ModeAlwaysOffice}))
	fri := attendance.NewDay(2026, time.January, 9)
	require.NoError(t, s.SetVacation("e2", attendance.NewDayRange(fri, fri)))

	a := report.NewAggregator(s)
	summary := a.OrganizationSummary(workweek)

	require.Len(t, summary.Days, 5)
	assert.Equal(t, 2, summary.PeakDay.Office)
	assert.Equal(t, fri, summary.QuietDay.Day)
	assert.Equal(t, 1, summary.QuietDay.Office)
	assert.Equal(t, "1.8", summary.AverageOffice.String(), "(2+2+2+2+1)/5")
	assert.Equal(t, 9, summary.TeamPresence["Eng"], "office person-days across the window")
}

func TestWriteCSV(t *testing.T) {
	// GIVEN: one fixed and one undecided employee over Mon-Tue
	// THEN:  the fixed row has statuses, the undecided row blank cells

	s := attendance.NewStore()
	require.NoError(t, s.AddEmployee(attendance.Employee{ID: "e1", Name: "Ada", Team: "Eng", Mode: attendance.ModeAlwaysOffice}))
	require.NoError(t, s.AddEmployee(attendance.Employee{ID: "e2", Name: "Ben", Team: "Ops", Mode: attendance.ModeVariable}))

	window := attendance.NewDayRange(workweek.From, workweek.From.AddDays(1))
	var buf bytes.Buffer
	a := report.NewAggregator(s)
	require.NoError(t, a.WriteCSV(&buf, window))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per employee")

	assert.Equal(t, []string{"Name", "Team", "2026-01-05", "2026-01-06"}, rows[0])
	assert.Equal(t, []string{"Ada", "Eng", "office", "office"}, rows[1])
	assert.Equal(t, []string{"Ben", "Ops", "", ""}, rows[2])
}
