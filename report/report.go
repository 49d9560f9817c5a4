/*
Package report rolls resolved statuses up into per-employee and
organization-wide summaries over a date window, and exports the same
window as CSV.

PURPOSE:
  A read-only consumer of the resolution engine. Calls Resolve for every
  (employee, day) pair in the window and aggregates; holds no state and
  writes nothing.

DENOMINATOR RULE:
  Days with no resolvable status (nothing applies to a variable employee,
  or an explicit cleared sentinel) are excluded from percentage
  denominators. An employee with fewer than 3 resolvable days in the
  window is flagged InsufficientData instead of reporting misleading
  percentages.

PRECISION:
  Percentages are decimal.Decimal rounded to one place; float arithmetic
  would drift on long windows.
*/
package report

import (
	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/attendance"
)

// minResolvableDays is the floor below which percentages are withheld.
const minResolvableDays = 3

var hundred = decimal.NewFromInt(100)

// =============================================================================
// PER-EMPLOYEE SUMMARY
// =============================================================================

// StatusCounts tallies resolved statuses over a window.
type StatusCounts struct {
	Office   int `json:"office"`
	Home     int `json:"home"`
	Vacation int `json:"vacation"`
	Holiday  int `json:"holiday"`
}

func (c StatusCounts) resolvable() int {
	return c.Office + c.Home + c.Vacation + c.Holiday
}

// EmployeeSummary is the per-employee rollup for a window.
type EmployeeSummary struct {
	ID               attendance.EmployeeID `json:"id"`
	Name             string                `json:"name"`
	Team             string                `json:"team"`
	WindowDays       int                   `json:"window_days"`
	ResolvableDays   int                   `json:"resolvable_days"`
	Counts           StatusCounts          `json:"counts"`
	OfficePercent    decimal.Decimal       `json:"office_percent"`
	HomePercent      decimal.Decimal       `json:"home_percent"`
	VacationPercent  decimal.Decimal       `json:"vacation_percent"`
	InsufficientData bool                  `json:"insufficient_data"`
}

// Aggregator computes summaries over a store.
type Aggregator struct {
	store    *attendance.Store
	resolver *attendance.Resolver
}

func NewAggregator(store *attendance.Store) *Aggregator {
	return &Aggregator{store: store, resolver: attendance.NewResolver(store)}
}

// EmployeeSummary aggregates one employee over the window.
func (a *Aggregator) EmployeeSummary(id attendance.EmployeeID, window attendance.DayRange) (EmployeeSummary, error) {
	e, ok := a.store.Employee(id)
	if !ok {
		return EmployeeSummary{}, attendance.ErrEmployeeNotFound
	}

	summary := EmployeeSummary{ID: e.ID, Name: e.Name, Team: e.Team}
	for _, day := range window.Days() {
		summary.WindowDays++
		switch a.resolver.Resolve(id, day) {
		case attendance.StatusOffice:
			summary.Counts.Office++
		case attendance.StatusHome:
			summary.Counts.Home++
		case attendance.StatusVacation:
			summary.Counts.Vacation++
		case attendance.StatusHoliday:
			summary.Counts.Holiday++
		}
	}

	summary.ResolvableDays = summary.Counts.resolvable()
	if summary.ResolvableDays < minResolvableDays {
		summary.InsufficientData = true
		return summary, nil
	}

	denom := decimal.NewFromInt(int64(summary.ResolvableDays))
	summary.OfficePercent = percent(summary.Counts.Office, denom)
	summary.HomePercent = percent(summary.Counts.Home, denom)
	summary.VacationPercent = percent(summary.Counts.Vacation, denom)
	return summary, nil
}

func percent(count int, denom decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(count)).Mul(hundred).DivRound(denom, 1)
}

// =============================================================================
// ORGANIZATION SUMMARY
// =============================================================================

// DayHeadcount is the office headcount for one day.
type DayHeadcount struct {
	Day    attendance.Day `json:"day"`
	Office int            `json:"office"`
}

// OrganizationSummary is the org-wide rollup for a window.
type OrganizationSummary struct {
	Window        attendance.DayRange `json:"window"`
	Days          []DayHeadcount      `json:"days"`
	AverageOffice decimal.Decimal     `json:"average_office"`
	PeakDay       DayHeadcount        `json:"peak_day"`
	QuietDay      DayHeadcount        `json:"quiet_day"`
	TeamPresence  map[string]int      `json:"team_presence"` // office person-days per team
}

// OrganizationSummary aggregates daily headcounts across the window.
// Weekend days without an activated shift contribute their scan result
// like any other day; the caller chooses the window.
func (a *Aggregator) OrganizationSummary(window attendance.DayRange) OrganizationSummary {
	summary := OrganizationSummary{
		Window:        window,
		TeamPresence:  make(map[string]int),
		AverageOffice: decimal.Zero,
	}

	employees := a.store.Employees()
	total := 0
	for _, day := range window.Days() {
		dh := DayHeadcount{Day: day, Office: a.resolver.OfficeHeadcount(day)}
		summary.Days = append(summary.Days, dh)
		total += dh.Office

		if summary.PeakDay.Day.IsZero() || dh.Office > summary.PeakDay.Office {
			summary.PeakDay = dh
		}
		if summary.QuietDay.Day.IsZero() || dh.Office < summary.QuietDay.Office {
			summary.QuietDay = dh
		}

		for _, e := range employees {
			if e.Team == "" {
				continue
			}
			if a.resolver.Resolve(e.ID, day) == attendance.StatusOffice {
				summary.TeamPresence[e.Team]++
			}
		}
	}

	if len(summary.Days) > 0 {
		summary.AverageOffice = decimal.NewFromInt(int64(total)).
			DivRound(decimal.NewFromInt(int64(len(summary.Days))), 1)
	}
	return summary
}
