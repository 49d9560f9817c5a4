/*
coverage.go - Team coverage gap analyzer

PURPOSE:
  Checks whether the team members present on-site for a given day
  collectively span the critical time slots. For every uncovered slot
  it further distinguishes a recoverable gap (someone on the team has
  compatible hours but is not on-site that day) from a structural one
  (nobody on the team could ever cover it).

SLOT MODEL:
  The fixed slot sequence covers the union of all working-hour windows:
  9-10 and 10-11 are the early edges only 9-17 (and 10-18) staff reach,
  11-17 is the common core, 17-18 and 18-19 the late edges. A slot is
  covered iff at least one present member's window fully contains it.

STATELESSNESS:
  Each call reads the store once and holds nothing. Scanning a window
  is just repeated per-day analysis; the watcher and the reports
  endpoint both aggregate it that way.
*/
package planning

import (
	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// SLOTS
// =============================================================================

// Slot is a critical hour range [Start, End).
type Slot struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// CriticalSlots is the fixed, ordered slot sequence every team is checked
// against. Together the slots span 9:00-19:00, the union of the enumerated
// working-hour windows.
var CriticalSlots = []Slot{
	{Start: 9, End: 10},
	{Start: 10, End: 11},
	{Start: 11, End: 17},
	{Start: 17, End: 18},
	{Start: 18, End: 19},
}

// =============================================================================
// REPORTS
// =============================================================================

// Gap is one uncovered slot in a team's day.
type Gap struct {
	Slot Slot `json:"slot"`

	// HasPotentialCoverage is true when some team member - present or not -
	// has a working-hours window containing the slot. False means the gap is
	// structural: no hiring-independent schedule change can close it.
	HasPotentialCoverage bool `json:"has_potential_coverage"`

	// PotentialCoverage lists the members whose hours could cover the slot
	// if they were on-site.
	PotentialCoverage []attendance.EmployeeID `json:"potential_coverage,omitempty"`
}

// CoverageReport is the per-team, per-day analysis result.
type CoverageReport struct {
	Team    string                  `json:"team"`
	Day     attendance.Day          `json:"day"`
	Present []attendance.EmployeeID `json:"present"`
	Gaps    []Gap                   `json:"gaps"`
	HasGaps bool                    `json:"has_gaps"`
}

// =============================================================================
// ANALYZER
// =============================================================================

// Analyzer performs coverage analysis over a store. Stateless per call.
type Analyzer struct {
	store    *attendance.Store
	resolver *attendance.Resolver
}

func NewAnalyzer(store *attendance.Store) *Analyzer {
	return &Analyzer{store: store, resolver: attendance.NewResolver(store)}
}

// AnalyzeTeamCoverage checks team's on-site staff against the critical slots
// for one day.
func (a *Analyzer) AnalyzeTeamCoverage(team string, day attendance.Day) CoverageReport {
	members := a.store.TeamMembers(team)
	present := a.resolver.PresentOnSite(team, day)

	report := CoverageReport{Team: team, Day: day}
	for _, e := range present {
		report.Present = append(report.Present, e.ID)
	}

	for _, slot := range CriticalSlots {
		covered := false
		for _, e := range present {
			if e.Hours.Covers(slot.Start, slot.End) {
				covered = true
				break
			}
		}
		if covered {
			continue
		}

		gap := Gap{Slot: slot}
		for _, e := range members {
			if e.Hours.Covers(slot.Start, slot.End) {
				gap.HasPotentialCoverage = true
				gap.PotentialCoverage = append(gap.PotentialCoverage, e.ID)
			}
		}
		report.Gaps = append(report.Gaps, gap)
	}

	report.HasGaps = len(report.Gaps) > 0
	return report
}

// ScanCoverage repeats the analysis over the first maxDays on-site weekdays
// of the range (weekdays that are not flagged holidays). maxDays <= 0 means
// all of them.
func (a *Analyzer) ScanCoverage(team string, r attendance.DayRange, maxDays int) []CoverageReport {
	var reports []CoverageReport
	for _, day := range r.Weekdays() {
		if a.resolver.DayType(day) != attendance.DayNormal {
			continue
		}
		reports = append(reports, a.AnalyzeTeamCoverage(team, day))
		if maxDays > 0 && len(reports) >= maxDays {
			break
		}
	}
	return reports
}
