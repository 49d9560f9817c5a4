/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model
  from the external contract. Weekday preference sets travel as lowercase
  day names rather than time.Weekday integers.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Handlers validate; DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Team           string   `json:"team"`
	IsManager      bool     `json:"is_manager"`
	HoursStart     int      `json:"hours_start"`
	HoursEnd       int      `json:"hours_end"`
	OfficeDays     int      `json:"office_days"`
	PreferHomeDays []string `json:"prefer_home_days,omitempty"`
	Mode           string   `json:"mode"`
}

type CreateEmployeeRequest struct {
	ID             string   `json:"id,omitempty"`
	Name           string   `json:"name"`
	Team           string   `json:"team,omitempty"`
	IsManager      bool     `json:"is_manager,omitempty"`
	HoursStart     int      `json:"hours_start,omitempty"`
	HoursEnd       int      `json:"hours_end,omitempty"`
	OfficeDays     int      `json:"office_days,omitempty"`
	PreferHomeDays []string `json:"prefer_home_days,omitempty"`
	Mode           string   `json:"mode,omitempty"`
}

type ImportEmployeesRequest struct {
	Names []string `json:"names"`
}

type ImportEmployeesResponse struct {
	IDs []string `json:"ids"`
}

// =============================================================================
// VACATIONS / CALENDAR FLAGS
// =============================================================================

type VacationRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type FlagDayRequest struct {
	Date   string   `json:"date"`
	Roster []string `json:"roster,omitempty"`
}

type FlaggedDayDTO struct {
	Date   string   `json:"date"`
	Roster []string `json:"roster"`
}

// =============================================================================
// STATUSES
// =============================================================================

type SetStatusRequest struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

type ResolvedDayDTO struct {
	Date    string `json:"date"`
	Status  string `json:"status"`
	DayType string `json:"day_type"`
	OnDuty  bool   `json:"on_duty"`
}

type HeadcountDTO struct {
	Date   string `json:"date"`
	Office int    `json:"office"`
}

// =============================================================================
// TEMPLATES
// =============================================================================

type BalancedTemplateRequest struct {
	Key                string   `json:"key"`
	Employees          []string `json:"employees"` // empty = every variable employee
	RespectPreferences bool     `json:"respect_preferences"`
	From               string   `json:"from"`
	To                 string   `json:"to"`
	TargetOfficeCount  int      `json:"target_office_count,omitempty"`
}

type ManagerTemplateRequest struct {
	Employees       []string `json:"employees,omitempty"` // empty = all managers
	MinimumManagers int      `json:"minimum_managers"`
	From            string   `json:"from"`
	To              string   `json:"to"`
}

type ManualTemplateRequest struct {
	Variant   string   `json:"variant"`
	Employees []string `json:"employees"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	Seed      *int64   `json:"seed,omitempty"` // fixed seed for reproducible splits
}

type TemplateResultDTO struct {
	Template    string `json:"template"`
	Assignments int    `json:"assignments"`
}

type TemplateDTO struct {
	Key           string `json:"key"`
	Name          string `json:"name"`
	OfficePerWeek string `json:"office_per_week"`
}

// =============================================================================
// CHANGE LOG / SCENARIOS
// =============================================================================

type ChangeEntryDTO struct {
	ID          string `json:"id"`
	At          string `json:"at"`
	Description string `json:"description"`
}

type ScenarioDTO struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	Key string `json:"key"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func employeeDTO(e attendance.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:             string(e.ID),
		Name:           e.Name,
		Team:           e.Team,
		IsManager:      e.IsManager,
		HoursStart:     e.Hours.Start,
		HoursEnd:       e.Hours.End,
		OfficeDays:     e.OfficeDays,
		PreferHomeDays: weekdayNames(e.PreferHomeDays),
		Mode:           string(e.Mode),
	}
}

func (req CreateEmployeeRequest) toEmployee() (attendance.Employee, error) {
	prefs, err := parseWeekdays(req.PreferHomeDays)
	if err != nil {
		return attendance.Employee{}, err
	}
	e := attendance.Employee{
		ID:             attendance.EmployeeID(req.ID),
		Name:           req.Name,
		Team:           req.Team,
		IsManager:      req.IsManager,
		OfficeDays:     req.OfficeDays,
		PreferHomeDays: prefs,
		Mode:           attendance.AttendanceMode(req.Mode),
	}
	if req.HoursStart != 0 || req.HoursEnd != 0 {
		e.Hours = attendance.WorkingHours{Start: req.HoursStart, End: req.HoursEnd}
		if !e.Hours.Valid() {
			return attendance.Employee{}, fmt.Errorf("unsupported working hours %d-%d", req.HoursStart, req.HoursEnd)
		}
	}
	return e, nil
}

var weekdayByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekdays(names []string) (map[time.Weekday]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	set := make(map[time.Weekday]bool, len(names))
	for _, n := range names {
		wd, ok := weekdayByName[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", n)
		}
		set[wd] = true
	}
	return set, nil
}

func weekdayNames(set map[time.Weekday]bool) []string {
	if len(set) == 0 {
		return nil
	}
	var out []string
	// Week order, not map order, for stable output.
	for _, wd := range []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	} {
		if set[wd] {
			out = append(out, strings.ToLower(wd.String()))
		}
	}
	return out
}

func toEmployeeIDs(ids []string) []attendance.EmployeeID {
	if ids == nil {
		return nil
	}
	out := make([]attendance.EmployeeID, 0, len(ids))
	for _, id := range ids {
		out = append(out, attendance.EmployeeID(id))
	}
	return out
}

func fromEmployeeIDs(ids []attendance.EmployeeID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}
