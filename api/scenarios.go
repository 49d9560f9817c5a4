/*
scenarios.go - Demo scenario loaders

PURPOSE:
  Seeds the store with curated demo datasets so the frontend has
  something meaningful to render without manual setup. Loading a
  scenario replaces the entire store contents.

SCENARIOS:
  small_office:  Mixed-mode ten-person office across two teams
  holiday_week:  A week containing a flagged holiday with a duty roster
                 and an activated weekend shift
  support_gap:   A support team whose hours structurally cannot cover
                 the late slot - the coverage analyzer's showcase
*/
package api

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/warp/attendance-engine/attendance"
)

// Scenario is a named demo dataset.
type Scenario struct {
	Key         string
	Name        string
	Description string
	Load        func(*attendance.Store) error
}

func scenarios() []Scenario {
	return []Scenario{
		{
			Key:         "small_office",
			Name:        "Small office",
			Description: "Ten people across Engineering and Support, mixed attendance modes",
			Load:        loadSmallOffice,
		},
		{
			Key:         "holiday_week",
			Name:        "Holiday week",
			Description: "A flagged holiday with a duty roster plus an activated weekend shift",
			Load:        loadHolidayWeek,
		},
		{
			Key:         "support_gap",
			Name:        "Support coverage gap",
			Description: "A support team whose working hours cannot cover the 18-19 slot",
			Load:        loadSupportGap,
		},
	}
}

// =============================================================================
// HANDLERS
// =============================================================================

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	var out []ScenarioDTO
	for _, s := range scenarios() {
		out = append(out, ScenarioDTO{Key: s.Key, Name: s.Name, Description: s.Description})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	for _, s := range scenarios() {
		if s.Key != req.Key {
			continue
		}
		h.Store.Restore(attendance.Snapshot{})
		if err := s.Load(h.Store); err != nil {
			writeError(w, http.StatusInternalServerError, "scenario load failed", err)
			return
		}
		h.currentScenario = s.Key
		h.persist()
		if h.Watcher != nil {
			h.Watcher.Scan()
		}
		writeJSON(w, http.StatusOK, ScenarioDTO{Key: s.Key, Name: s.Name, Description: s.Description})
		return
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("unknown scenario %q", req.Key), nil)
}

func (h *Handler) ResetStore(w http.ResponseWriter, r *http.Request) {
	h.Store.Restore(attendance.Snapshot{})
	h.currentScenario = ""
	h.persist()
	if h.Watcher != nil {
		h.Watcher.Scan()
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SCENARIO DATA
// =============================================================================

func loadSmallOffice(s *attendance.Store) error {
	people := []attendance.Employee{
		{ID: "emp-1", Name: "Ada Krol", Team: "Engineering", IsManager: true, Mode: attendance.ModeAlwaysOffice, Hours: attendance.Hours9to17, OfficeDays: 5},
		{ID: "emp-2", Name: "Ben Ortega", Team: "Engineering", Mode: attendance.ModeVariable, Hours: attendance.Hours10to18, OfficeDays: 3,
			PreferHomeDays: map[time.Weekday]bool{time.Monday: true, time.Friday: true}},
		{ID: "emp-3", Name: "Carla Voss", Team: "Engineering", Mode: attendance.ModeVariable, Hours: attendance.Hours9to17, OfficeDays: 4},
		{ID: "emp-4", Name: "Dmitri Sokolov", Team: "Engineering", Mode: attendance.ModeAlwaysHome, Hours: attendance.Hours11to19, OfficeDays: 1},
		{ID: "emp-5", Name: "Elif Demir", Team: "Support", IsManager: true, Mode: attendance.ModeVariable, Hours: attendance.Hours9to17, OfficeDays: 4},
		{ID: "emp-6", Name: "Franka Huber", Team: "Support", Mode: attendance.ModeVariable, Hours: attendance.Hours10to18, OfficeDays: 2,
			PreferHomeDays: map[time.Weekday]bool{time.Wednesday: true}},
		{ID: "emp-7", Name: "Goran Ilic", Team: "Support", Mode: attendance.ModeVariable, Hours: attendance.Hours11to19, OfficeDays: 3},
		{ID: "emp-8", Name: "Hana Sato", Team: "Support", Mode: attendance.ModeAlwaysOffice, Hours: attendance.Hours9to17, OfficeDays: 5},
		{ID: "emp-9", Name: "Ivo Lindqvist", Team: "", Mode: attendance.ModeVariable, OfficeDays: 3},
		{ID: "emp-10", Name: "Jun Park", Team: "", IsManager: true, Mode: attendance.ModeVariable, Hours: attendance.Hours10to18, OfficeDays: 2},
	}
	for _, e := range people {
		if err := s.AddEmployee(e); err != nil {
			return err
		}
	}

	// One person already away this week.
	monday := nextMonday()
	return s.SetVacation("emp-3", attendance.NewDayRange(monday, monday.AddDays(4)))
}

func loadHolidayWeek(s *attendance.Store) error {
	if err := loadSmallOffice(s); err != nil {
		return err
	}

	monday := nextMonday()
	s.SetHoliday(monday.AddDays(3), []attendance.EmployeeID{"emp-7"})

	saturday := monday.AddDays(5)
	return s.SetWeekendShift(saturday, []attendance.EmployeeID{"emp-1", "emp-5"})
}

func loadSupportGap(s *attendance.Store) error {
	people := []attendance.Employee{
		{ID: "sup-1", Name: "Nora Falk", Team: "Support", Mode: attendance.ModeAlwaysOffice, Hours: attendance.Hours9to17, OfficeDays: 5},
		{ID: "sup-2", Name: "Oskar Weiss", Team: "Support", Mode: attendance.ModeVariable, Hours: attendance.Hours9to17, OfficeDays: 3},
		{ID: "sup-3", Name: "Priya Nair", Team: "Support", Mode: attendance.ModeVariable, Hours: attendance.Hours9to17, OfficeDays: 3},
	}
	for _, e := range people {
		if err := s.AddEmployee(e); err != nil {
			return err
		}
	}
	return nil
}

func nextMonday() attendance.Day {
	d := attendance.Today()
	for d.Weekday() != time.Monday {
		d = d.AddDays(1)
	}
	return d
}
