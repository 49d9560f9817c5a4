/*
handlers.go - HTTP API handlers for the attendance engine

PURPOSE:
  Exposes the engine via REST. Handles HTTP request/response, JSON
  serialization, and delegates to the domain packages.

ENDPOINTS:
  Employees:
    GET    /api/employees                    List employees
    POST   /api/employees                    Create employee
    POST   /api/employees/import             Bulk name import
    GET    /api/employees/{id}               Get employee
    PUT    /api/employees/{id}               Update employee
    DELETE /api/employees/{id}               Delete (cascades overrides)
    PUT    /api/employees/{id}/vacation      Set vacation range
    DELETE /api/employees/{id}/vacation      Clear vacation
    GET    /api/employees/{id}/schedule      Resolved days for a window
    PUT    /api/employees/{id}/status        Set one-day override
    DELETE /api/employees/{id}/status/{date} Clear one-day override

  Calendar:
    GET/POST /api/holidays, DELETE /api/holidays/{date}
    GET/POST /api/weekend-shifts, DELETE /api/weekend-shifts/{date}
    GET      /api/headcount?date=

  Templates:
    GET  /api/templates
    POST /api/templates/balanced
    POST /api/templates/managers
    POST /api/templates/manual

  Coverage:
    GET /api/teams
    GET /api/teams/{team}/coverage?date=
    GET /api/teams/{team}/coverage/scan?from=&to=&days=
    GET /api/alerts

  Reports:
    GET /api/reports/employees/{id}?from=&to=
    GET /api/reports/organization?from=&to=
    GET /api/reports/export.csv?from=&to=

  Misc:
    GET /api/changelog
    GET /api/scenarios, POST /api/scenarios/load, POST /api/scenarios/reset

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate employee)
  - 500: Internal errors

PERSISTENCE:
  Every mutating handler calls the best-effort persist hook afterwards.
  A flush failure is logged, never surfaced: the log is auditing, the
  snapshot is a convenience, and neither blocks the mutation.
*/
package api

import (
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/planning"
	"github.com/warp/attendance-engine/report"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *attendance.Store
	Resolver   *attendance.Resolver
	Analyzer   *planning.Analyzer
	Aggregator *report.Aggregator
	Watcher    *CoverageWatcher

	// Persist flushes a snapshot after mutations. Optional, best-effort.
	Persist func() error

	Log *slog.Logger

	currentScenario string
}

// NewHandler wires the read-side components over the store.
func NewHandler(store *attendance.Store, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		Store:      store,
		Resolver:   attendance.NewResolver(store),
		Analyzer:   planning.NewAnalyzer(store),
		Aggregator: report.NewAggregator(store),
		Log:        log,
	}
}

func (h *Handler) persist() {
	if h.Persist == nil {
		return
	}
	if err := h.Persist(); err != nil {
		h.Log.Warn("snapshot flush failed", "error", err)
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees := h.Store.Employees()
	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, employeeDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	e, err := req.toEmployee()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid employee", err)
		return
	}
	if e.ID == "" {
		e.ID = attendance.NewEmployeeID()
	}
	if err := h.Store.AddEmployee(e); err != nil {
		writeDomainError(w, err)
		return
	}
	h.persist()
	// Echo the stored record so defaults and the minted ID round-trip.
	stored, _ := h.Store.Employee(e.ID)
	writeJSON(w, http.StatusCreated, employeeDTO(stored))
}

func (h *Handler) ImportEmployees(w http.ResponseWriter, r *http.Request) {
	var req ImportEmployeesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	ids := h.Store.ImportEmployees(req.Names)
	h.persist()
	writeJSON(w, http.StatusCreated, ImportEmployeesResponse{IDs: fromEmployeeIDs(ids)})
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	e, ok := h.Store.Employee(id)
	if !ok {
		writeError(w, http.StatusNotFound, "employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, employeeDTO(e))
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	req.ID = chi.URLParam(r, "id")
	e, err := req.toEmployee()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid employee", err)
		return
	}
	if err := h.Store.UpdateEmployee(e); err != nil {
		writeDomainError(w, err)
		return
	}
	h.persist()
	updated, _ := h.Store.Employee(e.ID)
	writeJSON(w, http.StatusOK, employeeDTO(updated))
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	if err := h.Store.RemoveEmployee(id); err != nil {
		writeDomainError(w, err)
		return
	}
	h.persist()
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// VACATION HANDLERS
// =============================================================================

func (h *Handler) SetVacation(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	var req VacationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	start, err := attendance.ParseDay(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date", err)
		return
	}
	end, err := attendance.ParseDay(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date", err)
		return
	}
	if err := h.Store.SetVacation(id, attendance.NewDayRange(start, end)); err != nil {
		writeDomainError(w, err)
		return
	}
	h.persist()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearVacation(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	if err := h.Store.ClearVacation(id); err != nil {
		writeDomainError(w, err)
		return
	}
	h.persist()
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// STATUS HANDLERS
// =============================================================================

// GetSchedule returns the resolved days for one employee over a window.
// This is what a calendar renderer consumes, one cell per day.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	window, err := rangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid window", err)
		return
	}
	if _, ok := h.Store.Employee(id); !ok {
		writeError(w, http.StatusNotFound, "employee not found", nil)
		return
	}

	var out []ResolvedDayDTO
	for _, day := range window.Days() {
		rd := h.Resolver.ResolveDay(id, day)
		out = append(out, ResolvedDayDTO{
			Date:    day.String(),
			Status:  string(rd.Status),
			DayType: string(rd.DayType),
			OnDuty:  rd.OnDuty,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	day, err := attendance.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	if err := h.Store.SetStatus(id, day, attendance.Status(req.Status)); err != nil {
		writeDomainError(w, err)
		return
	}
	h.persist()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearStatus(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	day, err := attendance.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	if err := h.Store.ClearStatus(id, day); err != nil {
		writeDomainError(w, err)
		return
	}
	h.persist()
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CALENDAR HANDLERS - holidays, weekend shifts, headcount
// =============================================================================

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	days := h.Store.Holidays()
	out := make([]FlaggedDayDTO, 0, len(days))
	for _, d := range days {
		out = append(out, FlaggedDayDTO{
			Date:   d.String(),
			Roster: fromEmployeeIDs(h.Store.HolidayRoster(d)),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) SetHoliday(w http.ResponseWriter, r *http.Request) {
	var req FlagDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	day, err := attendance.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	h.Store.SetHoliday(day, toEmployeeIDs(req.Roster))
	h.persist()
	writeJSON(w, http.StatusCreated, FlaggedDayDTO{
		Date:   day.String(),
		Roster: fromEmployeeIDs(h.Store.HolidayRoster(day)),
	})
}

func (h *Handler) ClearHoliday(w http.ResponseWriter, r *http.Request) {
	day, err := attendance.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	h.Store.ClearHoliday(day)
	h.persist()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListWeekendShifts(w http.ResponseWriter, r *http.Request) {
	days := h.Store.WeekendShifts()
	out := make([]FlaggedDayDTO, 0, len(days))
	for _, d := range days {
		out = append(out, FlaggedDayDTO{
			Date:   d.String(),
			Roster: fromEmployeeIDs(h.Store.WeekendRoster(d)),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) SetWeekendShift(w http.ResponseWriter, r *http.Request) {
	var req FlagDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	day, err := attendance.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	if err := h.Store.SetWeekendShift(day, toEmployeeIDs(req.Roster)); err != nil {
		writeDomainError(w, err)
		return
	}
	h.persist()
	writeJSON(w, http.StatusCreated, FlaggedDayDTO{
		Date:   day.String(),
		Roster: fromEmployeeIDs(h.Store.WeekendRoster(day)),
	})
}

func (h *Handler) ClearWeekendShift(w http.ResponseWriter, r *http.Request) {
	day, err := attendance.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	h.Store.ClearWeekendShift(day)
	h.persist()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetHeadcount(w http.ResponseWriter, r *http.Request) {
	day, err := attendance.ParseDay(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	writeJSON(w, http.StatusOK, HeadcountDTO{
		Date:   day.String(),
		Office: h.Resolver.OfficeHeadcount(day),
	})
}

// =============================================================================
// TEMPLATE HANDLERS
// =============================================================================

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	var out []TemplateDTO
	for _, t := range planning.Templates() {
		out = append(out, TemplateDTO{
			Key:           string(t.Key),
			Name:          t.Name,
			OfficePerWeek: t.OfficePerWeek.String(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ApplyBalancedTemplate(w http.ResponseWriter, r *http.Request) {
	var req BalancedTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	window, err := parseWindow(req.From, req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid range", err)
		return
	}

	targets := toEmployeeIDs(req.Employees)
	if len(targets) == 0 {
		targets = h.variableEmployeeIDs()
	}

	ws, err := planning.PlanBalanced(h.Store, planning.TemplateKey(req.Key), targets, req.RespectPreferences, window, req.TargetOfficeCount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.applyWriteSet(w, req.Key, ws)
}

func (h *Handler) ApplyManagerTemplate(w http.ResponseWriter, r *http.Request) {
	var req ManagerTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	window, err := parseWindow(req.From, req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid range", err)
		return
	}
	if req.MinimumManagers < 1 {
		writeError(w, http.StatusBadRequest, "minimum_managers must be positive", nil)
		return
	}

	ws, err := planning.PlanManagerRotation(h.Store, toEmployeeIDs(req.Employees), req.MinimumManagers, window)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.applyWriteSet(w, "manager_minimum", ws)
}

func (h *Handler) ApplyManualTemplate(w http.ResponseWriter, r *http.Request) {
	var req ManualTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	window, err := parseWindow(req.From, req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid range", err)
		return
	}

	targets := toEmployeeIDs(req.Employees)
	if len(targets) == 0 {
		targets = h.variableEmployeeIDs()
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	ws, err := planning.PlanManual(h.Store, targets, window, planning.ManualVariant(req.Variant), rng)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.applyWriteSet(w, "manual/"+req.Variant, ws)
}

func (h *Handler) applyWriteSet(w http.ResponseWriter, label string, ws attendance.WriteSet) {
	if err := h.Store.ApplyWriteSet(label, ws); err != nil {
		writeDomainError(w, err)
		return
	}
	h.persist()
	writeJSON(w, http.StatusOK, TemplateResultDTO{Template: label, Assignments: len(ws)})
}

func (h *Handler) variableEmployeeIDs() []attendance.EmployeeID {
	var ids []attendance.EmployeeID
	for _, e := range h.Store.Employees() {
		if e.Mode == attendance.ModeVariable {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// =============================================================================
// COVERAGE HANDLERS
// =============================================================================

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Teams())
}

func (h *Handler) GetTeamCoverage(w http.ResponseWriter, r *http.Request) {
	team := chi.URLParam(r, "team")
	day, err := attendance.ParseDay(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Analyzer.AnalyzeTeamCoverage(team, day))
}

func (h *Handler) ScanTeamCoverage(w http.ResponseWriter, r *http.Request) {
	team := chi.URLParam(r, "team")
	window, err := rangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid window", err)
		return
	}
	maxDays := 0
	if v := r.URL.Query().Get("days"); v != "" {
		maxDays, err = strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid days", err)
			return
		}
	}
	reports := h.Analyzer.ScanCoverage(team, window, maxDays)
	writeJSON(w, http.StatusOK, reports)
}

func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	if h.Watcher == nil {
		writeJSON(w, http.StatusOK, []planning.CoverageReport{})
		return
	}
	writeJSON(w, http.StatusOK, h.Watcher.Alerts())
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

func (h *Handler) GetEmployeeReport(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	window, err := rangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid window", err)
		return
	}
	summary, err := h.Aggregator.EmployeeSummary(id, window)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetOrganizationReport(w http.ResponseWriter, r *http.Request) {
	window, err := rangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid window", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Aggregator.OrganizationSummary(window))
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	window, err := rangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid window", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance.csv"`)
	if err := h.Aggregator.WriteCSV(w, window); err != nil {
		h.Log.Warn("csv export failed mid-stream", "error", err)
	}
}

// =============================================================================
// CHANGE LOG
// =============================================================================

func (h *Handler) ListChanges(w http.ResponseWriter, r *http.Request) {
	changes := h.Store.Changes()
	out := make([]ChangeEntryDTO, 0, len(changes))
	for _, c := range changes {
		out = append(out, ChangeEntryDTO{
			ID:          c.ID,
			At:          c.At.Format(time.RFC3339),
			Description: c.Description,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// HELPERS
// =============================================================================

func rangeParams(r *http.Request) (attendance.DayRange, error) {
	return parseWindow(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
}

func parseWindow(from, to string) (attendance.DayRange, error) {
	f, err := attendance.ParseDay(from)
	if err != nil {
		return attendance.DayRange{}, err
	}
	t, err := attendance.ParseDay(to)
	if err != nil {
		return attendance.DayRange{}, err
	}
	window := attendance.NewDayRange(f, t)
	if !window.Valid() {
		return attendance.DayRange{}, attendance.ErrInvalidRange
	}
	return window, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Error: msg}
	if err != nil {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}

func isPlanningError(err error) bool {
	return errors.Is(err, planning.ErrUnknownVariant) || errors.Is(err, planning.ErrNilRand)
}

// writeDomainError maps engine errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case attendance.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not found", err)
	case attendance.IsConflict(err):
		writeError(w, http.StatusConflict, "conflict", err)
	case attendance.IsClientError(err), isPlanningError(err):
		writeError(w, http.StatusBadRequest, "invalid request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal error", err)
	}
}
