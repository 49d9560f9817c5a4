/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. httplog:    Structured slog request logging (ECS schema)
  4. CORS:       Cross-origin requests for the calendar frontend

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// NewLogger builds the shared slog logger in the request-log schema.
func NewLogger() *slog.Logger {
	format := httplog.SchemaECS.Concise(true)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: format.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-engine"),
	)
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Post("/import", h.ImportEmployees)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
			r.Put("/{id}/vacation", h.SetVacation)
			r.Delete("/{id}/vacation", h.ClearVacation)
			r.Get("/{id}/schedule", h.GetSchedule)
			r.Put("/{id}/status", h.SetStatus)
			r.Delete("/{id}/status/{date}", h.ClearStatus)
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.SetHoliday)
			r.Delete("/{date}", h.ClearHoliday)
		})

		r.Route("/weekend-shifts", func(r chi.Router) {
			r.Get("/", h.ListWeekendShifts)
			r.Post("/", h.SetWeekendShift)
			r.Delete("/{date}", h.ClearWeekendShift)
		})

		r.Get("/headcount", h.GetHeadcount)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.ListTemplates)
			r.Post("/balanced", h.ApplyBalancedTemplate)
			r.Post("/managers", h.ApplyManagerTemplate)
			r.Post("/manual", h.ApplyManualTemplate)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.ListTeams)
			r.Get("/{team}/coverage", h.GetTeamCoverage)
			r.Get("/{team}/coverage/scan", h.ScanTeamCoverage)
		})

		r.Get("/alerts", h.ListAlerts)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/employees/{id}", h.GetEmployeeReport)
			r.Get("/organization", h.GetOrganizationReport)
			r.Get("/export.csv", h.ExportCSV)
		})

		r.Get("/changelog", h.ListChanges)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetStore)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
