/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/partners/*       Partner management and activation
  /api/drivers/*        Driver management and scorecards
  /api/vehicles/*       Vehicle management and assignment
  /api/invariants/*     Monitored invariants
  /api/rules/*          SCP catalogue
  /api/reports/*        Trip reports
  /api/infractions/*    Infraction records
  /api/objectives/*     KPI objectives
  /api/annotations/*    KPI annotations
  /api/kpi              KPI board evaluation
  /api/scenarios/*      Demo scenarios

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.
  The back office is meant to run on a trusted network.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Partner routes
		r.Route("/partners", func(r chi.Router) {
			r.Get("/", h.ListPartners)
			r.Post("/", h.CreatePartner)
			r.Get("/{id}", h.GetPartner)
			r.Delete("/{id}", h.DeletePartner)
			r.Post("/{id}/activate", h.ActivatePartner)
		})

		// Driver routes
		r.Route("/drivers", func(r chi.Router) {
			r.Get("/", h.ListDrivers)
			r.Post("/", h.CreateDriver)
			r.Get("/{id}", h.GetDriver)
			r.Delete("/{id}", h.DeleteDriver)
			r.Get("/{id}/scorecard", h.GetScorecard)
		})

		// Vehicle routes
		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", h.ListVehicles)
			r.Post("/", h.CreateVehicle)
			r.Delete("/{id}", h.DeleteVehicle)
			r.Put("/{id}/driver", h.AssignVehicle)
		})

		// Invariant routes
		r.Route("/invariants", func(r chi.Router) {
			r.Get("/", h.ListInvariants)
			r.Post("/", h.CreateInvariant)
			r.Delete("/{id}", h.DeleteInvariant)
		})

		// SCP rule routes
		r.Route("/rules", func(r chi.Router) {
			r.Get("/", h.ListRules)
			r.Post("/", h.CreateRule)
			r.Delete("/{id}", h.DeleteRule)
		})

		// Trip report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/", h.ListReports)
			r.Post("/", h.CreateReport)
			r.Delete("/{id}", h.DeleteReport)
		})

		// Infraction routes
		r.Route("/infractions", func(r chi.Router) {
			r.Get("/", h.ListInfractions)
			r.Post("/", h.CreateInfraction)
			r.Delete("/{id}", h.DeleteInfraction)
		})

		// Objective routes
		r.Route("/objectives", func(r chi.Router) {
			r.Get("/", h.ListObjectives)
			r.Post("/", h.CreateObjective)
			r.Delete("/{id}", h.DeleteObjective)
		})

		// Annotation routes
		r.Route("/annotations", func(r chi.Router) {
			r.Get("/", h.ListAnnotations)
			r.Post("/", h.CreateAnnotation)
			r.Delete("/{id}", h.DeleteAnnotation)
		})

		// KPI board
		r.Get("/kpi", h.GetKpi)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
