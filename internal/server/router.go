// Package server wires the hostel services, handlers and middleware into
// one chi router.
package server

import (
	"net/http"
	"time"

	"github.com/aawaaz/hostel-server/internal/handlers"
	"github.com/aawaaz/hostel-server/internal/metrics"
	"github.com/aawaaz/hostel-server/internal/middleware"
	"github.com/aawaaz/hostel-server/internal/services"
	"github.com/aawaaz/hostel-server/internal/session"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the collaborators the router needs. Limiter and Gatherer are
// optional; a nil Limiter disables rate limiting and a nil Gatherer
// disables /metrics.
type Deps struct {
	Version        string
	AllowedOrigins []string

	Registry      *services.ComplaintRegistry
	Announcements *services.AnnouncementLog
	Staff         *services.StaffDirectory
	Activity      *services.ActivityLogService
	Ledger        *services.MerkleService
	Issuer        *session.Issuer

	Limiter      middleware.Limiter
	ReadyChecker handlers.Pinger
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer

	Logger *zap.Logger
}

// NewRouter builds the HTTP handler for the API
func NewRouter(d Deps) http.Handler {
	sugar := d.Logger.Sugar()

	complaintHandler := handlers.NewComplaintHandler(d.Registry, sugar)
	announcementHandler := handlers.NewAnnouncementHandler(d.Announcements, sugar)
	activityHandler := handlers.NewActivityHandler(d.Activity, d.Registry, sugar)
	integrityHandler := handlers.NewIntegrityHandler(d.Ledger, sugar)
	sessionHandler := handlers.NewSessionHandler(d.Issuer, d.Staff, sugar)
	staffHandler := handlers.NewStaffHandler(d.Staff)
	healthHandler := handlers.NewHealthHandler(d.Version, d.ReadyChecker, d.Ledger, sugar)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.StripIPHeaders())
	r.Use(middleware.StructuredLogger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.Instrument(d.Metrics))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Merkle-Root"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if d.Limiter != nil {
		r.Use(middleware.RateLimit(d.Limiter, sugar))
	}

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	anyRole := middleware.RequireRole(d.Issuer)
	wardenOnly := middleware.RequireRole(d.Issuer, session.RoleWarden)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)
		r.Get("/health/ready", healthHandler.Ready)

		r.Post("/session", sessionHandler.Create)

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", staffHandler.List)
			r.Get("/{id}", staffHandler.Get)
		})

		r.Route("/announcements", func(r chi.Router) {
			r.Get("/", announcementHandler.List)
			r.With(wardenOnly).Post("/", announcementHandler.Post)
		})

		r.With(anyRole).Get("/complaints/ticket/{ticketId}", complaintHandler.ByTicket)

		r.Route("/student", func(r chi.Router) {
			r.Use(middleware.RequireRole(d.Issuer, session.RoleStudent))
			r.Get("/complaints", complaintHandler.StudentList)
			r.Post("/complaints", complaintHandler.StudentSubmit)
		})

		r.Route("/warden", func(r chi.Router) {
			r.Use(wardenOnly)
			r.Get("/complaints", complaintHandler.WardenList)
			r.Post("/complaints/{id}/assign", complaintHandler.Assign)
			r.Get("/complaints/{id}/activity", activityHandler.ByComplaint)
			r.Get("/activity/recent", activityHandler.Recent)
			r.Get("/analytics/categories", complaintHandler.Categories)
			r.Get("/analytics/status", complaintHandler.StatusSummary)
		})

		r.Route("/maintenance", func(r chi.Router) {
			r.Use(middleware.RequireRole(d.Issuer, session.RoleMaintenance))
			r.Get("/tasks", complaintHandler.Tasks)
			r.Post("/tasks/{id}/status", complaintHandler.UpdateTaskStatus)
		})

		// Integrity endpoints (Merkle tree over the activity log)
		r.Route("/integrity", func(r chi.Router) {
			r.Get("/root", integrityHandler.GetRoot)
			r.Get("/proof/{index}", integrityHandler.GetProof)
			r.Post("/verify", integrityHandler.Verify)
		})
	})

	return r
}
