package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/clinic-booking-api/internal/appointments"
	"github.com/wolfman30/clinic-booking-api/internal/callers"
	"github.com/wolfman30/clinic-booking-api/internal/clinic"
	"github.com/wolfman30/clinic-booking-api/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/clinic-booking-api/internal/http/middleware"
	"github.com/wolfman30/clinic-booking-api/internal/observability/metrics"
	"github.com/wolfman30/clinic-booking-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	SystemHandler       *handlers.SystemHandler
	ClinicHandler       *clinic.Handler
	AppointmentsHandler *appointments.Handler
	CallersHandler      *callers.Handler
	MetricsHandler      http.Handler
	HTTPMetrics         *metrics.HTTPMetrics
	CORSAllowedOrigins  []string

	// WebhookLimiter rate limits the telephony webhook per client IP; nil disables it.
	WebhookLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	r.Use(httpmiddleware.Metrics(cfg.HTTPMetrics))

	// Probes
	r.Group(func(public chi.Router) {
		if cfg.SystemHandler != nil {
			public.Get("/sanity", cfg.SystemHandler.Sanity)
			public.Get("/health", cfg.SystemHandler.Health)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	if cfg.ClinicHandler != nil {
		r.Get("/doctors", cfg.ClinicHandler.ListDoctors)
		r.Get("/patients", cfg.ClinicHandler.ListPatients)
	}

	if cfg.AppointmentsHandler != nil {
		r.Route("/appointments", func(appts chi.Router) {
			appts.Get("/", cfg.AppointmentsHandler.List)
			appts.Post("/", cfg.AppointmentsHandler.Book)
			appts.Get("/available", cfg.AppointmentsHandler.Available)
			appts.Put("/{id:[0-9]+}", cfg.AppointmentsHandler.Update)
		})
	}

	if cfg.CallersHandler != nil {
		r.Route("/webhook", func(hooks chi.Router) {
			hooks.Use(httpmiddleware.RateLimit(cfg.WebhookLimiter))
			hooks.Post("/caller-context", cfg.CallersHandler.CallerContext)
		})
	}

	return r
}
