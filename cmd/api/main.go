package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/clinic-booking-api/internal/api/router"
	"github.com/wolfman30/clinic-booking-api/internal/app/bootstrap"
	"github.com/wolfman30/clinic-booking-api/internal/appointments"
	"github.com/wolfman30/clinic-booking-api/internal/callers"
	"github.com/wolfman30/clinic-booking-api/internal/clinic"
	appconfig "github.com/wolfman30/clinic-booking-api/internal/config"
	"github.com/wolfman30/clinic-booking-api/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/clinic-booking-api/internal/http/middleware"
	"github.com/wolfman30/clinic-booking-api/internal/observability/metrics"
	"github.com/wolfman30/clinic-booking-api/internal/storage"
	"github.com/wolfman30/clinic-booking-api/pkg/logging"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.Info("starting clinic-booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"conflict_policy", cfg.BookingConflictPolicy,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := bootstrap.OpenBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage backend", "error", err)
		os.Exit(1)
	}
	defer func() { _ = backend.Close() }()

	// Schema and seed problems must not keep the API down.
	if err := bootstrap.Initialize(ctx, cfg, backend, logger); err != nil {
		logger.Error("database initialization failed", "error", err)
	}

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	reg := prometheus.NewRegistry()
	m := setupMetrics(reg)

	var limiter *httpmiddleware.RateLimiter
	if cfg.WebhookRateLimitRPS > 0 {
		limiter = httpmiddleware.NewRateLimiter(cfg.WebhookRateLimitRPS, cfg.WebhookRateLimitBurst)
		go limiter.RunEviction(ctx)
	}

	r := router.New(buildRouterConfig(cfg, backend, bootstrap.BuildRosterCache(ctx, redisClient, cfg, logger), m, limiter, logger))

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "backend", backend.Dialect().Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

type appMetrics struct {
	handler  http.Handler
	http     *metrics.HTTPMetrics
	bookings *metrics.BookingMetrics
	callers  *metrics.CallerMetrics
}

func setupMetrics(reg *prometheus.Registry) appMetrics {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return appMetrics{
		handler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		http:     metrics.NewHTTPMetrics(reg),
		bookings: metrics.NewBookingMetrics(reg),
		callers:  metrics.NewCallerMetrics(reg),
	}
}

func buildRouterConfig(
	cfg *appconfig.Config,
	backend storage.Backend,
	rosterCache *clinic.RosterCache,
	m appMetrics,
	limiter *httpmiddleware.RateLimiter,
	logger *logging.Logger,
) *router.Config {
	clinicRepo := clinic.NewRepository(backend)
	apptRepo := appointments.NewRepository(backend)

	apptService := appointments.NewService(apptRepo, clinicRepo, appointments.ServiceOptions{
		RejectDoubleBooking: cfg.RejectDoubleBooking(),
		Metrics:             m.bookings,
	}, logger)

	return &router.Config{
		Logger:              logger,
		SystemHandler:       handlers.NewSystemHandler(backend, backend.Dialect().Name(), logger),
		ClinicHandler:       clinic.NewHandler(clinic.NewDirectory(clinicRepo, rosterCache, logger), logger),
		AppointmentsHandler: appointments.NewHandler(apptService, logger),
		CallersHandler: callers.NewHandler(callers.HandlerConfig{
			Patients:     clinicRepo,
			Appointments: apptRepo,
			Metrics:      m.callers,
			Logger:       logger,
		}),
		MetricsHandler:     m.handler,
		HTTPMetrics:        m.http,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		WebhookLimiter:     limiter,
	}
}
