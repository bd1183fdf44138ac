package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/clinic-booking-api/internal/api/router"
	appconfig "github.com/wolfman30/clinic-booking-api/internal/config"
	"github.com/wolfman30/clinic-booking-api/internal/storage/storagetest"
	"github.com/wolfman30/clinic-booking-api/pkg/logging"
)

func TestSetupMetricsExposesMetrics(t *testing.T) {
	m := setupMetrics(prometheus.NewRegistry())
	if m.handler == nil || m.http == nil || m.bookings == nil || m.callers == nil {
		t.Fatalf("expected all metrics to be built")
	}

	m.bookings.ObserveBooking("created")

	rr := httptest.NewRecorder()
	m.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `clinic_appointments_bookings_total{outcome="created"} 1`) {
		t.Fatalf("expected booking counter to be exported")
	}
	if !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Fatalf("expected runtime collectors to be exported")
	}
}

func TestBuildRouterConfigRejectPolicy(t *testing.T) {
	backend := storagetest.NewSeededSQLite(t)
	cfg := &appconfig.Config{
		BookingConflictPolicy: appconfig.ConflictPolicyReject,
		CORSAllowedOrigins:    []string{"*"},
	}
	rc := buildRouterConfig(cfg, backend, nil, setupMetrics(prometheus.NewRegistry()), nil, logging.New("error"))
	h := router.New(rc)

	body := `{"doctor_id":1,"patient_phone":"1-555-0101","patient_name":"Alice","datetime":"2025-12-08 13:00:00"}`
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 under reject policy, got %d", rr.Code)
	}
}

func TestBuildRouterConfigServesSanity(t *testing.T) {
	backend := storagetest.NewSQLite(t)
	rc := buildRouterConfig(&appconfig.Config{}, backend, nil, setupMetrics(prometheus.NewRegistry()), nil, nil)

	rr := httptest.NewRecorder()
	router.New(rc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sanity", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
