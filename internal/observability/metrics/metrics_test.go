package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.ObserveRequest("GET", "/doctors", "200", 0.01)
	m.ObserveRequest("GET", "/doctors", "200", 0.02)

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/doctors", "200")); got != 2 {
		t.Fatalf("expected 2 requests, got %v", got)
	}
	if n := testutil.CollectAndCount(m.requestDuration); n != 1 {
		t.Fatalf("expected one latency series, got %d", n)
	}
}

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveBooking("created")
	m.ObserveBooking("conflict")
	m.ObserveBooking("created")
	m.ObservePatientCreated()
	m.ObserveUpdate()

	if got := testutil.ToFloat64(m.bookingsTotal.WithLabelValues("created")); got != 2 {
		t.Fatalf("expected 2 created bookings, got %v", got)
	}
	if got := testutil.ToFloat64(m.patientsCreated); got != 1 {
		t.Fatalf("expected 1 patient created, got %v", got)
	}
}

func TestCallerMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCallerMetrics(reg)
	m.ObserveLookup("unknown")

	if got := testutil.ToFloat64(m.lookupsTotal.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected 1 lookup, got %v", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var h *HTTPMetrics
	h.ObserveRequest("GET", "/", "200", 0.1)
	var b *BookingMetrics
	b.ObserveBooking("created")
	b.ObservePatientCreated()
	b.ObserveUpdate()
	var c *CallerMetrics
	c.ObserveLookup("existing")
}
