package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "clinic"

// HTTPMetrics exposes request counters/latency keyed by route pattern.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration)
	return m
}

func (m *HTTPMetrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, status).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(seconds)
}

// BookingMetrics counts appointment writes.
type BookingMetrics struct {
	bookingsTotal   *prometheus.CounterVec
	patientsCreated prometheus.Counter
	updatesTotal    prometheus.Counter
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		patientsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "patients_created_total",
			Help:      "Patients created implicitly by bookings",
		}),
		updatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "updates_total",
			Help:      "Appointment update requests",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.patientsCreated, m.updatesTotal)
	return m
}

// ObserveBooking records a booking outcome: "created", "conflict" or "error".
func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObservePatientCreated() {
	if m == nil {
		return
	}
	m.patientsCreated.Inc()
}

func (m *BookingMetrics) ObserveUpdate() {
	if m == nil {
		return
	}
	m.updatesTotal.Inc()
}

// CallerMetrics counts caller-context webhook lookups.
type CallerMetrics struct {
	lookupsTotal *prometheus.CounterVec
}

func NewCallerMetrics(reg prometheus.Registerer) *CallerMetrics {
	m := &CallerMetrics{
		lookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "callers",
			Name:      "lookups_total",
			Help:      "Caller-context lookups by result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.lookupsTotal)
	return m
}

// ObserveLookup records a lookup result: "existing", "unknown", "invalid" or "error".
func (m *CallerMetrics) ObserveLookup(result string) {
	if m == nil {
		return
	}
	m.lookupsTotal.WithLabelValues(result).Inc()
}
