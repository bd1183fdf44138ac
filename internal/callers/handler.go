package callers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/clinic-booking-api/internal/appointments"
	"github.com/wolfman30/clinic-booking-api/internal/clinic"
	"github.com/wolfman30/clinic-booking-api/internal/observability/metrics"
	"github.com/wolfman30/clinic-booking-api/pkg/logging"
)

var callersTracer = otel.Tracer("clinic.internal.callers")

// unknownCallerName is reported for callers that are not patients.
const unknownCallerName = "caller"

// CallerContextRequest is the body the telephony provider posts when a call
// arrives.
type CallerContextRequest struct {
	// From is the caller's number in whatever format the carrier supplied.
	From string `json:"from"`
}

// CallerContext is the webhook response. Existing patients carry identity and
// upcoming-appointment fields; unknown callers carry the debug fields and,
// when a lookup failed, Error.
type CallerContext struct {
	IsExistingPatient bool   `json:"is_existing_patient"`
	PatientName       string `json:"patient_name"`

	PatientID                   *int64 `json:"patient_id,omitempty"`
	PatientPhone                string `json:"patient_phone,omitempty"`
	HasUpcomingAppointment      *bool  `json:"has_upcoming_appointment,omitempty"`
	UpcomingAppointmentID       *int64 `json:"upcoming_appointment_id,omitempty"`
	UpcomingAppointmentDateTime string `json:"upcoming_appointment_datetime,omitempty"`
	UpcomingAppointmentDoctor   string `json:"upcoming_appointment_doctor,omitempty"`

	// DebugCleaned is the formatted number when normalization succeeded,
	// otherwise the bare digits.
	DebugCleaned  *string `json:"debug_cleaned,omitempty"`
	DebugOriginal *string `json:"debug_original,omitempty"`
	Error         string  `json:"error,omitempty"`
}

type patientLookup interface {
	FindPatientByPhone(ctx context.Context, phone string) (*clinic.Patient, error)
}

type upcomingLookup interface {
	NextScheduledForPatient(ctx context.Context, patientID int64) (*appointments.Upcoming, error)
}

// HandlerConfig configures the Handler.
type HandlerConfig struct {
	Patients     patientLookup
	Appointments upcomingLookup
	Metrics      *metrics.CallerMetrics
	Logger       *logging.Logger
}

// Handler serves the caller-context webhook.
type Handler struct {
	patients     patientLookup
	appointments upcomingLookup
	metrics      *metrics.CallerMetrics
	logger       *logging.Logger
}

// NewHandler creates a caller-context handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Patients == nil || cfg.Appointments == nil {
		panic("callers: patient and appointment lookups required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Handler{
		patients:     cfg.Patients,
		appointments: cfg.Appointments,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
	}
}

// CallerContext handles POST /webhook/caller-context. It always answers 200
// so the telephony flow can continue with a generic greeting.
func (h *Handler) CallerContext(w http.ResponseWriter, r *http.Request) {
	var req CallerContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("caller-context: invalid body", "error", err)
		h.metrics.ObserveLookup("invalid")
		resp := unknownCaller("", "")
		resp.Error = "invalid request body"
		writeJSON(w, http.StatusOK, resp)
		return
	}

	writeJSON(w, http.StatusOK, h.resolve(r.Context(), req.From))
}

func (h *Handler) resolve(ctx context.Context, raw string) CallerContext {
	ctx, span := callersTracer.Start(ctx, "callers.resolve")
	defer span.End()

	digits, formatted, ok := Normalize(raw)
	if !ok {
		h.metrics.ObserveLookup("invalid")
		return unknownCaller(digits, raw)
	}
	span.SetAttributes(attribute.String("clinic.caller_phone", formatted))

	patient, err := h.patients.FindPatientByPhone(ctx, formatted)
	if errors.Is(err, clinic.ErrPatientNotFound) {
		h.metrics.ObserveLookup("unknown")
		return unknownCaller(formatted, raw)
	}
	if err != nil {
		return h.failed(span, err, formatted, raw)
	}

	resp := CallerContext{
		IsExistingPatient: true,
		PatientID:         &patient.ID,
		PatientName:       patient.Name,
		PatientPhone:      patient.Phone,
	}
	has := false
	resp.HasUpcomingAppointment = &has

	next, err := h.appointments.NextScheduledForPatient(ctx, patient.ID)
	switch {
	case errors.Is(err, appointments.ErrNoUpcoming):
	case err != nil:
		return h.failed(span, err, formatted, raw)
	default:
		has = true
		resp.UpcomingAppointmentID = &next.ID
		resp.UpcomingAppointmentDateTime = next.DateTime
		resp.UpcomingAppointmentDoctor = next.DoctorName
	}

	h.metrics.ObserveLookup("existing")
	return resp
}

func (h *Handler) failed(span trace.Span, err error, cleaned, raw string) CallerContext {
	span.RecordError(err)
	h.logger.Error("caller-context: lookup failed", "error", err)
	h.metrics.ObserveLookup("error")
	resp := unknownCaller(cleaned, raw)
	resp.Error = "caller lookup failed"
	return resp
}

func unknownCaller(cleaned, raw string) CallerContext {
	return CallerContext{
		IsExistingPatient: false,
		PatientName:       unknownCallerName,
		DebugCleaned:      &cleaned,
		DebugOriginal:     &raw,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
