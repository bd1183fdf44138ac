package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/clinic-booking-api/pkg/logging"
)

type service interface {
	ListAll(ctx context.Context) ([]Appointment, error)
	ListForPhone(ctx context.Context, phone string) ([]PatientAppointment, error)
	Available(ctx context.Context, doctorID int64, date string) ([]string, error)
	Book(ctx context.Context, req BookRequest) (*BookResponse, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*UpdateResponse, error)
}

// Handler handles HTTP requests for appointments.
type Handler struct {
	svc    service
	logger *logging.Logger
}

// NewHandler creates a new appointments handler.
func NewHandler(svc service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// List handles GET /appointments. Without patient_phone every row is
// returned; with it, only that patient's scheduled appointments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("patient_phone")
	if phone == "" {
		all, err := h.svc.ListAll(r.Context())
		if err != nil {
			h.logger.Error("failed to list appointments", "error", err)
			http.Error(w, "failed to list appointments", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, all)
		return
	}

	rows, err := h.svc.ListForPhone(r.Context(), phone)
	if err != nil {
		h.logger.Error("failed to list appointments for phone", "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// Available handles GET /appointments/available?doctor_id=&date=.
func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	doctorID, date, err := ParseAvailabilityQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	slots, err := h.svc.Available(r.Context(), doctorID, date)
	if err != nil {
		h.logger.Error("failed to compute availability", "error", err, "doctor_id", doctorID, "date", date)
		http.Error(w, "failed to compute availability", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, AvailabilityResponse{AvailableSlots: slots})
}

// ParseAvailabilityQuery extracts doctor_id and date from an availability
// query string.
func ParseAvailabilityQuery(q url.Values) (int64, string, error) {
	rawDoctor := q.Get("doctor_id")
	if rawDoctor == "" {
		return 0, "", ErrMissingDoctor
	}
	doctorID, err := strconv.ParseInt(rawDoctor, 10, 64)
	if err != nil {
		return 0, "", ErrInvalidDoctor
	}
	date := q.Get("date")
	if date == "" {
		return 0, "", ErrMissingDate
	}
	return doctorID, date, nil
}

// Book handles POST /appointments.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode booking request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.svc.Book(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.logger.Error("failed to book appointment", "error", err)
		http.Error(w, "failed to book appointment", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Update handles PUT /appointments/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode update request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("failed to update appointment", "error", err, "appointment_id", id)
		http.Error(w, "failed to update appointment", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
