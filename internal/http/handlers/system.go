package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/wolfman30/clinic-booking-api/pkg/logging"
)

// pinger is satisfied by storage.Backend.
type pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves liveness and readiness endpoints.
type SystemHandler struct {
	db          pinger
	backendName string
	logger      *logging.Logger
}

// NewSystemHandler creates a handler that probes db on /health.
func NewSystemHandler(db pinger, backendName string, logger *logging.Logger) *SystemHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SystemHandler{db: db, backendName: backendName, logger: logger}
}

// Sanity handles GET /sanity. It never touches storage.
func (h *SystemHandler) Sanity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"sanity check": true})
}

// Health handles GET /health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", "error", err, "backend", h.backendName)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "backend": h.backendName})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
