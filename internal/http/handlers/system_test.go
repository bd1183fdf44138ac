package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestSanity(t *testing.T) {
	h := NewSystemHandler(nil, "", nil)
	rec := httptest.NewRecorder()
	h.Sanity(rec, httptest.NewRequest(http.MethodGet, "/sanity", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sanity check": true}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		db     pinger
		status int
		body   string
	}{
		{"ok", stubPinger{}, http.StatusOK, `{"status":"ok","backend":"sqlite"}`},
		{"ping fails", stubPinger{err: errors.New("down")}, http.StatusServiceUnavailable, `{"status":"unavailable"}`},
		{"no backend", nil, http.StatusServiceUnavailable, `{"status":"unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler(tt.db, "sqlite", nil)
			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}
