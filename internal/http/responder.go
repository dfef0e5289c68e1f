// Package http exposes the scheduler's JSON API.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/training-scheduler/internal/application"
	"github.com/example/training-scheduler/internal/interval"
	"github.com/example/training-scheduler/internal/logging"
	"github.com/example/training-scheduler/internal/recurrence"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// handleServiceError maps application errors onto HTTP status codes. Unknown
// errors are logged and masked as 500s.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *application.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Fields: vErr.FieldErrors,
		})
	case errors.Is(err, interval.ErrInvalidInterval):
		writeError(w, http.StatusBadRequest, "end time must be after start time")
	case errors.Is(err, recurrence.ErrInvalidRecurrence):
		writeError(w, http.StatusBadRequest, "repeating schedules need a repeat-until date on or after the start date")
	case errors.Is(err, application.ErrUnauthorized),
		errors.Is(err, application.ErrSessionExpired),
		errors.Is(err, application.ErrSessionRevoked):
		writeError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, application.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, application.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "resource already exists")
	default:
		logger := logging.FromContext(r.Context())
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(r.Context(), "unhandled service error", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
