package http

import (
	"net/http"
	"strconv"

	"github.com/example/training-scheduler/internal/application"
)

// SessionHandler serves the training session endpoints.
type SessionHandler struct {
	scheduler *application.SchedulerService
}

// NewSessionHandler wires the scheduler service.
func NewSessionHandler(scheduler *application.SchedulerService) *SessionHandler {
	return &SessionHandler{scheduler: scheduler}
}

// CreateSingle handles POST /api/sessions.
func (h *SessionHandler) CreateSingle(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decodeBody(w, r, &req) || !validateRequest(w, req) {
		return
	}
	input, ok := req.toInput(w)
	if !ok {
		return
	}

	result, err := h.scheduler.CreateSingle(r.Context(), application.CreateSingleParams{
		Principal:    PrincipalFromContext(r.Context()),
		Input:        input,
		SkipHolidays: req.SkipHolidays,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, scheduleStatus(result, http.StatusCreated), toScheduleResponse(result))
}

// CreateRecurring handles POST /api/sessions/recurring.
func (h *SessionHandler) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringSessionRequest
	if !decodeBody(w, r, &req) || !validateRequest(w, req) {
		return
	}
	input, ok := req.toInput(w)
	if !ok {
		return
	}

	params := application.CreateRecurringParams{
		Principal:    PrincipalFromContext(r.Context()),
		Input:        input,
		Cadence:      req.Cadence,
		SkipHolidays: req.SkipHolidays,
	}
	if req.RepeatUntil != "" {
		until, err := parseDateParam(req.RepeatUntil)
		if err != nil {
			writeError(w, http.StatusBadRequest, "repeat_until must be formatted YYYY-MM-DD")
			return
		}
		params.RepeatUntil = &until
	}

	result, err := h.scheduler.CreateRecurring(r.Context(), params)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRecurringResponse(result))
}

// Get handles GET /api/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.scheduler.Get(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

// Update handles PUT /api/sessions/{id}.
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateSessionRequest
	if !decodeBody(w, r, &req) || !validateRequest(w, req) {
		return
	}
	input, ok := req.toInput(w)
	if !ok {
		return
	}

	result, err := h.scheduler.Update(r.Context(), application.UpdateSessionParams{
		Principal:    PrincipalFromContext(r.Context()),
		SessionID:    r.PathValue("id"),
		Input:        input,
		Cancelled:    req.Cancelled,
		SkipHolidays: req.SkipHolidays,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, scheduleStatus(result, http.StatusOK), toScheduleResponse(result))
}

// ToggleCancelled handles POST /api/sessions/{id}/toggle-cancelled.
func (h *SessionHandler) ToggleCancelled(w http.ResponseWriter, r *http.Request) {
	skipHolidays := r.URL.Query().Get("skip_holidays") == "true"

	result, err := h.scheduler.ToggleCancelled(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"), skipHolidays)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, scheduleStatus(result, http.StatusOK), toScheduleResponse(result))
}

// Delete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.Delete(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ListForVenue handles GET /api/venues/{id}/sessions?date=YYYY-MM-DD.
func (h *SessionHandler) ListForVenue(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date query parameter must be formatted YYYY-MM-DD")
		return
	}
	includeCancelled, _ := strconv.ParseBool(r.URL.Query().Get("include_cancelled"))

	sessions, err := h.scheduler.ListForVenueDate(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"), date, includeCancelled)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponses(sessions))
}

// ListForBatch handles GET /api/batches/{id}/sessions.
func (h *SessionHandler) ListForBatch(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.scheduler.ListForBatch(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponses(sessions))
}
