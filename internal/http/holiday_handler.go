package http

import (
	"net/http"

	"github.com/example/training-scheduler/internal/application"
)

// HolidayHandler serves the holiday calendar endpoints.
type HolidayHandler struct {
	holidays *application.HolidayService
}

// NewHolidayHandler wires the holiday service.
func NewHolidayHandler(holidays *application.HolidayService) *HolidayHandler {
	return &HolidayHandler{holidays: holidays}
}

type holidayRequest struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Scope       string `json:"scope" validate:"omitempty,oneof=global department batch"`
	ScopeID     string `json:"scope_id"`
}

// Create handles POST /api/holidays.
func (h *HolidayHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req holidayRequest
	if !decodeBody(w, r, &req) || !validateRequest(w, req) {
		return
	}
	date, err := parseDateParam(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		return
	}

	created, err := h.holidays.Create(r.Context(), PrincipalFromContext(r.Context()), application.HolidayInput{
		Date:        date,
		Name:        req.Name,
		Description: req.Description,
		Scope:       req.Scope,
		ScopeID:     req.ScopeID,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayResponse(created))
}

// List handles GET /api/holidays.
func (h *HolidayHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.holidays.List(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	responses := make([]holidayResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toHolidayResponse(entry))
	}
	writeJSON(w, http.StatusOK, responses)
}

// Delete handles DELETE /api/holidays/{id}.
func (h *HolidayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.holidays.Delete(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
