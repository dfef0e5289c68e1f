package http

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/example/training-scheduler/internal/application"
	"github.com/example/training-scheduler/internal/holiday"
	"github.com/example/training-scheduler/internal/interval"
	"github.com/example/training-scheduler/internal/recurrence"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest runs struct tag validation, writing a 400 with per-field
// messages on failure.
func validateRequest(w http.ResponseWriter, payload any) bool {
	err := validate.Struct(payload)
	if err == nil {
		return true
	}

	fields := make(map[string]string)
	if invalid, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range invalid {
			fields[fieldErr.Field()] = "failed " + fieldErr.Tag() + " validation"
		}
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
	return false
}

type sessionRequest struct {
	BatchID string `json:"batch_id" validate:"required"`
	VenueID string `json:"venue_id" validate:"required"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Start   string `json:"start" validate:"required"`
	End     string `json:"end" validate:"required"`
	Topic   string `json:"topic" validate:"required"`
	Trainer string `json:"trainer"`

	SkipHolidays bool `json:"skip_holidays"`
}

type recurringSessionRequest struct {
	sessionRequest
	Cadence     string `json:"cadence" validate:"required,oneof=single daily weekly"`
	RepeatUntil string `json:"repeat_until" validate:"omitempty,datetime=2006-01-02"`
}

type updateSessionRequest struct {
	sessionRequest
	Cancelled bool `json:"cancelled"`
}

func (req sessionRequest) toInput(w http.ResponseWriter) (application.SessionInput, bool) {
	date, err := parseDateParam(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
		return application.SessionInput{}, false
	}
	start, err := interval.ParseTimeOfDay(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be formatted HH:MM")
		return application.SessionInput{}, false
	}
	end, err := interval.ParseTimeOfDay(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be formatted HH:MM")
		return application.SessionInput{}, false
	}

	return application.SessionInput{
		BatchID: req.BatchID,
		VenueID: req.VenueID,
		Date:    date,
		Start:   start,
		End:     end,
		Topic:   req.Topic,
		Trainer: req.Trainer,
	}, true
}

func parseDateParam(value string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, value, recurrence.Location())
}

type sessionResponse struct {
	ID        string `json:"id"`
	BatchID   string `json:"batch_id"`
	VenueID   string `json:"venue_id"`
	Date      string `json:"date"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Topic     string `json:"topic"`
	Trainer   string `json:"trainer,omitempty"`
	Cancelled bool   `json:"cancelled"`
}

func toSessionResponse(session application.TrainingSession) sessionResponse {
	return sessionResponse{
		ID:        session.ID,
		BatchID:   session.BatchID,
		VenueID:   session.VenueID,
		Date:      session.Date.Format(time.DateOnly),
		Start:     session.Interval.Start.String(),
		End:       session.Interval.End.String(),
		Topic:     session.Topic,
		Trainer:   session.Trainer,
		Cancelled: session.Cancelled,
	}
}

func toSessionResponses(sessions []application.TrainingSession) []sessionResponse {
	responses := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, toSessionResponse(session))
	}
	return responses
}

type holidayResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Scope       string `json:"scope"`
	ScopeID     string `json:"scope_id,omitempty"`
}

func toHolidayResponse(entry holiday.Holiday) holidayResponse {
	return holidayResponse{
		ID:          entry.ID,
		Date:        entry.Date.Format(time.DateOnly),
		Name:        entry.Name,
		Description: entry.Description,
		Scope:       string(entry.Scope),
		ScopeID:     entry.ScopeID,
	}
}

type scheduleResponse struct {
	Outcome   string            `json:"outcome"`
	Session   *sessionResponse  `json:"session,omitempty"`
	Holiday   *holidayResponse  `json:"holiday,omitempty"`
	Conflicts []sessionResponse `json:"conflicts,omitempty"`
}

func toScheduleResponse(result application.ScheduleResult) scheduleResponse {
	response := scheduleResponse{Outcome: string(result.Outcome)}
	switch result.Outcome {
	case application.OutcomeScheduled:
		session := toSessionResponse(result.Session)
		response.Session = &session
	case application.OutcomeHolidayBlocked:
		if result.Holiday != nil {
			entry := toHolidayResponse(*result.Holiday)
			response.Holiday = &entry
		}
	case application.OutcomeConflictBlocked:
		response.Conflicts = toSessionResponses(result.Conflicts)
	}
	return response
}

func scheduleStatus(result application.ScheduleResult, createdStatus int) int {
	if result.Outcome == application.OutcomeScheduled {
		return createdStatus
	}
	return http.StatusConflict
}

type recurringResponse struct {
	CreatedDates         []string          `json:"created_dates"`
	SkippedConflictDates []string          `json:"skipped_conflict_dates"`
	SkippedHolidayDates  []string          `json:"skipped_holiday_dates"`
	Sessions             []sessionResponse `json:"sessions"`
}

func toRecurringResponse(result application.RecurringResult) recurringResponse {
	return recurringResponse{
		CreatedDates:         formatDates(result.CreatedDates),
		SkippedConflictDates: formatDates(result.SkippedConflictDates),
		SkippedHolidayDates:  formatDates(result.SkippedHolidayDates),
		Sessions:             toSessionResponses(result.Sessions),
	}
}

func formatDates(dates []time.Time) []string {
	formatted := make([]string, 0, len(dates))
	for _, date := range dates {
		formatted = append(formatted, date.Format(time.DateOnly))
	}
	return formatted
}

type venueResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Room     string `json:"room,omitempty"`
	Capacity int    `json:"capacity"`
}

type batchResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DepartmentID string `json:"department_id"`
	AcademicYear string `json:"academic_year"`
	Active       bool   `json:"active"`
}
