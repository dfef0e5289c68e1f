package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/training-scheduler/internal/conflict"
	"github.com/example/training-scheduler/internal/holiday"
	"github.com/example/training-scheduler/internal/interval"
	"github.com/example/training-scheduler/internal/persistence"
	"github.com/example/training-scheduler/internal/recurrence"
)

// SessionStore captures the session persistence interactions the scheduler needs.
type SessionStore interface {
	CreateSession(ctx context.Context, session TrainingSession) (TrainingSession, error)
	GetSession(ctx context.Context, id string) (TrainingSession, error)
	UpdateSession(ctx context.Context, session TrainingSession) (TrainingSession, error)
	DeleteSession(ctx context.Context, id string) error
	SessionsFor(ctx context.Context, venueID string, date time.Time, excludeCancelled bool) ([]TrainingSession, error)
	ListSessionsForBatch(ctx context.Context, batchID string) ([]TrainingSession, error)
}

// HolidayLookup exposes the range query used to pre-fetch holiday candidates.
type HolidayLookup interface {
	HolidaysInRange(ctx context.Context, start, end time.Time, departmentID, batchID string) ([]holiday.Holiday, error)
}

// VenueCatalog exposes read-only venue lookup.
type VenueCatalog interface {
	GetVenue(ctx context.Context, id string) (Venue, error)
}

// BatchCatalog exposes read-only batch lookup.
type BatchCatalog interface {
	GetBatch(ctx context.Context, id string) (Batch, error)
}

// AttendanceStore exposes the cascade hook invoked before a session delete.
type AttendanceStore interface {
	DeleteBySession(ctx context.Context, sessionID string) error
}

// SchedulerService orchestrates holiday resolution, conflict checking, and
// persistence for training session operations. It holds no mutable state of
// its own; venue exclusivity is ultimately enforced by the store's overlap
// guard inside the write transaction.
type SchedulerService struct {
	sessions    SessionStore
	holidays    HolidayLookup
	venues      VenueCatalog
	batches     BatchCatalog
	attendance  AttendanceStore
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewSchedulerService wires dependencies for scheduling operations.
func NewSchedulerService(sessions SessionStore, holidays HolidayLookup, venues VenueCatalog, batches BatchCatalog, attendance AttendanceStore, idGenerator func() string, now func() time.Time) *SchedulerService {
	return NewSchedulerServiceWithLogger(sessions, holidays, venues, batches, attendance, idGenerator, now, nil)
}

// NewSchedulerServiceWithLogger wires dependencies plus a base logger.
func NewSchedulerServiceWithLogger(sessions SessionStore, holidays HolidayLookup, venues VenueCatalog, batches BatchCatalog, attendance AttendanceStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SchedulerService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SchedulerService{
		sessions:    sessions,
		holidays:    holidays,
		venues:      venues,
		batches:     batches,
		attendance:  attendance,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateSingle schedules one session. A holiday on the date blocks the
// request unless SkipHolidays is set; an occupied venue slot blocks it
// unconditionally. Both blocks are outcomes, not errors.
func (s *SchedulerService) CreateSingle(ctx context.Context, params CreateSingleParams) (ScheduleResult, error) {
	if s == nil {
		return ScheduleResult{}, fmt.Errorf("SchedulerService is nil")
	}
	if !params.Principal.Authenticated() {
		return ScheduleResult{}, ErrUnauthorized
	}

	iv, err := interval.New(params.Input.Start, params.Input.End)
	if err != nil {
		return ScheduleResult{}, err
	}
	if err := validateSessionCore(params.Input); err != nil {
		return ScheduleResult{}, err
	}

	batch, venue, err := s.resolveReferences(ctx, params.Input.BatchID, params.Input.VenueID)
	if err != nil {
		return ScheduleResult{}, err
	}

	date := recurrence.Date(params.Input.Date)

	blocking, err := s.holidayFor(ctx, date, batch)
	if err != nil {
		return ScheduleResult{}, err
	}
	if blocking != nil && !params.SkipHolidays {
		return ScheduleResult{Outcome: OutcomeHolidayBlocked, Holiday: blocking}, nil
	}

	conflicts, err := s.conflictsFor(ctx, venue.ID, date, iv, "")
	if err != nil {
		return ScheduleResult{}, err
	}
	if len(conflicts) > 0 {
		return ScheduleResult{Outcome: OutcomeConflictBlocked, Conflicts: conflicts}, nil
	}

	createdAt := s.now()
	session := TrainingSession{
		ID:        s.idGenerator(),
		BatchID:   batch.ID,
		VenueID:   venue.ID,
		Date:      date,
		Interval:  iv,
		Topic:     strings.TrimSpace(params.Input.Topic),
		Trainer:   strings.TrimSpace(params.Input.Trainer),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	persisted, err := s.sessions.CreateSession(ctx, session)
	if err != nil {
		if result, handled := s.overlapOutcome(ctx, err, venue.ID, date, iv, ""); handled {
			return result, nil
		}
		return ScheduleResult{}, mapStoreError(err)
	}

	serviceLogger(ctx, s.logger, "scheduler", "create_single",
		"session_id", persisted.ID, "venue_id", venue.ID, "date", date.Format(time.DateOnly)).
		InfoContext(ctx, "session scheduled")

	return ScheduleResult{Outcome: OutcomeScheduled, Session: persisted}, nil
}

// CreateRecurring expands a cadence into candidate dates and schedules each
// one best-effort. Holidays are pre-fetched for the whole range once; dates
// blocked by a holiday or an existing booking are recorded and skipped, never
// failing the dates that succeed.
func (s *SchedulerService) CreateRecurring(ctx context.Context, params CreateRecurringParams) (RecurringResult, error) {
	if s == nil {
		return RecurringResult{}, fmt.Errorf("SchedulerService is nil")
	}
	if !params.Principal.Authenticated() {
		return RecurringResult{}, ErrUnauthorized
	}

	iv, err := interval.New(params.Input.Start, params.Input.End)
	if err != nil {
		return RecurringResult{}, err
	}
	if err := validateSessionCore(params.Input); err != nil {
		return RecurringResult{}, err
	}

	cadence, err := recurrence.ParseCadence(params.Cadence)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("cadence", "cadence must be one of single, daily, weekly")
		return RecurringResult{}, vErr
	}

	dates, err := recurrence.Expand(params.Input.Date, cadence, params.RepeatUntil)
	if err != nil {
		return RecurringResult{}, err
	}

	batch, venue, err := s.resolveReferences(ctx, params.Input.BatchID, params.Input.VenueID)
	if err != nil {
		return RecurringResult{}, err
	}

	// One range query for the whole series instead of a lookup per date.
	entries, err := s.holidays.HolidaysInRange(ctx, dates[0], dates[len(dates)-1], batch.DepartmentID, batch.ID)
	if err != nil {
		return RecurringResult{}, mapStoreError(err)
	}
	calendar := holiday.NewCalendar(entries)

	result := RecurringResult{}
	logger := serviceLogger(ctx, s.logger, "scheduler", "create_recurring",
		"venue_id", venue.ID, "cadence", string(cadence), "dates", len(dates))

	for _, date := range dates {
		if !params.SkipHolidays {
			if blocking := calendar.Resolve(date, batch.DepartmentID, batch.ID); blocking != nil {
				result.SkippedHolidayDates = append(result.SkippedHolidayDates, date)
				continue
			}
		}

		conflicts, err := s.conflictsFor(ctx, venue.ID, date, iv, "")
		if err != nil {
			// Store failure: abort the remaining dates, keep what was created.
			return result, mapStoreError(err)
		}
		if len(conflicts) > 0 {
			result.SkippedConflictDates = append(result.SkippedConflictDates, date)
			continue
		}

		createdAt := s.now()
		session := TrainingSession{
			ID:        s.idGenerator(),
			BatchID:   batch.ID,
			VenueID:   venue.ID,
			Date:      date,
			Interval:  iv,
			Topic:     strings.TrimSpace(params.Input.Topic),
			Trainer:   strings.TrimSpace(params.Input.Trainer),
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}

		persisted, err := s.sessions.CreateSession(ctx, session)
		if err != nil {
			if errors.Is(err, persistence.ErrOverlap) {
				result.SkippedConflictDates = append(result.SkippedConflictDates, date)
				continue
			}
			return result, mapStoreError(err)
		}

		result.CreatedDates = append(result.CreatedDates, date)
		result.Sessions = append(result.Sessions, persisted)
	}

	logger.InfoContext(ctx, "recurring series scheduled",
		"created", len(result.CreatedDates),
		"skipped_conflicts", len(result.SkippedConflictDates),
		"skipped_holidays", len(result.SkippedHolidayDates))

	return result, nil
}

// Update edits an existing session through the same validation pipeline as
// creation, excluding the session itself from the conflict set. The holiday
// gate applies to edits exactly as it does to creation: moving a session onto
// a holiday requires SkipHolidays.
func (s *SchedulerService) Update(ctx context.Context, params UpdateSessionParams) (ScheduleResult, error) {
	if s == nil {
		return ScheduleResult{}, fmt.Errorf("SchedulerService is nil")
	}
	if !params.Principal.Authenticated() {
		return ScheduleResult{}, ErrUnauthorized
	}

	existing, err := s.sessions.GetSession(ctx, params.SessionID)
	if err != nil {
		return ScheduleResult{}, mapStoreError(err)
	}

	iv, err := interval.New(params.Input.Start, params.Input.End)
	if err != nil {
		return ScheduleResult{}, err
	}
	if err := validateSessionCore(params.Input); err != nil {
		return ScheduleResult{}, err
	}

	batch, venue, err := s.resolveReferences(ctx, params.Input.BatchID, params.Input.VenueID)
	if err != nil {
		return ScheduleResult{}, err
	}

	date := recurrence.Date(params.Input.Date)

	blocking, err := s.holidayFor(ctx, date, batch)
	if err != nil {
		return ScheduleResult{}, err
	}
	if blocking != nil && !params.SkipHolidays {
		return ScheduleResult{Outcome: OutcomeHolidayBlocked, Holiday: blocking}, nil
	}

	// A session being parked as cancelled cannot conflict with anything.
	if !params.Cancelled {
		conflicts, err := s.conflictsFor(ctx, venue.ID, date, iv, existing.ID)
		if err != nil {
			return ScheduleResult{}, err
		}
		if len(conflicts) > 0 {
			return ScheduleResult{Outcome: OutcomeConflictBlocked, Conflicts: conflicts}, nil
		}
	}

	updated := existing
	updated.BatchID = batch.ID
	updated.VenueID = venue.ID
	updated.Date = date
	updated.Interval = iv
	updated.Topic = strings.TrimSpace(params.Input.Topic)
	updated.Trainer = strings.TrimSpace(params.Input.Trainer)
	updated.Cancelled = params.Cancelled
	updated.UpdatedAt = s.now()

	persisted, err := s.sessions.UpdateSession(ctx, updated)
	if err != nil {
		if result, handled := s.overlapOutcome(ctx, err, venue.ID, date, iv, existing.ID); handled {
			return result, nil
		}
		return ScheduleResult{}, mapStoreError(err)
	}

	serviceLogger(ctx, s.logger, "scheduler", "update", "session_id", persisted.ID).
		InfoContext(ctx, "session updated")

	return ScheduleResult{Outcome: OutcomeScheduled, Session: persisted}, nil
}

// ToggleCancelled flips a session between scheduled and cancelled.
// Cancelling frees the slot without any checks. Restoring re-runs the
// conflict checker and the holiday gate so a slot taken in the meantime, or a
// date since declared a holiday, blocks the restore.
func (s *SchedulerService) ToggleCancelled(ctx context.Context, principal Principal, sessionID string, skipHolidays bool) (ScheduleResult, error) {
	if s == nil {
		return ScheduleResult{}, fmt.Errorf("SchedulerService is nil")
	}
	if !principal.Authenticated() {
		return ScheduleResult{}, ErrUnauthorized
	}

	existing, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return ScheduleResult{}, mapStoreError(err)
	}

	if !existing.Cancelled {
		existing.Cancelled = true
		existing.UpdatedAt = s.now()
		persisted, err := s.sessions.UpdateSession(ctx, existing)
		if err != nil {
			return ScheduleResult{}, mapStoreError(err)
		}
		serviceLogger(ctx, s.logger, "scheduler", "cancel", "session_id", persisted.ID).
			InfoContext(ctx, "session cancelled")
		return ScheduleResult{Outcome: OutcomeScheduled, Session: persisted}, nil
	}

	batch, err := s.batches.GetBatch(ctx, existing.BatchID)
	if err != nil {
		return ScheduleResult{}, mapStoreError(err)
	}

	blocking, err := s.holidayFor(ctx, existing.Date, batch)
	if err != nil {
		return ScheduleResult{}, err
	}
	if blocking != nil && !skipHolidays {
		return ScheduleResult{Outcome: OutcomeHolidayBlocked, Holiday: blocking}, nil
	}

	conflicts, err := s.conflictsFor(ctx, existing.VenueID, existing.Date, existing.Interval, existing.ID)
	if err != nil {
		return ScheduleResult{}, err
	}
	if len(conflicts) > 0 {
		return ScheduleResult{Outcome: OutcomeConflictBlocked, Conflicts: conflicts}, nil
	}

	existing.Cancelled = false
	existing.UpdatedAt = s.now()
	persisted, err := s.sessions.UpdateSession(ctx, existing)
	if err != nil {
		if result, handled := s.overlapOutcome(ctx, err, existing.VenueID, existing.Date, existing.Interval, existing.ID); handled {
			return result, nil
		}
		return ScheduleResult{}, mapStoreError(err)
	}

	serviceLogger(ctx, s.logger, "scheduler", "restore", "session_id", persisted.ID).
		InfoContext(ctx, "session restored")

	return ScheduleResult{Outcome: OutcomeScheduled, Session: persisted}, nil
}

// Delete removes a session permanently. Attendance rows are keyed by session
// id, so they are cascaded first to avoid orphans.
func (s *SchedulerService) Delete(ctx context.Context, principal Principal, sessionID string) error {
	if s == nil {
		return fmt.Errorf("SchedulerService is nil")
	}
	if !principal.Authenticated() {
		return ErrUnauthorized
	}

	if _, err := s.sessions.GetSession(ctx, sessionID); err != nil {
		return mapStoreError(err)
	}

	if s.attendance != nil {
		if err := s.attendance.DeleteBySession(ctx, sessionID); err != nil {
			return mapStoreError(err)
		}
	}

	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		return mapStoreError(err)
	}

	serviceLogger(ctx, s.logger, "scheduler", "delete", "session_id", sessionID).
		InfoContext(ctx, "session deleted")

	return nil
}

// Get fetches one session by id.
func (s *SchedulerService) Get(ctx context.Context, principal Principal, sessionID string) (TrainingSession, error) {
	if !principal.Authenticated() {
		return TrainingSession{}, ErrUnauthorized
	}
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return TrainingSession{}, mapStoreError(err)
	}
	return session, nil
}

// ListForVenueDate enumerates the sessions at a venue on a date, including
// cancelled ones when requested.
func (s *SchedulerService) ListForVenueDate(ctx context.Context, principal Principal, venueID string, date time.Time, includeCancelled bool) ([]TrainingSession, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthorized
	}
	sessions, err := s.sessions.SessionsFor(ctx, venueID, recurrence.Date(date), !includeCancelled)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return sessions, nil
}

// ListForBatch enumerates a batch's sessions.
func (s *SchedulerService) ListForBatch(ctx context.Context, principal Principal, batchID string) ([]TrainingSession, error) {
	if !principal.Authenticated() {
		return nil, ErrUnauthorized
	}
	sessions, err := s.sessions.ListSessionsForBatch(ctx, batchID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return sessions, nil
}

func (s *SchedulerService) resolveReferences(ctx context.Context, batchID, venueID string) (Batch, Venue, error) {
	batch, err := s.batches.GetBatch(ctx, batchID)
	if err != nil {
		return Batch{}, Venue{}, mapStoreError(err)
	}
	venue, err := s.venues.GetVenue(ctx, venueID)
	if err != nil {
		return Batch{}, Venue{}, mapStoreError(err)
	}
	return batch, venue, nil
}

func (s *SchedulerService) holidayFor(ctx context.Context, date time.Time, batch Batch) (*holiday.Holiday, error) {
	entries, err := s.holidays.HolidaysInRange(ctx, date, date, batch.DepartmentID, batch.ID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return holiday.NewCalendar(entries).Resolve(date, batch.DepartmentID, batch.ID), nil
}

func (s *SchedulerService) conflictsFor(ctx context.Context, venueID string, date time.Time, candidate interval.Interval, excludeID string) ([]TrainingSession, error) {
	existing, err := s.sessions.SessionsFor(ctx, venueID, date, true)
	if err != nil {
		return nil, mapStoreError(err)
	}

	bookings := make([]conflict.Booking, 0, len(existing))
	byID := make(map[string]TrainingSession, len(existing))
	for _, session := range existing {
		bookings = append(bookings, conflict.Booking{
			SessionID: session.ID,
			Interval:  session.Interval,
			Cancelled: session.Cancelled,
		})
		byID[session.ID] = session
	}

	matches := conflict.FindConflicts(bookings, candidate, excludeID)
	if len(matches) == 0 {
		return nil, nil
	}

	conflicts := make([]TrainingSession, 0, len(matches))
	for _, match := range matches {
		conflicts = append(conflicts, byID[match.SessionID])
	}
	return conflicts, nil
}

// overlapOutcome converts the store's overlap rejection into a conflict
// outcome, re-querying so the caller sees which booking won the race.
func (s *SchedulerService) overlapOutcome(ctx context.Context, err error, venueID string, date time.Time, candidate interval.Interval, excludeID string) (ScheduleResult, bool) {
	if !errors.Is(err, persistence.ErrOverlap) {
		return ScheduleResult{}, false
	}
	conflicts, queryErr := s.conflictsFor(ctx, venueID, date, candidate, excludeID)
	if queryErr != nil {
		conflicts = nil
	}
	return ScheduleResult{Outcome: OutcomeConflictBlocked, Conflicts: conflicts}, true
}

func validateSessionCore(input SessionInput) error {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.BatchID) == "" {
		vErr.add("batch_id", "batch is required")
	}
	if strings.TrimSpace(input.VenueID) == "" {
		vErr.add("venue_id", "venue is required")
	}
	if input.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	if strings.TrimSpace(input.Topic) == "" {
		vErr.add("topic", "topic is required")
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrConstraintViolation):
		// Which CHECK tripped is not recoverable from the sentinel, so report
		// a generic validation failure rather than guessing a field.
		vErr := &ValidationError{}
		vErr.add("input", "a stored value was rejected by a database constraint")
		return vErr
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return ErrNotFound
	}
	return err
}
