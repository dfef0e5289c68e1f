package application

import (
	"context"
	"time"

	"github.com/example/training-scheduler/internal/holiday"
	"github.com/example/training-scheduler/internal/interval"
	"github.com/example/training-scheduler/internal/persistence"
)

// The adapters below bridge the persistence repositories, which speak storage
// records, onto the service interfaces, which speak domain types.

// SessionStoreAdapter adapts a persistence.SessionRepository to SessionStore.
type SessionStoreAdapter struct {
	Repo persistence.SessionRepository
}

func toRecord(session TrainingSession) persistence.TrainingSession {
	return persistence.TrainingSession{
		ID:        session.ID,
		BatchID:   session.BatchID,
		VenueID:   session.VenueID,
		Date:      session.Date,
		Start:     session.Interval.Start,
		End:       session.Interval.End,
		Topic:     session.Topic,
		Trainer:   session.Trainer,
		Cancelled: session.Cancelled,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

func fromRecord(record persistence.TrainingSession) TrainingSession {
	return TrainingSession{
		ID:        record.ID,
		BatchID:   record.BatchID,
		VenueID:   record.VenueID,
		Date:      record.Date,
		Interval:  interval.Interval{Start: record.Start, End: record.End},
		Topic:     record.Topic,
		Trainer:   record.Trainer,
		Cancelled: record.Cancelled,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func fromRecords(records []persistence.TrainingSession) []TrainingSession {
	sessions := make([]TrainingSession, 0, len(records))
	for _, record := range records {
		sessions = append(sessions, fromRecord(record))
	}
	return sessions
}

func (a SessionStoreAdapter) CreateSession(ctx context.Context, session TrainingSession) (TrainingSession, error) {
	if err := a.Repo.CreateSession(ctx, toRecord(session)); err != nil {
		return TrainingSession{}, err
	}
	return session, nil
}

func (a SessionStoreAdapter) UpdateSession(ctx context.Context, session TrainingSession) (TrainingSession, error) {
	if err := a.Repo.UpdateSession(ctx, toRecord(session)); err != nil {
		return TrainingSession{}, err
	}
	return session, nil
}

func (a SessionStoreAdapter) GetSession(ctx context.Context, id string) (TrainingSession, error) {
	record, err := a.Repo.GetSession(ctx, id)
	if err != nil {
		return TrainingSession{}, err
	}
	return fromRecord(record), nil
}

func (a SessionStoreAdapter) DeleteSession(ctx context.Context, id string) error {
	return a.Repo.DeleteSession(ctx, id)
}

func (a SessionStoreAdapter) SessionsFor(ctx context.Context, venueID string, date time.Time, excludeCancelled bool) ([]TrainingSession, error) {
	records, err := a.Repo.SessionsFor(ctx, venueID, date, excludeCancelled)
	if err != nil {
		return nil, err
	}
	return fromRecords(records), nil
}

func (a SessionStoreAdapter) ListSessionsForBatch(ctx context.Context, batchID string) ([]TrainingSession, error) {
	records, err := a.Repo.ListSessionsForBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return fromRecords(records), nil
}

// HolidayStoreAdapter adapts a persistence.HolidayRepository to both the
// scheduler's HolidayLookup and the holiday service's HolidayAdminStore.
type HolidayStoreAdapter struct {
	Repo persistence.HolidayRepository
	Now  func() time.Time
}

func toHolidayEntry(record persistence.Holiday) holiday.Holiday {
	return holiday.Holiday{
		ID:          record.ID,
		Date:        record.Date,
		Name:        record.Name,
		Description: record.Description,
		Scope:       record.Scope,
		ScopeID:     record.ScopeID,
	}
}

func toHolidayEntries(records []persistence.Holiday) []holiday.Holiday {
	entries := make([]holiday.Holiday, 0, len(records))
	for _, record := range records {
		entries = append(entries, toHolidayEntry(record))
	}
	return entries
}

func (a HolidayStoreAdapter) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a HolidayStoreAdapter) HolidaysInRange(ctx context.Context, start, end time.Time, departmentID, batchID string) ([]holiday.Holiday, error) {
	records, err := a.Repo.HolidaysInRange(ctx, start, end, departmentID, batchID)
	if err != nil {
		return nil, err
	}
	return toHolidayEntries(records), nil
}

func (a HolidayStoreAdapter) CreateHoliday(ctx context.Context, entry holiday.Holiday) (holiday.Holiday, error) {
	now := a.now()
	record := persistence.Holiday{
		ID:          entry.ID,
		Date:        entry.Date,
		Name:        entry.Name,
		Description: entry.Description,
		Scope:       entry.Scope,
		ScopeID:     entry.ScopeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.Repo.CreateHoliday(ctx, record); err != nil {
		return holiday.Holiday{}, err
	}
	return entry, nil
}

func (a HolidayStoreAdapter) GetHoliday(ctx context.Context, id string) (holiday.Holiday, error) {
	record, err := a.Repo.GetHoliday(ctx, id)
	if err != nil {
		return holiday.Holiday{}, err
	}
	return toHolidayEntry(record), nil
}

func (a HolidayStoreAdapter) DeleteHoliday(ctx context.Context, id string) error {
	return a.Repo.DeleteHoliday(ctx, id)
}

func (a HolidayStoreAdapter) ListHolidays(ctx context.Context) ([]holiday.Holiday, error) {
	records, err := a.Repo.ListHolidays(ctx)
	if err != nil {
		return nil, err
	}
	return toHolidayEntries(records), nil
}

// CatalogAdapter adapts the venue and batch repositories to the read-only
// catalog interfaces.
type CatalogAdapter struct {
	Venues  persistence.VenueRepository
	Batches persistence.BatchRepository
}

func toVenue(record persistence.Venue) Venue {
	return Venue{ID: record.ID, Name: record.Name, Room: record.Room, Capacity: record.Capacity}
}

func toBatch(record persistence.Batch) Batch {
	return Batch{
		ID:           record.ID,
		Name:         record.Name,
		DepartmentID: record.DepartmentID,
		AcademicYear: record.AcademicYear,
		Active:       record.Active,
	}
}

func (a CatalogAdapter) GetVenue(ctx context.Context, id string) (Venue, error) {
	record, err := a.Venues.GetVenue(ctx, id)
	if err != nil {
		return Venue{}, err
	}
	return toVenue(record), nil
}

func (a CatalogAdapter) ListVenues(ctx context.Context) ([]Venue, error) {
	records, err := a.Venues.ListVenues(ctx)
	if err != nil {
		return nil, err
	}
	venues := make([]Venue, 0, len(records))
	for _, record := range records {
		venues = append(venues, toVenue(record))
	}
	return venues, nil
}

func (a CatalogAdapter) GetBatch(ctx context.Context, id string) (Batch, error) {
	record, err := a.Batches.GetBatch(ctx, id)
	if err != nil {
		return Batch{}, err
	}
	return toBatch(record), nil
}

func (a CatalogAdapter) ListBatches(ctx context.Context) ([]Batch, error) {
	records, err := a.Batches.ListBatches(ctx)
	if err != nil {
		return nil, err
	}
	batches := make([]Batch, 0, len(records))
	for _, record := range records {
		batches = append(batches, toBatch(record))
	}
	return batches, nil
}

// AttendanceAdapter exposes the attendance cascade to the scheduler.
type AttendanceAdapter struct {
	Repo persistence.AttendanceRepository
}

func (a AttendanceAdapter) DeleteBySession(ctx context.Context, sessionID string) error {
	return a.Repo.DeleteBySession(ctx, sessionID)
}
