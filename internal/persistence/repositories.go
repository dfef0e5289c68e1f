package persistence

import (
	"context"
	"time"
)

// SessionRepository stores training sessions. Create and Update must enforce
// the venue-exclusivity invariant atomically with the write and report a
// racing overlap as ErrOverlap.
type SessionRepository interface {
	CreateSession(ctx context.Context, session TrainingSession) error
	UpdateSession(ctx context.Context, session TrainingSession) error
	GetSession(ctx context.Context, id string) (TrainingSession, error)
	DeleteSession(ctx context.Context, id string) error
	// SessionsFor returns the sessions booked at a venue on a date, ordered
	// by start time. When excludeCancelled is true only live sessions are
	// returned, which is the conflict checker's candidate set.
	SessionsFor(ctx context.Context, venueID string, date time.Time, excludeCancelled bool) ([]TrainingSession, error)
	ListSessionsForBatch(ctx context.Context, batchID string) ([]TrainingSession, error)
}

// HolidayRepository stores holiday calendar entries.
type HolidayRepository interface {
	CreateHoliday(ctx context.Context, h Holiday) error
	GetHoliday(ctx context.Context, id string) (Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error
	// HolidaysInRange returns entries dated within [start, end] whose scope is
	// global, the given department, or the given batch. Empty owner ids match
	// only global entries.
	HolidaysInRange(ctx context.Context, start, end time.Time, departmentID, batchID string) ([]Holiday, error)
	ListHolidays(ctx context.Context) ([]Holiday, error)
}

// VenueRepository exposes the read-mostly venue catalog.
type VenueRepository interface {
	CreateVenue(ctx context.Context, venue Venue) error
	GetVenue(ctx context.Context, id string) (Venue, error)
	ListVenues(ctx context.Context) ([]Venue, error)
}

// BatchRepository exposes the read-mostly training batch catalog.
type BatchRepository interface {
	CreateBatch(ctx context.Context, batch Batch) error
	GetBatch(ctx context.Context, id string) (Batch, error)
	ListBatches(ctx context.Context) ([]Batch, error)
}

// AttendanceRepository stores per-session attendance rows.
type AttendanceRepository interface {
	AddRecord(ctx context.Context, record AttendanceRecord) error
	ListBySession(ctx context.Context, sessionID string) ([]AttendanceRecord, error)
	CountBySession(ctx context.Context, sessionID string) (int, error)
	// DeleteBySession removes every attendance row for a session. Invoked by
	// the scheduler before the session row itself is deleted.
	DeleteBySession(ctx context.Context, sessionID string) error
}

// AdminRepository stores administrator accounts and their login sessions.
type AdminRepository interface {
	CreateAdminUser(ctx context.Context, user AdminUser) error
	GetAdminUser(ctx context.Context, id string) (AdminUser, error)
	GetAdminUserByEmail(ctx context.Context, email string) (AdminUser, error)
	CreateAuthSession(ctx context.Context, session AuthSession) error
	GetAuthSession(ctx context.Context, token string) (AuthSession, error)
	RevokeAuthSession(ctx context.Context, token string, revokedAt time.Time) error
	DeleteExpiredAuthSessions(ctx context.Context, reference time.Time) error
}
