package persistence

import (
	"time"

	"github.com/example/training-scheduler/internal/holiday"
	"github.com/example/training-scheduler/internal/interval"
)

// Venue represents a bookable room. Reference data owned outside the
// scheduler; the admin UI only reads it.
type Venue struct {
	ID        string
	Name      string
	Room      string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Batch represents a training cohort scoped to a department and academic year.
type Batch struct {
	ID           string
	Name         string
	DepartmentID string
	AcademicYear string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Holiday represents a stored holiday calendar entry.
type Holiday struct {
	ID          string
	Date        time.Time
	Name        string
	Description string
	Scope       holiday.Scope
	ScopeID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TrainingSession represents a scheduled training occurrence persisted for a
// batch at a venue.
type TrainingSession struct {
	ID        string
	BatchID   string
	VenueID   string
	Date      time.Time
	Start     interval.TimeOfDay
	End       interval.TimeOfDay
	Topic     string
	Trainer   string
	Cancelled bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AttendanceRecord represents a student's attendance entry for a session.
// Rows are keyed by session and must be removed before the session row.
type AttendanceRecord struct {
	ID        string
	SessionID string
	StudentID string
	Present   bool
	MarkedAt  time.Time
}

// AdminUser represents a platform administrator account.
type AdminUser struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthSession represents an issued admin login session.
type AuthSession struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}
