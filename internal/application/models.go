package application

import (
	"time"

	"github.com/example/training-scheduler/internal/holiday"
	"github.com/example/training-scheduler/internal/interval"
)

// Principal identifies the authenticated administrator invoking a service
// method. It replaces ambient session state: every operation receives the
// acting principal explicitly.
type Principal struct {
	UserID      string
	DisplayName string
}

// Authenticated reports whether the principal carries an identity.
func (p Principal) Authenticated() bool {
	return p.UserID != ""
}

// TrainingSession is a scheduled training occurrence for one batch at one
// venue, occupying a time range on a single date.
type TrainingSession struct {
	ID        string
	BatchID   string
	VenueID   string
	Date      time.Time
	Interval  interval.Interval
	Topic     string
	Trainer   string
	Cancelled bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Venue is a bookable room from the reference catalog.
type Venue struct {
	ID       string
	Name     string
	Room     string
	Capacity int
}

// Batch is a training cohort from the reference catalog. DepartmentID feeds
// holiday scope resolution.
type Batch struct {
	ID           string
	Name         string
	DepartmentID string
	AcademicYear string
	Active       bool
}

// SessionInput captures caller provided session fields.
type SessionInput struct {
	BatchID string
	VenueID string
	Date    time.Time
	Start   interval.TimeOfDay
	End     interval.TimeOfDay
	Topic   string
	Trainer string
}

// CreateSingleParams wraps a request to schedule one session.
type CreateSingleParams struct {
	Principal    Principal
	Input        SessionInput
	SkipHolidays bool
}

// CreateRecurringParams wraps a request to schedule a repeating series.
type CreateRecurringParams struct {
	Principal    Principal
	Input        SessionInput
	Cadence      string
	RepeatUntil  *time.Time
	SkipHolidays bool
}

// UpdateSessionParams wraps a request to edit an existing session.
type UpdateSessionParams struct {
	Principal    Principal
	SessionID    string
	Input        SessionInput
	Cancelled    bool
	SkipHolidays bool
}

// Outcome classifies the result of a scheduling operation. Holiday and
// conflict blocks are decision points for the caller, not failures.
type Outcome string

const (
	// OutcomeScheduled means the session was persisted.
	OutcomeScheduled Outcome = "scheduled"
	// OutcomeHolidayBlocked means the date is a holiday and the caller did
	// not set SkipHolidays; resubmitting with the flag overrides the block.
	OutcomeHolidayBlocked Outcome = "holiday_blocked"
	// OutcomeConflictBlocked means one or more live sessions occupy the slot.
	OutcomeConflictBlocked Outcome = "conflict_blocked"
)

// ScheduleResult reports the outcome of a single-session operation. Exactly
// one of Session, Holiday, or Conflicts is meaningful depending on Outcome.
type ScheduleResult struct {
	Outcome   Outcome
	Session   TrainingSession
	Holiday   *holiday.Holiday
	Conflicts []TrainingSession
}

// RecurringResult summarizes a best-effort series creation. Partial success
// is normal: dates blocked by a holiday or an existing booking are skipped
// and reported, never rolled back against the dates that succeeded.
type RecurringResult struct {
	CreatedDates         []time.Time
	SkippedConflictDates []time.Time
	SkippedHolidayDates  []time.Time
	Sessions             []TrainingSession
}

// HolidayInput captures caller provided holiday fields.
type HolidayInput struct {
	Date        time.Time
	Name        string
	Description string
	Scope       string
	ScopeID     string
}

// AuthenticateParams captures an admin login attempt.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult carries the issued token on successful login.
type AuthenticateResult struct {
	Principal Principal
	Token     string
	ExpiresAt time.Time
}
