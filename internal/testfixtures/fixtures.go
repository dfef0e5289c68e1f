// Package testfixtures provides deterministic clocks, id generators, builders
// and an in-memory store for service-level tests.
package testfixtures

import (
	"fmt"
	"sync"
	"time"

	"github.com/example/training-scheduler/internal/application"
	"github.com/example/training-scheduler/internal/holiday"
	"github.com/example/training-scheduler/internal/interval"
	"github.com/example/training-scheduler/internal/recurrence"
)

// FixedClock returns a now func pinned to the given instant.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// SequentialIDs returns an id generator producing prefix-1, prefix-2, ...
// Safe for concurrent use.
func SequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	next := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		next++
		return fmt.Sprintf("%s-%d", prefix, next)
	}
}

// Date builds an IST-midnight date, the canonical session date form.
func Date(year int, month time.Month, day int) time.Time {
	return recurrence.Date(time.Date(year, month, day, 0, 0, 0, 0, recurrence.Location()))
}

// Admin is the principal used across service tests.
func Admin() application.Principal {
	return application.Principal{UserID: "admin-1", DisplayName: "Placement Officer"}
}

// VenueOption mutates a venue fixture.
type VenueOption func(*application.Venue)

// NewVenue builds a venue fixture.
func NewVenue(opts ...VenueOption) application.Venue {
	venue := application.Venue{
		ID:       "venue-1",
		Name:     "Seminar Hall A",
		Room:     "A-101",
		Capacity: 120,
	}
	for _, opt := range opts {
		opt(&venue)
	}
	return venue
}

// WithVenueID overrides the venue id.
func WithVenueID(id string) VenueOption {
	return func(v *application.Venue) { v.ID = id }
}

// BatchOption mutates a batch fixture.
type BatchOption func(*application.Batch)

// NewBatch builds an active batch fixture.
func NewBatch(opts ...BatchOption) application.Batch {
	batch := application.Batch{
		ID:           "batch-1",
		Name:         "CSE 2024 A",
		DepartmentID: "dept-cse",
		AcademicYear: "2024-25",
		Active:       true,
	}
	for _, opt := range opts {
		opt(&batch)
	}
	return batch
}

// WithBatchID overrides the batch id.
func WithBatchID(id string) BatchOption {
	return func(b *application.Batch) { b.ID = id }
}

// WithDepartment overrides the owning department.
func WithDepartment(id string) BatchOption {
	return func(b *application.Batch) { b.DepartmentID = id }
}

// HolidayOption mutates a holiday fixture.
type HolidayOption func(*holiday.Holiday)

// NewHoliday builds a global holiday fixture on the given date.
func NewHoliday(id string, date time.Time, opts ...HolidayOption) holiday.Holiday {
	entry := holiday.Holiday{
		ID:    id,
		Date:  recurrence.Date(date),
		Name:  "Republic Day",
		Scope: holiday.ScopeGlobal,
	}
	for _, opt := range opts {
		opt(&entry)
	}
	return entry
}

// WithHolidayName overrides the holiday name.
func WithHolidayName(name string) HolidayOption {
	return func(h *holiday.Holiday) { h.Name = name }
}

// WithScope narrows the holiday to a department or batch owner.
func WithScope(scope holiday.Scope, scopeID string) HolidayOption {
	return func(h *holiday.Holiday) {
		h.Scope = scope
		h.ScopeID = scopeID
	}
}

// InputOption mutates a session input fixture.
type InputOption func(*application.SessionInput)

// NewSessionInput builds a valid session input for the default venue and batch.
func NewSessionInput(date time.Time, opts ...InputOption) application.SessionInput {
	iv := interval.MustParse("09:00", "10:30")
	input := application.SessionInput{
		BatchID: "batch-1",
		VenueID: "venue-1",
		Date:    date,
		Start:   iv.Start,
		End:     iv.End,
		Topic:   "Aptitude Training",
		Trainer: "R. Iyer",
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}

// WithSlot overrides the time range using "HH:MM" bounds.
func WithSlot(start, end string) InputOption {
	return func(in *application.SessionInput) {
		iv := interval.MustParse(start, end)
		in.Start = iv.Start
		in.End = iv.End
	}
}

// WithTopic overrides the topic.
func WithTopic(topic string) InputOption {
	return func(in *application.SessionInput) { in.Topic = topic }
}

// ForVenue points the input at another venue.
func ForVenue(venueID string) InputOption {
	return func(in *application.SessionInput) { in.VenueID = venueID }
}

// ForBatch points the input at another batch.
func ForBatch(batchID string) InputOption {
	return func(in *application.SessionInput) { in.BatchID = batchID }
}
