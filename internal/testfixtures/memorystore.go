package testfixtures

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/training-scheduler/internal/application"
	"github.com/example/training-scheduler/internal/holiday"
	"github.com/example/training-scheduler/internal/persistence"
	"github.com/example/training-scheduler/internal/recurrence"
)

// MemoryStore is an in-memory implementation of the scheduler's store
// interfaces. It mirrors the SQLite repositories' observable behavior,
// including the overlap guard on session writes.
type MemoryStore struct {
	mu         sync.Mutex
	sessions   map[string]application.TrainingSession
	holidays   map[string]holiday.Holiday
	venues     map[string]application.Venue
	batches    map[string]application.Batch
	attendance map[string][]persistence.AttendanceRecord

	// CreateSessionHook, when set, runs before each session insert; a non-nil
	// return is surfaced as the store error. Used to inject races and faults.
	CreateSessionHook func(session application.TrainingSession) error
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:   make(map[string]application.TrainingSession),
		holidays:   make(map[string]holiday.Holiday),
		venues:     make(map[string]application.Venue),
		batches:    make(map[string]application.Batch),
		attendance: make(map[string][]persistence.AttendanceRecord),
	}
}

// SeedVenue registers a venue.
func (m *MemoryStore) SeedVenue(venue application.Venue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.venues[venue.ID] = venue
}

// SeedBatch registers a batch.
func (m *MemoryStore) SeedBatch(batch application.Batch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[batch.ID] = batch
}

// SeedHoliday registers a holiday entry.
func (m *MemoryStore) SeedHoliday(entry holiday.Holiday) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[entry.ID] = entry
}

// SeedSession registers a session without running the overlap guard.
func (m *MemoryStore) SeedSession(session application.TrainingSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
}

// SeedAttendance registers attendance rows for a session.
func (m *MemoryStore) SeedAttendance(sessionID string, records ...persistence.AttendanceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attendance[sessionID] = append(m.attendance[sessionID], records...)
}

// SessionCount reports how many sessions the store holds.
func (m *MemoryStore) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// AttendanceCount reports how many attendance rows a session holds.
func (m *MemoryStore) AttendanceCount(sessionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.attendance[sessionID])
}

// CreateSession inserts a session, enforcing venue exclusivity like the SQLite
// repository does inside its write transaction.
func (m *MemoryStore) CreateSession(_ context.Context, session application.TrainingSession) (application.TrainingSession, error) {
	if m.CreateSessionHook != nil {
		if err := m.CreateSessionHook(session); err != nil {
			return application.TrainingSession{}, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guardOverlapLocked(session); err != nil {
		return application.TrainingSession{}, err
	}
	m.sessions[session.ID] = session
	return session, nil
}

// UpdateSession rewrites a session, re-running the overlap guard.
func (m *MemoryStore) UpdateSession(_ context.Context, session application.TrainingSession) (application.TrainingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[session.ID]; !ok {
		return application.TrainingSession{}, persistence.ErrNotFound
	}
	if err := m.guardOverlapLocked(session); err != nil {
		return application.TrainingSession{}, err
	}
	m.sessions[session.ID] = session
	return session, nil
}

func (m *MemoryStore) guardOverlapLocked(candidate application.TrainingSession) error {
	if candidate.Cancelled {
		return nil
	}
	for _, existing := range m.sessions {
		if existing.ID == candidate.ID || existing.Cancelled {
			continue
		}
		if existing.VenueID != candidate.VenueID || !sameDate(existing.Date, candidate.Date) {
			continue
		}
		if existing.Interval.Overlaps(candidate.Interval) {
			return persistence.ErrOverlap
		}
	}
	return nil
}

// GetSession fetches one session.
func (m *MemoryStore) GetSession(_ context.Context, id string) (application.TrainingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return application.TrainingSession{}, persistence.ErrNotFound
	}
	return session, nil
}

// DeleteSession removes one session.
func (m *MemoryStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// SessionsFor lists sessions at a venue on a date ordered by start time.
func (m *MemoryStore) SessionsFor(_ context.Context, venueID string, date time.Time, excludeCancelled bool) ([]application.TrainingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []application.TrainingSession
	for _, session := range m.sessions {
		if session.VenueID != venueID || !sameDate(session.Date, date) {
			continue
		}
		if excludeCancelled && session.Cancelled {
			continue
		}
		matches = append(matches, session)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Interval.Start != matches[j].Interval.Start {
			return matches[i].Interval.Start < matches[j].Interval.Start
		}
		return matches[i].ID < matches[j].ID
	})
	return matches, nil
}

// ListSessionsForBatch lists a batch's sessions ordered by date then start.
func (m *MemoryStore) ListSessionsForBatch(_ context.Context, batchID string) ([]application.TrainingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []application.TrainingSession
	for _, session := range m.sessions {
		if session.BatchID == batchID {
			matches = append(matches, session)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].Date.Equal(matches[j].Date) {
			return matches[i].Date.Before(matches[j].Date)
		}
		return matches[i].Interval.Start < matches[j].Interval.Start
	})
	return matches, nil
}

// HolidaysInRange returns entries dated within [start, end] matching the
// global scope or the given owners.
func (m *MemoryStore) HolidaysInRange(_ context.Context, start, end time.Time, departmentID, batchID string) ([]holiday.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []holiday.Holiday
	for _, entry := range m.holidays {
		if entry.Date.Before(recurrence.Date(start)) || entry.Date.After(recurrence.Date(end)) {
			continue
		}
		switch entry.Scope {
		case holiday.ScopeGlobal:
		case holiday.ScopeDepartment:
			if entry.ScopeID != departmentID {
				continue
			}
		case holiday.ScopeBatch:
			if entry.ScopeID != batchID {
				continue
			}
		}
		matches = append(matches, entry)
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].Date.Equal(matches[j].Date) {
			return matches[i].Date.Before(matches[j].Date)
		}
		return matches[i].ID < matches[j].ID
	})
	return matches, nil
}

// CreateHoliday inserts an entry, rejecting duplicate (date, scope, owner)
// combinations like the unique index does.
func (m *MemoryStore) CreateHoliday(_ context.Context, entry holiday.Holiday) (holiday.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.holidays {
		if sameDate(existing.Date, entry.Date) && existing.Scope == entry.Scope && existing.ScopeID == entry.ScopeID {
			return holiday.Holiday{}, persistence.ErrDuplicate
		}
	}
	m.holidays[entry.ID] = entry
	return entry, nil
}

// GetHoliday fetches one entry.
func (m *MemoryStore) GetHoliday(_ context.Context, id string) (holiday.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.holidays[id]
	if !ok {
		return holiday.Holiday{}, persistence.ErrNotFound
	}
	return entry, nil
}

// DeleteHoliday removes one entry.
func (m *MemoryStore) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(m.holidays, id)
	return nil
}

// ListHolidays returns every entry ordered by date.
func (m *MemoryStore) ListHolidays(_ context.Context) ([]holiday.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matches := make([]holiday.Holiday, 0, len(m.holidays))
	for _, entry := range m.holidays {
		matches = append(matches, entry)
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].Date.Equal(matches[j].Date) {
			return matches[i].Date.Before(matches[j].Date)
		}
		return matches[i].ID < matches[j].ID
	})
	return matches, nil
}

// GetVenue fetches one venue.
func (m *MemoryStore) GetVenue(_ context.Context, id string) (application.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	venue, ok := m.venues[id]
	if !ok {
		return application.Venue{}, persistence.ErrNotFound
	}
	return venue, nil
}

// ListVenues enumerates the venues ordered by name.
func (m *MemoryStore) ListVenues(_ context.Context) ([]application.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	venues := make([]application.Venue, 0, len(m.venues))
	for _, venue := range m.venues {
		venues = append(venues, venue)
	}
	sort.Slice(venues, func(i, j int) bool { return venues[i].Name < venues[j].Name })
	return venues, nil
}

// GetBatch fetches one batch.
func (m *MemoryStore) GetBatch(_ context.Context, id string) (application.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch, ok := m.batches[id]
	if !ok {
		return application.Batch{}, persistence.ErrNotFound
	}
	return batch, nil
}

// ListBatches enumerates the batches ordered by name.
func (m *MemoryStore) ListBatches(_ context.Context) ([]application.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	batches := make([]application.Batch, 0, len(m.batches))
	for _, batch := range m.batches {
		batches = append(batches, batch)
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].Name < batches[j].Name })
	return batches, nil
}

// DeleteBySession removes every attendance row for a session.
func (m *MemoryStore) DeleteBySession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.attendance, sessionID)
	return nil
}

func sameDate(a, b time.Time) bool {
	return recurrence.Date(a).Equal(recurrence.Date(b))
}
