package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/training-scheduler/internal/holiday"
	"github.com/example/training-scheduler/internal/persistence"
	"github.com/example/training-scheduler/internal/recurrence"
)

// HolidayAdminStore captures the persistence interactions for maintaining the
// holiday calendar.
type HolidayAdminStore interface {
	CreateHoliday(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error)
	GetHoliday(ctx context.Context, id string) (holiday.Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error
	ListHolidays(ctx context.Context) ([]holiday.Holiday, error)
}

// HolidayService maintains the holiday calendar the scheduler consults.
type HolidayService struct {
	store       HolidayAdminStore
	idGenerator func() string
	logger      *slog.Logger
}

// NewHolidayService wires dependencies for holiday calendar maintenance.
func NewHolidayService(store HolidayAdminStore, idGenerator func() string) *HolidayService {
	return NewHolidayServiceWithLogger(store, idGenerator, nil)
}

// NewHolidayServiceWithLogger wires dependencies plus a base logger.
func NewHolidayServiceWithLogger(store HolidayAdminStore, idGenerator func() string, logger *slog.Logger) *HolidayService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &HolidayService{store: store, idGenerator: idGenerator, logger: defaultLogger(logger)}
}

// Create records one holiday. Department and batch scoped entries must name
// their owner; a duplicate (date, scope, owner) entry is rejected.
func (s *HolidayService) Create(ctx context.Context, principal Principal, input HolidayInput) (holiday.Holiday, error) {
	if s == nil {
		return holiday.Holiday{}, fmt.Errorf("HolidayService is nil")
	}
	if !principal.Authenticated() {
		return holiday.Holiday{}, ErrUnauthorized
	}

	entry, err := s.buildEntry(input)
	if err != nil {
		return holiday.Holiday{}, err
	}

	created, err := s.store.CreateHoliday(ctx, entry)
	if err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			return holiday.Holiday{}, ErrAlreadyExists
		}
		return holiday.Holiday{}, mapStoreError(err)
	}

	serviceLogger(ctx, s.logger, "holiday", "create",
		"holiday_id", created.ID, "date", created.Date.Format(time.DateOnly), "scope", string(created.Scope)).
		InfoContext(ctx, "holiday recorded")

	return created, nil
}

// Delete removes a holiday record.
func (s *HolidayService) Delete(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("HolidayService is nil")
	}
	if !principal.Authenticated() {
		return ErrUnauthorized
	}
	if err := s.store.DeleteHoliday(ctx, id); err != nil {
		return mapStoreError(err)
	}
	return nil
}

// List returns every holiday record.
func (s *HolidayService) List(ctx context.Context, principal Principal) ([]holiday.Holiday, error) {
	if s == nil {
		return nil, fmt.Errorf("HolidayService is nil")
	}
	if !principal.Authenticated() {
		return nil, ErrUnauthorized
	}
	entries, err := s.store.ListHolidays(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return entries, nil
}

// ImportSeed inserts a parsed seed calendar, skipping entries that already
// exist. Returns the number of entries actually inserted.
func (s *HolidayService) ImportSeed(ctx context.Context, entries []holiday.Holiday) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("HolidayService is nil")
	}

	inserted := 0
	for _, entry := range entries {
		entry.ID = s.idGenerator()
		entry.Date = recurrence.Date(entry.Date)
		if _, err := s.store.CreateHoliday(ctx, entry); err != nil {
			if errors.Is(err, persistence.ErrDuplicate) {
				continue
			}
			return inserted, mapStoreError(err)
		}
		inserted++
	}

	serviceLogger(ctx, s.logger, "holiday", "import_seed", "inserted", inserted, "total", len(entries)).
		InfoContext(ctx, "holiday seed imported")

	return inserted, nil
}

func (s *HolidayService) buildEntry(input HolidayInput) (holiday.Holiday, error) {
	vErr := &ValidationError{}

	if input.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}

	scope := holiday.ScopeGlobal
	if input.Scope != "" {
		parsed, err := holiday.ParseScope(input.Scope)
		if err != nil {
			vErr.add("scope", "scope must be one of global, department, batch")
		} else {
			scope = parsed
		}
	}
	if scope != holiday.ScopeGlobal && strings.TrimSpace(input.ScopeID) == "" {
		vErr.add("scope_id", "scoped holidays must name their department or batch")
	}
	if scope == holiday.ScopeGlobal && strings.TrimSpace(input.ScopeID) != "" {
		vErr.add("scope_id", "global holidays must not name an owner")
	}

	if vErr.HasErrors() {
		return holiday.Holiday{}, vErr
	}

	return holiday.Holiday{
		ID:          s.idGenerator(),
		Date:        recurrence.Date(input.Date),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Scope:       scope,
		ScopeID:     strings.TrimSpace(input.ScopeID),
	}, nil
}
