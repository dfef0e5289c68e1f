package application_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/training-scheduler/internal/application"
	"github.com/example/training-scheduler/internal/holiday"
	"github.com/example/training-scheduler/internal/interval"
	"github.com/example/training-scheduler/internal/persistence"
	"github.com/example/training-scheduler/internal/testfixtures"
)

func newScheduler(store *testfixtures.MemoryStore) *application.SchedulerService {
	store.SeedVenue(testfixtures.NewVenue())
	store.SeedBatch(testfixtures.NewBatch())
	return application.NewSchedulerService(
		store, store, store, store, store,
		testfixtures.SequentialIDs("sess"),
		testfixtures.FixedClock(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)),
	)
}

func TestCreateSingle_SchedulesFreeSlot(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)

	result, err := svc.CreateSingle(context.Background(), application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(testfixtures.Date(2024, time.January, 15)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != application.OutcomeScheduled {
		t.Fatalf("expected scheduled outcome, got %s", result.Outcome)
	}
	if result.Session.ID == "" || result.Session.Topic != "Aptitude Training" {
		t.Fatalf("unexpected session: %+v", result.Session)
	}
	if store.SessionCount() != 1 {
		t.Fatalf("expected 1 stored session, got %d", store.SessionCount())
	}
}

func TestCreateSingle_RejectsUnauthenticated(t *testing.T) {
	t.Parallel()
	svc := newScheduler(testfixtures.NewMemoryStore())

	_, err := svc.CreateSingle(context.Background(), application.CreateSingleParams{
		Input: testfixtures.NewSessionInput(testfixtures.Date(2024, time.January, 15)),
	})
	if !errors.Is(err, application.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateSingle_RejectsInvalidInterval(t *testing.T) {
	t.Parallel()
	svc := newScheduler(testfixtures.NewMemoryStore())

	input := testfixtures.NewSessionInput(testfixtures.Date(2024, time.January, 15))
	input.Start, input.End = input.End, input.Start

	_, err := svc.CreateSingle(context.Background(), application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     input,
	})
	if !errors.Is(err, interval.ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestCreateSingle_RejectsUnknownVenue(t *testing.T) {
	t.Parallel()
	svc := newScheduler(testfixtures.NewMemoryStore())

	_, err := svc.CreateSingle(context.Background(), application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input: testfixtures.NewSessionInput(testfixtures.Date(2024, time.January, 15),
			testfixtures.ForVenue("venue-missing")),
	})
	if !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateSingle_BlocksOccupiedSlot(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)
	ctx := context.Background()
	date := testfixtures.Date(2024, time.January, 15)

	first, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(date, testfixtures.WithSlot("09:00", "11:00")),
	})
	if err != nil || first.Outcome != application.OutcomeScheduled {
		t.Fatalf("scheduling first session: %+v, %v", first, err)
	}

	second, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(date, testfixtures.WithSlot("10:00", "12:00")),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Outcome != application.OutcomeConflictBlocked {
		t.Fatalf("expected conflict outcome, got %s", second.Outcome)
	}
	if len(second.Conflicts) != 1 || second.Conflicts[0].ID != first.Session.ID {
		t.Fatalf("expected the first session as conflict, got %+v", second.Conflicts)
	}
	if store.SessionCount() != 1 {
		t.Fatalf("blocked request must not persist, got %d sessions", store.SessionCount())
	}
}

func TestCreateSingle_AllowsTouchingSlots(t *testing.T) {
	t.Parallel()
	svc := newScheduler(testfixtures.NewMemoryStore())
	ctx := context.Background()
	date := testfixtures.Date(2024, time.January, 15)

	if _, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(date, testfixtures.WithSlot("09:00", "11:00")),
	}); err != nil {
		t.Fatalf("scheduling first session: %v", err)
	}

	result, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(date, testfixtures.WithSlot("11:00", "12:00")),
	})
	if err != nil || result.Outcome != application.OutcomeScheduled {
		t.Fatalf("expected back-to-back slot to schedule, got %+v, %v", result, err)
	}
}

func TestCreateSingle_HolidayBlocksThenOverrides(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)
	ctx := context.Background()
	republicDay := testfixtures.Date(2024, time.January, 26)
	store.SeedHoliday(testfixtures.NewHoliday("hol-1", republicDay))

	blocked, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(republicDay),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blocked.Outcome != application.OutcomeHolidayBlocked {
		t.Fatalf("expected holiday outcome, got %s", blocked.Outcome)
	}
	if blocked.Holiday == nil || blocked.Holiday.Name != "Republic Day" {
		t.Fatalf("expected Republic Day in result, got %+v", blocked.Holiday)
	}
	if store.SessionCount() != 0 {
		t.Fatalf("blocked request must not persist")
	}

	forced, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal:    testfixtures.Admin(),
		Input:        testfixtures.NewSessionInput(republicDay),
		SkipHolidays: true,
	})
	if err != nil || forced.Outcome != application.OutcomeScheduled {
		t.Fatalf("expected override to schedule, got %+v, %v", forced, err)
	}
}

func TestCreateSingle_BatchScopeShadowsGlobal(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)
	date := testfixtures.Date(2024, time.February, 10)
	store.SeedHoliday(testfixtures.NewHoliday("hol-global", date))
	store.SeedHoliday(testfixtures.NewHoliday("hol-batch", date,
		testfixtures.WithHolidayName("Batch Industrial Visit"),
		testfixtures.WithScope(holiday.ScopeBatch, "batch-1")))

	result, err := svc.CreateSingle(context.Background(), application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(date),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != application.OutcomeHolidayBlocked || result.Holiday == nil {
		t.Fatalf("expected holiday block, got %+v", result)
	}
	if result.Holiday.Name != "Batch Industrial Visit" {
		t.Fatalf("expected batch scope to win, got %q", result.Holiday.Name)
	}
}

func TestCreateSingle_ConvertsStoreOverlapRace(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)
	date := testfixtures.Date(2024, time.January, 15)

	// A competing request lands between the conflict check and the insert.
	raced := false
	store.CreateSessionHook = func(application.TrainingSession) error {
		if raced {
			return nil
		}
		raced = true
		return fmt.Errorf("insert rejected: %w", persistence.ErrOverlap)
	}

	result, err := svc.CreateSingle(context.Background(), application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(date),
	})
	if err != nil {
		t.Fatalf("race must surface as an outcome, got error %v", err)
	}
	if result.Outcome != application.OutcomeConflictBlocked {
		t.Fatalf("expected conflict outcome, got %s", result.Outcome)
	}
}

func TestCreateSingle_ConstraintViolationIsNotMisreportedAsInterval(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)

	store.CreateSessionHook = func(application.TrainingSession) error {
		return fmt.Errorf("insert rejected: %w", persistence.ErrConstraintViolation)
	}

	_, err := svc.CreateSingle(context.Background(), application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(testfixtures.Date(2024, time.January, 15)),
	})
	if errors.Is(err, interval.ErrInvalidInterval) {
		t.Fatalf("constraint failure must not masquerade as an interval error: %v", err)
	}
	var vErr *application.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestCreateRecurring_WeeklyPartialSuccess(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)
	ctx := context.Background()

	// Weekly Mondays 2024-01-01 .. 2024-01-22: four candidate dates.
	start := testfixtures.Date(2024, time.January, 1)
	until := testfixtures.Date(2024, time.January, 22)
	blockedDate := testfixtures.Date(2024, time.January, 8)

	if _, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input: testfixtures.NewSessionInput(blockedDate,
			testfixtures.WithSlot("09:30", "10:00"), testfixtures.WithTopic("Mock Interviews")),
	}); err != nil {
		t.Fatalf("seeding occupying session: %v", err)
	}

	result, err := svc.CreateRecurring(ctx, application.CreateRecurringParams{
		Principal:   testfixtures.Admin(),
		Input:       testfixtures.NewSessionInput(start),
		Cadence:     "weekly",
		RepeatUntil: &until,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.CreatedDates) != 3 {
		t.Fatalf("expected 3 created dates, got %v", result.CreatedDates)
	}
	if len(result.SkippedConflictDates) != 1 || !result.SkippedConflictDates[0].Equal(blockedDate) {
		t.Fatalf("expected %s skipped for conflict, got %v", blockedDate.Format(time.DateOnly), result.SkippedConflictDates)
	}
	if len(result.Sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(result.Sessions))
	}
}

func TestCreateRecurring_SkipsHolidays(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)

	start := testfixtures.Date(2024, time.January, 24)
	until := testfixtures.Date(2024, time.January, 27)
	republicDay := testfixtures.Date(2024, time.January, 26)
	store.SeedHoliday(testfixtures.NewHoliday("hol-1", republicDay))

	result, err := svc.CreateRecurring(context.Background(), application.CreateRecurringParams{
		Principal:   testfixtures.Admin(),
		Input:       testfixtures.NewSessionInput(start),
		Cadence:     "daily",
		RepeatUntil: &until,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.CreatedDates) != 3 {
		t.Fatalf("expected 3 created dates, got %v", result.CreatedDates)
	}
	if len(result.SkippedHolidayDates) != 1 || !result.SkippedHolidayDates[0].Equal(republicDay) {
		t.Fatalf("expected Republic Day skipped, got %v", result.SkippedHolidayDates)
	}
}

func TestCreateRecurring_SkipHolidaysBooksThrough(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)

	start := testfixtures.Date(2024, time.January, 25)
	until := testfixtures.Date(2024, time.January, 27)
	store.SeedHoliday(testfixtures.NewHoliday("hol-1", testfixtures.Date(2024, time.January, 26)))

	result, err := svc.CreateRecurring(context.Background(), application.CreateRecurringParams{
		Principal:    testfixtures.Admin(),
		Input:        testfixtures.NewSessionInput(start),
		Cadence:      "daily",
		RepeatUntil:  &until,
		SkipHolidays: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.CreatedDates) != 3 || len(result.SkippedHolidayDates) != 0 {
		t.Fatalf("expected override to book all 3 dates, got %+v", result)
	}
}

func TestCreateRecurring_RejectsUnknownCadence(t *testing.T) {
	t.Parallel()
	svc := newScheduler(testfixtures.NewMemoryStore())

	_, err := svc.CreateRecurring(context.Background(), application.CreateRecurringParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(testfixtures.Date(2024, time.January, 15)),
		Cadence:   "fortnightly",
	})
	var vErr *application.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := vErr.FieldErrors["cadence"]; !ok {
		t.Fatalf("expected cadence field error, got %+v", vErr.FieldErrors)
	}
}

func TestCreateRecurring_RepeatingNeedsBound(t *testing.T) {
	t.Parallel()
	svc := newScheduler(testfixtures.NewMemoryStore())

	_, err := svc.CreateRecurring(context.Background(), application.CreateRecurringParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(testfixtures.Date(2024, time.January, 15)),
		Cadence:   "daily",
	})
	if err == nil {
		t.Fatal("expected unbounded daily cadence to be rejected")
	}
}

func TestCreateRecurring_StoreFailureKeepsPartialResult(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)

	start := testfixtures.Date(2024, time.January, 1)
	until := testfixtures.Date(2024, time.January, 4)
	calls := 0
	store.CreateSessionHook = func(application.TrainingSession) error {
		calls++
		if calls == 3 {
			return fmt.Errorf("disk full")
		}
		return nil
	}

	result, err := svc.CreateRecurring(context.Background(), application.CreateRecurringParams{
		Principal:   testfixtures.Admin(),
		Input:       testfixtures.NewSessionInput(start),
		Cadence:     "daily",
		RepeatUntil: &until,
	})
	if err == nil {
		t.Fatal("expected store failure to surface")
	}
	if len(result.CreatedDates) != 2 {
		t.Fatalf("expected the 2 sessions created before the failure, got %v", result.CreatedDates)
	}
}

func TestUpdate_ExcludesItselfFromConflicts(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)
	ctx := context.Background()
	date := testfixtures.Date(2024, time.January, 15)

	created, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(date, testfixtures.WithSlot("09:00", "10:30")),
	})
	if err != nil {
		t.Fatalf("scheduling session: %v", err)
	}

	// Widening its own slot must not conflict with itself.
	result, err := svc.Update(ctx, application.UpdateSessionParams{
		Principal: testfixtures.Admin(),
		SessionID: created.Session.ID,
		Input:     testfixtures.NewSessionInput(date, testfixtures.WithSlot("09:00", "12:00")),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != application.OutcomeScheduled {
		t.Fatalf("expected scheduled outcome, got %+v", result)
	}
	if result.Session.Interval.End != interval.TimeOfDay(12*60) {
		t.Fatalf("expected widened slot, got %s", result.Session.Interval)
	}
}

func TestUpdate_BlocksMoveOntoOccupiedSlot(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)
	ctx := context.Background()
	date := testfixtures.Date(2024, time.January, 15)

	first, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(date, testfixtures.WithSlot("09:00", "10:00")),
	})
	if err != nil {
		t.Fatalf("scheduling first session: %v", err)
	}
	second, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(date, testfixtures.WithSlot("11:00", "12:00")),
	})
	if err != nil {
		t.Fatalf("scheduling second session: %v", err)
	}

	result, err := svc.Update(ctx, application.UpdateSessionParams{
		Principal: testfixtures.Admin(),
		SessionID: second.Session.ID,
		Input:     testfixtures.NewSessionInput(date, testfixtures.WithSlot("09:30", "10:30")),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != application.OutcomeConflictBlocked {
		t.Fatalf("expected conflict outcome, got %s", result.Outcome)
	}
	if len(result.Conflicts) != 1 || result.Conflicts[0].ID != first.Session.ID {
		t.Fatalf("expected first session as conflict, got %+v", result.Conflicts)
	}
}

func TestUpdate_HolidayGateAppliesToMoves(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)
	ctx := context.Background()
	republicDay := testfixtures.Date(2024, time.January, 26)
	store.SeedHoliday(testfixtures.NewHoliday("hol-1", republicDay))

	created, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(testfixtures.Date(2024, time.January, 15)),
	})
	if err != nil {
		t.Fatalf("scheduling session: %v", err)
	}

	result, err := svc.Update(ctx, application.UpdateSessionParams{
		Principal: testfixtures.Admin(),
		SessionID: created.Session.ID,
		Input:     testfixtures.NewSessionInput(republicDay),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != application.OutcomeHolidayBlocked {
		t.Fatalf("expected holiday block on move, got %s", result.Outcome)
	}
}

func TestUpdate_MissingSessionReportsNotFound(t *testing.T) {
	t.Parallel()
	svc := newScheduler(testfixtures.NewMemoryStore())

	_, err := svc.Update(context.Background(), application.UpdateSessionParams{
		Principal: testfixtures.Admin(),
		SessionID: "missing",
		Input:     testfixtures.NewSessionInput(testfixtures.Date(2024, time.January, 15)),
	})
	if !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestToggleCancelled_CancelFreesSlot(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)
	ctx := context.Background()
	date := testfixtures.Date(2024, time.January, 15)

	created, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(date),
	})
	if err != nil {
		t.Fatalf("scheduling session: %v", err)
	}

	cancelled, err := svc.ToggleCancelled(ctx, testfixtures.Admin(), created.Session.ID, false)
	if err != nil || !cancelled.Session.Cancelled {
		t.Fatalf("expected cancelled session, got %+v, %v", cancelled, err)
	}

	// The freed slot is bookable again.
	rebooked, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(date),
	})
	if err != nil || rebooked.Outcome != application.OutcomeScheduled {
		t.Fatalf("expected freed slot to schedule, got %+v, %v", rebooked, err)
	}
}

func TestToggleCancelled_RestoreReRunsChecks(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)
	ctx := context.Background()
	date := testfixtures.Date(2024, time.January, 15)

	created, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(date),
	})
	if err != nil {
		t.Fatalf("scheduling session: %v", err)
	}
	if _, err := svc.ToggleCancelled(ctx, testfixtures.Admin(), created.Session.ID, false); err != nil {
		t.Fatalf("cancelling session: %v", err)
	}

	// Another booking takes the slot while the session sits cancelled.
	if _, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(date, testfixtures.WithTopic("Group Discussion")),
	}); err != nil {
		t.Fatalf("scheduling competing session: %v", err)
	}

	restored, err := svc.ToggleCancelled(ctx, testfixtures.Admin(), created.Session.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored.Outcome != application.OutcomeConflictBlocked {
		t.Fatalf("expected restore to be conflict blocked, got %s", restored.Outcome)
	}
}

func TestToggleCancelled_RestoreBlockedByNewHoliday(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)
	ctx := context.Background()
	date := testfixtures.Date(2024, time.January, 15)

	created, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(date),
	})
	if err != nil {
		t.Fatalf("scheduling session: %v", err)
	}
	if _, err := svc.ToggleCancelled(ctx, testfixtures.Admin(), created.Session.ID, false); err != nil {
		t.Fatalf("cancelling session: %v", err)
	}

	// The date is declared a holiday while the session sits cancelled.
	store.SeedHoliday(testfixtures.NewHoliday("hol-1", date, testfixtures.WithHolidayName("Founders Day")))

	restored, err := svc.ToggleCancelled(ctx, testfixtures.Admin(), created.Session.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored.Outcome != application.OutcomeHolidayBlocked {
		t.Fatalf("expected restore to be holiday blocked, got %s", restored.Outcome)
	}

	forced, err := svc.ToggleCancelled(ctx, testfixtures.Admin(), created.Session.ID, true)
	if err != nil || forced.Outcome != application.OutcomeScheduled || forced.Session.Cancelled {
		t.Fatalf("expected forced restore to succeed, got %+v, %v", forced, err)
	}
}

func TestDelete_CascadesAttendance(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)
	ctx := context.Background()

	created, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(testfixtures.Date(2024, time.January, 15)),
	})
	if err != nil {
		t.Fatalf("scheduling session: %v", err)
	}

	markedAt := time.Date(2024, 1, 15, 10, 35, 0, 0, time.UTC)
	store.SeedAttendance(created.Session.ID,
		persistence.AttendanceRecord{ID: "att-1", SessionID: created.Session.ID, StudentID: "stu-1", Present: true, MarkedAt: markedAt},
		persistence.AttendanceRecord{ID: "att-2", SessionID: created.Session.ID, StudentID: "stu-2", Present: true, MarkedAt: markedAt},
		persistence.AttendanceRecord{ID: "att-3", SessionID: created.Session.ID, StudentID: "stu-3", Present: false, MarkedAt: markedAt},
	)

	if err := svc.Delete(ctx, testfixtures.Admin(), created.Session.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.SessionCount() != 0 {
		t.Fatalf("expected session removed, got %d", store.SessionCount())
	}
	if store.AttendanceCount(created.Session.ID) != 0 {
		t.Fatalf("expected attendance cascade, got %d rows", store.AttendanceCount(created.Session.ID))
	}
	if err := svc.Delete(ctx, testfixtures.Admin(), created.Session.ID); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListForVenueDate_FiltersCancelled(t *testing.T) {
	t.Parallel()
	store := testfixtures.NewMemoryStore()
	svc := newScheduler(store)
	ctx := context.Background()
	date := testfixtures.Date(2024, time.January, 15)

	created, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(date, testfixtures.WithSlot("09:00", "10:00")),
	})
	if err != nil {
		t.Fatalf("scheduling session: %v", err)
	}
	other, err := svc.CreateSingle(ctx, application.CreateSingleParams{
		Principal: testfixtures.Admin(),
		Input:     testfixtures.NewSessionInput(date, testfixtures.WithSlot("10:00", "11:00")),
	})
	if err != nil {
		t.Fatalf("scheduling second session: %v", err)
	}
	if _, err := svc.ToggleCancelled(ctx, testfixtures.Admin(), other.Session.ID, false); err != nil {
		t.Fatalf("cancelling session: %v", err)
	}

	live, err := svc.ListForVenueDate(ctx, testfixtures.Admin(), "venue-1", date, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(live) != 1 || live[0].ID != created.Session.ID {
		t.Fatalf("expected only the live session, got %+v", live)
	}

	all, err := svc.ListForVenueDate(ctx, testfixtures.Admin(), "venue-1", date, true)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected both sessions, got %d (err %v)", len(all), err)
	}
}
