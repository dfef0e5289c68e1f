package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/training-scheduler/internal/persistence"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}
}

func TestWithRetry_RecoversFromLockContention(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("exec: database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetry_NonBusyErrorReturnsImmediately(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return persistence.ErrOverlap
	})
	if !errors.Is(err, persistence.ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return fmt.Errorf("exec: database is locked")
	})
	if err == nil {
		t.Fatal("expected persistent contention to fail")
	}
	if attempts != 4 {
		t.Fatalf("expected initial attempt plus 3 retries, got %d", attempts)
	}
}

func TestWithRetry_StopsOnContextCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, fastRetryConfig(), func() error {
		return fmt.Errorf("exec: database is locked")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPing_ReportsLiveConnection(t *testing.T) {
	pool := openTestPool(t)
	if err := pool.Ping(context.Background()); err != nil {
		t.Fatalf("expected open pool to answer ping, got %v", err)
	}
}
