package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"opsdash/internal/gateway"
)

func TestDo_RetriesServerErrors(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Config{MaxAttempts: 3}, gateway.IsTransient, func() error {
		attempts++
		return &gateway.StatusError{Code: 502, Status: "502 Bad Gateway"}
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDo_NoRetryOnAuthError(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Config{MaxAttempts: 3}, gateway.IsTransient, func() error {
		attempts++
		return fmt.Errorf("fetching panel: %w", gateway.ErrUnauthorized)
	})

	if !errors.Is(err, gateway.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("a rejected credential must not be retried, got %d attempts", attempts)
	}
}

func TestDo_NoRetryOnClientError(t *testing.T) {
	attempts := 0
	Do(context.Background(), Config{MaxAttempts: 3}, gateway.IsTransient, func() error {
		attempts++
		return &gateway.StatusError{Code: 403, Status: "403 Forbidden", Detail: "no access to tenant"}
	})

	if attempts != 1 {
		t.Fatalf("expected 1 attempt for a 403, got %d", attempts)
	}
}

func TestDo_SucceedsAfterNetworkBlip(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Config{MaxAttempts: 3}, gateway.IsTransient, func() error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("%w: connection refused", gateway.ErrNetwork)
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestDo_NilPredicateNeverRetries(t *testing.T) {
	attempts := 0
	Do(context.Background(), Config{MaxAttempts: 5}, nil, func() error {
		attempts++
		return &gateway.StatusError{Code: 502, Status: "502 Bad Gateway"}
	})

	if attempts != 1 {
		t.Fatalf("expected 1 attempt without a predicate, got %d", attempts)
	}
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Do(ctx, Config{MaxAttempts: 3}, gateway.IsTransient, func() error {
		attempts++
		return fmt.Errorf("%w: timeout", gateway.ErrNetwork)
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 0 {
		t.Fatalf("expected 0 attempts, got %d", attempts)
	}
}

func TestBackoffDelay_NoBaseDelay(t *testing.T) {
	if delay := backoffDelay(0, time.Second, 1); delay != 0 {
		t.Fatalf("expected zero delay, got %v", delay)
	}
}

func TestBackoffDelay_CappedAtMax(t *testing.T) {
	for attempt := 1; attempt <= 10; attempt++ {
		if delay := backoffDelay(500*time.Millisecond, time.Second, attempt); delay > time.Second {
			t.Fatalf("attempt %d: delay %v exceeds max", attempt, delay)
		}
	}
}
