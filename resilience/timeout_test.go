package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithin_ReturnsValue(t *testing.T) {
	got, err := Within(context.Background(), time.Second, func(ctx context.Context) int {
		return 42
	})

	if err != nil {
		t.Fatalf("Within() error = %v", err)
	}
	if got != 42 {
		t.Errorf("Within() = %d, want 42", got)
	}
}

func TestWithin_AbandonsStalledOperation(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	start := time.Now()
	got, err := Within(context.Background(), 20*time.Millisecond, func(ctx context.Context) string {
		<-release
		return "late"
	})
	elapsed := time.Since(start)

	if err != ErrTimeout {
		t.Errorf("Within() error = %v, want ErrTimeout", err)
	}
	if got != "" {
		t.Errorf("Within() = %q, want zero value", got)
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("Within() took %v, want close to 20ms", elapsed)
	}
}

func TestWithin_RecoversPanic(t *testing.T) {
	_, err := Within(context.Background(), time.Second, func(ctx context.Context) int {
		panic("boom")
	})

	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("Within() error = %v, want *PanicError", err)
	}
	if pe.Value != "boom" {
		t.Errorf("PanicError.Value = %v, want boom", pe.Value)
	}
}

func TestWithin_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	release := make(chan struct{})
	defer close(release)

	_, err := Within(ctx, time.Second, func(ctx context.Context) int {
		<-release
		return 0
	})

	if err != context.Canceled {
		t.Errorf("Within() error = %v, want context.Canceled", err)
	}
}

func TestWithin_NoTimeout(t *testing.T) {
	got, err := Within(context.Background(), 0, func(ctx context.Context) bool {
		_, hasDeadline := ctx.Deadline()
		return hasDeadline
	})

	if err != nil {
		t.Fatalf("Within() error = %v", err)
	}
	if got {
		t.Error("operation context has a deadline, want none for zero timeout")
	}
}

func TestWithin_ParentDeadlineIsTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	release := make(chan struct{})
	defer close(release)

	_, err := Within(ctx, 0, func(ctx context.Context) int {
		<-release
		return 0
	})

	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Within() error = %v, want ErrTimeout", err)
	}
}
