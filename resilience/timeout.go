package resilience

import (
	"context"
	"errors"
	"time"
)

// Within runs op in its own goroutine under timeout and returns its value.
//
// It never waits past the deadline: when ctx expires first, the operation's
// context is cancelled, the goroutine is abandoned and Within returns
// ErrTimeout (or ctx.Err() when the parent was cancelled rather than timed
// out). A panic inside op is recovered and returned as a *PanicError.
// A non-positive timeout leaves ctx's own deadline, if any, in charge.
func Within[T any](ctx context.Context, timeout time.Duration, op func(context.Context) T) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type settled struct {
		value T
		err   error
	}
	done := make(chan settled, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- settled{err: &PanicError{Value: r}}
			}
		}()
		done <- settled{value: op(ctx)}
	}()

	select {
	case s := <-done:
		return s.value, s.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	}
}
