package resilience

import (
	"context"
	"runtime"
	"sync"
)

// Bulkhead limits how many operations hold a slot at once. Acquire waits
// for a free slot until the caller's context is done.
type Bulkhead struct {
	size int
	sem  chan struct{}

	mu        sync.Mutex
	active    int
	maxActive int
	waiting   int
}

// NewBulkhead creates a bulkhead with size slots. A non-positive size
// falls back to runtime.NumCPU().
func NewBulkhead(size int) *Bulkhead {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Bulkhead{
		size: size,
		sem:  make(chan struct{}, size),
	}
}

// Acquire takes a slot, waiting while all of them are held. It returns the
// context error if ctx is done first.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		b.admitted()
		return nil
	default:
	}

	b.mu.Lock()
	b.waiting++
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.waiting--
		b.mu.Unlock()
	}()

	select {
	case b.sem <- struct{}{}:
		b.admitted()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bulkhead) admitted() {
	b.mu.Lock()
	b.active++
	if b.active > b.maxActive {
		b.maxActive = b.active
	}
	b.mu.Unlock()
}

// Release releases a slot in the bulkhead.
func (b *Bulkhead) Release() {
	select {
	case <-b.sem:
		b.mu.Lock()
		b.active--
		b.mu.Unlock()
	default:
		// Unbalanced Release; nothing held.
	}
}

// Lease is one claim on a bulkhead slot. The goroutine that acquires it
// and the goroutine that gives up on it may differ.
type Lease struct {
	b *Bulkhead

	mu     sync.Mutex
	held   bool
	closed bool
}

// NewLease returns an unacquired lease on b.
func (b *Bulkhead) NewLease() *Lease {
	return &Lease{b: b}
}

// Acquire waits for a slot like Bulkhead.Acquire. Once Release has been
// called it fails with ErrLeaseReleased, handing back any slot it obtained.
func (l *Lease) Acquire(ctx context.Context) error {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return ErrLeaseReleased
	}

	if err := l.b.Acquire(ctx); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		l.b.Release()
		return ErrLeaseReleased
	}
	l.held = true
	return nil
}

// Release frees the slot if one is held. It is safe to call more than once
// and from any goroutine.
func (l *Lease) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.held {
		l.held = false
		l.b.Release()
	}
}

// Metrics returns current bulkhead metrics.
func (b *Bulkhead) Metrics() BulkheadMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BulkheadMetrics{
		Active:        b.active,
		MaxActive:     b.maxActive,
		Available:     b.size - b.active,
		MaxConcurrent: b.size,
		Waiting:       b.waiting,
	}
}

// BulkheadMetrics contains bulkhead statistics.
type BulkheadMetrics struct {
	Active        int
	MaxActive     int
	Available     int
	MaxConcurrent int
	Waiting       int
}
