package health

import (
	"context"
	"time"
)

// Probe is the interface for a named diagnostic unit.
//
// Contract:
//   - Concurrency: Check may run concurrently with other probes.
//   - Context: Check should honor cancellation; the executor abandons it on
//     timeout either way.
//   - Errors: business-level failures are returned as data (Unhealthy,
//     Skipped), never as panics.
type Probe interface {
	// Name returns the unique name of this probe.
	Name() string

	// Check queries the subsystem and returns the outcome.
	Check(ctx context.Context) Outcome
}

// ProbeFunc is an adapter to allow ordinary functions to be used as Probes.
type ProbeFunc struct {
	name string
	fn   func(context.Context) Outcome
}

// NewProbeFunc creates a new ProbeFunc.
func NewProbeFunc(name string, fn func(context.Context) Outcome) *ProbeFunc {
	return &ProbeFunc{name: name, fn: fn}
}

// Name returns the name of this probe.
func (f *ProbeFunc) Name() string {
	return f.name
}

// Check runs the probe function.
func (f *ProbeFunc) Check(ctx context.Context) Outcome {
	return f.fn(ctx)
}

// ProbeSpec is a registered probe plus its run policy. It is immutable for
// the lifetime of a run.
type ProbeSpec struct {
	Name     string
	Critical bool
	Timeout  time.Duration
	// Blocking probes run on the bounded worker pool.
	Blocking bool
	Probe    Probe
}

// ProbeOption configures a probe at registration.
type ProbeOption func(*ProbeSpec)

// WithCritical sets whether the probe participates in the overall status.
// Probes are critical by default.
func WithCritical(critical bool) ProbeOption {
	return func(s *ProbeSpec) {
		s.Critical = critical
	}
}

// WithTimeout overrides the registry's default timeout for the probe.
func WithTimeout(d time.Duration) ProbeOption {
	return func(s *ProbeSpec) {
		if d > 0 {
			s.Timeout = d
		}
	}
}

// WithBlocking marks the probe as doing non-cooperative work (host
// sampling, filesystem syscalls).
func WithBlocking() ProbeOption {
	return func(s *ProbeSpec) {
		s.Blocking = true
	}
}

// ProbeResult pairs a settled outcome with the probe that produced it.
type ProbeResult struct {
	Name     string
	Critical bool
	Outcome  Outcome
}
