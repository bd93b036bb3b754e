package health

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/probekit/resilience"
)

// Hook observes each probe check. Start is called before the probe runs and
// may return a derived context (for example carrying a span); the returned
// function is called exactly once with the settled outcome.
type Hook interface {
	Start(ctx context.Context, spec ProbeSpec) (context.Context, func(Outcome))
}

// Run is the completed set of probe results for one invocation.
type Run struct {
	// Results holds one entry per probe, in the order the specs were given.
	Results []ProbeResult

	// Started is when the first probe was dispatched.
	Started time.Time

	// Finished is when the last probe settled.
	Finished time.Time
}

// Duration returns the wall-clock time from first dispatch to last settlement.
func (r Run) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithBlockingWorkers bounds how many blocking probes run at once.
// Default: runtime.NumCPU()
func WithBlockingWorkers(n int) ExecutorOption {
	return func(e *Executor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithHook installs an observability hook.
func WithHook(h Hook) ExecutorOption {
	return func(e *Executor) {
		e.hook = h
	}
}

// Executor runs probes concurrently, each under its own timeout.
//
// Every probe settles to exactly one Outcome: panics and deadline expiry are
// converted into error outcomes at the executor boundary, and a failing probe
// never cancels its siblings.
type Executor struct {
	workers  int
	hook     Hook
	blocking *resilience.Bulkhead
}

// NewExecutor creates a new executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(e)
	}
	e.blocking = resilience.NewBulkhead(e.workers)
	return e
}

// Execute runs every spec concurrently and returns once all of them have
// settled. A deadline on ctx bounds the whole run: probes still pending when
// it expires are finalized as timeouts.
func (e *Executor) Execute(ctx context.Context, specs []ProbeSpec) Run {
	run := Run{
		Results: make([]ProbeResult, len(specs)),
		Started: time.Now(),
	}

	// Plain Group: one probe's failure must not cancel the others.
	var g errgroup.Group
	for i, spec := range specs {
		g.Go(func() error {
			run.Results[i] = ProbeResult{
				Name:     spec.Name,
				Critical: spec.Critical,
				Outcome:  e.Check(ctx, spec),
			}
			return nil
		})
	}
	_ = g.Wait()

	run.Finished = time.Now()
	return run
}

// BlockingStats reports the occupancy of the blocking worker pool.
func (e *Executor) BlockingStats() resilience.BulkheadMetrics {
	return e.blocking.Metrics()
}

// Check runs a single probe through the executor's wrapper.
func (e *Executor) Check(ctx context.Context, spec ProbeSpec) (outcome Outcome) {
	if e.hook != nil {
		var done func(Outcome)
		ctx, done = e.hook.Start(ctx, spec)
		defer func() { done(outcome) }()
	}

	if spec.Probe == nil {
		return Errored(fmt.Errorf("%w: %q has no body", ErrInvalidProbe, spec.Name))
	}

	// The slot is given back when the wrapper settles, even if an abandoned
	// probe body is still running.
	var lease *resilience.Lease
	if spec.Blocking {
		lease = e.blocking.NewLease()
		defer lease.Release()
	}

	start := time.Now()
	outcome, err := resilience.Within(ctx, spec.Timeout, func(ctx context.Context) Outcome {
		if lease != nil {
			if err := lease.Acquire(ctx); err != nil {
				return Errored(err)
			}
			defer lease.Release()
		}
		return spec.Probe.Check(ctx)
	})
	elapsed := time.Since(start)

	if err != nil {
		outcome = settleFault(err)
		if errors.Is(err, resilience.ErrTimeout) && spec.Timeout > 0 && elapsed > spec.Timeout {
			elapsed = spec.Timeout
		}
	}
	return outcome.WithLatency(elapsed)
}

// settleFault converts a wrapper error into an error outcome.
func settleFault(err error) Outcome {
	var pe *resilience.PanicError
	switch {
	case errors.Is(err, resilience.ErrTimeout):
		return Errored(ErrProbeTimeout)
	case errors.As(err, &pe):
		return Errored(fmt.Errorf("%w: %v", ErrProbePanic, pe.Value))
	case errors.Is(err, context.Canceled):
		return Errored(ErrProbeCanceled)
	default:
		return Errored(err)
	}
}
