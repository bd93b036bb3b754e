package health

import (
	"context"
	"fmt"
	"time"
)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRunTimeout bounds a whole run. Probes still pending when it expires
// are reported as timeouts.
// Default: 0 (no run-wide deadline)
func WithRunTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.runTimeout = d
		}
	}
}

// WithClock overrides the clock used for report timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine runs a registry of probes and produces one Report per invocation.
// It holds no mutable state between runs.
type Engine struct {
	registry   *Registry
	executor   *Executor
	runTimeout time.Duration
	now        func() time.Time
}

// NewEngine creates an engine over registry. A nil executor uses
// NewExecutor() defaults.
func NewEngine(registry *Registry, executor *Executor, opts ...EngineOption) *Engine {
	if registry == nil {
		registry = NewRegistry(0)
	}
	if executor == nil {
		executor = NewExecutor()
	}
	e := &Engine{
		registry: registry,
		executor: executor,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes every registered probe and builds the report. Individual
// probe faults are reported inside the Report; an error is returned only when
// the engine itself fails, wrapping ErrEngineFailure.
func (e *Engine) Run(ctx context.Context) (report Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			report = Report{}
			err = fmt.Errorf("%w: %v", ErrEngineFailure, r)
		}
	}()

	if e.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.runTimeout)
		defer cancel()
	}

	run := e.executor.Execute(ctx, e.registry.Specs())
	return BuildReport(run, e.now()), nil
}

// RunProbe runs one registered probe through the same wrapper as Run.
func (e *Engine) RunProbe(ctx context.Context, name string) (Outcome, error) {
	spec, ok := e.registry.Lookup(name)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrProbeNotFound, name)
	}

	if e.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.runTimeout)
		defer cancel()
	}
	return e.executor.Check(ctx, spec), nil
}

// Probes returns the registered probe names in registration order.
func (e *Engine) Probes() []string {
	return e.registry.Names()
}
