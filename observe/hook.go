package observe

import (
	"context"

	"github.com/jonwraymond/probekit/health"
)

// ProbeHook instruments every probe check of a health.Executor with a span,
// metrics and log entries.
//
// Contract:
//   - Concurrency: Start may be called from many goroutines at once.
//   - Context: the returned context carries the probe span so that clients
//     instrumented with OpenTelemetry nest under it.
//   - Errors: probe outcomes are recorded and never altered.
type ProbeHook struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

var _ health.Hook = (*ProbeHook)(nil)

// NewProbeHook creates a ProbeHook. Nil components are replaced by no-ops.
func NewProbeHook(tracer Tracer, metrics Metrics, logger Logger) *ProbeHook {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &ProbeHook{tracer: tracer, metrics: metrics, logger: logger}
}

// ProbeHookFromObserver creates a ProbeHook from an Observer.
func ProbeHookFromObserver(obs Observer) (*ProbeHook, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewProbeHook(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Start opens the probe span and returns the settlement callback.
func (h *ProbeHook) Start(ctx context.Context, spec health.ProbeSpec) (context.Context, func(health.Outcome)) {
	meta := ProbeMeta{
		Name:     spec.Name,
		Critical: spec.Critical,
		RunID:    RunIDFromContext(ctx),
	}

	ctx, span := h.tracer.StartSpan(ctx, meta)
	logger := h.logger.WithProbe(meta)
	logger.Debug(ctx, "probe started", Field{Key: "timeout_ms", Value: millis(spec.Timeout)})

	return ctx, func(o health.Outcome) {
		h.tracer.EndSpan(span, o.Status, o.Err)
		h.metrics.RecordCheck(ctx, meta, o.Status, o.Latency)

		fields := []Field{
			{Key: "status", Value: o.Status.String()},
			{Key: "latency_ms", Value: millis(o.Latency)},
		}
		if !o.Status.Failing() {
			logger.Info(ctx, "probe settled", fields...)
			return
		}
		if msg, ok := o.Detail("error"); ok {
			fields = append(fields, Field{Key: "error", Value: msg})
		}
		logger.Warn(ctx, "probe failing", fields...)
	}
}
