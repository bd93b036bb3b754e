package observe

import (
	"context"

	"github.com/jonwraymond/probekit/health"
)

// InstrumentedRunner wraps a health.Runner. Each run gets a fresh run id in
// its context, a parent span and a report metric.
type InstrumentedRunner struct {
	next    health.Runner
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

var _ health.Runner = (*InstrumentedRunner)(nil)

// NewInstrumentedRunner wraps next with obs.
func NewInstrumentedRunner(next health.Runner, obs Observer) (*InstrumentedRunner, error) {
	if next == nil {
		return nil, ErrNilRunner
	}
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return &InstrumentedRunner{
		next:    next,
		tracer:  NewTracer(obs.Tracer()),
		metrics: metrics,
		logger:  obs.Logger(),
	}, nil
}

// Run runs next under a run span.
func (r *InstrumentedRunner) Run(ctx context.Context) (health.Report, error) {
	id := NewRunID()
	ctx = WithRunID(ctx, id)
	ctx, span := r.tracer.StartRun(ctx, id)

	report, err := r.next.Run(ctx)
	if err != nil {
		r.tracer.EndSpan(span, health.StatusError, err)
		r.metrics.RecordReport(ctx, health.StatusError, 0)
		r.logger.Error(ctx, "health run failed", Field{Key: "error", Value: err.Error()})
		return report, err
	}

	r.tracer.EndSpan(span, report.Status, nil)
	r.metrics.RecordReport(ctx, report.Status, report.Duration)

	fields := []Field{
		{Key: "status", Value: report.Status.String()},
		{Key: "duration_ms", Value: millis(report.Duration)},
		{Key: "checks", Value: len(report.Results)},
	}
	if report.Healthy() {
		r.logger.Info(ctx, "health run completed", fields...)
	} else {
		fields = append(fields,
			Field{Key: "unhealthy_checks", Value: report.Summary.Unhealthy},
			Field{Key: "error_checks", Value: report.Summary.Errors},
		)
		r.logger.Warn(ctx, "health run unhealthy", fields...)
	}
	return report, nil
}
