package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/probekit/health"
)

// RunSpanName names the span covering a whole run.
const RunSpanName = "probe.run"

// ProbeMeta contains metadata about a probe check for telemetry purposes.
type ProbeMeta struct {
	Name     string
	Critical bool
	RunID    string // empty outside an instrumented run
}

// SpanName returns the deterministic span name for this probe.
// Format: probe.check.<name>
func (m ProbeMeta) SpanName() string {
	return "probe.check." + m.Name
}

// Tracer wraps OpenTelemetry tracing with probe-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartRun starts the span that parents every probe span of a run.
	StartRun(ctx context.Context, runID string) (context.Context, trace.Span)

	// StartSpan starts a new span for one probe check.
	StartSpan(ctx context.Context, meta ProbeMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording the settled status and fault.
	EndSpan(span trace.Span, status health.Status, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	if t == nil {
		return newNoopTracer()
	}
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartRun(ctx context.Context, runID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, RunSpanName,
		trace.WithAttributes(attribute.String("probe.run_id", runID)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartSpan starts a new span with probe metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta ProbeMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("probe.name", meta.Name),
		attribute.Bool("probe.critical", meta.Critical),
	}
	if meta.RunID != "" {
		attrs = append(attrs, attribute.String("probe.run_id", meta.RunID))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan sets probe.status and marks failing statuses as span errors.
func (t *tracerImpl) EndSpan(span trace.Span, status health.Status, err error) {
	span.SetAttributes(attribute.String("probe.status", status.String()))
	switch {
	case err != nil:
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	case status.Failing():
		span.SetStatus(codes.Error, status.String())
	default:
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartRun(ctx context.Context, _ string) (context.Context, trace.Span) {
	return t.noop.Start(ctx, RunSpanName)
}

func (t *noopTracer) StartSpan(ctx context.Context, meta ProbeMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ health.Status, _ error) {
	span.End()
}
