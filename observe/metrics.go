package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/probekit/health"
)

// Metric names.
const (
	MetricProbeChecks    = "probekit.probe.checks"
	MetricProbeDuration  = "probekit.probe.duration_ms"
	MetricReportTotal    = "probekit.report.total"
	MetricReportDuration = "probekit.report.duration_ms"
)

// Metrics records probe and report metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCheck records one settled probe check.
	RecordCheck(ctx context.Context, meta ProbeMeta, status health.Status, latency time.Duration)

	// RecordReport records one completed run.
	RecordReport(ctx context.Context, status health.Status, duration time.Duration)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	checkCount     metric.Int64Counter
	checkDuration  metric.Float64Histogram
	reportCount    metric.Int64Counter
	reportDuration metric.Float64Histogram
}

// NewMetrics creates the probe and report instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	checkCount, err := meter.Int64Counter(
		MetricProbeChecks,
		metric.WithDescription("Total number of probe checks by status"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	checkDuration, err := meter.Float64Histogram(
		MetricProbeDuration,
		metric.WithDescription("Probe check latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	reportCount, err := meter.Int64Counter(
		MetricReportTotal,
		metric.WithDescription("Total number of health reports by overall status"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, err
	}

	reportDuration, err := meter.Float64Histogram(
		MetricReportDuration,
		metric.WithDescription("Health run duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		checkCount:     checkCount,
		checkDuration:  checkDuration,
		reportCount:    reportCount,
		reportDuration: reportDuration,
	}, nil
}

func (m *metricsImpl) RecordCheck(ctx context.Context, meta ProbeMeta, status health.Status, latency time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("probe.name", meta.Name),
		attribute.String("probe.status", status.String()),
		attribute.Bool("probe.critical", meta.Critical),
	)
	m.checkCount.Add(ctx, 1, opt)
	m.checkDuration.Record(ctx, millis(latency), opt)
}

func (m *metricsImpl) RecordReport(ctx context.Context, status health.Status, duration time.Duration) {
	opt := metric.WithAttributes(attribute.String("status", status.String()))
	m.reportCount.Add(ctx, 1, opt)
	m.reportDuration.Record(ctx, millis(duration), opt)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (noopMetrics) RecordCheck(context.Context, ProbeMeta, health.Status, time.Duration) {}

func (noopMetrics) RecordReport(context.Context, health.Status, time.Duration) {}
