package observe

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/probekit/resilience"
)

// Blocking worker pool gauge names.
const (
	MetricBlockingActive   = "probekit.blocking.active"
	MetricBlockingWaiting  = "probekit.blocking.waiting"
	MetricBlockingCapacity = "probekit.blocking.capacity"
)

// PoolStatsFunc reports the occupancy of a worker pool.
type PoolStatsFunc func() resilience.BulkheadMetrics

// PoolGauge exports the occupancy of the blocking worker pool. The tracked
// pool can be swapped when the engine is rebuilt; until one is tracked no
// values are observed.
type PoolGauge struct {
	stats atomic.Pointer[PoolStatsFunc]
	reg   metric.Registration
}

// NewPoolGauge registers the pool gauges on meter.
func NewPoolGauge(meter metric.Meter) (*PoolGauge, error) {
	active, err := meter.Int64ObservableGauge(
		MetricBlockingActive,
		metric.WithDescription("Blocking probes holding a worker slot"),
		metric.WithUnit("{probe}"),
	)
	if err != nil {
		return nil, err
	}

	waiting, err := meter.Int64ObservableGauge(
		MetricBlockingWaiting,
		metric.WithDescription("Blocking probes waiting for a worker slot"),
		metric.WithUnit("{probe}"),
	)
	if err != nil {
		return nil, err
	}

	capacity, err := meter.Int64ObservableGauge(
		MetricBlockingCapacity,
		metric.WithDescription("Worker slots available to blocking probes"),
		metric.WithUnit("{slot}"),
	)
	if err != nil {
		return nil, err
	}

	g := &PoolGauge{}
	g.reg, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		fn := g.stats.Load()
		if fn == nil {
			return nil
		}
		m := (*fn)()
		o.ObserveInt64(active, int64(m.Active))
		o.ObserveInt64(waiting, int64(m.Waiting))
		o.ObserveInt64(capacity, int64(m.MaxConcurrent))
		return nil
	}, active, waiting, capacity)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Track points the gauges at fn. A nil gauge ignores the call.
func (g *PoolGauge) Track(fn PoolStatsFunc) {
	if g == nil || fn == nil {
		return
	}
	g.stats.Store(&fn)
}

// Close unregisters the gauges.
func (g *PoolGauge) Close() error {
	if g == nil || g.reg == nil {
		return nil
	}
	return g.reg.Unregister()
}
