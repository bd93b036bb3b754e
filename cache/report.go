package cache

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/probekit/health"
)

// Stats counts how ReportCache served its callers.
type Stats struct {
	// Hits were served from the store.
	Hits uint64
	// Runs is how many times the wrapped runner was invoked.
	Runs uint64
	// Shared counts callers served by a run that more than one caller awaited.
	Shared uint64
}

// Option configures a ReportCache.
type Option func(*ReportCache)

// WithStore replaces the default MemoryStore.
func WithStore(s Store) Option {
	return func(c *ReportCache) {
		if s != nil {
			c.store = s
		}
	}
}

// ReportCache wraps a health.Runner with poll coalescing.
//
// Contract:
//   - Concurrency: safe for concurrent use; at most one run is in flight.
//   - Context: a caller's cancellation stops its wait, not the shared run,
//     which stays bounded by the probes' own timeouts.
//   - Errors: engine failures are returned to every waiter and never stored.
type ReportCache struct {
	runner health.Runner
	store  Store
	policy Policy
	group  singleflight.Group

	hits   atomic.Uint64
	runs   atomic.Uint64
	shared atomic.Uint64
}

var _ health.Runner = (*ReportCache)(nil)

// NewReportCache wraps runner.
func NewReportCache(runner health.Runner, policy Policy, opts ...Option) (*ReportCache, error) {
	if runner == nil {
		return nil, ErrNilRunner
	}
	c := &ReportCache{
		runner: runner,
		policy: policy,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = NewMemoryStore(0)
	}
	return c, nil
}

// Run returns a stored report when one is fresh, otherwise joins or starts
// a run.
func (c *ReportCache) Run(ctx context.Context) (health.Report, error) {
	if report, ok := c.store.Get(ctx, ReportKey); ok {
		c.hits.Add(1)
		return report, nil
	}

	ch := c.group.DoChan(ReportKey, func() (any, error) {
		c.runs.Add(1)
		runCtx := context.WithoutCancel(ctx)
		report, err := c.runner.Run(runCtx)
		if err == nil && c.policy.ShouldCache(report) {
			_ = c.store.Set(runCtx, ReportKey, report, c.policy.EffectiveTTL(0))
		}
		return report, err
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.shared.Add(1)
		}
		report, _ := res.Val.(health.Report)
		return report, res.Err
	case <-ctx.Done():
		return health.Report{}, ctx.Err()
	}
}

// Invalidate drops the stored report so the next call runs the probes.
func (c *ReportCache) Invalidate(ctx context.Context) error {
	return c.store.Delete(ctx, ReportKey)
}

// Stats returns a snapshot of the counters.
func (c *ReportCache) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Runs:   c.runs.Load(),
		Shared: c.shared.Load(),
	}
}
