package cache

import (
	"time"

	"github.com/jonwraymond/probekit/health"
)

// Policy configures report reuse.
type Policy struct {
	// TTL is how long a report is reused.
	// If zero, reports are never reused; concurrent callers still share a run.
	TTL time.Duration

	// MaxTTL is the maximum allowed TTL. If zero, no maximum is enforced.
	MaxTTL time.Duration

	// ReuseFailing permits reusing reports that are not healthy. Off by
	// default so that a recovery is seen on the next poll.
	ReuseFailing bool
}

// NoCachePolicy returns a policy that disables reuse entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache reports whether report may be reused under this policy.
func (p Policy) ShouldCache(report health.Report) bool {
	if p.EffectiveTTL(0) <= 0 {
		return false
	}
	return p.ReuseFailing || report.Healthy()
}

// EffectiveTTL returns the TTL to use, applying the default and clamping.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.TTL
	}

	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}

	return ttl
}
