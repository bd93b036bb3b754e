package probes

import (
	"context"
	"strings"
	"time"

	"github.com/jonwraymond/probekit/health"
)

// Pinger is a client capability for one external dependency: open a
// connection, issue a trivial round-trip, close.
type Pinger interface {
	// Kind names the dependency type ("postgres", "redis", ...).
	Kind() string

	// Address returns the target with credentials redacted.
	Address() string

	// Ping performs the round-trip.
	Ping(ctx context.Context) error
}

// Dependency probes one external dependency through an injected Pinger.
// Without a Pinger it reports skipped: the dependency is not configured.
type Dependency struct {
	name   string
	pinger Pinger
}

var _ health.Probe = (*Dependency)(nil)

// NewDependency creates a dependency probe reported under name, trimmed of
// surrounding space. A nil pinger makes the probe skip.
func NewDependency(name string, pinger Pinger) *Dependency {
	return &Dependency{name: strings.TrimSpace(name), pinger: pinger}
}

// Name returns the probe name.
func (d *Dependency) Name() string {
	return d.name
}

// Check pings the dependency.
func (d *Dependency) Check(ctx context.Context) health.Outcome {
	if d.pinger == nil {
		return health.Skipped("not configured")
	}

	details := map[string]any{
		"kind":    d.pinger.Kind(),
		"address": d.pinger.Address(),
	}

	start := time.Now()
	err := d.pinger.Ping(ctx)
	details["response_time_ms"] = millis(time.Since(start))
	if err != nil {
		details["error"] = err.Error()
		return health.Unhealthy(details)
	}
	return health.Healthy(details)
}
