package health

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultProbeTimeout is the per-probe timeout used when none is configured.
const DefaultProbeTimeout = 10 * time.Second

// Registry holds the ordered set of probes to run.
type Registry struct {
	mu             sync.RWMutex
	defaultTimeout time.Duration
	specs          []ProbeSpec
	index          map[string]int
}

// NewRegistry creates an empty registry. A non-positive defaultTimeout
// falls back to DefaultProbeTimeout.
func NewRegistry(defaultTimeout time.Duration) *Registry {
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultProbeTimeout
	}
	return &Registry{
		defaultTimeout: defaultTimeout,
		index:          make(map[string]int),
	}
}

// Register adds a probe. Registration is unconditional: optional probes
// decide to skip inside Check so that they remain visible in the report.
func (r *Registry) Register(probe Probe, opts ...ProbeOption) error {
	if probe == nil {
		return fmt.Errorf("%w: nil probe", ErrInvalidProbe)
	}
	name := strings.TrimSpace(probe.Name())
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidProbe)
	}

	spec := ProbeSpec{
		Name:     name,
		Critical: true,
		Timeout:  r.defaultTimeout,
		Probe:    probe,
	}
	for _, opt := range opts {
		opt(&spec)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateProbe, name)
	}
	r.index[name] = len(r.specs)
	r.specs = append(r.specs, spec)
	return nil
}

// MustRegister is like Register but panics on error. Intended for static
// wiring in tests and examples.
func (r *Registry) MustRegister(probe Probe, opts ...ProbeOption) {
	if err := r.Register(probe, opts...); err != nil {
		panic(err)
	}
}

// Specs returns a copy of the registered specs in registration order.
func (r *Registry) Specs() []ProbeSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]ProbeSpec, len(r.specs))
	copy(specs, r.specs)
	return specs
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (ProbeSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return ProbeSpec{}, false
	}
	return r.specs[i], true
}

// Names returns probe names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.specs))
	for i, s := range r.specs {
		names[i] = s.Name
	}
	return names
}

// Len returns the number of registered probes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.specs)
}
