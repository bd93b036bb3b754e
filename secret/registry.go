package secret

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ProviderFactory creates a Provider from configuration.
type ProviderFactory func(cfg map[string]any) (Provider, error)

// Registry manages provider factories.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]ProviderFactory
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]ProviderFactory)}
}

// NewDefaultRegistry creates a registry with the built-in "env" and "file"
// providers.
//
// Factory configuration keys:
//   - env:  "lookup" (LookupFunc), "prefix" (string)
//   - file: "root" (string)
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register("env", func(cfg map[string]any) (Provider, error) {
		p := &EnvProvider{}
		if v, ok := cfg["lookup"]; ok {
			switch fn := v.(type) {
			case LookupFunc:
				p.Lookup = fn
			case func(string) (string, bool):
				p.Lookup = fn
			default:
				return nil, fmt.Errorf("secret: env provider: lookup has type %T", v)
			}
		}
		if v, ok := cfg["prefix"].(string); ok {
			p.Prefix = v
		}
		return p, nil
	})
	_ = r.Register("file", func(cfg map[string]any) (Provider, error) {
		p := &FileProvider{}
		if v, ok := cfg["root"].(string); ok {
			p.Root = v
		}
		return p, nil
	})
	return r
}

// Register adds a provider factory.
func (r *Registry) Register(name string, factory ProviderFactory) error {
	name = strings.TrimSpace(name)
	if name == "" || factory == nil {
		return ErrInvalidRegistration
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("secret provider %q already registered", name)
	}
	r.providers[name] = factory
	return nil
}

// Create instantiates a provider by name.
func (r *Registry) Create(name string, cfg map[string]any) (Provider, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: provider name is required", ErrProviderNotRegistered)
	}

	r.mu.RLock()
	factory, ok := r.providers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotRegistered, name)
	}

	return factory(cfg)
}

// List returns registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
