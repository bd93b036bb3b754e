package config

import (
	"context"
	"fmt"

	"github.com/jonwraymond/probekit/secret"
)

// NewSecretResolver builds a resolver with the env and file providers,
// configured from c.Secrets and reading the environment through lookup.
func (c *Config) NewSecretResolver(lookup LookupFunc) (*secret.Resolver, error) {
	reg := secret.NewDefaultRegistry()

	var secretLookup secret.LookupFunc
	if lookup != nil {
		secretLookup = secret.LookupFunc(lookup)
	}

	env, err := reg.Create("env", map[string]any{
		"lookup": secretLookup,
		"prefix": c.Secrets.EnvPrefix,
	})
	if err != nil {
		return nil, err
	}
	file, err := reg.Create("file", map[string]any{"root": c.Secrets.FileRoot})
	if err != nil {
		return nil, err
	}

	return secret.NewResolver(
		secret.WithStrict(c.Secrets.Strict),
		secret.WithLookup(secretLookup),
		secret.WithProviders(env, file),
	), nil
}

// Resolve expands ${VAR} and secretref: references in dependency addresses
// and auth credentials in place.
func (c *Config) Resolve(ctx context.Context, r *secret.Resolver) error {
	for i := range c.Dependencies {
		d := &c.Dependencies[i]
		addr, err := r.ResolveValue(ctx, d.Address)
		if err != nil {
			return fmt.Errorf("%w: dependency %q: %w", ErrInvalidConfig, d.Name, err)
		}
		d.Address = addr
	}

	auth := &c.Server.Auth
	jwtSecret, err := r.ResolveValue(ctx, auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("%w: server.auth.jwt_secret: %w", ErrInvalidConfig, err)
	}
	auth.JWTSecret = jwtSecret

	if len(auth.APIKeys) == 0 {
		return nil
	}
	keys, err := r.ResolveSlice(ctx, auth.APIKeys)
	if err != nil {
		return fmt.Errorf("%w: server.auth.api_keys: %w", ErrInvalidConfig, err)
	}
	auth.APIKeys = keys
	return nil
}
