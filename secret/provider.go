package secret

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider resolves secrets by reference string.
//
// Implementations must be safe for concurrent use and must not log secret values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
	Close() error
}

// EnvProvider resolves secretref:env:NAME from environment variables.
type EnvProvider struct {
	// Lookup reads variables. Nil reads nothing.
	Lookup LookupFunc

	// Prefix is prepended to every reference, e.g. "PROBEKIT_SECRET_".
	Prefix string
}

var _ Provider = (*EnvProvider)(nil)

// Name returns "env".
func (p *EnvProvider) Name() string { return "env" }

// Resolve returns the variable's value.
func (p *EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	key := p.Prefix + ref
	if p.Lookup != nil {
		if v, ok := p.Lookup(key); ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: env %s", ErrSecretNotFound, key)
}

// Close is a no-op.
func (p *EnvProvider) Close() error { return nil }

// FileProvider resolves secretref:file:PATH from mounted secret files.
// A single trailing newline is trimmed.
type FileProvider struct {
	// Root, when set, confines relative and absolute references to a
	// directory such as /run/secrets. Symlinks are followed and must stay
	// inside Root.
	Root string
}

var _ Provider = (*FileProvider)(nil)

// Name returns "file".
func (p *FileProvider) Name() string { return "file" }

// Resolve reads the referenced file.
func (p *FileProvider) Resolve(_ context.Context, ref string) (string, error) {
	path := ref
	if p.Root != "" {
		rel := strings.TrimPrefix(filepath.Clean("/"+ref), "/")
		confined, err := p.confine(filepath.Join(p.Root, rel))
		if err != nil {
			return "", err
		}
		path = confined
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: file %s", ErrSecretNotFound, path)
		}
		return "", fmt.Errorf("secret: read %s: %w", path, err)
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

// confine resolves symlinks in path and checks the target is still under Root.
func (p *FileProvider) confine(path string) (string, error) {
	root, err := filepath.EvalSymlinks(p.Root)
	if err != nil {
		return "", fmt.Errorf("secret: resolve root %s: %w", p.Root, err)
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: file %s", ErrSecretNotFound, path)
		}
		return "", fmt.Errorf("secret: resolve %s: %w", path, err)
	}
	if resolved != root && !strings.HasPrefix(resolved, root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: file %s", ErrOutsideRoot, path)
	}
	return resolved, nil
}

// Close is a no-op.
func (p *FileProvider) Close() error { return nil }
