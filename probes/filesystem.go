package probes

import (
	"context"
	"fmt"

	"github.com/jonwraymond/probekit/health"
)

// Filesystem checks that every configured path exists and is readable and
// writable. With no paths configured it reports skipped.
type Filesystem struct {
	name    string
	paths   []string
	checker AccessChecker
}

var _ health.Probe = (*Filesystem)(nil)

// NewFilesystem creates a filesystem probe. A nil checker uses the
// platform's access check.
func NewFilesystem(name string, paths []string, checker AccessChecker) *Filesystem {
	if name == "" {
		name = "filesystem"
	}
	if checker == nil {
		checker = defaultAccessChecker()
	}
	return &Filesystem{
		name:    name,
		paths:   append([]string(nil), paths...),
		checker: checker,
	}
}

// Name returns the probe name.
func (f *Filesystem) Name() string {
	return f.name
}

// Check inspects each path. Missing or inaccessible paths are listed in
// "issues" and make the probe unhealthy.
func (f *Filesystem) Check(ctx context.Context) health.Outcome {
	if len(f.paths) == 0 {
		return health.Skipped("no critical paths configured")
	}

	issues := []string{}
	paths := make(map[string]PathAccess, len(f.paths))

	for _, p := range f.paths {
		if err := ctx.Err(); err != nil {
			return health.Errored(err)
		}

		access := f.checker.Access(p)
		paths[p] = access

		if !access.Exists {
			issues = append(issues, fmt.Sprintf("Path does not exist: %s", p))
			continue
		}
		if !access.Readable {
			issues = append(issues, fmt.Sprintf("Path not readable: %s", p))
		}
		if !access.Writable {
			issues = append(issues, fmt.Sprintf("Path not writable: %s", p))
		}
	}

	details := map[string]any{
		"paths":  paths,
		"issues": issues,
	}
	if len(issues) > 0 {
		return health.Unhealthy(details)
	}
	return health.Healthy(details)
}
