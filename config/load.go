package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every recognised environment variable.
const EnvPrefix = "PROBEKIT_"

// LookupFunc returns an environment variable and whether it is set.
type LookupFunc func(key string) (string, bool)

// ErrInvalidConfig wraps every load and validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Load builds a configuration from defaults, the YAML file at path and the
// environment read through lookup. An empty path falls back to
// PROBEKIT_CONFIG; a nil lookup skips the environment. The result is
// validated.
func Load(path string, lookup LookupFunc) (*Config, error) {
	return load(path, lookup, nil)
}

// FilePath returns path, or PROBEKIT_CONFIG when path is empty.
func FilePath(path string, lookup LookupFunc) string {
	if path == "" && lookup != nil {
		path, _ = lookup(EnvPrefix + "CONFIG")
	}
	return path
}

func load(path string, lookup LookupFunc, flags *Flags) (*Config, error) {
	cfg := Default()

	if path = FilePath(path, lookup); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if lookup != nil {
		if err := applyEnv(cfg, lookup); err != nil {
			return nil, err
		}
	}

	if err := flags.Apply(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes the file over cfg so that omitted keys keep their
// defaults. Unknown keys are rejected.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

type envBinding struct {
	key   string
	apply func(cfg *Config, val string) error
}

var envBindings = []envBinding{
	{"HOST", func(c *Config, v string) error { c.Host = v; return nil }},
	{"PORT", intVar(func(c *Config) *int { return &c.Port })},
	{"LIVENESS_PATH", func(c *Config, v string) error { c.LivenessPath = v; return nil }},
	{"EXPECTED_STATUS", intVar(func(c *Config) *int { return &c.ExpectedStatus })},
	{"PROBE_TIMEOUT", durationVar(func(c *Config) *time.Duration { return &c.ProbeTimeout })},
	{"RUN_TIMEOUT", durationVar(func(c *Config) *time.Duration { return &c.RunTimeout })},
	{"MAX_MEMORY_PERCENT", floatVar(func(c *Config) *float64 { return &c.MaxMemoryPercent })},
	{"MAX_CPU_PERCENT", floatVar(func(c *Config) *float64 { return &c.MaxCPUPercent })},
	{"MAX_DISK_PERCENT", floatVar(func(c *Config) *float64 { return &c.MaxDiskPercent })},
	{"DISK_MOUNT_POINT", func(c *Config, v string) error { c.DiskMountPoint = v; return nil }},
	{"CPU_SAMPLE_INTERVAL", durationVar(func(c *Config) *time.Duration { return &c.CPUSampleInterval })},
	{"BLOCKING_WORKERS", intVar(func(c *Config) *int { return &c.BlockingWorkers })},
	{"CRITICAL_PATHS", func(c *Config, v string) error { c.CriticalPaths = splitList(v); return nil }},
	{"DEPENDENCIES", func(c *Config, v string) error {
		deps, err := ParseDependencies(splitList(v))
		if err != nil {
			return err
		}
		c.Dependencies = deps
		return nil
	}},
	{"LOG_LEVEL", func(c *Config, v string) error { c.Logging.Level = v; return nil }},
	{"LOG_FORMAT", func(c *Config, v string) error { c.Logging.Format = v; return nil }},
	{"LOG_FILE", func(c *Config, v string) error { c.Logging.File = v; return nil }},
	{"SERVER_ADDR", func(c *Config, v string) error { c.Server.Addr = v; return nil }},
	{"REPORT_TTL", durationVar(func(c *Config) *time.Duration { return &c.Server.ReportTTL })},
	{"JWT_SECRET", func(c *Config, v string) error { c.Server.Auth.JWTSecret = v; return nil }},
	{"API_KEYS", func(c *Config, v string) error { c.Server.Auth.APIKeys = splitList(v); return nil }},
	{"TRACING_EXPORTER", func(c *Config, v string) error {
		c.Telemetry.Tracing.Exporter = v
		c.Telemetry.Tracing.Enabled = v != "none"
		return nil
	}},
	{"METRICS_EXPORTER", func(c *Config, v string) error {
		c.Telemetry.Metrics.Exporter = v
		c.Telemetry.Metrics.Enabled = v != "none"
		return nil
	}},
}

func applyEnv(cfg *Config, lookup LookupFunc) error {
	for _, b := range envBindings {
		val, ok := lookup(EnvPrefix + b.key)
		if !ok || val == "" {
			continue
		}
		if err := b.apply(cfg, val); err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, EnvPrefix, b.key, err)
		}
	}

	for i := range cfg.Dependencies {
		if val, ok := lookup(DependencyEnvKey(cfg.Dependencies[i].Name)); ok && val != "" {
			cfg.Dependencies[i].Address = val
		}
	}
	return nil
}

// DependencyEnvKey returns the environment variable that overrides the
// address of the dependency called name: PROBEKIT_DEPENDENCY_ followed by
// the name in SCREAMING_SNAKE_CASE, so "primary-db" reads
// PROBEKIT_DEPENDENCY_PRIMARY_DB. The probe keeps the configured name.
func DependencyEnvKey(name string) string {
	return EnvPrefix + "DEPENDENCY_" + strcase.ToScreamingSnake(strings.TrimSpace(name))
}

func intVar(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func floatVar(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}

func durationVar(field func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ParseDependencies parses "name=address" pairs. A bare address is named
// after its URL scheme. An empty address is kept: the dependency reports
// skipped.
func ParseDependencies(pairs []string) ([]Dependency, error) {
	deps := make([]Dependency, 0, len(pairs))
	for _, pair := range pairs {
		name, address, found := strings.Cut(pair, "=")
		if !found {
			address = pair
			u, err := url.Parse(address)
			if err != nil || u.Scheme == "" {
				return nil, fmt.Errorf("dependency %q: want name=address", pair)
			}
			name = u.Scheme
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("dependency %q: empty name", pair)
		}
		deps = append(deps, Dependency{Name: name, Address: strings.TrimSpace(address)})
	}
	return deps, nil
}
