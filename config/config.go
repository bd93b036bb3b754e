// Package config loads the probekit configuration.
//
// Precedence, lowest to highest: Default, YAML file, PROBEKIT_* environment
// variables, explicitly set command-line flags. The resulting *Config is
// built once by the caller and passed to the engine; nothing downstream
// reads the environment.
package config

import "time"

// Config is the complete probekit configuration.
type Config struct {
	// Host and Port locate the service's own health endpoint for the
	// liveness probe.
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	LivenessPath   string `yaml:"liveness_path"`
	ExpectedStatus int    `yaml:"expected_status"`

	// ProbeTimeout is the per-probe timeout.
	// Default: 10s
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// RunTimeout bounds a whole run.
	// Default: 0 (none)
	RunTimeout time.Duration `yaml:"run_timeout"`

	MaxMemoryPercent  float64       `yaml:"max_memory_percent"`
	MaxCPUPercent     float64       `yaml:"max_cpu_percent"`
	MaxDiskPercent    float64       `yaml:"max_disk_percent"`
	DiskMountPoint    string        `yaml:"disk_mount_point"`
	CPUSampleInterval time.Duration `yaml:"cpu_sample_interval"`

	// BlockingWorkers bounds concurrently running blocking probes.
	// Default: 0 (runtime.NumCPU())
	BlockingWorkers int `yaml:"blocking_workers"`

	Dependencies  []Dependency `yaml:"dependencies"`
	CriticalPaths []string     `yaml:"critical_paths"`

	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Server    ServerConfig    `yaml:"server"`
	Secrets   SecretsConfig   `yaml:"secrets"`
}

// Dependency is one optional external dependency. An empty address makes
// its probe report skipped.
type Dependency struct {
	Name    string        `yaml:"name"`
	Address string        `yaml:"address"`
	Timeout time.Duration `yaml:"timeout"`

	// Critical defaults to true when omitted.
	Critical *bool `yaml:"critical"`
}

// IsCritical reports whether the dependency escalates the overall status.
func (d Dependency) IsCritical() bool {
	return d.Critical == nil || *d.Critical
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is json or console.
	Format string `yaml:"format"`

	// File, when set, writes logs to a rotated file instead of stderr.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// TelemetryConfig configures tracing and metrics export.
type TelemetryConfig struct {
	ServiceName string        `yaml:"service_name"`
	Tracing     TracingConfig `yaml:"tracing"`
	Metrics     MetricsConfig `yaml:"metrics"`
}

// TracingConfig configures span export.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Exporter is one of stdout, otlp, none.
	Exporter string `yaml:"exporter"`

	// SamplePct is the percentage of runs traced.
	SamplePct float64 `yaml:"sample_pct"`
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Exporter is one of prometheus, stdout, otlp, none.
	Exporter string `yaml:"exporter"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`

	// ReportTTL reuses the last report for this long.
	// Default: 0 (every request runs the probes, concurrent requests share a run)
	ReportTTL time.Duration `yaml:"report_ttl"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
	Auth      AuthConfig      `yaml:"auth"`
}

// RateLimitConfig configures request rate limiting. RPS 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`

	// MaxWait queues a request for up to this long before answering 429.
	// Default: 0 (reject at once)
	MaxWait time.Duration `yaml:"max_wait"`
}

// CORSConfig configures cross-origin access to the report endpoints.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// AuthConfig protects the detailed report endpoints. With neither a JWT
// secret nor API keys they stay open.
type AuthConfig struct {
	JWTSecret string   `yaml:"jwt_secret"`
	JWTIssuer string   `yaml:"jwt_issuer"`
	APIKeys   []string `yaml:"api_keys"`

	// RequiredRole, when set, admits only JWT callers whose "roles" claim
	// contains it. API keys carry no roles.
	RequiredRole string `yaml:"required_role"`
}

// Enabled reports whether any authenticator is configured.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != "" || len(a.APIKeys) > 0
}

// SecretsConfig configures secretref resolution.
type SecretsConfig struct {
	// Strict makes unset ${VAR} references a load error.
	// Default: false (unset variables expand to "", so the dependency skips)
	Strict bool `yaml:"strict"`

	// FileRoot confines secretref:file: references.
	FileRoot string `yaml:"file_root"`

	// EnvPrefix is prepended to secretref:env: names.
	EnvPrefix string `yaml:"env_prefix"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Host:              "localhost",
		Port:              8080,
		LivenessPath:      "/health",
		ExpectedStatus:    200,
		ProbeTimeout:      10 * time.Second,
		MaxMemoryPercent:  90,
		MaxCPUPercent:     95,
		MaxDiskPercent:    0,
		DiskMountPoint:    "/",
		CPUSampleInterval: time.Second,
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "probekit",
			Tracing: TracingConfig{
				Exporter:  "none",
				SamplePct: 100,
			},
			Metrics: MetricsConfig{
				Enabled:  true,
				Exporter: "prometheus",
			},
		},
		Server: ServerConfig{
			Addr:            ":8081",
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Burst: 10,
			},
		},
	}
}
