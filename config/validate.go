package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	logLevels       = []string{"debug", "info", "warn", "error"}
	logFormats      = []string{"json", "console"}
	traceExporters  = []string{"stdout", "otlp", "none"}
	metricExporters = []string{"prometheus", "stdout", "otlp", "none"}
)

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Port < 0 || c.Port > 65535 {
		fail("port %d out of range", c.Port)
	}
	if c.LivenessPath != "" && !strings.HasPrefix(c.LivenessPath, "/") {
		fail("liveness_path %q must start with /", c.LivenessPath)
	}
	if c.ExpectedStatus < 100 || c.ExpectedStatus > 599 {
		fail("expected_status %d is not an HTTP status", c.ExpectedStatus)
	}
	if c.ProbeTimeout < 0 {
		fail("probe_timeout must not be negative")
	}
	if c.RunTimeout < 0 {
		fail("run_timeout must not be negative")
	}
	for name, v := range map[string]float64{
		"max_memory_percent": c.MaxMemoryPercent,
		"max_cpu_percent":    c.MaxCPUPercent,
		"max_disk_percent":   c.MaxDiskPercent,
	} {
		if v > 100 {
			fail("%s %.1f exceeds 100", name, v)
		}
	}
	if c.CPUSampleInterval < 0 {
		fail("cpu_sample_interval must not be negative")
	}
	if c.BlockingWorkers < 0 {
		fail("blocking_workers must not be negative")
	}

	seen := make(map[string]bool, len(c.Dependencies))
	for i, d := range c.Dependencies {
		name := strings.TrimSpace(d.Name)
		switch {
		case name == "":
			fail("dependencies[%d]: empty name", i)
		case seen[name]:
			fail("dependencies[%d]: duplicate name %q", i, name)
		}
		seen[name] = true
		if d.Timeout < 0 {
			fail("dependencies[%d]: timeout must not be negative", i)
		}
	}

	if !slices.Contains(logLevels, c.Logging.Level) {
		fail("logging.level %q: want one of %s", c.Logging.Level, strings.Join(logLevels, ", "))
	}
	if !slices.Contains(logFormats, c.Logging.Format) {
		fail("logging.format %q: want one of %s", c.Logging.Format, strings.Join(logFormats, ", "))
	}
	if c.Telemetry.Tracing.Enabled && !slices.Contains(traceExporters, c.Telemetry.Tracing.Exporter) {
		fail("telemetry.tracing.exporter %q: want one of %s", c.Telemetry.Tracing.Exporter, strings.Join(traceExporters, ", "))
	}
	if c.Telemetry.Tracing.SamplePct < 0 || c.Telemetry.Tracing.SamplePct > 100 {
		fail("telemetry.tracing.sample_pct %.1f out of range", c.Telemetry.Tracing.SamplePct)
	}
	if c.Telemetry.Metrics.Enabled && !slices.Contains(metricExporters, c.Telemetry.Metrics.Exporter) {
		fail("telemetry.metrics.exporter %q: want one of %s", c.Telemetry.Metrics.Exporter, strings.Join(metricExporters, ", "))
	}

	if c.Server.ReportTTL < 0 {
		fail("server.report_ttl must not be negative")
	}
	if c.Server.RateLimit.RPS < 0 {
		fail("server.rate_limit.rps must not be negative")
	}
	if c.Server.Auth.RequiredRole != "" && !c.Server.Auth.Enabled() {
		fail("server.auth.required_role needs jwt_secret or api_keys")
	}
	if c.Server.RateLimit.MaxWait < 0 {
		fail("server.rate_limit.max_wait must not be negative")
	}
	if c.Server.RateLimit.RPS > 0 && c.Server.RateLimit.Burst < 1 {
		fail("server.rate_limit.burst must be at least 1")
	}

	if len(errs) == 0 {
		return nil
	}
	slices.SortFunc(errs, func(a, b error) int { return strings.Compare(a.Error(), b.Error()) })
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
