package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jonwraymond/probekit/auth"
	"github.com/jonwraymond/probekit/cache"
	"github.com/jonwraymond/probekit/config"
	"github.com/jonwraymond/probekit/health"
	"github.com/jonwraymond/probekit/observe"
	"github.com/jonwraymond/probekit/pinger"
	"github.com/jonwraymond/probekit/probes"
	"github.com/jonwraymond/probekit/server"
)

// newObserver builds the telemetry stack from cfg. Logs go to logOut unless
// a log file is configured.
func newObserver(ctx context.Context, cfg *config.Config, logOut io.Writer) (observe.Observer, error) {
	logging := observe.LoggingConfig{
		Enabled:    true,
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}
	if logging.File == "" {
		logging.Writer = logOut
	}

	return observe.NewObserver(ctx, observe.Config{
		ServiceName: cfg.Telemetry.ServiceName,
		Version:     Version,
		Tracing: observe.TracingConfig{
			Enabled:   cfg.Telemetry.Tracing.Enabled,
			Exporter:  cfg.Telemetry.Tracing.Exporter,
			SamplePct: cfg.Telemetry.Tracing.SamplePct / 100,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  cfg.Telemetry.Metrics.Enabled,
			Exporter: cfg.Telemetry.Metrics.Exporter,
		},
		Logging: logging,
	})
}

// resolveSecrets expands secret references in cfg in place.
func resolveSecrets(ctx context.Context, cfg *config.Config, lookup config.LookupFunc) error {
	resolver, err := cfg.NewSecretResolver(lookup)
	if err != nil {
		return err
	}
	defer func() { _ = resolver.Close() }()

	return cfg.Resolve(ctx, resolver)
}

// buildRegistry registers the built-in catalogue in report order:
// liveness, resources, filesystem, then one probe per dependency.
func buildRegistry(cfg *config.Config) (*health.Registry, error) {
	reg := health.NewRegistry(cfg.ProbeTimeout)

	err := reg.Register(probes.NewLiveness(probes.LivenessConfig{
		URL:            probes.LivenessURL(cfg.Host, cfg.Port, cfg.LivenessPath),
		ExpectedStatus: cfg.ExpectedStatus,
	}))
	if err != nil {
		return nil, err
	}

	err = reg.Register(probes.NewResources(probes.ResourceConfig{
		MaxCPUPercent:    cfg.MaxCPUPercent,
		MaxMemoryPercent: cfg.MaxMemoryPercent,
		MaxDiskPercent:   cfg.MaxDiskPercent,
		MountPoint:       cfg.DiskMountPoint,
		CPUInterval:      cfg.CPUSampleInterval,
	}), health.WithBlocking())
	if err != nil {
		return nil, err
	}

	if err := reg.Register(probes.NewFilesystem("", cfg.CriticalPaths, nil), health.WithBlocking()); err != nil {
		return nil, err
	}

	for _, d := range cfg.Dependencies {
		p, err := pinger.New(d.Address)
		if err != nil {
			return nil, fmt.Errorf("%w: dependency %q: %w", config.ErrInvalidConfig, d.Name, err)
		}
		err = reg.Register(probes.NewDependency(d.Name, p),
			health.WithCritical(d.IsCritical()),
			health.WithTimeout(d.Timeout),
		)
		if err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// buildEngine assembles one immutable engine for cfg. Full runs go through
// telemetry and the report cache; single-probe runs hit the engine directly.
// A non-nil gauge is pointed at the new engine's blocking worker pool.
func buildEngine(ctx context.Context, cfg *config.Config, obs observe.Observer, gauge *observe.PoolGauge, lookup config.LookupFunc) (server.Engine, error) {
	if err := resolveSecrets(ctx, cfg, lookup); err != nil {
		return nil, err
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	hook, err := observe.ProbeHookFromObserver(obs)
	if err != nil {
		return nil, err
	}
	executor := health.NewExecutor(
		health.WithBlockingWorkers(cfg.BlockingWorkers),
		health.WithHook(hook),
	)
	engine := health.NewEngine(reg, executor, health.WithRunTimeout(cfg.RunTimeout))

	instrumented, err := observe.NewInstrumentedRunner(engine, obs)
	if err != nil {
		return nil, err
	}
	cached, err := cache.NewReportCache(instrumented, cache.Policy{TTL: cfg.Server.ReportTTL})
	if err != nil {
		return nil, err
	}

	gauge.Track(executor.BlockingStats)
	return server.Split(cached, engine), nil
}

// buildAuthenticator returns nil when no credentials are configured.
func buildAuthenticator(cfg *config.Config) (auth.Authenticator, error) {
	a, err := auth.New(auth.Settings{
		JWTSecret: cfg.Server.Auth.JWTSecret,
		JWTIssuer: cfg.Server.Auth.JWTIssuer,
		APIKeys:   cfg.Server.Auth.APIKeys,
	})
	if errors.Is(err, auth.ErrNoAuthenticators) {
		return nil, nil
	}
	return a, err
}
