package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/probekit/auth"
	"github.com/jonwraymond/probekit/cmd/probekit/internal/clierr"
	"github.com/jonwraymond/probekit/config"
	"github.com/jonwraymond/probekit/observe"
	"github.com/jonwraymond/probekit/resilience"
	"github.com/jonwraymond/probekit/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the health endpoints over HTTP",
		Long: `Serve /healthz, /readyz, /health, /health/{probe} and /metrics.

With --watch the configuration file is reloaded on change: probe settings and
dependencies take effect on the next request. Listener, auth, rate limit and
telemetry settings are read once at startup.`,
		Args: cobra.NoArgs,
	}
	flags := config.BindFlags(cmd.Flags())
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the configuration file when it changes")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.LoadWithFlags(flags, lookupEnv)
		if err != nil {
			return clierr.Wrap(clierr.ExitUsage, "", err)
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = addr
		}

		obs, err := newObserver(ctx, cfg, cmd.ErrOrStderr())
		if err != nil {
			return clierr.Wrap(clierr.ExitUsage, "telemetry", err)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryFlushTimeout)
			defer cancel()
			_ = obs.Shutdown(flushCtx)
		}()

		gauge, err := observe.NewPoolGauge(obs.Meter())
		if err != nil {
			return clierr.Wrap(clierr.ExitUsage, "telemetry", err)
		}
		defer func() { _ = gauge.Close() }()

		engine, err := buildEngine(ctx, cfg, obs, gauge, lookupEnv)
		if err != nil {
			return clierr.Wrap(clierr.ExitUsage, "", err)
		}
		authn, err := buildAuthenticator(cfg)
		if err != nil {
			return clierr.Wrap(clierr.ExitUsage, "auth", err)
		}

		srv := server.New(engine, serverOptions(cfg, obs, authn))

		if watch {
			path := config.FilePath(flags.ConfigFile, lookupEnv)
			if path == "" {
				return clierr.New(clierr.ExitUsage, "--watch needs a configuration file (--config or PROBEKIT_CONFIG)")
			}
			go watchConfig(ctx, path, flags, obs, gauge, srv)
		}

		if err := srv.ListenAndServe(ctx); err != nil {
			return clierr.Wrap(clierr.ExitUnhealthy, "serve", err)
		}
		return nil
	}

	return cmd
}

func serverOptions(cfg *config.Config, obs observe.Observer, authn auth.Authenticator) server.Options {
	opts := server.Options{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		Authenticator:   authn,
		RequiredRole:    cfg.Server.Auth.RequiredRole,
		Logger:          obs.Logger(),
	}
	if rl := cfg.Server.RateLimit; rl.RPS > 0 {
		opts.RateLimiter = resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:    rl.RPS,
			Burst:   rl.Burst,
			MaxWait: rl.MaxWait,
		})
	}
	if cfg.Telemetry.Metrics.Enabled && cfg.Telemetry.Metrics.Exporter == "prometheus" {
		opts.Metrics = obs.MetricsHandler()
	}
	return opts
}

// watchConfig rebuilds the engine whenever the file at path changes. A
// reload that fails to load or assemble keeps the current engine.
func watchConfig(ctx context.Context, path string, flags *config.Flags, obs observe.Observer, gauge *observe.PoolGauge, srv *server.Server) {
	logger := obs.Logger().With(observe.Field{Key: "config", Value: path})

	reload := func() {
		cfg, err := config.LoadWithFlags(flags, lookupEnv)
		if err != nil {
			logger.Warn(ctx, "config reload rejected", observe.Field{Key: "error", Value: err.Error()})
			return
		}
		engine, err := buildEngine(ctx, cfg, obs, gauge, lookupEnv)
		if err != nil {
			logger.Warn(ctx, "config reload rejected", observe.Field{Key: "error", Value: err.Error()})
			return
		}
		srv.SetEngine(engine)
		logger.Info(ctx, "config reloaded")
	}

	for {
		err := config.Watch(ctx, path, config.DefaultDebounce, reload)
		if err == nil || ctx.Err() != nil {
			return
		}
		logger.Error(ctx, "config watch failed", observe.Field{Key: "error", Value: err.Error()})

		select {
		case <-ctx.Done():
			return
		case <-time.After(watchRetryDelay):
		}
	}
}

const watchRetryDelay = 5 * time.Second
