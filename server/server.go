package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jonwraymond/probekit/auth"
	"github.com/jonwraymond/probekit/health"
	"github.com/jonwraymond/probekit/observe"
	"github.com/jonwraymond/probekit/resilience"
)

const (
	defaultAddr            = ":8081"
	defaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 5 * time.Second
)

// ErrNoEngine is returned by requests served before an engine is set.
var ErrNoEngine = errors.New("server: no engine configured")

// Engine is what the routes need from a health engine: full runs and
// single-probe runs. *health.Engine satisfies it directly; callers usually
// pair a cache.ReportCache for Run with the engine for RunProbe.
type Engine interface {
	health.Runner
	health.ProbeRunner
}

// Split combines a runner and a probe runner into an Engine.
func Split(runner health.Runner, probes health.ProbeRunner) Engine {
	return split{Runner: runner, ProbeRunner: probes}
}

type split struct {
	health.Runner
	health.ProbeRunner
}

// Options configures a Server.
type Options struct {
	// Addr is the listen address.
	// Default: ":8081"
	Addr string

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds
	ShutdownTimeout time.Duration

	// RateLimiter throttles the routes that run probes. Nil disables it.
	RateLimiter *resilience.RateLimiter

	// AllowedOrigins enables CORS for these origins. Empty disables it.
	AllowedOrigins []string

	// Authenticator protects /health and /health/{probe}. Nil leaves them open.
	Authenticator auth.Authenticator

	// RequiredRole further restricts authenticated callers to this role.
	// Ignored without an Authenticator.
	RequiredRole string

	// Metrics serves /metrics when set.
	Metrics http.Handler

	// Logger receives request and lifecycle logs.
	// Default: no-op
	Logger observe.Logger
}

// Server serves the health routes for whichever engine is current.
type Server struct {
	opts    Options
	engine  atomic.Pointer[Engine]
	handler http.Handler
}

// New creates a server over engine. A nil engine is allowed; requests then
// fail with ErrNoEngine until SetEngine is called.
func New(engine Engine, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = defaultAddr
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if opts.Logger == nil {
		opts.Logger = observe.NewNopLogger()
	}

	s := &Server{opts: opts}
	if engine != nil {
		s.SetEngine(engine)
	}
	s.handler = s.routes()
	return s
}

// SetEngine atomically replaces the engine used by subsequent requests.
func (s *Server) SetEngine(engine Engine) {
	if engine == nil {
		s.engine.Store(nil)
		return
	}
	s.engine.Store(&engine)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.opts.Addr
}

// Run runs the current engine.
func (s *Server) Run(ctx context.Context) (health.Report, error) {
	e := s.engine.Load()
	if e == nil {
		return health.Report{}, ErrNoEngine
	}
	return (*e).Run(ctx)
}

// RunProbe runs one probe on the current engine.
func (s *Server) RunProbe(ctx context.Context, name string) (health.Outcome, error) {
	e := s.engine.Load()
	if e == nil {
		return health.Outcome{}, ErrNoEngine
	}
	return (*e).RunProbe(ctx, name)
}

var _ Engine = (*Server)(nil)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.opts.Logger))
	r.Use(middleware.Recoverer)
	if len(s.opts.AllowedOrigins) > 0 {
		r.Use(corsHandler(s.opts.AllowedOrigins))
	}

	r.Get("/healthz", health.LivenessHandler())
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(rateLimit(s.opts.RateLimiter))
		r.Get("/readyz", health.ReadinessHandler(s))

		r.Group(func(r chi.Router) {
			if s.opts.Authenticator != nil {
				r.Use(auth.Middleware(s.opts.Authenticator))
				r.Use(auth.RequireRole(s.opts.RequiredRole))
			}
			r.Get("/health", health.DetailedHandler(s))
			r.Get("/health/{probe}", health.SingleProbeHandler(s, func(r *http.Request) string {
				return chi.URLParam(r, "probe")
			}))
		})
	})

	return r
}

// ListenAndServe listens on the configured address and serves until ctx is
// done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done. It returns nil after a clean
// shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.opts.Logger.Info(ctx, "server listening", observe.Field{Key: "addr", Value: ln.Addr().String()})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()

	s.opts.Logger.Info(shutdownCtx, "server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
