package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jonwraymond/probekit/health"
	"github.com/jonwraymond/probekit/observe"
	"github.com/jonwraymond/probekit/resilience"
)

// rateLimit answers 429 when limiter cannot admit the request, either at
// once or within its MaxWait. A nil limiter passes everything through.
func rateLimit(limiter *resilience.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := limiter.Take(r.Context()); err != nil {
				w.Header().Set("Retry-After", "1")
				health.WriteJSON(w, http.StatusTooManyRequests, map[string]string{
					"error": resilience.ErrRateLimitExceeded.Error(),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	})
}

// requestLogger echoes the chi request id in the response and logs one
// debug entry per request.
func requestLogger(logger observe.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := middleware.GetReqID(r.Context())
			if reqID != "" {
				w.Header().Set(middleware.RequestIDHeader, reqID)
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Debug(r.Context(), "http request",
				observe.Field{Key: "request_id", Value: reqID},
				observe.Field{Key: "method", Value: r.Method},
				observe.Field{Key: "path", Value: r.URL.Path},
				observe.Field{Key: "status", Value: ww.Status()},
				observe.Field{Key: "duration_ms", Value: float64(time.Since(start).Microseconds()) / 1000},
			)
		})
	}
}
