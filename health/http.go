package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Runner produces a report per call. *Engine implements it, as do caching
// wrappers around it.
type Runner interface {
	Run(ctx context.Context) (Report, error)
}

// ProbeRunner runs a single probe by name.
type ProbeRunner interface {
	RunProbe(ctx context.Context, name string) (Outcome, error)
}

var (
	_ Runner      = (*Engine)(nil)
	_ ProbeRunner = (*Engine)(nil)
)

// LivenessHandler returns an HTTP handler for liveness probes.
// It only reports that the process is serving requests.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler returns an HTTP handler for readiness probes.
// It runs every probe and answers OK/200 or UNHEALTHY/503. The body stays
// plain text for orchestrators, so an engine failure is also UNHEALTHY;
// wrap runner with observe.InstrumentedRunner to have the cause logged.
func ReadinessHandler(runner Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := runner.Run(r.Context())

		w.Header().Set("Content-Type", "text/plain")
		if err != nil || !report.Healthy() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("UNHEALTHY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// DetailedHandler returns an HTTP handler that writes the full JSON report.
// An engine failure yields the minimal error document.
func DetailedHandler(runner Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := runner.Run(r.Context())
		if err != nil {
			WriteJSON(w, http.StatusServiceUnavailable, NewErrorDocument(err, time.Now()))
			return
		}
		WriteJSON(w, report.HTTPStatus(), report)
	}
}

// SingleProbeHandler returns an HTTP handler for checking one probe. name
// extracts the probe name from the request (a path parameter, typically).
func SingleProbeHandler(runner ProbeRunner, name func(*http.Request) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		probe := name(r)
		outcome, err := runner.RunProbe(r.Context(), probe)
		if err != nil {
			status := http.StatusServiceUnavailable
			if errors.Is(err, ErrProbeNotFound) {
				status = http.StatusNotFound
			}
			WriteJSON(w, status, map[string]string{"error": err.Error()})
			return
		}

		doc := CheckDocument(outcome)
		doc["name"] = probe

		status := http.StatusOK
		if outcome.Status.Failing() {
			status = http.StatusServiceUnavailable
		}
		WriteJSON(w, status, doc)
	}
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
