package health

import (
	"encoding/json"
	"maps"
	"math"
	"net/http"
	"time"
)

// Report is the structured result of one engine invocation. It is built once
// from a completed Run and is read-only afterward.
type Report struct {
	Status    Status
	Timestamp time.Time
	Duration  time.Duration

	// Checks maps every probe name to its outcome.
	Checks map[string]Outcome

	// Results holds the same outcomes in registration order.
	Results []ProbeResult

	Summary Summary
}

// BuildReport assembles a Report from a completed run. now is the assembly
// time recorded as the report timestamp.
func BuildReport(run Run, now time.Time) Report {
	checks := make(map[string]Outcome, len(run.Results))
	for _, r := range run.Results {
		checks[r.Name] = r.Outcome
	}

	summary := Aggregate(run.Results)
	return Report{
		Status:    summary.Status,
		Timestamp: now,
		Duration:  run.Duration(),
		Checks:    checks,
		Results:   run.Results,
		Summary:   summary,
	}
}

// Healthy reports whether the overall status is healthy.
func (r Report) Healthy() bool {
	return r.Status == StatusHealthy
}

// ExitCode maps the overall status to a process exit code.
func (r Report) ExitCode() int {
	if r.Healthy() {
		return 0
	}
	return 1
}

// HTTPStatus maps the overall status to an HTTP status code.
func (r Report) HTTPStatus() int {
	if r.Healthy() {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

// DurationMillis returns the run duration in milliseconds, rounded to two
// decimal places.
func (r Report) DurationMillis() float64 {
	return millis(r.Duration)
}

type reportJSON struct {
	Status     Status                    `json:"status"`
	Timestamp  float64                   `json:"timestamp"`
	DurationMS float64                   `json:"duration_ms"`
	Checks     map[string]map[string]any `json:"checks"`
	Summary    Summary                   `json:"summary"`
}

// MarshalJSON encodes the report in its wire form.
func (r Report) MarshalJSON() ([]byte, error) {
	checks := make(map[string]map[string]any, len(r.Checks))
	for name, o := range r.Checks {
		checks[name] = CheckDocument(o)
	}
	summary := r.Summary
	if summary.Unhealthy == nil {
		summary.Unhealthy = []string{}
	}
	if summary.Errors == nil {
		summary.Errors = []string{}
	}
	return json.Marshal(reportJSON{
		Status:     r.Status,
		Timestamp:  epochSeconds(r.Timestamp),
		DurationMS: r.DurationMillis(),
		Checks:     checks,
		Summary:    summary,
	})
}

// CheckDocument flattens an outcome into its wire form: the probe-specific
// details next to "status" and "latency_ms".
func CheckDocument(o Outcome) map[string]any {
	doc := make(map[string]any, len(o.Details)+2)
	maps.Copy(doc, o.Details)
	doc["status"] = o.Status.String()
	doc["latency_ms"] = millis(o.Latency)
	return doc
}

// ErrorDocument is emitted instead of a Report when the engine itself fails.
type ErrorDocument struct {
	Error     string
	Timestamp time.Time
}

// NewErrorDocument creates the minimal document for an engine failure.
func NewErrorDocument(err error, now time.Time) ErrorDocument {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ErrorDocument{Error: msg, Timestamp: now}
}

// ExitCode always returns 1.
func (d ErrorDocument) ExitCode() int { return 1 }

// HTTPStatus always returns 503.
func (d ErrorDocument) HTTPStatus() int { return http.StatusServiceUnavailable }

// MarshalJSON encodes the document as {"status":"error","error":...,"timestamp":...}.
func (d ErrorDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Status    string  `json:"status"`
		Error     string  `json:"error"`
		Timestamp float64 `json:"timestamp"`
	}{
		Status:    "error",
		Error:     d.Error,
		Timestamp: epochSeconds(d.Timestamp),
	})
}

func millis(d time.Duration) float64 {
	return math.Round(float64(d)/float64(time.Millisecond)*100) / 100
}

func epochSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}
