package health

import (
	"maps"
	"time"
)

// Outcome is the result of running one probe once.
type Outcome struct {
	// Status is the outcome category.
	Status Status

	// Details contains probe-specific scalar fields for the report.
	Details map[string]any

	// Latency is how long the probe took to settle.
	Latency time.Duration

	// Err is the fault behind an error outcome, if any.
	Err error
}

// Healthy creates a healthy outcome.
func Healthy(details map[string]any) Outcome {
	return Outcome{Status: StatusHealthy, Details: copyDetails(details)}
}

// Unhealthy creates an unhealthy outcome.
func Unhealthy(details map[string]any) Outcome {
	return Outcome{Status: StatusUnhealthy, Details: copyDetails(details)}
}

// Skipped creates a skipped outcome carrying the reason.
func Skipped(reason string) Outcome {
	return Outcome{
		Status:  StatusSkipped,
		Details: map[string]any{"reason": reason},
	}
}

// Errored creates an error outcome. The error message is always exposed
// under the "error" detail key.
func Errored(err error) Outcome {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Outcome{
		Status:  StatusError,
		Details: map[string]any{"error": msg},
		Err:     err,
	}
}

// WithDetail returns a copy of the outcome with key set to value.
func (o Outcome) WithDetail(key string, value any) Outcome {
	o.Details = copyDetails(o.Details)
	o.Details[key] = value
	return o
}

// WithLatency returns a copy of the outcome with the latency set.
func (o Outcome) WithLatency(d time.Duration) Outcome {
	o.Latency = d
	return o
}

// Detail returns the detail stored under key.
func (o Outcome) Detail(key string) (any, bool) {
	v, ok := o.Details[key]
	return v, ok
}

func copyDetails(details map[string]any) map[string]any {
	out := make(map[string]any, len(details)+1)
	maps.Copy(out, details)
	return out
}
