package health

import "slices"

// Summary is the reduction of one run's results.
type Summary struct {
	// Status is StatusUnhealthy iff a critical probe is unhealthy or errored.
	Status Status `json:"-"`

	// Unhealthy lists every probe whose outcome is unhealthy, sorted.
	Unhealthy []string `json:"unhealthy_checks"`

	// Errors lists every probe whose outcome is error, sorted.
	Errors []string `json:"error_checks"`
}

// Aggregate reduces results into an overall status and the two summary
// lists. It is pure: the same input always yields the same Summary.
//
// Non-critical probes are still listed by name but never escalate the
// overall status; skipped probes are ignored entirely.
func Aggregate(results []ProbeResult) Summary {
	s := Summary{
		Status:    StatusHealthy,
		Unhealthy: []string{},
		Errors:    []string{},
	}

	for _, r := range results {
		switch r.Outcome.Status {
		case StatusUnhealthy:
			s.Unhealthy = append(s.Unhealthy, r.Name)
		case StatusError:
			s.Errors = append(s.Errors, r.Name)
		}
		if r.Critical && r.Outcome.Status.Failing() {
			s.Status = StatusUnhealthy
		}
	}

	slices.Sort(s.Unhealthy)
	slices.Sort(s.Errors)
	return s
}
