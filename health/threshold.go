package health

import (
	"fmt"
	"slices"
	"strings"
)

// Threshold is a ceiling applied to one sampled metric.
type Threshold struct {
	// Metric is the human-readable metric label, e.g. "memory usage".
	Metric string

	// Limit is the ceiling in percent. A non-positive limit disables
	// evaluation; the sample is still reported.
	Limit float64
}

// Evaluate compares value against limit. The status is unhealthy iff value
// exceeds limit, in which case the issue reads "High <metric>: <value>%".
func Evaluate(metric string, value, limit float64) (Status, string) {
	if value > limit {
		return StatusUnhealthy, fmt.Sprintf("High %s: %.1f%%", metric, value)
	}
	return StatusHealthy, ""
}

// Thresholds is the read-only threshold set shared by resource probes.
type Thresholds []Threshold

// Evaluate checks every sampled metric against its threshold. The status is
// unhealthy if any metric violates its limit. Issues are sorted by metric
// label and never nil.
func (ts Thresholds) Evaluate(samples map[string]float64) (Status, []string) {
	status := StatusHealthy
	type violation struct{ metric, issue string }
	var violations []violation

	for _, t := range ts {
		value, ok := samples[t.Metric]
		if !ok || t.Limit <= 0 {
			continue
		}
		if s, issue := Evaluate(t.Metric, value, t.Limit); s == StatusUnhealthy {
			status = StatusUnhealthy
			violations = append(violations, violation{t.Metric, issue})
		}
	}

	slices.SortFunc(violations, func(a, b violation) int {
		return strings.Compare(a.metric, b.metric)
	})

	issues := make([]string, 0, len(violations))
	for _, v := range violations {
		issues = append(issues, v.issue)
	}
	return status, issues
}
