package health

import "fmt"

// Status represents the outcome category of a probe or of a whole run.
type Status int

const (
	// StatusHealthy indicates the probe found its subsystem working.
	StatusHealthy Status = iota
	// StatusUnhealthy indicates the subsystem failed its check.
	StatusUnhealthy
	// StatusSkipped indicates the probe's precondition was not configured.
	// Skipped outcomes never influence the overall status.
	StatusSkipped
	// StatusError indicates the check itself broke (panic, timeout, local fault).
	StatusError
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusUnhealthy:
		return "unhealthy"
	case StatusSkipped:
		return "skipped"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Failing reports whether the status escalates a critical probe's run.
func (s Status) Failing() bool {
	return s == StatusUnhealthy || s == StatusError
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "healthy":
		*s = StatusHealthy
	case "unhealthy":
		*s = StatusUnhealthy
	case "skipped":
		*s = StatusSkipped
	case "error":
		*s = StatusError
	default:
		return fmt.Errorf("health: unknown status %q", text)
	}
	return nil
}
