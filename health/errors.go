package health

import "errors"

var (
	// ErrInvalidProbe indicates a probe without a name or body.
	ErrInvalidProbe = errors.New("health: invalid probe")

	// ErrDuplicateProbe indicates a probe name was registered twice.
	ErrDuplicateProbe = errors.New("health: duplicate probe name")

	// ErrProbeNotFound indicates a probe was not found.
	ErrProbeNotFound = errors.New("health: probe not found")

	// ErrProbeTimeout indicates a probe exceeded its deadline.
	ErrProbeTimeout = errors.New("timeout")

	// ErrProbeCanceled indicates the run was canceled before the probe settled.
	ErrProbeCanceled = errors.New("canceled")

	// ErrProbePanic indicates a probe body panicked.
	ErrProbePanic = errors.New("panic")

	// ErrEngineFailure indicates the engine itself failed to produce a report.
	ErrEngineFailure = errors.New("health: engine failure")
)
