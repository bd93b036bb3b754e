// Package clierr carries process exit codes through cobra's error return.
package clierr

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	// ExitUnhealthy is returned when the report is unhealthy or the engine
	// could not produce one.
	ExitUnhealthy = 1

	// ExitUsage is returned for invalid configuration or arguments.
	ExitUsage = 2
)

// ExitCoder is an error that knows its process exit code.
type ExitCoder interface {
	error
	ExitCode() int
}

// ExitError is an error that carries an explicit process exit code.
// An empty message with no cause is silent: main prints nothing.
type ExitError struct {
	code  int
	msg   string
	cause error
}

func (e *ExitError) Error() string {
	switch {
	case e.cause == nil:
		return e.msg
	case e.msg == "":
		return e.cause.Error()
	default:
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int { return e.code }

// Unwrap returns the underlying cause.
func (e *ExitError) Unwrap() error { return e.cause }

// New creates an ExitError with a message.
func New(code int, msg string) error {
	return &ExitError{code: normalize(code), msg: msg}
}

// Silent creates an ExitError that prints nothing. The command has already
// written its output.
func Silent(code int) error {
	return &ExitError{code: normalize(code)}
}

// Wrap creates an ExitError that wraps an underlying cause.
func Wrap(code int, msg string, cause error) error {
	if cause == nil {
		return New(code, msg)
	}
	return &ExitError{code: normalize(code), msg: msg, cause: cause}
}

// ExitCodeOf extracts an exit code from any error, defaulting to 1.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}

// exit code 0 means success; errors never carry it.
func normalize(code int) int {
	if code <= 0 {
		return 1
	}
	return code
}
