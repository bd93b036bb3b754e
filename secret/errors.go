package secret

import "errors"

var (
	// ErrMissingEnv indicates strict expansion found an unset variable.
	ErrMissingEnv = errors.New("secret: missing required environment variables")

	// ErrProviderNotRegistered indicates a reference to an unknown provider.
	ErrProviderNotRegistered = errors.New("secret: provider not registered")

	// ErrEmptySecret indicates a strict resolver received an empty value.
	ErrEmptySecret = errors.New("secret: provider returned empty value")

	// ErrSecretNotFound indicates a provider has no value for a reference.
	ErrSecretNotFound = errors.New("secret: not found")

	// ErrOutsideRoot indicates a file reference that resolves outside the
	// provider's root directory.
	ErrOutsideRoot = errors.New("secret: reference escapes root")

	// ErrInvalidRegistration indicates a provider factory without a name or body.
	ErrInvalidRegistration = errors.New("secret: invalid provider registration")
)
