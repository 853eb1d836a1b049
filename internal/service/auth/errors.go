package auth

import "errors"

// Common authentication service errors
var (
	// ErrEmailNotConfirmed indicates the account exists but its email address
	// has not been verified yet
	ErrEmailNotConfirmed = errors.New("email not confirmed")
)

// ProviderError is a failure reported by the identity provider itself, as
// opposed to a failure reaching it. Message carries the provider's original
// wording, which the API layer passes through to clients.
type ProviderError struct {
	// Message is the provider's human-readable error text
	Message string

	// Code is the provider's machine-readable error code, when present
	Code string

	cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return "identity provider rejected the request: " + e.Message
}

// Unwrap exposes the underlying provider client error.
func (e *ProviderError) Unwrap() error {
	return e.cause
}
