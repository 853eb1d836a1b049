package api

import (
	"errors"
	"net/http"

	"github.com/halcyard/authgw/internal/service/auth"
)

// Client-facing messages for failures that must not echo internal detail.
const (
	internalErrorMessage    = "Internal server error"
	unconfirmedEmailMessage = "Please verify your email before logging in"
)

// MapErrorToStatusCode maps a delegation error to an HTTP status code.
// Provider rejections take the endpoint's rejection status, since the
// signup-shaped endpoints report them as 400 while login reports 401.
// Anything else is an internal failure.
func MapErrorToStatusCode(err error, rejectionStatus int) int {
	var provErr *auth.ProviderError
	switch {
	case errors.Is(err, auth.ErrEmailNotConfirmed):
		return http.StatusUnauthorized

	case errors.As(err, &provErr):
		return rejectionStatus

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the client-facing message for a delegation
// error. Provider rejection messages pass through verbatim, the way the
// provider's own clients would see them; anything else collapses to the
// generic internal error wording so no internal detail leaks.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return internalErrorMessage
	}

	var provErr *auth.ProviderError
	switch {
	case errors.Is(err, auth.ErrEmailNotConfirmed):
		return unconfirmedEmailMessage

	case errors.As(err, &provErr):
		return provErr.Message

	default:
		return internalErrorMessage
	}
}
