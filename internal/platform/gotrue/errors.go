package gotrue

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Error definitions for the gotrue package.
var (
	// ErrInvalidConfig is returned when the client is constructed with
	// missing or malformed provider settings.
	ErrInvalidConfig = errors.New("invalid provider configuration")
)

// APIError is an error response issued by the identity provider itself, as
// opposed to a transport failure reaching it. Status is the provider's HTTP
// status code; Code is the provider's machine-readable error code when one
// was present; Message is the human-readable text.
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider returned %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("provider returned %d: %s", e.Status, e.Message)
}

// apiErrorBody covers the error shapes GoTrue emits across versions:
//
//	{"code": 400, "msg": "..."}                               legacy
//	{"code": "error_code", "error_code": "...", "msg": "..."} current
//	{"error": "invalid_grant", "error_description": "..."}    token endpoint
//	{"message": "..."}                                        assorted
//
// The code field flips between a number and a string between versions, so it
// is captured raw and only used when it decodes as a string.
type apiErrorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	ErrorField       string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

// parseAPIError normalizes a non-2xx provider response into an APIError.
// If the body cannot be interpreted, the raw text is used as the message so
// the caller still sees what the provider sent.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("unexpected provider status %d", status)
		}
		return apiErr
	}

	switch {
	case parsed.Msg != "":
		apiErr.Message = parsed.Msg
	case parsed.Message != "":
		apiErr.Message = parsed.Message
	case parsed.ErrorDescription != "":
		apiErr.Message = parsed.ErrorDescription
	case parsed.ErrorField != "":
		apiErr.Message = parsed.ErrorField
	default:
		apiErr.Message = fmt.Sprintf("unexpected provider status %d", status)
	}

	switch {
	case parsed.ErrorCode != "":
		apiErr.Code = parsed.ErrorCode
	case len(parsed.Code) > 0:
		// Only a string code is meaningful here; the legacy numeric code
		// duplicates the HTTP status.
		var code string
		if err := json.Unmarshal(parsed.Code, &code); err == nil {
			apiErr.Code = code
		}
	case parsed.ErrorField != "" && parsed.ErrorDescription != "":
		apiErr.Code = parsed.ErrorField
	}

	return apiErr
}
