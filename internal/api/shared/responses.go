package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/halcyard/authgw/internal/redact"
)

// Response is the uniform envelope returned by every API endpoint, success
// and failure alike. Optional fields are omitted rather than serialized as
// zero values so each endpoint's documented shape stays stable.
type Response struct {
	Success bool `json:"success"`

	// NeedsVerification reports whether the account still has to confirm
	// its email address. A pointer so endpoints that never speak about
	// verification omit the field entirely.
	NeedsVerification *bool `json:"needsVerification,omitempty"`

	User *UserPayload `json:"user,omitempty"`

	// Token is the provider-issued access token, present only when the
	// operation produced a session.
	Token string `json:"token,omitempty"`

	Message string `json:"message,omitempty"`
}

// UserPayload is the client-facing projection of a provider user.
type UserPayload struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	EmailConfirmed bool   `json:"emailConfirmed"`
}

// ResponseOption defines a function to customize error response behavior.
type ResponseOption func(*responseOptions)

// responseOptions holds configurable options for error responses.
type responseOptions struct {
	elevateLogLevel   bool
	needsVerification bool
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to
// WARN level instead of the default DEBUG level. Use for client errors that
// deserve operator attention, like repeated delegation failures.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// WithNeedsVerification returns a ResponseOption that marks the failure
// envelope with needsVerification:true. Login uses it when the provider
// refuses an account whose email address is unconfirmed.
func WithNeedsVerification() ResponseOption {
	return func(opts *responseOptions) {
		opts.needsVerification = true
	}
}

// failureEnvelope builds the envelope for an error response.
func failureEnvelope(message string, needsVerification bool) Response {
	resp := Response{
		Success: false,
		Message: message,
	}
	if needsVerification {
		needs := true
		resp.NeedsVerification = &needs
	}
	return resp
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes the failure envelope with the given status code
// and message. The message is sent to the client verbatim, so callers pass
// only wording that is safe to expose.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	// Get trace ID from context if available
	traceID := GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, failureEnvelope(message, false))
}

// RespondWithErrorAndLog writes the failure envelope and also logs the
// underlying error. Use it when the full error belongs in the logs but only
// a sanitized message may reach the client.
//
// Log level strategy:
// - 5xx errors: always logged at ERROR level
// - 4xx errors: logged at DEBUG level by default
//
// For 4xx errors that need higher visibility, use the WithElevatedLogLevel()
// option to raise them to WARN level.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	// Get trace ID from context if available
	traceID := GetTraceID(r.Context())

	// Set up common log attributes
	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}

	// The raw error string never reaches the client; it is redacted and
	// logged for operator visibility only.
	if err != nil {
		logAttrs = append(logAttrs, slog.String("error", redact.Error(err)))
		logAttrs = append(logAttrs, slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	} else if responseOpts.elevateLogLevel && status >= http.StatusBadRequest {
		logLevel = slog.LevelWarn
	}

	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, failureEnvelope(userMessage, responseOpts.needsVerification))
}
