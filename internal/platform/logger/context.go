package logger

import (
	"context"
	"log/slog"
)

// contextKey is a private type for context keys defined in this package.
// Using a dedicated type prevents collisions with keys from other packages.
type contextKey int

// loggerKey is the context key under which a request-scoped logger is stored.
const loggerKey contextKey = iota

// WithLogger returns a new context with the provided logger attached.
// Handlers and middleware use this to propagate a request-scoped logger
// (typically enriched with a trace ID) down the call chain.
//
// It panics if logger is nil, since storing a nil logger would turn every
// downstream FromContext call into a latent nil dereference.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		panic("logger: WithLogger called with nil logger")
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in the context, or the process
// default logger when the context carries none. The result is always safe
// to use.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// FromContextOrDefault returns the logger stored in the context, or the
// provided default when the context is nil or carries no logger. Components
// holding their own base logger use this so context enrichment is additive
// rather than mandatory.
func FromContextOrDefault(ctx context.Context, def *slog.Logger) *slog.Logger {
	if ctx == nil {
		return def
	}
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return def
}
