package middleware

import (
	"log/slog"
	"net/http"

	"github.com/halcyard/authgw/internal/api/shared"
	"github.com/halcyard/authgw/internal/platform/logger"
)

// TraceMiddleware adds a trace ID to the request context and derives a
// request-scoped logger carrying it. Apply it early in the middleware chain
// so every subsequent handler logs with the trace ID. The ID is echoed in
// the X-Trace-Id response header so clients can quote it when reporting
// problems.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Add a trace ID to the context
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		w.Header().Set("X-Trace-Id", traceID)

		// Make the trace-scoped logger available to downstream handlers
		log := slog.Default().With(slog.String("trace_id", traceID))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
