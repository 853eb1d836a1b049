package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/halcyard/authgw/internal/api/shared"
	"github.com/halcyard/authgw/internal/platform/logger"
	"github.com/halcyard/authgw/internal/redact"
)

// internalErrorMessage is the only wording a client ever sees for an
// unhandled failure.
const internalErrorMessage = "Internal server error"

// RecoveryMiddleware contains panics raised while handling a request. The
// client always receives the generic JSON failure envelope with status 500;
// the panic value and stack are logged, redacted, for operator visibility.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// net/http uses this sentinel to abort a handler; let it
			// propagate so the connection is torn down as intended.
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			log := logger.FromContext(r.Context())
			log.Error("panic recovered while handling request",
				"panic", redact.String(fmt.Sprintf("%v", rec)),
				"stack", redact.String(string(debug.Stack())),
				"method", r.Method,
				"path", r.URL.Path)

			shared.RespondWithError(w, r, http.StatusInternalServerError, internalErrorMessage)
		}()

		next.ServeHTTP(w, r)
	})
}
