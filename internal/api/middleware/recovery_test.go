package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/halcyard/authgw/internal/api/shared"
	"github.com/halcyard/authgw/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoveryMiddlewareContainsPanic(t *testing.T) {
	logBuf, _, cleanup := logger.SetupTestLogger(t, nil)
	defer cleanup()

	handler := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something broke")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/signup", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response shared.Response
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err, "panic responses must still be JSON")

	assert.False(t, response.Success)
	assert.Equal(t, "Internal server error", response.Message)

	logger.AssertLogContains(t, logBuf, "panic recovered while handling request")
	logger.AssertLogContains(t, logBuf, "something broke")
}

func TestRecoveryMiddlewarePassesThroughNormalRequests(t *testing.T) {
	handler := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("fine"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "fine", w.Body.String())
}

func TestRecoveryMiddlewareRedactsSecrets(t *testing.T) {
	logBuf, _, cleanup := logger.SetupTestLogger(t, nil)
	defer cleanup()

	handler := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("request failed for user secret@example.com")
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret@example.com",
		"panic detail must never reach the client")
	assert.NotContains(t, logBuf.String(), "secret@example.com",
		"panic detail must be redacted in logs")
	logger.AssertLogContains(t, logBuf, "[REDACTED_EMAIL]")
}

func TestRecoveryMiddlewareRepanicsOnAbortHandler(t *testing.T) {
	handler := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(w, req)
	})
}
