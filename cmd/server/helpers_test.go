package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/halcyard/authgw/internal/config"
	"github.com/halcyard/authgw/internal/testutils"
	"github.com/stretchr/testify/require"
)

// testSiteURL is the configured fallback redirect target in tests.
const testSiteURL = "http://localhost:3000"

// newTestApplication wires a complete application against the given fake
// provider, with all logging discarded.
func newTestApplication(t *testing.T, provider *testutils.FakeProvider) *application {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:     8080,
			LogLevel: "error",
		},
		Provider: config.ProviderConfig{
			URL:     provider.URL(),
			Key:     testutils.FakeProviderAPIKey,
			SiteURL: testSiteURL,
		},
	}

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	app, err := newApplication(cfg, discard)
	require.NoError(t, err)

	return app
}

// newTestServer serves the full router, backed by the fake provider.
func newTestServer(t *testing.T, provider *testutils.FakeProvider) *httptest.Server {
	t.Helper()

	app := newTestApplication(t, provider)
	server := httptest.NewServer(app.setupRouter())
	t.Cleanup(server.Close)

	return server
}

// postJSON sends a JSON POST to the test server. headers carries extra
// request headers such as Origin or Authorization; a nil body sends an
// empty request body.
func postJSON(
	t *testing.T,
	server *httptest.Server,
	path string,
	body interface{},
	headers map[string]string,
) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(http.MethodPost, server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

// getPath sends a GET to the test server.
func getPath(
	t *testing.T,
	server *httptest.Server,
	path string,
	headers map[string]string,
) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, server.URL+path, nil)
	require.NoError(t, err)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

// decodeBody asserts the response is JSON and unmarshals it into a map so
// tests can check for absent keys as well as values.
func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	require.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body), "response body should be JSON: %s", data)

	return body
}
