package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/halcyard/authgw/internal/config"
	"github.com/halcyard/authgw/internal/platform/logger"
)

// Client talks to a GoTrue-compatible identity provider over HTTP.
// A single instance is constructed at startup and shared by all requests;
// it holds no mutable state.
type Client struct {
	// logger is used for structured logging
	logger *slog.Logger

	// baseURL is the provider's auth API root, without a trailing slash
	baseURL string

	// apiKey is the provider's public API key, sent with every request
	apiKey string

	// httpClient performs the requests. It carries no timeout; cancellation
	// is controlled by callers through the request context.
	httpClient *http.Client
}

// NewClient creates a new provider client with the provided dependencies.
//
// Parameters:
//   - logger: A structured logger for operation logging
//   - cfg: Provider configuration containing the base URL and API key
//
// Returns:
//   - A properly initialized Client or an error if the configuration is invalid
func NewClient(logger *slog.Logger, cfg config.ProviderConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	// Validate configuration
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: provider URL cannot be empty", ErrInvalidConfig)
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("%w: provider key cannot be empty", ErrInvalidConfig)
	}

	return &Client{
		logger:     logger,
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.Key,
		httpClient: &http.Client{},
	}, nil
}

// Signup registers a new account with the provider. redirectTo, when
// non-empty, becomes the link target embedded in the confirmation email.
//
// The provider answers with one of two shapes: a full session when the
// account was auto-confirmed, or a bare user record when confirmation is
// pending. Both are normalized into an AuthResponse.
func (c *Client) Signup(ctx context.Context, email, password, redirectTo string) (*AuthResponse, error) {
	query := url.Values{}
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}

	data, err := c.do(ctx, http.MethodPost, "/signup", query, "",
		credentialsRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	return parseAuthResponse(data)
}

// SignInWithPassword exchanges an email/password pair for a session using
// the provider's password grant.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	query := url.Values{}
	query.Set("grant_type", "password")

	data, err := c.do(ctx, http.MethodPost, "/token", query, "",
		credentialsRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if session.AccessToken == "" {
		return nil, errors.New("token response carried no access token")
	}

	return &session, nil
}

// SignOut revokes the session identified by accessToken. Whether the
// revocation is per-session or global is the provider's default behavior;
// no scope parameter is sent.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, http.MethodPost, "/logout", nil, accessToken, nil)
	return err
}

// VerifyOTP redeems a one-time verification token, such as the token hash
// from a confirmation email link. The provider issues a session for email
// confirmations but may return only the user record for other types.
func (c *Client) VerifyOTP(ctx context.Context, tokenHash, verificationType string) (*AuthResponse, error) {
	data, err := c.do(ctx, http.MethodPost, "/verify", nil, "",
		verifyRequest{TokenHash: tokenHash, Type: verificationType})
	if err != nil {
		return nil, err
	}

	return parseAuthResponse(data)
}

// Resend asks the provider to send a fresh verification email of the given
// type. redirectTo behaves as in Signup.
func (c *Client) Resend(ctx context.Context, email, verificationType, redirectTo string) error {
	query := url.Values{}
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}

	_, err := c.do(ctx, http.MethodPost, "/resend", query, "",
		resendRequest{Email: email, Type: verificationType})
	return err
}

// GetUser fetches the account record for the session identified by accessToken.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	data, err := c.do(ctx, http.MethodGet, "/user", nil, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	if user.ID == "" {
		return nil, errors.New("user response carried no user record")
	}

	return &user, nil
}

// do performs a single provider request and returns the raw response body.
// accessToken, when non-empty, is sent as the bearer credential in place of
// the API key. A non-2xx response comes back as an *APIError; any other
// failure (transport, reading the body) is a plain wrapped error.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	accessToken string,
	reqBody interface{},
) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if reqBody != nil {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := logger.FromContextOrDefault(ctx, c.logger)
	log.DebugContext(ctx, "calling identity provider",
		"method", method,
		"path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := parseAPIError(resp.StatusCode, data)
		log.DebugContext(ctx, "identity provider rejected the request",
			"method", method,
			"path", path,
			"status", apiErr.Status,
			"code", apiErr.Code)
		return nil, apiErr
	}

	return data, nil
}

// parseAuthResponse decodes a body that is either a session or a bare user
// record. A non-empty access token settles the session shape; otherwise the
// body must at least carry a user ID.
func parseAuthResponse(data []byte) (*AuthResponse, error) {
	var session Session
	if err := json.Unmarshal(data, &session); err == nil && session.AccessToken != "" {
		return &AuthResponse{User: session.User, Session: &session}, nil
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode provider auth response: %w", err)
	}
	if user.ID == "" {
		return nil, errors.New("provider auth response carried neither a session nor a user")
	}

	return &AuthResponse{User: user}, nil
}
