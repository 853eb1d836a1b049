package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Constants used by the fake provider.
const (
	// FakeProviderAPIKey is the API key the fake provider expects on every request.
	FakeProviderAPIKey = "test-anon-key"

	// FakeProviderJWTSecret signs the session tokens the fake provider issues.
	// This must never be used outside tests.
	FakeProviderJWTSecret = "fake-provider-jwt-secret-32-chars"

	// FakeSessionLifetime is the lifetime of issued access tokens.
	FakeSessionLifetime = time.Hour
)

// ProviderUser is an account registered with the fake provider.
type ProviderUser struct {
	ID           uuid.UUID
	Email        string
	Password     string
	ConfirmedAt  *time.Time
	ConfirmToken string
	CreatedAt    time.Time
}

// sessionClaims is the claim set carried by issued session tokens.
// It matches the shape GoTrue puts in its access tokens.
type sessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// FakeProvider simulates a GoTrue-compatible identity provider for tests.
// It implements /signup, /token, /logout, /verify, /resend, and /user with
// an in-memory account registry, and records request details such as the
// redirect_to parameter for assertions.
type FakeProvider struct {
	// Server is the underlying httptest server. Its URL is the provider
	// base URL to configure clients with.
	Server *httptest.Server

	// AutoConfirm, when set, makes signup confirm accounts immediately and
	// return a session, matching a provider with email confirmation disabled.
	AutoConfirm bool

	mu             sync.Mutex
	users          map[string]*ProviderUser // keyed by email
	sessions       map[string]string        // access token -> email
	lastRedirectTo string
}

// NewFakeProvider starts a fake provider and registers its shutdown with the
// test's cleanup.
func NewFakeProvider(t *testing.T) *FakeProvider {
	t.Helper()

	p := &FakeProvider{
		users:    make(map[string]*ProviderUser),
		sessions: make(map[string]string),
	}

	r := chi.NewRouter()
	r.Use(p.requireAPIKey)
	r.Post("/signup", p.handleSignup)
	r.Post("/token", p.handleToken)
	r.Post("/logout", p.handleLogout)
	r.Post("/verify", p.handleVerify)
	r.Post("/resend", p.handleResend)
	r.Get("/user", p.handleUser)

	p.Server = httptest.NewServer(r)
	t.Cleanup(p.Server.Close)

	return p
}

// URL returns the provider base URL.
func (p *FakeProvider) URL() string {
	return p.Server.URL
}

// Register seeds an account directly, bypassing the signup endpoint.
func (p *FakeProvider) Register(t *testing.T, email, password string, confirmed bool) *ProviderUser {
	t.Helper()

	p.mu.Lock()
	defer p.mu.Unlock()

	user := &ProviderUser{
		ID:           uuid.New(),
		Email:        email,
		Password:     password,
		ConfirmToken: uuid.New().String(),
		CreatedAt:    time.Now().UTC(),
	}
	if confirmed {
		now := time.Now().UTC()
		user.ConfirmedAt = &now
	}
	p.users[email] = user

	return user
}

// IssueSession mints a valid session token for an already registered email,
// as if the account had just signed in.
func (p *FakeProvider) IssueSession(t *testing.T, email string) string {
	t.Helper()

	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[email]
	if !ok {
		t.Fatalf("IssueSession: no registered user for %s", email)
	}

	token, err := p.signToken(user)
	if err != nil {
		t.Fatalf("IssueSession: failed to sign token: %v", err)
	}
	p.sessions[token] = email

	return token
}

// User returns a copy of the registered account for email.
func (p *FakeProvider) User(email string) (ProviderUser, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[email]
	if !ok {
		return ProviderUser{}, false
	}
	return *user, true
}

// ConfirmTokenFor returns the pending verification token hash for email.
func (p *FakeProvider) ConfirmTokenFor(t *testing.T, email string) string {
	t.Helper()

	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[email]
	if !ok {
		t.Fatalf("ConfirmTokenFor: no registered user for %s", email)
	}
	return user.ConfirmToken
}

// LastRedirectTo returns the redirect_to query value seen on the most recent
// signup or resend call.
func (p *FakeProvider) LastRedirectTo() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastRedirectTo
}

// SessionActive reports whether an access token is still known to the provider.
func (p *FakeProvider) SessionActive(token string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.sessions[token]
	return ok
}

// requireAPIKey rejects requests lacking the expected apikey header, the way
// a hosted provider's gateway does.
func (p *FakeProvider) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != FakeProviderAPIKey {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"message": "No API key found in request",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (p *FakeProvider) handleSignup(w http.ResponseWriter, r *http.Request) {
	p.captureRedirect(r)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		legacyError(w, http.StatusBadRequest, "Signup requires a valid email and password")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.users[req.Email]; exists {
		legacyError(w, http.StatusUnprocessableEntity, "User already registered")
		return
	}

	user := &ProviderUser{
		ID:           uuid.New(),
		Email:        req.Email,
		Password:     req.Password,
		ConfirmToken: uuid.New().String(),
		CreatedAt:    time.Now().UTC(),
	}
	p.users[req.Email] = user

	if p.AutoConfirm {
		now := time.Now().UTC()
		user.ConfirmedAt = &now

		session, err := p.newSessionLocked(user)
		if err != nil {
			legacyError(w, http.StatusInternalServerError, "failed to issue session")
			return
		}
		writeJSON(w, http.StatusOK, session)
		return
	}

	writeJSON(w, http.StatusOK, p.userJSON(user))
}

func (p *FakeProvider) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grant_type") != "password" {
		oauthError(w, http.StatusBadRequest, "unsupported_grant_type",
			"The grant type is not supported")
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		oauthError(w, http.StatusBadRequest, "invalid_request", "Could not read password grant parameters")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[req.Email]
	if !ok || user.Password != req.Password {
		oauthError(w, http.StatusBadRequest, "invalid_grant", "Invalid login credentials")
		return
	}
	if user.ConfirmedAt == nil {
		oauthError(w, http.StatusBadRequest, "invalid_grant", "Email not confirmed")
		return
	}

	session, err := p.newSessionLocked(user)
	if err != nil {
		legacyError(w, http.StatusInternalServerError, "failed to issue session")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (p *FakeProvider) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.sessions[token]; !ok {
		legacyError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	delete(p.sessions, token)

	w.WriteHeader(http.StatusNoContent)
}

func (p *FakeProvider) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TokenHash string `json:"token_hash"`
		Type      string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Type == "" {
		legacyError(w, http.StatusBadRequest, "Verify requires a verification type")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, user := range p.users {
		if user.ConfirmToken != "" && user.ConfirmToken == req.TokenHash {
			now := time.Now().UTC()
			user.ConfirmedAt = &now
			user.ConfirmToken = ""

			session, err := p.newSessionLocked(user)
			if err != nil {
				legacyError(w, http.StatusInternalServerError, "failed to issue session")
				return
			}
			writeJSON(w, http.StatusOK, session)
			return
		}
	}

	legacyError(w, http.StatusForbidden, "Token has expired or is invalid")
}

func (p *FakeProvider) handleResend(w http.ResponseWriter, r *http.Request) {
	p.captureRedirect(r)

	var req struct {
		Email string `json:"email"`
		Type  string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		legacyError(w, http.StatusBadRequest, "Resend requires an email address")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[req.Email]
	if ok && user.ConfirmedAt != nil {
		legacyError(w, http.StatusBadRequest, "Email address has already been confirmed")
		return
	}
	if ok {
		// Rotate the pending verification token, as a real resend would.
		user.ConfirmToken = uuid.New().String()
	}
	// Unknown addresses still get a 200 so callers cannot enumerate accounts.

	writeJSON(w, http.StatusOK, map[string]interface{}{})
}

func (p *FakeProvider) handleUser(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)

	p.mu.Lock()
	defer p.mu.Unlock()

	email, ok := p.sessions[token]
	if !ok {
		legacyError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	user, ok := p.users[email]
	if !ok {
		legacyError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, p.userJSON(user))
}

// newSessionLocked signs a token for user and records the session.
// The caller must hold p.mu.
func (p *FakeProvider) newSessionLocked(user *ProviderUser) (map[string]interface{}, error) {
	token, err := p.signToken(user)
	if err != nil {
		return nil, err
	}
	p.sessions[token] = user.Email

	return map[string]interface{}{
		"access_token":  token,
		"token_type":    "bearer",
		"expires_in":    int(FakeSessionLifetime.Seconds()),
		"refresh_token": uuid.New().String(),
		"user":          p.userJSON(user),
	}, nil
}

// signToken creates a signed HS256 session token for the given user.
func (p *FakeProvider) signToken(user *ProviderUser) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: user.Email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{"authenticated"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(FakeSessionLifetime)),
			ID:        uuid.New().String(), // Unique token ID
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(FakeProviderJWTSecret))
}

// userJSON spells out the provider's wire representation of an account.
// Field names are written literally here so tests verify the client's JSON
// mapping rather than mirroring it.
func (p *FakeProvider) userJSON(user *ProviderUser) map[string]interface{} {
	body := map[string]interface{}{
		"id":         user.ID.String(),
		"aud":        "authenticated",
		"role":       "authenticated",
		"email":      user.Email,
		"created_at": user.CreatedAt.Format(time.RFC3339),
		"updated_at": user.CreatedAt.Format(time.RFC3339),
	}
	if user.ConfirmedAt != nil {
		body["email_confirmed_at"] = user.ConfirmedAt.Format(time.RFC3339)
		body["confirmed_at"] = user.ConfirmedAt.Format(time.RFC3339)
	}
	return body
}

func (p *FakeProvider) captureRedirect(r *http.Request) {
	if redirect := r.URL.Query().Get("redirect_to"); redirect != "" {
		p.mu.Lock()
		p.lastRedirectTo = redirect
		p.mu.Unlock()
	}
}

// bearerToken extracts the bearer credential from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// legacyError writes the {"code": n, "msg": ...} error shape.
func legacyError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"code": status,
		"msg":  msg,
	})
}

// oauthError writes the {"error": ..., "error_description": ...} error shape
// used by the token endpoint.
func oauthError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, map[string]interface{}{
		"error":             code,
		"error_description": description,
	})
}
