package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/halcyard/authgw/internal/api/shared"
	"github.com/halcyard/authgw/internal/service/auth"
)

// Fixed client-facing messages. Validation messages are deliberately static
// so a caller probing the API learns nothing about internal validation
// machinery.
const (
	invalidRequestMessage      = "Invalid request format"
	missingCredentialsMessage  = "Email and password are required"
	missingVerificationMessage = "Token hash and type are required"
	missingEmailMessage        = "Email is required"
	missingAuthHeaderMessage   = "Authorization header required"

	signupPendingMessage  = "Please check your email to verify your account"
	signupCompleteMessage = "Signup successful"
	logoutMessage         = "Logged out successfully"
	verifiedMessage       = "Email verified successfully"
	resendMessage         = "Verification email sent"
)

// AuthHandler handles the authentication façade endpoints.
type AuthHandler struct {
	authService auth.AuthService
	siteURL     string
}

// NewAuthHandler creates a new AuthHandler. siteURL is the redirect target
// embedded in provider verification emails when a request declares no
// Origin header.
func NewAuthHandler(authService auth.AuthService, siteURL string) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	return &AuthHandler{
		authService: authService,
		siteURL:     siteURL,
	}
}

// Signup handles POST /api/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, invalidRequestMessage)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, missingCredentialsMessage)
		return
	}

	result, err := h.authService.SignUp(r.Context(), req.Email, req.Password, h.redirectTarget(r))
	if err != nil {
		h.respondServiceError(w, r, err, http.StatusBadRequest)
		return
	}

	needsVerification := result.NeedsVerification
	message := signupCompleteMessage
	if needsVerification {
		message = signupPendingMessage
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Response{
		Success:           true,
		NeedsVerification: &needsVerification,
		User:              userPayload(result.User),
		Token:             result.AccessToken,
		Message:           message,
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, invalidRequestMessage)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, missingCredentialsMessage)
		return
	}

	result, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondServiceError(w, r, err, http.StatusUnauthorized)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Response{
		Success: true,
		User:    userPayload(result.User),
		Token:   result.AccessToken,
	})
}

// Logout handles POST /api/logout. The bearer token is forwarded even when
// absent; the provider decides what an empty or stale token means.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.SignOut(r.Context(), bearerToken(r)); err != nil {
		h.respondServiceError(w, r, err, http.StatusBadRequest)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Response{
		Success: true,
		Message: logoutMessage,
	})
}

// VerifyEmail handles POST /api/verify-email.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, invalidRequestMessage)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, missingVerificationMessage)
		return
	}

	result, err := h.authService.VerifyEmail(r.Context(), req.TokenHash, req.Type)
	if err != nil {
		h.respondServiceError(w, r, err, http.StatusBadRequest)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Response{
		Success: true,
		User:    userPayload(result.User),
		Token:   result.AccessToken,
		Message: verifiedMessage,
	})
}

// ResendVerification handles POST /api/resend-verification.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req ResendVerificationRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, invalidRequestMessage)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, missingEmailMessage)
		return
	}

	if err := h.authService.ResendVerification(r.Context(), req.Email, h.redirectTarget(r)); err != nil {
		h.respondServiceError(w, r, err, http.StatusBadRequest)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Response{
		Success: true,
		Message: resendMessage,
	})
}

// Me handles GET /api/me. Token validation is entirely the provider's; this
// handler only requires that a bearer token is present before delegating.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		shared.RespondWithError(w, r, http.StatusUnauthorized, missingAuthHeaderMessage)
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), token)
	if err != nil {
		h.respondServiceError(w, r, err, http.StatusUnauthorized)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Response{
		Success: true,
		User:    userPayload(*user),
	})
}

// redirectTarget resolves the link target for provider-sent emails: the
// requesting origin when one is declared, otherwise the configured site URL.
func (h *AuthHandler) redirectTarget(r *http.Request) string {
	if origin := r.Header.Get("Origin"); origin != "" {
		return origin
	}
	return h.siteURL
}

// respondServiceError translates a delegation error into the endpoint's
// failure response. rejectionStatus applies to provider-reported rejections,
// which the signup-shaped endpoints report as 400 and login as 401.
func (h *AuthHandler) respondServiceError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
	rejectionStatus int,
) {
	status := MapErrorToStatusCode(err, rejectionStatus)

	var opts []shared.ResponseOption
	if errors.Is(err, auth.ErrEmailNotConfirmed) {
		opts = append(opts, shared.WithNeedsVerification())
	}

	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}

// bearerToken extracts the bearer token from the Authorization header.
// Returns the empty string when the header is absent or not a bearer scheme.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func userPayload(u auth.User) *shared.UserPayload {
	return &shared.UserPayload{
		ID:             u.ID,
		Email:          u.Email,
		EmailConfirmed: u.EmailConfirmed,
	}
}
