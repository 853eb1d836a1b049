package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/halcyard/authgw/internal/platform/gotrue"
	"github.com/halcyard/authgw/internal/platform/logger"
	"github.com/halcyard/authgw/internal/redact"
)

// Verify interface compliance at compile time
var _ AuthService = (*authServiceImpl)(nil)

// resendTypeSignup is the verification type sent on resend calls; only
// signup confirmations are resent through this gateway.
const resendTypeSignup = "signup"

// The provider signals an unverified account either with a structured error
// code (newer versions) or only in the message text (older versions).
const (
	unconfirmedEmailCode     = "email_not_confirmed"
	unconfirmedEmailFragment = "email not confirmed"
)

// authServiceImpl implements the AuthService interface by delegating every
// operation to the identity provider.
type authServiceImpl struct {
	provider ProviderClient
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(provider ProviderClient, logger *slog.Logger) AuthService {
	// Validate inputs
	if provider == nil {
		panic("provider cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &authServiceImpl{
		provider: provider,
		logger:   logger.With(slog.String("component", "auth_service")),
	}
}

// SignUp implements AuthService.SignUp.
func (s *authServiceImpl) SignUp(
	ctx context.Context,
	email, password, redirectTo string,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	resp, err := s.provider.Signup(ctx, email, password, redirectTo)
	if err != nil {
		return nil, s.delegationError(ctx, "sign up", err)
	}

	result := resultFromAuthResponse(resp)
	log.Debug("signup delegated",
		slog.String("user_id", result.User.ID),
		slog.Bool("needs_verification", result.NeedsVerification))
	return result, nil
}

// SignIn implements AuthService.SignIn.
func (s *authServiceImpl) SignIn(ctx context.Context, email, password string) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		if isUnconfirmedEmail(err) {
			log.Debug("sign-in blocked by unconfirmed email")
			return nil, ErrEmailNotConfirmed
		}
		return nil, s.delegationError(ctx, "sign in", err)
	}

	// A provider configured without mandatory confirmation can hand out a
	// session for an unverified account; the confirmation timestamp stays
	// authoritative either way.
	if !session.User.Confirmed() {
		log.Debug("sign-in returned an unconfirmed user",
			slog.String("user_id", session.User.ID))
		return nil, ErrEmailNotConfirmed
	}

	result := &Result{
		User:        projectUser(&session.User),
		AccessToken: session.AccessToken,
	}
	log.Debug("sign-in delegated", slog.String("user_id", result.User.ID))
	return result, nil
}

// SignOut implements AuthService.SignOut.
func (s *authServiceImpl) SignOut(ctx context.Context, accessToken string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		return s.delegationError(ctx, "sign out", err)
	}

	log.Debug("sign-out delegated")
	return nil
}

// VerifyEmail implements AuthService.VerifyEmail.
func (s *authServiceImpl) VerifyEmail(
	ctx context.Context,
	tokenHash, verificationType string,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	resp, err := s.provider.VerifyOTP(ctx, tokenHash, verificationType)
	if err != nil {
		return nil, s.delegationError(ctx, "verify email", err)
	}

	result := resultFromAuthResponse(resp)
	log.Debug("email verification delegated",
		slog.String("user_id", result.User.ID))
	return result, nil
}

// ResendVerification implements AuthService.ResendVerification.
func (s *authServiceImpl) ResendVerification(ctx context.Context, email, redirectTo string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.provider.Resend(ctx, email, resendTypeSignup, redirectTo); err != nil {
		return s.delegationError(ctx, "resend verification email", err)
	}

	log.Debug("verification email resend delegated")
	return nil
}

// CurrentUser implements AuthService.CurrentUser.
func (s *authServiceImpl) CurrentUser(ctx context.Context, accessToken string) (*User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	providerUser, err := s.provider.GetUser(ctx, accessToken)
	if err != nil {
		return nil, s.delegationError(ctx, "fetch current user", err)
	}

	user := projectUser(providerUser)
	log.Debug("current user fetched", slog.String("user_id", user.ID))
	return &user, nil
}

// delegationError converts a provider client failure into the service's
// error vocabulary. Provider-reported rejections become *ProviderError;
// anything else (transport failures, undecodable responses) is wrapped and
// left for the API layer to treat as internal.
func (s *authServiceImpl) delegationError(ctx context.Context, op string, err error) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var apiErr *gotrue.APIError
	if errors.As(err, &apiErr) {
		log.Debug("provider rejected request",
			slog.String("operation", op),
			slog.Int("status", apiErr.Status),
			slog.String("code", apiErr.Code))
		return &ProviderError{
			Message: apiErr.Message,
			Code:    apiErr.Code,
			cause:   err,
		}
	}

	log.Error("provider delegation failed",
		slog.String("operation", op),
		slog.String("error", redact.Error(err)))
	return fmt.Errorf("failed to %s: %w", op, err)
}

// isUnconfirmedEmail reports whether a provider error says the account's
// email address has not been confirmed. Every use of the provider's error
// wording lives behind this function so the convention can be swapped for a
// structured code without touching callers.
func isUnconfirmedEmail(err error) bool {
	var apiErr *gotrue.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code == unconfirmedEmailCode {
		return true
	}
	return strings.Contains(strings.ToLower(apiErr.Message), unconfirmedEmailFragment)
}

// resultFromAuthResponse projects the provider's reply onto the service
// result, deriving NeedsVerification from the confirmation timestamp.
func resultFromAuthResponse(resp *gotrue.AuthResponse) *Result {
	result := &Result{
		User:              projectUser(&resp.User),
		NeedsVerification: !resp.User.Confirmed(),
	}
	if resp.Session != nil {
		result.AccessToken = resp.Session.AccessToken
	}
	return result
}

func projectUser(u *gotrue.User) User {
	return User{
		ID:             u.ID,
		Email:          u.Email,
		EmailConfirmed: u.Confirmed(),
	}
}
