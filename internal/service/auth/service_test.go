package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/halcyard/authgw/internal/mocks"
	"github.com/halcyard/authgw/internal/platform/gotrue"
	"github.com/halcyard/authgw/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService wires an auth service around the given provider mock with a
// no-op logger.
func newTestService(provider *mocks.MockProviderClient) auth.AuthService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewAuthService(provider, logger)
}

// confirmedUser returns a provider user whose email has been confirmed.
func confirmedUser(id, email string) gotrue.User {
	confirmedAt := time.Now().Add(-1 * time.Hour)
	return gotrue.User{
		ID:               id,
		Email:            email,
		EmailConfirmedAt: &confirmedAt,
	}
}

// unconfirmedUser returns a provider user with no confirmation timestamp.
func unconfirmedUser(id, email string) gotrue.User {
	return gotrue.User{
		ID:    id,
		Email: email,
	}
}

func TestNewAuthService(t *testing.T) {
	t.Run("valid dependencies", func(t *testing.T) {
		service := auth.NewAuthService(&mocks.MockProviderClient{}, slog.Default())
		assert.NotNil(t, service)
	})

	t.Run("nil logger uses default", func(t *testing.T) {
		service := auth.NewAuthService(&mocks.MockProviderClient{}, nil)
		assert.NotNil(t, service)
	})

	t.Run("nil provider panics", func(t *testing.T) {
		assert.Panics(t, func() {
			auth.NewAuthService(nil, slog.Default())
		})
	})
}

func TestSignUp(t *testing.T) {
	testCases := []struct {
		name             string
		response         *gotrue.AuthResponse
		providerErr      error
		wantToken        string
		wantNeedsVerify  bool
		wantProviderMsg  string
		wantWrappedError string
	}{
		{
			name: "pending confirmation returns no token",
			response: &gotrue.AuthResponse{
				User: unconfirmedUser("user-1", "new@example.com"),
			},
			wantNeedsVerify: true,
		},
		{
			name: "autoconfirmed signup returns session token",
			response: &gotrue.AuthResponse{
				User: confirmedUser("user-2", "auto@example.com"),
				Session: &gotrue.Session{
					AccessToken: "session-token",
					User:        confirmedUser("user-2", "auto@example.com"),
				},
			},
			wantToken: "session-token",
		},
		{
			name: "duplicate registration surfaces provider message",
			providerErr: &gotrue.APIError{
				Status:  422,
				Message: "User already registered",
			},
			wantProviderMsg: "User already registered",
		},
		{
			name:             "transport failure is wrapped",
			providerErr:      errors.New("connection refused"),
			wantWrappedError: "failed to sign up: connection refused",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &mocks.MockProviderClient{
				AuthResponse: tc.response,
				Err:          tc.providerErr,
			}
			service := newTestService(provider)

			result, err := service.SignUp(
				context.Background(),
				"new@example.com",
				"password123",
				"https://app.example.com",
			)

			if tc.wantProviderMsg != "" {
				var provErr *auth.ProviderError
				require.ErrorAs(t, err, &provErr)
				assert.Equal(t, tc.wantProviderMsg, provErr.Message)
				assert.Nil(t, result)
				return
			}
			if tc.wantWrappedError != "" {
				require.Error(t, err)
				assert.EqualError(t, err, tc.wantWrappedError)
				var provErr *auth.ProviderError
				assert.False(t, errors.As(err, &provErr))
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tc.response.User.ID, result.User.ID)
			assert.Equal(t, tc.response.User.Email, result.User.Email)
			assert.Equal(t, tc.wantToken, result.AccessToken)
			assert.Equal(t, tc.wantNeedsVerify, result.NeedsVerification)

			assert.Equal(t, 1, provider.SignupCalls.Count)
			assert.Equal(t, []string{"https://app.example.com"}, provider.SignupCalls.RedirectTos)
		})
	}
}

func TestSignIn(t *testing.T) {
	t.Run("confirmed user signs in", func(t *testing.T) {
		provider := &mocks.MockProviderClient{
			Session: &gotrue.Session{
				AccessToken: "access-token",
				User:        confirmedUser("user-1", "known@example.com"),
			},
		}
		service := newTestService(provider)

		result, err := service.SignIn(context.Background(), "known@example.com", "password123")

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "user-1", result.User.ID)
		assert.Equal(t, "access-token", result.AccessToken)
		assert.False(t, result.NeedsVerification)
		assert.True(t, result.User.EmailConfirmed)
	})

	t.Run("unconfirmed email reported in error message", func(t *testing.T) {
		provider := &mocks.MockProviderClient{
			Err: &gotrue.APIError{
				Status:  400,
				Message: "Email not confirmed",
			},
		}
		service := newTestService(provider)

		result, err := service.SignIn(context.Background(), "pending@example.com", "password123")

		assert.ErrorIs(t, err, auth.ErrEmailNotConfirmed)
		assert.Nil(t, result)
	})

	t.Run("unconfirmed email reported as structured code", func(t *testing.T) {
		provider := &mocks.MockProviderClient{
			Err: &gotrue.APIError{
				Status:  400,
				Code:    "email_not_confirmed",
				Message: "You need to verify first",
			},
		}
		service := newTestService(provider)

		_, err := service.SignIn(context.Background(), "pending@example.com", "password123")

		assert.ErrorIs(t, err, auth.ErrEmailNotConfirmed)
	})

	t.Run("session issued for unconfirmed user is rejected", func(t *testing.T) {
		provider := &mocks.MockProviderClient{
			Session: &gotrue.Session{
				AccessToken: "access-token",
				User:        unconfirmedUser("user-2", "pending@example.com"),
			},
		}
		service := newTestService(provider)

		result, err := service.SignIn(context.Background(), "pending@example.com", "password123")

		assert.ErrorIs(t, err, auth.ErrEmailNotConfirmed)
		assert.Nil(t, result)
	})

	t.Run("invalid credentials surface provider message", func(t *testing.T) {
		provider := &mocks.MockProviderClient{
			Err: &gotrue.APIError{
				Status:  400,
				Code:    "invalid_grant",
				Message: "Invalid login credentials",
			},
		}
		service := newTestService(provider)

		_, err := service.SignIn(context.Background(), "known@example.com", "wrong")

		var provErr *auth.ProviderError
		require.ErrorAs(t, err, &provErr)
		assert.Equal(t, "Invalid login credentials", provErr.Message)
		assert.NotErrorIs(t, err, auth.ErrEmailNotConfirmed)
	})

	t.Run("transport failure is wrapped", func(t *testing.T) {
		provider := &mocks.MockProviderClient{
			Err: errors.New("connection reset"),
		}
		service := newTestService(provider)

		_, err := service.SignIn(context.Background(), "known@example.com", "password123")

		assert.EqualError(t, err, "failed to sign in: connection reset")
		var provErr *auth.ProviderError
		assert.False(t, errors.As(err, &provErr))
		assert.NotErrorIs(t, err, auth.ErrEmailNotConfirmed)
	})
}

func TestSignOut(t *testing.T) {
	t.Run("revokes session", func(t *testing.T) {
		provider := &mocks.MockProviderClient{}
		service := newTestService(provider)

		err := service.SignOut(context.Background(), "access-token")

		require.NoError(t, err)
		assert.Equal(t, 1, provider.SignOutCalls.Count)
		assert.Equal(t, []string{"access-token"}, provider.SignOutCalls.Tokens)
	})

	t.Run("provider rejection surfaces message", func(t *testing.T) {
		provider := &mocks.MockProviderClient{
			Err: &gotrue.APIError{Status: 401, Message: "Invalid token"},
		}
		service := newTestService(provider)

		err := service.SignOut(context.Background(), "stale-token")

		var provErr *auth.ProviderError
		require.ErrorAs(t, err, &provErr)
		assert.Equal(t, "Invalid token", provErr.Message)
	})
}

func TestVerifyEmail(t *testing.T) {
	t.Run("confirms account and returns session", func(t *testing.T) {
		user := confirmedUser("user-1", "pending@example.com")
		provider := &mocks.MockProviderClient{
			AuthResponse: &gotrue.AuthResponse{
				User: user,
				Session: &gotrue.Session{
					AccessToken: "fresh-token",
					User:        user,
				},
			},
		}
		service := newTestService(provider)

		result, err := service.VerifyEmail(context.Background(), "token-hash", "signup")

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "fresh-token", result.AccessToken)
		assert.False(t, result.NeedsVerification)
		assert.Equal(t, []string{"token-hash"}, provider.VerifyOTPCalls.TokenHashes)
		assert.Equal(t, []string{"signup"}, provider.VerifyOTPCalls.Types)
	})

	t.Run("expired token surfaces provider message", func(t *testing.T) {
		provider := &mocks.MockProviderClient{
			Err: &gotrue.APIError{
				Status:  403,
				Message: "Token has expired or is invalid",
			},
		}
		service := newTestService(provider)

		result, err := service.VerifyEmail(context.Background(), "bad-hash", "signup")

		var provErr *auth.ProviderError
		require.ErrorAs(t, err, &provErr)
		assert.Equal(t, "Token has expired or is invalid", provErr.Message)
		assert.Nil(t, result)
	})
}

func TestResendVerification(t *testing.T) {
	t.Run("requests a signup confirmation email", func(t *testing.T) {
		provider := &mocks.MockProviderClient{}
		service := newTestService(provider)

		err := service.ResendVerification(
			context.Background(),
			"pending@example.com",
			"https://app.example.com",
		)

		require.NoError(t, err)
		assert.Equal(t, []string{"pending@example.com"}, provider.ResendCalls.Emails)
		assert.Equal(t, []string{"signup"}, provider.ResendCalls.Types)
		assert.Equal(t, []string{"https://app.example.com"}, provider.ResendCalls.RedirectTos)
	})

	t.Run("already confirmed surfaces provider message", func(t *testing.T) {
		provider := &mocks.MockProviderClient{
			Err: &gotrue.APIError{
				Status:  400,
				Message: "Email address has already been confirmed",
			},
		}
		service := newTestService(provider)

		err := service.ResendVerification(
			context.Background(),
			"done@example.com",
			"https://app.example.com",
		)

		var provErr *auth.ProviderError
		require.ErrorAs(t, err, &provErr)
		assert.Equal(t, "Email address has already been confirmed", provErr.Message)
	})
}

func TestCurrentUser(t *testing.T) {
	t.Run("returns the session's user", func(t *testing.T) {
		user := confirmedUser("user-1", "known@example.com")
		provider := &mocks.MockProviderClient{User: &user}
		service := newTestService(provider)

		got, err := service.CurrentUser(context.Background(), "access-token")

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "user-1", got.ID)
		assert.Equal(t, "known@example.com", got.Email)
		assert.True(t, got.EmailConfirmed)
		assert.Equal(t, []string{"access-token"}, provider.GetUserCalls.Tokens)
	})

	t.Run("stale token surfaces provider message", func(t *testing.T) {
		provider := &mocks.MockProviderClient{
			Err: &gotrue.APIError{Status: 401, Message: "invalid JWT"},
		}
		service := newTestService(provider)

		got, err := service.CurrentUser(context.Background(), "stale-token")

		var provErr *auth.ProviderError
		require.ErrorAs(t, err, &provErr)
		assert.Equal(t, "invalid JWT", provErr.Message)
		assert.Nil(t, got)
	})
}

func TestProviderErrorUnwrap(t *testing.T) {
	provider := &mocks.MockProviderClient{
		Err: &gotrue.APIError{Status: 422, Code: "user_already_exists", Message: "User already registered"},
	}
	service := newTestService(provider)

	_, err := service.SignUp(context.Background(), "dup@example.com", "password123", "")

	var apiErr *gotrue.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.Status)
	assert.Equal(t, "user_already_exists", apiErr.Code)
}
