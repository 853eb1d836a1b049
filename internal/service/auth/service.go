// Package auth provides the delegation service that forwards authentication
// operations (signup, sign-in, sign-out, email verification) to the external
// identity provider and translates its replies into the gateway's vocabulary.
package auth

import (
	"context"

	"github.com/halcyard/authgw/internal/platform/gotrue"
)

// User is the account projection this gateway exposes to its clients.
type User struct {
	ID             string
	Email          string
	EmailConfirmed bool
}

// Result is the outcome of a delegated authentication operation.
type Result struct {
	User User

	// AccessToken is empty when the provider issued no session, such as a
	// signup that still awaits email confirmation.
	AccessToken string

	// NeedsVerification is exactly the negation of the presence of the
	// provider's confirmation timestamp on the user record.
	NeedsVerification bool
}

// ProviderClient is the slice of the identity provider's API this service
// consumes. *gotrue.Client satisfies it.
type ProviderClient interface {
	Signup(ctx context.Context, email, password, redirectTo string) (*gotrue.AuthResponse, error)
	SignInWithPassword(ctx context.Context, email, password string) (*gotrue.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	VerifyOTP(ctx context.Context, tokenHash, verificationType string) (*gotrue.AuthResponse, error)
	Resend(ctx context.Context, email, verificationType, redirectTo string) error
	GetUser(ctx context.Context, accessToken string) (*gotrue.User, error)
}

// AuthService exposes the authentication operations the HTTP layer serves.
// Every method performs exactly one delegated provider call; no state is
// kept between calls.
type AuthService interface {
	// SignUp registers a new account with the provider. redirectTo, when
	// non-empty, is embedded in the confirmation email as the link target.
	//
	// Returns:
	//   - (*Result, nil): the created user, with NeedsVerification set when
	//     the provider withheld a session pending email confirmation
	//   - (nil, *ProviderError): the provider rejected the signup
	//   - (nil, error): the provider could not be reached or answered
	//     with an unusable response
	SignUp(ctx context.Context, email, password, redirectTo string) (*Result, error)

	// SignIn exchanges credentials for a session.
	//
	// Returns:
	//   - (*Result, nil): the signed-in user and access token
	//   - (nil, ErrEmailNotConfirmed): the account's email is unverified,
	//     whether reported through the provider's error wording or by an
	//     absent confirmation timestamp on a returned user
	//   - (nil, *ProviderError): any other provider rejection, including
	//     invalid credentials
	//   - (nil, error): delegation failure
	SignIn(ctx context.Context, email, password string) (*Result, error)

	// SignOut revokes the session identified by accessToken. Whether the
	// revocation is per-session or global is left to the provider's default.
	SignOut(ctx context.Context, accessToken string) error

	// VerifyEmail redeems an emailed verification token hash, confirming
	// the account. The provider may or may not issue a session for it;
	// Result.AccessToken is empty when it does not.
	VerifyEmail(ctx context.Context, tokenHash, verificationType string) (*Result, error)

	// ResendVerification asks the provider to send a fresh signup
	// confirmation email. redirectTo behaves as in SignUp.
	ResendVerification(ctx context.Context, email, redirectTo string) error

	// CurrentUser fetches the account belonging to accessToken.
	CurrentUser(ctx context.Context, accessToken string) (*User, error)
}
