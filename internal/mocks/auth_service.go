package mocks

import (
	"context"
	"sync"

	"github.com/halcyard/authgw/internal/service/auth"
)

// Verify interface compliance at compile time
var _ auth.AuthService = (*MockAuthService)(nil)

// MockAuthService implements auth.AuthService for testing.
type MockAuthService struct {
	// SignUpFn allows test cases to mock the SignUp behavior
	SignUpFn func(ctx context.Context, email, password, redirectTo string) (*auth.Result, error)

	// SignInFn allows test cases to mock the SignIn behavior
	SignInFn func(ctx context.Context, email, password string) (*auth.Result, error)

	// SignOutFn allows test cases to mock the SignOut behavior
	SignOutFn func(ctx context.Context, accessToken string) error

	// VerifyEmailFn allows test cases to mock the VerifyEmail behavior
	VerifyEmailFn func(ctx context.Context, tokenHash, verificationType string) (*auth.Result, error)

	// ResendVerificationFn allows test cases to mock the ResendVerification behavior
	ResendVerificationFn func(ctx context.Context, email, redirectTo string) error

	// CurrentUserFn allows test cases to mock the CurrentUser behavior
	CurrentUserFn func(ctx context.Context, accessToken string) (*auth.User, error)

	// Default response values
	Result *auth.Result
	User   *auth.User
	Err    error

	// Call tracking for verification
	SignUpCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times SignUp was called
		Count int

		// Emails contains all emails passed to SignUp calls
		Emails []string

		// RedirectTos contains all redirect URLs passed to SignUp calls
		RedirectTos []string
	}

	SignInCalls struct {
		mu sync.Mutex

		Count  int
		Emails []string
	}

	SignOutCalls struct {
		mu sync.Mutex

		Count  int
		Tokens []string
	}

	VerifyEmailCalls struct {
		mu sync.Mutex

		Count       int
		TokenHashes []string
		Types       []string
	}

	ResendVerificationCalls struct {
		mu sync.Mutex

		Count       int
		Emails      []string
		RedirectTos []string
	}

	CurrentUserCalls struct {
		mu sync.Mutex

		Count  int
		Tokens []string
	}
}

// SignUp implements the auth.AuthService interface
func (m *MockAuthService) SignUp(
	ctx context.Context,
	email, password, redirectTo string,
) (*auth.Result, error) {
	m.SignUpCalls.mu.Lock()
	m.SignUpCalls.Count++
	m.SignUpCalls.Emails = append(m.SignUpCalls.Emails, email)
	m.SignUpCalls.RedirectTos = append(m.SignUpCalls.RedirectTos, redirectTo)
	m.SignUpCalls.mu.Unlock()

	if m.SignUpFn != nil {
		return m.SignUpFn(ctx, email, password, redirectTo)
	}
	return m.Result, m.Err
}

// SignIn implements the auth.AuthService interface
func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*auth.Result, error) {
	m.SignInCalls.mu.Lock()
	m.SignInCalls.Count++
	m.SignInCalls.Emails = append(m.SignInCalls.Emails, email)
	m.SignInCalls.mu.Unlock()

	if m.SignInFn != nil {
		return m.SignInFn(ctx, email, password)
	}
	return m.Result, m.Err
}

// SignOut implements the auth.AuthService interface
func (m *MockAuthService) SignOut(ctx context.Context, accessToken string) error {
	m.SignOutCalls.mu.Lock()
	m.SignOutCalls.Count++
	m.SignOutCalls.Tokens = append(m.SignOutCalls.Tokens, accessToken)
	m.SignOutCalls.mu.Unlock()

	if m.SignOutFn != nil {
		return m.SignOutFn(ctx, accessToken)
	}
	return m.Err
}

// VerifyEmail implements the auth.AuthService interface
func (m *MockAuthService) VerifyEmail(
	ctx context.Context,
	tokenHash, verificationType string,
) (*auth.Result, error) {
	m.VerifyEmailCalls.mu.Lock()
	m.VerifyEmailCalls.Count++
	m.VerifyEmailCalls.TokenHashes = append(m.VerifyEmailCalls.TokenHashes, tokenHash)
	m.VerifyEmailCalls.Types = append(m.VerifyEmailCalls.Types, verificationType)
	m.VerifyEmailCalls.mu.Unlock()

	if m.VerifyEmailFn != nil {
		return m.VerifyEmailFn(ctx, tokenHash, verificationType)
	}
	return m.Result, m.Err
}

// ResendVerification implements the auth.AuthService interface
func (m *MockAuthService) ResendVerification(ctx context.Context, email, redirectTo string) error {
	m.ResendVerificationCalls.mu.Lock()
	m.ResendVerificationCalls.Count++
	m.ResendVerificationCalls.Emails = append(m.ResendVerificationCalls.Emails, email)
	m.ResendVerificationCalls.RedirectTos = append(m.ResendVerificationCalls.RedirectTos, redirectTo)
	m.ResendVerificationCalls.mu.Unlock()

	if m.ResendVerificationFn != nil {
		return m.ResendVerificationFn(ctx, email, redirectTo)
	}
	return m.Err
}

// CurrentUser implements the auth.AuthService interface
func (m *MockAuthService) CurrentUser(ctx context.Context, accessToken string) (*auth.User, error) {
	m.CurrentUserCalls.mu.Lock()
	m.CurrentUserCalls.Count++
	m.CurrentUserCalls.Tokens = append(m.CurrentUserCalls.Tokens, accessToken)
	m.CurrentUserCalls.mu.Unlock()

	if m.CurrentUserFn != nil {
		return m.CurrentUserFn(ctx, accessToken)
	}
	return m.User, m.Err
}
