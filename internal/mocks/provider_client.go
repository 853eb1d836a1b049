package mocks

import (
	"context"
	"sync"

	"github.com/halcyard/authgw/internal/platform/gotrue"
	"github.com/halcyard/authgw/internal/service/auth"
)

// Verify interface compliance at compile time
var _ auth.ProviderClient = (*MockProviderClient)(nil)

// MockProviderClient implements auth.ProviderClient for testing.
type MockProviderClient struct {
	// SignupFn allows test cases to mock the Signup behavior
	SignupFn func(ctx context.Context, email, password, redirectTo string) (*gotrue.AuthResponse, error)

	// SignInWithPasswordFn allows test cases to mock the SignInWithPassword behavior
	SignInWithPasswordFn func(ctx context.Context, email, password string) (*gotrue.Session, error)

	// SignOutFn allows test cases to mock the SignOut behavior
	SignOutFn func(ctx context.Context, accessToken string) error

	// VerifyOTPFn allows test cases to mock the VerifyOTP behavior
	VerifyOTPFn func(ctx context.Context, tokenHash, verificationType string) (*gotrue.AuthResponse, error)

	// ResendFn allows test cases to mock the Resend behavior
	ResendFn func(ctx context.Context, email, verificationType, redirectTo string) error

	// GetUserFn allows test cases to mock the GetUser behavior
	GetUserFn func(ctx context.Context, accessToken string) (*gotrue.User, error)

	// Default response values
	AuthResponse *gotrue.AuthResponse
	Session      *gotrue.Session
	User         *gotrue.User
	Err          error

	// Call tracking for verification
	SignupCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times Signup was called
		Count int

		// Emails contains all emails passed to Signup calls
		Emails []string

		// RedirectTos contains all redirect URLs passed to Signup calls
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

	VerifyOTPCalls struct {
		mu sync.Mutex

		Count       int
		TokenHashes []string
		Types       []string
	}

	ResendCalls struct {
		mu sync.Mutex

		Count       int
		Emails      []string
		Types       []string
		RedirectTos []string
	}

	GetUserCalls struct {
		mu sync.Mutex

		Count  int
		Tokens []string
	}
}

// Signup implements the auth.ProviderClient interface
func (m *MockProviderClient) Signup(
	ctx context.Context,
	email, password, redirectTo string,
) (*gotrue.AuthResponse, error) {
	m.SignupCalls.mu.Lock()
	m.SignupCalls.Count++
	m.SignupCalls.Emails = append(m.SignupCalls.Emails, email)
	m.SignupCalls.RedirectTos = append(m.SignupCalls.RedirectTos, redirectTo)
	m.SignupCalls.mu.Unlock()

	if m.SignupFn != nil {
		return m.SignupFn(ctx, email, password, redirectTo)
	}
	return m.AuthResponse, m.Err
}

// SignInWithPassword implements the auth.ProviderClient interface
func (m *MockProviderClient) SignInWithPassword(
	ctx context.Context,
	email, password string,
) (*gotrue.Session, error) {
	m.SignInCalls.mu.Lock()
	m.SignInCalls.Count++
	m.SignInCalls.Emails = append(m.SignInCalls.Emails, email)
	m.SignInCalls.mu.Unlock()

	if m.SignInWithPasswordFn != nil {
		return m.SignInWithPasswordFn(ctx, email, password)
	}
	return m.Session, m.Err
}

// SignOut implements the auth.ProviderClient interface
func (m *MockProviderClient) SignOut(ctx context.Context, accessToken string) error {
	m.SignOutCalls.mu.Lock()
	m.SignOutCalls.Count++
	m.SignOutCalls.Tokens = append(m.SignOutCalls.Tokens, accessToken)
	m.SignOutCalls.mu.Unlock()

	if m.SignOutFn != nil {
		return m.SignOutFn(ctx, accessToken)
	}
	return m.Err
}

// VerifyOTP implements the auth.ProviderClient interface
func (m *MockProviderClient) VerifyOTP(
	ctx context.Context,
	tokenHash, verificationType string,
) (*gotrue.AuthResponse, error) {
	m.VerifyOTPCalls.mu.Lock()
	m.VerifyOTPCalls.Count++
	m.VerifyOTPCalls.TokenHashes = append(m.VerifyOTPCalls.TokenHashes, tokenHash)
	m.VerifyOTPCalls.Types = append(m.VerifyOTPCalls.Types, verificationType)
	m.VerifyOTPCalls.mu.Unlock()

	if m.VerifyOTPFn != nil {
		return m.VerifyOTPFn(ctx, tokenHash, verificationType)
	}
	return m.AuthResponse, m.Err
}

// Resend implements the auth.ProviderClient interface
func (m *MockProviderClient) Resend(
	ctx context.Context,
	email, verificationType, redirectTo string,
) error {
	m.ResendCalls.mu.Lock()
	m.ResendCalls.Count++
	m.ResendCalls.Emails = append(m.ResendCalls.Emails, email)
	m.ResendCalls.Types = append(m.ResendCalls.Types, verificationType)
	m.ResendCalls.RedirectTos = append(m.ResendCalls.RedirectTos, redirectTo)
	m.ResendCalls.mu.Unlock()

	if m.ResendFn != nil {
		return m.ResendFn(ctx, email, verificationType, redirectTo)
	}
	return m.Err
}

// GetUser implements the auth.ProviderClient interface
func (m *MockProviderClient) GetUser(
	ctx context.Context,
	accessToken string,
) (*gotrue.User, error) {
	m.GetUserCalls.mu.Lock()
	m.GetUserCalls.Count++
	m.GetUserCalls.Tokens = append(m.GetUserCalls.Tokens, accessToken)
	m.GetUserCalls.mu.Unlock()

	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, accessToken)
	}
	return m.User, m.Err
}
