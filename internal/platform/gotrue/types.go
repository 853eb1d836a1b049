package gotrue

import "time"

// User represents an account record as returned by the identity provider.
// Only the fields this application reads are mapped; the provider returns
// more, and unknown fields are ignored during decoding.
type User struct {
	ID    string `json:"id"`
	Aud   string `json:"aud,omitempty"`
	Role  string `json:"role,omitempty"`
	Email string `json:"email"`

	// EmailConfirmedAt is set once the user has verified their email address.
	// Older provider versions report the same fact as ConfirmedAt, so both
	// are mapped and Confirmed checks either.
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`

	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// Confirmed reports whether the provider has recorded an email confirmation
// timestamp for the user.
func (u *User) Confirmed() bool {
	return u.EmailConfirmedAt != nil || u.ConfirmedAt != nil
}

// Session is an authenticated session issued by the provider. ExpiresAt is
// absent on older provider versions, so it must not be relied on.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// AuthResponse pairs the provider's user record with the session it issued,
// when one was issued. Signup and verification calls leave Session nil when
// the provider withholds a session, such as a signup still awaiting email
// confirmation.
type AuthResponse struct {
	User    User
	Session *Session
}

// credentialsRequest is the request body for /signup and the password grant.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// verifyRequest is the request body for /verify.
type verifyRequest struct {
	TokenHash string `json:"token_hash"`
	Type      string `json:"type"`
}

// resendRequest is the request body for /resend.
type resendRequest struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}
