package api

// Request payloads for the authentication endpoints. Validation is presence
// only: password rules, email shape, and every other credential policy
// belong to the provider.

// SignupRequest defines the payload for the signup endpoint.
type SignupRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// VerifyEmailRequest defines the payload for the verify-email endpoint. Both
// fields pass through verbatim to the provider's verify call.
type VerifyEmailRequest struct {
	TokenHash string `json:"tokenHash" validate:"required"`
	Type      string `json:"type"      validate:"required"`
}

// ResendVerificationRequest defines the payload for the resend-verification
// endpoint.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required"`
}
