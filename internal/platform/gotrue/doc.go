// Package gotrue provides a thin HTTP client for a GoTrue-compatible identity
// provider (Supabase Auth or a self-hosted GoTrue instance).
//
// This package is an infrastructure adapter: it speaks the provider's REST
// dialect (endpoints, headers, the two response shapes of /signup, the
// assorted error body formats) and exposes typed results to the service layer
// without leaking transport details upward.
//
// Key components:
//
// 1. Client:
//   - Wraps the provider base URL and API key
//   - Issues signup, password-grant, logout, verify, resend, and user-info calls
//   - Propagates the request context; no client-level timeout is configured
//
// 2. Response Types:
//   - User carries the provider's account record including the confirmation
//     timestamps the service layer inspects
//   - Session carries the issued access token alongside the user
//   - AuthResponse distinguishes a confirmed signup (session present) from one
//     awaiting email verification (bare user)
//
// 3. Error Handling:
//   - APIError represents an error response issued by the provider itself,
//     normalized across the several JSON error shapes GoTrue emits
//   - Transport and decoding failures are returned as plain wrapped errors so
//     callers can tell "the provider said no" apart from "the provider was
//     unreachable"
package gotrue
