// Package testutils provides shared test infrastructure, most importantly a
// fake GoTrue-compatible identity provider backed by httptest. The fake keeps
// registered accounts in memory, issues real HS256-signed session tokens, and
// reproduces the provider's wire quirks (the two /signup response shapes, the
// assorted error body formats) so client and router tests exercise the same
// parsing paths production traffic does.
package testutils
