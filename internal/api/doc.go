// Package api handles incoming HTTP requests, request validation, and
// response formatting. It acts as an adapter between external clients and
// the delegation service, translating HTTP concerns to provider operations
// and service errors back to the uniform response envelope.
package api
