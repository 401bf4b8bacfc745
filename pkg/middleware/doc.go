// Package middleware provides HTTP middleware for the concord API:
// authentication (OIDC bearer tokens with a trusted-header fallback for
// development) and request ID propagation.
package middleware
