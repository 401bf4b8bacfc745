// Package contextkeys provides centralized context key definitions.
//
// All context keys used across the application are defined here to prevent
// typos and make key usage discoverable.
package contextkeys

// Key is the type for context keys to prevent collisions
type Key string

const (
	// CurrentUserKey contains *middleware.User
	// Set by: middleware.AuthMiddleware (pkg/middleware/auth.go)
	// Required by: permission enforcement, user-scoped handlers
	CurrentUserKey Key = "current_user"

	// RequestIDKey contains the request ID string (UUID)
	// Set by: middleware.RequestID
	// Used by: logging
	RequestIDKey Key = "request_id"
)
