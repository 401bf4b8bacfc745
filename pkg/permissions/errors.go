package permissions

import (
	"errors"
	"fmt"
)

// ErrChannelNotFound is returned when a supplied channel id does not exist.
// Callers surface it as a client-facing 404.
var ErrChannelNotFound = errors.New("channel not found")

// PermissionError is a forbidden-class resolution failure: the user lacks a
// required permission, is not a DM member, or the channel kind is unknown.
// It carries the required and resolved sets for diagnostics. Never retried.
type PermissionError struct {
	Message  string
	Required []Permission
	Actual   []string
}

func (e *PermissionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("missing required permissions: need %v, have %v", e.Required, e.Actual)
}

// IsPermissionError reports whether err is a forbidden-class failure
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

func forbidden(format string, args ...interface{}) error {
	return &PermissionError{Message: fmt.Sprintf(format, args...)}
}
