package modes

import "errors"

// UserError represents an error that should be displayed to the player.
// These are not system failures - just invalid input or usage.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// NewUserError creates a player-facing error.
func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}

// IsUserError reports whether err is a player-facing rejection rather than
// a system failure.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}
