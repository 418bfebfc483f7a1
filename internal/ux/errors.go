package ux

import "errors"

var (
	ErrHubDisabled    = errors.New("hub is disabled")
	ErrFaulted        = errors.New("synchronizer stopped after a fatal tick failure")
	ErrNotConnected   = errors.New("entity is not connected")
	ErrUnknownEffect  = errors.New("unknown cosmetic")
	ErrCosmeticLocked = NewUserError("You have not unlocked this cosmetic.")
)

// UserError represents an error that should be displayed to the acting entity.
// These are not system failures - just denied or invalid requests.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// NewUserError creates a user-facing error.
func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}
