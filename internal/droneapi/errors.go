package droneapi

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable marks network-level failures: the request never got a
	// response.
	ErrUnavailable = errors.New("drone controller unavailable")

	// Read path.
	ErrFetchFailed       = errors.New("fetch failed")
	ErrMalformedResponse = errors.New("malformed response")

	// Write path.
	ErrCommandFailed      = errors.New("command failed")
	ErrJoystickSendFailed = errors.New("joystick send failed")
)

// StatusError reports a non-success HTTP status.
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}

// CommandError describes a command the controller did not accept.
type CommandError struct {
	Command string
	ID      string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q (%s) failed: %v", e.Command, e.ID, e.Err)
}

func (e *CommandError) Unwrap() []error {
	return []error{ErrCommandFailed, e.Err}
}

// IsUnavailable reports whether err is a network-level failure as opposed to
// a response the controller sent back.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
