package buildutil

import (
	"errors"
	"fmt"
)

// StopError is a fatal configuration error. It is meant to travel up to the
// top of the configure phase and end the process with a non-zero status.
type StopError struct {
	Message string
}

func (e *StopError) Error() string {
	return e.Message
}

// Stop returns a *StopError carrying message, unless help was requested, in
// which case configuration problems are ignored and Stop returns nil.
func Stop(message string, helpMode bool) error {
	if helpMode {
		return nil
	}
	return &StopError{Message: message}
}

// Stopf is Stop with a formatted message.
func Stopf(helpMode bool, format string, args ...interface{}) error {
	return Stop(fmt.Sprintf(format, args...), helpMode)
}

// IsStop reports whether err is, or wraps, a *StopError.
func IsStop(err error) bool {
	var stopErr *StopError
	return errors.As(err, &stopErr)
}
