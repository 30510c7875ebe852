package birds

import "errors"

var (
	// ErrUnknownCommand is returned for codes outside the command vocabulary.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrBusy is returned when a timed sequence is already running on the actuator.
	ErrBusy = errors.New("actuator busy")
	// ErrOutOfRange marks an angle that had to be clamped into the safe range.
	ErrOutOfRange = errors.New("angle out of range")
	// ErrStopped is returned for commands received after Stop.
	ErrStopped = errors.New("exhibit stopped")
)
