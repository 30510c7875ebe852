package birds

import (
	"fmt"
	"time"

	"github.com/elijahnyp/dancing_birds/state"
)

// Platform positions and hold time.
const (
	BirdsJumpUp    = 90
	BirdsJumpDown  = 135
	BirdsJumpDelay = 500 * time.Millisecond
)

// Jump starts a platform pulse. It fails with ErrBusy while a previous jump is
// still in flight; the request is dropped rather than queued.
func Jump(s *state.Status, hold time.Duration) (Pulse, error) {
	if s.BirdJumpRequested {
		return Pulse{}, fmt.Errorf("jump: %w", ErrBusy)
	}
	s.BirdJumpRequested = true

	return Pulse{
		Actuator: state.Platform,
		Press:    BirdsJumpDown,
		Hold:     hold,
		Release:  BirdsJumpUp,
		done: func(s *state.Status) {
			s.BirdJumpRequested = false
		},
	}, nil
}
