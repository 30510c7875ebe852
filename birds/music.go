package birds

import (
	"fmt"
	"time"

	"github.com/elijahnyp/dancing_birds/state"
)

// Music selection button positions and hold time.
const (
	MusicButtonDown  = 60
	MusicButtonUp    = 0
	MusicButtonDelay = 600 * time.Millisecond
)

// ToggleMusic flips the music power line.
func ToggleMusic(s *state.Status) Intent {
	s.MusicOn = !s.MusicOn
	return PowerIntent(s.MusicOn)
}

// ChangeTrack presses the track selection button. It fails with ErrBusy while
// the previous press has not been released.
func ChangeTrack(s *state.Status, hold time.Duration) (Pulse, error) {
	if s.MusicChangeRequested {
		return Pulse{}, fmt.Errorf("change track: %w", ErrBusy)
	}
	s.MusicChangeRequested = true

	return Pulse{
		Actuator: state.MusicButton,
		Press:    MusicButtonDown,
		Hold:     hold,
		Release:  MusicButtonUp,
		done: func(s *state.Status) {
			s.MusicChangeRequested = false
		},
	}, nil
}
