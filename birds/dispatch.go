package birds

import (
	"fmt"

	"github.com/elijahnyp/dancing_birds/state"
)

// Actions is the outcome of a dispatched command: intents to apply now and an
// optional timed sequence.
type Actions struct {
	Intents []Intent
	Pulse   *Pulse
}

// Dispatch applies one command to s and returns the resulting actuation. On
// error s is left untouched.
func Dispatch(cmd Command, s *state.Status, t Timing) (Actions, error) {
	if !cmd.Valid() {
		return Actions{}, fmt.Errorf("%w: 0x%02X", ErrUnknownCommand, uint8(cmd))
	}
	if s.Stopped {
		return Actions{}, fmt.Errorf("%v: %w", cmd, ErrStopped)
	}

	var a Actions
	switch cmd {
	case CmdJump:
		p, err := Jump(s, t.JumpHold)
		if err != nil {
			return Actions{}, err
		}
		a.Pulse = &p
	case CmdRotateRight, CmdRotateLeft:
		dir := state.DirectionCW
		if cmd == CmdRotateLeft {
			dir = state.DirectionCCW
		}
		if intent, moved := Rotate(s, dir); moved {
			a.Intents = append(a.Intents, intent)
		}
	case CmdNextBird:
		NextBird(s)
	case CmdMusic:
		a.Intents = append(a.Intents, ToggleMusic(s))
	case CmdSound:
		p, err := ChangeTrack(s, t.ButtonHold)
		if err != nil {
			return Actions{}, err
		}
		a.Pulse = &p
	case CmdDance:
		s.DanceActive = !s.DanceActive
	case CmdStop:
		a.Intents = Shutdown(s)
	}
	return a, nil
}

// Shutdown returns every actuator to rest, switches music and dance off and
// marks the run as ended.
func Shutdown(s *state.Status) []Intent {
	s.ResetBirds()
	s.MusicOn = false
	s.DanceActive = false
	s.Stopped = true

	intents := make([]Intent, 0, state.NumBirds+3)
	for b := 0; b < state.NumBirds; b++ {
		intents = append(intents, AngleIntent(state.BirdActuator(b), state.BirdsResting))
	}
	return append(intents,
		AngleIntent(state.Platform, BirdsJumpUp),
		AngleIntent(state.MusicButton, MusicButtonUp),
		PowerIntent(false),
	)
}
