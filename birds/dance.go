package birds

import (
	"time"

	"github.com/elijahnyp/dancing_birds/state"
)

// Dance loop shape: ActionLoopCycles cycles of DanceCycle steps, then a pause
// of ActionLoopPause.
const (
	ActionLoopCycles = 5
	ActionLoopPause  = 300000 * time.Millisecond
	DanceCycle       = 6
)

// DancePhase is the state of the dance scheduler.
type DancePhase int

const (
	PhaseActive DancePhase = iota
	PhaseResting
)

func (p DancePhase) String() string {
	switch p {
	case PhaseActive:
		return "Active"
	case PhaseResting:
		return "Resting"
	default:
		return "Unknown"
	}
}

// Dance generates the autonomous motion while dance mode is on. One step turns
// every bird once through RotateBird; halfway through a cycle every bird
// reverses, so a cycle swings out and back.
type Dance struct {
	phase DancePhase
	cycle int
	step  int
}

// Reset starts a fresh active phase from the current bird positions.
func (d *Dance) Reset() {
	*d = Dance{}
}

// Phase returns the current phase.
func (d *Dance) Phase() DancePhase {
	return d.phase
}

// Position returns the completed cycles and the next step within the cycle.
func (d *Dance) Position() (cycle, step int) {
	return d.cycle, d.step
}

// Tick emits the intents of one dance step and the delay before the next tick.
// Nothing is emitted when dance mode is off.
func (d *Dance) Tick(s *state.Status, t Timing) ([]Intent, time.Duration) {
	if !s.DanceActive {
		return nil, 0
	}
	if d.phase == PhaseResting {
		d.Reset()
	}

	if d.step == DanceCycle/2 {
		for b := range s.RotateDirection {
			s.RotateDirection[b] = -s.RotateDirection[b]
		}
	}

	var intents []Intent
	for b := 0; b < state.NumBirds; b++ {
		if intent, moved := RotateBird(s, b, s.RotateDirection[b]); moved {
			intents = append(intents, intent)
		}
	}

	d.step++
	if d.step < DanceCycle {
		return intents, t.DanceStep
	}

	d.step = 0
	d.cycle++
	if d.cycle < ActionLoopCycles {
		return intents, t.DanceStep
	}

	d.phase = PhaseResting
	d.cycle = 0
	return intents, t.DanceRest
}
