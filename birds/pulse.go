package birds

import (
	"time"

	"github.com/elijahnyp/dancing_birds/state"
)

// Pulse is a press, hold, release sequence on one servo. Both the platform jump
// and the track change button are pulses; the release step always runs once
// the press has been issued.
type Pulse struct {
	Actuator state.Actuator
	Press    int
	Hold     time.Duration
	Release  int

	// done clears the busy flag that guards the actuator.
	done func(*state.Status)
}

// Step is one phase of a timed sequence: apply Intent, then wait After.
type Step struct {
	Intent Intent
	After  time.Duration
}

// Steps returns the sequence shape: press, hold, release.
func (p Pulse) Steps() []Step {
	return []Step{
		{Intent: AngleIntent(p.Actuator, p.Press), After: p.Hold},
		{Intent: AngleIntent(p.Actuator, p.Release)},
	}
}

// PressIntent is the first phase of the pulse.
func (p Pulse) PressIntent() Intent {
	return AngleIntent(p.Actuator, p.Press)
}

// ReleaseIntent is the phase that returns the actuator to its safe position.
func (p Pulse) ReleaseIntent() Intent {
	return AngleIntent(p.Actuator, p.Release)
}

// Finish marks the pulse complete in s.
func (p Pulse) Finish(s *state.Status) {
	if p.done != nil {
		p.done(s)
	}
}
