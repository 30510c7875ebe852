package birds

import "time"

// DefaultDanceStep is the cadence of the dance scheduler.
const DefaultDanceStep = 400 * time.Millisecond

// Timing holds the durations of the timed behaviours.
type Timing struct {
	JumpHold   time.Duration
	ButtonHold time.Duration
	DanceStep  time.Duration
	DanceRest  time.Duration
}

// DefaultTiming returns the exhibit's built in durations.
func DefaultTiming() Timing {
	return Timing{
		JumpHold:   BirdsJumpDelay,
		ButtonHold: MusicButtonDelay,
		DanceStep:  DefaultDanceStep,
		DanceRest:  ActionLoopPause,
	}
}

// withDefaults fills zero durations from DefaultTiming.
func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.JumpHold <= 0 {
		t.JumpHold = d.JumpHold
	}
	if t.ButtonHold <= 0 {
		t.ButtonHold = d.ButtonHold
	}
	if t.DanceStep <= 0 {
		t.DanceStep = d.DanceStep
	}
	if t.DanceRest <= 0 {
		t.DanceRest = d.DanceRest
	}
	return t
}
