package birds

import (
	"context"
	"fmt"
	"time"

	"github.com/elijahnyp/dancing_birds/state"
)

// Intent is a single actuation request: an angle for a servo or a power state
// for the music line.
type Intent struct {
	Actuator state.Actuator
	Angle    int
	Power    bool
}

// AngleIntent builds an intent moving a servo actuator to a logical angle.
func AngleIntent(a state.Actuator, angle int) Intent {
	return Intent{Actuator: a, Angle: angle}
}

// PowerIntent builds an intent switching the music power line.
func PowerIntent(on bool) Intent {
	return Intent{Actuator: state.MusicPower, Power: on}
}

func (i Intent) String() string {
	if i.Actuator == state.MusicPower {
		if i.Power {
			return "music_power=on"
		}
		return "music_power=off"
	}
	return fmt.Sprintf("%v=%d", i.Actuator, i.Angle)
}

// Backend applies actuation requests to the hardware. Angles are physical
// degrees, already mapped through the exhibit's AngleRange.
type Backend interface {
	SetAngle(ctx context.Context, a state.Actuator, degrees int) error
	SetPower(ctx context.Context, on bool) error
}

// Waiter is the scoped wait used between the phases of a timed sequence.
type Waiter interface {
	Wait(ctx context.Context, d time.Duration) error
}

// Source delivers raw command codes, one per input edge. The channel is closed
// when the source ends.
type Source interface {
	Codes() <-chan byte
}

// SleepWaiter waits on the wall clock.
type SleepWaiter struct{}

// Wait blocks for d or until ctx is done.
func (SleepWaiter) Wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ChanSource adapts a plain channel to Source.
type ChanSource chan byte

// Codes implements Source.
func (c ChanSource) Codes() <-chan byte {
	return c
}
