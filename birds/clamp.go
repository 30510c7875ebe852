package birds

import (
	"fmt"

	"github.com/elijahnyp/dancing_birds/state"
)

// Physical servo travel the logical 0-180 range is mapped onto.
const (
	MinAngle = 0
	MaxAngle = 150
)

// AngleRange maps logical angles onto the physical travel of a servo.
type AngleRange struct {
	Min int
	Max int
}

// DefaultAngleRange is the travel of the exhibit's servos.
var DefaultAngleRange = AngleRange{Min: MinAngle, Max: MaxAngle}

// ClampLogical forces a logical angle into [BirdsMinRot, BirdsMaxRot]. The error
// wraps ErrOutOfRange when the angle had to be moved; the clamped value is
// always usable.
func ClampLogical(angle int) (int, error) {
	switch {
	case angle < state.BirdsMinRot:
		return state.BirdsMinRot, fmt.Errorf("%w: %d", ErrOutOfRange, angle)
	case angle > state.BirdsMaxRot:
		return state.BirdsMaxRot, fmt.Errorf("%w: %d", ErrOutOfRange, angle)
	}
	return angle, nil
}

// Physical converts a logical angle to the physical angle sent to the servo.
// Out of range input is clamped first.
func (r AngleRange) Physical(logical int) int {
	logical, _ = ClampLogical(logical)
	span := r.Max - r.Min
	// round to nearest
	return r.Min + (logical*span+state.BirdsMaxRot/2)/state.BirdsMaxRot
}

// Logical is the inverse of Physical, used when reading positions back.
func (r AngleRange) Logical(physical int) int {
	span := r.Max - r.Min
	if span == 0 {
		return state.BirdsMinRot
	}
	logical := ((physical-r.Min)*state.BirdsMaxRot + span/2) / span
	logical, _ = ClampLogical(logical)
	return logical
}

// Valid reports whether the range can be used to drive a servo.
func (r AngleRange) Valid() bool {
	return r.Min >= 0 && r.Max > r.Min && r.Max <= 180
}
