// Package state holds the shared status model of the dancing birds exhibit.
package state

const (
	NumBirds = 4

	// BirdsQuiet and BirdsResting name the same logical position.
	BirdsQuiet   = 90
	BirdsResting = 90
	BirdsMinRot  = 0
	BirdsMaxRot  = 180

	DirectionCW  = +1
	DirectionCCW = -1
)

// Status is the process-wide state of the exhibit. It is a plain value: copying
// it produces an independent snapshot.
type Status struct {
	MusicOn              bool          `json:"music_on"`
	MusicChangeRequested bool          `json:"music_change_requested"`
	DanceActive          bool          `json:"dance_active"`
	BirdRotation         [NumBirds]int `json:"bird_rotation"`
	BirdJumpRequested    bool          `json:"bird_jump_requested"`
	RotateDirection      [NumBirds]int `json:"rotate_direction"`
	CurrentBird          int           `json:"current_bird"`
	Stopped              bool          `json:"stopped"`
}

// New returns the power-on status: birds resting, music off, not dancing.
func New() Status {
	s := Status{}
	s.ResetBirds()
	return s
}

// ResetBirds moves every bird back to the resting angle with a clockwise direction.
func (s *Status) ResetBirds() {
	for i := range s.BirdRotation {
		s.BirdRotation[i] = BirdsResting
		s.RotateDirection[i] = DirectionCW
	}
}

// Busy reports whether a timed sequence is in flight on any actuator.
func (s Status) Busy() bool {
	return s.BirdJumpRequested || s.MusicChangeRequested
}

// InRange reports whether every bird angle is inside the logical rotation range.
func (s Status) InRange() bool {
	for _, r := range s.BirdRotation {
		if r < BirdsMinRot || r > BirdsMaxRot {
			return false
		}
	}
	return true
}
