package birds

import "github.com/elijahnyp/dancing_birds/state"

// BirdsRotStep is the manual rotation step in degrees.
const BirdsRotStep = 10

// Rotate moves the currently selected bird one step in direction dir (+1 or
// -1). See RotateBird.
func Rotate(s *state.Status, dir int) (Intent, bool) {
	return RotateBird(s, s.CurrentBird, dir)
}

// RotateBird moves bird one step in direction dir. A step that would leave
// [BirdsMinRot, BirdsMaxRot] stops the bird at the bound and reverses its
// rotation direction. The intent is only reported when the angle changed.
func RotateBird(s *state.Status, bird, dir int) (Intent, bool) {
	if dir >= 0 {
		dir = state.DirectionCW
	} else {
		dir = state.DirectionCCW
	}

	current := s.BirdRotation[bird]
	next, err := ClampLogical(current + dir*BirdsRotStep)
	if err != nil {
		s.RotateDirection[bird] = -dir
	}
	if next == current {
		return Intent{}, false
	}

	s.BirdRotation[bird] = next
	return AngleIntent(state.BirdActuator(bird), next), true
}

// NextBird selects the following bird, wrapping after the last one.
func NextBird(s *state.Status) {
	s.CurrentBird = (s.CurrentBird + 1) % state.NumBirds
}
