package birds

import (
	"math/rand"
	"testing"

	"github.com/elijahnyp/dancing_birds/state"
)

func TestRotate_Step(t *testing.T) {
	s := state.New()

	intent, moved := Rotate(&s, state.DirectionCW)
	if !moved {
		t.Fatal("Rotate from 90 should move")
	}
	if intent.Actuator != state.Bird1 || intent.Angle != 100 {
		t.Errorf("intent = %v, expected bird1=100", intent)
	}
	if s.BirdRotation[0] != 100 {
		t.Errorf("BirdRotation[0] = %d, expected 100", s.BirdRotation[0])
	}

	_, _ = Rotate(&s, state.DirectionCCW)
	_, _ = Rotate(&s, state.DirectionCCW)
	if s.BirdRotation[0] != 80 {
		t.Errorf("BirdRotation[0] = %d, expected 80", s.BirdRotation[0])
	}
}

func TestRotate_UpperBoundFlipsDirection(t *testing.T) {
	s := state.New()
	s.BirdRotation[0] = 170

	intent, moved := Rotate(&s, state.DirectionCW)
	if !moved || intent.Angle != 180 {
		t.Fatalf("Rotate from 170 = %v, %v, expected 180", intent, moved)
	}
	if s.RotateDirection[0] != state.DirectionCW {
		t.Errorf("direction flipped too early: %d", s.RotateDirection[0])
	}

	for i := 0; i < 5; i++ {
		_, moved = Rotate(&s, state.DirectionCW)
		if moved {
			t.Errorf("Rotate at 180 should not move (iteration %d)", i)
		}
		if s.BirdRotation[0] != 180 {
			t.Errorf("BirdRotation[0] = %d, expected 180", s.BirdRotation[0])
		}
		if s.RotateDirection[0] != state.DirectionCCW {
			t.Errorf("RotateDirection[0] = %d, expected -1", s.RotateDirection[0])
		}
	}
}

func TestRotate_LowerBoundFlipsDirection(t *testing.T) {
	s := state.New()
	s.BirdRotation[0] = 0
	s.RotateDirection[0] = state.DirectionCCW

	_, moved := Rotate(&s, state.DirectionCCW)
	if moved {
		t.Error("Rotate at 0 should not move")
	}
	if s.BirdRotation[0] != 0 {
		t.Errorf("BirdRotation[0] = %d, expected 0", s.BirdRotation[0])
	}
	if s.RotateDirection[0] != state.DirectionCW {
		t.Errorf("RotateDirection[0] = %d, expected +1", s.RotateDirection[0])
	}
}

func TestRotate_OutOfRangeStartIsClamped(t *testing.T) {
	s := state.New()
	s.BirdRotation[2] = 185

	intent, moved := RotateBird(&s, 2, state.DirectionCW)
	if !moved || intent.Angle != 180 {
		t.Errorf("RotateBird from 185 = %v, %v, expected 180", intent, moved)
	}
	if s.BirdRotation[2] != 180 {
		t.Errorf("BirdRotation[2] = %d, expected 180", s.BirdRotation[2])
	}
}

func TestRotate_OnlyTouchesCurrentBird(t *testing.T) {
	s := state.New()
	s.CurrentBird = 2

	intent, _ := Rotate(&s, state.DirectionCCW)
	if intent.Actuator != state.Bird3 {
		t.Errorf("intent actuator = %v, expected bird3", intent.Actuator)
	}
	for i, r := range s.BirdRotation {
		expected := state.BirdsResting
		if i == 2 {
			expected = 80
		}
		if r != expected {
			t.Errorf("BirdRotation[%d] = %d, expected %d", i, r, expected)
		}
	}
}

func TestRotate_RandomSequencesStayInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		s := state.New()
		for i := 0; i < 200; i++ {
			dir := state.DirectionCW
			if rng.Intn(2) == 0 {
				dir = state.DirectionCCW
			}
			if rng.Intn(10) == 0 {
				NextBird(&s)
			}
			Rotate(&s, dir)

			if !s.InRange() {
				t.Fatalf("run %d step %d: out of range %v", run, i, s.BirdRotation)
			}
		}
	}
}

func TestNextBird_Cyclic(t *testing.T) {
	s := state.New()

	for i := 1; i <= state.NumBirds; i++ {
		NextBird(&s)
		expected := i % state.NumBirds
		if s.CurrentBird != expected {
			t.Errorf("after %d NextBird CurrentBird = %d, expected %d", i, s.CurrentBird, expected)
		}
	}
	if s.CurrentBird != 0 {
		t.Errorf("CurrentBird = %d after a full cycle, expected 0", s.CurrentBird)
	}
}
