package state

import (
	"encoding/json"
	"testing"
)

func TestNew_PowerOnStatus(t *testing.T) {
	s := New()

	if s.MusicOn {
		t.Error("New() MusicOn = true, expected false")
	}
	if s.DanceActive {
		t.Error("New() DanceActive = true, expected false")
	}
	if s.CurrentBird != 0 {
		t.Errorf("New() CurrentBird = %d, expected 0", s.CurrentBird)
	}
	if s.Busy() {
		t.Error("New() should not be busy")
	}
	for i := 0; i < NumBirds; i++ {
		if s.BirdRotation[i] != BirdsResting {
			t.Errorf("New() BirdRotation[%d] = %d, expected %d", i, s.BirdRotation[i], BirdsResting)
		}
		if s.RotateDirection[i] != DirectionCW {
			t.Errorf("New() RotateDirection[%d] = %d, expected %d", i, s.RotateDirection[i], DirectionCW)
		}
	}
}

func TestStatus_SnapshotIsIndependent(t *testing.T) {
	s := New()
	snap := s

	s.BirdRotation[2] = 10
	s.MusicOn = true

	if snap.BirdRotation[2] != BirdsResting {
		t.Errorf("snapshot BirdRotation[2] = %d, expected %d", snap.BirdRotation[2], BirdsResting)
	}
	if snap.MusicOn {
		t.Error("snapshot MusicOn changed with the original")
	}
	if snap == s {
		t.Error("snapshot should differ from mutated status")
	}
}

func TestStatus_Busy(t *testing.T) {
	tests := []struct {
		name     string
		jump     bool
		music    bool
		expected bool
	}{
		{"Idle", false, false, false},
		{"Jumping", true, false, true},
		{"Changing track", false, true, true},
		{"Both", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.BirdJumpRequested = tt.jump
			s.MusicChangeRequested = tt.music
			if s.Busy() != tt.expected {
				t.Errorf("Busy() = %v, expected %v", s.Busy(), tt.expected)
			}
		})
	}
}

func TestStatus_InRange(t *testing.T) {
	s := New()
	if !s.InRange() {
		t.Error("power-on status should be in range")
	}

	s.BirdRotation[1] = BirdsMaxRot
	s.BirdRotation[3] = BirdsMinRot
	if !s.InRange() {
		t.Error("bounds should be in range")
	}

	s.BirdRotation[0] = BirdsMaxRot + 1
	if s.InRange() {
		t.Error("181 should be out of range")
	}
}

func TestStatus_ResetBirds(t *testing.T) {
	s := New()
	s.BirdRotation = [NumBirds]int{0, 40, 180, 120}
	s.RotateDirection = [NumBirds]int{-1, -1, 1, -1}

	s.ResetBirds()

	if s != New() {
		t.Errorf("ResetBirds() = %+v, expected %+v", s, New())
	}
}

func TestStatus_JSON(t *testing.T) {
	s := New()
	s.DanceActive = true

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	for _, key := range []string{"music_on", "dance_active", "bird_rotation", "rotate_direction", "current_bird"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("JSON missing key %q", key)
		}
	}
	if fields["dance_active"] != true {
		t.Errorf("dance_active = %v, expected true", fields["dance_active"])
	}
}

func TestActuator_String(t *testing.T) {
	tests := []struct {
		actuator Actuator
		expected string
	}{
		{Bird1, "bird1"},
		{Bird4, "bird4"},
		{Platform, "platform"},
		{MusicButton, "music_button"},
		{MusicPower, "music_power"},
		{Actuator(42), "actuator(42)"},
	}

	for _, tt := range tests {
		if got := tt.actuator.String(); got != tt.expected {
			t.Errorf("Actuator(%d).String() = %q, expected %q", int(tt.actuator), got, tt.expected)
		}
	}
}

func TestActuator_IsServo(t *testing.T) {
	for _, a := range Actuators() {
		expected := a != MusicPower
		if a.IsServo() != expected {
			t.Errorf("%v.IsServo() = %v, expected %v", a, a.IsServo(), expected)
		}
	}
}

func TestBirdActuator(t *testing.T) {
	for i := 0; i < NumBirds; i++ {
		if got := BirdActuator(i); int(got) != i {
			t.Errorf("BirdActuator(%d) = %d", i, int(got))
		}
	}
}

func TestParseActuator(t *testing.T) {
	for _, a := range Actuators() {
		got, ok := ParseActuator(a.String())
		if !ok || got != a {
			t.Errorf("ParseActuator(%q) = %v, %v", a.String(), got, ok)
		}
	}
	if _, ok := ParseActuator("bird5"); ok {
		t.Error("ParseActuator(bird5) should fail")
	}
}
