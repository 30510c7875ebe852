package util

import (
	"testing"
	"time"

	"github.com/elijahnyp/dancing_birds/birds"
)

func TestTimingFromConfig(t *testing.T) {
	if got := TimingFromConfig(); got != birds.DefaultTiming() {
		t.Errorf("default timing = %+v, expected %+v", got, birds.DefaultTiming())
	}

	for k, v := range map[string]interface{}{"dance_step_ms": 150, "jump_hold_ms": 0} {
		previous := Config.Get(k)
		Config.Set(k, v)
		t.Cleanup(func() { Config.Set(k, previous) })
	}
	got := TimingFromConfig()
	if got.DanceStep != 150*time.Millisecond {
		t.Errorf("DanceStep = %v, expected 150ms", got.DanceStep)
	}
	if got.JumpHold != 0 {
		t.Errorf("JumpHold = %v, expected 0 for the exhibit to default", got.JumpHold)
	}
}

func TestAngleRangeFromConfig(t *testing.T) {
	if got := AngleRangeFromConfig(); got != birds.DefaultAngleRange {
		t.Errorf("range = %+v, expected %+v", got, birds.DefaultAngleRange)
	}

	previous := Config.Get("servo_max_angle")
	Config.Set("servo_max_angle", 120)
	t.Cleanup(func() { Config.Set("servo_max_angle", previous) })
	if got := AngleRangeFromConfig(); got.Max != 120 {
		t.Errorf("Max = %d, expected 120", got.Max)
	}
}
