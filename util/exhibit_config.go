package util

import (
	"time"

	"github.com/elijahnyp/dancing_birds/birds"
)

func millis(key string) time.Duration {
	return time.Duration(Config.GetInt64(key)) * time.Millisecond
}

// TimingFromConfig reads the hold and dance durations. Missing or zero values
// fall back to the built in timing inside the exhibit.
func TimingFromConfig() birds.Timing {
	return birds.Timing{
		JumpHold:   millis("jump_hold_ms"),
		ButtonHold: millis("button_hold_ms"),
		DanceStep:  millis("dance_step_ms"),
		DanceRest:  millis("dance_rest_ms"),
	}
}

func AngleRangeFromConfig() birds.AngleRange {
	return birds.AngleRange{
		Min: Config.GetInt("servo_min_angle"),
		Max: Config.GetInt("servo_max_angle"),
	}
}
