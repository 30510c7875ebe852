package state

import "fmt"

// Actuator identifies one physical output of the exhibit. The numeric values
// of the servo actuators match the servo array indexes of the controller board.
type Actuator int

const (
	Bird1 Actuator = iota
	Bird2
	Bird3
	Bird4
	Platform
	MusicButton
	MusicPower
)

// NumServos is the number of angle driven actuators (birds, platform, button).
const NumServos = 6

var actuatorNames = map[Actuator]string{
	Bird1:       "bird1",
	Bird2:       "bird2",
	Bird3:       "bird3",
	Bird4:       "bird4",
	Platform:    "platform",
	MusicButton: "music_button",
	MusicPower:  "music_power",
}

func (a Actuator) String() string {
	if name, ok := actuatorNames[a]; ok {
		return name
	}
	return fmt.Sprintf("actuator(%d)", int(a))
}

// IsServo reports whether the actuator takes an angle rather than a power state.
func (a Actuator) IsServo() bool {
	return a >= Bird1 && a < MusicPower
}

// BirdActuator returns the actuator driving bird i (0 based).
func BirdActuator(i int) Actuator {
	return Bird1 + Actuator(i)
}

// Actuators lists every actuator in index order.
func Actuators() []Actuator {
	return []Actuator{Bird1, Bird2, Bird3, Bird4, Platform, MusicButton, MusicPower}
}

// ParseActuator maps a name produced by String back to an Actuator.
func ParseActuator(name string) (Actuator, bool) {
	for a, n := range actuatorNames {
		if n == name {
			return a, true
		}
	}
	return 0, false
}
