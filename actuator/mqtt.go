package actuator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	MQTT "github.com/eclipse/paho.mqtt.golang"

	"github.com/elijahnyp/dancing_birds/state"
	"github.com/elijahnyp/dancing_birds/util"
)

const (
	PowerOn  = "ON"
	PowerOff = "OFF"
)

// Publisher drives actuators owned by another node on the broker, typically the
// microcontroller wired to the servos. Angles go to
// <prefix>/actuator/<name>/set, the power line to <prefix>/music/power/set.
type Publisher struct {
	client MQTT.Client
	prefix string
}

func NewPublisher(client MQTT.Client, prefix string) *Publisher {
	return &Publisher{client: client, prefix: strings.Trim(prefix, "/")}
}

// AngleTopic is the topic carrying angles for a.
func (m *Publisher) AngleTopic(a state.Actuator) string {
	return m.prefix + "/actuator/" + a.String() + "/set"
}

// PowerTopic is the topic carrying the music power state.
func (m *Publisher) PowerTopic() string {
	return m.prefix + "/music/power/set"
}

func (m *Publisher) SetAngle(ctx context.Context, a state.Actuator, degrees int) error {
	if !a.IsServo() {
		return fmt.Errorf("%v does not take an angle", a)
	}
	return m.publish(ctx, m.AngleTopic(a), strconv.Itoa(degrees))
}

func (m *Publisher) SetPower(ctx context.Context, on bool) error {
	payload := PowerOff
	if on {
		payload = PowerOn
	}
	return m.publish(ctx, m.PowerTopic(), payload)
}

func (m *Publisher) publish(ctx context.Context, topic, payload string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// setpoints are retained so a rebooted controller picks up the last position
	if err := util.WaitToken(m.client.Publish(topic, 1, true, payload)); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	return nil
}
