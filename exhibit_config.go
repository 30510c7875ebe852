package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cast"

	"github.com/elijahnyp/dancing_birds/actuator"
	"github.com/elijahnyp/dancing_birds/birds"
	"github.com/elijahnyp/dancing_birds/source"
	"github.com/elijahnyp/dancing_birds/state"
	. "github.com/elijahnyp/dancing_birds/util"
)

// FeetechIDsFromConfig reads the actuator name to servo ID table.
func FeetechIDsFromConfig() (map[state.Actuator]int, error) {
	raw := Config.GetStringMap("feetech_ids")
	ids := make(map[state.Actuator]int, len(raw))
	for name, v := range raw {
		a, ok := state.ParseActuator(strings.ToLower(name))
		if !ok {
			return nil, fmt.Errorf("feetech_ids: unknown actuator %q", name)
		}
		id, err := cast.ToIntE(v)
		if err != nil {
			return nil, fmt.Errorf("feetech_ids: %s: %w", name, err)
		}
		ids[a] = id
	}
	return ids, nil
}

// BuildBackend creates the configured actuator backend. The returned closer
// releases hardware, if any.
func BuildBackend(ctx context.Context, client MQTT.Client) (birds.Backend, io.Closer, error) {
	name := strings.ToLower(Config.GetString("backend"))
	simulated := actuator.NewLog(ComponentLogger("simulator"))

	switch name {
	case "log", "":
		return simulated, nil, nil

	case "mqtt":
		if client == nil {
			return nil, nil, fmt.Errorf("backend mqtt needs the broker connection")
		}
		return actuator.NewPublisher(client, Config.GetString("topic_prefix")), nil, nil

	case "feetech":
		ids, err := FeetechIDsFromConfig()
		if err != nil {
			return nil, nil, err
		}
		var power birds.Backend = simulated
		if client != nil {
			power = actuator.NewPublisher(client, Config.GetString("topic_prefix"))
		}
		f, err := actuator.OpenFeetech(ctx, actuator.FeetechConfig{
			Port:     Config.GetString("feetech_port"),
			BaudRate: Config.GetInt("feetech_baud"),
			IDs:      ids,
		}, power)
		if err != nil {
			return nil, nil, err
		}
		// mirror to the log so the run can be followed without a scope on the bus
		return actuator.Multi{f, simulated}, f, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", name)
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

// BuildSource creates the configured command source. MQTT subscriptions are
// registered here and take effect on connect.
func BuildSource() (birds.Source, io.Closer, error) {
	name := strings.ToLower(Config.GetString("source"))
	switch name {
	case "mqtt":
		sub := source.NewSubscriber(Topic("command"), 32, ComponentLogger("mqtt_source"))
		RegisterMQTTSubscription(sub.Topic(), sub.Handle)
		return sub, closeFunc(func() error {
			RegisterMQTTSubscription(sub.Topic(), nil)
			sub.Close()
			return nil
		}), nil

	case "serial":
		s, err := source.OpenSerial(Config.GetString("serial_port"), Config.GetInt("serial_baud"), ComponentLogger("serial_source"))
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	case "none", "":
		// commands only arrive through the monitor API
		return birds.ChanSource(make(chan byte)), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown source %q", name)
}

// NeedsMQTT reports whether the configuration uses the broker.
func NeedsMQTT() bool {
	return Config.GetBool("mqtt_enabled") ||
		strings.EqualFold(Config.GetString("source"), "mqtt") ||
		strings.EqualFold(Config.GetString("backend"), "mqtt")
}
