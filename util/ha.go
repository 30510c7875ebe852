package util

import (
	"encoding/json"
	"fmt"

	MQTT "github.com/eclipse/paho.mqtt.golang"
)

type HAAvdvertisementAvailability struct {
	Topic               string `json:"topic"`                 // : "dancing_birds/online"
	PayloadAvailable    string `json:"payload_available"`     // : "online"
	PayloadNotAvailable string `json:"payload_not_available"` // : "offline"
}

type HADeviceSpec struct {
	Name        string   `json:"name"` // : "Dancing Birds"
	Identifiers []string `json:"ids"`  // : ["dancing_birds"]
}

type HAAdvertisement struct { //nolint:govet // struct layout optimized for JSON field order
	HAAvdvertisementAvailability []HAAvdvertisementAvailability `json:"availability"`
	Device                       HADeviceSpec                   `json:"device"`
	UniqueID                     string                         `json:"uniq_id"`     // "dancing_birds_music_on"
	Name                         string                         `json:"name"`        // : "Music"
	StateTopic                   string                         `json:"state_topic"` // : "dancing_birds/status"
	ValueTemplate                string                         `json:"value_template"`
	PayloadOn                    string                         `json:"payload_on"`
	PayloadOff                   string                         `json:"payload_off"`
	DeviceClass                  string                         `json:"device_class,omitempty"`
	Icon                         string                         `json:"icon,omitempty"`
	Platform                     string                         `json:"platform"` // "binary_sensor"
	Qos                          int                            `json:"qos"`
}

// HASensor is one boolean field of the status document exposed as a
// Home Assistant binary sensor.
type HASensor struct {
	Field string // json field of the status document
	Name  string
	Icon  string
}

// HASensors are the status fields advertised to Home Assistant.
var HASensors = []HASensor{
	{Field: "music_on", Name: "Music", Icon: "mdi:music"},
	{Field: "dance_active", Name: "Dance", Icon: "mdi:bird"},
	{Field: "bird_jump_requested", Name: "Jump", Icon: "mdi:arrow-up-bold"},
	{Field: "music_change_requested", Name: "Track Change", Icon: "mdi:skip-next"},
	{Field: "stopped", Name: "Stopped", Icon: "mdi:stop"},
}

func (ha HAAdvertisement) ToJson() string {
	data, err := json.Marshal(ha)
	if err != nil {
		Logger.Error().Msgf("Error marshalling HAAdvertisement: %v", err)
		return ""
	}
	return string(data)
}

func deviceID() string {
	return Config.GetString("id_base")
}

func ConstructHAAdvertisement(sensor HASensor, stateTopic string) HAAdvertisement {
	return HAAdvertisement{
		Name:          sensor.Name,
		StateTopic:    stateTopic,
		ValueTemplate: fmt.Sprintf("{{ 'ON' if value_json.%s else 'OFF' }}", sensor.Field),
		PayloadOn:     "ON",
		PayloadOff:    "OFF",
		HAAvdvertisementAvailability: []HAAvdvertisementAvailability{
			{
				Topic:               OnlineTopic(),
				PayloadAvailable:    OnlinePayload,
				PayloadNotAvailable: OfflinePayload,
			},
		},
		Qos:      0,
		UniqueID: deviceID() + "_" + sensor.Field,
		Icon:     sensor.Icon,
		Platform: "binary_sensor",
		Device: HADeviceSpec{
			Name:        "Dancing Birds",
			Identifiers: []string{deviceID()},
		},
	}
}

// HAConfigTopic is the discovery topic of one sensor.
func HAConfigTopic(sensor HASensor) string {
	return "homeassistant/binary_sensor/" + deviceID() + "/" + sensor.Field + "/config"
}

// AdvertiseHA publishes a retained discovery document for every sensor.
func AdvertiseHA(client MQTT.Client, stateTopic string) {
	for _, sensor := range HASensors {
		ha := ConstructHAAdvertisement(sensor, stateTopic)
		if err := WaitToken(client.Publish(HAConfigTopic(sensor), 0, true, ha.ToJson())); err != nil {
			Logger.Error().Msgf("Error Publishing: %v", fmt.Errorf("%v", err))
		}
	}
}
