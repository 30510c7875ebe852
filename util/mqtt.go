package util

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
)

const (
	OnlinePayload  = "online"
	OfflinePayload = "offline"
)

// how long publish and subscribe calls wait for the broker
const mqttTimeout = 5 * time.Second

var ErrMQTTTimeout = errors.New("mqtt operation timed out")

var Client MQTT.Client

var (
	mqttMu          sync.Mutex
	subscriptions   map[string]MQTT.MessageHandler
	connectHandlers map[string]func(MQTT.Client)
)

// Topic joins parts under the configured topic prefix.
func Topic(parts ...string) string {
	prefix := strings.Trim(Config.GetString("topic_prefix"), "/")
	return strings.Join(append([]string{prefix}, parts...), "/")
}

// OnlineTopic is the availability topic, also used as the last will.
func OnlineTopic() string {
	return Topic("online")
}

var connectHandler MQTT.OnConnectHandler = func(client MQTT.Client) {
	Logger.Info().Msg("Connected")
	subscribe(client)
	if err := WaitToken(client.Publish(OnlineTopic(), 0, true, OnlinePayload)); err != nil {
		Logger.Warn().Msgf("Error publishing availability: %v", err)
	}
	mqttMu.Lock()
	handlers := make([]func(MQTT.Client), 0, len(connectHandlers))
	for _, handler := range connectHandlers {
		handlers = append(handlers, handler)
	}
	mqttMu.Unlock()
	for _, handler := range handlers {
		handler(client)
	}
}

func RegisterMQTTConnectHook(name string, handler func(MQTT.Client)) {
	mqttMu.Lock()
	defer mqttMu.Unlock()
	if connectHandlers == nil {
		connectHandlers = make(map[string]func(client MQTT.Client))
	}
	if handler == nil {
		delete(connectHandlers, name)
	} else {
		connectHandlers[name] = handler
	}
}

func subscribe(client MQTT.Client) {
	mqttMu.Lock()
	subs := make(map[string]MQTT.MessageHandler, len(subscriptions))
	for topic, handler := range subscriptions {
		subs[topic] = handler
	}
	mqttMu.Unlock()
	for topic, handler := range subs {
		if err := WaitToken(client.Subscribe(topic, 1, handler)); err != nil {
			Logger.Error().Msgf("Error Subscribing to %v: %v", topic, err)
		}
	}
}

// RegisterMQTTSubscription records a subscription replayed on every connect.
// A nil handler removes it.
func RegisterMQTTSubscription(topic string, handler MQTT.MessageHandler) {
	mqttMu.Lock()
	defer mqttMu.Unlock()
	if subscriptions == nil {
		subscriptions = make(map[string]MQTT.MessageHandler)
	}
	if handler == nil {
		delete(subscriptions, topic)
	} else {
		subscriptions[topic] = handler
	}
}

// WaitToken waits for t and returns its error, or ErrMQTTTimeout.
func WaitToken(t MQTT.Token) error {
	if !t.WaitTimeout(mqttTimeout) {
		return ErrMQTTTimeout
	}
	return t.Error()
}

func receiver(client MQTT.Client, message MQTT.Message) {
	Logger.Warn().Msgf("Received message on %v but no handler", message.Topic())
}

var connectLostHandler MQTT.ConnectionLostHandler = func(client MQTT.Client, err error) {
	Logger.Info().Msgf("Connect lost: %v", err)
}

// NewClientOptions builds the broker options from Config.
func NewClientOptions() *MQTT.ClientOptions {
	opts := MQTT.NewClientOptions()
	opts.AddBroker(Config.GetString("broker_uri"))
	opts.SetClientID(Config.GetString("id_base") + "_" + GetRandString(6))
	opts.SetUsername(Config.GetString("username"))
	opts.SetPassword(Config.GetString("password"))
	opts.SetCleanSession(Config.GetBool("cleansess"))
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(mqttTimeout)
	opts.SetWill(OnlineTopic(), OfflinePayload, 0, true)
	opts.OnConnectionLost = connectLostHandler
	opts.OnConnect = connectHandler
	opts.SetDefaultPublishHandler(receiver)
	return opts
}

// MqttInit replaces Client with a new connection built from Config. The client
// keeps retrying in the background when the first attempt times out.
func MqttInit() error {
	if Client != nil {
		Logger.Debug().Msg("Client exists - destroying")
		MqttClose()
	}

	Client = MQTT.NewClient(NewClientOptions())

	if err := WaitToken(Client.Connect()); err != nil {
		return fmt.Errorf("connecting to %v: %w", Config.GetString("broker_uri"), err)
	}
	return nil
}

// MqttClose publishes the offline marker and disconnects.
func MqttClose() {
	if Client == nil {
		return
	}
	if Client.IsConnected() {
		if err := WaitToken(Client.Publish(OnlineTopic(), 0, true, OfflinePayload)); err != nil {
			Logger.Warn().Msgf("Error publishing availability: %v", err)
		}
		Client.Disconnect(1000)
	}
	Client = nil
}
