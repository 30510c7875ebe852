package util

import (
	"errors"
	"strings"
	"testing"

	MQTT "github.com/eclipse/paho.mqtt.golang"

	"github.com/elijahnyp/dancing_birds/util/mqtttest"
)

func TestRegisterMQTTConnectHook(t *testing.T) {
	connectHandlers = make(map[string]func(MQTT.Client))

	called := false
	RegisterMQTTConnectHook("test_handler", func(client MQTT.Client) {
		called = true
	})

	if len(connectHandlers) != 1 {
		t.Errorf("Expected 1 connect handler, got %d", len(connectHandlers))
	}

	connectHandlers["test_handler"](mqtttest.NewClient())
	if !called {
		t.Error("Connect handler should have been called")
	}

	RegisterMQTTConnectHook("test_handler", nil)
	if len(connectHandlers) != 0 {
		t.Errorf("Expected 0 connect handlers after removal, got %d", len(connectHandlers))
	}
}

func TestRegisterMQTTSubscription(t *testing.T) {
	subscriptions = make(map[string]MQTT.MessageHandler)

	RegisterMQTTSubscription("test/topic", func(client MQTT.Client, message MQTT.Message) {})

	if len(subscriptions) != 1 {
		t.Errorf("Expected 1 subscription, got %d", len(subscriptions))
	}
	if subscriptions["test/topic"] == nil {
		t.Error("Subscription handler should not be nil")
	}

	RegisterMQTTSubscription("test/topic", nil)
	if len(subscriptions) != 0 {
		t.Errorf("Expected 0 subscriptions after removal, got %d", len(subscriptions))
	}
}

func TestSubscribe(t *testing.T) {
	client := mqtttest.NewClient()

	subscriptions = make(map[string]MQTT.MessageHandler)
	received := ""
	RegisterMQTTSubscription("test/topic1", func(c MQTT.Client, m MQTT.Message) { received = string(m.Payload()) })
	RegisterMQTTSubscription("test/topic2", func(c MQTT.Client, m MQTT.Message) {})

	subscribe(client)

	calls := client.Subscribed()
	if len(calls) != 2 {
		t.Fatalf("Expected 2 subscribe calls, got %d", len(calls))
	}
	for _, call := range calls {
		if call.QoS != 1 {
			t.Errorf("Subscription to %s uses QoS %d, expected 1", call.Topic, call.QoS)
		}
	}

	client.Deliver("test/topic1", []byte("jump"))
	if received != "jump" {
		t.Errorf("handler received %q, expected jump", received)
	}
}

func TestConnectHandler(t *testing.T) {
	client := mqtttest.NewClient()

	subscriptions = make(map[string]MQTT.MessageHandler)
	connectHandlers = make(map[string]func(MQTT.Client))

	handlerCalled := false
	RegisterMQTTConnectHook("test", func(client MQTT.Client) {
		handlerCalled = true
	})

	connectHandler(client)

	online := client.PublishedTo(OnlineTopic())
	if len(online) != 1 {
		t.Fatalf("Connect handler should publish online once, got %v", client.Published())
	}
	if online[0].PayloadString() != OnlinePayload || !online[0].Retained {
		t.Errorf("online message = %+v, expected retained %q", online[0], OnlinePayload)
	}
	if !handlerCalled {
		t.Error("Custom connect handler should have been called")
	}
}

func TestTopic(t *testing.T) {
	prefix := Config.GetString("topic_prefix")

	if got := Topic("status"); got != prefix+"/status" {
		t.Errorf("Topic(status) = %s, expected %s/status", got, prefix)
	}
	if got := Topic("actuator", "bird1", "set"); got != prefix+"/actuator/bird1/set" {
		t.Errorf("Topic(actuator, bird1, set) = %s", got)
	}
	if !strings.HasSuffix(OnlineTopic(), "/online") {
		t.Errorf("OnlineTopic() = %s, expected /online suffix", OnlineTopic())
	}
}

func TestWaitToken(t *testing.T) {
	if err := WaitToken(&mqtttest.Token{}); err != nil {
		t.Errorf("WaitToken returned %v, expected nil", err)
	}
	boom := errors.New("boom")
	if err := WaitToken(&mqtttest.Token{Err: boom}); !errors.Is(err, boom) {
		t.Errorf("WaitToken returned %v, expected boom", err)
	}
}

func TestNewClientOptions(t *testing.T) {
	Config.Set("broker_uri", "tcp://test.mqtt.broker:1883")
	Config.Set("id_base", "test_client")
	Config.Set("username", "test_user")
	defer func() {
		Config.Set("broker_uri", "tcp://mqtt:1883")
		Config.Set("id_base", "dancing_birds")
		Config.Set("username", "")
	}()

	opts := NewClientOptions()

	if len(opts.Servers) != 1 || opts.Servers[0].Host != "test.mqtt.broker:1883" {
		t.Errorf("Servers = %v", opts.Servers)
	}
	if !strings.HasPrefix(opts.ClientID, "test_client_") || len(opts.ClientID) != len("test_client_")+6 {
		t.Errorf("ClientID = %s", opts.ClientID)
	}
	if opts.Username != "test_user" {
		t.Errorf("Username = %s", opts.Username)
	}
	if !opts.WillEnabled || opts.WillTopic != OnlineTopic() || string(opts.WillPayload) != OfflinePayload || !opts.WillRetained {
		t.Errorf("will = %v %s %s %v", opts.WillEnabled, opts.WillTopic, opts.WillPayload, opts.WillRetained)
	}
}

func TestMqttClose(t *testing.T) {
	client := mqtttest.NewClient()
	Client = client

	MqttClose()

	if Client != nil {
		t.Error("Client should be cleared")
	}
	if client.IsConnected() {
		t.Error("client should be disconnected")
	}
	offline := client.PublishedTo(OnlineTopic())
	if len(offline) != 1 || offline[0].PayloadString() != OfflinePayload {
		t.Errorf("offline publishes = %v", offline)
	}
}

func TestReceiverFunction(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("receiver function should not panic: %v", r)
		}
	}()

	receiver(mqtttest.NewClient(), &mqtttest.Message{TopicName: "unknown/topic", Body: []byte("test payload")})
}
