// Package mqtttest provides in-memory paho client, token and message fakes for
// tests of the MQTT adapters.
package mqtttest

import (
	"sync"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
)

type PublishCall struct {
	Payload  interface{}
	Topic    string
	QoS      byte
	Retained bool
}

// PayloadString returns the payload as text whatever type it was published as.
func (p PublishCall) PayloadString() string {
	switch v := p.Payload.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

type SubscribeCall struct {
	Handler MQTT.MessageHandler
	Topic   string
	QoS     byte
}

// Client records publishes and subscriptions. PublishErr, when set, is
// returned by every publish token. PublishGate, when set before use, holds
// every publish until a value is received from it or it is closed, like a
// stalled broker.
type Client struct {
	mu             sync.RWMutex
	publishCalls   []PublishCall
	subscribeCalls []SubscribeCall
	connected      bool
	PublishErr     error
	PublishGate    chan struct{}
}

func NewClient() *Client {
	return &Client{connected: true}
}

func (m *Client) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

func (m *Client) IsConnectionOpen() bool { return m.IsConnected() }

func (m *Client) Connect() MQTT.Token {
	m.mu.Lock()
	m.connected = true
	m.mu.Unlock()
	return &Token{}
}

func (m *Client) Disconnect(quiesce uint) {
	m.mu.Lock()
	m.connected = false
	m.mu.Unlock()
}

func (m *Client) Publish(topic string, qos byte, retained bool, payload interface{}) MQTT.Token {
	if m.PublishGate != nil {
		<-m.PublishGate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishCalls = append(m.publishCalls, PublishCall{
		Topic:    topic,
		QoS:      qos,
		Retained: retained,
		Payload:  payload,
	})
	return &Token{Err: m.PublishErr}
}

func (m *Client) Subscribe(topic string, qos byte, callback MQTT.MessageHandler) MQTT.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribeCalls = append(m.subscribeCalls, SubscribeCall{
		Topic:   topic,
		QoS:     qos,
		Handler: callback,
	})
	return &Token{}
}

func (m *Client) SubscribeMultiple(filters map[string]byte, callback MQTT.MessageHandler) MQTT.Token {
	return &Token{}
}
func (m *Client) Unsubscribe(topics ...string) MQTT.Token             { return &Token{} }
func (m *Client) AddRoute(topic string, callback MQTT.MessageHandler) {}
func (m *Client) OptionsReader() MQTT.ClientOptionsReader             { return MQTT.ClientOptionsReader{} }

// Published returns a copy of every publish so far.
func (m *Client) Published() []PublishCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]PublishCall(nil), m.publishCalls...)
}

// PublishedTo returns the publishes sent to topic.
func (m *Client) PublishedTo(topic string) []PublishCall {
	var out []PublishCall
	for _, c := range m.Published() {
		if c.Topic == topic {
			out = append(out, c)
		}
	}
	return out
}

// Subscribed returns a copy of every subscription so far.
func (m *Client) Subscribed() []SubscribeCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]SubscribeCall(nil), m.subscribeCalls...)
}

// Deliver calls the handler of every subscription on topic with payload.
func (m *Client) Deliver(topic string, payload []byte) {
	for _, s := range m.Subscribed() {
		if s.Topic == topic && s.Handler != nil {
			s.Handler(m, &Message{TopicName: topic, Body: payload})
		}
	}
}

type Token struct {
	Err error
}

func (m *Token) Wait() bool                     { return true }
func (m *Token) WaitTimeout(time.Duration) bool { return true }
func (m *Token) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (m *Token) Error() error { return m.Err }

type Message struct {
	TopicName string
	Body      []byte
}

func (m *Message) Duplicate() bool   { return false }
func (m *Message) Qos() byte         { return 0 }
func (m *Message) Retained() bool    { return false }
func (m *Message) Topic() string     { return m.TopicName }
func (m *Message) MessageID() uint16 { return 0 }
func (m *Message) Payload() []byte   { return m.Body }
func (m *Message) Ack()              {}
