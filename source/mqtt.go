package source

import (
	"sync"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/elijahnyp/dancing_birds/birds"
)

// Subscriber turns messages on a command topic into wire codes. The payload
// is anything birds.ParseCommand accepts.
type Subscriber struct {
	topic  string
	mu     sync.Mutex
	codes  chan byte
	closed bool
	logger zerolog.Logger
}

func NewSubscriber(topic string, buffer int, logger zerolog.Logger) *Subscriber {
	return &Subscriber{
		topic:  topic,
		codes:  make(chan byte, buffer),
		logger: logger,
	}
}

func (s *Subscriber) Topic() string {
	return s.topic
}

// Handle is the message handler registered for the command topic. Messages
// arriving while the buffer is full are dropped.
func (s *Subscriber) Handle(client MQTT.Client, message MQTT.Message) {
	cmd, err := birds.ParseCommand(string(message.Payload()))
	if err != nil {
		s.logger.Warn().Err(err).Msgf("ignoring message on %v", message.Topic())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.codes <- byte(cmd):
		s.logger.Debug().Msgf("queued %v", cmd)
	default:
		s.logger.Warn().Msgf("command queue full, dropping %v", cmd)
	}
}

func (s *Subscriber) Codes() <-chan byte {
	return s.codes
}

// Close ends the source. Later messages are ignored.
func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.codes)
	}
}
