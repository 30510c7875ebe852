// Package actuator holds the birds.Backend implementations: a logging
// simulator, an MQTT publisher, a feetech servo bus and a fan-out.
package actuator

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/elijahnyp/dancing_birds/state"
)

// Log is a simulated exhibit. It records the last value sent to every
// actuator and logs each change.
type Log struct {
	mu     sync.Mutex
	angles map[state.Actuator]int
	power  bool
	logger zerolog.Logger
}

func NewLog(logger zerolog.Logger) *Log {
	return &Log{
		angles: make(map[state.Actuator]int),
		logger: logger,
	}
}

func (l *Log) SetAngle(ctx context.Context, a state.Actuator, degrees int) error {
	l.mu.Lock()
	l.angles[a] = degrees
	l.mu.Unlock()
	l.logger.Info().Str("actuator", a.String()).Int("degrees", degrees).Msg("set angle")
	return nil
}

func (l *Log) SetPower(ctx context.Context, on bool) error {
	l.mu.Lock()
	l.power = on
	l.mu.Unlock()
	l.logger.Info().Str("actuator", state.MusicPower.String()).Bool("on", on).Msg("set power")
	return nil
}

// Angle returns the last angle sent to a and whether one was sent.
func (l *Log) Angle(a state.Actuator) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, ok := l.angles[a]
	return d, ok
}

// Power returns the last music power state.
func (l *Log) Power() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.power
}
