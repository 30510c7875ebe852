// Package source holds the birds.Source implementations: an MQTT command topic
// and a serial line.
package source

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"go.bug.st/serial"
)

// Serial reads wire codes from a byte stream, one command per byte. Line
// endings are skipped so the codes can be typed on a terminal.
type Serial struct {
	port      io.ReadCloser
	codes     chan byte
	done      chan struct{}
	closeOnce sync.Once
	logger    zerolog.Logger
}

// OpenSerial opens a serial port and starts reading it.
func OpenSerial(name string, baud int, logger zerolog.Logger) (*Serial, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}
	logger.Info().Msgf("reading commands from %s at %d baud", name, baud)
	return NewSerial(port, logger), nil
}

// NewSerial starts reading r. The source ends when r returns an error.
func NewSerial(r io.ReadCloser, logger zerolog.Logger) *Serial {
	s := &Serial{
		port:   r,
		codes:  make(chan byte, 16),
		done:   make(chan struct{}),
		logger: logger,
	}
	go s.read()
	return s
}

func (s *Serial) read() {
	defer close(s.codes)
	buf := make([]byte, 64)
	for {
		n, err := s.port.Read(buf)
		for _, b := range buf[:n] {
			if b == '\r' || b == '\n' {
				continue
			}
			select {
			case s.codes <- b:
			case <-s.done:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !s.closed() {
				s.logger.Error().Err(err).Msg("serial read failed")
			}
			return
		}
	}
}

func (s *Serial) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Serial) Codes() <-chan byte {
	return s.codes
}

// Close stops reading and closes the port.
func (s *Serial) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.port.Close()
	})
	return err
}
