package actuator

import (
	"context"
	"fmt"

	"github.com/hipsterbrown/feetech-servo/feetech"

	"github.com/elijahnyp/dancing_birds/birds"
	"github.com/elijahnyp/dancing_birds/state"
)

// Raw positions of a feetech STS servo per full turn.
const (
	PositionsPerTurn = 4096
	MaxPosition      = PositionsPerTurn - 1
)

// FeetechConfig describes the servo bus.
type FeetechConfig struct {
	Port     string
	BaudRate int
	// IDs maps every angle driven actuator to its servo ID on the bus.
	IDs map[state.Actuator]int
}

// positionWriter is the part of feetech.ServoGroup the backend uses.
type positionWriter interface {
	SetPositions(ctx context.Context, positions feetech.PositionMap) error
}

// Feetech drives the servos over a feetech bus. The music power line is not a
// servo; it is delegated to power.
type Feetech struct {
	bus   *feetech.Bus
	group positionWriter
	ids   map[state.Actuator]int
	power birds.Backend
}

// OpenFeetech opens the bus and enables torque on every configured servo.
func OpenFeetech(ctx context.Context, cfg FeetechConfig, power birds.Backend) (*Feetech, error) {
	if err := validateIDs(cfg.IDs); err != nil {
		return nil, err
	}

	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     cfg.Port,
		BaudRate: cfg.BaudRate,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	ids := make([]int, 0, len(cfg.IDs))
	for _, a := range state.Actuators() {
		if id, ok := cfg.IDs[a]; ok {
			ids = append(ids, id)
		}
	}
	group := feetech.NewServoGroupByIDs(bus, ids...)
	if err := group.EnableAll(ctx); err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("enable servos: %w", err)
	}

	return &Feetech{bus: bus, group: group, ids: cfg.IDs, power: power}, nil
}

func validateIDs(ids map[state.Actuator]int) error {
	seen := make(map[int]state.Actuator, len(ids))
	for a, id := range ids {
		if !a.IsServo() {
			return fmt.Errorf("%v cannot be a servo", a)
		}
		if other, dup := seen[id]; dup {
			return fmt.Errorf("servo id %d used by %v and %v", id, other, a)
		}
		seen[id] = a
	}
	return nil
}

// DegreesToPosition converts a physical angle to a raw bus position.
func DegreesToPosition(degrees int) int {
	pos := (degrees*PositionsPerTurn + 180) / 360
	switch {
	case pos < 0:
		return 0
	case pos > MaxPosition:
		return MaxPosition
	}
	return pos
}

func (f *Feetech) SetAngle(ctx context.Context, a state.Actuator, degrees int) error {
	id, ok := f.ids[a]
	if !ok {
		return fmt.Errorf("no servo id configured for %v", a)
	}
	if err := f.group.SetPositions(ctx, feetech.PositionMap{id: DegreesToPosition(degrees)}); err != nil {
		return fmt.Errorf("write %v position: %w", a, err)
	}
	return nil
}

func (f *Feetech) SetPower(ctx context.Context, on bool) error {
	if f.power == nil {
		return nil
	}
	return f.power.SetPower(ctx, on)
}

// Close closes the bus.
func (f *Feetech) Close() error {
	if f.bus == nil {
		return nil
	}
	return f.bus.Close()
}
