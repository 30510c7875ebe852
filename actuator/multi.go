package actuator

import (
	"context"
	"errors"

	"github.com/elijahnyp/dancing_birds/birds"
	"github.com/elijahnyp/dancing_birds/state"
)

// Multi sends every request to each backend in order. All backends are tried;
// the errors are joined.
type Multi []birds.Backend

func (m Multi) SetAngle(ctx context.Context, a state.Actuator, degrees int) error {
	var errs []error
	for _, b := range m {
		if err := b.SetAngle(ctx, a, degrees); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) SetPower(ctx context.Context, on bool) error {
	var errs []error
	for _, b := range m {
		if err := b.SetPower(ctx, on); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
