package birds

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/elijahnyp/dancing_birds/state"
)

// Exhibit owns the status of one exhibit run and executes what the dispatcher
// and the dance scheduler decide. Every status mutation and every backend call
// happens under one lock; only the hold phase of a pulse runs unlocked.
type Exhibit struct {
	mu       sync.Mutex
	status   state.Status
	dance    Dance
	timing   Timing
	angles   AngleRange
	backend  Backend
	waiter   Waiter
	logger   zerolog.Logger
	watchers []func(state.Status)

	// seq numbers status changes; danceGen counts off to on transitions.
	seq      uint64
	danceGen uint64

	// notifyMu serialises watcher calls; notified is the last seq delivered.
	notifyMu sync.Mutex
	notified uint64

	pulses sync.WaitGroup
	// kick wakes Run when dance mode or the stopped flag changed.
	kick   chan struct{}
}

// change is a status snapshot waiting to be delivered to the watchers.
type change struct {
	seq      uint64
	status   state.Status
	watchers []func(state.Status)
}

// Option configures an Exhibit.
type Option func(*Exhibit)

// WithTiming overrides the hold and dance durations.
func WithTiming(t Timing) Option {
	return func(e *Exhibit) { e.timing = t.withDefaults() }
}

// WithAngleRange sets the physical servo travel.
func WithAngleRange(r AngleRange) Option {
	return func(e *Exhibit) {
		if r.Valid() {
			e.angles = r
		}
	}
}

// WithWaiter replaces the wall clock wait used by pulses.
func WithWaiter(w Waiter) Option {
	return func(e *Exhibit) { e.waiter = w }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Exhibit) { e.logger = l }
}

// New creates an exhibit in the power-on state driving backend.
func New(backend Backend, opts ...Option) *Exhibit {
	e := &Exhibit{
		status:  state.New(),
		timing:  DefaultTiming(),
		angles:  DefaultAngleRange,
		backend: backend,
		waiter:  SleepWaiter{},
		logger:  zerolog.Nop(),
		kick:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot returns a copy of the current status.
func (e *Exhibit) Snapshot() state.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Timing returns the durations in use.
func (e *Exhibit) Timing() Timing {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timing
}

// SetTiming replaces the durations. Pulses already in flight keep their hold.
func (e *Exhibit) SetTiming(t Timing) {
	e.mu.Lock()
	e.timing = t.withDefaults()
	e.mu.Unlock()
	e.logger.Debug().Msgf("timing updated: %+v", t.withDefaults())
}

// OnChange registers fn to receive a snapshot after every status change. fn is
// called outside the exhibit lock, in registration order, one change at a
// time. A change that lost the race to a newer one is skipped. fn must not
// dispatch commands.
func (e *Exhibit) OnChange(fn func(state.Status)) {
	e.mu.Lock()
	e.watchers = append(e.watchers, fn)
	e.mu.Unlock()
}

// DispatchCode decodes a wire byte and dispatches it.
func (e *Exhibit) DispatchCode(ctx context.Context, b byte) error {
	cmd, err := Decode(b)
	if err != nil {
		e.logger.Warn().Err(err).Msg("ignoring command")
		return err
	}
	return e.Dispatch(ctx, cmd)
}

// Dispatch applies one command. Timed sequences are started and keep running
// after Dispatch returns; use Wait to wait for them.
func (e *Exhibit) Dispatch(ctx context.Context, cmd Command) error {
	e.mu.Lock()
	wasDancing, wasStopped := e.status.DanceActive, e.status.Stopped

	actions, err := Dispatch(cmd, &e.status, e.timing)
	if err != nil {
		e.mu.Unlock()
		e.logDropped(cmd, err)
		return err
	}
	e.logger.Debug().Msgf("dispatched %v", cmd)

	if e.status.DanceActive && !wasDancing {
		e.dance.Reset()
		e.danceGen++
	}
	e.applyLocked(ctx, actions.Intents...)
	if actions.Pulse != nil {
		e.applyLocked(ctx, actions.Pulse.PressIntent())
		e.pulses.Add(1)
		go e.finishPulse(context.WithoutCancel(ctx), *actions.Pulse)
	}
	c := e.changeLocked()
	e.mu.Unlock()

	if c.status.DanceActive != wasDancing || c.status.Stopped != wasStopped {
		e.wake()
	}
	e.deliver(c)
	return nil
}

func (e *Exhibit) logDropped(cmd Command, err error) {
	switch {
	case errors.Is(err, ErrBusy):
		e.logger.Info().Msgf("dropping %v: %v", cmd, err)
	case errors.Is(err, ErrStopped):
		e.logger.Debug().Msgf("dropping %v: %v", cmd, err)
	default:
		e.logger.Warn().Err(err).Msgf("dropping %v", cmd)
	}
}

// finishPulse holds the pressed actuator and releases it. The release runs
// even if the hold is cut short.
func (e *Exhibit) finishPulse(ctx context.Context, p Pulse) {
	defer e.pulses.Done()
	defer func() {
		e.mu.Lock()
		e.applyLocked(ctx, p.ReleaseIntent())
		p.Finish(&e.status)
		c := e.changeLocked()
		e.mu.Unlock()
		e.deliver(c)
	}()

	if err := e.waiter.Wait(ctx, p.Hold); err != nil {
		e.logger.Warn().Err(err).Msgf("%v hold interrupted", p.Actuator)
	}
}

// Wait blocks until every timed sequence in flight has released.
func (e *Exhibit) Wait() {
	e.pulses.Wait()
}

// Tick runs one dance step. It reports the delay before the next step, or
// false when dance mode is off.
func (e *Exhibit) Tick(ctx context.Context) (time.Duration, bool) {
	e.mu.Lock()
	if !e.status.DanceActive || e.status.Stopped {
		e.mu.Unlock()
		return 0, false
	}

	intents, next := e.dance.Tick(&e.status, e.timing)
	e.applyLocked(ctx, intents...)
	phase := e.dance.Phase()
	var c change
	if len(intents) > 0 {
		c = e.changeLocked()
	}
	e.mu.Unlock()

	if phase == PhaseResting {
		e.logger.Info().Msgf("dance resting for %v", next)
	}
	if len(intents) > 0 {
		e.deliver(c)
	}
	return next, true
}

// DancePhase returns the phase of the dance scheduler.
func (e *Exhibit) DancePhase() DancePhase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dance.Phase()
}

// Run consumes commands from src and drives the dance loop until Stop is
// dispatched, src is closed, or ctx is done. Timed sequences are allowed to
// finish before Run returns.
func (e *Exhibit) Run(ctx context.Context, src Source) error {
	defer e.Wait()

	timer := time.NewTimer(time.Hour)
	stopTimer(timer)
	armed := false
	arm := func(d time.Duration) {
		if armed {
			stopTimer(timer)
		}
		timer.Reset(d)
		armed = true
	}

	e.logger.Info().Msg("exhibit running")
	active, _, gen := e.danceState()
	if active {
		arm(0)
	}

	codes := src.Codes()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case b, ok := <-codes:
			if !ok {
				e.logger.Info().Msg("command source closed")
				return nil
			}
			// errors are logged by the exhibit and never end the run
			_ = e.DispatchCode(ctx, b)

		case <-e.kick:
			active, stopped, current := e.danceState()
			if stopped {
				e.logger.Info().Msg("stop received, exhibit at rest")
				return nil
			}
			// a new generation means dance was switched back on, possibly
			// while the old timer still counts down a rest
			if active && (!armed || current != gen) {
				arm(0)
			} else if !active && armed {
				stopTimer(timer)
				armed = false
			}
			gen = current

		case <-timer.C:
			armed = false
			if next, ok := e.Tick(ctx); ok {
				arm(next)
			}
		}
	}
}

func (e *Exhibit) wake() {
	select {
	case e.kick <- struct{}{}:
	default:
	}
}

// applyLocked sends intents to the backend. Callers hold e.mu.
func (e *Exhibit) applyLocked(ctx context.Context, intents ...Intent) {
	for _, in := range intents {
		if in.Actuator == state.MusicPower {
			if err := e.backend.SetPower(ctx, in.Power); err != nil {
				e.logger.Error().Err(err).Msgf("failed to apply %v", in)
			}
			continue
		}

		angle, err := ClampLogical(in.Angle)
		if err != nil {
			e.logger.Warn().Err(err).Msgf("clamped %v", in)
		}
		if err := e.backend.SetAngle(ctx, in.Actuator, e.angles.Physical(angle)); err != nil {
			e.logger.Error().Err(err).Msgf("failed to apply %v", in)
		}
	}
}

// changeLocked stamps the current status for delivery. Callers hold e.mu.
func (e *Exhibit) changeLocked() change {
	e.seq++
	return change{seq: e.seq, status: e.status, watchers: e.watchers}
}

// deliver calls the watchers with c unless a newer change already reached
// them, so the last snapshot a watcher saw is never older than the status.
func (e *Exhibit) deliver(c change) {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	if c.seq <= e.notified {
		return
	}
	e.notified = c.seq
	notify(c.watchers, c.status)
}

// danceState reads what Run needs to schedule the dance.
func (e *Exhibit) danceState() (active, stopped bool, gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status.DanceActive, e.status.Stopped, e.danceGen
}

func notify(watchers []func(state.Status), s state.Status) {
	for _, w := range watchers {
		w(s)
	}
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
