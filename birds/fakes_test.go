package birds

import (
	"context"
	"sync"
	"time"

	"github.com/elijahnyp/dancing_birds/state"
)

// Recording backend for testing

type SetCall struct {
	Actuator state.Actuator
	Degrees  int
	Power    bool
}

type RecordingBackend struct {
	mu    sync.Mutex
	calls []SetCall
	err   error
}

func (r *RecordingBackend) SetAngle(ctx context.Context, a state.Actuator, degrees int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, SetCall{Actuator: a, Degrees: degrees})
	return r.err
}

func (r *RecordingBackend) SetPower(ctx context.Context, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, SetCall{Actuator: state.MusicPower, Power: on})
	return r.err
}

func (r *RecordingBackend) Calls() []SetCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SetCall(nil), r.calls...)
}

func (r *RecordingBackend) CallsFor(a state.Actuator) []SetCall {
	var out []SetCall
	for _, c := range r.Calls() {
		if c.Actuator == a {
			out = append(out, c)
		}
	}
	return out
}

// Last returns the last angle sent to a, or -1 if none was sent.
func (r *RecordingBackend) Last(a state.Actuator) int {
	calls := r.CallsFor(a)
	if len(calls) == 0 {
		return -1
	}
	return calls[len(calls)-1].Degrees
}

// Waiter that returns immediately and records the requested holds

type InstantWaiter struct {
	mu    sync.Mutex
	holds []time.Duration
}

func (w *InstantWaiter) Wait(ctx context.Context, d time.Duration) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.holds = append(w.holds, d)
	return nil
}

func (w *InstantWaiter) Holds() []time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]time.Duration(nil), w.holds...)
}

// Waiter that blocks until the test opens the gate

type GateWaiter struct {
	gate    chan struct{}
	entered chan time.Duration
}

func NewGateWaiter() *GateWaiter {
	return &GateWaiter{
		gate:    make(chan struct{}),
		entered: make(chan time.Duration, 10),
	}
}

func (w *GateWaiter) Wait(ctx context.Context, d time.Duration) error {
	w.entered <- d
	select {
	case <-w.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *GateWaiter) Open() {
	close(w.gate)
}

// identityRange maps logical angles to the same physical angle
var identityRange = AngleRange{Min: 0, Max: 180}

func newTestExhibit(w Waiter) (*Exhibit, *RecordingBackend) {
	backend := &RecordingBackend{}
	e := New(backend, WithWaiter(w), WithAngleRange(identityRange))
	return e, backend
}
