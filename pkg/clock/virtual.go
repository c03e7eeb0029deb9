package clock

import (
	"sync"
	"time"
)

// Virtual is a Clock whose time only moves when advanced explicitly.
// It is safe for concurrent use and is the intended clock for tests and
// simulations: waiters created with After are released by Advance or
// AdvanceTo, never by the passage of wall time.
type Virtual struct {
	mu      sync.Mutex
	now     time.Time
	waiters []waiter
}

type waiter struct {
	deadline time.Time
	ch       chan time.Time
}

// NewVirtual creates a Virtual clock starting at the given time.
// If zero time is provided, uses the current wall-clock time.
func NewVirtual(start time.Time) *Virtual {
	if start.IsZero() {
		start = time.Now()
	}
	return &Virtual{now: start}
}

// Now returns the current virtual time.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// After returns a channel that receives once the virtual clock has been
// advanced past now+d.
func (v *Virtual) After(d time.Duration) <-chan time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()

	ch := make(chan time.Time, 1)
	deadline := v.now.Add(d)
	if d <= 0 {
		ch <- v.now
		return ch
	}
	v.waiters = append(v.waiters, waiter{deadline: deadline, ch: ch})
	return ch
}

// Advance moves the virtual clock forward by d, releasing every waiter
// whose deadline has been reached.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	v.now = v.now.Add(d)
	v.release()
	v.mu.Unlock()
}

// AdvanceTo sets the virtual clock to t, releasing due waiters.
// Moving the clock backwards is not supported; an earlier t is ignored.
func (v *Virtual) AdvanceTo(t time.Time) {
	v.mu.Lock()
	if t.After(v.now) {
		v.now = t
		v.release()
	}
	v.mu.Unlock()
}

// release fires all waiters whose deadline has passed. Callers must hold mu.
func (v *Virtual) release() {
	remaining := v.waiters[:0]
	for _, w := range v.waiters {
		if !w.deadline.After(v.now) {
			w.ch <- v.now
		} else {
			remaining = append(remaining, w)
		}
	}
	v.waiters = remaining
}
