package clock

import "time"

// Clock supplies the current time and an interruptible wait primitive.
//
// After returns a channel that receives once the clock has advanced past
// now+d. For the system clock this is time.After; virtual clocks fire the
// channel when time is advanced manually, which lets tests drive the
// scheduler without real waiting.
type Clock interface {
	// Now returns the clock's current time.
	Now() time.Time

	// After returns a channel that receives the clock's time once at
	// least d has elapsed. A non-positive d fires immediately.
	After(d time.Duration) <-chan time.Time
}

// System is a Clock backed by the wall clock.
type System struct{}

// NewSystem returns a Clock backed by the wall clock.
func NewSystem() Clock {
	return System{}
}

// Now returns the current wall-clock time.
func (System) Now() time.Time {
	return time.Now()
}

// After wraps time.After.
func (System) After(d time.Duration) <-chan time.Time {
	if d <= 0 {
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}
	return time.After(d)
}
