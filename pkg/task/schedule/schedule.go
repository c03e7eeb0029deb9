package schedule

import (
	"errors"
	"time"
)

// ErrExhausted is returned by Next when a schedule has no further runs.
// It signals normal completion, not a failure.
var ErrExhausted = errors.New("schedule: no further runs")

// Schedule computes when a task fires. Implementations must be safe for
// concurrent use unless documented otherwise.
//
// The scheduler passes the previous planned fire time (or the
// submission time for the first run) as after, so interval schedules
// stay anchored to the original cadence instead of drifting with
// execution time.
type Schedule interface {
	// Next returns the first fire time strictly after the given
	// instant, or ErrExhausted when no runs remain. Any other error
	// marks the schedule as broken.
	Next(after time.Time) (time.Time, error)
}

// Func adapts a function to the Schedule interface.
type Func func(after time.Time) (time.Time, error)

// Next implements Schedule.
func (f Func) Next(after time.Time) (time.Time, error) {
	return f(after)
}
