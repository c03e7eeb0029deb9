package schedule

import (
	"sync"
	"time"
)

type interval struct {
	period time.Duration
}

// Every fires once per period, anchored to the first fire time: runs
// land at t0, t0+period, t0+2*period regardless of how long each run
// takes. A non-positive period fires as fast as the scheduler allows.
func Every(period time.Duration) Schedule {
	return &interval{period: period}
}

func (s *interval) Next(after time.Time) (time.Time, error) {
	if s.period <= 0 {
		return after, nil
	}
	return after.Add(s.period), nil
}

type immediate struct {
	mu    sync.Mutex
	fired bool
}

// Immediate fires exactly once, as soon as the scheduler sees the task.
// Each task needs its own instance.
func Immediate() Schedule {
	return &immediate{}
}

func (s *immediate) Next(after time.Time) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fired {
		return time.Time{}, ErrExhausted
	}
	s.fired = true
	return after, nil
}

// At fires exactly once at the given instant.
func At(t time.Time) Schedule {
	return Calendar(t)
}
