package schedule

import (
	"math/rand"
	"time"
)

type jitter struct {
	inner  Schedule
	spread time.Duration
}

// Jitter wraps another schedule and pushes each fire time forward by a
// uniform random amount in [0, spread). Useful to keep a fleet of tasks
// on the same cadence from firing at the same instant.
func Jitter(inner Schedule, spread time.Duration) Schedule {
	if spread <= 0 {
		return inner
	}
	return &jitter{inner: inner, spread: spread}
}

func (s *jitter) Next(after time.Time) (time.Time, error) {
	next, err := s.inner.Next(after)
	if err != nil {
		return time.Time{}, err
	}
	return next.Add(time.Duration(rand.Int63n(int64(s.spread)))), nil
}
