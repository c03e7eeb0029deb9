package frame

import (
	"math/rand"
	"time"
)

// Backoff computes the wait before a retry attempt. Attempt numbering
// starts at 1 for the wait preceding the second execution.
type Backoff interface {
	Delay(attempt int) time.Duration
}

// BackoffFunc adapts a function to the Backoff interface.
type BackoffFunc func(attempt int) time.Duration

// Delay implements Backoff.
func (f BackoffFunc) Delay(attempt int) time.Duration {
	return f(attempt)
}

// ConstantBackoff waits the same duration before every retry.
func ConstantBackoff(d time.Duration) Backoff {
	return BackoffFunc(func(int) time.Duration {
		return d
	})
}

// ExponentialBackoff doubles the wait on each attempt, starting at
// initial and capped at max. A non-positive max means no cap.
func ExponentialBackoff(initial, max time.Duration) Backoff {
	return BackoffFunc(func(attempt int) time.Duration {
		d := initial
		for i := 1; i < attempt; i++ {
			d *= 2
			if max > 0 && d >= max {
				return max
			}
		}
		if max > 0 && d > max {
			return max
		}
		return d
	})
}

// JitterBackoff wraps another backoff and spreads each delay uniformly
// over [d*(1-spread), d*(1+spread)]. Spread is clamped to [0, 1].
func JitterBackoff(base Backoff, spread float64) Backoff {
	if spread < 0 {
		spread = 0
	}
	if spread > 1 {
		spread = 1
	}
	return BackoffFunc(func(attempt int) time.Duration {
		d := base.Delay(attempt)
		if d <= 0 || spread == 0 {
			return d
		}
		f := 1 - spread + 2*spread*rand.Float64()
		return time.Duration(float64(d) * f)
	})
}
