package frame

import (
	"context"
	"fmt"

	"github.com/vnykmshr/chronoflow/pkg/task/hook"
)

// RetryGate is implemented by hooks that can veto further retry
// attempts, such as a circuit breaker. When a Retry frame finds a gate
// in the task's hook container it consults it before every retry.
type RetryGate interface {
	hook.Hook
	AllowRetry() bool
}

type retryFrame struct {
	inner    Frame
	attempts int
	backoff  Backoff
}

// Retry re-executes its child up to attempts times, waiting per backoff
// between attempts. It emits a retry event before each re-execution.
// Skips and context cancellation are terminal and never retried. When
// every attempt fails the returned error is a *RetryExhaustedError
// wrapping the last failure.
func Retry(inner Frame, attempts int, backoff Backoff) Frame {
	if attempts < 1 {
		attempts = 1
	}
	if backoff == nil {
		backoff = ConstantBackoff(0)
	}
	return &retryFrame{inner: inner, attempts: attempts, backoff: backoff}
}

func (r *retryFrame) Execute(ctx context.Context, fc *Context) error {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if attempt > 1 {
			if gate, ok := hook.Get[RetryGate](fc.Hooks, hook.KindNone); ok && !gate.AllowRetry() {
				return fmt.Errorf("frame: retry vetoed: %w", lastErr)
			}
			if err := idle(ctx, fc.Clock, r.backoff.Delay(attempt-1)); err != nil {
				return err
			}
			fc.Emit(ctx, hook.KindRetryAttempt, hook.RetryPayload{
				Attempt: attempt,
				LastErr: lastErr,
			})
		}

		err := r.inner.Execute(ctx, fc)
		if err == nil {
			return nil
		}
		if IsSkip(err) || IsCancellation(err) {
			return err
		}
		lastErr = err
	}
	return &RetryExhaustedError{Attempts: r.attempts, LastErr: lastErr}
}
