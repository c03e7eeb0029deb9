package frame

import (
	"context"
	"time"

	"github.com/vnykmshr/chronoflow/pkg/task/hook"
)

type timeoutFrame struct {
	inner Frame
	limit time.Duration
}

// Timeout bounds its child's execution to limit. When the budget
// expires the child's context is cancelled, a timeout event is emitted
// exactly once, and ErrTimeout is returned. A child that finishes in
// time propagates its result unchanged.
func Timeout(inner Frame, limit time.Duration) Frame {
	return &timeoutFrame{inner: inner, limit: limit}
}

func (t *timeoutFrame) Execute(ctx context.Context, fc *Context) error {
	if t.limit <= 0 {
		return t.inner.Execute(ctx, fc)
	}

	inner, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- t.inner.Execute(inner, fc)
	}()

	select {
	case err := <-done:
		return err
	case <-fc.Clock.After(t.limit):
		cancel()
		fc.Emit(ctx, hook.KindTimeout, hook.TimeoutPayload{Limit: t.limit})
		return ErrTimeout
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}
