package frame

import (
	"context"
	"time"

	"github.com/vnykmshr/chronoflow/pkg/task/hook"
)

type delayFrame struct {
	inner Frame
	wait  time.Duration
}

// Delay waits for the given duration before executing its child,
// emitting delay start and end events around the wait.
func Delay(inner Frame, wait time.Duration) Frame {
	return &delayFrame{inner: inner, wait: wait}
}

func (d *delayFrame) Execute(ctx context.Context, fc *Context) error {
	fc.Emit(ctx, hook.KindDelayStart, nil)
	if err := idle(ctx, fc.Clock, d.wait); err != nil {
		return err
	}
	fc.Emit(ctx, hook.KindDelayEnd, nil)
	return d.inner.Execute(ctx, fc)
}
