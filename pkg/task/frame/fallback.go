package frame

import (
	"context"

	"github.com/vnykmshr/chronoflow/pkg/task/hook"
)

type fallbackFrame struct {
	primary   Frame
	secondary Frame
}

// Fallback runs primary and, if it fails, emits a fallback event and
// runs secondary, whose outcome becomes the frame's outcome. The
// primary's failure is not reported upward beyond the event. Skips and
// context cancellation do not trigger the fallback.
func Fallback(primary, secondary Frame) Frame {
	return &fallbackFrame{primary: primary, secondary: secondary}
}

func (f *fallbackFrame) Execute(ctx context.Context, fc *Context) error {
	err := f.primary.Execute(ctx, fc)
	if err == nil || IsSkip(err) || IsCancellation(err) {
		return err
	}
	fc.Emit(ctx, hook.KindFallback, hook.FallbackPayload{PrimaryErr: err})
	return f.secondary.Execute(ctx, fc)
}
