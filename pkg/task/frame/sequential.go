package frame

import (
	"context"

	"github.com/vnykmshr/chronoflow/pkg/task/hook"
)

type sequentialFrame struct {
	children []Frame
}

// Sequential runs its children in order, emitting child start and end
// events around each. The first failure stops the sequence and becomes
// the frame's error. A skipped child does not stop the sequence.
func Sequential(children ...Frame) Frame {
	return &sequentialFrame{children: children}
}

func (s *sequentialFrame) Execute(ctx context.Context, fc *Context) error {
	for i, child := range s.children {
		if err := ctx.Err(); err != nil {
			return err
		}
		fc.Emit(ctx, hook.KindChildStart, hook.ChildPayload{Index: i})
		err := child.Execute(ctx, fc)
		fc.Emit(ctx, hook.KindChildEnd, hook.ChildPayload{Index: i, Err: err})
		if err != nil && !IsSkip(err) {
			return err
		}
	}
	return nil
}
