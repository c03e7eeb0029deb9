package frame

import (
	"context"

	"github.com/vnykmshr/chronoflow/pkg/task/hook"
)

// Predicate decides at run time whether a Conditional frame executes
// its child.
type Predicate func(ctx context.Context, fc *Context) bool

type conditionalFrame struct {
	inner     Frame
	predicate Predicate
	otherwise Frame
}

// Conditional evaluates predicate on each run. When true it executes
// inner; when false it executes otherwise if set, or returns ErrSkipped
// if not. A condition event is emitted with the predicate's result
// either way.
func Conditional(inner Frame, predicate Predicate) Frame {
	return &conditionalFrame{inner: inner, predicate: predicate}
}

// ConditionalElse is Conditional with an alternative frame that runs
// when the predicate is false.
func ConditionalElse(inner Frame, predicate Predicate, otherwise Frame) Frame {
	return &conditionalFrame{inner: inner, predicate: predicate, otherwise: otherwise}
}

func (c *conditionalFrame) Execute(ctx context.Context, fc *Context) error {
	if c.predicate(ctx, fc) {
		fc.Emit(ctx, hook.KindConditionTrue, nil)
		return c.inner.Execute(ctx, fc)
	}
	fc.Emit(ctx, hook.KindConditionFalse, nil)
	if c.otherwise != nil {
		return c.otherwise.Execute(ctx, fc)
	}
	return ErrSkipped
}
