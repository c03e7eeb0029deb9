package frame

import (
	"context"
	"fmt"

	"github.com/vnykmshr/chronoflow/pkg/task/hook"
)

// Selector picks which of a select frame's children runs, by index.
// The run count on the context makes round-robin selectors trivial:
//
//	frame.Select(func(_ context.Context, fc *frame.Context) int {
//		return int(fc.Runs) % 3
//	}, first, second, third)
type Selector func(ctx context.Context, fc *Context) int

type selectFrame struct {
	children []Frame
	selector Selector
}

// Select runs exactly one of its children per execution, chosen by the
// selector. A selection event carrying the chosen index is emitted
// before the child runs. An index outside the children is an error.
func Select(selector Selector, children ...Frame) Frame {
	return &selectFrame{children: children, selector: selector}
}

func (s *selectFrame) Execute(ctx context.Context, fc *Context) error {
	idx := s.selector(ctx, fc)
	if idx < 0 || idx >= len(s.children) {
		return fmt.Errorf("frame: select index %d out of range with %d children", idx, len(s.children))
	}
	fc.Emit(ctx, hook.KindFrameSelected, hook.SelectPayload{Index: idx})
	return s.children[idx].Execute(ctx, fc)
}
