package frame

import (
	"context"
	"time"

	"github.com/vnykmshr/chronoflow/pkg/clock"
	"github.com/vnykmshr/chronoflow/pkg/task/hook"
)

// Frame is one node of an execution tree. A leaf frame wraps a user
// action; decorator frames own child frames and add behavior around
// them (retries, timeouts, fallbacks, gating). Trees are immutable
// after construction: changing a task's behavior means building a new
// tree.
//
// Execute must respect ctx cancellation at every suspension point
// (timer waits, child invocations, dependency waits). Cancellation is
// cooperative: a frame that never suspends cannot be interrupted
// mid-step.
type Frame interface {
	Execute(ctx context.Context, fc *Context) error
}

// Func is a leaf frame wrapping a plain action.
type Func func(ctx context.Context) error

// Execute implements Frame.
func (f Func) Execute(ctx context.Context, _ *Context) error {
	return f(ctx)
}

// NoOp is a leaf frame that does nothing and always succeeds. Useful as
// a placeholder where a frame is structurally required.
type NoOp struct{}

// Execute implements Frame.
func (NoOp) Execute(context.Context, *Context) error {
	return nil
}

// Context carries per-run information through a frame tree: the owning
// task's identity, its hook container for event emission and lookup,
// and the clock timing decorators wait on.
type Context struct {
	// TaskID and Label identify the owning task.
	TaskID string
	Label  string

	// Runs is the number of completed runs before this one.
	Runs uint64

	// Hooks is the task's hook container, already merged with any
	// scheduler-global hooks.
	Hooks *hook.Container

	// Clock supplies waits for Timeout, Delay, Retry backoff and
	// Dependency deadlines.
	Clock clock.Clock
}

// NewContext builds a frame context. A nil hooks container or clock is
// replaced with an empty container and the system clock.
func NewContext(taskID, label string, runs uint64, hooks *hook.Container, clk clock.Clock) *Context {
	if hooks == nil {
		hooks = hook.NewContainer()
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Context{
		TaskID: taskID,
		Label:  label,
		Runs:   runs,
		Hooks:  hooks,
		Clock:  clk,
	}
}

// Emit sends an event into the task's hook container, stamped with the
// task identity and the clock's current time.
func (fc *Context) Emit(ctx context.Context, kind hook.Kind, payload any) {
	fc.Hooks.Emit(ctx, hook.Event{
		Kind:      kind,
		TaskID:    fc.TaskID,
		TaskLabel: fc.Label,
		At:        fc.Clock.Now(),
		Payload:   payload,
	})
}

// idle waits until the clock has advanced by d, or ctx is done.
func idle(ctx context.Context, clk clock.Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-clk.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
