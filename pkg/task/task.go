package task

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/vnykmshr/chronoflow/pkg/clock"
	"github.com/vnykmshr/chronoflow/pkg/task/frame"
	"github.com/vnykmshr/chronoflow/pkg/task/hook"
	"github.com/vnykmshr/chronoflow/pkg/task/schedule"
)

// Config describes a task. Frame is required; everything else has a
// sensible zero value.
type Config struct {
	// Frame is the execution tree the task runs. Required.
	Frame frame.Frame

	// Schedule decides when the task fires. Defaults to Immediate,
	// a single run as soon as the scheduler sees the task.
	Schedule schedule.Schedule

	// Strategy resolves overlapping runs. Defaults to Sequential.
	Strategy Strategy

	// Priority orders same-instant tasks and weights dispatch.
	// Defaults to Medium.
	Priority Priority

	// Label is a human-readable name for logs and events. Defaults to
	// a prefix of the generated task ID.
	Label string

	// MaxRuns caps the number of completed runs. Zero means unlimited.
	MaxRuns uint64
}

// Task binds an execution frame tree to a schedule, an overlap
// strategy, a priority, and a hook container. Tasks are created with
// New and handed to a scheduler; the identity and wiring never change
// after construction, while runs, state and hooks evolve at runtime.
type Task struct {
	id       string
	label    string
	frame    frame.Frame
	schedule schedule.Schedule
	strategy Strategy
	priority Priority
	maxRuns  uint64

	hooks *hook.Container
	runs  atomic.Uint64
	state atomic.Int32
}

// New creates a task from the given config, applying defaults for
// zero-value fields.
func New(config Config) (*Task, error) {
	if config.Frame == nil {
		return nil, fmt.Errorf("task frame cannot be nil")
	}
	if config.Schedule == nil {
		config.Schedule = schedule.Immediate()
	}

	id := uuid.NewString()
	label := config.Label
	if label == "" {
		label = "task-" + id[:8]
	}

	return &Task{
		id:       id,
		label:    label,
		frame:    config.Frame,
		schedule: config.Schedule,
		strategy: config.Strategy,
		priority: config.Priority,
		maxRuns:  config.MaxRuns,
		hooks:    hook.NewContainer(),
	}, nil
}

// ID returns the task's generated unique identifier.
func (t *Task) ID() string { return t.id }

// Label returns the task's human-readable name.
func (t *Task) Label() string { return t.label }

// Priority returns the task's dispatch priority.
func (t *Task) Priority() Priority { return t.priority }

// Strategy returns the task's overlap strategy.
func (t *Task) Strategy() Strategy { return t.strategy }

// Schedule returns the task's schedule.
func (t *Task) Schedule() schedule.Schedule { return t.schedule }

// Frame returns the root of the task's execution tree.
func (t *Task) Frame() frame.Frame { return t.frame }

// Hooks returns the task's hook container for attaching observers.
func (t *Task) Hooks() *hook.Container { return t.hooks }

// Runs returns the number of completed runs.
func (t *Task) Runs() uint64 { return t.runs.Load() }

// MaxRuns returns the run cap, zero meaning unlimited.
func (t *Task) MaxRuns() uint64 { return t.maxRuns }

// Exhausted reports whether the task has reached its run cap.
func (t *Task) Exhausted() bool {
	return t.maxRuns > 0 && t.runs.Load() >= t.maxRuns
}

// State returns the task's current lifecycle state.
func (t *Task) State() State {
	return State(t.state.Load())
}

// MarkPending records that the task entered the store. Called by the
// scheduler.
func (t *Task) MarkPending() {
	t.state.Store(int32(StatePending))
}

// MarkCanceled records an external cancellation. Called by the
// scheduler.
func (t *Task) MarkCanceled() {
	t.state.Store(int32(StateCanceled))
}

// Run executes one pass of the frame tree, bracketed by task start and
// end events, and advances the run counter. The outcome error is the
// frame tree's error, classified into the final state: success or skip
// completes, ErrTimeout times out, cancellation cancels, anything else
// fails. A nil clk falls back to the system clock.
func (t *Task) Run(ctx context.Context, clk clock.Clock) error {
	t.state.Store(int32(StateRunning))

	fc := frame.NewContext(t.id, t.label, t.runs.Load(), t.hooks, clk)
	fc.Emit(ctx, hook.KindTaskStart, nil)

	err := t.frame.Execute(ctx, fc)
	t.runs.Add(1)
	t.state.Store(int32(stateFor(err)))

	fc.Emit(ctx, hook.KindTaskEnd, hook.TaskEndPayload{Err: err})
	return err
}

func stateFor(err error) State {
	switch {
	case err == nil, frame.IsSkip(err):
		return StateCompleted
	case frame.IsCancellation(err):
		return StateCanceled
	case errors.Is(err, frame.ErrTimeout):
		return StateTimedOut
	default:
		return StateFailed
	}
}
