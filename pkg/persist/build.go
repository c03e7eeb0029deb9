package persist

import (
	"fmt"

	"github.com/vnykmshr/chronoflow/pkg/task"
	"github.com/vnykmshr/chronoflow/pkg/task/frame"
	"github.com/vnykmshr/chronoflow/pkg/task/schedule"
)

// Build turns a spec into a runnable task, resolving action names
// against the registry. The task gets a fresh generated ID; the spec's
// ID only keys the stored definition.
func Build(spec Spec, actions *Actions) (*task.Task, error) {
	f, err := buildFrame(spec.Frame, actions)
	if err != nil {
		return nil, fmt.Errorf("spec %s: %w", spec.ID, err)
	}
	sched, err := buildSchedule(spec.Schedule)
	if err != nil {
		return nil, fmt.Errorf("spec %s: %w", spec.ID, err)
	}
	label := spec.Label
	if label == "" {
		label = spec.ID
	}
	return task.New(task.Config{
		Frame:    f,
		Schedule: sched,
		Strategy: spec.Strategy,
		Priority: spec.Priority,
		Label:    label,
		MaxRuns:  spec.MaxRuns,
	})
}

func buildSchedule(spec ScheduleSpec) (schedule.Schedule, error) {
	var s schedule.Schedule
	switch spec.Type {
	case "", "immediate":
		s = schedule.Immediate()
	case "interval":
		if spec.Interval <= 0 {
			return nil, fmt.Errorf("interval schedule requires a positive interval")
		}
		s = schedule.Every(spec.Interval)
	case "cron":
		cronSched, err := schedule.Cron(spec.Expr)
		if err != nil {
			return nil, err
		}
		s = cronSched
	case "calendar":
		if len(spec.Instants) == 0 {
			return nil, fmt.Errorf("calendar schedule requires instants")
		}
		s = schedule.Calendar(spec.Instants...)
	default:
		return nil, fmt.Errorf("unknown schedule type %q", spec.Type)
	}
	return schedule.Jitter(s, spec.Jitter), nil
}

func buildFrame(spec FrameSpec, actions *Actions) (frame.Frame, error) {
	switch spec.Type {
	case "action":
		f, ok := actions.Lookup(spec.Action)
		if !ok {
			return nil, fmt.Errorf("action %q not registered", spec.Action)
		}
		return f, nil

	case "noop":
		return frame.NoOp{}, nil

	case "retry":
		child, err := buildChild(spec, actions)
		if err != nil {
			return nil, err
		}
		backoff, err := buildBackoff(spec.Backoff)
		if err != nil {
			return nil, err
		}
		return frame.Retry(child, spec.Attempts, backoff), nil

	case "timeout":
		child, err := buildChild(spec, actions)
		if err != nil {
			return nil, err
		}
		return frame.Timeout(child, spec.Limit), nil

	case "delay":
		child, err := buildChild(spec, actions)
		if err != nil {
			return nil, err
		}
		return frame.Delay(child, spec.Wait), nil

	case "fallback":
		if len(spec.Children) != 2 {
			return nil, fmt.Errorf("fallback requires exactly two children, got %d", len(spec.Children))
		}
		primary, err := buildFrame(spec.Children[0], actions)
		if err != nil {
			return nil, err
		}
		secondary, err := buildFrame(spec.Children[1], actions)
		if err != nil {
			return nil, err
		}
		return frame.Fallback(primary, secondary), nil

	case "sequential", "parallel":
		children := make([]frame.Frame, len(spec.Children))
		for i, c := range spec.Children {
			child, err := buildFrame(c, actions)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		if spec.Type == "sequential" {
			return frame.Sequential(children...), nil
		}
		return frame.Parallel(children...), nil

	default:
		return nil, fmt.Errorf("unknown frame type %q", spec.Type)
	}
}

func buildChild(spec FrameSpec, actions *Actions) (frame.Frame, error) {
	if spec.Child == nil {
		return nil, fmt.Errorf("%s frame requires a child", spec.Type)
	}
	return buildFrame(*spec.Child, actions)
}

func buildBackoff(spec *BackoffSpec) (frame.Backoff, error) {
	if spec == nil {
		return frame.ConstantBackoff(0), nil
	}
	var b frame.Backoff
	switch spec.Type {
	case "constant":
		b = frame.ConstantBackoff(spec.Delay)
	case "exponential":
		b = frame.ExponentialBackoff(spec.Initial, spec.Max)
	default:
		return nil, fmt.Errorf("unknown backoff type %q", spec.Type)
	}
	if spec.Spread > 0 {
		b = frame.JitterBackoff(b, spec.Spread)
	}
	return b, nil
}
