package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vnykmshr/chronoflow/pkg/task/frame"
	"github.com/vnykmshr/chronoflow/pkg/task/hook"
)

// Hook feeds a Registry from task events. Attach it to a task's hook
// container, or to a scheduler's global hooks to instrument every task:
//
//	m := metrics.NewHook(metrics.Config{})
//	sched.GlobalHooks().Attach(m, hook.KindAll)
//
// Durations use event timestamps, so a virtual clock yields virtual
// durations. Starts are queued per task, so overlapping parallel runs
// each get a duration observation; with overlap the pairing is
// first started, first ended.
type Hook struct {
	registry *Registry

	mu     sync.Mutex
	starts map[string][]time.Time
}

// NewHook creates a metrics hook backed by a fresh registry.
func NewHook(cfg Config) *Hook {
	return NewHookWithRegistry(NewRegistry(cfg))
}

// NewHookWithRegistry creates a metrics hook feeding an existing
// registry, for sharing one registry across schedulers.
func NewHookWithRegistry(registry *Registry) *Hook {
	return &Hook{
		registry: registry,
		starts:   make(map[string][]time.Time),
	}
}

// Registry returns the underlying registry.
func (h *Hook) Registry() *Registry { return h.registry }

// OnEvent implements hook.Hook.
func (h *Hook) OnEvent(_ context.Context, e hook.Event) {
	label := e.TaskLabel

	switch e.Kind {
	case hook.KindTaskStart:
		h.registry.TaskRunsStarted.WithLabelValues(label).Inc()
		h.mu.Lock()
		h.starts[e.TaskID] = append(h.starts[e.TaskID], e.At)
		h.mu.Unlock()

	case hook.KindTaskEnd:
		h.mu.Lock()
		var start time.Time
		ok := len(h.starts[e.TaskID]) > 0
		if ok {
			start = h.starts[e.TaskID][0]
			if rest := h.starts[e.TaskID][1:]; len(rest) > 0 {
				h.starts[e.TaskID] = rest
			} else {
				delete(h.starts, e.TaskID)
			}
		}
		h.mu.Unlock()
		if ok {
			h.registry.TaskRunDuration.WithLabelValues(label).Observe(e.At.Sub(start).Seconds())
		}
		if p, ok := e.Payload.(hook.TaskEndPayload); ok {
			h.countOutcome(label, p.Err)
		}

	case hook.KindRetryAttempt:
		h.registry.RetryAttempts.WithLabelValues(label).Inc()

	case hook.KindFallback:
		h.registry.Fallbacks.WithLabelValues(label).Inc()

	case hook.KindScheduleError:
		h.registry.ScheduleErrors.WithLabelValues(label).Inc()

	case hook.KindDependencyResolved:
		outcome := "resolved"
		if p, ok := e.Payload.(hook.DependencyPayload); ok && !p.Resolved {
			outcome = "expired"
		}
		h.registry.DependencyGates.WithLabelValues(label, outcome).Inc()
	}
}

func (h *Hook) countOutcome(label string, err error) {
	switch {
	case err == nil, frame.IsSkip(err):
		h.registry.TaskRunsCompleted.WithLabelValues(label).Inc()
	case frame.IsCancellation(err):
		h.registry.TaskRunsCanceled.WithLabelValues(label).Inc()
	case errors.Is(err, frame.ErrTimeout):
		h.registry.TaskRunsTimedOut.WithLabelValues(label).Inc()
	default:
		h.registry.TaskRunsFailed.WithLabelValues(label).Inc()
	}
}
