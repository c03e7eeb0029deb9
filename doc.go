/*
Package chronoflow provides a composable, single-node task-scheduling engine.

A task is assembled from independently pluggable parts: an execution frame tree
(what runs), a schedule (when it runs), an overlap strategy (how concurrent
firings of the same task are resolved), a priority, and a hook container
(how it is observed).

Frames (pkg/task/frame):
  - decorators for retry, timeout, fallback, conditional execution,
    sequential and parallel fan-out, dependency gating and delays
  - a builder that composes them in a fixed canonical order

Scheduling (pkg/scheduler):
  - a tickless loop that idles exactly until the next fire instant
  - a time-ordered store with priority tie-breaking
  - a priority-weighted dispatcher backed by a worker pool

Observation (pkg/task/hook, pkg/metrics):
  - a typed event bus with event groups and wildcard subscriptions
  - an optional Prometheus hook

Example usage:

	import (
		"github.com/vnykmshr/chronoflow/pkg/scheduler"
		"github.com/vnykmshr/chronoflow/pkg/task"
		"github.com/vnykmshr/chronoflow/pkg/task/frame"
		"github.com/vnykmshr/chronoflow/pkg/task/schedule"
	)

	sched := scheduler.New()
	sched.Start()

	t, _ := task.New(task.Config{
		Frame:    frame.Func(doWork),
		Schedule: schedule.Every(time.Minute),
	})
	sched.Schedule(t)
*/
package chronoflow
