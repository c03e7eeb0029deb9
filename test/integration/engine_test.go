package integration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vnykmshr/chronoflow/internal/testutil"
	"github.com/vnykmshr/chronoflow/pkg/clock"
	"github.com/vnykmshr/chronoflow/pkg/metrics"
	"github.com/vnykmshr/chronoflow/pkg/persist"
	"github.com/vnykmshr/chronoflow/pkg/scheduler"
	"github.com/vnykmshr/chronoflow/pkg/task"
	"github.com/vnykmshr/chronoflow/pkg/task/frame"
	"github.com/vnykmshr/chronoflow/pkg/task/hook"
	"github.com/vnykmshr/chronoflow/pkg/task/schedule"
)

// TestSpecToSchedulerPipeline tests the complete persistence pipeline:
// Spec -> Backend -> Build -> Scheduler, verifying a stored description
// rehydrates into a running task.
func TestSpecToSchedulerPipeline(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	backend := persist.NewMemoryBackend()
	defer func() { _ = backend.Close() }()

	var runs atomic.Int64
	actions := persist.NewActions()
	testutil.AssertNoError(t, actions.RegisterFunc("count", func(context.Context) error {
		runs.Add(1)
		return nil
	}))

	spec := persist.Spec{
		ID:    "nightly-count",
		Label: "nightly-count",
		Frame: persist.FrameSpec{
			Type:     "retry",
			Child:    &persist.FrameSpec{Type: "action", Action: "count"},
			Attempts: 3,
			Backoff:  &persist.BackoffSpec{Type: "constant", Delay: time.Second},
		},
		Schedule: persist.ScheduleSpec{Type: "interval", Interval: time.Minute},
	}
	testutil.AssertNoError(t, backend.Save(ctx, spec))

	// Reload through the backend as a restarting process would.
	loaded, err := backend.Load(ctx, "nightly-count")
	testutil.AssertNoError(t, err)

	rebuilt, err := persist.Build(loaded, actions)
	testutil.AssertNoError(t, err)

	clk := clock.NewVirtual(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	sched := scheduler.NewWithConfig(scheduler.Config{Clock: clk, WorkerCount: 1})
	testutil.AssertNoError(t, sched.Start())
	defer func() { <-sched.Stop() }()

	testutil.AssertNoError(t, sched.Schedule(rebuilt))

	for i := 0; i < 3; i++ {
		clk.Advance(time.Minute)
		want := int64(i + 1)
		testutil.Eventually(t, func() bool { return runs.Load() == want },
			2*time.Second, time.Millisecond)
	}

	testutil.AssertEqual(t, runs.Load(), 3)
	t.Logf("spec survived a round trip and ran %d times", runs.Load())
}

// TestMetricsObserveFullRun wires the Prometheus hook globally and
// drives a retrying, falling-back task to completion, verifying the
// recorded counters match what actually happened.
func TestMetricsObserveFullRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	mh := metrics.NewHook(metrics.Config{Registry: reg})

	clk := clock.NewVirtual(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	sched := scheduler.NewWithConfig(scheduler.Config{Clock: clk})
	sched.GlobalHooks().Attach(mh, hook.KindAll)
	testutil.AssertNoError(t, sched.Start())
	defer func() { <-sched.Stop() }()

	var rescued atomic.Int64
	primary := frame.Func(func(context.Context) error {
		return errors.New("upstream unavailable")
	})
	secondary := frame.Func(func(context.Context) error {
		rescued.Add(1)
		return nil
	})

	flaky, err := task.New(task.Config{
		Frame: frame.NewBuilder(primary).
			WithRetry(2, frame.ConstantBackoff(0)).
			WithFallback(secondary).
			Build(),
		Schedule: schedule.Immediate(),
		Label:    "flaky",
	})
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, sched.Schedule(flaky))

	testutil.Eventually(t, func() bool { return rescued.Load() == 1 },
		2*time.Second, time.Millisecond)
	testutil.Eventually(t, func() bool { return !sched.Exists(flaky.ID()) },
		2*time.Second, time.Millisecond)

	m := mh.Registry()
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.TaskRunsStarted.WithLabelValues("flaky")), 1)
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.TaskRunsCompleted.WithLabelValues("flaky")), 1)
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.RetryAttempts.WithLabelValues("flaky")), 1)
	testutil.AssertEqual(t, promtestutil.ToFloat64(m.Fallbacks.WithLabelValues("flaky")), 1)
}

// TestDependencyGateAcrossTasks tests coordination between tasks: one
// task resolves a flag that another task is gated on.
func TestDependencyGateAcrossTasks(t *testing.T) {
	clk := clock.NewVirtual(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	sched := scheduler.NewWithConfig(scheduler.Config{Clock: clk, WorkerCount: 2})
	testutil.AssertNoError(t, sched.Start())
	defer func() { <-sched.Stop() }()

	warm := frame.NewFlag("cache-warm")

	var mu sync.Mutex
	var order []string
	record := func(name string) {
		mu.Lock()
		order = append(order, name)
		mu.Unlock()
	}

	consumer, err := task.New(task.Config{
		Frame: frame.Dependent(
			frame.Func(func(context.Context) error { record("consumer"); return nil }),
			frame.On(warm),
		),
		Schedule: schedule.Immediate(),
		Label:    "consumer",
	})
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, sched.Schedule(consumer))

	producer, err := task.New(task.Config{
		Frame: frame.Func(func(context.Context) error {
			record("producer")
			warm.Resolve()
			return nil
		}),
		Schedule: schedule.At(clk.Now().Add(time.Minute)),
		Label:    "producer",
	})
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, sched.Schedule(producer))

	// The consumer fires first but blocks on the flag until the
	// producer resolves it a minute later.
	clk.Advance(time.Minute)
	testutil.Eventually(t, func() bool { return !sched.Exists(consumer.ID()) },
		2*time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "producer" || order[1] != "consumer" {
		t.Fatalf("execution order = %v, want [producer consumer]", order)
	}
}
