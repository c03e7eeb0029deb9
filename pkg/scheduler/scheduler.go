package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/vnykmshr/chronoflow/pkg/clock"
	commonerrors "github.com/vnykmshr/chronoflow/pkg/common/errors"
	"github.com/vnykmshr/chronoflow/pkg/task"
	"github.com/vnykmshr/chronoflow/pkg/task/hook"
	"github.com/vnykmshr/chronoflow/pkg/task/schedule"
)

const (
	defaultWorkers   = 4
	defaultQueueSize = 100
	defaultMaxTasks  = 10000
)

// TaskInfo is a read-only view of a managed task.
type TaskInfo struct {
	ID       string
	Label    string
	Priority task.Priority
	State    task.State
	Runs     uint64
	NextRun  time.Time // zero while a run is in flight with nothing pending
}

// Scheduler drives tasks through their schedules: it sleeps until the
// earliest pending fire, resolves overlap strategies, dispatches runs
// to its worker pool, and reschedules repeating tasks as runs complete.
type Scheduler interface {
	// Start launches the scheduling loop.
	Start() error

	// Stop halts the loop and shuts the workers down. In-flight runs
	// see their contexts cancelled. The returned channel closes when
	// everything has wound down.
	Stop() <-chan struct{}

	// Schedule submits a task. The task's first fire time comes from
	// its schedule; a task whose schedule is already exhausted is
	// rejected.
	Schedule(t *task.Task) error

	// Cancel removes a task, cancelling its in-flight run if any.
	// Reports whether the task was known. Cancelling twice is a no-op.
	Cancel(id string) bool

	// Exists reports whether a task is currently managed.
	Exists(id string) bool

	// List returns a snapshot of managed tasks ordered by next fire.
	List() []TaskInfo

	// Clear cancels every task and returns how many were removed.
	Clear() int

	// GlobalHooks exposes the container of hooks attached to every
	// task scheduled after the attachment. Global hooks observe events
	// before the task's own.
	GlobalHooks() *hook.Container
}

// Config holds scheduler configuration. The zero value is usable.
type Config struct {
	// Clock drives all timing. Defaults to the system clock; tests
	// inject a virtual clock to control time explicitly.
	Clock clock.Clock

	// WorkerCount is the number of dispatch workers. Defaults to 4.
	WorkerCount int

	// QueueSize bounds each worker's queue. Defaults to 100. When
	// every queue is full a ready task fails with a DispatchError and
	// is retried at its next scheduled fire.
	QueueSize int

	// MaxTasks caps the number of managed tasks. Defaults to 10000.
	MaxTasks int

	// Logger receives dispatch panics and schedule failures. Defaults
	// to slog.Default().
	Logger *slog.Logger
}

// managed is the scheduler's bookkeeping for one task.
type managed struct {
	task *task.Task

	// next is the pending fire time, zero while no fire is pending.
	next time.Time

	// running counts in-flight runs. Above 1 only for AllowParallel.
	running int

	// cancelRun cancels the most recently started run.
	cancelRun context.CancelFunc

	// deferred marks a Sequential fire waiting for the current run.
	deferred bool

	removed bool
}

type scheduler struct {
	clock      clock.Clock
	dispatcher *dispatcher
	store      *store
	logger     *slog.Logger
	maxTasks   int
	globals    *hook.Container

	mu      sync.Mutex
	tasks   map[string]*managed
	running bool
	stopped bool

	runCtx    context.Context
	cancelAll context.CancelFunc
	done      chan struct{}
	loopDone  chan struct{}
}

// New creates a scheduler with default configuration.
func New() Scheduler {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a scheduler with custom configuration.
func NewWithConfig(cfg Config) Scheduler {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxTasks := cfg.MaxTasks
	if maxTasks <= 0 {
		maxTasks = defaultMaxTasks
	}

	runCtx, cancelAll := context.WithCancel(context.Background())
	return &scheduler{
		clock:      clk,
		dispatcher: newDispatcher(cfg.WorkerCount, cfg.QueueSize, logger),
		store:      newStore(),
		logger:     logger,
		maxTasks:   maxTasks,
		globals:    hook.NewContainer(),
		tasks:      make(map[string]*managed),
		runCtx:     runCtx,
		cancelAll:  cancelAll,
		done:       make(chan struct{}),
		loopDone:   make(chan struct{}),
	}
}

func (s *scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return fmt.Errorf("scheduler has been stopped: %w", commonerrors.ErrClosed)
	}
	if s.running {
		return fmt.Errorf("scheduler already running, call Stop() first")
	}
	s.running = true
	go s.run()
	return nil
}

func (s *scheduler) Stop() <-chan struct{} {
	s.mu.Lock()
	wasRunning := s.running
	if !s.stopped {
		s.stopped = true
		s.running = false
		close(s.done)
		s.cancelAll()
	}
	s.mu.Unlock()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if wasRunning {
			<-s.loopDone
		}
		<-s.dispatcher.shutdown()
	}()
	return stopped
}

func (s *scheduler) Schedule(t *task.Task) error {
	if t == nil {
		return fmt.Errorf("task cannot be nil")
	}

	now := s.clock.Now()
	first, err := t.Schedule().Next(now)
	if err != nil {
		if errors.Is(err, schedule.ErrExhausted) {
			return fmt.Errorf("task %s schedule is already exhausted", t.ID())
		}
		return fmt.Errorf("task %s schedule failed: %w", t.ID(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return fmt.Errorf("cannot schedule task: %w", commonerrors.ErrClosed)
	}
	if _, exists := s.tasks[t.ID()]; exists {
		return fmt.Errorf("task %s already scheduled, cancel it first", t.ID())
	}
	if len(s.tasks) >= s.maxTasks {
		return fmt.Errorf("cannot schedule task: maximum number of tasks (%d) reached: %w",
			s.maxTasks, commonerrors.ErrCapacityExceeded)
	}

	t.Hooks().MergeGlobal(s.globals)
	t.MarkPending()
	s.tasks[t.ID()] = &managed{task: t, next: first}
	s.store.push(t.ID(), first, t.Priority())
	return nil
}

func (s *scheduler) Cancel(id string) bool {
	s.mu.Lock()
	m, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	m.removed = true
	delete(s.tasks, id)
	cancel := m.cancelRun
	m.task.MarkCanceled()
	s.mu.Unlock()

	s.store.remove(id)
	if cancel != nil {
		cancel()
	}
	return true
}

func (s *scheduler) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[id]
	return ok
}

func (s *scheduler) List() []TaskInfo {
	s.mu.Lock()
	infos := make([]TaskInfo, 0, len(s.tasks))
	for _, m := range s.tasks {
		infos = append(infos, TaskInfo{
			ID:       m.task.ID(),
			Label:    m.task.Label(),
			Priority: m.task.Priority(),
			State:    m.task.State(),
			Runs:     m.task.Runs(),
			NextRun:  m.next,
		})
	}
	s.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].NextRun.Equal(infos[j].NextRun) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].NextRun.Before(infos[j].NextRun)
	})
	return infos
}

func (s *scheduler) Clear() int {
	s.mu.Lock()
	ids := make([]string, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	n := 0
	for _, id := range ids {
		if s.Cancel(id) {
			n++
		}
	}
	return n
}

func (s *scheduler) GlobalHooks() *hook.Container {
	return s.globals
}

// run is the scheduling loop. It is tickless: between fires it sleeps
// on the clock until the earliest pending deadline, and any store
// mutation wakes it early to recompute.
func (s *scheduler) run() {
	defer close(s.loopDone)
	for {
		now := s.clock.Now()
		for _, e := range s.store.takeDue(now) {
			s.fire(e)
		}

		var timer <-chan time.Time
		if next, ok := s.store.peek(); ok {
			d := next.Sub(s.clock.Now())
			if d <= 0 {
				continue
			}
			timer = s.clock.After(d)
		}

		select {
		case <-s.done:
			return
		case <-s.store.wake:
		case <-timer:
		}
	}
}

// fire resolves the overlap strategy for one due entry and dispatches
// the run when the strategy allows it. The next cadence fire is pushed
// before the run starts, so the schedule keeps its planned rhythm no
// matter how long runs take or which of several overlapping runs ends
// last.
func (s *scheduler) fire(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.tasks[e.id]
	if !ok || m.removed {
		return
	}
	m.next = time.Time{}

	if m.task.Exhausted() {
		s.retireIfIdleLocked(m)
		return
	}
	s.rescheduleLocked(m, e.fireAt)

	if m.running > 0 {
		switch m.task.Strategy() {
		case task.StrategySkipIfRunning:
			// Drop this fire, keep the cadence.
			return
		case task.StrategySequential:
			m.deferred = true
			return
		case task.StrategyCancelCurrent:
			if m.cancelRun != nil {
				m.cancelRun()
			}
		case task.StrategyAllowParallel:
			// Overlap freely.
		}
	}

	s.startRunLocked(m)
}

// startRunLocked dispatches one run. Caller holds s.mu.
func (s *scheduler) startRunLocked(m *managed) {
	runCtx, cancel := context.WithCancel(s.runCtx)
	m.running++
	m.cancelRun = cancel

	j := job{
		taskID: m.task.ID(),
		weight: m.task.Priority().Weight(),
		fn: func() {
			defer cancel()
			_ = m.task.Run(runCtx, s.clock)
			s.finishRun(m)
		},
	}
	if err := s.dispatcher.dispatch(j); err != nil {
		m.running--
		cancel()
		s.logger.Warn("dispatch failed", "task_id", m.task.ID(), "error", err)
		s.emitScheduleError(m.task, err)
		// This fire is lost to backpressure; the next cadence fire is
		// already pending, so the task stays alive.
		s.retireIfIdleLocked(m)
	}
}

// finishRun is called from a worker once a run returns. It starts a
// deferred Sequential fire if one is waiting, or retires the task when
// nothing remains pending.
func (s *scheduler) finishRun(m *managed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.running--
	if m.removed {
		return
	}
	if m.deferred {
		m.deferred = false
		if !m.task.Exhausted() {
			s.startRunLocked(m)
			return
		}
	}
	s.retireIfIdleLocked(m)
}

// rescheduleLocked pushes the task's next cadence fire, computed from
// the planned time of the current one. An exhausted or failing schedule
// pushes nothing; the task then retires once its last run completes.
// Caller holds s.mu.
func (s *scheduler) rescheduleLocked(m *managed, after time.Time) {
	next, err := m.task.Schedule().Next(after)
	if err != nil {
		if !errors.Is(err, schedule.ErrExhausted) {
			s.logger.Warn("schedule failed", "task_id", m.task.ID(), "error", err)
			s.emitScheduleError(m.task, err)
		}
		return
	}
	m.next = next
	if m.running == 0 {
		m.task.MarkPending()
	}
	s.store.push(m.task.ID(), next, m.task.Priority())
}

// retireIfIdleLocked removes a task with no pending fire, no run in
// flight and no deferred fire. Caller holds s.mu.
func (s *scheduler) retireIfIdleLocked(m *managed) {
	if m.running == 0 && m.next.IsZero() && !m.deferred {
		delete(s.tasks, m.task.ID())
	}
}

func (s *scheduler) emitScheduleError(t *task.Task, err error) {
	t.Hooks().Emit(context.Background(), hook.Event{
		Kind:      hook.KindScheduleError,
		TaskID:    t.ID(),
		TaskLabel: t.Label(),
		At:        s.clock.Now(),
		Payload:   hook.ScheduleErrorPayload{Err: err},
	})
}
