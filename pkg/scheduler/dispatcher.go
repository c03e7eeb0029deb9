package scheduler

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	commonerrors "github.com/vnykmshr/chronoflow/pkg/common/errors"
)

// DispatchError reports that a ready task could not be handed to any
// worker because every queue was full. It wraps ErrCapacityExceeded, so
// IsRetryable treats it as backpressure rather than a hard failure.
type DispatchError struct {
	TaskID string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("scheduler: all worker queues full, cannot dispatch task %s", e.TaskID)
}

func (e *DispatchError) Unwrap() error {
	return commonerrors.ErrCapacityExceeded
}

// job is one unit of dispatched work. The weight counts toward its
// worker's load until the job finishes.
type job struct {
	taskID string
	weight int
	fn     func()
}

// dispatchWorker owns a bounded queue and a weighted load counter.
type dispatchWorker struct {
	id     int
	queue  chan job
	load   atomic.Int64
	stopCh chan struct{}
}

// dispatcher fans ready tasks out to a fixed set of workers. Each
// worker has its own bounded queue; new work goes to the worker with
// the lowest priority-weighted load, so a worker stuck behind a
// critical task stops receiving new assignments before its peers do.
type dispatcher struct {
	workers      []*dispatchWorker
	wg           sync.WaitGroup
	shutdownOnce sync.Once
	shutdownCh   chan struct{}
	logger       *slog.Logger
}

func newDispatcher(workerCount, queueSize int, logger *slog.Logger) *dispatcher {
	if workerCount <= 0 {
		workerCount = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	d := &dispatcher{
		workers:    make([]*dispatchWorker, workerCount),
		shutdownCh: make(chan struct{}),
		logger:     logger,
	}
	for i := range d.workers {
		w := &dispatchWorker{
			id:     i,
			queue:  make(chan job, queueSize),
			stopCh: make(chan struct{}),
		}
		d.workers[i] = w
		d.wg.Add(1)
		go d.run(w)
	}
	return d
}

// dispatch queues a job on the least-loaded worker. When that worker's
// queue is full the remaining workers are tried in load order before
// giving up with a DispatchError.
func (d *dispatcher) dispatch(j job) error {
	select {
	case <-d.shutdownCh:
		return commonerrors.ErrClosed
	default:
	}

	tried := make([]bool, len(d.workers))
	for range d.workers {
		w := d.pickWorker(tried)
		if w == nil {
			break
		}
		tried[w.id] = true

		w.load.Add(int64(j.weight))
		select {
		case w.queue <- j:
			return nil
		default:
			w.load.Add(-int64(j.weight))
		}
	}
	return &DispatchError{TaskID: j.taskID}
}

// pickWorker returns the untried worker with the lowest weighted load.
func (d *dispatcher) pickWorker(tried []bool) *dispatchWorker {
	var best *dispatchWorker
	var bestLoad int64
	for _, w := range d.workers {
		if tried[w.id] {
			continue
		}
		load := w.load.Load()
		if best == nil || load < bestLoad {
			best = w
			bestLoad = load
		}
	}
	return best
}

func (d *dispatcher) run(w *dispatchWorker) {
	defer d.wg.Done()
	for {
		select {
		case <-w.stopCh:
			return
		case j := <-w.queue:
			d.execute(w, j)
		}
	}
}

func (d *dispatcher) execute(w *dispatchWorker, j job) {
	defer w.load.Add(-int64(j.weight))
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("dispatched task panicked",
				"task_id", j.taskID,
				"worker_id", w.id,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	j.fn()
}

// shutdown stops all workers. Queued jobs that have not started are
// dropped. The returned channel closes once every worker has exited.
func (d *dispatcher) shutdown() <-chan struct{} {
	done := make(chan struct{})
	d.shutdownOnce.Do(func() {
		close(d.shutdownCh)
		for _, w := range d.workers {
			close(w.stopCh)
		}
	})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	return done
}

// queued returns the number of jobs waiting across all worker queues.
func (d *dispatcher) queued() int {
	n := 0
	for _, w := range d.workers {
		n += len(w.queue)
	}
	return n
}
