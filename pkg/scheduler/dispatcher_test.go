package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vnykmshr/chronoflow/internal/testutil"
	commonerrors "github.com/vnykmshr/chronoflow/pkg/common/errors"
)

func TestDispatcherRunsJobs(t *testing.T) {
	d := newDispatcher(2, 10, nil)
	defer func() { <-d.shutdown() }()

	var ran int32
	done := make(chan struct{})
	err := d.dispatch(job{taskID: "a", weight: 1, fn: func() {
		atomic.AddInt32(&ran, 1)
		close(done)
	}})
	testutil.AssertNoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
	testutil.AssertEqual(t, atomic.LoadInt32(&ran), int32(1))
}

func TestDispatcherBackpressure(t *testing.T) {
	d := newDispatcher(1, 1, nil)
	defer func() { <-d.shutdown() }()

	block := make(chan struct{})
	started := make(chan struct{})

	// One job occupies the worker, one fills its queue.
	testutil.AssertNoError(t, d.dispatch(job{taskID: "busy", weight: 1, fn: func() {
		close(started)
		<-block
	}}))
	<-started
	testutil.AssertNoError(t, d.dispatch(job{taskID: "queued", weight: 1, fn: func() {}}))

	err := d.dispatch(job{taskID: "overflow", weight: 1, fn: func() {}})
	var de *DispatchError
	if !errors.As(err, &de) {
		t.Fatalf("got %v, want *DispatchError", err)
	}
	testutil.AssertEqual(t, de.TaskID, "overflow")
	if !errors.Is(err, commonerrors.ErrCapacityExceeded) {
		t.Fatal("dispatch error should wrap ErrCapacityExceeded")
	}
	if !commonerrors.IsRetryable(err) {
		t.Fatal("backpressure should be retryable")
	}

	close(block)
}

func TestDispatcherPrefersLeastLoadedWorker(t *testing.T) {
	d := newDispatcher(2, 10, nil)
	defer func() { <-d.shutdown() }()

	block := make(chan struct{})
	started := make(chan struct{})

	// Pin a heavy job on one worker, then check new work lands on the
	// other.
	testutil.AssertNoError(t, d.dispatch(job{taskID: "heavy", weight: 16, fn: func() {
		close(started)
		<-block
	}}))
	<-started

	var heavyWorker *dispatchWorker
	for _, w := range d.workers {
		if w.load.Load() > 0 {
			heavyWorker = w
		}
	}
	if heavyWorker == nil {
		t.Fatal("heavy job should be counted against a worker")
	}

	done := make(chan struct{})
	testutil.AssertNoError(t, d.dispatch(job{taskID: "light", weight: 1, fn: func() {
		close(done)
	}}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("light job should run on the free worker")
	}
	close(block)
}

func TestDispatcherRecoversPanics(t *testing.T) {
	d := newDispatcher(1, 10, nil)
	defer func() { <-d.shutdown() }()

	testutil.AssertNoError(t, d.dispatch(job{taskID: "bad", weight: 1, fn: func() {
		panic("kaboom")
	}}))

	// The worker survives and keeps executing.
	done := make(chan struct{})
	testutil.AssertNoError(t, d.dispatch(job{taskID: "good", weight: 1, fn: func() {
		close(done)
	}}))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive the panic")
	}
}

func TestDispatcherShutdownRejects(t *testing.T) {
	d := newDispatcher(1, 10, nil)
	<-d.shutdown()

	err := d.dispatch(job{taskID: "late", weight: 1, fn: func() {}})
	if !errors.Is(err, commonerrors.ErrClosed) {
		t.Fatalf("got %v, want ErrClosed", err)
	}
}
