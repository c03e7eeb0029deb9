package scheduler

import (
	"testing"
	"time"

	"github.com/vnykmshr/chronoflow/internal/testutil"
	"github.com/vnykmshr/chronoflow/pkg/task"
)

func TestStoreOrdersByTime(t *testing.T) {
	s := newStore()
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	s.push("late", t0.Add(2*time.Second), task.PriorityMedium)
	s.push("early", t0.Add(time.Second), task.PriorityMedium)

	due := s.takeDue(t0.Add(3 * time.Second))
	testutil.AssertEqual(t, len(due), 2)
	testutil.AssertEqual(t, due[0].id, "early")
	testutil.AssertEqual(t, due[1].id, "late")
}

func TestStoreSameInstantPriorityWins(t *testing.T) {
	s := newStore()
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	s.push("low", at, task.PriorityLow)
	s.push("critical", at, task.PriorityCritical)
	s.push("medium", at, task.PriorityMedium)

	due := s.takeDue(at)
	testutil.AssertEqual(t, len(due), 3)
	testutil.AssertEqual(t, due[0].id, "critical")
	testutil.AssertEqual(t, due[1].id, "medium")
	testutil.AssertEqual(t, due[2].id, "low")
}

func TestStoreSameInstantSamePriorityInsertionOrder(t *testing.T) {
	s := newStore()
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	s.push("first", at, task.PriorityMedium)
	s.push("second", at, task.PriorityMedium)

	due := s.takeDue(at)
	testutil.AssertEqual(t, due[0].id, "first")
	testutil.AssertEqual(t, due[1].id, "second")
}

func TestStoreTakeDueLeavesFuture(t *testing.T) {
	s := newStore()
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	s.push("now", t0, task.PriorityMedium)
	s.push("later", t0.Add(time.Hour), task.PriorityMedium)

	due := s.takeDue(t0)
	testutil.AssertEqual(t, len(due), 1)
	testutil.AssertEqual(t, due[0].id, "now")
	testutil.AssertEqual(t, s.len(), 1)

	next, ok := s.peek()
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, next, t0.Add(time.Hour))
}

func TestStorePushReplaces(t *testing.T) {
	s := newStore()
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	s.push("a", t0.Add(time.Hour), task.PriorityMedium)
	s.push("a", t0.Add(time.Second), task.PriorityMedium)

	testutil.AssertEqual(t, s.len(), 1)
	next, ok := s.peek()
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, next, t0.Add(time.Second))
}

func TestStoreRemove(t *testing.T) {
	s := newStore()
	t0 := time.Now()

	s.push("a", t0, task.PriorityMedium)
	testutil.AssertEqual(t, s.contains("a"), true)
	testutil.AssertEqual(t, s.remove("a"), true)
	testutil.AssertEqual(t, s.contains("a"), false)
	testutil.AssertEqual(t, s.remove("a"), false)
	testutil.AssertEqual(t, s.len(), 0)
}

func TestStoreClear(t *testing.T) {
	s := newStore()
	t0 := time.Now()

	s.push("a", t0, task.PriorityMedium)
	s.push("b", t0, task.PriorityMedium)
	testutil.AssertEqual(t, s.clear(), 2)
	testutil.AssertEqual(t, s.len(), 0)

	_, ok := s.peek()
	testutil.AssertEqual(t, ok, false)
}

func TestStoreSignalsWake(t *testing.T) {
	s := newStore()

	s.push("a", time.Now(), task.PriorityMedium)
	select {
	case <-s.wake:
	default:
		t.Fatal("push should signal the wake channel")
	}

	// Repeated mutations coalesce into one pending signal.
	s.push("b", time.Now(), task.PriorityMedium)
	s.remove("a")
	<-s.wake
	select {
	case <-s.wake:
		t.Fatal("signals should coalesce")
	default:
	}
}
