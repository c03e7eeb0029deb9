package scheduler

import (
	"container/heap"
	"sync"
	"time"

	"github.com/vnykmshr/chronoflow/pkg/task"
)

// entry is one pending fire in the store.
type entry struct {
	id       string
	fireAt   time.Time
	priority task.Priority
	seq      uint64
	index    int
}

// entryHeap orders entries by fire time, then priority (higher first),
// then insertion order for a stable tie-break.
type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if !h[i].fireAt.Equal(h[j].fireAt) {
		return h[i].fireAt.Before(h[j].fireAt)
	}
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// store is the time-ordered set of pending fires. All mutations signal
// the wake channel so the scheduling loop can re-evaluate its sleep.
type store struct {
	mu   sync.Mutex
	heap entryHeap
	byID map[string]*entry
	seq  uint64
	wake chan struct{}
}

func newStore() *store {
	return &store{
		byID: make(map[string]*entry),
		wake: make(chan struct{}, 1),
	}
}

// push inserts or replaces the pending fire for a task.
func (s *store) push(id string, fireAt time.Time, priority task.Priority) {
	s.mu.Lock()
	if old, ok := s.byID[id]; ok {
		heap.Remove(&s.heap, old.index)
	}
	s.seq++
	e := &entry{id: id, fireAt: fireAt, priority: priority, seq: s.seq}
	heap.Push(&s.heap, e)
	s.byID[id] = e
	s.mu.Unlock()
	s.signal()
}

// remove drops a task's pending fire, reporting whether one existed.
func (s *store) remove(id string) bool {
	s.mu.Lock()
	e, ok := s.byID[id]
	if ok {
		heap.Remove(&s.heap, e.index)
		delete(s.byID, id)
	}
	s.mu.Unlock()
	if ok {
		s.signal()
	}
	return ok
}

// contains reports whether a task has a pending fire.
func (s *store) contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[id]
	return ok
}

// peek returns the earliest pending fire time without removing it.
func (s *store) peek() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.heap) == 0 {
		return time.Time{}, false
	}
	return s.heap[0].fireAt, true
}

// takeDue removes and returns every entry with a fire time at or before
// now, in firing order.
func (s *store) takeDue(now time.Time) []*entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []*entry
	for len(s.heap) > 0 && !s.heap[0].fireAt.After(now) {
		e := heap.Pop(&s.heap).(*entry)
		delete(s.byID, e.id)
		due = append(due, e)
	}
	return due
}

// clear drops all pending fires and returns how many there were.
func (s *store) clear() int {
	s.mu.Lock()
	n := len(s.heap)
	s.heap = nil
	s.byID = make(map[string]*entry)
	s.mu.Unlock()
	if n > 0 {
		s.signal()
	}
	return n
}

func (s *store) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.heap)
}

// signal nudges the scheduling loop without blocking. A single pending
// nudge is enough: the loop recomputes its sleep from scratch.
func (s *store) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
