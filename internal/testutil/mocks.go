package testutil

import (
	"context"
	"sync"

	"github.com/vnykmshr/chronoflow/pkg/task/hook"
)

// Recorder is a hook that records every event it receives. It is safe
// for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []hook.Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnEvent implements hook.Hook.
func (r *Recorder) OnEvent(_ context.Context, e hook.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []hook.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]hook.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the kinds of the recorded events in arrival order.
func (r *Recorder) Kinds() []hook.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]hook.Kind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

// Count returns how many recorded events have the given kind.
func (r *Recorder) Count(kind hook.Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Reset discards all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
