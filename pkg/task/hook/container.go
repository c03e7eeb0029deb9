package hook

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Hook observes events. Implementations may hold state; frames can look
// them up through Get to enable cooperative behavior changes.
type Hook interface {
	// OnEvent handles one event. Panics are contained by the container
	// and reported, never propagated into frame execution.
	OnEvent(ctx context.Context, e Event)
}

// Func adapts a plain function to the Hook interface.
type Func func(ctx context.Context, e Event)

// OnEvent implements Hook.
func (f Func) OnEvent(ctx context.Context, e Event) {
	f(ctx, e)
}

type registration struct {
	hook     Hook
	interest Kind
}

// Container maps event interests to ordered hook registrations. A
// container is owned by exactly one task (or by the scheduler, for
// globally attached hooks). It is safe for concurrent attach, detach
// and emit; emission operates on a snapshot of the registrations taken
// at emission start, so a concurrent detach never affects an emission
// already in flight.
type Container struct {
	mu      sync.RWMutex
	locals  []registration
	globals []registration
}

// NewContainer creates an empty hook container.
func NewContainer() *Container {
	return &Container{}
}

// Attach registers h under each given interest. An interest may be a
// concrete kind, a group alias, or KindAll. Already-registered hooks
// observe the attachment through KindHookAttach.
func (c *Container) Attach(h Hook, interests ...Kind) {
	if h == nil || len(interests) == 0 {
		return
	}
	for _, interest := range interests {
		c.mu.Lock()
		c.locals = append(c.locals, registration{hook: h, interest: interest})
		c.mu.Unlock()
		c.Emit(context.Background(), Event{
			Kind:    KindHookAttach,
			Payload: AttachPayload{Interest: interest},
		})
	}
}

// Detach removes one prior registration of h under interest. Detaching
// a hook that is not registered is a no-op. Remaining hooks observe the
// detachment through KindHookDetach.
func (c *Container) Detach(h Hook, interest Kind) {
	c.mu.Lock()
	removed := false
	for i, reg := range c.locals {
		if reg.hook == h && reg.interest == interest {
			c.locals = append(c.locals[:i], c.locals[i+1:]...)
			removed = true
			break
		}
	}
	c.mu.Unlock()

	if removed {
		c.Emit(context.Background(), Event{
			Kind:    KindHookDetach,
			Payload: AttachPayload{Interest: interest},
		})
	}
}

// MergeGlobal copies every registration of global into c's global list.
// Global registrations are emitted before task-local ones, in their own
// attachment order. The scheduler calls this at schedule time.
func (c *Container) MergeGlobal(global *Container) {
	if global == nil {
		return
	}
	global.mu.RLock()
	regs := make([]registration, len(global.locals))
	copy(regs, global.locals)
	global.mu.RUnlock()

	c.mu.Lock()
	c.globals = append(c.globals, regs...)
	c.mu.Unlock()
}

// Emit delivers e to every matching registration: globals first, then
// task-local hooks, each in attachment order. A panic in one hook is
// reported and does not prevent the remaining hooks from running.
// Events of KindNone are never delivered.
func (c *Container) Emit(ctx context.Context, e Event) {
	if e.Kind == KindNone {
		return
	}

	c.mu.RLock()
	snapshot := make([]registration, 0, len(c.globals)+len(c.locals))
	for _, reg := range c.globals {
		if Matches(reg.interest, e.Kind) {
			snapshot = append(snapshot, reg)
		}
	}
	for _, reg := range c.locals {
		if Matches(reg.interest, e.Kind) {
			snapshot = append(snapshot, reg)
		}
	}
	c.mu.RUnlock()

	for _, reg := range snapshot {
		invoke(ctx, reg.hook, e)
	}
}

// invoke runs one hook, containing panics.
func invoke(ctx context.Context, h Hook, e Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("hook panicked",
				"event", string(e.Kind),
				"task", e.TaskLabel,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	h.OnEvent(ctx, e)
}

// Len returns the number of task-local registrations.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.locals)
}

// Get returns the first registered hook of concrete type T whose
// interest covers kind, searching globals then locals. Frames use this
// to cooperate with stateful hooks (for example, checking a circuit
// breaker before retrying). Pass KindAll to search regardless of
// interest.
func Get[T Hook](c *Container, kind Kind) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, regs := range [][]registration{c.globals, c.locals} {
		for _, reg := range regs {
			if kind != KindAll && !Matches(reg.interest, kind) && reg.interest != kind {
				continue
			}
			if h, ok := reg.hook.(T); ok {
				return h, true
			}
		}
	}
	var zero T
	return zero, false
}
