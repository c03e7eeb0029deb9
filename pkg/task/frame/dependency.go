package frame

import (
	"context"
	"sync"
	"time"

	"github.com/vnykmshr/chronoflow/pkg/task/hook"
)

// Dependency is an external condition a frame can wait on. Resolved
// reports the current state; Changed returns a channel that is closed
// the next time the state changes, so waiters can block without
// polling.
type Dependency interface {
	Name() string
	Resolved() bool
	Changed() <-chan struct{}
}

// Flag is the basic Dependency: a boolean switch flipped by external
// code, typically from another task's hook.
type Flag struct {
	mu       sync.Mutex
	name     string
	resolved bool
	ch       chan struct{}
}

// NewFlag returns an unresolved flag.
func NewFlag(name string) *Flag {
	return &Flag{name: name, ch: make(chan struct{})}
}

// Name implements Dependency.
func (f *Flag) Name() string { return f.name }

// Resolved implements Dependency.
func (f *Flag) Resolved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved
}

// Changed implements Dependency.
func (f *Flag) Changed() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ch
}

// Resolve marks the flag resolved and wakes waiters.
func (f *Flag) Resolve() { f.set(true) }

// Reset marks the flag unresolved and wakes waiters.
func (f *Flag) Reset() { f.set(false) }

func (f *Flag) set(resolved bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolved == resolved {
		return
	}
	f.resolved = resolved
	close(f.ch)
	f.ch = make(chan struct{})
}

// Condition is a boolean expression over dependencies, built from On,
// And, Or and Not.
type Condition interface {
	Eval() bool
	visit(fn func(Dependency))
}

type depCond struct{ dep Dependency }

func (c depCond) Eval() bool                { return c.dep.Resolved() }
func (c depCond) visit(fn func(Dependency)) { fn(c.dep) }

type andCond struct{ conds []Condition }

func (c andCond) Eval() bool {
	for _, sub := range c.conds {
		if !sub.Eval() {
			return false
		}
	}
	return true
}

func (c andCond) visit(fn func(Dependency)) {
	for _, sub := range c.conds {
		sub.visit(fn)
	}
}

type orCond struct{ conds []Condition }

func (c orCond) Eval() bool {
	for _, sub := range c.conds {
		if sub.Eval() {
			return true
		}
	}
	return false
}

func (c orCond) visit(fn func(Dependency)) {
	for _, sub := range c.conds {
		sub.visit(fn)
	}
}

type notCond struct{ cond Condition }

func (c notCond) Eval() bool                { return !c.cond.Eval() }
func (c notCond) visit(fn func(Dependency)) { c.cond.visit(fn) }

// On lifts a dependency into a condition.
func On(dep Dependency) Condition { return depCond{dep: dep} }

// And is true when every sub-condition is true. And() is true.
func And(conds ...Condition) Condition { return andCond{conds: conds} }

// Or is true when any sub-condition is true. Or() is false.
func Or(conds ...Condition) Condition { return orCond{conds: conds} }

// Not negates a condition.
func Not(cond Condition) Condition { return notCond{cond: cond} }

type dependentFrame struct {
	inner           Frame
	cond            Condition
	deadline        time.Duration
	succeedOnExpiry bool
}

// Dependent gates its child on a condition, blocking until the
// condition holds or ctx is done. A dependency event is emitted once
// the gate opens.
func Dependent(inner Frame, cond Condition) Frame {
	return &dependentFrame{inner: inner, cond: cond}
}

// DependentDeadline is Dependent with a bounded wait. When the deadline
// expires with the condition still false the frame either fails with
// ErrDependencyUnresolved or, with succeedOnExpiry, skips the child and
// reports success.
func DependentDeadline(inner Frame, cond Condition, deadline time.Duration, succeedOnExpiry bool) Frame {
	return &dependentFrame{
		inner:           inner,
		cond:            cond,
		deadline:        deadline,
		succeedOnExpiry: succeedOnExpiry,
	}
}

func (d *dependentFrame) Execute(ctx context.Context, fc *Context) error {
	var expire <-chan time.Time
	if d.deadline > 0 {
		expire = fc.Clock.After(d.deadline)
	}

	for !d.cond.Eval() {
		changed, err := d.wait(ctx, expire)
		if err != nil {
			return err
		}
		if !changed {
			// Deadline expired.
			fc.Emit(ctx, hook.KindDependencyResolved, hook.DependencyPayload{Resolved: false})
			if d.succeedOnExpiry {
				return nil
			}
			return ErrDependencyUnresolved
		}
	}

	fc.Emit(ctx, hook.KindDependencyResolved, hook.DependencyPayload{Resolved: true})
	return d.inner.Execute(ctx, fc)
}

// wait blocks until some dependency changes state (true), the deadline
// expires (false), or ctx is done (error). Change channels are
// re-fetched per wait because dependencies replace them on each flip.
func (d *dependentFrame) wait(ctx context.Context, expire <-chan time.Time) (bool, error) {
	wake := make(chan struct{}, 1)
	stop := make(chan struct{})
	defer close(stop)

	d.cond.visit(func(dep Dependency) {
		ch := dep.Changed()
		go func() {
			select {
			case <-ch:
				select {
				case wake <- struct{}{}:
				default:
				}
			case <-stop:
			}
		}()
	})

	// A dependency that flipped between the caller's Eval and Changed
	// handed us its post-flip channel, which will not fire for that
	// flip. Re-evaluating here closes the window.
	if d.cond.Eval() {
		return true, nil
	}

	select {
	case <-wake:
		return true, nil
	case <-expire:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
