package persist

import (
	"context"
	"fmt"
	"sync"

	"github.com/vnykmshr/chronoflow/pkg/task/frame"
)

// Actions maps names to frames so specs can reference executable code
// by name. Register the application's actions once at startup, then
// build tasks from stored specs against the same registry.
type Actions struct {
	mu sync.RWMutex
	m  map[string]frame.Frame
}

// NewActions creates an empty action registry.
func NewActions() *Actions {
	return &Actions{m: make(map[string]frame.Frame)}
}

// Register binds a name to a frame. Registering an existing name
// returns an error; actions are startup wiring, not runtime state.
func (a *Actions) Register(name string, f frame.Frame) error {
	if name == "" {
		return fmt.Errorf("action name cannot be empty")
	}
	if f == nil {
		return fmt.Errorf("action %q frame cannot be nil", name)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.m[name]; exists {
		return fmt.Errorf("action %q already registered", name)
	}
	a.m[name] = f
	return nil
}

// RegisterFunc binds a name to a plain action function.
func (a *Actions) RegisterFunc(name string, fn func(ctx context.Context) error) error {
	return a.Register(name, frame.Func(fn))
}

// Lookup returns the frame registered under name.
func (a *Actions) Lookup(name string) (frame.Frame, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	f, ok := a.m[name]
	return f, ok
}
