package persist

import (
	"context"
	"fmt"
	"sync"

	commonerrors "github.com/vnykmshr/chronoflow/pkg/common/errors"
)

// MemoryBackend keeps specs in process memory. Useful for tests and as
// a reference implementation of the Backend contract.
type MemoryBackend struct {
	mu    sync.RWMutex
	specs map[string]Spec
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{specs: make(map[string]Spec)}
}

// Save implements Backend.
func (b *MemoryBackend) Save(_ context.Context, spec Spec) error {
	if spec.ID == "" {
		return fmt.Errorf("spec ID cannot be empty")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.specs[spec.ID] = spec
	return nil
}

// Load implements Backend.
func (b *MemoryBackend) Load(_ context.Context, id string) (Spec, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	spec, ok := b.specs[id]
	if !ok {
		return Spec{}, fmt.Errorf("spec %s: %w", id, commonerrors.ErrNotFound)
	}
	return spec, nil
}

// Delete implements Backend.
func (b *MemoryBackend) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.specs, id)
	return nil
}

// List implements Backend.
func (b *MemoryBackend) List(_ context.Context) ([]Spec, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Spec, 0, len(b.specs))
	for _, spec := range b.specs {
		out = append(out, spec)
	}
	return out, nil
}

// Close implements Backend.
func (b *MemoryBackend) Close() error {
	return nil
}
