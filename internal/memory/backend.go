// Package memory implements an in-process Store backend. Values live in a
// map for the lifetime of the Backend and survive Detach, so a detached
// backend can be attached again with its data intact.
package memory

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

var _ types.Store = (*Backend)(nil)

// Backend implements types.Store over a map.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	entries  map[string][]byte
}

// NewBackend creates an empty, unattached memory backend.
func NewBackend() *Backend {
	return &Backend{entries: make(map[string][]byte)}
}

// Attach validates config and marks the backend attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	b.attached = true
	return nil
}

// Detach marks the backend detached. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attached = false
	return nil
}

// Get returns a copy of the value stored under key.
func (b *Backend) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, types.ErrInvalidKey
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	v, ok := b.entries[key]
	if !ok {
		return nil, types.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (b *Backend) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	b.entries[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key.
func (b *Backend) Delete(_ context.Context, key string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	delete(b.entries, key)
	return nil
}
