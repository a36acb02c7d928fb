// Package store exposes the factory for Store backends while keeping the
// backend implementations internal.
package store

import (
	"fmt"

	"github.com/mesh-intelligence/taskboard/internal/memory"
	"github.com/mesh-intelligence/taskboard/internal/redisstore"
	"github.com/mesh-intelligence/taskboard/internal/sqlite"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// New creates an unattached backend by name. Call Attach with a Config
// whose Backend matches to initialize it.
//
// Example:
//
//	s, err := store.New(types.BackendSQLite)
//	err = s.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".taskboard",
//	})
//	defer s.Detach()
func New(backend string) (types.Store, error) {
	switch backend {
	case types.BackendSQLite:
		return sqlite.NewBackend(), nil
	case types.BackendRedis:
		return redisstore.NewBackend(), nil
	case types.BackendMemory:
		return memory.NewBackend(), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, backend)
	}
}

// Open creates the backend named by config.Backend and attaches it.
func Open(config types.Config) (types.Store, error) {
	s, err := New(config.Backend)
	if err != nil {
		return nil, err
	}
	if err := s.Attach(config); err != nil {
		return nil, fmt.Errorf("attaching %s backend: %w", config.Backend, err)
	}
	return s, nil
}
