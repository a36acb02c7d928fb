// Package blob reads and writes typed JSON values through a types.Store.
package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskboard/internal/logging"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Load decodes the value under key into v. It reports found=false when the
// key is absent. A value that does not decode is deleted from the store and
// ErrStorageCorrupt is returned.
func Load(ctx context.Context, s types.Store, key string, v any) (found bool, err error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		logging.Warn(ctx, "discarding corrupt blob", zap.String("key", key), zap.Error(err))
		if derr := s.Delete(ctx, key); derr != nil {
			return false, fmt.Errorf("deleting corrupt %s: %w", key, derr)
		}
		return false, fmt.Errorf("%s: %w", key, types.ErrStorageCorrupt)
	}
	return true, nil
}

// Save encodes v as JSON and stores it under key.
func Save(ctx context.Context, s types.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func Remove(ctx context.Context, s types.Store, key string) error {
	if err := s.Delete(ctx, key); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}
