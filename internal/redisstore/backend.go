// Package redisstore implements the Store backend on Redis. Every key is
// namespaced with a configurable prefix so several boards can share one
// Redis database.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Defaults applied when Config leaves the Redis fields empty.
const (
	DefaultAddr   = "localhost:6379"
	DefaultPrefix = "taskboard:"
)

const pingTimeout = 5 * time.Second

var _ types.Store = (*Backend)(nil)

// Backend implements types.Store using a go-redis client.
type Backend struct {
	mu     sync.RWMutex
	client *redis.Client
	prefix string
}

// NewBackend creates an unattached Redis backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach dials Redis and verifies the connection with a PING.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client != nil {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	addr := config.RedisAddr
	if addr == "" {
		addr = DefaultAddr
	}
	prefix := config.RedisPrefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   config.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis ping failed: %w", err)
	}

	b.client = client
	b.prefix = prefix
	return nil
}

// Detach closes the client. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client == nil {
		return nil
	}
	err := b.client.Close()
	b.client = nil
	return err
}

// Get returns the value stored under key.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	client, err := b.use(key)
	if err != nil {
		return nil, err
	}
	v, err := client.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", key, err)
	}
	return v, nil
}

// Set stores value under key with no expiry.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	client, err := b.use(key)
	if err != nil {
		return err
	}
	if err := client.Set(ctx, b.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (b *Backend) Delete(ctx context.Context, key string) error {
	client, err := b.use(key)
	if err != nil {
		return err
	}
	if err := client.Del(ctx, b.prefix+key).Err(); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// use validates key and returns the attached client.
func (b *Backend) use(key string) (*redis.Client, error) {
	if key == "" {
		return nil, types.ErrInvalidKey
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.client == nil {
		return nil, types.ErrStoreDetached
	}
	return b.client, nil
}
