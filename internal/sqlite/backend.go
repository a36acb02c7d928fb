// Package sqlite implements the SQLite storage backend for taskboard.
// SQLite serves reads; entries.jsonl in the data directory is the source of
// truth and is rewritten atomically after every write.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// dbFileName is the scratch database recreated on each Attach.
const dbFileName = "taskboard.db"

// Compile-time interface check.
var _ types.Store = (*Backend)(nil)

// Backend implements types.Store using SQLite as the query engine and a
// JSONL file as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB

	syncStrategy string
	dirty        bool // writes not yet persisted under on_close
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, recreates the SQLite schema and loads
// entries.jsonl. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	if config.DataDir == "" {
		config.DataDir = "."
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return err
	}

	// The database is a cache of the JSONL file; start from scratch.
	dbPath := filepath.Join(config.DataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	if err := ensureJSONL(filepath.Join(config.DataDir, entriesJSONL)); err != nil {
		db.Close()
		return err
	}
	if err := loadEntriesJSONL(db, config.DataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.syncStrategy = config.EffectiveSyncStrategy()
	b.dirty = false
	b.attached = true
	return nil
}

// Detach releases all resources held by the backend. Pending writes under
// the on_close strategy are flushed first. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.dirty {
		if err := b.persistLocked(b.db); err != nil {
			return fmt.Errorf("flush pending writes: %w", err)
		}
	}

	if err := b.db.Close(); err != nil {
		return err
	}
	b.db = nil
	b.attached = false
	return nil
}

// Get returns the value stored under key.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, types.ErrInvalidKey
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	var value string
	err := b.db.QueryRowContext(ctx, "SELECT value FROM entries WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set stores value under key and persists entries.jsonl. When the JSONL
// write fails the row is rolled back and the previous value stays visible.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = tx.ExecContext(ctx,
		"INSERT INTO entries (key, value, updated_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		key, string(value), now,
	)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return b.commitLocked(tx)
}

// Delete removes key and persists entries.jsonl. Absent keys are ignored.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil
	}
	return b.commitLocked(tx)
}

// commitLocked finishes a write. Under the immediate strategy entries.jsonl
// is rewritten from the transaction first and tx commits only when that
// succeeds; under on_close tx commits and the backend is marked dirty.
// The caller must hold b.mu.
func (b *Backend) commitLocked(tx *sql.Tx) error {
	if b.syncStrategy == types.SyncOnClose {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing write: %w", err)
		}
		b.dirty = true
		return nil
	}
	if err := b.persistLocked(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing write: %w", err)
	}
	return nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// persistLocked rewrites entries.jsonl from the entries table as seen by q.
// The caller must hold b.mu.
func (b *Backend) persistLocked(q querier) error {
	rows, err := q.Query("SELECT key, value, updated_at FROM entries ORDER BY key ASC")
	if err != nil {
		return fmt.Errorf("querying entries for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var e entryJSON
		if err := rows.Scan(&e.Key, &e.Value, &e.UpdatedAt); err != nil {
			return fmt.Errorf("scanning entry for JSONL: %w", err)
		}
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshaling entry for JSONL: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating entries for JSONL: %w", err)
	}

	if err := writeJSONL(filepath.Join(b.config.DataDir, entriesJSONL), records); err != nil {
		return err
	}
	b.dirty = false
	return nil
}
