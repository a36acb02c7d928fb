package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
)

// loadEntriesJSONL reads entries.jsonl from dataDir and inserts its records
// into the entries table. Loading is transactional: all records load or the
// table stays empty. Malformed lines and records without a key are skipped;
// unknown fields are ignored. When a key repeats, the last line wins.
func loadEntriesJSONL(db *sql.DB, dataDir string) error {
	records, err := readJSONL(filepath.Join(dataDir, entriesJSONL))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT INTO entries (key, value, updated_at) VALUES (?, ?, ?) " +
			"ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
	)
	if err != nil {
		return fmt.Errorf("preparing entry insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var e entryJSON
		if err := json.Unmarshal(rec, &e); err != nil {
			continue
		}
		if e.Key == "" {
			continue
		}
		if _, err := stmt.Exec(e.Key, e.Value, e.UpdatedAt); err != nil {
			return fmt.Errorf("loading entry %q: %w", e.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}
