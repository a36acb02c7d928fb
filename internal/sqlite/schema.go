package sqlite

// Schema DDL. SQLite is only the query engine; entries.jsonl is the source
// of truth and is reloaded into a fresh database on every Attach.
const (
	createEntries = `CREATE TABLE entries (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	idxEntriesUpdated = `CREATE INDEX idx_entries_updated ON entries(updated_at);`
)

// schemaDDL lists all statements executed on Attach, in order.
var schemaDDL = []string{
	createEntries,
	idxEntriesUpdated,
}
