// Package journal keeps an optional SQLite audit log of scan runs: which notes
// were processed, with what outcome, and whether they were stamped. It stores
// no task text and never influences note selection.
package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	base_dir    TEXT     NOT NULL,
	dry_run     BOOLEAN  NOT NULL DEFAULT FALSE,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME,
	notes       INTEGER  NOT NULL DEFAULT 0,
	failures    INTEGER  NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS outcomes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     INTEGER  NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	subject    TEXT     NOT NULL,
	path       TEXT     NOT NULL,
	checksum   TEXT     NOT NULL DEFAULT '',
	kind       TEXT     NOT NULL,
	stamped    BOOLEAN  NOT NULL DEFAULT FALSE,
	error      TEXT     NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
`

// DB wraps a sql.DB with journal operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the journal database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("journal: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
