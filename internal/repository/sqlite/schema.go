package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"notestore/internal/domain"
)

// SchemaVersion is written to PRAGMA user_version once the schema exists.
// A zero user_version means the database is uninitialized.
const SchemaVersion = 1

// AUTOINCREMENT keeps deleted ids from ever being handed out again.
const schemaNodes = `
CREATE TABLE IF NOT EXISTS nodes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    parent_id INTEGER REFERENCES nodes(id) ON DELETE CASCADE,
    name TEXT NOT NULL CHECK (name <> ''),
    kind TEXT NOT NULL CHECK (kind IN ('folder', 'file')),
    mime TEXT NOT NULL DEFAULT '',
    content TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
)`

const indexNodesParent = `CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id)`

func schemaStatements() []string {
	return []string{
		schemaNodes,
		indexNodesParent,
	}
}

// EnsureSchema materializes the schema on a fresh database and stamps the
// version marker. Reports whether initialization ran; an initialized
// database is left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB) (bool, error) {
	version, err := userVersion(ctx, db)
	if err != nil {
		return false, err
	}
	if version != 0 {
		return false, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, domain.NewStorageError("begin schema transaction", err)
	}
	defer tx.Rollback()

	// Re-check under the write lock in case another process initialized first
	if err := tx.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return false, domain.NewStorageError("read schema version", err)
	}
	if version != 0 {
		return false, nil
	}

	for _, stmt := range schemaStatements() {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return false, domain.NewStorageError("create schema", err)
		}
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return false, domain.NewStorageError("set schema version", err)
	}

	if err := tx.Commit(); err != nil {
		return false, domain.NewStorageError("commit schema", err)
	}

	return true, nil
}

func userVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, domain.NewStorageError("read schema version", err)
	}
	return version, nil
}
