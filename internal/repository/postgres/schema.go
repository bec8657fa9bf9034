package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"notestore/internal/domain"
)

// SchemaVersion is stored in the schema_version table once the schema exists.
const SchemaVersion = 1

func schemaStatements(tables *TableNames) []string {
	return []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
				parent_id BIGINT REFERENCES %[1]s(id) ON DELETE CASCADE,
				name TEXT NOT NULL CHECK (name <> ''),
				kind TEXT NOT NULL CHECK (kind IN ('folder', 'file')),
				mime TEXT NOT NULL DEFAULT '',
				content TEXT,
				created_at BIGINT NOT NULL,
				updated_at BIGINT NOT NULL
			)
		`, tables.Nodes),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_parent ON %[1]s(parent_id)`, tables.Nodes),
	}
}

// EnsureSchema materializes the schema on a fresh database and stamps the
// version marker. Reports whether initialization ran. Runs under the store's
// advisory lock so concurrent first opens initialize once.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) (bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, domain.NewStorageError("begin schema transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", advisoryLockKey(tables.Nodes)); err != nil {
		return false, domain.NewStorageError("acquire schema lock", err)
	}

	createVersion := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (version INTEGER NOT NULL)`, tables.SchemaVersion)
	if _, err := tx.Exec(ctx, createVersion); err != nil {
		return false, domain.NewStorageError("create schema version table", err)
	}

	var version int
	err = tx.QueryRow(ctx, fmt.Sprintf(`SELECT version FROM %s LIMIT 1`, tables.SchemaVersion)).Scan(&version)
	if err != nil && !isPgNoRowsError(err) {
		return false, domain.NewStorageError("read schema version", err)
	}
	if version != 0 {
		return false, nil
	}

	for _, stmt := range schemaStatements(tables) {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return false, domain.NewStorageError("create schema", err)
		}
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, tables.SchemaVersion)); err != nil {
		return false, domain.NewStorageError("set schema version", err)
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf(`INSERT INTO %s (version) VALUES ($1)`, tables.SchemaVersion), SchemaVersion); err != nil {
		return false, domain.NewStorageError("set schema version", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, domain.NewStorageError("commit schema", err)
	}

	return true, nil
}
