package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"notestore/internal/domain"
)

// Options configures the SQLite connection
type Options struct {
	BusyTimeout time.Duration
	Logger      *slog.Logger
}

// dsn builds the connection string. Every connection enables foreign keys
// (required for the cascading delete), WAL with full fsync on commit, and
// BEGIN IMMEDIATE so a transaction holds the write lock from its start.
func dsn(path string, busyTimeout time.Duration) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_journal_mode", "WAL")
	params.Set("_synchronous", "FULL")
	params.Set("_txlock", "immediate")
	params.Set("_busy_timeout", fmt.Sprint(busyTimeout.Milliseconds()))
	return "file:" + path + "?" + params.Encode()
}

// Open opens the database at path, creating the file and its directory if
// needed, and materializes the schema on first use.
//
// The pool is limited to one connection: the store is a single shared
// handle and every transaction goes through it.
func Open(ctx context.Context, path string, opts Options) (*sql.DB, error) {
	if opts.BusyTimeout <= 0 {
		opts.BusyTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, domain.NewStorageError("create data dir", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(path, opts.BusyTimeout))
	if err != nil {
		return nil, domain.NewStorageError("open database", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, domain.NewStorageError("connect to database", err)
	}

	initialized, err := EnsureSchema(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	opts.Logger.Info("sqlite store opened",
		"path", path,
		"schema_initialized", initialized,
		"schema_version", SchemaVersion,
	)

	return db, nil
}
