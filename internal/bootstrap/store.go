// Package bootstrap opens the configured storage backend and wires the
// services on top of it.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"notestore/internal/config"
	"notestore/internal/domain/repositories"
	"notestore/internal/domain/services"
	"notestore/internal/repository/postgres"
	"notestore/internal/repository/sqlite"
	"notestore/internal/service"
)

// Store is an opened node store. It owns the database handle; callers pass
// it to whatever needs it and Close it on shutdown.
type Store struct {
	Nodes  services.NodeStore
	Tree   services.TreeService
	Import services.ImportService

	close func()
}

// Close releases the database handle
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open opens the backend named by cfg.StoreDriver, initializing its schema
// on first use
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite, "":
		return openSQLite(ctx, cfg, logger)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openSQLite(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	db, err := sqlite.Open(ctx, cfg.DBPath, sqlite.Options{
		BusyTimeout: cfg.LockTimeout,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	repo := sqlite.NewNodeRepository(db)
	txManager := sqlite.NewTransactionManager(db, cfg.LockTimeout, logger)

	store := newStore(repo, txManager, logger)
	store.close = func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close sqlite store", "error", err)
		}
	}
	return store, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the %s driver", config.DriverPostgres)
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)

	initialized, err := postgres.EnsureSchema(ctx, pool, tables)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize postgres schema: %w", err)
	}

	logger.Info("postgres store opened",
		"table_prefix", tables.Prefix,
		"schema_initialized", initialized,
	)

	repo := postgres.NewNodeRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	})
	txManager := postgres.NewTransactionManager(pool, tables, cfg.LockTimeout, logger)

	store := newStore(repo, txManager, logger)
	store.close = pool.Close
	return store, nil
}

func newStore(repo repositories.NodeRepository, txManager repositories.TransactionManager, logger *slog.Logger) *Store {
	nodes := service.NewNodeStore(repo, txManager, logger)
	return &Store{
		Nodes:  nodes,
		Tree:   service.NewTreeService(repo, txManager, logger),
		Import: service.NewImportService(nodes, txManager, logger),
	}
}
