package postgres

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"notestore/internal/domain"
	"notestore/internal/domain/repositories"
)

// TransactionManager runs each transaction under a transaction-scoped
// advisory lock keyed by the table prefix, so at most one transaction per
// store executes at a time. Waiting for the lock is bounded by lock_timeout.
type TransactionManager struct {
	pool        *pgxpool.Pool
	lockKey     int64
	lockTimeout time.Duration
	logger      *slog.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(pool *pgxpool.Pool, tables *TableNames, lockTimeout time.Duration, logger *slog.Logger) *TransactionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionManager{
		pool:        pool,
		lockKey:     advisoryLockKey(tables.Nodes),
		lockTimeout: lockTimeout,
		logger:      logger,
	}
}

var _ repositories.TransactionManager = (*TransactionManager)(nil)

// advisoryLockKey derives a stable lock key from the store's table name
func advisoryLockKey(table string) int64 {
	h := fnv.New64a()
	h.Write([]byte("notestore:" + table))
	return int64(h.Sum64())
}

// ExecTx executes a function within a transaction
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	// Already inside a transaction: join it
	if getTx(ctx) != nil {
		return fn(ctx)
	}

	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return domain.NewStorageError("begin transaction", err)
	}

	// Once the lock is held the transaction runs to completion
	runCtx := context.WithoutCancel(ctx)

	// Defer rollback - safe even if commit succeeds
	defer func() {
		if err := tx.Rollback(runCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			tm.logger.Error("rollback failed", "error", err)
		}
	}()

	if err := tm.lock(ctx, tx); err != nil {
		return err
	}

	if err := fn(setTx(runCtx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(runCtx); err != nil {
		return domain.NewStorageError("commit transaction", err)
	}

	return nil
}

func (tm *TransactionManager) lock(ctx context.Context, tx pgx.Tx) error {
	if tm.lockTimeout > 0 {
		// SET cannot take bind parameters
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", tm.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return domain.NewStorageError("set lock timeout", err)
		}
	}

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", tm.lockKey); err != nil {
		if isPgLockTimeoutError(err) {
			return domain.NewStorageError("acquire store lock", fmt.Errorf("timed out after %s", tm.lockTimeout))
		}
		return domain.NewStorageError("acquire store lock", err)
	}

	return nil
}
