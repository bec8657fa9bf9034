package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"notestore/internal/domain"
	"notestore/internal/domain/repositories"
)

// TransactionManager serializes transactions on the shared connection.
// A one-slot semaphore is the store's lock; waiting for it is bounded by
// the lock timeout.
type TransactionManager struct {
	db      *sql.DB
	slot    chan struct{}
	timeout time.Duration
	logger  *slog.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *sql.DB, lockTimeout time.Duration, logger *slog.Logger) *TransactionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionManager{
		db:      db,
		slot:    make(chan struct{}, 1),
		timeout: lockTimeout,
		logger:  logger,
	}
}

var _ repositories.TransactionManager = (*TransactionManager)(nil)

// ExecTx executes a function within a transaction
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	// Already inside a transaction: join it
	if getTx(ctx) != nil {
		return fn(ctx)
	}

	if err := tm.acquire(ctx); err != nil {
		return err
	}
	defer tm.release()

	// A started transaction always runs to commit or rollback
	runCtx := context.WithoutCancel(ctx)

	tx, err := tm.db.BeginTx(runCtx, nil)
	if err != nil {
		return domain.NewStorageError("begin transaction", err)
	}

	// Defer rollback - safe even if commit succeeds
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			tm.logger.Error("rollback failed", "error", err)
		}
	}()

	if err := fn(setTx(runCtx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.NewStorageError("commit transaction", err)
	}

	return nil
}

func (tm *TransactionManager) acquire(ctx context.Context) error {
	if tm.timeout <= 0 {
		select {
		case tm.slot <- struct{}{}:
			return nil
		case <-ctx.Done():
			return domain.NewStorageError("acquire store lock", ctx.Err())
		}
	}

	timer := time.NewTimer(tm.timeout)
	defer timer.Stop()

	select {
	case tm.slot <- struct{}{}:
		return nil
	case <-timer.C:
		return domain.NewStorageError("acquire store lock", fmt.Errorf("timed out after %s", tm.timeout))
	case <-ctx.Done():
		return domain.NewStorageError("acquire store lock", ctx.Err())
	}
}

func (tm *TransactionManager) release() {
	<-tm.slot
}
