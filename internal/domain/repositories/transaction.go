package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions.
//
// At most one transaction runs at a time per store. ExecTx blocks until the
// store is free (bounded by the configured lock timeout). When ctx already
// carries a transaction, fn joins it instead of starting a new one.
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error
}
