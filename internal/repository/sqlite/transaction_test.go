package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notestore/internal/domain"
	"notestore/internal/domain/models"
)

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	repo := NewNodeRepository(db)
	tm := NewTransactionManager(db, time.Second, nil)

	boom := errors.New("boom")
	err := tm.ExecTx(ctx, func(txCtx context.Context) error {
		if err := repo.Create(txCtx, newTestNode(nil, "a.md", models.KindFile, nil)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	roots, err := repo.ListChildren(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestTransactionManager_NestedCallsJoin(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	repo := NewNodeRepository(db)
	tm := NewTransactionManager(db, 100*time.Millisecond, nil)

	err := tm.ExecTx(ctx, func(outer context.Context) error {
		// Would time out waiting for the slot if it did not join
		return tm.ExecTx(outer, func(inner context.Context) error {
			return repo.Create(inner, newTestNode(nil, "a.md", models.KindFile, nil))
		})
	})
	require.NoError(t, err)

	roots, err := repo.ListChildren(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, roots, 1)
}

func TestTransactionManager_TimesOutWaitingForLock(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	tm := NewTransactionManager(db, 50*time.Millisecond, nil)

	started := make(chan struct{})
	finish := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- tm.ExecTx(ctx, func(context.Context) error {
			close(started)
			<-finish
			return nil
		})
	}()
	<-started

	err := tm.ExecTx(ctx, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, domain.ErrStorage)

	close(finish)
	require.NoError(t, <-done)
}

func TestTransactionManager_SerializesConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	repo := NewNodeRepository(db)
	tm := NewTransactionManager(db, 5*time.Second, nil)

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- tm.ExecTx(ctx, func(txCtx context.Context) error {
				return repo.Create(txCtx, newTestNode(nil, "n.md", models.KindFile, nil))
			})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	roots, err := repo.ListChildren(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, roots, writers)

	seen := make(map[models.NodeID]bool)
	for _, r := range roots {
		assert.False(t, seen[r.ID], "duplicate id %d", r.ID)
		seen[r.ID] = true
	}
}

func TestTransactionManager_CancelledWhileWaiting(t *testing.T) {
	db, _ := openTestDB(t)
	tm := NewTransactionManager(db, time.Second, nil)

	hold := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- tm.ExecTx(context.Background(), func(context.Context) error {
			close(started)
			<-hold
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := tm.ExecTx(ctx, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, domain.ErrStorage)

	close(hold)
	require.NoError(t, <-done)
}
