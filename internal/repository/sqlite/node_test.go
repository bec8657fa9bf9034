package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notestore/internal/domain"
	"notestore/internal/domain/models"
)

func openTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "editor.sqlite")
	db, err := Open(context.Background(), path, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, path
}

func newTestNode(parent *models.NodeID, name string, kind models.NodeKind, content *string) *models.Node {
	now := time.UnixMilli(1700000000000).UTC()
	return &models.Node{
		ParentID:  parent,
		Name:      name,
		Kind:      kind,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func strPtr(s string) *string { return &s }

func TestOpen_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, path := openTestDB(t)
	repo := NewNodeRepository(db)

	folder := newTestNode(nil, "Notes", models.KindFolder, nil)
	require.NoError(t, repo.Create(ctx, folder))
	require.NoError(t, db.Close())

	reopened, err := Open(ctx, path, Options{})
	require.NoError(t, err)
	defer reopened.Close()

	initialized, err := EnsureSchema(ctx, reopened)
	require.NoError(t, err)
	assert.False(t, initialized, "schema must not be re-run on an initialized store")

	version, err := userVersion(ctx, reopened)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)

	got, err := NewNodeRepository(reopened).GetByID(ctx, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, "Notes", got.Name)
}

func TestNodeRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	repo := NewNodeRepository(db)

	folder := newTestNode(nil, "Notes", models.KindFolder, nil)
	require.NoError(t, repo.Create(ctx, folder))

	file := newTestNode(folder.ID.Ptr(), "todo.md", models.KindFile, strPtr("- buy milk"))
	file.Mime = "text/markdown"
	require.NoError(t, repo.Create(ctx, file))

	assert.NotEqual(t, folder.ID, file.ID)

	got, err := repo.GetByID(ctx, file.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, folder.ID, *got.ParentID)
	assert.Equal(t, models.KindFile, got.Kind)
	assert.Equal(t, "text/markdown", got.Mime)
	require.NotNil(t, got.Content)
	assert.Equal(t, "- buy milk", *got.Content)
	assert.Equal(t, file.CreatedAt, got.CreatedAt)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNodeRepository_IDsAreNeverReused(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	repo := NewNodeRepository(db)

	first := newTestNode(nil, "a.md", models.KindFile, nil)
	require.NoError(t, repo.Create(ctx, first))
	_, err := repo.Delete(ctx, first.ID)
	require.NoError(t, err)

	second := newTestNode(nil, "b.md", models.KindFile, nil)
	require.NoError(t, repo.Create(ctx, second))

	assert.Greater(t, second.ID, first.ID)
}

func TestNodeRepository_CreateWithMissingParent(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewNodeRepository(db)

	err := repo.Create(context.Background(), newTestNode(models.NodeID(42).Ptr(), "orphan.md", models.KindFile, nil))

	assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNodeRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	repo := NewNodeRepository(db)

	folder := newTestNode(nil, "F", models.KindFolder, nil)
	require.NoError(t, repo.Create(ctx, folder))
	sub := newTestNode(folder.ID.Ptr(), "G", models.KindFolder, nil)
	require.NoError(t, repo.Create(ctx, sub))
	file := newTestNode(sub.ID.Ptr(), "A", models.KindFile, strPtr("x"))
	require.NoError(t, repo.Create(ctx, file))

	existed, err := repo.Delete(ctx, folder.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	for _, id := range []models.NodeID{folder.ID, sub.ID, file.ID} {
		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound, "node %d should be gone", id)
	}

	existed, err = repo.Delete(ctx, folder.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestNodeRepository_UpdateContent(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	repo := NewNodeRepository(db)

	folder := newTestNode(nil, "F", models.KindFolder, nil)
	require.NoError(t, repo.Create(ctx, folder))
	file := newTestNode(nil, "a.md", models.KindFile, nil)
	require.NoError(t, repo.Create(ctx, file))

	later := time.UnixMilli(1700000005000).UTC()
	require.NoError(t, repo.UpdateContent(ctx, file.ID, "hello", later))

	got, err := repo.GetByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", *got.Content)
	assert.Equal(t, later, got.UpdatedAt)

	err = repo.UpdateContent(ctx, folder.ID, "nope", later)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.UpdateContent(ctx, 999, "nope", later)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNodeRepository_ListChildrenInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	repo := NewNodeRepository(db)

	folder := newTestNode(nil, "F", models.KindFolder, nil)
	require.NoError(t, repo.Create(ctx, folder))
	for _, name := range []string{"c.md", "a.md", "b.md"} {
		require.NoError(t, repo.Create(ctx, newTestNode(folder.ID.Ptr(), name, models.KindFile, nil)))
	}

	children, err := repo.ListChildren(ctx, folder.ID.Ptr())
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, "c.md", children[0].Name)
	assert.Equal(t, "a.md", children[1].Name)
	assert.Equal(t, "b.md", children[2].Name)

	roots, err := repo.ListChildren(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []models.NodeSummary{{ID: folder.ID, Name: "F", Kind: models.KindFolder}}, roots)

	empty, err := repo.ListChildren(ctx, models.NodeID(999).Ptr())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestNodeRepository_UpdateParentAndPath(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	repo := NewNodeRepository(db)

	notes := newTestNode(nil, "Notes", models.KindFolder, nil)
	require.NoError(t, repo.Create(ctx, notes))
	archive := newTestNode(nil, "Archive", models.KindFolder, nil)
	require.NoError(t, repo.Create(ctx, archive))
	file := newTestNode(notes.ID.Ptr(), "todo.md", models.KindFile, nil)
	require.NoError(t, repo.Create(ctx, file))

	path, err := repo.GetPath(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "Notes/todo.md", path)

	require.NoError(t, repo.UpdateParent(ctx, file.ID, archive.ID.Ptr()))
	path, err = repo.GetPath(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "Archive/todo.md", path)

	require.NoError(t, repo.UpdateParent(ctx, file.ID, nil))
	path, err = repo.GetPath(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "todo.md", path)

	err = repo.UpdateParent(ctx, file.ID, models.NodeID(999).Ptr())
	assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)

	_, err = repo.GetPath(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNodeRepository_GetAllOmitsContent(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	repo := NewNodeRepository(db)

	require.NoError(t, repo.Create(ctx, newTestNode(nil, "a.md", models.KindFile, strPtr("body"))))
	require.NoError(t, repo.Create(ctx, newTestNode(nil, "F", models.KindFolder, nil)))

	nodes, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	for _, n := range nodes {
		assert.Nil(t, n.Content)
	}
}

func TestNodeRepository_StorageErrorsAreTyped(t *testing.T) {
	db, _ := openTestDB(t)
	repo := NewNodeRepository(db)
	require.NoError(t, db.Close())

	_, err := repo.GetByID(context.Background(), 1)

	assert.ErrorIs(t, err, domain.ErrStorage)
	var storageErr *domain.StorageError
	assert.True(t, errors.As(err, &storageErr))
}
