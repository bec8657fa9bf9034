package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notestore/internal/domain/models"
)

func TestBuildTree(t *testing.T) {
	folder := models.Node{ID: 1, Name: "Notes", Kind: models.KindFolder}
	sub := models.Node{ID: 2, ParentID: models.NodeID(1).Ptr(), Name: "Daily", Kind: models.KindFolder}
	file := models.Node{ID: 3, ParentID: models.NodeID(2).Ptr(), Name: "today.md", Kind: models.KindFile}
	rootFile := models.Node{ID: 4, Name: "inbox.md", Kind: models.KindFile}
	sibling := models.Node{ID: 5, ParentID: models.NodeID(1).Ptr(), Name: "a.md", Kind: models.KindFile}

	roots := buildTree([]models.Node{folder, sub, file, rootFile, sibling})

	require.Len(t, roots, 2)
	assert.Equal(t, "Notes", roots[0].Name)
	assert.Equal(t, "inbox.md", roots[1].Name)
	assert.Nil(t, roots[1].Children)

	notes := roots[0]
	require.Len(t, notes.Children, 2)
	assert.Equal(t, "Daily", notes.Children[0].Name)
	assert.Equal(t, "a.md", notes.Children[1].Name)

	daily := notes.Children[0]
	require.Len(t, daily.Children, 1)
	assert.Equal(t, models.NodeID(3), daily.Children[0].ID)
}

func TestBuildTree_Empty(t *testing.T) {
	roots := buildTree(nil)
	assert.NotNil(t, roots)
	assert.Empty(t, roots)
}

func TestTreeService_GetTree(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	notes := mustFolder(t, fx.store, nil, "Notes")
	mustFile(t, fx.store, notes.Ptr(), "todo.md", "- buy milk")
	empty := mustFolder(t, fx.store, nil, "Empty")

	tree, err := fx.tree.GetTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	assert.Equal(t, notes, tree[0].ID)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "todo.md", tree[0].Children[0].Name)
	assert.Equal(t, notes, *tree[0].Children[0].ParentID)

	assert.Equal(t, empty, tree[1].ID)
	assert.NotNil(t, tree[1].Children)
	assert.Empty(t, tree[1].Children)
}
