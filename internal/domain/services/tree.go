package services

import (
	"context"

	"notestore/internal/domain/models"
)

// TreeService defines operations for building the nested node tree
type TreeService interface {
	// GetTree builds the full forest of root-level nodes with nested children
	GetTree(ctx context.Context) ([]*models.TreeNode, error)
}
