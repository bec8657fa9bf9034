package service

import (
	"context"
	"log/slog"

	"notestore/internal/domain/models"
	"notestore/internal/domain/repositories"
	"notestore/internal/domain/services"
)

// treeService implements the TreeService interface
type treeService struct {
	repo      repositories.NodeRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	repo repositories.NodeRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
	}
}

// GetTree builds the nested forest of every node, children in insertion order
func (s *treeService) GetTree(ctx context.Context) ([]*models.TreeNode, error) {
	var all []models.Node

	// One snapshot, so a concurrent move cannot tear the tree
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		all, err = s.repo.GetAll(txCtx)
		return err
	})
	if err != nil {
		return nil, err
	}

	tree := buildTree(all)

	s.logger.Debug("tree built", "node_count", len(all), "root_count", len(tree))

	return tree, nil
}

// buildTree nests nodes by parent. Input order is preserved among siblings.
func buildTree(all []models.Node) []*models.TreeNode {
	nodeMap := make(map[models.NodeID]*models.TreeNode, len(all))

	// First pass: create all tree nodes
	for _, n := range all {
		treeNode := &models.TreeNode{
			ID:        n.ID,
			Name:      n.Name,
			Kind:      n.Kind,
			ParentID:  n.ParentID,
			UpdatedAt: n.UpdatedAt,
		}
		if n.IsFolder() {
			treeNode.Children = []*models.TreeNode{}
		}
		nodeMap[n.ID] = treeNode
	}

	// Second pass: attach children to parents
	roots := make([]*models.TreeNode, 0)
	for _, n := range all {
		treeNode := nodeMap[n.ID]
		if n.ParentID == nil {
			roots = append(roots, treeNode)
			continue
		}
		if parent, exists := nodeMap[*n.ParentID]; exists {
			parent.Children = append(parent.Children, treeNode)
		}
	}

	return roots
}
