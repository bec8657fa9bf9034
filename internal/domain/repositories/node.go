package repositories

import (
	"context"
	"time"

	"notestore/internal/domain/models"
)

// NodeRepository defines data access operations for the node tree.
// Implementations join the transaction carried by ctx when there is one.
type NodeRepository interface {
	// Create inserts a node and sets its ID
	Create(ctx context.Context, node *models.Node) error

	// GetByID retrieves a node (including content) by ID
	GetByID(ctx context.Context, id models.NodeID) (*models.Node, error)

	// UpdateContent replaces the content of a file node.
	// Returns ErrNotFound when no file with that ID exists.
	UpdateContent(ctx context.Context, id models.NodeID, content string, updatedAt time.Time) error

	// UpdateParent reparents a node (nil = root)
	UpdateParent(ctx context.Context, id models.NodeID, parentID *models.NodeID) error

	// UpdateName renames a node
	UpdateName(ctx context.Context, id models.NodeID, name string, updatedAt time.Time) error

	// Delete removes a node and, through the cascading foreign key, its subtree.
	// Reports whether a row existed.
	Delete(ctx context.Context, id models.NodeID) (bool, error)

	// ListChildren lists immediate children ordered by ID (nil = root level)
	ListChildren(ctx context.Context, parentID *models.NodeID) ([]models.NodeSummary, error)

	// GetAll retrieves metadata (no content) of every node ordered by ID
	GetAll(ctx context.Context) ([]models.Node, error)

	// GetPath computes the slash-separated display path of a node
	GetPath(ctx context.Context, id models.NodeID) (string, error)
}
