package services

import (
	"context"

	"notestore/internal/domain/models"
)

// NodeStore is the transactional folder/file tree behind the editor.
// Every call runs as one transaction.
type NodeStore interface {
	// Read returns the content of a file. Returns nil (no error) when the
	// node is absent or is a folder.
	Read(ctx context.Context, id models.NodeID) (*string, error)

	// Write replaces the content of a file and refreshes updated_at.
	// Returns ErrNotFound when id is missing or is a folder.
	Write(ctx context.Context, id models.NodeID, content string) error

	// Create creates a file and returns its ID
	Create(ctx context.Context, req *CreateNodeRequest) (models.NodeID, error)

	// CreateFolder creates a folder and returns its ID
	CreateFolder(ctx context.Context, req *CreateNodeRequest) (models.NodeID, error)

	// Delete removes a node and its subtree. Missing ids are a no-op.
	Delete(ctx context.Context, id models.NodeID) error

	// Move reparents a node (nil = root)
	Move(ctx context.Context, id models.NodeID, newParentID *models.NodeID) error

	// ListChildren lists immediate children (nil = root level)
	ListChildren(ctx context.Context, parentID *models.NodeID) ([]models.NodeSummary, error)

	// Get retrieves a node with its computed path
	Get(ctx context.Context, id models.NodeID) (*models.Node, error)

	// Rename changes the display name of a node
	Rename(ctx context.Context, id models.NodeID, name string) error
}

// CreateNodeRequest represents a node creation request
type CreateNodeRequest struct {
	ParentID *models.NodeID `json:"parent_id,omitempty"` // nil = root
	Name     string         `json:"name"`
	Content  *string        `json:"content,omitempty"` // files only
	Mime     string         `json:"mime,omitempty"`    // inferred from name when empty
}
