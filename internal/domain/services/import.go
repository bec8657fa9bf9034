package services

import (
	"context"

	"notestore/internal/domain/models"
)

// ImportService creates nested structures in a single transaction
type ImportService interface {
	// Import creates entries under parentID (nil = root) and returns the
	// number of nodes created. Nothing is created if any entry fails.
	Import(ctx context.Context, parentID *models.NodeID, entries []ImportEntry) (int, error)
}

// ImportEntry describes one node to import. An entry with Children (or
// Folder set) becomes a folder; anything else becomes a file.
type ImportEntry struct {
	Name     string        `json:"name" yaml:"name"`
	Folder   bool          `json:"folder,omitempty" yaml:"folder,omitempty"`
	Content  *string       `json:"content,omitempty" yaml:"content,omitempty"`
	Mime     string        `json:"mime,omitempty" yaml:"mime,omitempty"`
	Children []ImportEntry `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsFolder reports whether the entry should be created as a folder
func (e *ImportEntry) IsFolder() bool {
	return e.Folder || len(e.Children) > 0
}
