package models

import "time"

// TreeNode represents a node in the nested tree with its children
type TreeNode struct {
	ID        NodeID      `json:"id"`
	Name      string      `json:"name"`
	Kind      NodeKind    `json:"kind"`
	ParentID  *NodeID     `json:"parent_id"`
	UpdatedAt time.Time   `json:"updated_at"`
	Children  []*TreeNode `json:"children,omitempty"` // Pointers for proper nesting
}
