package models

import (
	"fmt"
	"strconv"
	"time"
)

// NodeID identifies a node. Assigned by the store, never reused.
type NodeID int64

// ParseNodeID parses a decimal node id. Zero and negative values are rejected.
func ParseNodeID(s string) (NodeID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid node id %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid node id %q: must be positive", s)
	}
	return NodeID(n), nil
}

func (id NodeID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Ptr returns a pointer to a copy of id, for optional parent arguments.
func (id NodeID) Ptr() *NodeID {
	return &id
}

// NodeKind is the immutable variant of a node
type NodeKind string

const (
	KindFolder NodeKind = "folder"
	KindFile   NodeKind = "file"
)

// Valid reports whether k is a known kind
func (k NodeKind) Valid() bool {
	return k == KindFolder || k == KindFile
}

type Node struct {
	ID        NodeID    `json:"id"`
	ParentID  *NodeID   `json:"parent_id"` // nil = root level
	Name      string    `json:"name"`
	Kind      NodeKind  `json:"kind"`
	Mime      string    `json:"mime,omitempty"`
	Content   *string   `json:"content,omitempty"` // files only
	Path      string    `json:"path,omitempty"`    // Computed display path, not stored in DB
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsFolder reports whether the node can hold children
func (n *Node) IsFolder() bool {
	return n.Kind == KindFolder
}

// Summary returns the lightweight listing form of the node
func (n *Node) Summary() NodeSummary {
	return NodeSummary{ID: n.ID, Name: n.Name, Kind: n.Kind}
}

// NodeSummary is the listing entry returned by ListChildren
type NodeSummary struct {
	ID   NodeID   `json:"id"`
	Name string   `json:"name"`
	Kind NodeKind `json:"kind"`
}

// FromMillis converts a stored millisecond epoch to time.Time (UTC)
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
