package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"notestore/internal/domain/models"
)

// printer renders results as text or, with --json, as indented JSON
type printer struct {
	json *bool
}

func (p *printer) isJSON() bool {
	return p.json != nil && *p.json
}

func (p *printer) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) children(w io.Writer, children []models.NodeSummary) error {
	if p.isJSON() {
		return p.printJSON(w, children)
	}
	for _, c := range children {
		name := c.Name
		if c.Kind == models.KindFolder {
			name += "/"
		}
		fmt.Fprintf(w, "%d\t%s\n", c.ID, name)
	}
	return nil
}

func (p *printer) id(w io.Writer, id models.NodeID) error {
	if p.isJSON() {
		return p.printJSON(w, map[string]models.NodeID{"id": id})
	}
	fmt.Fprintln(w, id)
	return nil
}

func (p *printer) node(w io.Writer, n *models.Node) error {
	if p.isJSON() {
		return p.printJSON(w, n)
	}
	parent := "root"
	if n.ParentID != nil {
		parent = n.ParentID.String()
	}
	fmt.Fprintf(w, "id:       %d\n", n.ID)
	fmt.Fprintf(w, "name:     %s\n", n.Name)
	fmt.Fprintf(w, "kind:     %s\n", n.Kind)
	fmt.Fprintf(w, "path:     %s\n", n.Path)
	fmt.Fprintf(w, "parent:   %s\n", parent)
	if n.Kind == models.KindFile {
		size := 0
		if n.Content != nil {
			size = len(*n.Content)
		}
		fmt.Fprintf(w, "mime:     %s\n", n.Mime)
		fmt.Fprintf(w, "size:     %d\n", size)
	}
	fmt.Fprintf(w, "created:  %s\n", n.CreatedAt.Format("2006-01-02 15:04:05.000Z07:00"))
	fmt.Fprintf(w, "updated:  %s\n", n.UpdatedAt.Format("2006-01-02 15:04:05.000Z07:00"))
	return nil
}

func (p *printer) tree(w io.Writer, roots []*models.TreeNode) error {
	if p.isJSON() {
		return p.printJSON(w, roots)
	}
	for _, r := range roots {
		printTreeNode(w, r, 0)
	}
	return nil
}

func printTreeNode(w io.Writer, n *models.TreeNode, depth int) {
	name := n.Name
	if n.Kind == models.KindFolder {
		name += "/"
	}
	fmt.Fprintf(w, "%s%s [%d]\n", strings.Repeat("  ", depth), name, n.ID)
	for _, c := range n.Children {
		printTreeNode(w, c, depth+1)
	}
}
