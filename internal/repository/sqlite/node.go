package sqlite

import (
	"context"
	"database/sql"
	"time"

	"notestore/internal/config"
	"notestore/internal/domain"
	"notestore/internal/domain/models"
	"notestore/internal/domain/repositories"
)

// NodeRepository implements repositories.NodeRepository on SQLite
type NodeRepository struct {
	db *sql.DB
}

// NewNodeRepository creates a new node repository
func NewNodeRepository(db *sql.DB) *NodeRepository {
	return &NodeRepository{db: db}
}

var _ repositories.NodeRepository = (*NodeRepository)(nil)

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// Create inserts a node and sets its ID
func (r *NodeRepository) Create(ctx context.Context, node *models.Node) error {
	query := `
		INSERT INTO nodes (parent_id, name, kind, mime, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		nullableID(node.ParentID),
		node.Name,
		string(node.Kind),
		node.Mime,
		nullableString(node.Content),
		node.CreatedAt.UnixMilli(),
		node.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		if isForeignKeyError(err) && node.ParentID != nil {
			return &domain.ReferentialIntegrityError{ParentID: int64(*node.ParentID), Missing: true}
		}
		return domain.NewStorageError("create node", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.NewStorageError("read inserted node id", err)
	}
	node.ID = models.NodeID(id)

	return nil
}

// GetByID retrieves a node by ID
func (r *NodeRepository) GetByID(ctx context.Context, id models.NodeID) (*models.Node, error) {
	query := `
		SELECT id, parent_id, name, kind, mime, content, created_at, updated_at
		FROM nodes
		WHERE id = ?
	`

	node, err := scanNode(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, int64(id)), true)
	if err != nil {
		if isNoRowsError(err) {
			return nil, &domain.NotFoundError{Resource: "node", ID: int64(id)}
		}
		return nil, domain.NewStorageError("get node", err)
	}

	return node, nil
}

// UpdateContent replaces the content of a file node
func (r *NodeRepository) UpdateContent(ctx context.Context, id models.NodeID, content string, updatedAt time.Time) error {
	query := `
		UPDATE nodes
		SET content = ?, updated_at = ?
		WHERE id = ? AND kind = 'file'
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, content, updatedAt.UnixMilli(), int64(id))
	if err != nil {
		return domain.NewStorageError("update content", err)
	}

	return requireAffected(result, "file", id)
}

// UpdateParent reparents a node
func (r *NodeRepository) UpdateParent(ctx context.Context, id models.NodeID, parentID *models.NodeID) error {
	query := `UPDATE nodes SET parent_id = ? WHERE id = ?`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, nullableID(parentID), int64(id))
	if err != nil {
		if isForeignKeyError(err) && parentID != nil {
			return &domain.ReferentialIntegrityError{ParentID: int64(*parentID), Missing: true}
		}
		return domain.NewStorageError("update parent", err)
	}

	return requireAffected(result, "node", id)
}

// UpdateName renames a node
func (r *NodeRepository) UpdateName(ctx context.Context, id models.NodeID, name string, updatedAt time.Time) error {
	query := `UPDATE nodes SET name = ?, updated_at = ? WHERE id = ?`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, name, updatedAt.UnixMilli(), int64(id))
	if err != nil {
		return domain.NewStorageError("update name", err)
	}

	return requireAffected(result, "node", id)
}

// Delete removes a node; the foreign key cascades to its subtree
func (r *NodeRepository) Delete(ctx context.Context, id models.NodeID) (bool, error) {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, int64(id))
	if err != nil {
		return false, domain.NewStorageError("delete node", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, domain.NewStorageError("delete node", err)
	}

	return rows > 0, nil
}

// ListChildren lists immediate children in insertion order
func (r *NodeRepository) ListChildren(ctx context.Context, parentID *models.NodeID) ([]models.NodeSummary, error) {
	var query string
	var args []any

	if parentID == nil {
		query = `
			SELECT id, name, kind
			FROM nodes
			WHERE parent_id IS NULL
			ORDER BY id ASC
		`
	} else {
		query = `
			SELECT id, name, kind
			FROM nodes
			WHERE parent_id = ?
			ORDER BY id ASC
		`
		args = append(args, int64(*parentID))
	}

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError("list children", err)
	}
	defer rows.Close()

	children := make([]models.NodeSummary, 0)
	for rows.Next() {
		var (
			summary models.NodeSummary
			id      int64
			kind    string
		)
		if err := rows.Scan(&id, &summary.Name, &kind); err != nil {
			return nil, domain.NewStorageError("scan child", err)
		}
		summary.ID = models.NodeID(id)
		summary.Kind = models.NodeKind(kind)
		children = append(children, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("iterate children", err)
	}

	return children, nil
}

// GetAll retrieves metadata of every node (content omitted)
func (r *NodeRepository) GetAll(ctx context.Context) ([]models.Node, error) {
	query := `
		SELECT id, parent_id, name, kind, mime, NULL, created_at, updated_at
		FROM nodes
		ORDER BY id ASC
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, domain.NewStorageError("get all nodes", err)
	}
	defer rows.Close()

	nodes := make([]models.Node, 0)
	for rows.Next() {
		node, err := scanNode(rows, false)
		if err != nil {
			return nil, domain.NewStorageError("scan node", err)
		}
		nodes = append(nodes, *node)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("iterate nodes", err)
	}

	return nodes, nil
}

// GetPath computes the path for a node using a recursive CTE
func (r *NodeRepository) GetPath(ctx context.Context, id models.NodeID) (string, error) {
	query := `
		WITH RECURSIVE node_path(id, parent_id, path, depth) AS (
			SELECT id, parent_id, name, 0
			FROM nodes
			WHERE id = ?
			UNION ALL
			SELECT n.id, n.parent_id, n.name || '/' || np.path, np.depth + 1
			FROM nodes n
			JOIN node_path np ON n.id = np.parent_id
			WHERE np.depth < ?
		)
		SELECT path FROM node_path WHERE parent_id IS NULL
	`

	var path string
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, int64(id), config.MaxTreeDepth).Scan(&path)
	if err != nil {
		if isNoRowsError(err) {
			return "", &domain.NotFoundError{Resource: "node", ID: int64(id)}
		}
		return "", domain.NewStorageError("get node path", err)
	}

	return path, nil
}

func scanNode(row scanner, withContent bool) (*models.Node, error) {
	var (
		node      models.Node
		id        int64
		parentID  sql.NullInt64
		kind      string
		content   sql.NullString
		createdAt int64
		updatedAt int64
	)

	if err := row.Scan(&id, &parentID, &node.Name, &kind, &node.Mime, &content, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	node.ID = models.NodeID(id)
	if parentID.Valid {
		node.ParentID = models.NodeID(parentID.Int64).Ptr()
	}
	node.Kind = models.NodeKind(kind)
	if withContent && content.Valid {
		node.Content = &content.String
	}
	node.CreatedAt = models.FromMillis(createdAt)
	node.UpdatedAt = models.FromMillis(updatedAt)

	return &node, nil
}

func requireAffected(result sql.Result, resource string, id models.NodeID) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.NewStorageError("rows affected", err)
	}
	if rows == 0 {
		return &domain.NotFoundError{Resource: resource, ID: int64(id)}
	}
	return nil
}

func nullableID(id *models.NodeID) any {
	if id == nil {
		return nil
	}
	return int64(*id)
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
