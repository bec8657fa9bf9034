package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"notestore/internal/config"
	"notestore/internal/domain"
	"notestore/internal/domain/models"
	"notestore/internal/domain/repositories"
)

// PostgresNodeRepository implements the NodeRepository interface
type PostgresNodeRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewNodeRepository creates a new node repository
func NewNodeRepository(config *RepositoryConfig) repositories.NodeRepository {
	return &PostgresNodeRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts a node and sets its ID
func (r *PostgresNodeRepository) Create(ctx context.Context, node *models.Node) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (parent_id, name, kind, mime, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, r.tables.Nodes)

	var id int64
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		nullableID(node.ParentID),
		node.Name,
		string(node.Kind),
		node.Mime,
		node.Content,
		node.CreatedAt.UnixMilli(),
		node.UpdatedAt.UnixMilli(),
	).Scan(&id)

	if err != nil {
		if isPgForeignKeyError(err) && node.ParentID != nil {
			return &domain.ReferentialIntegrityError{ParentID: int64(*node.ParentID), Missing: true}
		}
		return domain.NewStorageError("create node", err)
	}

	node.ID = models.NodeID(id)
	return nil
}

// GetByID retrieves a node by ID
func (r *PostgresNodeRepository) GetByID(ctx context.Context, id models.NodeID) (*models.Node, error) {
	query := fmt.Sprintf(`
		SELECT id, parent_id, name, kind, mime, content, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Nodes)

	node, err := scanNode(GetExecutor(ctx, r.pool).QueryRow(ctx, query, int64(id)))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Resource: "node", ID: int64(id)}
		}
		return nil, domain.NewStorageError("get node", err)
	}

	return node, nil
}

// UpdateContent replaces the content of a file node
func (r *PostgresNodeRepository) UpdateContent(ctx context.Context, id models.NodeID, content string, updatedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $1, updated_at = $2
		WHERE id = $3 AND kind = 'file'
	`, r.tables.Nodes)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, content, updatedAt.UnixMilli(), int64(id))
	if err != nil {
		return domain.NewStorageError("update content", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "file", ID: int64(id)}
	}

	return nil
}

// UpdateParent reparents a node
func (r *PostgresNodeRepository) UpdateParent(ctx context.Context, id models.NodeID, parentID *models.NodeID) error {
	query := fmt.Sprintf(`UPDATE %s SET parent_id = $1 WHERE id = $2`, r.tables.Nodes)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, nullableID(parentID), int64(id))
	if err != nil {
		if isPgForeignKeyError(err) && parentID != nil {
			return &domain.ReferentialIntegrityError{ParentID: int64(*parentID), Missing: true}
		}
		return domain.NewStorageError("update parent", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "node", ID: int64(id)}
	}

	return nil
}

// UpdateName renames a node
func (r *PostgresNodeRepository) UpdateName(ctx context.Context, id models.NodeID, name string, updatedAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET name = $1, updated_at = $2 WHERE id = $3`, r.tables.Nodes)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, name, updatedAt.UnixMilli(), int64(id))
	if err != nil {
		return domain.NewStorageError("update name", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "node", ID: int64(id)}
	}

	return nil
}

// Delete removes a node; the foreign key cascades to its subtree
func (r *PostgresNodeRepository) Delete(ctx context.Context, id models.NodeID) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Nodes)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, int64(id))
	if err != nil {
		return false, domain.NewStorageError("delete node", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListChildren lists immediate children in insertion order
func (r *PostgresNodeRepository) ListChildren(ctx context.Context, parentID *models.NodeID) ([]models.NodeSummary, error) {
	var query string
	var args []any

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT id, name, kind
			FROM %s
			WHERE parent_id IS NULL
			ORDER BY id ASC
		`, r.tables.Nodes)
	} else {
		query = fmt.Sprintf(`
			SELECT id, name, kind
			FROM %s
			WHERE parent_id = $1
			ORDER BY id ASC
		`, r.tables.Nodes)
		args = append(args, int64(*parentID))
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
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
func (r *PostgresNodeRepository) GetAll(ctx context.Context) ([]models.Node, error) {
	query := fmt.Sprintf(`
		SELECT id, parent_id, name, kind, mime, NULL::text, created_at, updated_at
		FROM %s
		ORDER BY id ASC
	`, r.tables.Nodes)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, domain.NewStorageError("get all nodes", err)
	}
	defer rows.Close()

	nodes := make([]models.Node, 0)
	for rows.Next() {
		node, err := scanNode(rows)
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

// GetPath computes the path for a node using recursive CTE
func (r *PostgresNodeRepository) GetPath(ctx context.Context, id models.NodeID) (string, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE node_path AS (
			SELECT id, parent_id, name::text AS path, 0 AS depth
			FROM %[1]s
			WHERE id = $1
			UNION ALL
			SELECT n.id, n.parent_id, n.name || '/' || np.path, np.depth + 1
			FROM %[1]s n
			JOIN node_path np ON n.id = np.parent_id
			WHERE np.depth < $2
		)
		SELECT path FROM node_path WHERE parent_id IS NULL
	`, r.tables.Nodes)

	var path string
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, int64(id), config.MaxTreeDepth).Scan(&path)
	if err != nil {
		if isPgNoRowsError(err) {
			return "", &domain.NotFoundError{Resource: "node", ID: int64(id)}
		}
		return "", domain.NewStorageError("get node path", err)
	}

	return path, nil
}

func scanNode(row rowScanner) (*models.Node, error) {
	var (
		node      models.Node
		id        int64
		parentID  *int64
		kind      string
		createdAt int64
		updatedAt int64
	)

	if err := row.Scan(&id, &parentID, &node.Name, &kind, &node.Mime, &node.Content, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	node.ID = models.NodeID(id)
	if parentID != nil {
		node.ParentID = models.NodeID(*parentID).Ptr()
	}
	node.Kind = models.NodeKind(kind)
	node.CreatedAt = models.FromMillis(createdAt)
	node.UpdatedAt = models.FromMillis(updatedAt)

	return &node, nil
}

func nullableID(id *models.NodeID) *int64 {
	if id == nil {
		return nil
	}
	v := int64(*id)
	return &v
}
