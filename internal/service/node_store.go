package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"notestore/internal/config"
	"notestore/internal/domain"
	"notestore/internal/domain/models"
	"notestore/internal/domain/repositories"
	"notestore/internal/domain/services"
)

type nodeStore struct {
	repo      repositories.NodeRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
	now       func() time.Time
}

// NewNodeStore creates the node store service
func NewNodeStore(
	repo repositories.NodeRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.NodeStore {
	return &nodeStore{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
		now:       defaultNow,
	}
}

// Timestamps are stored with millisecond precision
func defaultNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Read returns file content. Absent nodes and folders yield nil, not an error.
// A file whose content was never set reads as the empty string.
func (s *nodeStore) Read(ctx context.Context, id models.NodeID) (*string, error) {
	var content *string

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		node, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}

		if node.Kind != models.KindFile {
			return nil
		}

		if node.Content != nil {
			content = node.Content
		} else {
			empty := ""
			content = &empty
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return content, nil
}

// Write replaces file content and refreshes updated_at
func (s *nodeStore) Write(ctx context.Context, id models.NodeID, content string) error {
	if err := validateContent(content); err != nil {
		return err
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.repo.UpdateContent(txCtx, id, content, s.now())
	})
	if err != nil {
		return err
	}

	s.logger.Debug("file written", "id", id, "bytes", len(content))
	return nil
}

// Create creates a file
func (s *nodeStore) Create(ctx context.Context, req *services.CreateNodeRequest) (models.NodeID, error) {
	return s.create(ctx, req, models.KindFile)
}

// CreateFolder creates a folder
func (s *nodeStore) CreateFolder(ctx context.Context, req *services.CreateNodeRequest) (models.NodeID, error) {
	return s.create(ctx, req, models.KindFolder)
}

func (s *nodeStore) create(ctx context.Context, req *services.CreateNodeRequest, kind models.NodeKind) (models.NodeID, error) {
	normalized := *req
	normalized.Name = strings.TrimSpace(req.Name)
	normalized.Mime = strings.TrimSpace(req.Mime)

	if err := validateCreateRequest(&normalized, kind); err != nil {
		return 0, err
	}
	if normalized.Content != nil {
		if err := validateContent(*normalized.Content); err != nil {
			return 0, err
		}
	}

	now := s.now()
	node := &models.Node{
		ParentID:  normalized.ParentID,
		Name:      normalized.Name,
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if kind == models.KindFile {
		node.Content = normalized.Content
		node.Mime = normalized.Mime
		if node.Mime == "" {
			node.Mime = inferMime(node.Name)
		}
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if node.ParentID != nil {
			if err := s.requireFolder(txCtx, *node.ParentID); err != nil {
				return err
			}
		}
		return s.repo.Create(txCtx, node)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("node created",
		"id", node.ID,
		"name", node.Name,
		"kind", node.Kind,
		"parent_id", idOrRoot(node.ParentID),
	)

	return node.ID, nil
}

// Delete removes a node and its subtree; deleting a missing node is a no-op
func (s *nodeStore) Delete(ctx context.Context, id models.NodeID) error {
	var existed bool

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		existed, err = s.repo.Delete(txCtx, id)
		return err
	})
	if err != nil {
		return err
	}

	if existed {
		s.logger.Info("node deleted", "id", id)
	} else {
		s.logger.Debug("delete of missing node ignored", "id", id)
	}

	return nil
}

// Move reparents a node. The ancestor walk and the update share one
// transaction, so no concurrent move can slip a cycle in between.
func (s *nodeStore) Move(ctx context.Context, id models.NodeID, newParentID *models.NodeID) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		node, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if newParentID != nil {
			if *newParentID == id {
				return &domain.CycleDetectedError{NodeID: int64(id), NewParentID: int64(id)}
			}
			if err := s.requireFolder(txCtx, *newParentID); err != nil {
				return err
			}
			// Files have no descendants
			if node.IsFolder() {
				if err := s.validateNoCircularReference(txCtx, id, *newParentID); err != nil {
					return err
				}
			}
		}

		return s.repo.UpdateParent(txCtx, id, newParentID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("node moved", "id", id, "parent_id", idOrRoot(newParentID))
	return nil
}

// ListChildren lists the immediate children of a folder, or the root level
func (s *nodeStore) ListChildren(ctx context.Context, parentID *models.NodeID) ([]models.NodeSummary, error) {
	var children []models.NodeSummary

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		children, err = s.repo.ListChildren(txCtx, parentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return children, nil
}

// Get retrieves a node with its computed display path
func (s *nodeStore) Get(ctx context.Context, id models.NodeID) (*models.Node, error) {
	var node *models.Node

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		node, err = s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		path, err := s.repo.GetPath(txCtx, id)
		if err != nil {
			s.logger.Warn("failed to compute path", "id", id, "error", err)
			node.Path = node.Name
		} else {
			node.Path = path
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return node, nil
}

// Rename changes a node's display name
func (s *nodeStore) Rename(ctx context.Context, id models.NodeID, name string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.repo.UpdateName(txCtx, id, name, s.now())
	})
	if err != nil {
		return err
	}

	s.logger.Info("node renamed", "id", id, "name", name)
	return nil
}

// requireFolder ensures id names an existing folder
func (s *nodeStore) requireFolder(ctx context.Context, id models.NodeID) error {
	parent, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.ReferentialIntegrityError{ParentID: int64(id), Missing: true}
		}
		return err
	}

	if !parent.IsFolder() {
		return &domain.ReferentialIntegrityError{ParentID: int64(id)}
	}

	return nil
}

// validateNoCircularReference walks the ancestor chain of newParentID up to
// the root and fails if id is on it
func (s *nodeStore) validateNoCircularReference(ctx context.Context, id, newParentID models.NodeID) error {
	currentID := newParentID
	for depth := 0; depth < config.MaxTreeDepth; depth++ {
		parent, err := s.repo.GetByID(ctx, currentID)
		if err != nil {
			return err
		}

		if parent.ParentID == nil {
			// Reached root, no circular reference
			return nil
		}

		if *parent.ParentID == id {
			return &domain.CycleDetectedError{NodeID: int64(id), NewParentID: int64(newParentID)}
		}

		currentID = *parent.ParentID
	}

	return domain.NewStorageError("walk ancestors",
		fmt.Errorf("ancestor chain of node %d exceeds %d levels", newParentID, config.MaxTreeDepth))
}

func idOrRoot(id *models.NodeID) string {
	if id == nil {
		return "root"
	}
	return id.String()
}
