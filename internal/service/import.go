package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"notestore/internal/domain"
	"notestore/internal/domain/models"
	"notestore/internal/domain/repositories"
	"notestore/internal/domain/services"
)

// importService implements the ImportService interface
type importService struct {
	store     services.NodeStore
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewImportService creates a new import service. store must share txManager
// so its calls join the import transaction.
func NewImportService(
	store services.NodeStore,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ImportService {
	return &importService{
		store:     store,
		txManager: txManager,
		logger:    logger,
	}
}

// Import creates entries under parentID in one transaction
func (s *importService) Import(ctx context.Context, parentID *models.NodeID, entries []services.ImportEntry) (int, error) {
	var created int

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		created = 0
		return s.importEntries(txCtx, parentID, entries, "", &created)
	})
	if err != nil {
		s.logger.Warn("import rolled back", "parent_id", idOrRoot(parentID), "error", err)
		return 0, err
	}

	s.logger.Info("import complete", "parent_id", idOrRoot(parentID), "created", created)
	return created, nil
}

func (s *importService) importEntries(
	ctx context.Context,
	parentID *models.NodeID,
	entries []services.ImportEntry,
	prefix string,
	created *int,
) error {
	for i := range entries {
		entry := &entries[i]
		entryPath := prefix + entry.Name

		req := &services.CreateNodeRequest{
			ParentID: parentID,
			Name:     entry.Name,
		}

		if !entry.IsFolder() {
			req.Content = entry.Content
			req.Mime = entry.Mime
			if _, err := s.store.Create(ctx, req); err != nil {
				return wrapImportError(entryPath, err)
			}
			*created++
			continue
		}

		if entry.Content != nil {
			return &domain.ValidationError{Message: fmt.Sprintf("%s: folders cannot have content", entryPath)}
		}

		id, err := s.store.CreateFolder(ctx, req)
		if err != nil {
			return wrapImportError(entryPath, err)
		}
		*created++

		if err := s.importEntries(ctx, id.Ptr(), entry.Children, entryPath+"/", created); err != nil {
			return err
		}
	}

	return nil
}

// wrapImportError prefixes validation messages with the entry path and
// passes every other error through unchanged
func wrapImportError(entryPath string, err error) error {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return &domain.ValidationError{Message: fmt.Sprintf("%s: %s", entryPath, validationErr.Message)}
	}
	return err
}

// DecodeEntries parses an import document. JSON input is accepted too,
// since YAML is a superset of it.
func DecodeEntries(r io.Reader) ([]services.ImportEntry, error) {
	var entries []services.ImportEntry

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return []services.ImportEntry{}, nil
		}
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid import document: %v", err)}
	}

	return entries, nil
}
