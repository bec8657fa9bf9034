package handler

import (
	"log/slog"
	"net/http"

	"notestore/internal/domain/services"
	"notestore/internal/httputil"
	"notestore/internal/service"
)

// ImportHandler handles bulk import HTTP requests. The body is a YAML or
// JSON list of entries; the whole import lands or none of it does.
type ImportHandler struct {
	importService services.ImportService
	logger        *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService services.ImportService, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		logger:        logger,
	}
}

// ImportResponse reports how many nodes were created
type ImportResponse struct {
	Created int `json:"created"`
}

// Import creates a nested structure
// POST /api/import?parent_id=N (omit parent_id to import at the root level)
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	parentID, ok := queryParentID(w, r)
	if !ok {
		return
	}

	entries, err := service.DecodeEntries(httputil.LimitBody(w, r))
	if err != nil {
		handleBodyError(w, err)
		return
	}
	if len(entries) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "import document has no entries")
		return
	}

	created, err := h.importService.Import(r.Context(), parentID, entries)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, ImportResponse{Created: created})
}
