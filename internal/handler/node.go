package handler

import (
	"log/slog"
	"net/http"

	"notestore/internal/domain/models"
	"notestore/internal/domain/services"
	"notestore/internal/httputil"
)

// NodeHandler handles node HTTP requests
type NodeHandler struct {
	store  services.NodeStore
	logger *slog.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(store services.NodeStore, logger *slog.Logger) *NodeHandler {
	return &NodeHandler{
		store:  store,
		logger: logger,
	}
}

// CreateNodeRequest is the body of POST /api/nodes
type CreateNodeRequest struct {
	ParentID *models.NodeID  `json:"parent_id"`
	Name     string          `json:"name"`
	Content  *string         `json:"content"`
	Kind     models.NodeKind `json:"kind"` // defaults to file
	Mime     string          `json:"mime"`
}

// CreateNodeResponse is returned with 201
type CreateNodeResponse struct {
	ID models.NodeID `json:"id"`
}

// ContentBody is the body of the content read and write endpoints
type ContentBody struct {
	Content *string `json:"content"`
}

// MoveRequest is the body of POST /api/nodes/{id}/move
type MoveRequest struct {
	ParentID httputil.OptionalNodeID `json:"parent_id"`
}

// RenameRequest is the body of PATCH /api/nodes/{id}
type RenameRequest struct {
	Name string `json:"name"`
}

// ListChildren lists the immediate children of a folder
// GET /api/nodes?parent_id=N (omit parent_id for the root level)
func (h *NodeHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	parentID, ok := queryParentID(w, r)
	if !ok {
		return
	}

	children, err := h.store.ListChildren(r.Context(), parentID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, children)
}

// CreateNode creates a file or folder
// POST /api/nodes
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req CreateNodeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleBodyError(w, err)
		return
	}

	if req.Kind == "" {
		req.Kind = models.KindFile
	}
	if !req.Kind.Valid() {
		httputil.RespondError(w, http.StatusBadRequest, "kind: must be file or folder")
		return
	}

	createReq := &services.CreateNodeRequest{
		ParentID: req.ParentID,
		Name:     req.Name,
		Content:  req.Content,
		Mime:     req.Mime,
	}

	var (
		id  models.NodeID
		err error
	)
	if req.Kind == models.KindFolder {
		id, err = h.store.CreateFolder(r.Context(), createReq)
	} else {
		id, err = h.store.Create(r.Context(), createReq)
	}
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, CreateNodeResponse{ID: id})
}

// GetNode retrieves a node with its computed path
// GET /api/nodes/{id}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathNodeID(w, r)
	if !ok {
		return
	}

	node, err := h.store.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, node)
}

// ReadContent returns file content; null for absent nodes and folders
// GET /api/nodes/{id}/content
func (h *NodeHandler) ReadContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathNodeID(w, r)
	if !ok {
		return
	}

	content, err := h.store.Read(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, ContentBody{Content: content})
}

// WriteContent replaces file content
// PUT /api/nodes/{id}/content
func (h *NodeHandler) WriteContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathNodeID(w, r)
	if !ok {
		return
	}

	var body ContentBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleBodyError(w, err)
		return
	}
	if body.Content == nil {
		httputil.RespondError(w, http.StatusBadRequest, "content: is required")
		return
	}

	if err := h.store.Write(r.Context(), id, *body.Content); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondNoContent(w)
}

// DeleteNode removes a node and its subtree; missing ids still return 204
// DELETE /api/nodes/{id}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathNodeID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondNoContent(w)
}

// MoveNode reparents a node; parent_id null moves it to the root level
// POST /api/nodes/{id}/move
func (h *NodeHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathNodeID(w, r)
	if !ok {
		return
	}

	var req MoveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleBodyError(w, err)
		return
	}
	if !req.ParentID.Present {
		httputil.RespondError(w, http.StatusBadRequest, "parent_id: is required (null for the root level)")
		return
	}

	if err := h.store.Move(r.Context(), id, req.ParentID.Value); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondNoContent(w)
}

// RenameNode changes a node's name
// PATCH /api/nodes/{id}
func (h *NodeHandler) RenameNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathNodeID(w, r)
	if !ok {
		return
	}

	var req RenameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleBodyError(w, err)
		return
	}

	if err := h.store.Rename(r.Context(), id, req.Name); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	node, err := h.store.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, node)
}
