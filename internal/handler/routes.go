package handler

import (
	"log/slog"
	"net/http"

	"notestore/internal/bootstrap"
)

// NewRouter registers every route on a fresh ServeMux
func NewRouter(store *bootstrap.Store, logger *slog.Logger) *http.ServeMux {
	nodeHandler := NewNodeHandler(store.Nodes, logger)
	treeHandler := NewTreeHandler(store.Tree, logger)
	importHandler := NewImportHandler(store.Import, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", HealthCheck)

	// Nodes
	mux.HandleFunc("GET /api/nodes", nodeHandler.ListChildren)
	mux.HandleFunc("POST /api/nodes", nodeHandler.CreateNode)
	mux.HandleFunc("GET /api/nodes/{id}", nodeHandler.GetNode)
	mux.HandleFunc("PATCH /api/nodes/{id}", nodeHandler.RenameNode)
	mux.HandleFunc("DELETE /api/nodes/{id}", nodeHandler.DeleteNode)
	mux.HandleFunc("GET /api/nodes/{id}/content", nodeHandler.ReadContent)
	mux.HandleFunc("PUT /api/nodes/{id}/content", nodeHandler.WriteContent)
	mux.HandleFunc("POST /api/nodes/{id}/move", nodeHandler.MoveNode)

	// Tree and import
	mux.HandleFunc("GET /api/tree", treeHandler.GetTree)
	mux.HandleFunc("POST /api/import", importHandler.Import)

	return mux
}
