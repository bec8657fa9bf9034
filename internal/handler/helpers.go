package handler

import (
	"net/http"

	"notestore/internal/domain/models"
	"notestore/internal/httputil"
)

// pathNodeID parses the {id} path value. On failure it writes a 400 and
// returns false.
func pathNodeID(w http.ResponseWriter, r *http.Request) (models.NodeID, bool) {
	id, err := models.ParseNodeID(r.PathValue("id"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return id, true
}

// queryParentID parses the optional parent_id query parameter; absent or
// empty means the root level
func queryParentID(w http.ResponseWriter, r *http.Request) (*models.NodeID, bool) {
	raw := r.URL.Query().Get("parent_id")
	if raw == "" {
		return nil, true
	}

	id, err := models.ParseNodeID(raw)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "parent_id: "+err.Error())
		return nil, false
	}
	return &id, true
}
