package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notestore/internal/bootstrap"
	"notestore/internal/config"
	"notestore/internal/domain/models"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		StoreDriver: config.DriverSQLite,
		DBPath:      filepath.Join(t.TempDir(), "editor.sqlite"),
		LockTimeout: 5 * time.Second,
	}

	store, err := bootstrap.Open(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	return NewRouter(store, logger)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func create(t *testing.T, h http.Handler, body map[string]any) models.NodeID {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/nodes", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[CreateNodeResponse](t, rec).ID
}

func TestNodeHandler_EditorScenario(t *testing.T) {
	h := newTestServer(t)

	notes := create(t, h, map[string]any{"name": "Notes", "kind": "folder"})
	todo := create(t, h, map[string]any{"parent_id": notes, "name": "todo.md", "content": "- buy milk"})

	rec := do(t, h, http.MethodGet, "/api/nodes/"+todo.String()+"/content", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "- buy milk", *decode[ContentBody](t, rec).Content)

	rec = do(t, h, http.MethodPut, "/api/nodes/"+todo.String()+"/content", map[string]any{"content": "- buy milk\n- call mom"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/nodes/"+todo.String()+"/content", nil)
	assert.Equal(t, "- buy milk\n- call mom", *decode[ContentBody](t, rec).Content)

	rec = do(t, h, http.MethodGet, "/api/nodes?parent_id="+notes.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		[]models.NodeSummary{{ID: todo, Name: "todo.md", Kind: models.KindFile}},
		decode[[]models.NodeSummary](t, rec))

	rec = do(t, h, http.MethodDelete, "/api/nodes/"+notes.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/nodes", nil)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = do(t, h, http.MethodGet, "/api/nodes/"+todo.String()+"/content", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"content": null}`, rec.Body.String())
}

func TestNodeHandler_ErrorMapping(t *testing.T) {
	h := newTestServer(t)

	f1 := create(t, h, map[string]any{"name": "F1", "kind": "folder"})
	f2 := create(t, h, map[string]any{"parent_id": f1, "name": "F2", "kind": "folder"})
	file := create(t, h, map[string]any{"name": "a.md"})

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "bad id", method: http.MethodGet, path: "/api/nodes/abc", want: http.StatusBadRequest},
		{name: "zero id", method: http.MethodGet, path: "/api/nodes/0", want: http.StatusBadRequest},
		{name: "bad parent query", method: http.MethodGet, path: "/api/nodes?parent_id=-1", want: http.StatusBadRequest},
		{name: "get missing", method: http.MethodGet, path: "/api/nodes/999", want: http.StatusNotFound},
		{name: "write missing", method: http.MethodPut, path: "/api/nodes/999/content", body: map[string]any{"content": "x"}, want: http.StatusNotFound},
		{name: "write folder", method: http.MethodPut, path: "/api/nodes/" + f1.String() + "/content", body: map[string]any{"content": "x"}, want: http.StatusNotFound},
		{name: "write without content", method: http.MethodPut, path: "/api/nodes/" + file.String() + "/content", body: map[string]any{}, want: http.StatusBadRequest},
		{name: "empty name", method: http.MethodPost, path: "/api/nodes", body: map[string]any{"name": ""}, want: http.StatusBadRequest},
		{name: "unknown kind", method: http.MethodPost, path: "/api/nodes", body: map[string]any{"name": "x", "kind": "link"}, want: http.StatusBadRequest},
		{name: "unknown field", method: http.MethodPost, path: "/api/nodes", body: map[string]any{"name": "x", "colour": "red"}, want: http.StatusBadRequest},
		{name: "malformed json", method: http.MethodPost, path: "/api/nodes", body: "{", want: http.StatusBadRequest},
		{name: "parent is file", method: http.MethodPost, path: "/api/nodes", body: map[string]any{"parent_id": file, "name": "x"}, want: http.StatusUnprocessableEntity},
		{name: "parent missing", method: http.MethodPost, path: "/api/nodes", body: map[string]any{"parent_id": 999, "name": "x"}, want: http.StatusUnprocessableEntity},
		{name: "move into descendant", method: http.MethodPost, path: "/api/nodes/" + f1.String() + "/move", body: map[string]any{"parent_id": f2}, want: http.StatusConflict},
		{name: "move into self", method: http.MethodPost, path: "/api/nodes/" + f1.String() + "/move", body: map[string]any{"parent_id": f1}, want: http.StatusConflict},
		{name: "move without parent field", method: http.MethodPost, path: "/api/nodes/" + f2.String() + "/move", body: map[string]any{}, want: http.StatusBadRequest},
		{name: "move missing node", method: http.MethodPost, path: "/api/nodes/999/move", body: map[string]any{"parent_id": nil}, want: http.StatusNotFound},
		{name: "delete missing", method: http.MethodDelete, path: "/api/nodes/999", want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			if tt.want >= 400 {
				assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestNodeHandler_MoveToRootAndRename(t *testing.T) {
	h := newTestServer(t)

	notes := create(t, h, map[string]any{"name": "Notes", "kind": "folder"})
	todo := create(t, h, map[string]any{"parent_id": notes, "name": "todo.md"})

	rec := do(t, h, http.MethodPost, "/api/nodes/"+todo.String()+"/move", map[string]any{"parent_id": nil})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPatch, "/api/nodes/"+todo.String(), map[string]any{"name": "done.md"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	node := decode[models.Node](t, rec)
	assert.Equal(t, "done.md", node.Name)
	assert.Equal(t, "done.md", node.Path)
	assert.Nil(t, node.ParentID)
	assert.Equal(t, "text/markdown", node.Mime)
}

func TestTreeAndImport(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/import", `
- name: Notes
  children:
    - name: todo.md
      content: "- buy milk"
- name: inbox.md
`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 3, decode[ImportResponse](t, rec).Created)

	rec = do(t, h, http.MethodGet, "/api/tree", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tree := decode[[]*models.TreeNode](t, rec)
	require.Len(t, tree, 2)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "todo.md", tree[0].Children[0].Name)

	rec = do(t, h, http.MethodPost, "/api/import", `- name: "bad/name"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/import", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
