package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dgallion1/argus/internal/glossary"
	"github.com/dgallion1/argus/internal/render"
	"github.com/dgallion1/argus/internal/store"
	"github.com/dgallion1/argus/internal/workspace"
	"github.com/go-chi/chi/v5"
)

type createWorkspaceRequest struct {
	UserID string `json:"user_id"`
	HTML   string `json:"html"`
	DocID  string `json:"doc_id"`
}

func (s *Server) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	var req createWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		jsonError(w, "user_id is required", http.StatusBadRequest)
		return
	}

	var (
		ws  *workspace.Workspace
		err error
	)
	if req.DocID != "" {
		ws, err = s.workspaces.Open(r.Context(), req.UserID, req.DocID)
	} else {
		ws, err = s.workspaces.Create(req.UserID, req.HTML)
	}
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, workspace.ErrNotFound):
		jsonError(w, "document not found", http.StatusNotFound)
		return
	case err != nil:
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := ws.Result()
	writeJSON(w, http.StatusCreated, map[string]any{
		"workspace_id": ws.ID,
		"user_id":      ws.UserID,
		"pass":         res.Pass,
		"stats":        res.Stats,
	})
}

// workspaceFor resolves {id} or writes a 404.
func (s *Server) workspaceFor(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	ws, ok := s.workspaces.Get(chi.URLParam(r, "id"))
	if !ok {
		jsonError(w, "workspace not found", http.StatusNotFound)
		return nil, false
	}
	return ws, true
}

func (s *Server) handleGetWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspaceFor(w, r)
	if !ok {
		return
	}
	doc, err := ws.DocumentHTML()
	if err != nil {
		jsonError(w, "failed to serialize document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	res := ws.Result()
	writeJSON(w, http.StatusOK, map[string]any{
		"workspace_id": ws.ID,
		"user_id":      ws.UserID,
		"created_at":   ws.CreatedAt,
		"pass":         res.Pass,
		"updated_at":   res.UpdatedAt,
		"stats":        res.Stats,
		"document":     doc,
	})
}

func (s *Server) handleDeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.workspaces.Delete(id) {
		jsonError(w, "workspace not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// handleUpdateDocument replaces the document with the raw HTML body. The
// pass runs once edits settle; ?flush=true runs it before responding.
func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspaceFor(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		jsonError(w, "document too large or unreadable", http.StatusRequestEntityTooLarge)
		return
	}
	if err := ws.Update(string(body)); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("flush") == "true" {
		res := ws.Result()
		writeJSON(w, http.StatusOK, map[string]any{"pass": res.Pass, "stats": res.Stats})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"pending": true})
}

func (s *Server) handleArguments(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspaceFor(w, r)
	if !ok {
		return
	}
	res := ws.Result()
	writeJSON(w, http.StatusOK, map[string]any{
		"pass":      res.Pass,
		"arguments": res.Arguments,
		"stats":     res.Stats,
	})
}

// handleMap serves the map as an HTML fragment, the visual tree as JSON
// (?format=json), or plain text (?format=text&width=N).
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspaceFor(w, r)
	if !ok {
		return
	}
	res := ws.Result()

	switch r.URL.Query().Get("format") {
	case "json":
		writeJSON(w, http.StatusOK, map[string]any{"pass": res.Pass, "nodes": res.Nodes})
	case "text":
		width, _ := strconv.Atoi(r.URL.Query().Get("width"))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, render.Terminal(res.Nodes, width))
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, res.HTML)
	}
}

type locateRequest struct {
	EditorID string `json:"editor_id"`
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspaceFor(w, r)
	if !ok {
		return
	}
	var req locateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EditorID == "" {
		jsonError(w, "editor_id is required", http.StatusBadRequest)
		return
	}
	h, found := ws.Locate(req.EditorID)
	if !found {
		writeJSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"found": true, "highlight": h})
}

func (s *Server) handleListDefinitions(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspaceFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"definitions": ws.Definitions().Entries()})
}

// defineRequest accepts either "key: value" input or an explicit pair.
type defineRequest struct {
	Input string `json:"input"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Server) handleDefine(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspaceFor(w, r)
	if !ok {
		return
	}
	var req defineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	input := req.Input
	if input == "" {
		input = req.Key + ":" + req.Value
	}
	key, value, valid := glossary.ParseDefinition(input)
	if !valid {
		jsonError(w, `definition must look like "key: value"`, http.StatusBadRequest)
		return
	}
	ws.Definitions().Set(key, value)
	writeJSON(w, http.StatusOK, map[string]any{
		"key":         key,
		"value":       value,
		"markup":      glossary.VariableMarkup(key),
		"definitions": ws.Definitions().Entries(),
	})
}

func (s *Server) handleDeleteDefinition(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspaceFor(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")
	if !ws.Definitions().Remove(key) {
		jsonError(w, "definition not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"definitions": ws.Definitions().Entries()})
}
