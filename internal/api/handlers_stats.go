package api

import (
	"net/http"
)

func (s *Server) handlePassStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"workspaces":  s.workspaces.Len(),
		"queue_depth": s.orchestrator.QueueDepth(),
		"stats":       s.workspaces.Stats().Snapshot(),
	})
}
