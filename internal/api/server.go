package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/argus/internal/config"
	"github.com/dgallion1/argus/internal/glossary"
	"github.com/dgallion1/argus/internal/pipeline"
	"github.com/dgallion1/argus/internal/workspace"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API server for argus.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	workspaces   *workspace.Manager
	symbols      []glossary.Symbol
	upgrader     websocket.Upgrader
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, mgr *workspace.Manager, symbols []glossary.Symbol, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		workspaces:   mgr,
		symbols:      symbols,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
		cfg: cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/workspaces", s.handleCreateWorkspace)
		r.Route("/api/workspaces/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetWorkspace)
			r.Delete("/", s.handleDeleteWorkspace)
			r.Put("/document", s.handleUpdateDocument)
			r.Get("/arguments", s.handleArguments)
			r.Get("/map", s.handleMap)
			r.Post("/locate", s.handleLocate)
			r.Get("/definitions", s.handleListDefinitions)
			r.Post("/definitions", s.handleDefine)
			r.Delete("/definitions/{key}", s.handleDeleteDefinition)
			r.Get("/live", s.handleLive)
		})

		r.Get("/api/symbols", s.handleSymbols)

		r.Post("/api/import", s.handleImport)
		r.Post("/api/import/batch", s.handleBatchImport)
		r.Get("/api/import/{jobID}/status", s.handleImportStatus)

		r.Get("/api/documents", s.handleListDocuments)
		r.Get("/api/documents/{docID}", s.handleGetDocument)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)

		r.Get("/api/stats/passes", s.handlePassStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
