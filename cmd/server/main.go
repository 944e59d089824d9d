package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/argus/internal/api"
	"github.com/dgallion1/argus/internal/config"
	"github.com/dgallion1/argus/internal/glossary"
	"github.com/dgallion1/argus/internal/pipeline"
	"github.com/dgallion1/argus/internal/store"
	"github.com/dgallion1/argus/internal/workspace"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the document store.
	st, err := openStore(cfg)
	if err != nil {
		log.Error("open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}

	symbols := glossary.LoadSymbols(ctx, cfg.SymbolsPath, log)
	log.Info("symbols loaded", "count", len(symbols), "source", cfg.SymbolsPath)

	// Initialize workspaces and the import pipeline.
	mgr := workspace.NewManager(workspace.Options{
		Debounce:          cfg.Debounce,
		HighlightDuration: cfg.HighlightDuration,
	}, cfg.WorkspaceTTL, st, log)
	go mgr.Run(ctx)

	orch := pipeline.NewOrchestrator(cfg, st, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, mgr, symbols, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		cancel()
		mgr.Close()
		st.Close()
	}()

	log.Info("starting argus", "port", cfg.Port, "store", cfg.StoreBackend)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-stopped
}

func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return store.NewMemory(), nil
	case config.BackendPathstore:
		return store.NewPathstore(cfg.PathstoreURL, cfg.PathstoreAPIKey), nil
	case config.BackendSQLite:
		return store.OpenSQLite(cfg.SQLitePath)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
