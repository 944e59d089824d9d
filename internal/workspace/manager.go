package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/argus/internal/editor"
	"github.com/dgallion1/argus/internal/importer"
	"github.com/dgallion1/argus/internal/metrics"
	"github.com/dgallion1/argus/internal/store"
	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown workspace ids.
var ErrNotFound = errors.New("workspace not found")

// Manager owns the live workspaces and evicts idle ones.
type Manager struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace

	opts  Options
	ttl   time.Duration
	store store.Store
	stats *PassStats
	log   *slog.Logger
}

// NewManager returns a Manager. st may be nil to disable persistence.
func NewManager(opts Options, ttl time.Duration, st store.Store, log *slog.Logger) *Manager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{
		workspaces: make(map[string]*Workspace),
		opts:       opts,
		ttl:        ttl,
		store:      st,
		stats:      NewPassStats(time.Hour),
		log:        log,
	}
}

// Create opens a workspace on markup. Empty markup opens the starter
// document.
func (m *Manager) Create(userID, markup string) (*Workspace, error) {
	id := uuid.NewString()
	if err := store.ValidateKey(userID, id); err != nil {
		return nil, err
	}
	if markup == "" {
		markup = editor.StarterHTML
	}
	doc, err := importer.ParseMarkup(markup)
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return m.add(id, userID, doc), nil
}

// Open resumes a stored document in a workspace that shares its id. An
// open workspace for the document is returned as is.
func (m *Manager) Open(ctx context.Context, userID, docID string) (*Workspace, error) {
	if w, ok := m.Get(docID); ok {
		if w.UserID != userID {
			return nil, ErrNotFound
		}
		return w, nil
	}
	if m.store == nil {
		return nil, store.ErrNotFound
	}
	saved, err := m.store.Get(ctx, userID, docID)
	if err != nil {
		return nil, err
	}
	doc, err := importer.ParseMarkup(saved.HTML)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	return m.add(docID, userID, doc), nil
}

func (m *Manager) add(id, userID string, doc *editor.Document) *Workspace {
	w := newWorkspace(id, userID, doc, m.opts, m.store, m.stats, m.log)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.workspaces[id]; ok {
		w.Close()
		return existing
	}
	m.workspaces[id] = w
	metrics.ActiveWorkspaces.Set(float64(len(m.workspaces)))
	m.log.Info("workspace created", "workspace_id", id, "user_id", userID)
	return w
}

// Get returns a live workspace.
func (m *Manager) Get(id string) (*Workspace, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workspaces[id]
	return w, ok
}

// Delete closes and forgets a workspace. The stored document is kept.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	w, ok := m.workspaces[id]
	delete(m.workspaces, id)
	metrics.ActiveWorkspaces.Set(float64(len(m.workspaces)))
	m.mu.Unlock()
	if ok {
		w.Flush()
		w.Close()
	}
	return ok
}

// Cleanup closes workspaces idle for longer than the TTL and returns how
// many were removed.
func (m *Manager) Cleanup() int {
	cutoff := time.Now().Add(-m.ttl)
	var expired []*Workspace

	m.mu.Lock()
	for id, w := range m.workspaces {
		if w.LastUsed().Before(cutoff) {
			expired = append(expired, w)
			delete(m.workspaces, id)
		}
	}
	metrics.ActiveWorkspaces.Set(float64(len(m.workspaces)))
	m.mu.Unlock()

	for _, w := range expired {
		w.Flush()
		w.Close()
	}
	if len(expired) > 0 {
		m.log.Info("idle workspaces evicted", "count", len(expired))
	}
	return len(expired)
}

// Len returns the number of live workspaces.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workspaces)
}

// Stats returns pass latency statistics across all workspaces.
func (m *Manager) Stats() *PassStats {
	return m.stats
}

// Run evicts idle workspaces until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Cleanup()
		}
	}
}

// Close flushes and closes every workspace.
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.workspaces
	m.workspaces = make(map[string]*Workspace)
	m.mu.Unlock()

	for _, w := range all {
		w.Flush()
		w.Close()
	}
}
