// Package workspace hosts live editing sessions: each workspace owns a
// document and re-derives its argument map shortly after edits settle.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/argus/internal/argument"
	"github.com/dgallion1/argus/internal/editor"
	"github.com/dgallion1/argus/internal/glossary"
	"github.com/dgallion1/argus/internal/importer"
	"github.com/dgallion1/argus/internal/metrics"
	"github.com/dgallion1/argus/internal/parser"
	"github.com/dgallion1/argus/internal/render"
	"github.com/dgallion1/argus/internal/store"
)

// DefaultDebounce is the quiet period after an edit before a pass runs.
const DefaultDebounce = 300 * time.Millisecond

// Options tune workspace timing.
type Options struct {
	Debounce          time.Duration
	HighlightDuration time.Duration
}

// Result is the outcome of one parse and render pass.
type Result struct {
	Pass      int                  `json:"pass"`
	Arguments []argument.Argument  `json:"arguments"`
	Nodes     []*render.VisualNode `json:"nodes"`
	HTML      string               `json:"html"`
	Stats     argument.Stats       `json:"stats"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Workspace is one editing session.
type Workspace struct {
	ID        string
	UserID    string
	CreatedAt time.Time

	mu       sync.Mutex
	doc      *editor.Document
	result   Result
	lastUsed time.Time
	saved    string // content hash of the last stored markup

	defs      *glossary.Definitions
	debouncer *Debouncer
	locator   *render.Locator
	stats     *PassStats
	store     store.Store
	log       *slog.Logger

	subsMu sync.Mutex
	subs   map[chan Result]struct{}
	closed bool
}

func newWorkspace(id, userID string, doc *editor.Document, opts Options, st store.Store, stats *PassStats, log *slog.Logger) *Workspace {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	now := time.Now()
	w := &Workspace{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		doc:       doc,
		lastUsed:  now,
		defs:      glossary.NewDefinitions(),
		locator:   render.NewLocator(opts.HighlightDuration),
		stats:     stats,
		store:     st,
		log:       log.With("workspace_id", id, "user_id", userID),
		subs:      make(map[chan Result]struct{}),
	}
	w.debouncer = NewDebouncer(opts.Debounce, w.pass)
	w.pass()
	return w
}

// Update replaces the document with sanitized markup and schedules a pass.
func (w *Workspace) Update(markup string) error {
	doc, err := importer.ParseMarkup(markup)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	w.mu.Lock()
	w.doc = doc
	w.lastUsed = time.Now()
	w.mu.Unlock()

	w.debouncer.Trigger()
	return nil
}

// Flush runs a scheduled pass now. It reports whether one was pending.
func (w *Workspace) Flush() bool {
	return w.debouncer.Flush()
}

// Pending reports whether an edit is waiting for its pass.
func (w *Workspace) Pending() bool {
	return w.debouncer.Pending()
}

// Result returns the latest settled pass after flushing pending edits.
func (w *Workspace) Result() Result {
	w.Flush()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastUsed = time.Now()
	return w.result
}

// DocumentHTML returns the document markup including block identifiers.
func (w *Workspace) DocumentHTML() (string, error) {
	w.Flush()
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.doc.HTML()
}

// Locate highlights the block behind a map node of the latest pass.
func (w *Workspace) Locate(editorID string) (render.Highlight, bool) {
	w.mu.Lock()
	w.lastUsed = time.Now()
	w.mu.Unlock()
	return w.locator.Locate(editorID)
}

// Highlights returns the blocks currently highlighted.
func (w *Workspace) Highlights() []render.Highlight {
	return w.locator.Active()
}

// Definitions returns the workspace's variable definitions.
func (w *Workspace) Definitions() *glossary.Definitions {
	return w.defs
}

// Subscribe returns a channel that receives the result of every pass after
// the call. Slow readers only see the newest result. The returned func
// unsubscribes.
func (w *Workspace) Subscribe() (<-chan Result, func()) {
	ch := make(chan Result, 1)
	w.subsMu.Lock()
	if w.closed {
		close(ch)
		w.subsMu.Unlock()
		return ch, func() {}
	}
	w.subs[ch] = struct{}{}
	w.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			w.subsMu.Lock()
			defer w.subsMu.Unlock()
			if _, ok := w.subs[ch]; ok {
				delete(w.subs, ch)
				close(ch)
			}
		})
	}
}

// LastUsed is the time of the latest read or edit.
func (w *Workspace) LastUsed() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

// Close stops pending passes, highlight timers and subscriptions.
func (w *Workspace) Close() {
	w.debouncer.Stop()
	w.locator.Stop()

	w.subsMu.Lock()
	defer w.subsMu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	for ch := range w.subs {
		close(ch)
	}
	w.subs = nil
}

func (w *Workspace) pass() {
	start := time.Now()

	w.mu.Lock()
	args, nodes, err := derive(w.doc)
	if err != nil {
		w.mu.Unlock()
		metrics.PassFailures.Inc()
		w.log.Error("pass failed, keeping previous map", "pass", w.result.Pass+1, "error", err)
		return
	}
	mapHTML, err := render.HTML(nodes)
	if err != nil {
		w.log.Error("render map failed", "error", err)
	}
	w.locator.Mount(w.doc)
	docHTML, err := w.doc.HTML()
	if err != nil {
		w.log.Error("serialize document failed", "error", err)
	}
	w.result = Result{
		Pass:      w.result.Pass + 1,
		Arguments: args,
		Nodes:     nodes,
		HTML:      mapHTML,
		Stats:     argument.Summarize(args),
		UpdatedAt: time.Now(),
	}
	res := w.result
	w.mu.Unlock()

	elapsed := time.Since(start)
	if w.stats != nil {
		w.stats.Record(elapsed)
	}
	metrics.PassDuration.Observe(elapsed.Seconds())
	w.log.Debug("pass complete", "pass", res.Pass, "arguments", res.Stats.Arguments, "lines", res.Stats.Lines, "duration_ms", elapsed.Milliseconds())

	w.publish(res)
	w.save(res, docHTML)
}

// derive parses the document and builds the visual tree. A panic in either
// step is returned as an error.
func derive(doc *editor.Document) (args []argument.Argument, nodes []*render.VisualNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pass panicked: %v", r)
		}
	}()
	args = parser.Parse(doc)
	if args == nil {
		args = []argument.Argument{}
	}
	return args, render.Build(args), nil
}

func (w *Workspace) publish(res Result) {
	w.subsMu.Lock()
	defer w.subsMu.Unlock()
	for ch := range w.subs {
		select {
		case ch <- res:
		default:
			// Drop the stale result the reader has not taken yet.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- res:
			default:
			}
		}
	}
}

// save writes the document markup to the store when it changed. Failures
// are logged; the session keeps working without persistence.
func (w *Workspace) save(res Result, docHTML string) {
	if w.store == nil || docHTML == "" {
		return
	}
	hash := store.ContentHash([]byte(docHTML))
	w.mu.Lock()
	unchanged := hash == w.saved
	w.mu.Unlock()
	if unchanged {
		return
	}

	title := argument.UntitledTitle
	if len(res.Arguments) > 0 {
		title = res.Arguments[0].Title
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := w.store.Put(ctx, store.Document{
		ID:          w.ID,
		UserID:      w.UserID,
		Title:       title,
		HTML:        docHTML,
		ContentHash: hash,
		Arguments:   res.Stats.Arguments,
		Lines:       res.Stats.Lines,
	})
	if err != nil {
		w.log.Warn("save document failed", "error", err)
		return
	}
	w.mu.Lock()
	w.saved = hash
	w.mu.Unlock()
}
