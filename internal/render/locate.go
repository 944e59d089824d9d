package render

import (
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/argus/internal/editor"
)

// DefaultHighlightDuration is how long a located block stays highlighted.
const DefaultHighlightDuration = 1000 * time.Millisecond

// Highlight is the transient feedback for a located block.
type Highlight struct {
	EditorID string    `json:"editor_id"`
	Path     []int     `json:"path"` // element indexes from the document root
	Tag      string    `json:"tag"`
	Text     string    `json:"text"`
	Until    time.Time `json:"until"`
}

// Locator resolves map node identifiers back to document blocks.
type Locator struct {
	mu       sync.Mutex
	doc      *editor.Document
	duration time.Duration
	active   map[string]*activeHighlight
}

type activeHighlight struct {
	h     Highlight
	timer *time.Timer
}

// NewLocator returns a Locator whose highlights decay after d.
func NewLocator(d time.Duration) *Locator {
	if d <= 0 {
		d = DefaultHighlightDuration
	}
	return &Locator{
		duration: d,
		active:   make(map[string]*activeHighlight),
	}
}

// Mount points the locator at the document of the latest pass. Highlights
// from the previous pass are dropped since their identifiers may now name
// other blocks.
func (l *Locator) Mount(doc *editor.Document) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.doc = doc
	l.clearLocked()
}

// Locate finds the block tagged id and highlights it. A miss is a no-op.
func (l *Locator) Locate(id string) (Highlight, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.doc.Lookup(id)
	if !ok {
		return Highlight{}, false
	}

	h := Highlight{
		EditorID: id,
		Path:     l.doc.Path(b),
		Tag:      b.Tag(),
		Text:     b.Text(),
		Until:    time.Now().Add(l.duration),
	}
	if prev, ok := l.active[id]; ok {
		prev.timer.Stop()
	}
	entry := &activeHighlight{h: h}
	entry.timer = time.AfterFunc(l.duration, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if cur, ok := l.active[id]; ok && cur == entry {
			delete(l.active, id)
		}
	})
	l.active[id] = entry
	return h, true
}

// Active returns the live highlights ordered by identifier.
func (l *Locator) Active() []Highlight {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Highlight, 0, len(l.active))
	for _, a := range l.active {
		out = append(out, a.h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EditorID < out[j].EditorID })
	return out
}

// Stop cancels pending decay timers.
func (l *Locator) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clearLocked()
}

func (l *Locator) clearLocked() {
	for id, a := range l.active {
		a.timer.Stop()
		delete(l.active, id)
	}
}
