package store

import (
	"context"
	"sort"
	"sync"
)

// Memory keeps documents in process memory.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]map[string]Document
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]map[string]Document)}
}

func (m *Memory) Put(ctx context.Context, doc Document) error {
	if err := ValidateKey(doc.UserID, doc.ID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	user := m.docs[doc.UserID]
	if user == nil {
		user = make(map[string]Document)
		m.docs[doc.UserID] = user
	}
	if existing, ok := user[doc.ID]; ok {
		stamp(&doc, &existing)
	} else {
		stamp(&doc, nil)
	}
	user[doc.ID] = doc
	return nil
}

func (m *Memory) Get(ctx context.Context, userID, docID string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[userID][docID]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (m *Memory) List(ctx context.Context, userID string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Document, 0, len(m.docs[userID]))
	for _, doc := range m.docs[userID] {
		out = append(out, doc.Summary())
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *Memory) Delete(ctx context.Context, userID, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[userID][docID]; !ok {
		return ErrNotFound
	}
	delete(m.docs[userID], docID)
	return nil
}

func (m *Memory) FindByHash(ctx context.Context, userID, hash string) (string, bool, error) {
	if hash == "" {
		return "", false, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for id, doc := range m.docs[userID] {
		if doc.ContentHash == hash {
			return id, true, nil
		}
	}
	return "", false, nil
}

func (m *Memory) Close() error { return nil }

func sortNewestFirst(docs []Document) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].UpdatedAt.Equal(docs[j].UpdatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})
}
