// Package store persists argument documents per user.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a document does not exist for the user.
var ErrNotFound = errors.New("document not found")

// Document is one saved outline.
type Document struct {
	ID          string    `json:"doc_id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Filename    string    `json:"filename,omitempty" db:"filename"`
	HTML        string    `json:"html,omitempty" db:"html"`
	ContentHash string    `json:"content_hash,omitempty" db:"content_hash"`
	Arguments   int       `json:"arguments" db:"arguments"`
	Lines       int       `json:"lines" db:"lines"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Summary returns the document without its markup.
func (d Document) Summary() Document {
	d.HTML = ""
	return d
}

// Store is implemented by every document backend.
type Store interface {
	// Put creates or replaces a document. CreatedAt is kept from the
	// existing record when one exists.
	Put(ctx context.Context, doc Document) error
	Get(ctx context.Context, userID, docID string) (Document, error)
	// List returns the user's documents without markup, newest first.
	List(ctx context.Context, userID string) ([]Document, error)
	Delete(ctx context.Context, userID, docID string) error
	// FindByHash reports the id of a document with the given content hash.
	FindByHash(ctx context.Context, userID, hash string) (string, bool, error)
	Close() error
}

// RetryableError indicates a transient backend failure.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	msg := e.Message
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, msg)
}

// ValidateKey rejects ids that cannot be used as path segments.
func ValidateKey(userID, docID string) error {
	if err := validSegment("user_id", userID); err != nil {
		return err
	}
	return validSegment("doc_id", docID)
}

func validSegment(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", name)
	}
	if strings.ContainsAny(v, "/\\?#*") || v == "." || v == ".." {
		return fmt.Errorf("invalid %s: %q", name, v)
	}
	return nil
}

func stamp(doc *Document, existing *Document) {
	now := time.Now().UTC()
	if existing != nil && !existing.CreatedAt.IsZero() {
		doc.CreatedAt = existing.CreatedAt
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
}

// ContentHash returns the hex SHA-256 of data.
func ContentHash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
