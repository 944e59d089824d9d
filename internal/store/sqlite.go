package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLite keeps documents in a local SQLite database.
type SQLite struct {
	db *sqlx.DB
}

// OpenSQLite opens (and migrates) the database at path. ":memory:" opens a
// private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path required")
	}

	dsn := path
	if path != ":memory:" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve sqlite path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", abs)
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and writes serial.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		filename TEXT NOT NULL DEFAULT '',
		html TEXT NOT NULL DEFAULT '',
		content_hash TEXT NOT NULL DEFAULT '',
		arguments INTEGER NOT NULL DEFAULT 0,
		lines INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(user_id, content_hash);`,
	`CREATE INDEX IF NOT EXISTS idx_documents_updated ON documents(user_id, updated_at DESC);`,
}

func (s *SQLite) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// documentRow mirrors the table.
type documentRow struct {
	ID          string `db:"id"`
	UserID      string `db:"user_id"`
	Title       string `db:"title"`
	Filename    string `db:"filename"`
	HTML        string `db:"html"`
	ContentHash string `db:"content_hash"`
	Arguments   int    `db:"arguments"`
	Lines       int    `db:"lines"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func toRow(d Document) documentRow {
	return documentRow{
		ID:          d.ID,
		UserID:      d.UserID,
		Title:       d.Title,
		Filename:    d.Filename,
		HTML:        d.HTML,
		ContentHash: d.ContentHash,
		Arguments:   d.Arguments,
		Lines:       d.Lines,
		CreatedAt:   d.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:   d.UpdatedAt.UTC().Format(timeLayout),
	}
}

func (r documentRow) document() Document {
	created, _ := time.Parse(timeLayout, r.CreatedAt)
	updated, _ := time.Parse(timeLayout, r.UpdatedAt)
	return Document{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Filename:    r.Filename,
		HTML:        r.HTML,
		ContentHash: r.ContentHash,
		Arguments:   r.Arguments,
		Lines:       r.Lines,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
}

const upsertDocument = `
INSERT INTO documents (id, user_id, title, filename, html, content_hash, arguments, lines, created_at, updated_at)
VALUES (:id, :user_id, :title, :filename, :html, :content_hash, :arguments, :lines, :created_at, :updated_at)
ON CONFLICT(user_id, id) DO UPDATE SET
	title = excluded.title,
	filename = excluded.filename,
	html = excluded.html,
	content_hash = excluded.content_hash,
	arguments = excluded.arguments,
	lines = excluded.lines,
	updated_at = excluded.updated_at`

func (s *SQLite) Put(ctx context.Context, doc Document) error {
	if err := ValidateKey(doc.UserID, doc.ID); err != nil {
		return err
	}
	stamp(&doc, nil)
	if _, err := s.db.NamedExecContext(ctx, upsertDocument, toRow(doc)); err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, userID, docID string) (Document, error) {
	var row documentRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM documents WHERE user_id = ? AND id = ?`, userID, docID)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return row.document(), nil
}

func (s *SQLite) List(ctx context.Context, userID string) ([]Document, error) {
	var rows []documentRow
	err := s.db.SelectContext(ctx, &rows, `
SELECT id, user_id, title, filename, '' AS html, content_hash, arguments, lines, created_at, updated_at
FROM documents WHERE user_id = ? ORDER BY updated_at DESC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := make([]Document, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.document())
	}
	return out, nil
}

func (s *SQLite) Delete(ctx context.Context, userID, docID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE user_id = ? AND id = ?`, userID, docID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) FindByHash(ctx context.Context, userID, hash string) (string, bool, error) {
	if hash == "" {
		return "", false, nil
	}
	var id string
	err := s.db.GetContext(ctx, &id, `SELECT id FROM documents WHERE user_id = ? AND content_hash = ? LIMIT 1`, userID, hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find by hash: %w", err)
	}
	return id, true, nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
