// Package store persists documents and their sentences in an embedded
// sqlite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	file_type TEXT NOT NULL,
	file_size_bytes INTEGER NOT NULL,
	sentence_count INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	audio_status TEXT NOT NULL DEFAULT 'none',
	created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS sentences (
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	idx INTEGER NOT NULL,
	text TEXT NOT NULL,
	audio_path TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (document_id, idx)
);`

// Store wraps the sqlite handle.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the database under dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, "study.db"))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	_, _ = db.Exec("PRAGMA journal_mode=WAL;")
	_, _ = db.Exec("PRAGMA busy_timeout = 5000;")
	_, _ = db.Exec("PRAGMA foreign_keys = ON;")

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping reports database health for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateDocument inserts the document and its ordered sentences in one
// transaction.
func (s *Store) CreateDocument(ctx context.Context, doc *models.Document, sentences []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, title, file_type, file_size_bytes, sentence_count, status, audio_status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID.String(), doc.Title, doc.FileType, doc.FileSizeBytes, len(sentences), doc.Status, doc.AudioStatus, doc.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sentences (document_id, idx, text) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare sentence insert: %w", err)
	}
	defer stmt.Close()

	for i, text := range sentences {
		if _, err := stmt.ExecContext(ctx, doc.ID.String(), i, text); err != nil {
			return fmt.Errorf("insert sentence %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	doc.SentenceCount = len(sentences)
	return nil
}

// GetDocument returns one document by id.
func (s *Store) GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, file_type, file_size_bytes, sentence_count, status, audio_status, created_at
		 FROM documents WHERE id = ?`, id.String())
	return scanDocument(row)
}

// ListDocuments returns documents newest first.
func (s *Store) ListDocuments(ctx context.Context, limit, offset int) ([]models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, file_type, file_size_bytes, sentence_count, status, audio_status, created_at
		 FROM documents ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// DeleteDocument removes the document; sentences cascade.
func (s *Store) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	// Cascade needs the pragma; delete explicitly as well for safety.
	_, _ = s.db.ExecContext(ctx, `DELETE FROM sentences WHERE document_id = ?`, id.String())
	return nil
}

// Sentences returns a document's sentences in input order.
func (s *Store) Sentences(ctx context.Context, docID uuid.UUID) ([]models.Sentence, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document_id, idx, text, audio_path FROM sentences WHERE document_id = ? ORDER BY idx`,
		docID.String())
	if err != nil {
		return nil, fmt.Errorf("list sentences: %w", err)
	}
	defer rows.Close()

	var out []models.Sentence
	for rows.Next() {
		var sen models.Sentence
		var rawID string
		if err := rows.Scan(&rawID, &sen.Index, &sen.Text, &sen.AudioPath); err != nil {
			return nil, fmt.Errorf("scan sentence: %w", err)
		}
		sen.DocumentID, err = uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse sentence document id: %w", err)
		}
		out = append(out, sen)
	}
	return out, rows.Err()
}

// SetSentenceAudio records the generated artifact path for one sentence.
func (s *Store) SetSentenceAudio(ctx context.Context, docID uuid.UUID, idx int, audioPath string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sentences SET audio_path = ? WHERE document_id = ? AND idx = ?`,
		audioPath, docID.String(), idx)
	if err != nil {
		return fmt.Errorf("set sentence audio: %w", err)
	}
	return nil
}

// SetAudioStatus updates the document-level audio generation status.
func (s *Store) SetAudioStatus(ctx context.Context, docID uuid.UUID, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE documents SET audio_status = ? WHERE id = ?`, status, docID.String())
	if err != nil {
		return fmt.Errorf("set audio status: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var doc models.Document
	var rawID, rawCreated string
	err := row.Scan(&rawID, &doc.Title, &doc.FileType, &doc.FileSizeBytes,
		&doc.SentenceCount, &doc.Status, &doc.AudioStatus, &rawCreated)
	if err != nil {
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse document id: %w", err)
	}
	doc.CreatedAt, err = time.Parse(time.RFC3339Nano, rawCreated)
	if err != nil {
		return nil, fmt.Errorf("parse document created_at: %w", err)
	}
	return &doc, nil
}
