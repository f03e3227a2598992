package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/models"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/store"
	"github.com/zhengziyan-learner/English-to-audio-conversion/pkg/sentence"
	"github.com/zhengziyan-learner/English-to-audio-conversion/pkg/textextract"
)

// MaxUploadBytes bounds uploaded study material.
const MaxUploadBytes = 32 << 20

// Service runs the ingestion pipeline: extract text, segment into
// sentences, persist the document.
type Service struct {
	store    *store.Store
	audioDir string
}

func NewService(st *store.Store, audioDir string) *Service {
	return &Service{store: st, audioDir: audioDir}
}

type UploadRequest struct {
	Title    string
	FileType string
	FileSize int64
	Data     io.Reader
}

func (s *Service) Upload(ctx context.Context, req UploadRequest) (*models.Document, error) {
	data, err := io.ReadAll(io.LimitReader(req.Data, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("file exceeds %d byte limit", MaxUploadBytes)
	}

	extracted, err := textextract.Extract(bytes.NewReader(data), int64(len(data)), req.FileType)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	sentences := sentence.Split(extracted.Content, sentence.DefaultOptions())
	if len(sentences) == 0 {
		return nil, fmt.Errorf("no sentences found in %q", req.Title)
	}

	doc := &models.Document{
		ID:            uuid.New(),
		Title:         req.Title,
		FileType:      req.FileType,
		FileSizeBytes: int64(len(data)),
		Status:        models.DocStatusReady,
		AudioStatus:   models.AudioStatusNone,
		CreatedAt:     time.Now(),
	}
	if err := s.store.CreateDocument(ctx, doc, sentences); err != nil {
		return nil, fmt.Errorf("persist document: %w", err)
	}

	slog.Info("document ingested",
		"document_id", doc.ID,
		"kind", extracted.Kind,
		"pages", extracted.Pages,
		"words", extracted.WordCount,
		"sentences", len(sentences))

	return doc, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	return s.store.GetDocument(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]models.Document, error) {
	return s.store.ListDocuments(ctx, limit, offset)
}

func (s *Service) Sentences(ctx context.Context, id uuid.UUID) ([]models.Sentence, error) {
	return s.store.Sentences(ctx, id)
}

// Delete removes the document, its sentences and any generated audio
// artifacts (named {documentID}_NNN.mp3 in the audio dir).
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteDocument(ctx, id); err != nil {
		return err
	}

	pattern := filepath.Join(s.audioDir, id.String()+"_*.mp3")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}
	for _, path := range matches {
		if err := os.Remove(path); err != nil {
			slog.Warn("failed to remove audio artifact", "path", path, "error", err)
		}
	}
	return nil
}
