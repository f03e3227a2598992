package models

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	FileType      string    `json:"file_type,omitempty" db:"file_type"`
	FileSizeBytes int64     `json:"file_size_bytes,omitempty" db:"file_size_bytes"`
	SentenceCount int       `json:"sentence_count" db:"sentence_count"`
	Status        string    `json:"status" db:"status"`
	AudioStatus   string    `json:"audio_status" db:"audio_status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type Sentence struct {
	DocumentID uuid.UUID `json:"document_id" db:"document_id"`
	Index      int       `json:"index" db:"idx"`
	Text       string    `json:"text" db:"text"`
	AudioPath  string    `json:"audio_path,omitempty" db:"audio_path"`
}

const (
	DocStatusPending = "pending"
	DocStatusReady   = "ready"
	DocStatusFailed  = "failed"
)

const (
	AudioStatusNone       = "none"
	AudioStatusGenerating = "generating"
	AudioStatusReady      = "ready"
	AudioStatusPartial    = "partial"
	AudioStatusFailed     = "failed"
)
