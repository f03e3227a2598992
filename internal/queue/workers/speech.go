package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/models"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/queue"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/speech"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/store"
)

// SpeechWorker regenerates a document's per-sentence audio in the
// background, through the same batch runner the API uses.
type SpeechWorker struct {
	store       *store.Store
	runner      *speech.Runner
	concurrency int
}

func NewSpeechWorker(st *store.Store, runner *speech.Runner, concurrency int) *SpeechWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &SpeechWorker{store: st, runner: runner, concurrency: concurrency}
}

func (w *SpeechWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.SpeechDocumentPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	docID, err := uuid.Parse(payload.DocumentID)
	if err != nil {
		return fmt.Errorf("parse document ID: %w", err)
	}

	slog.Info("generating document audio", "document_id", docID, "voice", payload.Voice)

	if err := w.store.SetAudioStatus(ctx, docID, models.AudioStatusGenerating); err != nil {
		return fmt.Errorf("mark generating: %w", err)
	}

	sentences, err := w.store.Sentences(ctx, docID)
	if err != nil {
		w.store.SetAudioStatus(ctx, docID, models.AudioStatusFailed)
		return fmt.Errorf("load sentences: %w", err)
	}

	texts := make([]string, len(sentences))
	for i, s := range sentences {
		texts[i] = s.Text
	}

	// Batch id is the document id, so re-runs overwrite prior artifacts.
	outcome, err := w.runner.Run(ctx, docID.String(), texts, payload.Voice, payload.Rate, w.concurrency)
	if err != nil {
		w.store.SetAudioStatus(ctx, docID, models.AudioStatusFailed)
		return fmt.Errorf("run batch: %w", err)
	}

	for _, res := range outcome.Results {
		if !res.OK {
			continue
		}
		audioURL := "/audio/" + filepath.Base(res.AudioPath)
		if err := w.store.SetSentenceAudio(ctx, docID, res.Index, audioURL); err != nil {
			slog.Error("failed to record sentence audio", "document_id", docID, "index", res.Index, "error", err)
		}
	}

	status := models.AudioStatusReady
	switch {
	case outcome.SuccessCount == 0 && outcome.Total > 0:
		status = models.AudioStatusFailed
	case outcome.SuccessCount < outcome.Total:
		status = models.AudioStatusPartial
	}
	if err := w.store.SetAudioStatus(ctx, docID, status); err != nil {
		return fmt.Errorf("record audio status: %w", err)
	}

	slog.Info("document audio generated",
		"document_id", docID,
		"succeeded", outcome.SuccessCount,
		"total", outcome.Total,
		"status", status)
	return nil
}
