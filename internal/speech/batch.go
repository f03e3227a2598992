package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrInvalidLimit is returned when the concurrency ceiling is below one.
var ErrInvalidLimit = errors.New("concurrency limit must be >= 1")

// ErrMissingBatchID is returned when no batch identifier is supplied.
var ErrMissingBatchID = errors.New("batch id required")

// Job-local failure classes. They surface as the Error field of a
// JobResult and never abort the batch.
var (
	ErrEmptyText     = errors.New("empty text")
	ErrEngineTimeout = errors.New("engine timeout")
	ErrEmptyArtifact = errors.New("engine produced missing or empty audio file")
)

// Job is one unit of text submitted for speech generation.
type Job struct {
	Index int
	Text  string
	Voice string
	Rate  string
}

// JobResult is the per-job outcome. Exactly one JobResult exists per
// input job regardless of individual failures.
type JobResult struct {
	Index     int    `json:"index"`
	OK        bool   `json:"ok"`
	AudioPath string `json:"audio_path,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BatchOutcome is the order-restored, fully accounted result set for one
// batch invocation.
type BatchOutcome struct {
	BatchID      string      `json:"batch_id"`
	Results      []JobResult `json:"results"`
	SuccessCount int         `json:"success_count"`
	Total        int         `json:"total"`
}

// Runner executes speech generation batches with a concurrency ceiling.
// Failures are isolated per job; the runner never retries.
type Runner struct {
	engine   Engine
	audioDir string
	timeout  time.Duration
}

// NewRunner creates a Runner writing artifacts into audioDir. jobTimeout
// bounds each individual engine invocation.
func NewRunner(engine Engine, audioDir string, jobTimeout time.Duration) *Runner {
	if jobTimeout <= 0 {
		jobTimeout = 30 * time.Second
	}
	return &Runner{engine: engine, audioDir: audioDir, timeout: jobTimeout}
}

// AudioDir returns the shared output directory.
func (r *Runner) AudioDir() string { return r.audioDir }

// ArtifactName builds the deterministic artifact filename for a job:
// {batchID}_{NNN}.mp3 with a 1-based zero-padded index. Repeat runs of the
// same batch id overwrite their own artifacts.
func ArtifactName(batchID string, index int) string {
	return fmt.Sprintf("%s_%03d.mp3", batchID, index+1)
}

// Run executes the texts as one batch under the given concurrency limit.
//
// Admission is a sliding window: a fixed pool of limit workers pulls
// not-yet-started jobs in input order, so completing any job immediately
// admits the next. Blank texts are recorded as failed without ever being
// dispatched and without consuming a worker slot. Results are positioned
// by input index, so Results[i] always corresponds to texts[i].
func (r *Runner) Run(ctx context.Context, batchID string, texts []string, voice, rate string, limit int) (*BatchOutcome, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	if batchID == "" {
		return nil, ErrMissingBatchID
	}

	outcome := &BatchOutcome{BatchID: batchID, Results: []JobResult{}, Total: len(texts)}
	if len(texts) == 0 {
		return outcome, nil
	}

	if err := os.MkdirAll(r.audioDir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}

	results := make([]JobResult, len(texts))
	jobs := make(chan Job)

	var wg sync.WaitGroup
	for i := 0; i < limit; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				// Distinct indices per worker; no locking needed.
				results[job.Index] = r.runJob(ctx, batchID, job)
			}
		}()
	}

	start := time.Now()
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			results[i] = JobResult{Index: i, Error: ErrEmptyText.Error()}
			continue
		}
		jobs <- Job{Index: i, Text: text, Voice: voice, Rate: rate}
	}
	close(jobs)
	wg.Wait()

	for _, res := range results {
		if res.OK {
			outcome.SuccessCount++
		}
	}
	outcome.Results = results

	slog.Info("speech batch finished",
		"batch_id", batchID,
		"total", outcome.Total,
		"succeeded", outcome.SuccessCount,
		"limit", limit,
		"elapsed", time.Since(start).Round(time.Millisecond))

	return outcome, nil
}

// runJob performs a single bounded engine invocation and classifies its
// outcome. All failures here are final for this batch.
func (r *Runner) runJob(parent context.Context, batchID string, job Job) JobResult {
	outPath := filepath.Join(r.audioDir, ArtifactName(batchID, job.Index))

	ctx, cancel := context.WithTimeout(parent, r.timeout)
	defer cancel()

	err := r.engine.Synthesize(ctx, SynthesisRequest{
		Text:       job.Text,
		Voice:      job.Voice,
		Rate:       job.Rate,
		OutputPath: outPath,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s", ErrEngineTimeout, r.timeout)
		}
		slog.Warn("speech job failed", "batch_id", batchID, "index", job.Index, "error", err)
		return JobResult{Index: job.Index, Error: err.Error()}
	}

	info, statErr := os.Stat(outPath)
	if statErr != nil || info.Size() == 0 {
		slog.Warn("speech job produced no audio", "batch_id", batchID, "index", job.Index)
		return JobResult{Index: job.Index, Error: ErrEmptyArtifact.Error()}
	}

	return JobResult{Index: job.Index, OK: true, AudioPath: outPath}
}
