package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeEngine records calls and simulates delay, failure, and empty output.
type fakeEngine struct {
	mu          sync.Mutex
	delay       time.Duration
	failTexts   map[string]error
	skipWrite   bool
	calls       []string
	inFlight    int
	maxInFlight int
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Synthesize(ctx context.Context, req SynthesisRequest) error {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.calls = append(f.calls, req.Text)
	failErr := f.failTexts[req.Text]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if failErr != nil {
		return failErr
	}
	if f.skipWrite {
		return nil
	}
	return os.WriteFile(req.OutputPath, []byte("ID3fake-audio"), 0o644)
}

func newTestRunner(t *testing.T, engine Engine, timeout time.Duration) *Runner {
	t.Helper()
	return NewRunner(engine, t.TempDir(), timeout)
}

// TestRunAccountsForEveryJob verifies one result per input in input order.
func TestRunAccountsForEveryJob(t *testing.T) {
	engine := &fakeEngine{delay: 5 * time.Millisecond}
	r := newTestRunner(t, engine, time.Second)

	texts := []string{"One.", "Two.", "Three.", "Four.", "Five.", "Six.", "Seven."}
	outcome, err := r.Run(context.Background(), "batchA", texts, "en-US-AriaNeural", "+0%", 3)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(outcome.Results) != len(texts) {
		t.Fatalf("results = %d, want %d", len(outcome.Results), len(texts))
	}
	for i, res := range outcome.Results {
		if res.Index != i {
			t.Fatalf("results[%d].Index = %d, want %d", i, res.Index, i)
		}
		if !res.OK {
			t.Fatalf("results[%d] failed: %s", i, res.Error)
		}
	}
	if outcome.SuccessCount != len(texts) {
		t.Fatalf("success count = %d, want %d", outcome.SuccessCount, len(texts))
	}
}

// TestRunEmptyTextNeverDispatched covers the blank-job scenario: a blank
// entry fails immediately with the fixed error, is never sent to the
// engine, and sibling artifact names keep their input positions.
func TestRunEmptyTextNeverDispatched(t *testing.T) {
	engine := &fakeEngine{}
	r := newTestRunner(t, engine, time.Second)

	texts := []string{"Hello world.", "   ", "Second sentence."}
	outcome, err := r.Run(context.Background(), "batchXYZ", texts, "en-US-AriaNeural", "+0%", 2)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(outcome.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(outcome.Results))
	}
	blank := outcome.Results[1]
	if blank.OK || blank.Error != ErrEmptyText.Error() {
		t.Fatalf("blank result = %+v, want empty text failure", blank)
	}
	if got := filepath.Base(outcome.Results[0].AudioPath); got != "batchXYZ_001.mp3" {
		t.Fatalf("first artifact = %s, want batchXYZ_001.mp3", got)
	}
	if got := filepath.Base(outcome.Results[2].AudioPath); got != "batchXYZ_003.mp3" {
		t.Fatalf("third artifact = %s, want batchXYZ_003.mp3", got)
	}
	if outcome.SuccessCount != 2 {
		t.Fatalf("success count = %d, want 2", outcome.SuccessCount)
	}
	if len(engine.calls) != 2 {
		t.Fatalf("engine calls = %d, want 2 (blank text must not be dispatched)", len(engine.calls))
	}
}

// TestRunIsolatesFailures checks a deterministic mid-batch engine failure
// affects only its own result.
func TestRunIsolatesFailures(t *testing.T) {
	engine := &fakeEngine{
		failTexts: map[string]error{"Second.": errors.New("voice model crashed")},
	}
	r := newTestRunner(t, engine, time.Second)

	texts := []string{"First.", "Second.", "Third.", "Fourth."}
	outcome, err := r.Run(context.Background(), "batchB", texts, "en-US-GuyNeural", "-10%", 2)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var failed []int
	for _, res := range outcome.Results {
		if !res.OK {
			failed = append(failed, res.Index)
		}
	}
	if len(failed) != 1 || failed[0] != 1 {
		t.Fatalf("failed indices = %v, want [1]", failed)
	}
	if outcome.SuccessCount != 3 {
		t.Fatalf("success count = %d, want 3", outcome.SuccessCount)
	}
	if !strings.Contains(outcome.Results[1].Error, "voice model crashed") {
		t.Fatalf("error = %q, want engine message preserved", outcome.Results[1].Error)
	}
}

// TestRunRespectsConcurrencyCeiling instruments the fake engine's
// in-flight gauge under a slow batch.
func TestRunRespectsConcurrencyCeiling(t *testing.T) {
	engine := &fakeEngine{delay: 20 * time.Millisecond}
	r := newTestRunner(t, engine, time.Second)

	texts := make([]string, 12)
	for i := range texts {
		texts[i] = fmt.Sprintf("Sentence number %d.", i)
	}

	const limit = 3
	if _, err := r.Run(context.Background(), "batchC", texts, "en-US-AriaNeural", "+0%", limit); err != nil {
		t.Fatalf("run: %v", err)
	}
	if engine.maxInFlight > limit {
		t.Fatalf("max in-flight = %d, want <= %d", engine.maxInFlight, limit)
	}
}

// TestRunSerialWithLimitOne verifies strict one-at-a-time dispatch in
// input order.
func TestRunSerialWithLimitOne(t *testing.T) {
	engine := &fakeEngine{delay: 2 * time.Millisecond}
	r := newTestRunner(t, engine, time.Second)

	texts := []string{"A.", "B.", "C.", "D.", "E."}
	if _, err := r.Run(context.Background(), "batchD", texts, "en-US-AriaNeural", "+0%", 1); err != nil {
		t.Fatalf("run: %v", err)
	}

	if engine.maxInFlight != 1 {
		t.Fatalf("max in-flight = %d, want 1", engine.maxInFlight)
	}
	for i, call := range engine.calls {
		if call != texts[i] {
			t.Fatalf("call %d = %q, want %q (input order)", i, call, texts[i])
		}
	}
}

// TestRunTimeoutFailsOnlyThatJob bounds a hanging engine call.
func TestRunTimeoutFailsOnlyThatJob(t *testing.T) {
	engine := &fakeEngine{
		delay: 200 * time.Millisecond,
	}
	r := newTestRunner(t, engine, 20*time.Millisecond)

	outcome, err := r.Run(context.Background(), "batchE", []string{"Slow sentence."}, "en-US-AriaNeural", "+0%", 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	res := outcome.Results[0]
	if res.OK || !strings.Contains(res.Error, ErrEngineTimeout.Error()) {
		t.Fatalf("result = %+v, want timeout failure", res)
	}
}

// TestRunEmptyArtifactIsFailure covers an engine that reports success but
// writes nothing.
func TestRunEmptyArtifactIsFailure(t *testing.T) {
	engine := &fakeEngine{skipWrite: true}
	r := newTestRunner(t, engine, time.Second)

	outcome, err := r.Run(context.Background(), "batchF", []string{"Hello."}, "en-US-AriaNeural", "+0%", 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	res := outcome.Results[0]
	if res.OK || res.Error != ErrEmptyArtifact.Error() {
		t.Fatalf("result = %+v, want empty artifact failure", res)
	}
}

// TestRunArgumentValidation rejects bad limits and missing batch IDs
// before any dispatch, and accepts empty input.
func TestRunArgumentValidation(t *testing.T) {
	engine := &fakeEngine{}
	r := newTestRunner(t, engine, time.Second)

	if _, err := r.Run(context.Background(), "batchG", []string{"Hi."}, "v", "+0%", 0); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("limit 0 error = %v, want ErrInvalidLimit", err)
	}
	if _, err := r.Run(context.Background(), "", []string{"Hi."}, "v", "+0%", 1); !errors.Is(err, ErrMissingBatchID) {
		t.Fatalf("missing batch id error = %v, want ErrMissingBatchID", err)
	}
	if len(engine.calls) != 0 {
		t.Fatalf("engine calls = %d, want 0 before validation passes", len(engine.calls))
	}

	outcome, err := r.Run(context.Background(), "batchG", nil, "v", "+0%", 4)
	if err != nil {
		t.Fatalf("empty input: %v", err)
	}
	if len(outcome.Results) != 0 || outcome.SuccessCount != 0 || outcome.Total != 0 {
		t.Fatalf("empty outcome = %+v, want zero values", outcome)
	}
}

// TestArtifactName pins the zero-padded 1-based naming scheme.
func TestArtifactName(t *testing.T) {
	cases := []struct {
		index int
		want  string
	}{
		{0, "b_001.mp3"},
		{9, "b_010.mp3"},
		{122, "b_123.mp3"},
	}
	for _, tc := range cases {
		if got := ArtifactName("b", tc.index); got != tc.want {
			t.Fatalf("ArtifactName(b, %d) = %s, want %s", tc.index, got, tc.want)
		}
	}
}
