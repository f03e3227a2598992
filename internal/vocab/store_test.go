package vocab

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/models"
)

func entry(word string) models.VocabEntry {
	return models.VocabEntry{
		Word:        word,
		Definitions: []string{"noun: a test definition"},
		AddedAt:     time.Now(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.json")

	s, err := OpenStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, w := range []string{"first", "second", "third"} {
		if err := s.Add(entry(w)); err != nil {
			t.Fatalf("add %s: %v", w, err)
		}
	}

	// Reopen from disk and verify order survived.
	reopened, err := OpenStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := reopened.List()
	if len(got) != 3 {
		t.Fatalf("entries = %d, want 3", len(got))
	}
	if got[0].Word != "third" || got[2].Word != "first" {
		t.Fatalf("order = %s..%s, want newest first", got[0].Word, got[2].Word)
	}
}

func TestStoreDedupesByWord(t *testing.T) {
	s, err := OpenStore(filepath.Join(t.TempDir(), "vocab.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := s.Add(entry("Banana")); err != nil {
		t.Fatalf("add: %v", err)
	}
	updated := entry("banana")
	updated.Definitions = []string{"noun: updated definition"}
	if err := s.Add(updated); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	if s.Count() != 1 {
		t.Fatalf("count = %d, want 1", s.Count())
	}
	if got := s.List()[0]; got.Definitions[0] != "noun: updated definition" {
		t.Fatalf("entry = %+v, want replacement", got)
	}
}

func TestStoreRemove(t *testing.T) {
	s, err := OpenStore(filepath.Join(t.TempDir(), "vocab.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Add(entry("keep")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add(entry("drop")); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.Remove("DROP"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.Count() != 1 || s.List()[0].Word != "keep" {
		t.Fatalf("book = %+v", s.List())
	}

	if err := s.Remove("drop"); !errors.Is(err, ErrNotInBook) {
		t.Fatalf("second remove = %v, want ErrNotInBook", err)
	}
}

func TestStoreOpensMissingFile(t *testing.T) {
	s, err := OpenStore(filepath.Join(t.TempDir(), "nested", "vocab.json"))
	if err != nil {
		t.Fatalf("open missing: %v", err)
	}
	if s.Count() != 0 {
		t.Fatalf("count = %d, want 0", s.Count())
	}
	// First add must create the parent directory.
	if err := s.Add(entry("hello")); err != nil {
		t.Fatalf("add: %v", err)
	}
}
