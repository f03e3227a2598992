// Package vocab maintains the personal vocabulary book.
package vocab

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/models"
)

// ErrNotInBook is returned when removing a word that was never saved.
var ErrNotInBook = errors.New("word not in vocabulary book")

// Store persists the vocabulary book as a flat JSON array on disk. Every
// mutation rewrites the whole file via a temp-file rename, so a crash
// never leaves a half-written book.
type Store struct {
	mu      sync.Mutex
	path    string
	entries []models.VocabEntry
}

// OpenStore loads (or initializes) the book at path.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read vocabulary book: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("parse vocabulary book: %w", err)
	}
	return s, nil
}

// Add saves an entry, newest first. Re-adding a word replaces the old
// entry instead of duplicating it.
func (s *Store) Add(entry models.VocabEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(entry.Word)
	kept := make([]models.VocabEntry, 0, len(s.entries)+1)
	kept = append(kept, entry)
	for _, e := range s.entries {
		if strings.ToLower(e.Word) != key {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return s.persist()
}

// List returns a copy of the book, newest first.
func (s *Store) List() []models.VocabEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.VocabEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Remove deletes a word from the book.
func (s *Store) Remove(word string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(word))
	kept := s.entries[:0]
	found := false
	for _, e := range s.entries {
		if strings.ToLower(e.Word) == key {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return fmt.Errorf("%q: %w", word, ErrNotInBook)
	}
	s.entries = kept
	return s.persist()
}

// Count returns the number of saved words.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// persist writes the book atomically. Caller holds the lock.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal vocabulary book: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".vocab-*.json")
	if err != nil {
		return fmt.Errorf("create temp book: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp book: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp book: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace vocabulary book: %w", err)
	}
	return nil
}
