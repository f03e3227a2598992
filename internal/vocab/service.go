package vocab

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/dict"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/models"
)

// Service ties dictionary lookups to the vocabulary book.
type Service struct {
	store  *Store
	lookup *dict.Lookup
}

func NewService(store *Store, lookup *dict.Lookup) *Service {
	return &Service{store: store, lookup: lookup}
}

// AddWord looks the word up and saves the enriched entry, recording the
// source sentence it was collected from.
func (s *Service) AddWord(ctx context.Context, word, sourceSentence string) (*models.VocabEntry, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, fmt.Errorf("word required")
	}

	result, err := s.lookup.Lookup(ctx, word)
	if err != nil {
		return nil, err
	}

	entry := models.VocabEntry{
		Word:        result.Word,
		Phonetic:    result.Phonetic,
		Definitions: result.Definitions,
		Sentence:    strings.TrimSpace(sourceSentence),
		Source:      result.Source,
		AddedAt:     time.Now(),
	}
	if err := s.store.Add(entry); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}

	slog.Info("word saved to vocabulary book", "word", entry.Word, "source", entry.Source)
	return &entry, nil
}

// LookupOnly answers a dictionary query without touching the book.
func (s *Service) LookupOnly(ctx context.Context, word string) (*dict.Entry, error) {
	return s.lookup.Lookup(ctx, word)
}

// List returns saved entries, newest first.
func (s *Service) List() []models.VocabEntry {
	return s.store.List()
}

// Remove deletes a word from the book.
func (s *Service) Remove(word string) error {
	return s.store.Remove(word)
}
