// Package dict looks up English words against remote dictionary APIs.
package dict

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a dictionary has no entry for the word.
var ErrNotFound = errors.New("word not found")

// Entry is a normalized dictionary answer.
type Entry struct {
	Word        string   `json:"word"`
	Phonetic    string   `json:"phonetic,omitempty"`
	Definitions []string `json:"definitions"`
	Source      string   `json:"source"`
}

// Client is one remote dictionary backend.
type Client interface {
	Lookup(ctx context.Context, word string) (*Entry, error)
	Name() string
}
