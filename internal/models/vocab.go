package models

import "time"

// VocabEntry is one word in the personal vocabulary book.
type VocabEntry struct {
	Word        string   `json:"word"`
	Phonetic    string   `json:"phonetic,omitempty"`
	Definitions []string `json:"definitions"`
	// Sentence is the source sentence the word was collected from, if any.
	Sentence string    `json:"sentence,omitempty"`
	Source   string    `json:"source,omitempty"` // which dictionary answered
	AddedAt  time.Time `json:"added_at"`
}
