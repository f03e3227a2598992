package speech

import (
	"context"
	"regexp"
)

// SynthesisRequest holds the parameters for one text-to-speech invocation.
type SynthesisRequest struct {
	Text       string
	Voice      string
	Rate       string // signed percentage, e.g. "+0%" or "-15%"
	OutputPath string
}

// Engine is the interface for text-to-speech backends. Synthesize must
// either write a non-empty audio file at req.OutputPath or return an error.
type Engine interface {
	Synthesize(ctx context.Context, req SynthesisRequest) error
	Name() string
}

// Voice describes one selectable TTS voice.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	Gender   string `json:"gender"`
}

// Voices returns the curated voice catalog exposed to the UI. The engine
// accepts any identifier its binary knows; this list is what we surface.
func Voices() []Voice {
	return []Voice{
		{ID: "en-US-AriaNeural", Name: "Aria", Language: "en-US", Gender: "female"},
		{ID: "en-US-GuyNeural", Name: "Guy", Language: "en-US", Gender: "male"},
		{ID: "en-US-JennyNeural", Name: "Jenny", Language: "en-US", Gender: "female"},
		{ID: "en-GB-SoniaNeural", Name: "Sonia", Language: "en-GB", Gender: "female"},
		{ID: "en-GB-RyanNeural", Name: "Ryan", Language: "en-GB", Gender: "male"},
		{ID: "en-AU-NatashaNeural", Name: "Natasha", Language: "en-AU", Gender: "female"},
	}
}

var ratePattern = regexp.MustCompile(`^[+-]\d+%$`)

// ValidRate reports whether rate is a signed percentage like "+10%".
func ValidRate(rate string) bool {
	return ratePattern.MatchString(rate)
}

// ValidVoice reports whether id is in the curated catalog.
func ValidVoice(id string) bool {
	for _, v := range Voices() {
		if v.ID == id {
			return true
		}
	}
	return false
}
