package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"

	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/speech"
)

type SpeechHandler struct {
	runner       *speech.Runner
	defaultVoice string
	defaultRate  string
	concurrency  int
}

func NewSpeechHandler(runner *speech.Runner, defaultVoice, defaultRate string, concurrency int) *SpeechHandler {
	return &SpeechHandler{
		runner:       runner,
		defaultVoice: defaultVoice,
		defaultRate:  defaultRate,
		concurrency:  concurrency,
	}
}

// batchIDPattern keeps caller-supplied batch ids filesystem-safe.
var batchIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type batchRequest struct {
	Sentences []string `json:"sentences"`
	Voice     string   `json:"voice"`
	Rate      string   `json:"rate"`
	BatchID   string   `json:"batch_id"`
}

type batchItem struct {
	Index    int    `json:"index"`
	OK       bool   `json:"ok"`
	AudioURL string `json:"audio_url,omitempty"`
	Error    string `json:"error,omitempty"`
}

type batchResponse struct {
	BatchID      string      `json:"batch_id"`
	Results      []batchItem `json:"results"`
	SuccessCount int         `json:"success_count"`
	Total        int         `json:"total"`
}

// Batch synthesizes an ordered list of sentences and returns one result
// per input, in input order.
func (h *SpeechHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.Sentences == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sentences required"})
		return
	}

	voice, rate, errMsg := h.resolveVoiceRate(req.Voice, req.Rate)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	batchID := req.BatchID
	if batchID == "" {
		batchID = "batch-" + uuid.NewString()[:8]
	}
	if !batchIDPattern.MatchString(batchID) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid batch_id"})
		return
	}

	outcome, err := h.runner.Run(r.Context(), batchID, req.Sentences, voice, rate, h.concurrency)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, toBatchResponse(outcome))
}

type sentenceRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
	Rate  string `json:"rate"`
}

// Sentence synthesizes a single piece of text.
func (h *SpeechHandler) Sentence(w http.ResponseWriter, r *http.Request) {
	var req sentenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	voice, rate, errMsg := h.resolveVoiceRate(req.Voice, req.Rate)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	batchID := "single-" + uuid.NewString()[:8]
	outcome, err := h.runner.Run(r.Context(), batchID, []string{req.Text}, voice, rate, 1)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	res := outcome.Results[0]
	if !res.OK {
		status := http.StatusBadGateway
		if res.Error == speech.ErrEmptyText.Error() {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": res.Error})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"audio_url": audioURL(res.AudioPath)})
}

// Voices lists the curated voice catalog.
func (h *SpeechHandler) Voices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"voices":  speech.Voices(),
		"default": h.defaultVoice,
	})
}

func (h *SpeechHandler) resolveVoiceRate(voice, rate string) (string, string, string) {
	if voice == "" {
		voice = h.defaultVoice
	}
	if !speech.ValidVoice(voice) {
		return "", "", "unknown voice: " + voice
	}
	if rate == "" {
		rate = h.defaultRate
	}
	if !speech.ValidRate(rate) {
		return "", "", "invalid rate (want a signed percentage like +10%): " + rate
	}
	return voice, rate, ""
}

func toBatchResponse(outcome *speech.BatchOutcome) batchResponse {
	resp := batchResponse{
		BatchID:      outcome.BatchID,
		Results:      make([]batchItem, len(outcome.Results)),
		SuccessCount: outcome.SuccessCount,
		Total:        outcome.Total,
	}
	for i, res := range outcome.Results {
		item := batchItem{Index: res.Index, OK: res.OK, Error: res.Error}
		if res.OK {
			item.AudioURL = audioURL(res.AudioPath)
		}
		resp.Results[i] = item
	}
	return resp
}

func audioURL(path string) string {
	return "/audio/" + filepath.Base(path)
}
