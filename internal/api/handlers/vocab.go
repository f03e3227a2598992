package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/dict"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/vocab"
)

type VocabHandler struct {
	svc *vocab.Service
}

func NewVocabHandler(svc *vocab.Service) *VocabHandler {
	return &VocabHandler{svc: svc}
}

func (h *VocabHandler) List(w http.ResponseWriter, r *http.Request) {
	entries := h.svc.List()
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries, "count": len(entries)})
}

func (h *VocabHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Word     string `json:"word"`
		Sentence string `json:"sentence"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.Word == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "word required"})
		return
	}

	entry, err := h.svc.AddWord(r.Context(), req.Word, req.Sentence)
	if err != nil {
		if errors.Is(err, dict.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *VocabHandler) Remove(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	if err := h.svc.Remove(word); err != nil {
		if errors.Is(err, vocab.ErrNotInBook) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Lookup answers a dictionary query without saving the word.
func (h *VocabHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	if word == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "word query parameter required"})
		return
	}

	entry, err := h.svc.LookupOnly(r.Context(), word)
	if err != nil {
		if errors.Is(err, dict.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, entry)
}
