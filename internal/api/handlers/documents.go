package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/document"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/queue"
)

type DocumentHandler struct {
	svc          *document.Service
	queue        *queue.Client // nil when redis is unavailable
	defaultVoice string
	defaultRate  string
}

func NewDocumentHandler(svc *document.Service, qc *queue.Client, defaultVoice, defaultRate string) *DocumentHandler {
	return &DocumentHandler{svc: svc, queue: qc, defaultVoice: defaultVoice, defaultRate: defaultRate}
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(document.MaxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file required"})
		return
	}
	defer file.Close()

	title := r.FormValue("title")
	if title == "" {
		title = header.Filename
	}

	fileType := strings.ToLower(filepath.Ext(header.Filename))
	if fileType == "" {
		fileType = header.Header.Get("Content-Type")
	}

	doc, err := h.svc.Upload(r.Context(), document.UploadRequest{
		Title:    title,
		FileType: fileType,
		FileSize: header.Size,
		Data:     file,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 20
	}

	docs, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": docs, "count": len(docs)})
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.docID(w, r)
	if !ok {
		return
	}

	doc, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "document not found"})
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Sentences(w http.ResponseWriter, r *http.Request) {
	id, ok := h.docID(w, r)
	if !ok {
		return
	}

	if _, err := h.svc.GetByID(r.Context(), id); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "document not found"})
		return
	}

	sentences, err := h.svc.Sentences(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sentences": sentences, "count": len(sentences)})
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.docID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "document not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GenerateAudio enqueues a whole-document regeneration.
func (h *DocumentHandler) GenerateAudio(w http.ResponseWriter, r *http.Request) {
	id, ok := h.docID(w, r)
	if !ok {
		return
	}

	if h.queue == nil {
		writeJSON(w, http.StatusServiceUnavailable,
			map[string]string{"error": "background generation unavailable: redis not configured"})
		return
	}

	if _, err := h.svc.GetByID(r.Context(), id); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "document not found"})
		return
	}

	var req struct {
		Voice string `json:"voice"`
		Rate  string `json:"rate"`
	}
	if r.Body != nil {
		// Body is optional; defaults apply.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Voice == "" {
		req.Voice = h.defaultVoice
	}
	if req.Rate == "" {
		req.Rate = h.defaultRate
	}

	err := h.queue.EnqueueSpeechDocument(queue.SpeechDocumentPayload{
		DocumentID: id.String(),
		Voice:      req.Voice,
		Rate:       req.Rate,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "document_id": id.String()})
}

func (h *DocumentHandler) docID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid document ID"})
		return uuid.Nil, false
	}
	return id, true
}
