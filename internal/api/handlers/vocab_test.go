package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/dict"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/vocab"
)

func newVocabRouter(t *testing.T) (chi.Router, *vocab.Store) {
	t.Helper()

	dictSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/v2/entries/en/ubiquitous":
			w.Write([]byte(`[{"word":"ubiquitous","phonetic":"/juːˈbɪkwɪtəs/","meanings":[{"partOfSpeech":"adjective","definitions":[{"definition":"present everywhere at once"}]}]}]`))
		case r.URL.Path == "/words":
			// Datamuse-shaped miss: 200 with no matches.
			w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(dictSrv.Close)

	primary := dict.NewFreeDictClient(dictSrv.URL, time.Second)
	fallback := dict.NewDatamuseClient(dictSrv.URL, time.Second)
	lookup := dict.NewLookup(primary, fallback, nil, 0)

	store, err := vocab.OpenStore(filepath.Join(t.TempDir(), "vocabulary.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	h := NewVocabHandler(vocab.NewService(store, lookup))
	r := chi.NewRouter()
	r.Get("/vocab", h.List)
	r.Post("/vocab", h.Add)
	r.Get("/vocab/lookup", h.Lookup)
	r.Delete("/vocab/{word}", h.Remove)
	return r, store
}

func TestVocabAddThenList(t *testing.T) {
	router, store := newVocabRouter(t)

	body, _ := json.Marshal(map[string]string{
		"word":     "Ubiquitous",
		"sentence": "Smartphones are ubiquitous nowadays.",
	})
	req := httptest.NewRequest(http.MethodPost, "/vocab", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if store.Count() != 1 {
		t.Fatalf("store count = %d, want 1", store.Count())
	}

	req = httptest.NewRequest(http.MethodGet, "/vocab", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var resp struct {
		Count   int `json:"count"`
		Entries []struct {
			Word     string `json:"word"`
			Sentence string `json:"sentence"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if resp.Count != 1 || resp.Entries[0].Word != "ubiquitous" {
		t.Errorf("list = %+v", resp)
	}
	if resp.Entries[0].Sentence != "Smartphones are ubiquitous nowadays." {
		t.Errorf("sentence = %q", resp.Entries[0].Sentence)
	}
}

func TestVocabAddUnknownWordIs404(t *testing.T) {
	router, _ := newVocabRouter(t)

	body, _ := json.Marshal(map[string]string{"word": "xyzzyplugh"})
	req := httptest.NewRequest(http.MethodPost, "/vocab", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestVocabRemove(t *testing.T) {
	router, store := newVocabRouter(t)

	body, _ := json.Marshal(map[string]string{"word": "ubiquitous"})
	req := httptest.NewRequest(http.MethodPost, "/vocab", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed add failed: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/vocab/ubiquitous", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if store.Count() != 0 {
		t.Errorf("store count = %d after remove, want 0", store.Count())
	}

	req = httptest.NewRequest(http.MethodDelete, "/vocab/ubiquitous", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second remove status = %d, want 404", rec.Code)
	}
}

func TestVocabLookupRequiresWord(t *testing.T) {
	router, _ := newVocabRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/vocab/lookup", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
