package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/api/handlers"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/api/middleware"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/config"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/dict"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/document"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/queue"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/speech"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/store"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/vocab"
)

type Router struct {
	mux        *chi.Mux
	store      *store.Store
	redis      *redis.Client // nil when redis is unavailable
	vocabStore *vocab.Store
	queue      *queue.Client // nil when redis is unavailable
	cfg        *config.Config
}

func NewRouter(st *store.Store, rdb *redis.Client, vocabStore *vocab.Store, qc *queue.Client, cfg *config.Config) *Router {
	return &Router{
		mux:        chi.NewRouter(),
		store:      st,
		redis:      rdb,
		vocabStore: vocabStore,
		queue:      qc,
		cfg:        cfg,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(50, 100)
	r.Use(rl.Limit)

	// Health endpoints
	health := handlers.NewHealthHandler(rt.store, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	engine := speech.NewEdgeEngine(speech.EdgeEngineConfig{BinPath: rt.cfg.TTS.BinPath})
	runner := speech.NewRunner(engine, rt.cfg.Storage.AudioDir, rt.cfg.TTS.JobTimeout)

	docSvc := document.NewService(rt.store, rt.cfg.Storage.AudioDir)

	primary := dict.NewFreeDictClient(rt.cfg.Dict.PrimaryBaseURL, rt.cfg.Dict.Timeout)
	fallback := dict.NewDatamuseClient(rt.cfg.Dict.FallbackBaseURL, rt.cfg.Dict.Timeout)
	lookup := dict.NewLookup(primary, fallback, rt.redis, rt.cfg.Dict.CacheTTL)
	vocabSvc := vocab.NewService(rt.vocabStore, lookup)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		docH := handlers.NewDocumentHandler(docSvc, rt.queue, rt.cfg.TTS.DefaultVoice, rt.cfg.TTS.DefaultRate)
		r.Route("/documents", func(r chi.Router) {
			r.Post("/", docH.Upload)
			r.Get("/", docH.List)
			r.Get("/{id}", docH.Get)
			r.Delete("/{id}", docH.Delete)
			r.Get("/{id}/sentences", docH.Sentences)
			r.Post("/{id}/audio", docH.GenerateAudio)
		})

		speechH := handlers.NewSpeechHandler(runner, rt.cfg.TTS.DefaultVoice, rt.cfg.TTS.DefaultRate, rt.cfg.TTS.Concurrency)
		r.Route("/speech", func(r chi.Router) {
			r.Post("/batch", speechH.Batch)
			r.Post("/sentence", speechH.Sentence)
			r.Get("/voices", speechH.Voices)
		})

		vocabH := handlers.NewVocabHandler(vocabSvc)
		r.Route("/vocab", func(r chi.Router) {
			r.Get("/", vocabH.List)
			r.Post("/", vocabH.Add)
			r.Get("/lookup", vocabH.Lookup)
			r.Delete("/{word}", vocabH.Remove)
		})
	})

	// Generated audio artifacts
	fs := http.StripPrefix("/audio/", http.FileServer(http.Dir(rt.cfg.Storage.AudioDir)))
	r.Get("/audio/*", fs.ServeHTTP)

	return r
}
