package main

import (
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/config"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/queue"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/queue/workers"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/speech"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.Storage.DataDir)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	engine := speech.NewEdgeEngine(speech.EdgeEngineConfig{BinPath: cfg.TTS.BinPath})
	runner := speech.NewRunner(engine, cfg.Storage.AudioDir, cfg.TTS.JobTimeout)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			// One document regeneration at a time; the batch runner
			// fans out internally up to TTS_CONCURRENCY.
			Concurrency: 1,
		},
	)

	registry := queue.NewHandlersRegistry()

	speechWorker := workers.NewSpeechWorker(st, runner, cfg.TTS.Concurrency)
	registry.Register(queue.TypeSpeechDocument, asynq.HandlerFunc(speechWorker.ProcessTask))

	slog.Info("starting worker", "tts_concurrency", cfg.TTS.Concurrency)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
