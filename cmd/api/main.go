package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/api"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/config"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/queue"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/store"
	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/vocab"
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

	ctx := context.Background()

	st, err := store.Open(cfg.Storage.DataDir)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	vocabStore, err := vocab.OpenStore(filepath.Join(cfg.Storage.DataDir, "vocabulary.json"))
	if err != nil {
		slog.Error("failed to open vocabulary book", "error", err)
		os.Exit(1)
	}

	// Redis is optional; without it the dictionary cache and background
	// audio generation are disabled, synchronous generation still works.
	var rdbClient *redis.Client
	var queueClient *queue.Client
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, running without cache and background jobs", "error", err)
		rdb.Close()
	} else {
		rdbClient = rdb
		defer rdb.Close()
		queueClient = queue.NewClient(cfg.Redis)
		defer queueClient.Close()
	}

	// Setup router
	router := api.NewRouter(st, rdbClient, vocabStore, queueClient, cfg)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // synchronous batch generation can be slow
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
