package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"curator/internal/api"
	"curator/internal/bot"
	"curator/internal/classifier"
	"curator/internal/config"
	"curator/internal/pipeline"
	"curator/internal/resolver"
	"curator/internal/storage"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warn("Invalid LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	log.WithFields(logrus.Fields{
		"storage_driver": cfg.StorageDriver,
		"fetcher":        cfg.Fetcher,
		"model":          cfg.GeminiModel,
	}).Info("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	repo, err := openRepository(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer func() {
		log.Info("Closing storage...")
		if err := repo.Close(); err != nil {
			log.WithError(err).Error("Error closing storage")
		}
	}()

	// --- Pipeline ---
	httpClient := &http.Client{Timeout: cfg.FetchTimeout}
	var fetcher resolver.PageFetcher = resolver.NewHTTPFetcher(httpClient, cfg.UserAgent)
	if cfg.Fetcher == config.FetcherRod {
		fetcher = resolver.NewRodFetcher(log, cfg.FetchTimeout)
	}
	res := resolver.New(cfg.OEmbedEndpoint, httpClient, fetcher, log)

	model, err := classifier.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to initialize classifier: %v", err)
	}
	svc := pipeline.New(res, classifier.New(model, log), repo, log)

	// --- Surfaces ---
	srv := api.New(cfg.ListenAddr, svc, repo, log)
	go func() {
		if err := srv.Start(); err != nil {
			log.WithError(err).Error("HTTP server stopped")
			stop()
		}
	}()

	if cfg.TelegramBotToken != "" {
		botHandler, err := bot.NewHandler(cfg.TelegramBotToken, svc, repo, log)
		if err != nil {
			log.Fatalf("Failed to initialize Telegram bot handler: %v", err)
		}
		go botHandler.Start(ctx)
	}

	log.Info("Curator is running. Press Ctrl+C to exit.")
	<-ctx.Done()

	// --- Graceful Shutdown ---
	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
}

func openRepository(ctx context.Context, cfg config.Config, log *logrus.Logger) (storage.Repository, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pool, err := storage.Connect(ctx, cfg.StorageURL, cfg.StorageKey)
		if err != nil {
			return nil, err
		}
		if err := storage.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return storage.NewPostgresRepository(pool, log), nil
	default:
		repo, err := storage.NewBadgerRepository(cfg.BadgerDBPath, log)
		if err != nil {
			return nil, err
		}
		go repo.RunGC(ctx, 5*time.Minute)
		return repo, nil
	}
}
