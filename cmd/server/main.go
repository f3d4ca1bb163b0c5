package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/wordrush/internal/api"
	"github.com/mcoot/wordrush/internal/factory"
	redisstorage "github.com/mcoot/wordrush/internal/storage/redis"
	"github.com/mcoot/wordrush/internal/web"
)

const hubCleanupInterval = time.Minute

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	serverConfig, err := api.ServerConfigFromEnv(os.Getenv)
	if err != nil {
		logger.Error("invalid server config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	wordsPath := os.Getenv("WORDS_PATH")
	if wordsPath == "" {
		wordsPath = "data/words.txt"
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Load the word pool, falling back to the last pool saved to storage
	if err := app.WordService.LoadFromFile(context.Background(), wordsPath); err != nil {
		logger.Warn("could not load word file", slog.String("path", wordsPath), slog.String("error", err.Error()))
		if err := app.WordService.LoadFromStorage(context.Background()); err != nil {
			logger.Warn("no stored word pool; matches cannot be created", slog.String("error", err.Error()))
		}
	}

	// API and web share one router
	router := mux.NewRouter()
	api.Register(router, api.RouterConfig{
		Logger:          logger,
		MatchController: app.MatchController,
		WordService:     app.WordService,
		HubManager:      app.HubManager,
	})
	web.Register(router, web.RouterConfig{
		Logger:          logger,
		MatchController: app.MatchController,
	})

	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(server.Start)

	g.Go(func() error {
		ticker := time.NewTicker(hubCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				app.HubManager.CleanupEmptyHubs()
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		// Ending the matches closes their event streams before the server drains
		app.MatchController.Close(context.Background())
		return server.Shutdown(context.Background())
	})

	logger.Info("server started", slog.String("addr", server.Addr()))

	err = g.Wait()

	if closer, ok := app.Storage.(io.Closer); ok {
		if cerr := closer.Close(); cerr != nil {
			logger.Error("failed to close storage", slog.String("error", cerr.Error()))
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}
