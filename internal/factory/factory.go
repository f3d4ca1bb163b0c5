package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/wordrush/internal/dependencies/clock"
	"github.com/mcoot/wordrush/internal/dependencies/random"
	"github.com/mcoot/wordrush/internal/services/match"
	"github.com/mcoot/wordrush/internal/services/words"
	"github.com/mcoot/wordrush/internal/storage"
	"github.com/mcoot/wordrush/internal/storage/memory"
	redisstorage "github.com/mcoot/wordrush/internal/storage/redis"
	"github.com/mcoot/wordrush/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	WordService     *words.Service
	MatchController *match.Controller
	HubManager      *sse.HubManager
	Broadcaster     *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// MatchConfig holds settings for the match controller (optional)
	MatchConfig match.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg.MatchConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, matchCfg match.Config, logger *slog.Logger) *App {
	wordService := words.New(store, logger)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	matchController := match.NewController(store, wordService, clk, rnd, broadcaster, logger, matchCfg)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		WordService:     wordService,
		MatchController: matchController,
		HubManager:      hubManager,
		Broadcaster:     broadcaster,
	}
}
