package factory

import (
	"errors"
	"io"
	"log/slog"

	"duelrelay/internal/dependencies/clock"
	"duelrelay/internal/dependencies/random"
	"duelrelay/internal/services/dispatch"
	"duelrelay/internal/services/match"
	"duelrelay/internal/services/presence"
	"duelrelay/internal/services/registry"
	"duelrelay/internal/services/relay"
	"duelrelay/internal/services/session"
	"duelrelay/internal/services/stats"
	"duelrelay/internal/storage"
	"duelrelay/internal/storage/memory"
	redisstorage "duelrelay/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Store storage.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Registry    *registry.Registry
	Sessions    *session.Registry
	StatsLedger *stats.Ledger
	Presence    *presence.Service
	Match       *match.Engine
	Relay       *relay.Service
	Dispatcher  *dispatch.Dispatcher
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
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Store
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

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Store, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	// Create services
	reg := registry.New(clk)
	sessions := session.New(clk)
	ledger := stats.New(store, logger)
	pres := presence.New(reg, sessions, ledger, logger)
	eng := match.New(reg, sessions, pres, ledger, rnd, logger)
	rel := relay.New(reg, sessions, ledger, pres, logger)
	disp := dispatch.New(reg, pres, eng, rel, logger)

	return &App{
		Store:       store,
		Clock:       clk,
		Random:      rnd,
		Registry:    reg,
		Sessions:    sessions,
		StatsLedger: ledger,
		Presence:    pres,
		Match:       eng,
		Relay:       rel,
		Dispatcher:  disp,
	}
}
