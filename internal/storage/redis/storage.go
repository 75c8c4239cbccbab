package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"duelrelay/internal/model"
	"duelrelay/internal/storage"
)

// Storage is a Redis-backed implementation of the stats store. Each
// name maps to a hash with wins/losses fields so increments are atomic
// server-side.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) EnsureStats(ctx context.Context, name string) error {
	key := statsKey(name)

	// HSetNX per field so an existing record is never zeroed
	pipe := s.client.Pipeline()
	pipe.HSetNX(ctx, key, fieldWins, 0)
	pipe.HSetNX(ctx, key, fieldLosses, 0)
	if s.cfg.StatsTTL > 0 {
		pipe.Expire(ctx, key, s.cfg.StatsTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetStats(ctx context.Context, name string) (*model.Stats, error) {
	values, err := s.client.HGetAll(ctx, statsKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrStatsNotFound
		}
		return nil, err
	}
	if len(values) == 0 {
		return nil, model.ErrStatsNotFound
	}

	stats := &model.Stats{}
	if v, ok := values[fieldWins]; ok {
		stats.Wins, _ = strconv.Atoi(v)
	}
	if v, ok := values[fieldLosses]; ok {
		stats.Losses, _ = strconv.Atoi(v)
	}
	return stats, nil
}

func (s *Storage) HasStats(ctx context.Context, name string) (bool, error) {
	n, err := s.client.Exists(ctx, statsKey(name)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) AddWin(ctx context.Context, name string) error {
	return s.incrementExisting(ctx, name, fieldWins)
}

func (s *Storage) AddLoss(ctx context.Context, name string) error {
	return s.incrementExisting(ctx, name, fieldLosses)
}

// incrementExisting bumps a counter only when the record already
// exists; unknown names never get a record created by game results.
func (s *Storage) incrementExisting(ctx context.Context, name, field string) error {
	exists, err := s.HasStats(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return s.client.HIncrBy(ctx, statsKey(name), field, 1).Err()
}
