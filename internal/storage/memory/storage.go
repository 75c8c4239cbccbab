package memory

import (
	"context"
	"sync"

	"duelrelay/internal/model"
	"duelrelay/internal/storage"
)

// Storage is the in-memory implementation of the stats store. It is
// the default backend: counters live for the life of the process.
type Storage struct {
	mu    sync.RWMutex
	stats map[string]*model.Stats
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		stats: make(map[string]*model.Stats),
	}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) EnsureStats(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stats[name]; !ok {
		s.stats[name] = &model.Stats{}
	}
	return nil
}

func (s *Storage) GetStats(ctx context.Context, name string) (*model.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.stats[name]
	if !ok {
		return nil, model.ErrStatsNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *Storage) HasStats(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.stats[name]
	return ok, nil
}

func (s *Storage) AddWin(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.stats[name]; ok {
		record.Wins++
	}
	return nil
}

func (s *Storage) AddLoss(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.stats[name]; ok {
		record.Losses++
	}
	return nil
}
