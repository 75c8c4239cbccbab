package stats

import (
	"context"
	"errors"
	"log/slog"

	"duelrelay/internal/model"
	"duelrelay/internal/storage"
)

// Ledger is the win/loss counter service, keyed by display name.
// It is a pure increment store: no decay, no deletion. Records are
// created lazily the first time a name enters the system and game
// results only ever touch records that already exist.
type Ledger struct {
	store  storage.Store
	logger *slog.Logger
}

// New creates a ledger over the given store
func New(store storage.Store, logger *slog.Logger) *Ledger {
	return &Ledger{
		store:  store,
		logger: logger.With(slog.String("component", "stats")),
	}
}

// Ensure lazily creates a zeroed record for a name
func (l *Ledger) Ensure(ctx context.Context, name string) error {
	return l.store.EnsureStats(ctx, name)
}

// Get returns the stats for a name, or a zero record when none exists.
// The lobby snapshot uses this, so absence is not an error here.
func (l *Ledger) Get(ctx context.Context, name string) model.Stats {
	stats, err := l.store.GetStats(ctx, name)
	if err != nil {
		return model.Stats{}
	}
	return *stats
}

// Lookup returns the stats for a name, or ErrStatsNotFound
func (l *Ledger) Lookup(ctx context.Context, name string) (*model.Stats, error) {
	return l.store.GetStats(ctx, name)
}

// Record applies a game result. Each side is updated independently and
// only when its record already exists; unknown names are ignored
// without error. A failure on one side never blocks the other, so a
// result is applied as far as the store allows.
func (l *Ledger) Record(ctx context.Context, winnerName, loserName string) error {
	winErr := l.store.AddWin(ctx, winnerName)
	lossErr := l.store.AddLoss(ctx, loserName)
	if winErr != nil || lossErr != nil {
		return errors.Join(winErr, lossErr)
	}

	l.logger.Debug("game result recorded",
		slog.String("winner", winnerName),
		slog.String("loser", loserName))
	return nil
}
