package storage

import (
	"context"

	"duelrelay/internal/model"
)

// Store defines the persistence interface for the stats ledger.
// The default deployment uses the in-memory backend, so counters are
// volatile and lost on restart by design; the Redis backend exists for
// deployments that opt into shared counters.
type Store interface {
	// EnsureStats creates a zeroed record for the name if absent
	EnsureStats(ctx context.Context, name string) error

	// GetStats returns the record for the name, or ErrStatsNotFound
	GetStats(ctx context.Context, name string) (*model.Stats, error)

	// HasStats reports whether a record exists for the name
	HasStats(ctx context.Context, name string) (bool, error)

	// AddWin increments the win counter for an existing record.
	// Missing names are a no-op.
	AddWin(ctx context.Context, name string) error

	// AddLoss increments the loss counter for an existing record.
	// Missing names are a no-op.
	AddLoss(ctx context.Context, name string) error
}
