package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"duelrelay/internal/model"
	"duelrelay/internal/storage"
	"duelrelay/internal/storage/memory"
	"duelrelay/internal/testutil"
)

// failingWinStore rejects win increments and delegates everything else
type failingWinStore struct {
	storage.Store
}

var errStoreDown = errors.New("store unavailable")

func (f *failingWinStore) AddWin(ctx context.Context, name string) error {
	return errStoreDown
}

type LedgerSuite struct {
	suite.Suite
	store  *memory.Storage
	ledger *Ledger
	ctx    context.Context
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.store = memory.New()
	s.ledger = New(s.store, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *LedgerSuite) TestEnsureCreatesZeroedRecord() {
	s.Require().NoError(s.ledger.Ensure(s.ctx, "Alice"))

	stats, err := s.ledger.Lookup(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(0, stats.Wins)
	s.Equal(0, stats.Losses)
}

func (s *LedgerSuite) TestEnsureDoesNotResetExisting() {
	s.Require().NoError(s.ledger.Ensure(s.ctx, "Alice"))
	s.Require().NoError(s.ledger.Ensure(s.ctx, "Bob"))
	s.Require().NoError(s.ledger.Record(s.ctx, "Alice", "Bob"))

	s.Require().NoError(s.ledger.Ensure(s.ctx, "Alice"))

	stats := s.ledger.Get(s.ctx, "Alice")
	s.Equal(1, stats.Wins)
}

func (s *LedgerSuite) TestGetAbsentNameIsZero() {
	stats := s.ledger.Get(s.ctx, "Nobody")
	s.Equal(model.Stats{}, stats)
}

func (s *LedgerSuite) TestLookupAbsentNameFails() {
	_, err := s.ledger.Lookup(s.ctx, "Nobody")
	s.ErrorIs(err, model.ErrStatsNotFound)
}

func (s *LedgerSuite) TestRecordIncrementsBothSides() {
	s.Require().NoError(s.ledger.Ensure(s.ctx, "Alice"))
	s.Require().NoError(s.ledger.Ensure(s.ctx, "Bob"))

	s.Require().NoError(s.ledger.Record(s.ctx, "Alice", "Bob"))
	s.Require().NoError(s.ledger.Record(s.ctx, "Alice", "Bob"))
	s.Require().NoError(s.ledger.Record(s.ctx, "Bob", "Alice"))

	alice := s.ledger.Get(s.ctx, "Alice")
	s.Equal(2, alice.Wins)
	s.Equal(1, alice.Losses)

	bob := s.ledger.Get(s.ctx, "Bob")
	s.Equal(1, bob.Wins)
	s.Equal(2, bob.Losses)
}

func (s *LedgerSuite) TestRecordIgnoresUnknownNames() {
	s.Require().NoError(s.ledger.Ensure(s.ctx, "Alice"))

	// Loser never logged in; only the winner's record moves
	s.Require().NoError(s.ledger.Record(s.ctx, "Alice", "Ghost"))

	alice := s.ledger.Get(s.ctx, "Alice")
	s.Equal(1, alice.Wins)

	_, err := s.ledger.Lookup(s.ctx, "Ghost")
	s.ErrorIs(err, model.ErrStatsNotFound)
}

func (s *LedgerSuite) TestRecordAppliesLossWhenWinFails() {
	ledger := New(&failingWinStore{Store: s.store}, testutil.NopLogger())
	s.Require().NoError(ledger.Ensure(s.ctx, "Alice"))
	s.Require().NoError(ledger.Ensure(s.ctx, "Bob"))

	err := ledger.Record(s.ctx, "Alice", "Bob")
	s.ErrorIs(err, errStoreDown)

	// The loser side still landed despite the winner-side failure
	bob := ledger.Get(s.ctx, "Bob")
	s.Equal(1, bob.Losses)
}

func (s *LedgerSuite) TestRecordBothUnknownIsNoop() {
	s.Require().NoError(s.ledger.Record(s.ctx, "GhostA", "GhostB"))

	_, err := s.ledger.Lookup(s.ctx, "GhostA")
	s.ErrorIs(err, model.ErrStatsNotFound)
	_, err = s.ledger.Lookup(s.ctx, "GhostB")
	s.ErrorIs(err, model.ErrStatsNotFound)
}
