package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"duelrelay/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestGetStatsMissingName() {
	_, err := s.storage.GetStats(s.ctx, "Alice")
	s.ErrorIs(err, model.ErrStatsNotFound)
}

func (s *StorageSuite) TestEnsureStatsCreatesZeroedRecord() {
	s.Require().NoError(s.storage.EnsureStats(s.ctx, "Alice"))

	stats, err := s.storage.GetStats(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(0, stats.Wins)
	s.Equal(0, stats.Losses)
}

func (s *StorageSuite) TestEnsureStatsDoesNotResetExisting() {
	s.Require().NoError(s.storage.EnsureStats(s.ctx, "Alice"))
	s.Require().NoError(s.storage.AddWin(s.ctx, "Alice"))

	s.Require().NoError(s.storage.EnsureStats(s.ctx, "Alice"))

	stats, err := s.storage.GetStats(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(1, stats.Wins)
}

func (s *StorageSuite) TestHasStats() {
	has, err := s.storage.HasStats(s.ctx, "Alice")
	s.Require().NoError(err)
	s.False(has)

	s.Require().NoError(s.storage.EnsureStats(s.ctx, "Alice"))

	has, err = s.storage.HasStats(s.ctx, "Alice")
	s.Require().NoError(err)
	s.True(has)
}

func (s *StorageSuite) TestAddWinAndLoss() {
	s.Require().NoError(s.storage.EnsureStats(s.ctx, "Alice"))

	s.Require().NoError(s.storage.AddWin(s.ctx, "Alice"))
	s.Require().NoError(s.storage.AddWin(s.ctx, "Alice"))
	s.Require().NoError(s.storage.AddLoss(s.ctx, "Alice"))

	stats, err := s.storage.GetStats(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(2, stats.Wins)
	s.Equal(1, stats.Losses)
}

func (s *StorageSuite) TestIncrementUnknownNameIsNoOp() {
	s.Require().NoError(s.storage.AddWin(s.ctx, "Nobody"))
	s.Require().NoError(s.storage.AddLoss(s.ctx, "Nobody"))

	has, err := s.storage.HasStats(s.ctx, "Nobody")
	s.Require().NoError(err)
	s.False(has)
}

func (s *StorageSuite) TestGetStatsReturnsCopy() {
	s.Require().NoError(s.storage.EnsureStats(s.ctx, "Alice"))

	stats, err := s.storage.GetStats(s.ctx, "Alice")
	s.Require().NoError(err)
	stats.Wins = 99

	fresh, err := s.storage.GetStats(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(0, fresh.Wins)
}
