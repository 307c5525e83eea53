package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"investogun/internal/application/models"
	"investogun/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.now = time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	s.store = NewInMemory(time.Hour, WithClock(func() time.Time { return s.now }))
	s.ctx = context.Background()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) TestSaveAndGet() {
	draft := models.NewDraft(uuid.New(), s.now)
	s.Require().NoError(s.store.Save(s.ctx, draft))

	s.Run("returns a copy", func() {
		got, err := s.store.Get(s.ctx, draft.ID)
		s.Require().NoError(err)
		got.Application.Contacts.Directors[0] = "mutated"

		again, err := s.store.Get(s.ctx, draft.ID)
		s.Require().NoError(err)
		s.Equal("", again.Application.Contacts.Directors[0])
	})

	s.Run("saved copy is isolated from caller", func() {
		draft.Application.Company.NameOrPromoter = "changed after save"
		got, err := s.store.Get(s.ctx, draft.ID)
		s.Require().NoError(err)
		s.Equal("", got.Application.Company.NameOrPromoter)
	})

	s.Run("unknown id", func() {
		_, err := s.store.Get(s.ctx, uuid.New())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestExpiry() {
	draft := models.NewDraft(uuid.New(), s.now)
	s.Require().NoError(s.store.Save(s.ctx, draft))

	s.now = s.now.Add(59 * time.Minute)
	_, err := s.store.Get(s.ctx, draft.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Save(s.ctx, draft))
	s.now = s.now.Add(59 * time.Minute)
	_, err = s.store.Get(s.ctx, draft.ID)
	s.Require().NoError(err, "saving restarts the TTL")

	s.now = s.now.Add(time.Hour)
	_, err = s.store.Get(s.ctx, draft.ID)
	s.ErrorIs(err, sentinel.ErrExpired)
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.Get(s.ctx, draft.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.NotErrorIs(err, sentinel.ErrExpired, "expired entries are dropped on read")
}

func (s *InMemoryStoreSuite) TestSweepAndDelete() {
	stale := models.NewDraft(uuid.New(), s.now)
	s.Require().NoError(s.store.Save(s.ctx, stale))
	s.now = s.now.Add(2 * time.Hour)
	fresh := models.NewDraft(uuid.New(), s.now)
	s.Require().NoError(s.store.Save(s.ctx, fresh))

	s.Equal(1, s.store.Sweep(s.ctx))

	s.Require().NoError(s.store.Delete(s.ctx, fresh.ID))
	s.Require().NoError(s.store.Delete(s.ctx, fresh.ID))
	_, err := s.store.Get(s.ctx, fresh.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
