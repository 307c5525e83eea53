package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"investogun/internal/application/models"
	"investogun/pkg/platform/sentinel"
)

type entry struct {
	draft     *models.Draft
	expiresAt time.Time
}

// InMemory keeps drafts in process memory. Entries expire ttl after their
// last save and are swept lazily on access.
type InMemory struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID]entry
	ttl    time.Duration
	now    func() time.Time
}

// Option configures an InMemory store.
type Option func(*InMemory)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *InMemory) {
		s.now = now
	}
}

// NewInMemory creates an empty store whose drafts live for ttl.
func NewInMemory(ttl time.Duration, opts ...Option) *InMemory {
	s := &InMemory{
		drafts: make(map[uuid.UUID]entry),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save stores a copy of draft, replacing any previous version and
// restarting its TTL.
func (s *InMemory) Save(_ context.Context, draft *models.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.ID] = entry{draft: draft.Clone(), expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Get returns a copy of the draft. Returns sentinel.ErrNotFound when the
// draft is unknown and sentinel.ErrExpired when its TTL has passed.
func (s *InMemory) Get(_ context.Context, id uuid.UUID) (*models.Draft, error) {
	s.mu.RLock()
	e, ok := s.drafts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		delete(s.drafts, id)
		s.mu.Unlock()
		return nil, sentinel.ErrExpired
	}
	return e.draft.Clone(), nil
}

// Delete discards a draft. Deleting an unknown draft is not an error.
func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}

// Sweep drops every expired draft and returns how many were removed.
func (s *InMemory) Sweep(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, e := range s.drafts {
		if !now.Before(e.expiresAt) {
			delete(s.drafts, id)
			removed++
		}
	}
	return removed
}
