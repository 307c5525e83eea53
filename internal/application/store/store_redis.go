package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"investogun/internal/application/models"
	"investogun/pkg/platform/sentinel"
)

var redisOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "kyc_draft_store_redis_duration_ms",
	Help:    "Latency of Redis draft store operations in milliseconds",
	Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 25, 50},
}, []string{"op"})

const draftKeyPrefix = "kyc:draft:"

// Redis stores drafts as JSON under a prefixed key with a TTL, so drafts
// survive a restart and are shared between replicas until they expire.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis constructs a Redis-backed draft store.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func draftKey(id uuid.UUID) string {
	return draftKeyPrefix + id.String()
}

// Save writes the draft and restarts its TTL.
func (s *Redis) Save(ctx context.Context, draft *models.Draft) error {
	defer observe("save", time.Now())
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(draft.ID), raw, s.ttl).Err(); err != nil {
		return unavailable("save", err)
	}
	return nil
}

// Get loads a draft. Returns sentinel.ErrNotFound when the key is absent
// (Redis expires keys itself, so an expired draft is simply absent) and
// wraps sentinel.ErrUnavailable when Redis cannot be reached.
func (s *Redis) Get(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	defer observe("get", time.Now())
	raw, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, unavailable("get", err)
	}
	var draft models.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return &draft, nil
}

// Delete removes the draft key.
func (s *Redis) Delete(ctx context.Context, id uuid.UUID) error {
	defer observe("delete", time.Now())
	if err := s.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return unavailable("delete", err)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("redis %s: %w: %w", op, sentinel.ErrUnavailable, err)
}

func observe(op string, start time.Time) {
	redisOpDuration.WithLabelValues(op).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}
