package redis

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investogun/internal/platform/config"
)

func TestNewWithoutURL(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRejectsMalformedURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "://nope"})
	assert.ErrorContains(t, err, "parse redis URL")
}

func TestRegisterPoolMetrics(t *testing.T) {
	c := &Client{Client: redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})}
	defer c.Close()

	reg := prometheus.NewRegistry()
	require.NoError(t, c.RegisterPoolMetrics(reg))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{"kyc_redis_pool_total_conns", "kyc_redis_pool_idle_conns", "kyc_redis_pool_timeouts"}, names)

	assert.Error(t, c.RegisterPoolMetrics(reg), "registering twice collides")
}
