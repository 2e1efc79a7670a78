package cache

import (
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/qcomm-stockout/internal/config"
	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/andresuchdata/qcomm-stockout/internal/forecast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsightsKey(t *testing.T) {
	pair := domain.Pair{Platform: "blinkit", Brand: "acme"}
	day := time.Date(2026, 10, 14, 23, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))

	key := insightsKey("abc123", pair, day)
	assert.Equal(t, "stockout:insights:blinkit:acme:2026-10-14:abc123", key)
	assert.Contains(t, key, pairPrefix(pair))
}

func TestConfigDigestTracksEngineParameters(t *testing.T) {
	base := forecast.DefaultConfig()
	changed := base
	changed.UnitValueFactor = 2

	assert.Equal(t, configDigest(base), configDigest(forecast.DefaultConfig()))
	assert.NotEqual(t, configDigest(base), configDigest(changed))
}

func TestDisabledCacheIsNoop(t *testing.T) {
	c := NewNoopInsightsCache()

	ctx := context.Background()
	pair := domain.Pair{Platform: "zepto", Brand: "acme"}
	require.NoError(t, c.Set(ctx, pair, time.Now(), &domain.NuclearInsights{}))

	got, ok, err := c.Get(ctx, pair, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{RedisPassword: "pw", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = buildRedisOptions(config.CacheConfig{RedisURL: "redis://:secret@cache:6380/1"})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 1, opts.DB)

	_, err = buildRedisOptions(config.CacheConfig{RedisURL: "http://nope"})
	assert.Error(t, err)
}

func TestCacheTTL(t *testing.T) {
	assert.Equal(t, time.Minute, cacheTTL(config.CacheConfig{}))
	assert.Equal(t, 5*time.Second, cacheTTL(config.CacheConfig{InsightsTTL: 5}))
}
