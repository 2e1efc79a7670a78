package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/qcomm-stockout/internal/config"
	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/andresuchdata/qcomm-stockout/internal/forecast"
	"github.com/redis/go-redis/v9"
)

const insightsKeyPrefix = "stockout:insights"

// InsightsCache stores computed insights per pair and anchor day.
type InsightsCache interface {
	Get(ctx context.Context, pair domain.Pair, day time.Time) (*domain.NuclearInsights, bool, error)
	Set(ctx context.Context, pair domain.Pair, day time.Time, insights *domain.NuclearInsights) error
}

type redisInsightsCache struct {
	client  *redis.Client
	ttl     time.Duration
	version string
}

type noopInsightsCache struct{}

// NewRedisInsightsCache wraps an existing client. Keys carry a digest of the
// engine parameters.
func NewRedisInsightsCache(client *redis.Client, cfg config.CacheConfig, engine forecast.Config) InsightsCache {
	return &redisInsightsCache{client: client, ttl: cacheTTL(cfg), version: configDigest(engine)}
}

func NewNoopInsightsCache() InsightsCache {
	return &noopInsightsCache{}
}

func (c *redisInsightsCache) Get(ctx context.Context, pair domain.Pair, day time.Time) (*domain.NuclearInsights, bool, error) {
	payload, err := c.client.Get(ctx, insightsKey(c.version, pair, day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var insights domain.NuclearInsights
	if err := json.Unmarshal(payload, &insights); err != nil {
		return nil, false, fmt.Errorf("decode insights cache: %w", err)
	}
	return &insights, true, nil
}

func (c *redisInsightsCache) Set(ctx context.Context, pair domain.Pair, day time.Time, insights *domain.NuclearInsights) error {
	payload, err := json.Marshal(insights)
	if err != nil {
		return fmt.Errorf("encode insights cache: %w", err)
	}
	if err := c.client.Set(ctx, insightsKey(c.version, pair, day), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (n *noopInsightsCache) Get(ctx context.Context, pair domain.Pair, day time.Time) (*domain.NuclearInsights, bool, error) {
	return nil, false, nil
}

func (n *noopInsightsCache) Set(ctx context.Context, pair domain.Pair, day time.Time, insights *domain.NuclearInsights) error {
	return nil
}

func pairPrefix(pair domain.Pair) string {
	return fmt.Sprintf("%s:%s:%s:", insightsKeyPrefix, pair.Platform, pair.Brand)
}

func insightsKey(version string, pair domain.Pair, day time.Time) string {
	return pairPrefix(pair) + day.UTC().Format("2006-01-02") + ":" + version
}

func configDigest(engine forecast.Config) string {
	payload, _ := json.Marshal(engine)
	sum := sha1.Sum(payload)
	return hex.EncodeToString(sum[:])[:12]
}
