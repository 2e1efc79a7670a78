// Package app assembles the stockout service from configuration so the
// HTTP server and the CLI share one wiring path.
package app

import (
	"fmt"
	"time"

	"github.com/andresuchdata/qcomm-stockout/internal/cache"
	"github.com/andresuchdata/qcomm-stockout/internal/config"
	"github.com/andresuchdata/qcomm-stockout/internal/mapping"
	"github.com/andresuchdata/qcomm-stockout/internal/repository"
	"github.com/andresuchdata/qcomm-stockout/internal/repository/postgres"
	"github.com/andresuchdata/qcomm-stockout/internal/repository/rediskv"
	"github.com/andresuchdata/qcomm-stockout/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// App owns the connections behind a StockoutService.
type App struct {
	Service *service.StockoutService

	db    *postgres.DB
	redis *redis.Client
}

// New connects to the configured sources. clock may be nil for wall time.
func New(cfg *config.Config, clock func() time.Time) (*App, error) {
	registry, err := mapping.NewRegistry(cfg.Platforms)
	if err != nil {
		return nil, fmt.Errorf("build field map registry: %w", err)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	a := &App{db: db}

	opts := postgres.OptionsFrom(&cfg.Database, clock)
	sales := postgres.NewSalesRepository(db, registry, opts)

	var inventory repository.InventoryReader
	switch cfg.Sources.Inventory {
	case "redis":
		client, err := cache.NewRedisClient(cfg.Cache)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		inventory = rediskv.NewInventoryRepository(client, registry, cfg.Cache.ScanBatchSize)
	default:
		inventory = postgres.NewInventoryRepository(db, registry, opts)
	}

	engineCfg := cfg.Forecast.Engine()
	insightsCache := cache.NewNoopInsightsCache()
	if cfg.Cache.Enabled {
		client := a.redis
		if client == nil {
			if client, err = cache.NewRedisClient(cfg.Cache); err != nil {
				log.Warn().Err(err).Msg("insights cache unavailable, continuing without it")
			}
			a.redis = client
		}
		if client != nil {
			insightsCache = cache.NewRedisInsightsCache(client, cfg.Cache, engineCfg)
		}
	}

	svc, err := service.NewStockoutService(sales, inventory, engineCfg, service.Options{
		LookbackDays:       cfg.Forecast.LookbackDays,
		MaxConcurrentPairs: cfg.Forecast.MaxConcurrent,
		Clock:              clock,
		Cache:              insightsCache,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Service = svc

	log.Info().
		Str("inventory_source", cfg.Sources.Inventory).
		Bool("cache", cfg.Cache.Enabled).
		Strs("platforms", registry.Platforms()).
		Msg("stockout service ready")
	return a, nil
}

// Close releases the database and redis connections.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}
}
