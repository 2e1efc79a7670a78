package service

import (
	"context"
	"time"

	"github.com/andresuchdata/qcomm-stockout/internal/cache"
	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/andresuchdata/qcomm-stockout/internal/forecast"
	"github.com/andresuchdata/qcomm-stockout/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	defaultLookbackDays  = 60
	defaultMaxConcurrent = 8
)

type Options struct {
	// LookbackDays is how far back sales are read. It covers both the 30-day
	// velocity windows and longer trend views.
	LookbackDays int
	// MaxConcurrentPairs bounds the dashboard fan-out.
	MaxConcurrentPairs int
	Clock              func() time.Time
	Cache              cache.InsightsCache
}

type StockoutService struct {
	sales     repository.SalesReader
	inventory repository.InventoryReader
	cfg       forecast.Config
	opts      Options
}

func NewStockoutService(
	sales repository.SalesReader,
	inventory repository.InventoryReader,
	cfg forecast.Config,
	opts Options,
) (*StockoutService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = defaultLookbackDays
	}
	if opts.MaxConcurrentPairs <= 0 {
		opts.MaxConcurrentPairs = defaultMaxConcurrent
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNoopInsightsCache()
	}
	return &StockoutService{sales: sales, inventory: inventory, cfg: cfg, opts: opts}, nil
}

func (s *StockoutService) engine(pair domain.Pair) *forecast.Engine {
	return forecast.NewEngine(s.cfg, log.With().Str("pair", pair.String()).Logger())
}

// ComputeStockoutRisk returns the ranked risk records for one pair.
func (s *StockoutService) ComputeStockoutRisk(ctx context.Context, platform, brand string) ([]domain.RiskRecord, error) {
	pair, err := domain.NewPair(platform, brand)
	if err != nil {
		return nil, err
	}

	now := s.opts.Clock()
	sales, inventory, err := s.load(ctx, pair)
	if err != nil {
		return nil, err
	}
	return s.engine(pair).StockoutRisk(now, sales, inventory), nil
}

// ComputeNuclearInsights returns risk records and their rollup KPIs.
func (s *StockoutService) ComputeNuclearInsights(ctx context.Context, platform, brand string) (*domain.NuclearInsights, error) {
	pair, err := domain.NewPair(platform, brand)
	if err != nil {
		return nil, err
	}
	return s.insights(ctx, pair)
}

func (s *StockoutService) insights(ctx context.Context, pair domain.Pair) (*domain.NuclearInsights, error) {
	now := s.opts.Clock()
	if cached, ok, err := s.opts.Cache.Get(ctx, pair, now); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Str("pair", pair.String()).Msg("stockout: cache get insights failed")
	}

	sales, inventory, err := s.load(ctx, pair)
	if err != nil {
		return nil, err
	}

	insights := s.engine(pair).NuclearInsights(now, sales, inventory)
	if err := s.opts.Cache.Set(ctx, pair, now, &insights); err != nil {
		log.Warn().Err(err).Str("pair", pair.String()).Msg("stockout: cache set insights failed")
	}
	return &insights, nil
}

// ComputeFacilityBreakdown reports per-facility stock from the latest
// snapshot. Sales are not needed and not read.
func (s *StockoutService) ComputeFacilityBreakdown(ctx context.Context, platform, brand, nameFilter string) ([]domain.FacilityReport, error) {
	pair, err := domain.NewPair(platform, brand)
	if err != nil {
		return nil, err
	}

	inventory, err := s.inventory.GetLatestInventory(ctx, pair.Platform, pair.Brand)
	if err != nil {
		return nil, &domain.ProviderError{Source: "inventory", Pair: pair, Err: err}
	}
	return s.engine(pair).FacilityBreakdown(inventory, nameFilter), nil
}

// ComputeDashboard runs the insights pipeline for every pair concurrently.
// Results keep the input order and a failing pair only sets its own Err.
func (s *StockoutService) ComputeDashboard(ctx context.Context, pairs []domain.Pair) []domain.PairResult {
	results := make([]domain.PairResult, len(pairs))

	var g errgroup.Group
	g.SetLimit(s.opts.MaxConcurrentPairs)
	for i, pair := range pairs {
		results[i].Pair = pair
		g.Go(func() error {
			insights, err := s.insights(ctx, pair)
			if err != nil {
				log.Error().Err(err).Str("pair", pair.String()).Msg("stockout: pair failed")
				results[i].Err = err
				return nil
			}
			results[i].Insights = insights
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// load reads sales and inventory concurrently. Either read failing cancels
// the other and surfaces as a ProviderError.
func (s *StockoutService) load(ctx context.Context, pair domain.Pair) ([]domain.SalesRecord, []domain.InventorySnapshot, error) {
	var (
		sales     []domain.SalesRecord
		inventory []domain.InventorySnapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.sales.GetSales(gctx, pair.Platform, pair.Brand, s.opts.LookbackDays)
		if err != nil {
			return &domain.ProviderError{Source: "sales", Pair: pair, Err: err}
		}
		sales = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.inventory.GetLatestInventory(gctx, pair.Platform, pair.Brand)
		if err != nil {
			return &domain.ProviderError{Source: "inventory", Pair: pair, Err: err}
		}
		inventory = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	log.Debug().Str("pair", pair.String()).Int("sales", len(sales)).Int("inventory", len(inventory)).
		Msg("stockout: inputs loaded")
	return sales, inventory, nil
}
