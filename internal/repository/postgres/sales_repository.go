// internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/andresuchdata/qcomm-stockout/internal/mapping"
	"github.com/andresuchdata/qcomm-stockout/internal/repository"
	"github.com/rs/zerolog/log"
)

type salesRepository struct {
	db       *DB
	registry *mapping.Registry
	opts     Options
}

func NewSalesRepository(db *DB, registry *mapping.Registry, opts Options) repository.SalesReader {
	return &salesRepository{db: db, registry: registry, opts: opts.withDefaults()}
}

func (r *salesRepository) GetSales(ctx context.Context, platform, brand string, lookbackDays int) ([]domain.SalesRecord, error) {
	m, err := r.registry.Lookup(platform)
	if err != nil {
		return nil, err
	}

	query := salesQuery(m)
	cutoff := lookbackCutoff(r.opts.Clock(), lookbackDays)
	raw, err := repository.Paginate(ctx, r.opts.PageSize, r.opts.MaxPages,
		func(ctx context.Context, limit, offset int) ([]mapping.Row, error) {
			return r.db.QueryRows(ctx, query, brand, cutoff, limit, offset)
		})
	if err != nil {
		return nil, fmt.Errorf("error getting sales for %s/%s: %w", m.Platform, brand, err)
	}

	dec := mapping.NewDecoder(m, log.With().Str("brand", brand).Logger())
	out := make([]domain.SalesRecord, 0, len(raw))
	for _, row := range raw {
		if rec, ok := dec.Sales(row); ok {
			out = append(out, rec)
		}
	}

	log.Debug().Str("platform", m.Platform).Str("brand", brand).
		Int("rows", len(raw)).Int("decoded", len(out)).Msg("sales loaded")
	return out, nil
}

// lookbackCutoff is the first civil date inside the lookback window.
func lookbackCutoff(now time.Time, days int) time.Time {
	y, mo, d := now.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
}
