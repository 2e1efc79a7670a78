// internal/repository/postgres/inventory_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/andresuchdata/qcomm-stockout/internal/mapping"
	"github.com/andresuchdata/qcomm-stockout/internal/repository"
	"github.com/rs/zerolog/log"
)

type inventoryRepository struct {
	db       *DB
	registry *mapping.Registry
	opts     Options
}

func NewInventoryRepository(db *DB, registry *mapping.Registry, opts Options) repository.InventoryReader {
	return &inventoryRepository{db: db, registry: registry, opts: opts.withDefaults()}
}

func (r *inventoryRepository) GetLatestInventory(ctx context.Context, platform, brand string) ([]domain.InventorySnapshot, error) {
	m, err := r.registry.Lookup(platform)
	if err != nil {
		return nil, err
	}

	query := inventoryQuery(m)
	raw, err := repository.Paginate(ctx, r.opts.PageSize, r.opts.MaxPages,
		func(ctx context.Context, limit, offset int) ([]mapping.Row, error) {
			return r.db.QueryRows(ctx, query, brand, limit, offset)
		})
	if err != nil {
		return nil, fmt.Errorf("error getting inventory for %s/%s: %w", m.Platform, brand, err)
	}

	dec := mapping.NewDecoder(m, log.With().Str("brand", brand).Logger())
	out := make([]domain.InventorySnapshot, 0, len(raw))
	for _, row := range raw {
		if rec, ok := dec.Inventory(row); ok {
			out = append(out, rec)
		}
	}

	log.Debug().Str("platform", m.Platform).Str("brand", brand).
		Int("rows", len(raw)).Int("decoded", len(out)).Msg("inventory loaded")
	return out, nil
}
