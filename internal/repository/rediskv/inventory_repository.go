// internal/repository/rediskv/inventory_repository.go
package rediskv

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/andresuchdata/qcomm-stockout/internal/mapping"
	"github.com/andresuchdata/qcomm-stockout/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const defaultScanBatch = 500

type inventoryRepository struct {
	client    *redis.Client
	registry  *mapping.Registry
	scanBatch int64
}

// NewInventoryRepository reads inventory snapshots stored as Redis hashes.
func NewInventoryRepository(client *redis.Client, registry *mapping.Registry, scanBatch int64) repository.InventoryReader {
	if scanBatch <= 0 {
		scanBatch = defaultScanBatch
	}
	return &inventoryRepository{client: client, registry: registry, scanBatch: scanBatch}
}

func (r *inventoryRepository) GetLatestInventory(ctx context.Context, platform, brand string) ([]domain.InventorySnapshot, error) {
	m, err := r.registry.Lookup(platform)
	if err != nil {
		return nil, err
	}

	prefix := brandPrefix(m.Platform, brand)
	date, err := r.resolveDate(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if date == "" {
		return []domain.InventorySnapshot{}, nil
	}

	dec := mapping.NewDecoder(m, log.With().Str("brand", brand).Logger())
	var out []domain.InventorySnapshot
	err = r.scan(ctx, matchPattern(prefix+date+":"), func(keys []string) error {
		rows, err := r.fetchRows(ctx, keys)
		if err != nil {
			return err
		}
		for i, row := range rows {
			rk, ok := parseRowKey(prefix, keys[i])
			if !ok {
				continue
			}
			fillFromKey(m, row, rk)
			if rec, ok := dec.Inventory(row); ok {
				out = append(out, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error getting inventory for %s/%s: %w", m.Platform, brand, err)
	}

	// SCAN order is arbitrary
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].FacilityID < out[j].FacilityID
	})

	log.Debug().Str("platform", m.Platform).Str("brand", brand).Str("date", date).
		Int("decoded", len(out)).Msg("inventory loaded from redis")
	return out, nil
}

// resolveDate reads the latest pointer and falls back to the newest date
// present in the keyspace. An empty result means there is no snapshot.
func (r *inventoryRepository) resolveDate(ctx context.Context, prefix string) (string, error) {
	date, err := r.client.Get(ctx, prefix+latestKey).Result()
	switch {
	case err == nil && date != "":
		return date, nil
	case err != nil && !errors.Is(err, redis.Nil):
		return "", fmt.Errorf("redis get latest pointer: %w", err)
	}

	var best string
	err = r.scan(ctx, matchPattern(prefix), func(keys []string) error {
		if d := latestDate(prefix, keys); d > best {
			best = d
		}
		return nil
	})
	return best, err
}

// scan walks the keyspace with SCAN until the cursor wraps to 0, handing
// each non-empty page of unseen keys to fn.
func (r *inventoryRepository) scan(ctx context.Context, pattern string, fn func(keys []string) error) error {
	seen := make(map[string]struct{})
	var cursor uint64
	for {
		keys, nextCursor, err := r.client.Scan(ctx, cursor, pattern, r.scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}

		fresh := keys[:0]
		for _, k := range keys {
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				fresh = append(fresh, k)
			}
		}
		if len(fresh) > 0 {
			if err := fn(fresh); err != nil {
				return err
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			return nil
		}
	}
}

func (r *inventoryRepository) fetchRows(ctx context.Context, keys []string) ([]mapping.Row, error) {
	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(keys))
	for i, k := range keys {
		cmds[i] = pipe.HGetAll(ctx, k)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("redis pipeline failed: %w", err)
	}

	rows := make([]mapping.Row, len(keys))
	for i, cmd := range cmds {
		row := cmd.Val()
		if row == nil {
			row = make(map[string]string)
		}
		rows[i] = mapping.Row(row)
	}
	return rows, nil
}

// fillFromKey supplies identity columns the hash leaves out.
func fillFromKey(m mapping.FieldMap, row mapping.Row, rk rowKey) {
	set := func(f mapping.Field, v string) {
		col := m.Inventory[f]
		if col != "" && row[col] == "" {
			row[col] = v
		}
	}
	set(mapping.FieldProductID, rk.Product)
	set(mapping.FieldFacilityID, rk.Facility)
	set(mapping.FieldSnapshotDate, rk.Date)
}
