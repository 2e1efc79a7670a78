package forecast

import (
	"strings"
	"time"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/rs/zerolog"
)

// UnknownFacility buckets rows that carry neither a facility id nor a city.
const UnknownFacility = "Unknown"

// PositionAggregator sums per-facility inventory rows into stock positions.
type PositionAggregator struct {
	log zerolog.Logger
}

// NewPositionAggregator creates a position aggregator.
func NewPositionAggregator(log zerolog.Logger) *PositionAggregator {
	return &PositionAggregator{log: log}
}

// FacilityKey returns the facility id, falling back to the city and then
// to UnknownFacility.
func FacilityKey(row domain.InventorySnapshot) string {
	if id := strings.TrimSpace(row.FacilityID); id != "" {
		return id
	}
	if city := strings.TrimSpace(row.City); city != "" {
		return city
	}
	return UnknownFacility
}

// LatestOnly keeps only the rows of the most recent snapshot date.
func LatestOnly(rows []domain.InventorySnapshot) []domain.InventorySnapshot {
	if len(rows) == 0 {
		return nil
	}

	var latest time.Time
	for _, r := range rows {
		if d := civilDate(r.SnapshotDate); d.After(latest) {
			latest = d
		}
	}

	out := make([]domain.InventorySnapshot, 0, len(rows))
	for _, r := range rows {
		if civilDate(r.SnapshotDate).Equal(latest) {
			out = append(out, r)
		}
	}
	return out
}

// Aggregate groups the latest snapshot by product. A product present in
// several facilities is summed; its breakdown records each facility's share.
func (pa *PositionAggregator) Aggregate(rows []domain.InventorySnapshot) map[string]domain.StockPosition {
	latest := LatestOnly(rows)
	positions := make(map[string]domain.StockPosition)

	for _, row := range latest {
		if row.ProductID == "" {
			pa.log.Warn().Str("facility", FacilityKey(row)).Msg("inventory row without product id skipped")
			continue
		}

		backend := pa.quantity(row, "backend_qty", row.BackendQty)
		frontend := pa.quantity(row, "frontend_qty", row.FrontendQty)

		pos, ok := positions[row.ProductID]
		if !ok {
			pos = domain.StockPosition{
				ProductID:         row.ProductID,
				FacilityBreakdown: make(map[string]int),
			}
		}
		if pos.ProductName == "" {
			pos.ProductName = row.ProductName
		}

		pos.BackendQty += backend
		pos.FrontendQty += frontend
		pos.TotalQty = pos.BackendQty + pos.FrontendQty
		pos.FacilityBreakdown[FacilityKey(row)] += backend + frontend

		positions[row.ProductID] = pos
	}

	return positions
}

func (pa *PositionAggregator) quantity(row domain.InventorySnapshot, field string, v int) int {
	if v < 0 {
		pa.log.Warn().Str("product_id", row.ProductID).Str("field", field).
			Int("value", v).Msg("negative quantity coerced to zero")
		return 0
	}
	return v
}
