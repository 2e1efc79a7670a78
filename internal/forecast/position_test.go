package forecast

import (
	"testing"
	"time"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionAggregator_SumsAcrossFacilities(t *testing.T) {
	pa := NewPositionAggregator(zerolog.Nop())

	rows := []domain.InventorySnapshot{
		snapshot("sku-1", "Chips", "FH-01", 10, 5),
		snapshot("sku-1", "Chips", "FH-02", 3, 0),
		snapshot("sku-2", "Soda", "FH-01", 0, 7),
	}

	positions := pa.Aggregate(rows)
	require.Len(t, positions, 2)

	p := positions["sku-1"]
	assert.Equal(t, 13, p.BackendQty)
	assert.Equal(t, 5, p.FrontendQty)
	assert.Equal(t, 18, p.TotalQty)
	assert.Equal(t, map[string]int{"FH-01": 15, "FH-02": 3}, p.FacilityBreakdown)
	assert.Equal(t, "Chips", p.ProductName)
}

func TestPositionAggregator_FacilityFallbacks(t *testing.T) {
	pa := NewPositionAggregator(zerolog.Nop())

	city := snapshot("sku-1", "Chips", "", 4, 0)
	city.City = "Mumbai"
	unknown := snapshot("sku-1", "Chips", " ", 2, 1)

	positions := pa.Aggregate([]domain.InventorySnapshot{city, unknown})
	p := positions["sku-1"]
	assert.Equal(t, map[string]int{"Mumbai": 4, UnknownFacility: 3}, p.FacilityBreakdown)
	assert.Equal(t, 7, p.TotalQty)
}

func TestPositionAggregator_UsesLatestSnapshotOnly(t *testing.T) {
	pa := NewPositionAggregator(zerolog.Nop())

	old := snapshot("sku-1", "Chips", "FH-01", 100, 100)
	old.SnapshotDate = old.SnapshotDate.AddDate(0, 0, -1)
	stale := snapshot("sku-9", "Gone", "FH-01", 50, 0)
	stale.SnapshotDate = stale.SnapshotDate.AddDate(0, 0, -1)
	current := snapshot("sku-1", "Chips", "FH-01", 1, 2)
	current.SnapshotDate = current.SnapshotDate.Add(9 * time.Hour)

	positions := pa.Aggregate([]domain.InventorySnapshot{old, stale, current})
	require.Len(t, positions, 1)
	assert.Equal(t, 3, positions["sku-1"].TotalQty)
}

func TestPositionAggregator_FacilityConservation(t *testing.T) {
	pa := NewPositionAggregator(zerolog.Nop())

	rows := []domain.InventorySnapshot{
		snapshot("sku-1", "Chips", "FH-01", 10, 5),
		snapshot("sku-1", "Chips", "FH-02", 3, -4),
		snapshot("sku-1", "Chips", "", 2, 2),
		snapshot("sku-2", "Soda", "FH-03", 9, 1),
		snapshot("", "Orphan", "FH-03", 9, 1),
	}

	for id, p := range pa.Aggregate(rows) {
		sum := 0
		for _, qty := range p.FacilityBreakdown {
			sum += qty
		}
		assert.Equal(t, p.TotalQty, sum, "breakdown of %s must add up to total", id)
		assert.GreaterOrEqual(t, p.FrontendQty, 0)
	}
}

func TestLatestOnly_Empty(t *testing.T) {
	assert.Empty(t, LatestOnly(nil))
}
