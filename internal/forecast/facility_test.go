package forecast

import (
	"strings"
	"testing"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func facilityFixture() []domain.InventorySnapshot {
	return []domain.InventorySnapshot{
		snapshot("sku-1", "Masala Chips", "FH-01", 10, 5),
		snapshot("sku-2", "Salted Chips", "FH-01", 2, 1),
		snapshot("sku-3", "Cola 500ml", "FH-01", 30, 0),
		snapshot("sku-4", "Cola 1L", "FH-02", 4, 4),
		snapshot("sku-5", "Tonic", "FH-02", 1, 0),
		snapshot("sku-6", "Lemon Soda", "FH-02", 6, 0),
		snapshot("sku-7", "Ginger Ale", "FH-02", 5, 0),
		snapshot("sku-8", "Iced Tea", "FH-02", 9, 0),
		snapshot("sku-9", "Root Beer", "FH-02", 3, 0),
	}
}

func TestFacilityReporter_Unfiltered(t *testing.T) {
	fr := NewFacilityReporter(5)
	rows := facilityFixture()
	positions := NewPositionAggregator(zerolog.Nop()).Aggregate(rows)

	reports := fr.Report(positions, rows, "")
	require.Len(t, reports, 2)

	first := reports[0]
	assert.Equal(t, "FH-01", first.FacilityID)
	assert.Equal(t, 48, first.TotalQty)
	assert.Equal(t, 42, first.BackendQty)
	assert.Equal(t, 6, first.FrontendQty)
	assert.Equal(t, 3, first.SKUCount)
	assert.Equal(t, "sku-3", first.TopProducts[0].ProductID)

	second := reports[1]
	assert.Equal(t, "FH-02", second.FacilityID)
	assert.Equal(t, 6, second.SKUCount)
	require.Len(t, second.TopProducts, 5)
	for i := 1; i < len(second.TopProducts); i++ {
		assert.GreaterOrEqual(t, second.TopProducts[i-1].Qty, second.TopProducts[i].Qty)
	}
	assert.Equal(t, "sku-8", second.TopProducts[0].ProductID)
}

func TestFacilityReporter_FilterScopesTotals(t *testing.T) {
	fr := NewFacilityReporter(5)
	rows := facilityFixture()
	positions := NewPositionAggregator(zerolog.Nop()).Aggregate(rows)

	reports := fr.Report(positions, rows, "CHIPS")
	require.Len(t, reports, 1, "facility without matches is excluded")

	r := reports[0]
	assert.Equal(t, "FH-01", r.FacilityID)
	assert.Equal(t, 18, r.TotalQty)
	assert.Equal(t, 2, r.SKUCount)
	for _, p := range r.TopProducts {
		assert.Contains(t, strings.ToLower(p.ProductName), "chips")
	}
}

func TestFacilityReporter_FilterSubsetLaw(t *testing.T) {
	fr := NewFacilityReporter(50)
	rows := facilityFixture()
	positions := NewPositionAggregator(zerolog.Nop()).Aggregate(rows)

	unfiltered := make(map[string]int)
	for _, r := range fr.Report(positions, rows, "") {
		unfiltered[r.FacilityID] = r.TotalQty
	}

	for _, filter := range []string{"cola", "chips", "a", "zzz", "Soda"} {
		for _, r := range fr.Report(positions, rows, filter) {
			assert.LessOrEqual(t, r.TotalQty, unfiltered[r.FacilityID])

			want := 0
			for _, row := range rows {
				if FacilityKey(row) == r.FacilityID &&
					strings.Contains(strings.ToLower(row.ProductName), strings.ToLower(filter)) {
					want += row.BackendQty + row.FrontendQty
				}
			}
			assert.Equal(t, want, r.TotalQty, "filter %q facility %s", filter, r.FacilityID)
		}
	}

	assert.Empty(t, fr.Report(positions, rows, "zzz"))
}

func TestFacilityReporter_NameFallsBackToPosition(t *testing.T) {
	fr := NewFacilityReporter(5)
	rows := []domain.InventorySnapshot{
		snapshot("sku-1", "Masala Chips", "FH-01", 1, 0),
		snapshot("sku-1", "", "FH-02", 2, 0),
	}
	positions := NewPositionAggregator(zerolog.Nop()).Aggregate(rows)

	reports := fr.Report(positions, rows, "masala")
	require.Len(t, reports, 2)
	assert.Equal(t, "FH-02", reports[0].FacilityID)
	assert.Equal(t, "Masala Chips", reports[0].TopProducts[0].ProductName)
}
