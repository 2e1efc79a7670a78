package forecast

import (
	"sort"
	"strings"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
)

// FacilityReporter builds per-facility inventory summaries.
type FacilityReporter struct {
	topN int
}

// NewFacilityReporter creates a facility reporter listing topN products per facility.
func NewFacilityReporter(topN int) *FacilityReporter {
	if topN <= 0 {
		topN = 5
	}
	return &FacilityReporter{topN: topN}
}

// Report summarizes the latest snapshot per facility. When nameFilter is
// non-empty only products whose name contains it (case-insensitive) are
// counted, and facilities without any match are left out.
func (fr *FacilityReporter) Report(
	positions map[string]domain.StockPosition,
	rows []domain.InventorySnapshot,
	nameFilter string,
) []domain.FacilityReport {
	needle := strings.ToLower(strings.TrimSpace(nameFilter))

	// facility -> product -> item
	byFacility := make(map[string]map[string]*domain.FacilityProduct)
	for _, row := range LatestOnly(rows) {
		if row.ProductID == "" {
			continue
		}

		name := row.ProductName
		if name == "" {
			name = positions[row.ProductID].ProductName
		}
		if needle != "" && !strings.Contains(strings.ToLower(name), needle) {
			continue
		}

		key := FacilityKey(row)
		items, ok := byFacility[key]
		if !ok {
			items = make(map[string]*domain.FacilityProduct)
			byFacility[key] = items
		}
		item, ok := items[row.ProductID]
		if !ok {
			item = &domain.FacilityProduct{ProductID: row.ProductID, ProductName: name}
			items[row.ProductID] = item
		}
		item.BackendQty += max(row.BackendQty, 0)
		item.FrontendQty += max(row.FrontendQty, 0)
		item.Qty = item.BackendQty + item.FrontendQty
	}

	reports := make([]domain.FacilityReport, 0, len(byFacility))
	for facility, items := range byFacility {
		report := domain.FacilityReport{
			FacilityID: facility,
			SKUCount:   len(items),
		}
		products := make([]domain.FacilityProduct, 0, len(items))
		for _, item := range items {
			report.BackendQty += item.BackendQty
			report.FrontendQty += item.FrontendQty
			products = append(products, *item)
		}
		report.TotalQty = report.BackendQty + report.FrontendQty

		sort.Slice(products, func(i, j int) bool {
			if products[i].Qty != products[j].Qty {
				return products[i].Qty > products[j].Qty
			}
			return products[i].ProductID < products[j].ProductID
		})
		if len(products) > fr.topN {
			products = products[:fr.topN]
		}
		report.TopProducts = products

		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].TotalQty != reports[j].TotalQty {
			return reports[i].TotalQty > reports[j].TotalQty
		}
		return reports[i].FacilityID < reports[j].FacilityID
	})

	return reports
}
