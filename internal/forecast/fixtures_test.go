package forecast

import (
	"time"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
)

var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

// daily returns one record per day for the last `days` days (today included).
func daily(id, name string, qtyPerDay, days int, price float64) []domain.SalesRecord {
	recs := make([]domain.SalesRecord, 0, days)
	for age := 0; age < days; age++ {
		recs = append(recs, domain.SalesRecord{
			ProductID:   id,
			ProductName: name,
			Location:    "Bengaluru",
			Date:        testNow.AddDate(0, 0, -age).Truncate(24 * time.Hour),
			QtySold:     qtyPerDay,
			UnitPrice:   price,
		})
	}
	return recs
}

func sale(id string, age, qty int) domain.SalesRecord {
	return domain.SalesRecord{
		ProductID: id,
		Date:      testNow.AddDate(0, 0, -age),
		QtySold:   qty,
	}
}

func snapshot(id, name, facility string, backend, frontend int) domain.InventorySnapshot {
	return domain.InventorySnapshot{
		ProductID:    id,
		ProductName:  name,
		FacilityID:   facility,
		SnapshotDate: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
		BackendQty:   backend,
		FrontendQty:  frontend,
	}
}
