// internal/repository/readers.go
package repository

import (
	"context"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
)

// SalesReader returns daily sales rows for a brand on a platform.
type SalesReader interface {
	GetSales(ctx context.Context, platform, brand string, lookbackDays int) ([]domain.SalesRecord, error)
}

// InventoryReader returns the rows of the most recent inventory snapshot
// for a brand on a platform.
type InventoryReader interface {
	GetLatestInventory(ctx context.Context, platform, brand string) ([]domain.InventorySnapshot, error)
}
