// internal/domain/models.go
package domain

import "time"

// Pair identifies one tenant report: a brand on a quick-commerce platform.
type Pair struct {
	Platform string `json:"platform"`
	Brand    string `json:"brand"`
}

func (p Pair) String() string {
	return p.Platform + ":" + p.Brand
}

// SalesRecord is one day of sales for a product at a location.
type SalesRecord struct {
	ProductID   string    `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	Location    string    `json:"location" db:"location"`
	Date        time.Time `json:"date" db:"date"`
	QtySold     int       `json:"qty_sold" db:"qty_sold"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
}

// InventorySnapshot is a product's stock at one facility on a snapshot date.
type InventorySnapshot struct {
	ProductID    string    `json:"product_id" db:"product_id"`
	ProductName  string    `json:"product_name" db:"product_name"`
	FacilityID   string    `json:"facility_id" db:"facility_id"`
	City         string    `json:"city" db:"city"`
	SnapshotDate time.Time `json:"snapshot_date" db:"snapshot_date"`
	BackendQty   int       `json:"backend_qty" db:"backend_qty"`
	FrontendQty  int       `json:"frontend_qty" db:"frontend_qty"`
}

// VelocityProfile holds trailing daily run rates for a product.
type VelocityProfile struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name,omitempty"`
	DRR7         float64 `json:"drr7"`
	DRR14        float64 `json:"drr14"`
	DRR30        float64 `json:"drr30"`
	WeightedDRR  float64 `json:"weighted_drr"`
	AvgUnitPrice float64 `json:"avg_unit_price"`
}

// StockPosition is a product's stock summed across facilities.
type StockPosition struct {
	ProductID         string         `json:"product_id"`
	ProductName       string         `json:"product_name,omitempty"`
	TotalQty          int            `json:"total_qty"`
	BackendQty        int            `json:"backend_qty"`
	FrontendQty       int            `json:"frontend_qty"`
	FacilityBreakdown map[string]int `json:"facility_breakdown"`
}

// RiskRecord is the forecast outcome for one product.
type RiskRecord struct {
	ProductID       string     `json:"product_id"`
	ProductName     string     `json:"product_name"`
	DRR             float64    `json:"drr"`
	CurrentInv      int        `json:"current_inv"`
	DaysOnHand      float64    `json:"days_on_hand"`
	ForecastDate    *time.Time `json:"forecast_date"`
	Status          RiskStatus `json:"status"`
	FacilityCount   int        `json:"facility_count"`
	OpportunityLoss float64    `json:"opportunity_loss"`
	RevenueAtRisk   float64    `json:"revenue_at_risk"`
}

// InsightKPIs are the roll-up numbers shown above the risk table.
type InsightKPIs struct {
	CriticalCount        int     `json:"critical_count"`
	AvgDaysOnHand        float64 `json:"avg_days_on_hand"`
	TotalOpportunityLoss float64 `json:"total_opportunity_loss"`
}

// NuclearInsights is the ranked risk table plus its KPIs.
type NuclearInsights struct {
	Items []RiskRecord `json:"items"`
	KPIs  InsightKPIs  `json:"kpis"`
}

// FacilityProduct is one row of a facility's top products list.
type FacilityProduct struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Qty         int    `json:"qty"`
	BackendQty  int    `json:"backend_qty"`
	FrontendQty int    `json:"frontend_qty"`
}

// FacilityReport summarizes inventory held at one facility.
type FacilityReport struct {
	FacilityID  string            `json:"facility_id"`
	TotalQty    int               `json:"total_qty"`
	BackendQty  int               `json:"backend_qty"`
	FrontendQty int               `json:"frontend_qty"`
	SKUCount    int               `json:"sku_count"`
	TopProducts []FacilityProduct `json:"top_products"`
}

// PairResult carries the outcome of one pair in a multi-pair rollup.
// Exactly one of Insights and Err is set.
type PairResult struct {
	Pair     Pair             `json:"pair"`
	Insights *NuclearInsights `json:"insights,omitempty"`
	Err      error            `json:"-"`
}
