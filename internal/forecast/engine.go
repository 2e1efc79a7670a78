package forecast

import (
	"time"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/rs/zerolog"
)

// Engine runs the compute stages over one pair's immutable inputs.
// It holds no state between calls.
type Engine struct {
	velocity   *VelocityCalculator
	positions  *PositionAggregator
	classifier *RiskClassifier
	facilities *FacilityReporter
}

// NewEngine wires the stages from cfg. Diagnostics go to log.
func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	return &Engine{
		velocity:   NewVelocityCalculator(cfg.Weights, log),
		positions:  NewPositionAggregator(log),
		classifier: NewRiskClassifier(cfg),
		facilities: NewFacilityReporter(cfg.TopN),
	}
}

// StockoutRisk returns the ranked risk records. When either input is empty the
// pair has no usable data and the report is empty. A non-empty sales set
// still yields zero-velocity profiles for stocked products it does not
// mention, so a single out-of-window sale is enough to list dead stock.
func (e *Engine) StockoutRisk(now time.Time, sales []domain.SalesRecord, inventory []domain.InventorySnapshot) []domain.RiskRecord {
	if len(sales) == 0 || len(inventory) == 0 {
		return []domain.RiskRecord{}
	}
	profiles := e.velocity.Calculate(now, sales)
	positions := e.positions.Aggregate(inventory)
	return e.classifier.Classify(now, profiles, positions)
}

// NuclearInsights returns the ranked risk records with their KPIs.
func (e *Engine) NuclearInsights(now time.Time, sales []domain.SalesRecord, inventory []domain.InventorySnapshot) domain.NuclearInsights {
	items := e.StockoutRisk(now, sales, inventory)
	return domain.NuclearInsights{
		Items: items,
		KPIs:  Summarize(items),
	}
}

// FacilityBreakdown returns per-facility summaries, optionally filtered by product name.
func (e *Engine) FacilityBreakdown(inventory []domain.InventorySnapshot, nameFilter string) []domain.FacilityReport {
	positions := e.positions.Aggregate(inventory)
	return e.facilities.Report(positions, inventory, nameFilter)
}
