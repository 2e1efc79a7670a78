package forecast

import (
	"time"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/rs/zerolog"
)

// Trailing windows used for the daily run rates, in days.
const (
	window7  = 7
	window14 = 14
	window30 = 30
)

// VelocityCalculator turns sales records into recency-weighted run rates.
type VelocityCalculator struct {
	weights Weights
	log     zerolog.Logger
}

// NewVelocityCalculator creates a velocity calculator.
func NewVelocityCalculator(weights Weights, log zerolog.Logger) *VelocityCalculator {
	return &VelocityCalculator{weights: weights, log: log}
}

type salesAccumulator struct {
	name     string
	nameDate time.Time
	sum7     int
	sum14    int
	sum30    int
	priced   int     // units sold with a known price
	revenue  float64 // sum of qty*price over priced units
}

// Calculate groups sales by product and computes 7/14/30-day run rates
// anchored on now. Records outside the 30-day window still register the
// product so it gets a (zero) profile.
func (vc *VelocityCalculator) Calculate(now time.Time, sales []domain.SalesRecord) map[string]domain.VelocityProfile {
	acc := make(map[string]*salesAccumulator)

	for _, rec := range sales {
		if rec.ProductID == "" {
			vc.log.Warn().Str("product_name", rec.ProductName).Msg("sales record without product id skipped")
			continue
		}

		a, ok := acc[rec.ProductID]
		if !ok {
			a = &salesAccumulator{}
			acc[rec.ProductID] = a
		}
		if rec.ProductName != "" && (a.name == "" || rec.Date.After(a.nameDate)) {
			a.name = rec.ProductName
			a.nameDate = rec.Date
		}

		qty := rec.QtySold
		if qty < 0 {
			vc.log.Warn().Str("product_id", rec.ProductID).Str("field", "qty_sold").
				Int("value", qty).Msg("negative quantity coerced to zero")
			qty = 0
		}

		age := dayAge(now, rec.Date)
		if age < 0 {
			vc.log.Debug().Str("product_id", rec.ProductID).Time("date", rec.Date).
				Msg("sales record dated after anchor ignored")
			continue
		}
		if age < window7 {
			a.sum7 += qty
		}
		if age < window14 {
			a.sum14 += qty
		}
		if age < window30 {
			a.sum30 += qty
		}

		price := rec.UnitPrice
		if !validNonNegative(price) {
			vc.log.Warn().Str("product_id", rec.ProductID).Str("field", "unit_price").
				Float64("value", price).Msg("invalid unit price coerced to zero")
			price = 0
		}
		if price > 0 && qty > 0 && age < window30 {
			a.priced += qty
			a.revenue += float64(qty) * price
		}
	}

	profiles := make(map[string]domain.VelocityProfile, len(acc))
	for id, a := range acc {
		p := domain.VelocityProfile{
			ProductID:   id,
			ProductName: a.name,
			DRR7:        float64(a.sum7) / window7,
			DRR14:       float64(a.sum14) / window14,
			DRR30:       float64(a.sum30) / window30,
		}
		p.WeightedDRR = vc.Weighted(p.DRR7, p.DRR14, p.DRR30)
		if a.priced > 0 {
			p.AvgUnitPrice = a.revenue / float64(a.priced)
		}
		profiles[id] = p
	}

	return profiles
}

// Weighted blends the three run rates using the configured weights.
func (vc *VelocityCalculator) Weighted(drr7, drr14, drr30 float64) float64 {
	w := vc.weights.W7*drr7 + vc.weights.W14*drr14 + vc.weights.W30*drr30
	if w < 0 {
		return 0
	}
	return w
}
