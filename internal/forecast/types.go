package forecast

import (
	"fmt"
	"math"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
)

// Weights blends the 7/14/30-day run rates into the weighted DRR.
type Weights struct {
	W7  float64
	W14 float64
	W30 float64
}

// DefaultWeights returns 0.6/0.3/0.1.
func DefaultWeights() Weights {
	return Weights{W7: 0.6, W14: 0.3, W30: 0.1}
}

// Config holds the tunables of the forecasting engine.
type Config struct {
	Weights Weights

	// UnitValueFactor converts lost units into a monetary proxy.
	UnitValueFactor float64

	CriticalDays float64 // days_on_hand below this is Critical
	WatchDays    float64 // days_on_hand below this is Watch
	HorizonDays  float64 // opportunity loss horizon
	SentinelDays float64 // days_on_hand reported for stocked, never-sold products

	TopN int // top products listed per facility

	// ClassifyInactive reports zero-velocity products as Inactive instead of
	// deriving their tier from the sentinel days_on_hand.
	ClassifyInactive bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Weights:         DefaultWeights(),
		UnitValueFactor: 1.5,
		CriticalDays:    7,
		WatchDays:       21,
		HorizonDays:     7,
		SentinelDays:    999,
		TopN:            5,
	}
}

const weightTolerance = 1e-9

// Validate checks that the weights form a convex combination and all
// thresholds are usable.
func (c Config) Validate() error {
	w := c.Weights
	if w.W7 < 0 || w.W14 < 0 || w.W30 < 0 {
		return fmt.Errorf("%w: velocity weights must be non-negative", domain.ErrInvalidConfig)
	}
	if sum := w.W7 + w.W14 + w.W30; math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: velocity weights sum to %v, want 1", domain.ErrInvalidConfig, sum)
	}
	if c.UnitValueFactor < 0 || math.IsNaN(c.UnitValueFactor) {
		return fmt.Errorf("%w: unit value factor must be non-negative", domain.ErrInvalidConfig)
	}
	if c.CriticalDays <= 0 || c.WatchDays < c.CriticalDays {
		return fmt.Errorf("%w: need 0 < critical_days <= watch_days", domain.ErrInvalidConfig)
	}
	if c.HorizonDays <= 0 || c.SentinelDays <= 0 {
		return fmt.Errorf("%w: horizon and sentinel days must be positive", domain.ErrInvalidConfig)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive", domain.ErrInvalidConfig)
	}
	return nil
}
