package forecast

import (
	"sort"
	"time"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
)

// RiskClassifier combines velocity and stock position into stockout risk.
type RiskClassifier struct {
	cfg Config
}

// NewRiskClassifier creates a risk classifier.
func NewRiskClassifier(cfg Config) *RiskClassifier {
	return &RiskClassifier{cfg: cfg}
}

// Classify outer-joins profiles and positions and evaluates every product
// present on either side. A missing side counts as zero. The result is ranked
// by days on hand, then opportunity loss, then product id.
func (rc *RiskClassifier) Classify(
	now time.Time,
	profiles map[string]domain.VelocityProfile,
	positions map[string]domain.StockPosition,
) []domain.RiskRecord {
	ids := make(map[string]struct{}, len(profiles)+len(positions))
	for id := range profiles {
		ids[id] = struct{}{}
	}
	for id := range positions {
		ids[id] = struct{}{}
	}

	records := make([]domain.RiskRecord, 0, len(ids))
	for id := range ids {
		profile, ok := profiles[id]
		if !ok {
			profile = domain.VelocityProfile{ProductID: id}
		}
		position, ok := positions[id]
		if !ok {
			position = domain.StockPosition{ProductID: id}
		}
		records = append(records, rc.Evaluate(now, profile, position))
	}

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.DaysOnHand != b.DaysOnHand {
			return a.DaysOnHand < b.DaysOnHand
		}
		if a.OpportunityLoss != b.OpportunityLoss {
			return a.OpportunityLoss > b.OpportunityLoss
		}
		return a.ProductID < b.ProductID
	})

	return records
}

// Evaluate computes the risk record of a single product.
func (rc *RiskClassifier) Evaluate(now time.Time, profile domain.VelocityProfile, position domain.StockPosition) domain.RiskRecord {
	drr := profile.WeightedDRR
	if !validNonNegative(drr) {
		drr = 0
	}
	total := position.TotalQty
	if total < 0 {
		total = 0
	}

	rec := domain.RiskRecord{
		ProductID:     position.ProductID,
		ProductName:   position.ProductName,
		DRR:           drr,
		CurrentInv:    total,
		FacilityCount: len(position.FacilityBreakdown),
	}
	if rec.ProductID == "" {
		rec.ProductID = profile.ProductID
	}
	if rec.ProductName == "" {
		rec.ProductName = profile.ProductName
	}

	rec.DaysOnHand = rc.DaysOnHand(float64(total), drr)
	rec.Status = rc.Status(rec.DaysOnHand)
	if rc.cfg.ClassifyInactive && drr == 0 {
		rec.Status = domain.StatusInactive
	}

	if drr > 0 {
		// dates beyond the sentinel horizon are capped there
		forecast := addDays(now, min(rec.DaysOnHand, rc.cfg.SentinelDays))
		rec.ForecastDate = &forecast
	}

	if rec.DaysOnHand < rc.cfg.HorizonDays {
		lostUnits := (rc.cfg.HorizonDays - rec.DaysOnHand) * drr
		rec.OpportunityLoss = lostUnits * rc.cfg.UnitValueFactor
		rec.RevenueAtRisk = lostUnits * profile.AvgUnitPrice
	}

	return rec
}

// DaysOnHand is total/drr, the sentinel for stocked products that do not
// sell, and zero when there is neither stock nor velocity.
func (rc *RiskClassifier) DaysOnHand(total, drr float64) float64 {
	if drr > 0 {
		return total / drr
	}
	if total > 0 {
		return rc.cfg.SentinelDays
	}
	return 0
}

// Status maps days on hand to a risk tier.
func (rc *RiskClassifier) Status(daysOnHand float64) domain.RiskStatus {
	switch {
	case daysOnHand < rc.cfg.CriticalDays:
		return domain.StatusCritical
	case daysOnHand < rc.cfg.WatchDays:
		return domain.StatusWatch
	default:
		return domain.StatusHealthy
	}
}

// Summarize computes the roll-up KPIs of a classified report.
func Summarize(records []domain.RiskRecord) domain.InsightKPIs {
	var kpis domain.InsightKPIs
	if len(records) == 0 {
		return kpis
	}

	var sumDOH float64
	for _, r := range records {
		if r.Status == domain.StatusCritical {
			kpis.CriticalCount++
		}
		sumDOH += r.DaysOnHand
		kpis.TotalOpportunityLoss += r.OpportunityLoss
	}
	kpis.AvgDaysOnHand = sumDOH / float64(len(records))

	return kpis
}
