package domain

import "strings"

// RiskStatus is the stockout risk tier of a product.
type RiskStatus string

const (
	StatusCritical RiskStatus = "Critical"
	StatusWatch    RiskStatus = "Watch"
	StatusHealthy  RiskStatus = "Healthy"
	// StatusInactive is only produced when inactive classification is enabled.
	StatusInactive RiskStatus = "Inactive"
)

var riskStatuses = map[string]RiskStatus{
	"critical": StatusCritical,
	"watch":    StatusWatch,
	"healthy":  StatusHealthy,
	"inactive": StatusInactive,
}

// ParseRiskStatus returns the status for a given label (case-insensitive).
func ParseRiskStatus(label string) (RiskStatus, bool) {
	s, ok := riskStatuses[strings.ToLower(strings.TrimSpace(label))]

	return s, ok
}
