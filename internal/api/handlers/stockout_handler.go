package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const maxDashboardPairs = 50

// StockoutService is what the handler needs from the service layer.
type StockoutService interface {
	ComputeStockoutRisk(ctx context.Context, platform, brand string) ([]domain.RiskRecord, error)
	ComputeNuclearInsights(ctx context.Context, platform, brand string) (*domain.NuclearInsights, error)
	ComputeFacilityBreakdown(ctx context.Context, platform, brand, nameFilter string) ([]domain.FacilityReport, error)
	ComputeDashboard(ctx context.Context, pairs []domain.Pair) []domain.PairResult
}

type StockoutHandler struct {
	service StockoutService
}

func NewStockoutHandler(service StockoutService) *StockoutHandler {
	return &StockoutHandler{service: service}
}

// GetRisk handles GET /stockout/:platform/:brand/risk
func (h *StockoutHandler) GetRisk(c *gin.Context) {
	records, err := h.service.ComputeStockoutRisk(c.Request.Context(), c.Param("platform"), c.Param("brand"))
	if err != nil {
		writeError(c, "Failed to compute stockout risk", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}

// GetInsights handles GET /stockout/:platform/:brand/insights
func (h *StockoutHandler) GetInsights(c *gin.Context) {
	insights, err := h.service.ComputeNuclearInsights(c.Request.Context(), c.Param("platform"), c.Param("brand"))
	if err != nil {
		writeError(c, "Failed to compute insights", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": insights})
}

// GetFacilities handles GET /stockout/:platform/:brand/facilities?name=
func (h *StockoutHandler) GetFacilities(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	reports, err := h.service.ComputeFacilityBreakdown(c.Request.Context(), c.Param("platform"), c.Param("brand"), name)
	if err != nil {
		writeError(c, "Failed to compute facility breakdown", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reports, "filter": name})
}

type dashboardEntry struct {
	Platform string                  `json:"platform"`
	Brand    string                  `json:"brand"`
	Insights *domain.NuclearInsights `json:"insights,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

// GetDashboard handles GET /stockout/dashboard?pairs=platform:brand,...
// Accepts repeated or comma-separated pairs.
func (h *StockoutHandler) GetDashboard(c *gin.Context) {
	pairs, err := domain.ParsePairs(strings.Join(c.QueryArray("pairs"), ","))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pairs parameter", "details": err.Error()})
		return
	}
	if len(pairs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pairs parameter is required"})
		return
	}
	if len(pairs) > maxDashboardPairs {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Too many pairs requested"})
		return
	}

	results := h.service.ComputeDashboard(c.Request.Context(), pairs)

	entries := make([]dashboardEntry, len(results))
	failed := 0
	for i, r := range results {
		entries[i] = dashboardEntry{Platform: r.Pair.Platform, Brand: r.Pair.Brand, Insights: r.Insights}
		if r.Err != nil {
			entries[i].Error = r.Err.Error()
			failed++
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": entries, "failed": failed})
}

func writeError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidPair):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownPlatform):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrProviderFailure):
		status = http.StatusBadGateway
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Int("status", status).Msg(message)
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}
