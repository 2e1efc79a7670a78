package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubService struct {
	risk       []domain.RiskRecord
	insights   *domain.NuclearInsights
	facilities []domain.FacilityReport
	err        error

	gotPlatform, gotBrand, gotName string
	gotPairs                       []domain.Pair
}

func (s *stubService) ComputeStockoutRisk(_ context.Context, platform, brand string) ([]domain.RiskRecord, error) {
	s.gotPlatform, s.gotBrand = platform, brand
	return s.risk, s.err
}

func (s *stubService) ComputeNuclearInsights(_ context.Context, platform, brand string) (*domain.NuclearInsights, error) {
	s.gotPlatform, s.gotBrand = platform, brand
	return s.insights, s.err
}

func (s *stubService) ComputeFacilityBreakdown(_ context.Context, platform, brand, name string) ([]domain.FacilityReport, error) {
	s.gotPlatform, s.gotBrand, s.gotName = platform, brand, name
	return s.facilities, s.err
}

func (s *stubService) ComputeDashboard(_ context.Context, pairs []domain.Pair) []domain.PairResult {
	s.gotPairs = pairs
	out := make([]domain.PairResult, len(pairs))
	for i, p := range pairs {
		out[i].Pair = p
		if p.Brand == "broken" {
			out[i].Err = &domain.ProviderError{Source: "sales", Pair: p, Err: errors.New("timeout")}
			continue
		}
		out[i].Insights = &domain.NuclearInsights{Items: []domain.RiskRecord{}, KPIs: domain.InsightKPIs{CriticalCount: i}}
	}
	return out
}

func serve(t *testing.T, svc *stubService, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	router := NewRouter(&Services{Stockout: svc}, []string{"*"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealth(t *testing.T) {
	rec, body := serve(t, &stubService{}, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestGetRisk(t *testing.T) {
	svc := &stubService{risk: []domain.RiskRecord{{ProductID: "A", Status: domain.StatusCritical, DaysOnHand: 5}}}

	rec, body := serve(t, svc, "/api/v1/stockout/blinkit/acme/risk")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "blinkit", svc.gotPlatform)
	assert.Equal(t, "acme", svc.gotBrand)

	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Critical", data[0].(map[string]any)["status"])
}

func TestGetFacilitiesPassesFilter(t *testing.T) {
	svc := &stubService{facilities: []domain.FacilityReport{{FacilityID: "FH-01", TotalQty: 10}}}

	rec, body := serve(t, svc, "/api/v1/stockout/zepto/acme/facilities?name=+chips+")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chips", svc.gotName)
	assert.Equal(t, "chips", body["filter"])
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid pair", err: domain.ErrInvalidPair, want: http.StatusBadRequest},
		{name: "unknown platform", err: &domain.ProviderError{Source: "sales", Err: domain.ErrUnknownPlatform}, want: http.StatusNotFound},
		{name: "provider", err: &domain.ProviderError{Source: "inventory", Err: errors.New("eof")}, want: http.StatusBadGateway},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serve(t, &stubService{err: tt.err}, "/api/v1/stockout/blinkit/acme/insights")
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "Failed to compute insights", body["error"])
			assert.NotEmpty(t, body["details"])
		})
	}
}

func TestGetDashboard(t *testing.T) {
	svc := &stubService{}

	rec, body := serve(t, svc, "/api/v1/stockout/dashboard?pairs=blinkit:acme,zepto:broken&pairs=instamart:acme")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []domain.Pair{
		{Platform: "blinkit", Brand: "acme"},
		{Platform: "zepto", Brand: "broken"},
		{Platform: "instamart", Brand: "acme"},
	}, svc.gotPairs)

	assert.EqualValues(t, 1, body["failed"])
	data := body["data"].([]any)
	require.Len(t, data, 3)

	broken := data[1].(map[string]any)
	assert.Contains(t, broken["error"], "timeout")
	assert.NotContains(t, broken, "insights")

	ok := data[2].(map[string]any)
	assert.NotContains(t, ok, "error")
	assert.Contains(t, ok, "insights")
}

func TestGetDashboardRejectsBadPairs(t *testing.T) {
	for _, target := range []string{
		"/api/v1/stockout/dashboard",
		"/api/v1/stockout/dashboard?pairs=blinkit",
	} {
		rec, _ := serve(t, &stubService{}, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, all := normalizeAllowedOrigins([]string{"https://a.example, https://b.example", ""})
	assert.False(t, all)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, origins)

	_, all = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, all)
}
