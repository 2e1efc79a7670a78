package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/andresuchdata/qcomm-stockout/internal/forecast"
	"github.com/andresuchdata/qcomm-stockout/internal/mapping"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5000, cfg.Database.PageSize)
	assert.Equal(t, int64(10), cfg.Database.MaxConcurrentQueries)
	assert.Equal(t, 60, cfg.Forecast.LookbackDays)
	assert.Equal(t, 8, cfg.Forecast.MaxConcurrent)
	assert.Equal(t, forecast.DefaultConfig(), cfg.Forecast.Engine())
	assert.Nil(t, cfg.Platforms)
	assert.Equal(t, "postgres", cfg.Sources.Inventory)
	assert.Equal(t, 60, cfg.Cache.InsightsTTL)
	assert.False(t, cfg.Cache.Enabled, "insights are recomputed per request unless caching is enabled")
}

func TestLoadRejectsUnknownInventorySource(t *testing.T) {
	t.Setenv("INVENTORY_SOURCE", "s3")

	_, err := load(viper.New())
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FORECAST_UNIT_VALUE_FACTOR", "2.25")
	t.Setenv("FORECAST_CLASSIFY_INACTIVE", "true")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/qcomm")
	t.Setenv("INVENTORY_SOURCE", "Redis")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 2.25, cfg.Forecast.UnitValueFactor)
	assert.True(t, cfg.Forecast.Engine().ClassifyInactive)
	assert.Equal(t, "postgres://u:p@db:5432/qcomm", cfg.Database.URL)
	assert.Equal(t, "redis", cfg.Sources.Inventory)
}

func TestLoadRejectsInvalidForecast(t *testing.T) {
	t.Setenv("FORECAST_WEIGHT_7D", "0.9")

	_, err := load(viper.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoadPlatformFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "platforms.yaml")
	body := `
platforms:
  bigbasket:
    sales_table: bb_sales
    inventory_table: bb_stock
    brand_column: brand_code
    sales:
      product_id: sku
      date: sale_day
      qty_sold: units
    inventory:
      product_id: sku
      snapshot_date: as_of
      backend_qty: dc_units
    date_layouts: ["2006-01-02"]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := load(viper.New())
	require.NoError(t, err)
	require.Contains(t, cfg.Platforms, "bigbasket")

	m := cfg.Platforms["bigbasket"]
	assert.Equal(t, "bb_sales", m.SalesTable)
	assert.Equal(t, "brand_code", m.BrandColumn)
	assert.Equal(t, "sale_day", m.Sales[mapping.FieldDate])
	assert.Equal(t, "dc_units", m.Inventory[mapping.FieldBackendQty])

	reg, err := mapping.NewRegistry(cfg.Platforms)
	require.NoError(t, err)
	_, err = reg.Lookup("bigbasket")
	assert.NoError(t, err)
}

func TestLoadMissingPlatformFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := load(viper.New())
	assert.Error(t, err)
}
