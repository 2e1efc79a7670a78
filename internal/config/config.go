// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/andresuchdata/qcomm-stockout/internal/forecast"
	"github.com/andresuchdata/qcomm-stockout/internal/mapping"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Sources   SourcesConfig
	Forecast  ForecastConfig
	Log       LogConfig
	Platforms map[string]mapping.FieldMap
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL                  string
	Host                 string
	Port                 string
	User                 string
	Password             string
	DBName               string
	SSLMode              string
	PageSize             int
	MaxPages             int
	MaxConcurrentQueries int64
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	ScanBatchSize int64
	InsightsTTL   int
}

// SourcesConfig selects where inventory snapshots are read from:
// "postgres" (default) or "redis".
type SourcesConfig struct {
	Inventory string
}

type ForecastConfig struct {
	UnitValueFactor  float64
	LookbackDays     int
	TopN             int
	CriticalDays     float64
	WatchDays        float64
	HorizonDays      float64
	SentinelDays     float64
	Weight7D         float64
	Weight14D        float64
	Weight30D        float64
	ClassifyInactive bool
	MaxConcurrent    int
}

type LogConfig struct {
	Level  string
	Format string
}

var (
	once     sync.Once
	instance *Config
	loadErr  error
)

// Load reads configuration once from the environment, an optional .env file
// and an optional CONFIG_FILE carrying per-platform field maps.
func Load() (*Config, error) {
	once.Do(func() {
		instance, loadErr = load(viper.GetViper())
	})
	return instance, loadErr
}

func load(v *viper.Viper) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			URL:                  v.GetString("DATABASE_URL"),
			Host:                 v.GetString("DB_HOST"),
			Port:                 v.GetString("DB_PORT"),
			User:                 v.GetString("DB_USER"),
			Password:             v.GetString("DB_PASSWORD"),
			DBName:               v.GetString("DB_NAME"),
			SSLMode:              v.GetString("DB_SSLMODE"),
			PageSize:             v.GetInt("DB_PAGE_SIZE"),
			MaxPages:             v.GetInt("DB_MAX_PAGES"),
			MaxConcurrentQueries: v.GetInt64("DB_MAX_CONCURRENT_QUERIES"),
		},
		Cache: CacheConfig{
			Enabled:       v.GetBool("CACHE_ENABLED"),
			RedisURL:      v.GetString("REDIS_URL"),
			RedisHost:     v.GetString("REDIS_HOST"),
			RedisPort:     v.GetString("REDIS_PORT"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
			ScanBatchSize: v.GetInt64("REDIS_SCAN_BATCH_SIZE"),
			InsightsTTL:   v.GetInt("CACHE_INSIGHTS_TTL_SECONDS"),
		},
		Sources: SourcesConfig{
			Inventory: strings.ToLower(v.GetString("INVENTORY_SOURCE")),
		},
		Forecast: ForecastConfig{
			UnitValueFactor:  v.GetFloat64("FORECAST_UNIT_VALUE_FACTOR"),
			LookbackDays:     v.GetInt("FORECAST_LOOKBACK_DAYS"),
			TopN:             v.GetInt("FORECAST_TOP_N"),
			CriticalDays:     v.GetFloat64("FORECAST_CRITICAL_DAYS"),
			WatchDays:        v.GetFloat64("FORECAST_WATCH_DAYS"),
			HorizonDays:      v.GetFloat64("FORECAST_HORIZON_DAYS"),
			SentinelDays:     v.GetFloat64("FORECAST_SENTINEL_DAYS"),
			Weight7D:         v.GetFloat64("FORECAST_WEIGHT_7D"),
			Weight14D:        v.GetFloat64("FORECAST_WEIGHT_14D"),
			Weight30D:        v.GetFloat64("FORECAST_WEIGHT_30D"),
			ClassifyInactive: v.GetBool("FORECAST_CLASSIFY_INACTIVE"),
			MaxConcurrent:    v.GetInt("FORECAST_MAX_CONCURRENT_PAIRS"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := v.UnmarshalKey("platforms", &cfg.Platforms); err != nil {
			return nil, fmt.Errorf("decode platform field maps: %w", err)
		}
	}

	switch cfg.Sources.Inventory {
	case "postgres", "redis":
	default:
		return nil, fmt.Errorf("%w: unknown inventory source %q", domain.ErrInvalidConfig, cfg.Sources.Inventory)
	}
	if err := cfg.Forecast.Engine().Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "qcomm")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_PAGE_SIZE", 5000)
	v.SetDefault("DB_MAX_PAGES", 0)
	v.SetDefault("DB_MAX_CONCURRENT_QUERIES", 10)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_SCAN_BATCH_SIZE", 500)
	v.SetDefault("CACHE_INSIGHTS_TTL_SECONDS", 60)
	v.SetDefault("INVENTORY_SOURCE", "postgres")

	def := forecast.DefaultConfig()
	v.SetDefault("FORECAST_UNIT_VALUE_FACTOR", def.UnitValueFactor)
	v.SetDefault("FORECAST_LOOKBACK_DAYS", 60)
	v.SetDefault("FORECAST_TOP_N", def.TopN)
	v.SetDefault("FORECAST_CRITICAL_DAYS", def.CriticalDays)
	v.SetDefault("FORECAST_WATCH_DAYS", def.WatchDays)
	v.SetDefault("FORECAST_HORIZON_DAYS", def.HorizonDays)
	v.SetDefault("FORECAST_SENTINEL_DAYS", def.SentinelDays)
	v.SetDefault("FORECAST_WEIGHT_7D", def.Weights.W7)
	v.SetDefault("FORECAST_WEIGHT_14D", def.Weights.W14)
	v.SetDefault("FORECAST_WEIGHT_30D", def.Weights.W30)
	v.SetDefault("FORECAST_CLASSIFY_INACTIVE", false)
	v.SetDefault("FORECAST_MAX_CONCURRENT_PAIRS", 8)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("CONFIG_FILE", "")
}

// Engine converts the forecast section into engine parameters.
func (f ForecastConfig) Engine() forecast.Config {
	return forecast.Config{
		Weights: forecast.Weights{
			W7:  f.Weight7D,
			W14: f.Weight14D,
			W30: f.Weight30D,
		},
		UnitValueFactor:  f.UnitValueFactor,
		CriticalDays:     f.CriticalDays,
		WatchDays:        f.WatchDays,
		HorizonDays:      f.HorizonDays,
		SentinelDays:     f.SentinelDays,
		TopN:             f.TopN,
		ClassifyInactive: f.ClassifyInactive,
	}
}
