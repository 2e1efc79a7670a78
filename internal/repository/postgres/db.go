// internal/repository/postgres/db.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/qcomm-stockout/internal/config"
	"github.com/andresuchdata/qcomm-stockout/internal/mapping"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/sync/semaphore"
)

const defaultMaxConcurrentQueries = 10

type DB struct {
	*sqlx.DB
	sem *semaphore.Weighted
}

// NewDB creates a new database connection pool. A DATABASE_URL is opened
// through pgx; otherwise the discrete host settings go through lib/pq.
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	if cfg.URL != "" {
		return OpenURL(cfg.URL, cfg.MaxConcurrentQueries)
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return wrap(db, cfg.MaxConcurrentQueries), nil
}

// OpenURL connects using a postgres:// URL via the pgx stdlib driver.
func OpenURL(url string, maxConcurrent int64) (*DB, error) {
	db, err := sqlx.Connect("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return wrap(db, maxConcurrent), nil
}

func wrap(db *sqlx.DB, maxConcurrent int64) *DB {
	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentQueries
	}
	return &DB{
		DB:  db,
		sem: semaphore.NewWeighted(maxConcurrent),
	}
}

// QueryRows runs a query whose columns are all text and returns each row
// keyed by column name. NULLs become empty strings.
func (db *DB) QueryRows(ctx context.Context, query string, args ...any) ([]mapping.Row, error) {
	if err := db.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("could not acquire semaphore: %w", err)
	}
	defer db.sem.Release(1)

	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []mapping.Row
	for rows.Next() {
		raw := make(map[string]any)
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, textRow(raw))
	}
	return out, rows.Err()
}

func textRow(raw map[string]any) mapping.Row {
	row := make(mapping.Row, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			row[k] = ""
		case []byte:
			row[k] = string(val)
		case string:
			row[k] = val
		default:
			row[k] = fmt.Sprint(val)
		}
	}
	return row
}
