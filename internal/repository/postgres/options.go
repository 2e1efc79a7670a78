// internal/repository/postgres/options.go
package postgres

import (
	"time"

	"github.com/andresuchdata/qcomm-stockout/internal/config"
	"github.com/andresuchdata/qcomm-stockout/internal/repository"
)

// Options controls paging for the readers.
type Options struct {
	PageSize int
	MaxPages int
	Clock    func() time.Time
}

// OptionsFrom builds reader options from the database section.
func OptionsFrom(cfg *config.DatabaseConfig, clock func() time.Time) Options {
	return Options{PageSize: cfg.PageSize, MaxPages: cfg.MaxPages, Clock: clock}
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = repository.DefaultPageSize
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}
