// internal/repository/paginate.go
package repository

import (
	"context"
	"errors"
	"fmt"
)

const DefaultPageSize = 1000

// ErrPageLimit is returned when a source keeps producing pages past the
// configured maximum.
var ErrPageLimit = errors.New("page limit exceeded")

// PageFunc fetches one page of at most limit rows starting at offset.
type PageFunc[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// Paginate calls fetch until it returns an empty page and concatenates the
// results. maxPages <= 0 means no limit.
func Paginate[T any](ctx context.Context, pageSize, maxPages int, fetch PageFunc[T]) ([]T, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var out []T
	for page := 0; ; page++ {
		if maxPages > 0 && page >= maxPages {
			return nil, fmt.Errorf("%w: stopped after %d pages of %d rows", ErrPageLimit, maxPages, pageSize)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := fetch(ctx, pageSize, page*pageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		if len(rows) == 0 {
			return out, nil
		}
		out = append(out, rows...)
	}
}
