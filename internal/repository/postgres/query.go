// internal/repository/postgres/query.go
package postgres

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/qcomm-stockout/internal/mapping"
	"github.com/lib/pq"
)

// selectList renders `"src"::text AS "src"` for every mapped column so rows
// come back keyed by source column, the shape the decoder expects.
func selectList(cols []mapping.Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		id := pq.QuoteIdentifier(c.Source)
		parts[i] = fmt.Sprintf("%s::text AS %s", id, id)
	}
	return strings.Join(parts, ", ")
}

// ordinalOrder orders by every selected column so LIMIT/OFFSET pages are stable.
func ordinalOrder(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprint(i + 1)
	}
	return strings.Join(parts, ", ")
}

// dateExpr is the comparable form of a mapped date column. Text columns need
// to_date so MAX and >= compare dates rather than strings.
func dateExpr(m mapping.FieldMap, column string) string {
	id := pq.QuoteIdentifier(column)
	if m.SQLDateFormat == "" {
		return id
	}
	return fmt.Sprintf("to_date(%s, %s)", id, pq.QuoteLiteral(m.SQLDateFormat))
}

// salesQuery args: $1 brand, $2 cutoff date, $3 limit, $4 offset.
func salesQuery(m mapping.FieldMap) string {
	cols := m.SalesColumns()
	return fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		  AND %s >= $2
		ORDER BY %s
		LIMIT $3 OFFSET $4`,
		selectList(cols),
		pq.QuoteIdentifier(m.SalesTable),
		pq.QuoteIdentifier(m.BrandColumn),
		dateExpr(m, m.Sales[mapping.FieldDate]),
		ordinalOrder(len(cols)),
	)
}

// inventoryQuery args: $1 brand, $2 limit, $3 offset.
func inventoryQuery(m mapping.FieldMap) string {
	cols := m.InventoryColumns()
	table := pq.QuoteIdentifier(m.InventoryTable)
	brand := pq.QuoteIdentifier(m.BrandColumn)
	snapshot := dateExpr(m, m.Inventory[mapping.FieldSnapshotDate])
	return fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		  AND %s = (SELECT MAX(%s) FROM %s WHERE %s = $1)
		ORDER BY %s
		LIMIT $2 OFFSET $3`,
		selectList(cols),
		table,
		brand,
		snapshot, snapshot, table, brand,
		ordinalOrder(len(cols)),
	)
}
