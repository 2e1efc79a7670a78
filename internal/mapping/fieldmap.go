// Package mapping turns heterogeneous platform exports into canonical sales
// and inventory records using one declarative field map per platform.
package mapping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
)

// Field is a canonical record field name.
type Field string

const (
	FieldProductID    Field = "product_id"
	FieldProductName  Field = "product_name"
	FieldLocation     Field = "location"
	FieldDate         Field = "date"
	FieldQtySold      Field = "qty_sold"
	FieldUnitPrice    Field = "unit_price"
	FieldFacilityID   Field = "facility_id"
	FieldCity         Field = "city"
	FieldSnapshotDate Field = "snapshot_date"
	FieldBackendQty   Field = "backend_qty"
	FieldFrontendQty  Field = "frontend_qty"
)

// SalesFields lists the canonical sales fields in select order.
var SalesFields = []Field{FieldProductID, FieldProductName, FieldLocation, FieldDate, FieldQtySold, FieldUnitPrice}

// InventoryFields lists the canonical inventory fields in select order.
var InventoryFields = []Field{FieldProductID, FieldProductName, FieldFacilityID, FieldCity, FieldSnapshotDate, FieldBackendQty, FieldFrontendQty}

// FieldMap describes where one platform keeps each canonical field.
type FieldMap struct {
	Platform       string           `mapstructure:"platform"`
	SalesTable     string           `mapstructure:"sales_table"`
	InventoryTable string           `mapstructure:"inventory_table"`
	BrandColumn    string           `mapstructure:"brand_column"`
	Sales          map[Field]string `mapstructure:"sales"`
	Inventory      map[Field]string `mapstructure:"inventory"`
	DateLayouts    []string         `mapstructure:"date_layouts"`
	// SQLDateFormat is a Postgres to_date pattern for date columns stored as
	// text. Empty means the columns are date or timestamp typed.
	SQLDateFormat string `mapstructure:"sql_date_format"`
}

// Column pairs a canonical field with its source column.
type Column struct {
	Field  Field
	Source string
}

// SalesColumns returns the mapped sales columns in canonical order, skipping
// fields the platform does not provide.
func (m FieldMap) SalesColumns() []Column {
	return columns(m.Sales, SalesFields)
}

// InventoryColumns returns the mapped inventory columns in canonical order.
func (m FieldMap) InventoryColumns() []Column {
	return columns(m.Inventory, InventoryFields)
}

func columns(table map[Field]string, order []Field) []Column {
	cols := make([]Column, 0, len(order))
	for _, f := range order {
		if src := strings.TrimSpace(table[f]); src != "" {
			cols = append(cols, Column{Field: f, Source: src})
		}
	}
	return cols
}

// Validate checks the fields every reader needs.
func (m FieldMap) Validate() error {
	if m.Platform == "" {
		return fmt.Errorf("field map without platform")
	}
	if m.BrandColumn == "" {
		return fmt.Errorf("field map %s: brand column is required", m.Platform)
	}
	for _, f := range []Field{FieldProductID, FieldDate, FieldQtySold} {
		if m.Sales[f] == "" {
			return fmt.Errorf("field map %s: sales field %s is not mapped", m.Platform, f)
		}
	}
	for _, f := range []Field{FieldProductID, FieldSnapshotDate} {
		if m.Inventory[f] == "" {
			return fmt.Errorf("field map %s: inventory field %s is not mapped", m.Platform, f)
		}
	}
	return nil
}

var defaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07",
	"2006-01-02T15:04:05Z07:00",
	"02-01-2006",
	"02/01/2006",
}

// DefaultFieldMaps is the built-in mapping table for supported platforms.
var DefaultFieldMaps = map[string]FieldMap{
	"blinkit": {
		Platform:       "blinkit",
		SalesTable:     "blinkit_sales",
		InventoryTable: "blinkit_inventory",
		BrandColumn:    "brand",
		Sales: map[Field]string{
			FieldProductID:   "item_id",
			FieldProductName: "item_name",
			FieldLocation:    "city_name",
			FieldDate:        "order_date",
			FieldQtySold:     "qty_sold",
			FieldUnitPrice:   "selling_price",
		},
		Inventory: map[Field]string{
			FieldProductID:    "item_id",
			FieldProductName:  "item_name",
			FieldFacilityID:   "facility_name",
			FieldCity:         "city_name",
			FieldSnapshotDate: "snapshot_date",
			FieldBackendQty:   "backend_inv_qty",
			FieldFrontendQty:  "frontend_inv_qty",
		},
	},
	"zepto": {
		Platform:       "zepto",
		SalesTable:     "zepto_sales",
		InventoryTable: "zepto_inventory",
		BrandColumn:    "brand_name",
		Sales: map[Field]string{
			FieldProductID:   "sku_code",
			FieldProductName: "sku_name",
			FieldLocation:    "city",
			FieldDate:        "date",
			FieldQtySold:     "sales_qty_units",
			FieldUnitPrice:   "mrp",
		},
		Inventory: map[Field]string{
			FieldProductID:    "sku_code",
			FieldProductName:  "sku_name",
			FieldCity:         "city",
			FieldSnapshotDate: "date",
			FieldBackendQty:   "units",
		},
		DateLayouts:   []string{"02-01-2006", "2006-01-02"},
		SQLDateFormat: "DD-MM-YYYY",
	},
	"instamart": {
		Platform:       "instamart",
		SalesTable:     "instamart_sales",
		InventoryTable: "instamart_inventory",
		BrandColumn:    "brand",
		Sales: map[Field]string{
			FieldProductID:   "item_code",
			FieldProductName: "product_name",
			FieldLocation:    "area_name",
			FieldDate:        "ordered_date",
			FieldQtySold:     "units_sold",
			FieldUnitPrice:   "gmv_per_unit",
		},
		Inventory: map[Field]string{
			FieldProductID:    "item_code",
			FieldProductName:  "product_name",
			FieldFacilityID:   "pod_id",
			FieldCity:         "city",
			FieldSnapshotDate: "inventory_date",
			FieldBackendQty:   "warehouse_qty",
			FieldFrontendQty:  "pod_qty",
		},
	},
}

// Registry resolves a platform's field map.
type Registry struct {
	maps map[string]FieldMap
}

// NewRegistry builds a registry from the defaults, letting overrides replace
// whole platform entries or add new ones.
func NewRegistry(overrides map[string]FieldMap) (*Registry, error) {
	maps := make(map[string]FieldMap, len(DefaultFieldMaps)+len(overrides))
	for k, v := range DefaultFieldMaps {
		maps[k] = v
	}
	for k, v := range overrides {
		key := strings.ToLower(strings.TrimSpace(k))
		if v.Platform == "" {
			v.Platform = key
		}
		if err := v.Validate(); err != nil {
			return nil, err
		}
		maps[key] = v
	}
	return &Registry{maps: maps}, nil
}

// Lookup returns the field map for platform.
func (r *Registry) Lookup(platform string) (FieldMap, error) {
	m, ok := r.maps[strings.ToLower(strings.TrimSpace(platform))]
	if !ok {
		return FieldMap{}, fmt.Errorf("%w: %s", domain.ErrUnknownPlatform, platform)
	}
	return m, nil
}

// Platforms lists the registered platforms in alphabetical order.
func (r *Registry) Platforms() []string {
	out := make([]string, 0, len(r.maps))
	for k := range r.maps {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
