package mapping

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/qcomm-stockout/internal/domain"
	"github.com/rs/zerolog"
)

// Row is one raw record keyed by source column name.
type Row map[string]string

// Decoder converts raw rows into canonical records. It never fails on a
// single bad value: numbers that cannot be used become zero and rows that
// cannot be placed in time are skipped, both with a warning.
type Decoder struct {
	m   FieldMap
	log zerolog.Logger
}

// NewDecoder creates a decoder for one platform's field map.
func NewDecoder(m FieldMap, log zerolog.Logger) *Decoder {
	return &Decoder{
		m:   m,
		log: log.With().Str("platform", m.Platform).Logger(),
	}
}

// Sales decodes a sales row. ok is false when the row must be skipped.
func (d *Decoder) Sales(row Row) (domain.SalesRecord, bool) {
	get := func(f Field) string { return cell(row, d.m.Sales[f]) }

	rec := domain.SalesRecord{
		ProductID:   get(FieldProductID),
		ProductName: get(FieldProductName),
		Location:    get(FieldLocation),
	}
	if rec.ProductID == "" {
		d.log.Warn().Str("field", string(FieldProductID)).Msg("sales row without product id skipped")
		return domain.SalesRecord{}, false
	}

	date, ok := d.date(get(FieldDate))
	if !ok {
		d.log.Warn().Str("product_id", rec.ProductID).Str("field", string(FieldDate)).
			Str("value", get(FieldDate)).Msg("sales row with unparseable date skipped")
		return domain.SalesRecord{}, false
	}
	rec.Date = date
	rec.QtySold = d.quantity(rec.ProductID, FieldQtySold, get(FieldQtySold))
	rec.UnitPrice = d.number(rec.ProductID, FieldUnitPrice, get(FieldUnitPrice))

	return rec, true
}

// Inventory decodes an inventory row. ok is false when the row must be skipped.
func (d *Decoder) Inventory(row Row) (domain.InventorySnapshot, bool) {
	get := func(f Field) string { return cell(row, d.m.Inventory[f]) }

	rec := domain.InventorySnapshot{
		ProductID:   get(FieldProductID),
		ProductName: get(FieldProductName),
		FacilityID:  get(FieldFacilityID),
		City:        get(FieldCity),
	}
	if rec.ProductID == "" {
		d.log.Warn().Str("field", string(FieldProductID)).Msg("inventory row without product id skipped")
		return domain.InventorySnapshot{}, false
	}

	date, ok := d.date(get(FieldSnapshotDate))
	if !ok {
		d.log.Warn().Str("product_id", rec.ProductID).Str("field", string(FieldSnapshotDate)).
			Str("value", get(FieldSnapshotDate)).Msg("inventory row with unparseable date skipped")
		return domain.InventorySnapshot{}, false
	}
	rec.SnapshotDate = date
	rec.BackendQty = d.quantity(rec.ProductID, FieldBackendQty, get(FieldBackendQty))
	rec.FrontendQty = d.quantity(rec.ProductID, FieldFrontendQty, get(FieldFrontendQty))

	return rec, true
}

func cell(row Row, source string) string {
	if source == "" {
		return ""
	}
	return strings.TrimSpace(row[source])
}

func (d *Decoder) date(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	layouts := d.m.DateLayouts
	if len(layouts) == 0 {
		layouts = defaultDateLayouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// number parses a non-negative amount, coercing anything unusable to zero.
// An empty cell is a legitimate zero and is not reported.
func (d *Decoder) number(productID string, f Field, raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := ParseNumber(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		d.log.Warn().Str("product_id", productID).Str("field", string(f)).
			Str("value", raw).Msg("malformed numeric value coerced to zero")
		return 0
	}
	return v
}

// maxQuantity bounds unit counts; larger values are treated as malformed.
const maxQuantity = math.MaxInt32

// quantity is number rounded to the nearest whole unit.
func (d *Decoder) quantity(productID string, f Field, raw string) int {
	v := math.Round(d.number(productID, f, raw))
	if v > maxQuantity {
		d.log.Warn().Str("product_id", productID).Str("field", string(f)).
			Str("value", raw).Msg("out of range quantity coerced to zero")
		return 0
	}
	return int(v)
}

var numberSanitizer = strings.NewReplacer(",", "", " ", "", "_", "")

// ParseNumber parses a number written with optional thousands separators.
func ParseNumber(raw string) (float64, error) {
	return strconv.ParseFloat(numberSanitizer.Replace(strings.TrimSpace(raw)), 64)
}
