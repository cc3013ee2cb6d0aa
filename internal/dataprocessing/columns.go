package dataprocessing

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"bidcompare/internal/tabular"
	"bidcompare/pkg/contracts/domain"
)

// Field identifies a canonical line item column
type Field int

const (
	FieldItemCode Field = iota
	FieldDescription
	FieldUnit
	FieldQuantity
	FieldUnitPrice
	FieldTotalPrice
	FieldClassificationCode
	fieldCount
)

// ColumnCandidates lists accepted header names per field, in priority order.
// Only the first four fields fall back to a positional column.
var ColumnCandidates = []struct {
	Field      Field
	Aliases    []string
	Positional bool
}{
	{FieldItemCode, []string{"postnr"}, true},
	{FieldDescription, []string{"beskrivelse", "description"}, true},
	{FieldUnit, []string{"enhet", "unit"}, true},
	{FieldQuantity, []string{"mengde", "qty"}, true},
	{FieldUnitPrice, []string{"pris", "unit_price"}, false},
	{FieldTotalPrice, []string{"sum", "sum_amount"}, false},
	{FieldClassificationCode, []string{"kode", "nskode", "ns_code", "code"}, false},
}

// ColumnMapping is a field to column index mapping resolved once per table.
// Absent fields map to -1.
type ColumnMapping [fieldCount]int

// Has reports whether the field has a column
func (m ColumnMapping) Has(f Field) bool {
	return m[f] >= 0
}

// ResolveColumns maps header names onto canonical fields. Matching is
// case-insensitive. When no alias matches, the first four fields take the
// column at their own position, or reuse the previous field's column when
// the table is too narrow.
func ResolveColumns(header []string) ColumnMapping {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[normalizeHeader(h)] = i
	}

	var m ColumnMapping
	for i := range m {
		m[i] = -1
	}
	if len(header) == 0 {
		return m
	}

	for _, candidate := range ColumnCandidates {
		idx := -1
		for _, alias := range candidate.Aliases {
			if col, ok := byName[alias]; ok {
				idx = col
				break
			}
		}
		if idx < 0 && candidate.Positional {
			pos := int(candidate.Field)
			if pos < len(header) {
				idx = pos
			} else {
				idx = m[pos-1]
			}
		}
		m[candidate.Field] = idx
	}
	return m
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(h)))
}

// NormalizeTable converts a decoded table into canonical line items. Blank
// rows are skipped. Tabular sources have no option concept.
func NormalizeTable(table *tabular.Table) []domain.LineItem {
	if table == nil {
		return nil
	}
	m := ResolveColumns(table.Header)

	items := make([]domain.LineItem, 0, len(table.Rows))
	for _, row := range table.Rows {
		items = append(items, normalizeRow(row, m))
	}
	return items
}

func normalizeRow(row []string, m ColumnMapping) domain.LineItem {
	cell := func(f Field) string {
		return tabular.Cell(row, m[f])
	}

	item := domain.LineItem{
		ItemCode:           strings.TrimSpace(cell(FieldItemCode)),
		Description:        cell(FieldDescription),
		Unit:               cell(FieldUnit),
		Quantity:           ParseNumber(cell(FieldQuantity)),
		ClassificationCode: cell(FieldClassificationCode),
	}
	item.Specification = item.Description
	item.ChapterCode = chapterOf(item.ItemCode)

	if m.Has(FieldUnitPrice) {
		item.UnitPrice = domain.Float(ParseNumber(cell(FieldUnitPrice)))
	}

	if m.Has(FieldTotalPrice) {
		item.TotalPrice = ParseNumber(cell(FieldTotalPrice))
	} else {
		item.TotalPrice = finite(item.Quantity * item.UnitPrice.Or(0))
	}
	return item
}

// chapterOf returns the first two characters of an item code, or "00" for
// shorter codes
func chapterOf(code string) string {
	runes := []rune(strings.TrimSpace(code))
	if len(runes) < 2 {
		return "00"
	}
	return string(runes[:2])
}
