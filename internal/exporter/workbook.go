package exporter

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"bidcompare/internal/comparison"
	"bidcompare/pkg/contracts/domain"
)

// Sheet names used by the workbooks
const (
	ComparisonSheet     = "Sammenligning"
	ChapterSheet        = "Kapittel"
	MatrixReportSheet   = "Sammenligning per post"
	ChapterReportSheet  = "Kapitteloppsummering"
	MaxSheetNameLength  = 28
	excelSheetNameLimit = 31
	fallbackSheetName   = "Tilbud"
	percentNumberFormat = 10 // 0.00%
)

// Normalized line item columns. is_option is not rendered; option rows are
// recognizable by their parenthesized prices.
var normalizedColumns = []string{
	"postnr", "beskrivelse", "enhet", "qty", "unit_price", "sum_amount",
	"kapittel", "kapittel_navn", "ns_code", "ns_title", "specification",
}

var invalidSheetChars = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// NormalizedTable renders one bid's line items. Option rows carry their
// prices as "(kr …)" text so they never add up with base prices.
func NormalizedTable(items []domain.LineItem) domain.Table {
	table := domain.Table{Columns: normalizedColumns, Rows: make([][]any, 0, len(items))}
	for _, item := range items {
		var unitPrice, total any
		switch {
		case item.IsOption:
			unitPrice = ""
			if item.UnitPrice.Valid {
				unitPrice = ParenthesizedKroner(item.UnitPrice.Value)
			}
			total = ParenthesizedKroner(item.TotalPrice)
		default:
			if item.UnitPrice.Valid {
				unitPrice = item.UnitPrice.Value
			}
			total = item.TotalPrice
		}
		table.Rows = append(table.Rows, []any{
			item.ItemCode, item.Description, item.Unit, item.Quantity, unitPrice, total,
			item.ChapterCode, item.ChapterTitle, item.ClassificationCode, item.ClassificationTitle, item.Specification,
		})
	}
	return table
}

// sheetNamer hands out valid, unique sheet names
type sheetNamer struct {
	used map[string]bool
}

func newSheetNamer(reserved ...string) *sheetNamer {
	n := &sheetNamer{used: make(map[string]bool)}
	for _, r := range reserved {
		n.used[strings.ToLower(r)] = true
	}
	return n
}

func (n *sheetNamer) name(candidate string) string {
	base := strings.TrimSpace(invalidSheetChars.Replace(candidate))
	base = strings.Trim(truncateRunes(base, MaxSheetNameLength), "' ")
	if base == "" {
		base = fallbackSheetName
	}
	name := base
	for i := 2; n.used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		trimmed := truncateRunes(base, excelSheetNameLimit-utf8.RuneCountInString(suffix))
		name = strings.TrimRight(trimmed, " ") + suffix
	}
	n.used[strings.ToLower(name)] = true
	return name
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

// ReportWorkbook builds the full report: one sheet per provider with its
// normalized rows, then the comparison matrix and the chapter table, both
// without SUM rows.
func ReportWorkbook(result *domain.ComparisonResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	w := &workbook{file: f, first: f.GetSheetName(0)}
	namer := newSheetNamer(ComparisonSheet, ChapterSheet)
	for _, bid := range result.Bids {
		if err := w.writeSheet(namer.name(bid.Provider), NormalizedTable(bid.Items), nil); err != nil {
			return nil, err
		}
	}
	if err := w.writeSheet(ComparisonSheet, comparison.MatrixTable(result.Matrix, false), nil); err != nil {
		return nil, err
	}
	if err := w.writeSheet(ChapterSheet, comparison.ChapterTable(result.Chapters, false), nil); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)
	return w.bytes()
}

// MatrixWorkbook builds the standalone comparison sheet with its SUM row.
// Returns nil when the matrix has no rows.
func MatrixWorkbook(m domain.ComparisonMatrix) ([]byte, error) {
	if len(m.Rows) == 0 {
		return nil, nil
	}
	return singleSheet(MatrixReportSheet, comparison.MatrixTable(m, true), comparison.ColStdDevPct)
}

// ChapterWorkbook builds the standalone chapter sheet with its SUM row.
// Returns nil when there are no chapters.
func ChapterWorkbook(r domain.ChapterRollup) ([]byte, error) {
	if len(r.Rows) == 0 {
		return nil, nil
	}
	return singleSheet(ChapterReportSheet, comparison.ChapterTable(r, true), comparison.ColSpreadPct)
}

func singleSheet(name string, table domain.Table, percentColumn string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	w := &workbook{file: f, first: f.GetSheetName(0)}
	if err := w.writeSheet(name, table, map[string]bool{percentColumn: true}); err != nil {
		return nil, err
	}
	if err := f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}
	return w.bytes()
}

type workbook struct {
	file  *excelize.File
	first string // default sheet, renamed on first use
	used  bool
}

func (w *workbook) addSheet(name string) error {
	if !w.used {
		w.used = true
		return w.file.SetSheetName(w.first, name)
	}
	_, err := w.file.NewSheet(name)
	return err
}

// writeSheet writes the header and rows. Percent columns are stored as
// fractions with a percent number format; absent cells stay empty.
func (w *workbook) writeSheet(name string, table domain.Table, percent map[string]bool) error {
	if err := w.addSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	header := make([]interface{}, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col
	}
	if err := w.file.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", name, err)
	}

	percentStyle := 0
	if len(percent) > 0 {
		style, err := w.file.NewStyle(&excelize.Style{NumFmt: percentNumberFormat})
		if err != nil {
			return err
		}
		percentStyle = style
	}

	for r, row := range table.Rows {
		for c, value := range row {
			if value == nil || c >= len(table.Columns) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if v, ok := value.(float64); ok && percent[table.Columns[c]] {
				value = v / 100
				if err := w.file.SetCellStyle(name, cell, cell, percentStyle); err != nil {
					return err
				}
			}
			if err := w.file.SetCellValue(name, cell, value); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", name, cell, err)
			}
		}
	}
	return nil
}

func (w *workbook) bytes() ([]byte, error) {
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Base64 encodes a workbook for JSON transport. Empty input yields "".
func Base64(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}
