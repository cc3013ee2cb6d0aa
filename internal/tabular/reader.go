package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrNoColumns is returned for input without a header row
	ErrNoColumns = errors.New("no columns to parse from file")

	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

// Table is a decoded sheet: a header row followed by data rows. Data rows
// may be shorter or longer than the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Cell returns row[col], or "" when the row is too short or col is negative
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// Read decodes data as a workbook when name has a spreadsheet extension and
// as delimited text otherwise.
func Read(name string, data []byte) (*Table, error) {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") || strings.HasSuffix(lower, ".xls") {
		return ReadExcel(data)
	}
	return ReadCSV(data)
}

// ReadCSV decodes delimited text. Semicolon is tried first and comma is used
// when semicolon yields a single column. Input that is not valid UTF-8 is
// decoded as ISO-8859-1.
func ReadCSV(data []byte) (*Table, error) {
	text := decodeText(data)

	semi, semiErr := parseDelimited(text, ';')
	if semiErr == nil && len(semi.Header) > 1 {
		return semi, nil
	}

	comma, commaErr := parseDelimited(text, ',')
	if commaErr == nil {
		return comma, nil
	}
	if semiErr == nil {
		return semi, nil
	}
	return nil, commaErr
}

func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

func parseDelimited(text string, delimiter rune) (*Table, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	table := &Table{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse delimited text: %w", err)
		}
		if table.Header == nil {
			table.Header = record
			continue
		}
		if isBlank(record) {
			continue
		}
		table.Rows = append(table.Rows, record)
	}

	if len(table.Header) == 0 {
		return nil, ErrNoColumns
	}
	return table, nil
}

// ReadExcel decodes the first sheet of an XLSX workbook. Cell values are
// read raw so numbers are not affected by display formats.
func ReadExcel(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoColumns
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	table := &Table{}
	for _, row := range rows {
		if table.Header == nil {
			if isBlank(row) {
				continue
			}
			table.Header = row
			continue
		}
		if isBlank(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Header) == 0 {
		return nil, ErrNoColumns
	}
	return table, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
