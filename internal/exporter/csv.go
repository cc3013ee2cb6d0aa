package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"bidcompare/internal/comparison"
	"bidcompare/pkg/contracts/domain"
)

// Default CSV file names written by ExportResult
const (
	MatrixCSV  = "sammenligning.csv"
	ChapterCSV = "kapittel.csv"
)

var unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	dir    string
	logger *slog.Logger
}

// NewCSVWriter creates a CSV writer rooted at dir
func NewCSVWriter(dir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
	Comma     rune // defaults to ';'
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix && !options.Append {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	writer.Comma = ';'
	if options.Comma != 0 {
		writer.Comma = options.Comma
	}

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteTable writes a rendered table with a BOM so spreadsheet tools pick up UTF-8
func (w *CSVWriter) WriteTable(filePath string, table domain.Table) error {
	records := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		record := make([]string, len(table.Columns))
		for j := range table.Columns {
			if j < len(row) {
				record[j] = cellString(row[j])
			}
		}
		records[i] = record
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   table.Columns,
		Records:   records,
		BOMPrefix: true,
	})
}

// ExportResult writes the matrix and chapter tables (with SUM rows) and one
// normalized table per provider. It returns the written paths.
func (w *CSVWriter) ExportResult(result *domain.ComparisonResult) ([]string, error) {
	var written []string
	write := func(name string, table domain.Table) error {
		if err := w.WriteTable(name, table); err != nil {
			return fmt.Errorf("failed to export %s: %w", name, err)
		}
		written = append(written, w.resolvePath(name))
		return nil
	}

	if err := write(MatrixCSV, comparison.MatrixTable(result.Matrix, true)); err != nil {
		return written, err
	}
	if err := write(ChapterCSV, comparison.ChapterTable(result.Chapters, true)); err != nil {
		return written, err
	}
	used := make(map[string]bool)
	for _, bid := range result.Bids {
		name := ProviderFileName(bid.Provider)
		for i := 2; used[name]; i++ {
			name = ProviderFileName(fmt.Sprintf("%s_%d", bid.Provider, i))
		}
		used[name] = true
		if err := write(name, NormalizedTable(bid.Items)); err != nil {
			return written, err
		}
	}
	return written, nil
}

// ProviderFileName derives a file name for a provider's normalized table
func ProviderFileName(provider string) string {
	name := unsafeFileChars.ReplaceAllString(provider, "_")
	if name == "" || name == "_" {
		name = "tilbud"
	}
	return "tilbud_" + name + ".csv"
}

// resolvePath resolves a path against the writer's directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(w.dir, filePath)
}
