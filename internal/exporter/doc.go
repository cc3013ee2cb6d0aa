// Package exporter renders comparison results for people.
//
// ReportWorkbook, MatrixWorkbook and ChapterWorkbook produce XLSX documents
// with excelize. CSVWriter writes the same tables as UTF-8 CSV with a BOM so
// spreadsheet tools open them without an import dialog. WriteSummaryPDF
// renders a one-page overview with gofpdf.
//
// Example usage:
//
//	data, err := exporter.ReportWorkbook(result)
//	if err != nil {
//		return err
//	}
//	encoded := exporter.Base64(data)
//
//	written, err := exporter.NewCSVWriter("out", logger).ExportResult(result)
package exporter
