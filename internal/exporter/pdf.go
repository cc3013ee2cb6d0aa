package exporter

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"bidcompare/internal/comparison"
	"bidcompare/pkg/contracts/domain"
)

const (
	pdfFont        = "Arial"
	pdfPageWidth   = 190.0
	pdfTitle       = "Tilbudssammenligning"
	pdfDateLayout  = "2006-01-02 15:04"
	pdfMaxChapters = 40
)

// WriteSummaryPDF renders a one-page summary: base totals with options,
// the winner and the chapter table.
func WriteSummaryPDF(w io.Writer, result *domain.ComparisonResult) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(pdfTitle, true)
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 18)
	pdf.Cell(pdfPageWidth, 10, pdfTitle)
	pdf.Ln(12)

	pdf.SetFont(pdfFont, "", 10)
	pdf.Cell(40, 6, "Generert:")
	pdf.Cell(80, 6, result.GeneratedAt.Local().Format(pdfDateLayout))
	pdf.Ln(6)
	pdf.Cell(40, 6, "Antall tilbydere:")
	pdf.Cell(80, 6, fmt.Sprintf("%d", len(result.Bids)))
	pdf.Ln(6)
	pdf.Cell(40, 6, "Antall poster:")
	pdf.Cell(80, 6, fmt.Sprintf("%d", result.Summary.PostCount))
	pdf.Ln(10)

	sectionHeader(pdf, "Tilbud (eksklusive opsjoner)")
	pdf.SetFillColor(230, 230, 230)
	pdf.SetFont(pdfFont, "B", 10)
	pdf.CellFormat(100, 7, "Tilbyder", "1", 0, "L", true, 0, "")
	pdf.CellFormat(45, 7, "Sum", "1", 0, "R", true, 0, "")
	pdf.CellFormat(45, 7, "Opsjoner", "1", 1, "R", true, 0, "")

	pdf.SetFont(pdfFont, "", 10)
	for _, pa := range comparison.Ranked(result.Summary.Totals) {
		option, _ := result.Summary.OptionTotals.Get(pa.Provider)
		optionText := ""
		if option > 0 {
			optionText = "kr " + Kroner(option)
		}
		pdf.CellFormat(100, 6, tr(pa.Provider), "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, "kr "+Kroner(pa.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, optionText, "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(pdfFont, "B", 12)
	if winner := result.Summary.Winner; winner.Name != "" {
		pdf.Cell(pdfPageWidth, 8, tr(fmt.Sprintf("Vinner: %s (kr %s)", winner.Name, Kroner(winner.Total))))
	} else {
		pdf.Cell(pdfPageWidth, 8, "Ingen vinner: alle tilbud er like")
	}
	pdf.Ln(12)

	if rows := result.Chapters.Rows; len(rows) > 0 {
		sectionHeader(pdf, "Kapitteloppsummering")
		pdf.SetFillColor(230, 230, 230)
		pdf.SetFont(pdfFont, "B", 9)
		pdf.CellFormat(20, 7, "Kapittel", "1", 0, "L", true, 0, "")
		pdf.CellFormat(70, 7, "Navn", "1", 0, "L", true, 0, "")
		pdf.CellFormat(45, 7, "Laveste tilbyder", "1", 0, "L", true, 0, "")
		pdf.CellFormat(35, 7, "Laveste sum", "1", 0, "R", true, 0, "")
		pdf.CellFormat(20, 7, "Spann", "1", 1, "R", true, 0, "")

		pdf.SetFont(pdfFont, "", 9)
		for i, row := range rows {
			if i == pdfMaxChapters {
				pdf.Cell(pdfPageWidth, 6, fmt.Sprintf("... %d kapitler til", len(rows)-i))
				pdf.Ln(6)
				break
			}
			pdf.CellFormat(20, 6, tr(row.ChapterCode), "1", 0, "L", false, 0, "")
			pdf.CellFormat(70, 6, tr(truncateRunes(row.ChapterTitle, 40)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(45, 6, tr(truncateRunes(row.LowestProvider, 26)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(35, 6, Kroner(row.LowestTotal), "1", 0, "R", false, 0, "")
			pdf.CellFormat(20, 6, formatFloat(row.SpreadPct)+" %", "1", 1, "R", false, 0, "")
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

func sectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(pdfFont, "B", 13)
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(10, pdf.GetY(), pdfPageWidth, 9, "F")
	pdf.Cell(pdfPageWidth, 9, title)
	pdf.Ln(11)
}
