package comparison

import (
	"bidcompare/pkg/contracts/domain"
)

// Column names shared by the JSON tables and the workbooks
const (
	ColChapter        = "kapittel"
	ColChapterTitle   = "kapittel_navn"
	ColItemCode       = "postnr"
	ColClassification = "ns_code"
	ColSpecification  = "specification"
	ColUnit           = "enhet"
	ColQuantity       = "qty"
	ColWinner         = "vinner"
	ColLowestTotal    = "lavest_sum"
	ColStdDev         = "std_avvik"
	ColStdDevPct      = "std_pct"
	ColMean           = "snitt"

	ColLowestProvider = "laveste_tilbyder"
	ColChapterLowest  = "laveste_sum"
	ColSpreadPct      = "spann_pct"

	SumLabel = "SUM"
)

// UnitPriceColumn names a provider's unit price column
func UnitPriceColumn(provider string) string { return provider + " (enhetspris)" }

// TotalColumn names a provider's total column
func TotalColumn(provider string) string { return provider + " (sum)" }

// ZScoreColumn names a provider's z-score column
func ZScoreColumn(provider string) string { return provider + " (z-score)" }

// MatrixTable renders the comparison matrix. Each provider contributes a
// unit price and a total column; z-score columns follow the statistics when
// the matrix has them. withSum appends the SUM row.
func MatrixTable(m domain.ComparisonMatrix, withSum bool) domain.Table {
	columns := []string{ColChapter, ColChapterTitle, ColItemCode, ColClassification, ColSpecification, ColUnit, ColQuantity}
	for _, p := range m.Providers {
		columns = append(columns, UnitPriceColumn(p), TotalColumn(p))
	}
	columns = append(columns, ColWinner, ColLowestTotal, ColStdDev, ColStdDevPct, ColMean)
	if m.HasZScores {
		for _, p := range m.Providers {
			columns = append(columns, ZScoreColumn(p))
		}
	}

	table := domain.Table{Columns: columns, Rows: make([][]any, 0, len(m.Rows)+1)}
	for _, row := range m.Rows {
		cells := make([]any, 0, len(columns))
		cells = append(cells, row.ChapterCode, row.ChapterTitle, row.ItemCode, row.ClassificationCode,
			row.Specification, row.Unit, row.Quantity)
		for _, price := range row.Prices {
			cells = append(cells, nullable(price.UnitPrice), nullable(price.Total))
		}
		cells = append(cells, row.Winner, row.LowestTotal, row.StdDev, row.StdDevPct, nullable(row.Mean))
		if m.HasZScores {
			for p := range m.Providers {
				cells = append(cells, zAt(row.ZScores, p))
			}
		}
		table.Rows = append(table.Rows, cells)
	}

	if withSum && len(m.Rows) > 0 {
		cells := []any{"", "", SumLabel, "", "", "", ""}
		for p := range m.Providers {
			cells = append(cells, "", m.Sum.Totals[p])
		}
		cells = append(cells, "", m.Sum.LowestTotal, m.Sum.StdDev, "", "")
		if m.HasZScores {
			for range m.Providers {
				cells = append(cells, "")
			}
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

// ChapterTable renders the chapter rollup, one total column per provider.
// withSum appends the SUM row.
func ChapterTable(r domain.ChapterRollup, withSum bool) domain.Table {
	columns := []string{ColChapter, ColChapterTitle, ColLowestProvider, ColChapterLowest, ColSpreadPct}
	columns = append(columns, r.Providers...)

	table := domain.Table{Columns: columns, Rows: make([][]any, 0, len(r.Rows)+1)}
	for _, row := range r.Rows {
		cells := []any{row.ChapterCode, row.ChapterTitle, row.LowestProvider, row.LowestTotal, row.SpreadPct}
		for _, v := range row.Totals {
			cells = append(cells, v)
		}
		table.Rows = append(table.Rows, cells)
	}

	if withSum && len(r.Rows) > 0 {
		cells := []any{SumLabel, "", "", r.SumLowest, ""}
		for _, v := range r.SumTotals {
			cells = append(cells, v)
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

func nullable(n domain.NullFloat) any {
	if !n.Valid {
		return nil
	}
	return n.Value
}

func zAt(scores []float64, i int) any {
	if i < len(scores) {
		return scores[i]
	}
	return 0.0
}
