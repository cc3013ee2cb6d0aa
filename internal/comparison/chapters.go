package comparison

import (
	"math"
	"sort"
	"strings"

	"bidcompare/pkg/contracts/domain"
)

const (
	// TieTolerance is the absolute difference under which totals are equal
	TieTolerance = 1e-6

	// NoLowestProvider marks a chapter where every provider has the same total
	NoLowestProvider = "N/A"
)

// BuildChapters sums each provider's aggregated totals per chapter code.
// aggregates[i] belongs to providers[i]; a provider without items in a
// chapter counts as 0. Chapters are sorted by code.
func BuildChapters(providers []string, aggregates [][]domain.AggregatedItem, titles map[string]string) domain.ChapterRollup {
	totals := make(map[string][]float64)
	for p, items := range aggregates {
		for _, agg := range items {
			code := strings.TrimSpace(agg.ChapterCode)
			row, ok := totals[code]
			if !ok {
				row = make([]float64, len(providers))
				totals[code] = row
			}
			row[p] += agg.TotalPrice.Or(0)
		}
	}

	codes := make([]string, 0, len(totals))
	for code := range totals {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	rollup := domain.ChapterRollup{
		Providers: append([]string(nil), providers...),
		Rows:      make([]domain.ChapterSummary, 0, len(codes)),
		SumTotals: make([]float64, len(providers)),
	}

	for _, code := range codes {
		summary := summarizeChapter(providers, totals[code])
		summary.ChapterCode = code
		summary.ChapterTitle = titles[code]

		for p, v := range summary.Totals {
			rollup.SumTotals[p] += v
		}
		rollup.SumLowest += summary.LowestTotal
		rollup.Rows = append(rollup.Rows, summary)
	}
	return rollup
}

func summarizeChapter(providers []string, totals []float64) domain.ChapterSummary {
	summary := domain.ChapterSummary{Totals: totals}
	if len(totals) == 0 {
		return summary
	}

	lowest, highest := 0, 0
	for p, v := range totals {
		if v < totals[lowest] {
			lowest = p
		}
		if v > totals[highest] {
			highest = p
		}
	}

	if allWithin(totals, totals[lowest]) {
		summary.LowestProvider = NoLowestProvider
		return summary
	}

	lo, hi := totals[lowest], totals[highest]
	summary.LowestProvider = providers[lowest]
	summary.LowestTotal = lo
	if lo != 0 {
		summary.SpreadPct = finiteOrZero((hi - lo) / lo * 100)
	}
	return summary
}

func allWithin(values []float64, ref float64) bool {
	for _, v := range values {
		if math.Abs(v-ref) >= TieTolerance {
			return false
		}
	}
	return true
}
