package comparison

import (
	"math"
	"sort"
	"strings"

	"bidcompare/pkg/contracts/domain"
)

// ZScoreMinProviders is the number of providers in a batch from which
// per-provider z-scores are computed
const ZScoreMinProviders = 3

// itemMeta is the shared description of one item code. Each field keeps
// the first non-empty value seen in provider order.
type itemMeta struct {
	chapter        string
	chapterTitle   string
	classification string
	specification  string
	unit           string
	quantity       float64
}

// collectMeta gathers shared item metadata from the base items of all bids
func collectMeta(bids []domain.BidDocument) map[string]*itemMeta {
	meta := make(map[string]*itemMeta)
	setIfEmpty := func(dst *string, v string) {
		if *dst == "" {
			*dst = strings.TrimSpace(v)
		}
	}

	for _, bid := range bids {
		for _, item := range bid.Items {
			if item.IsOption {
				continue
			}
			code := strings.TrimSpace(item.ItemCode)
			if code == "" {
				continue
			}
			m, ok := meta[code]
			if !ok {
				m = &itemMeta{}
				meta[code] = m
			}
			setIfEmpty(&m.chapter, item.ChapterCode)
			setIfEmpty(&m.chapterTitle, item.ChapterTitle)
			setIfEmpty(&m.classification, item.ClassificationCode)
			setIfEmpty(&m.specification, item.Specification)
			setIfEmpty(&m.unit, item.Unit)
			if m.quantity == 0 {
				m.quantity = item.Quantity
			}
		}
	}
	return meta
}

// BuildMatrix outer-joins the aggregated items of all bids on item code.
// aggregates[i] belongs to bids[i]. Rows are sorted by item code and the
// SUM row is kept separately on the matrix.
func BuildMatrix(bids []domain.BidDocument, aggregates [][]domain.AggregatedItem, titles map[string]string) domain.ComparisonMatrix {
	providers := make([]string, len(bids))
	for i, b := range bids {
		providers[i] = b.Provider
	}

	cells := make(map[string][]domain.ProviderPrice)
	for p, items := range aggregates {
		for _, agg := range items {
			row, ok := cells[agg.ItemCode]
			if !ok {
				row = make([]domain.ProviderPrice, len(providers))
				cells[agg.ItemCode] = row
			}
			row[p] = domain.ProviderPrice{UnitPrice: agg.UnitPrice, Total: agg.TotalPrice}
		}
	}

	codes := make([]string, 0, len(cells))
	for code := range cells {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	meta := collectMeta(bids)
	withZ := len(providers) >= ZScoreMinProviders

	matrix := domain.ComparisonMatrix{
		Providers:  providers,
		Rows:       make([]domain.ComparisonRow, 0, len(codes)),
		Sum:        domain.ComparisonSum{Totals: make([]float64, len(providers))},
		HasZScores: withZ,
	}

	for _, code := range codes {
		row := domain.ComparisonRow{ItemCode: code, Prices: cells[code]}
		if m, ok := meta[strings.TrimSpace(code)]; ok {
			row.ChapterCode = m.chapter
			row.ChapterTitle = m.chapterTitle
			row.ClassificationCode = m.classification
			row.Specification = m.specification
			row.Unit = m.unit
			row.Quantity = m.quantity
		}
		if row.ChapterTitle == "" && row.ChapterCode != "" {
			row.ChapterTitle = titles[row.ChapterCode]
		}

		applyRowStats(&row, providers, withZ)

		for p, price := range row.Prices {
			matrix.Sum.Totals[p] += price.Total.Or(0)
		}
		matrix.Sum.LowestTotal += row.LowestTotal
		matrix.Sum.StdDev += row.StdDev

		matrix.Rows = append(matrix.Rows, row)
	}
	return matrix
}

// applyRowStats fills winner, lowest total, mean, spread and z-scores.
// Statistics consider only providers with a total on the row.
func applyRowStats(row *domain.ComparisonRow, providers []string, withZ bool) {
	var present []float64
	winner := -1
	for p, price := range row.Prices {
		if !price.Total.Valid {
			continue
		}
		present = append(present, price.Total.Value)
		if winner < 0 || price.Total.Value < row.Prices[winner].Total.Value {
			winner = p
		}
	}

	if winner >= 0 {
		row.Winner = providers[winner]
		row.LowestTotal = row.Prices[winner].Total.Value
	}

	mean, std := meanStd(present)
	if len(present) > 0 && mean != 0 {
		row.Mean = domain.Float(mean)
		row.StdDevPct = finiteOrZero(std / mean * 100)
	}
	row.StdDev = std

	if !withZ {
		return
	}
	row.ZScores = make([]float64, len(row.Prices))
	if std <= 0 {
		return
	}
	for p, price := range row.Prices {
		if price.Total.Valid {
			row.ZScores[p] = finiteOrZero((price.Total.Value - mean) / std)
		}
	}
}

// meanStd returns the mean and sample standard deviation of values. The
// deviation is 0 for fewer than two values or a non-finite result.
func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if len(values) < 2 {
		return mean, 0
	}

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, finiteOrZero(math.Sqrt(sq / float64(len(values)-1)))
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
