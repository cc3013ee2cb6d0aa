package comparison

import (
	"math"
	"sort"

	"bidcompare/pkg/contracts/domain"
)

// Summarize computes per-provider base and option totals, the overall
// winner and the number of distinct base item codes. There is no winner
// when all base totals are equal.
func Summarize(bids []domain.BidDocument) domain.Summary {
	summary := domain.Summary{
		Totals:       make(domain.ProviderAmounts, 0, len(bids)),
		OptionTotals: make(domain.ProviderAmounts, 0, len(bids)),
	}

	codes := make(map[string]struct{})
	for _, bid := range bids {
		summary.Totals = append(summary.Totals, domain.ProviderAmount{Provider: bid.Provider, Amount: bid.BaseTotal()})
		summary.OptionTotals = append(summary.OptionTotals, domain.ProviderAmount{Provider: bid.Provider, Amount: bid.OptionTotal()})
		for _, item := range bid.BaseItems() {
			codes[item.ItemCode] = struct{}{}
		}
	}
	summary.PostCount = len(codes)

	if len(summary.Totals) == 0 {
		return summary
	}
	lowest, highest := summary.Totals[0], summary.Totals[0]
	for _, t := range summary.Totals[1:] {
		if t.Amount < lowest.Amount {
			lowest = t
		}
		if t.Amount > highest.Amount {
			highest = t
		}
	}
	if math.Abs(highest.Amount-lowest.Amount) >= TieTolerance {
		summary.Winner = domain.Winner{Name: lowest.Provider, Total: lowest.Amount}
	}
	return summary
}

// Ranked returns the totals ordered from lowest to highest. Equal totals
// keep registration order.
func Ranked(amounts domain.ProviderAmounts) domain.ProviderAmounts {
	out := append(domain.ProviderAmounts(nil), amounts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount < out[j].Amount
	})
	return out
}

// ZScoreTotals sums each provider's per-item z-scores over the item codes
// that at least ZScoreMinProviders providers priced and whose totals vary.
// The result is empty for batches with fewer than ZScoreMinProviders bids.
func ZScoreTotals(m domain.ComparisonMatrix) domain.ProviderAmounts {
	if len(m.Providers) < ZScoreMinProviders {
		return nil
	}
	sums := make([]float64, len(m.Providers))
	for _, row := range m.Rows {
		var present []float64
		for _, price := range row.Prices {
			if price.Total.Valid {
				present = append(present, price.Total.Value)
			}
		}
		if len(present) < ZScoreMinProviders {
			continue
		}
		mean, std := meanStd(present)
		if std <= 0 {
			continue
		}
		for p, price := range row.Prices {
			if price.Total.Valid {
				sums[p] += (price.Total.Value - mean) / std
			}
		}
	}

	out := make(domain.ProviderAmounts, len(m.Providers))
	for p, name := range m.Providers {
		out[p] = domain.ProviderAmount{Provider: name, Amount: sums[p]}
	}
	return out
}
