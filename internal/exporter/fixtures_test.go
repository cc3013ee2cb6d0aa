package exporter

import (
	"testing"
	"time"

	"bidcompare/internal/comparison"
	"bidcompare/pkg/contracts/domain"
)

func line(code string, qty, price float64) domain.LineItem {
	return domain.LineItem{
		ItemCode:    code,
		Description: "Post " + code,
		Unit:        "stk",
		Quantity:    qty,
		UnitPrice:   domain.Float(price),
		TotalPrice:  qty * price,
		ChapterCode: code[:2],
	}
}

// sampleResult compares three bids over two items. Acme also offers an option.
func sampleResult(t *testing.T) *domain.ComparisonResult {
	t.Helper()

	optionItem := line("09.01", 1, 1234.5)
	optionItem.IsOption = true

	result := comparison.Build([]domain.BidDocument{
		{Provider: "Acme AS", Filename: "acme.xml", Items: []domain.LineItem{
			line("01.01", 1, 900), line("02.01", 10, 50), optionItem,
		}},
		{Provider: "Bygg: Nord/Sør", Filename: "bygg.csv", Items: []domain.LineItem{
			line("01.01", 1, 1000), line("02.01", 10, 60),
		}},
		{Provider: "Cee", Filename: "cee.xlsx", Items: []domain.LineItem{
			line("01.01", 1, 1100), line("02.01", 10, 40),
		}},
	})
	result.ID = "batch-1"
	result.GeneratedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return result
}
