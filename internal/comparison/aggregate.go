package comparison

import (
	"bidcompare/pkg/contracts/domain"
)

// Aggregate collapses one bid's line items to one entry per item code, in
// first-seen order. Option items are skipped.
//
// The unit price is quantity weighted over priced rows when their quantities
// sum to more than zero, and a plain mean of the priced rows otherwise. A
// group without priced rows has no unit price. The total is the sum of the
// group's totals.
func Aggregate(items []domain.LineItem) []domain.AggregatedItem {
	type group struct {
		chapter  string
		rows     int
		priced   int
		qtySum   float64
		weighted float64
		priceSum float64
		total    float64
	}

	var order []string
	groups := make(map[string]*group)
	for _, item := range items {
		if item.IsOption {
			continue
		}
		g, ok := groups[item.ItemCode]
		if !ok {
			g = &group{chapter: item.ChapterCode}
			groups[item.ItemCode] = g
			order = append(order, item.ItemCode)
		}
		g.rows++
		g.total += item.TotalPrice
		if item.UnitPrice.Valid {
			g.priced++
			g.qtySum += item.Quantity
			g.weighted += item.UnitPrice.Value * item.Quantity
			g.priceSum += item.UnitPrice.Value
		}
	}

	out := make([]domain.AggregatedItem, 0, len(order))
	for _, code := range order {
		g := groups[code]

		var price domain.NullFloat
		switch {
		case g.priced > 0 && g.qtySum > 0:
			price = domain.Float(g.weighted / g.qtySum)
		case g.priced > 0:
			price = domain.Float(g.priceSum / float64(g.priced))
		}

		var total domain.NullFloat
		if g.rows > 0 {
			total = domain.Float(g.total)
		}

		if !price.Valid && !total.Valid {
			continue
		}
		out = append(out, domain.AggregatedItem{
			ItemCode:    code,
			ChapterCode: g.chapter,
			UnitPrice:   price,
			TotalPrice:  total,
		})
	}
	return out
}
