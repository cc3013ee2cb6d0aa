package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bidcompare/pkg/contracts/domain"
)

func bid(provider string, items ...domain.LineItem) domain.BidDocument {
	return domain.BidDocument{Provider: provider, Filename: provider + ".csv", Items: items}
}

func buildMatrix(bids ...domain.BidDocument) domain.ComparisonMatrix {
	aggregates := make([][]domain.AggregatedItem, len(bids))
	for i, b := range bids {
		aggregates[i] = Aggregate(b.Items)
	}
	return BuildMatrix(bids, aggregates, nil)
}

func TestBuildMatrixTieGoesToFirstProvider(t *testing.T) {
	m := buildMatrix(
		bid("A", priced("01.01", 10, 100, 1000)),
		bid("B", priced("01.01", 5, 200, 1000)),
	)

	require.Len(t, m.Rows, 1)
	row := m.Rows[0]
	assert.Equal(t, "A", row.Winner)
	assert.Equal(t, 1000.0, row.LowestTotal)
	assert.Equal(t, 0.0, row.StdDev)
	assert.Equal(t, 0.0, row.StdDevPct)
	assert.Equal(t, domain.Float(1000), row.Mean)
	assert.False(t, m.HasZScores)
	assert.Nil(t, row.ZScores)
	assert.Equal(t, 10.0, row.Quantity)
}

func TestBuildMatrixThreeProviders(t *testing.T) {
	m := buildMatrix(
		bid("A", priced("01.01", 1, 900, 900)),
		bid("B", priced("01.01", 1, 1000, 1000)),
		bid("C", priced("01.01", 1, 1100, 1100)),
	)

	require.Len(t, m.Rows, 1)
	row := m.Rows[0]
	assert.True(t, m.HasZScores)
	assert.Equal(t, "A", row.Winner)
	assert.InDelta(t, 1000, row.Mean.Value, 1e-9)
	assert.InDelta(t, 100, row.StdDev, 1e-9)
	assert.InDelta(t, 10, row.StdDevPct, 1e-9)
	require.Len(t, row.ZScores, 3)
	assert.InDelta(t, -1, row.ZScores[0], 1e-9)
	assert.InDelta(t, 0, row.ZScores[1], 1e-9)
	assert.InDelta(t, 1, row.ZScores[2], 1e-9)
}

func TestBuildMatrixOuterJoin(t *testing.T) {
	m := buildMatrix(
		bid("A",
			domain.LineItem{ItemCode: "02.01", ChapterCode: "02", ChapterTitle: "Grunn", Unit: "m3", Quantity: 0, UnitPrice: domain.Float(10), TotalPrice: 0},
			priced("01.01", 1, 50, 50),
		),
		bid("B",
			domain.LineItem{ItemCode: "02.01", ChapterCode: "02", Unit: "m2", Quantity: 4, ClassificationCode: "X1", Specification: "Spec B", UnitPrice: domain.Float(20), TotalPrice: 80},
		),
		bid("C", priced("03.01", 1, 7, 7)),
	)

	require.Len(t, m.Rows, 3)
	assert.Equal(t, []string{"01.01", "02.01", "03.01"},
		[]string{m.Rows[0].ItemCode, m.Rows[1].ItemCode, m.Rows[2].ItemCode})

	only := m.Rows[0]
	assert.True(t, only.Prices[0].Total.Valid)
	assert.False(t, only.Prices[1].Total.Valid)
	assert.False(t, only.Prices[2].UnitPrice.Valid)
	assert.Equal(t, 0.0, only.StdDev)
	assert.Equal(t, []float64{0, 0, 0}, only.ZScores)

	shared := m.Rows[1]
	assert.Equal(t, "Grunn", shared.ChapterTitle)
	assert.Equal(t, "m3", shared.Unit)
	assert.Equal(t, 4.0, shared.Quantity)
	assert.Equal(t, "X1", shared.ClassificationCode)
	assert.Equal(t, "Spec B", shared.Specification)
	assert.Equal(t, "A", shared.Winner)
	assert.Equal(t, 0.0, shared.LowestTotal)
	assert.Equal(t, domain.Float(40), shared.Mean)

	assert.Equal(t, []float64{50, 80, 7}, m.Sum.Totals)
	assert.Equal(t, 57.0, m.Sum.LowestTotal)
}

func TestBuildMatrixZeroMeanIsAbsent(t *testing.T) {
	m := buildMatrix(
		bid("A", priced("01.01", 1, 0, 0)),
		bid("B", priced("01.01", 1, 0, 0)),
	)

	require.Len(t, m.Rows, 1)
	assert.False(t, m.Rows[0].Mean.Valid)
	assert.Equal(t, 0.0, m.Rows[0].StdDevPct)
}

func TestBuildMatrixFallsBackToResolvedTitle(t *testing.T) {
	bids := []domain.BidDocument{bid("A", priced("05.01", 1, 1, 1))}
	m := BuildMatrix(bids, [][]domain.AggregatedItem{Aggregate(bids[0].Items)}, map[string]string{"05": "Maling"})

	require.Len(t, m.Rows, 1)
	assert.Equal(t, "Maling", m.Rows[0].ChapterTitle)
}

func TestBuildMatrixDeterministic(t *testing.T) {
	bids := []domain.BidDocument{
		bid("A", priced("02.02", 1, 3, 3), priced("01.01", 2, 5, 10), priced("02.01", 1, 1, 1)),
		bid("B", priced("01.01", 2, 6, 12), priced("02.02", 1, 2, 2)),
		bid("C", priced("02.01", 1, 4, 4), priced("01.01", 1, 8, 8)),
	}

	first := MatrixTable(Build(bids).Matrix, true)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, MatrixTable(Build(bids).Matrix, true))
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := meanStd(nil)
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 0.0, std)

	mean, std = meanStd([]float64{4})
	assert.Equal(t, 4.0, mean)
	assert.Equal(t, 0.0, std)

	mean, std = meanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 5.0, mean)
	assert.InDelta(t, 2.138, std, 1e-3)
}
