package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bidcompare/pkg/contracts/domain"
)

func TestMatrixTableColumns(t *testing.T) {
	two := buildMatrix(bid("A", priced("01.01", 1, 1, 1)), bid("B", priced("01.01", 1, 2, 2)))
	assert.Equal(t, []string{
		"kapittel", "kapittel_navn", "postnr", "ns_code", "specification", "enhet", "qty",
		"A (enhetspris)", "A (sum)", "B (enhetspris)", "B (sum)",
		"vinner", "lavest_sum", "std_avvik", "std_pct", "snitt",
	}, MatrixTable(two, true).Columns)

	three := buildMatrix(
		bid("A", priced("01.01", 1, 1, 1)),
		bid("B", priced("01.01", 1, 2, 2)),
		bid("C", priced("01.01", 1, 3, 3)),
	)
	cols := MatrixTable(three, false).Columns
	assert.Equal(t, []string{"A (z-score)", "B (z-score)", "C (z-score)"}, cols[len(cols)-3:])
}

func TestMatrixTableRows(t *testing.T) {
	m := buildMatrix(
		bid("A", domain.LineItem{ItemCode: "01.01", ChapterCode: "01", Unit: "stk", Quantity: 2, UnitPrice: domain.Float(50), TotalPrice: 100}),
		bid("B", domain.LineItem{ItemCode: "02.01", ChapterCode: "02", Quantity: 1, TotalPrice: 30}),
	)

	table := MatrixTable(m, true)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, []any{
		"01", "", "01.01", "", "", "stk", 2.0,
		50.0, 100.0, nil, nil,
		"A", 100.0, 0.0, 0.0, 100.0,
	}, table.Rows[0])

	assert.Equal(t, []any{
		"02", "", "02.01", "", "", "", 1.0,
		nil, nil, nil, 30.0,
		"B", 30.0, 0.0, 0.0, 30.0,
	}, table.Rows[1])

	assert.Equal(t, []any{
		"", "", "SUM", "", "", "", "",
		"", 100.0, "", 30.0,
		"", 130.0, 0.0, "", "",
	}, table.Rows[2])

	assert.Len(t, MatrixTable(m, false).Rows, 2)
}

func TestMatrixTableEmptyHasNoSumRow(t *testing.T) {
	table := MatrixTable(domain.ComparisonMatrix{Providers: []string{"A"}}, true)
	assert.Empty(t, table.Rows)
}

func TestChapterTable(t *testing.T) {
	rollup := BuildChapters(
		[]string{"A", "B"},
		[][]domain.AggregatedItem{
			{agg("01.01", "01", 100)},
			{agg("01.01", "01", 150)},
		},
		map[string]string{"01": "Rigg"},
	)

	table := ChapterTable(rollup, true)
	assert.Equal(t, []string{"kapittel", "kapittel_navn", "laveste_tilbyder", "laveste_sum", "spann_pct", "A", "B"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []any{"01", "Rigg", "A", 100.0, 50.0, 100.0, 150.0}, table.Rows[0])
	assert.Equal(t, []any{"SUM", "", "", 100.0, "", 100.0, 150.0}, table.Rows[1])
}
