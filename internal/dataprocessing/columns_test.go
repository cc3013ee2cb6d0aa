package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bidcompare/internal/tabular"
	"bidcompare/pkg/contracts/domain"
)

func TestResolveColumns(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   ColumnMapping
	}{
		{
			name:   "norwegian aliases in any order",
			header: []string{"Pris", "Mengde", "POSTNR", "Enhet", "Beskrivelse", "Sum", "NSKode"},
			want:   ColumnMapping{2, 4, 3, 1, 0, 5, 6},
		},
		{
			name:   "english aliases",
			header: []string{"description", "postnr", "unit", "qty", "unit_price", "sum_amount", "code"},
			want:   ColumnMapping{1, 0, 2, 3, 4, 5, 6},
		},
		{
			name:   "alias priority",
			header: []string{"postnr", "description", "beskrivelse"},
			want:   ColumnMapping{0, 2, 2, 2, -1, -1, -1},
		},
		{
			name:   "positional fallback",
			header: []string{"a", "b", "c", "d", "e"},
			want:   ColumnMapping{0, 1, 2, 3, -1, -1, -1},
		},
		{
			name:   "narrow table reuses previous column",
			header: []string{"a", "b"},
			want:   ColumnMapping{0, 1, 1, 1, -1, -1, -1},
		},
		{
			name:   "header whitespace and width variants",
			header: []string{" postnr ", "ｐｒｉｓ"},
			want:   ColumnMapping{0, 1, 1, 1, 1, -1, -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveColumns(tt.header))
		})
	}
}

func TestNormalizeTable(t *testing.T) {
	t.Run("derives total from quantity and price", func(t *testing.T) {
		table := &tabular.Table{
			Header: []string{"postnr", "beskrivelse", "enhet", "mengde", "pris"},
			Rows: [][]string{
				{" 02.105 ", "Graving", "m3", "10", "1 000,50"},
				{"7", "Kort", "stk", "x", "5"},
			},
		}

		items := NormalizeTable(table)
		require.Len(t, items, 2)

		assert.Equal(t, domain.LineItem{
			ItemCode:      "02.105",
			Description:   "Graving",
			Unit:          "m3",
			Quantity:      10,
			UnitPrice:     domain.Float(1000.5),
			TotalPrice:    10005,
			ChapterCode:   "02",
			Specification: "Graving",
		}, items[0])

		assert.Equal(t, "00", items[1].ChapterCode)
		assert.Equal(t, 0.0, items[1].Quantity)
		assert.Equal(t, 0.0, items[1].TotalPrice)
	})

	t.Run("explicit total wins", func(t *testing.T) {
		table := &tabular.Table{
			Header: []string{"postnr", "beskrivelse", "enhet", "mengde", "pris", "sum", "kode"},
			Rows:   [][]string{{"01.01", "Rigg", "RS", "1", "100", "250", "AB1"}},
		}

		items := NormalizeTable(table)
		require.Len(t, items, 1)
		assert.Equal(t, 250.0, items[0].TotalPrice)
		assert.Equal(t, "AB1", items[0].ClassificationCode)
		assert.False(t, items[0].IsOption)
	})

	t.Run("missing price column leaves price absent", func(t *testing.T) {
		table := &tabular.Table{
			Header: []string{"postnr", "beskrivelse", "enhet", "mengde"},
			Rows:   [][]string{{"01.01", "Rigg", "RS", "3"}},
		}

		items := NormalizeTable(table)
		require.Len(t, items, 1)
		assert.False(t, items[0].UnitPrice.Valid)
		assert.Equal(t, 0.0, items[0].TotalPrice)
	})

	t.Run("short rows", func(t *testing.T) {
		table := &tabular.Table{
			Header: []string{"postnr", "beskrivelse", "enhet", "mengde", "pris"},
			Rows:   [][]string{{"01.02"}},
		}

		items := NormalizeTable(table)
		require.Len(t, items, 1)
		assert.Equal(t, "01.02", items[0].ItemCode)
		assert.Equal(t, domain.Float(0), items[0].UnitPrice)
	})

	t.Run("nil table", func(t *testing.T) {
		assert.Empty(t, NormalizeTable(nil))
	})
}
