package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "bidcompare/internal/errors"
	"bidcompare/internal/shared/testutil"
)

func TestDocumentFormat(t *testing.T) {
	assert.Equal(t, FormatXML, DocumentFormat("bid.XML"))
	assert.Equal(t, FormatExcel, DocumentFormat("bid.xlsx"))
	assert.Equal(t, FormatExcel, DocumentFormat("bid.xls"))
	assert.Equal(t, FormatCSV, DocumentFormat("bid.csv"))
	assert.Equal(t, FormatCSV, DocumentFormat("bid"))
}

func TestParseDocument(t *testing.T) {
	t.Run("xml with sender", func(t *testing.T) {
		doc := testutil.XMLBid{
			Sender: "Acme AS",
			Posts:  []testutil.XMLPost{{ItemCode: "01.01", Quantity: 1, UnitPrice: 10}},
		}
		hint, items, err := ParseDocument("acme.xml", doc.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "Acme AS", hint)
		assert.Len(t, items, 1)
	})

	t.Run("csv", func(t *testing.T) {
		hint, items, err := ParseDocument("a.csv", testutil.SimpleCSVBid(
			[3]string{"01.01", "10", "100"},
			[3]string{"01.02", "2", "5,5"},
		))
		require.NoError(t, err)
		assert.Empty(t, hint)
		require.Len(t, items, 2)
		assert.Equal(t, 1000.0, items[0].TotalPrice)
		assert.Equal(t, 11.0, items[1].TotalPrice)
	})

	t.Run("xlsx", func(t *testing.T) {
		f := excelize.NewFile()
		defer f.Close()
		require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"postnr", "beskrivelse", "enhet", "mengde", "pris"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"03.1", "Betong", "m3", 4, 250}))
		buf, err := f.WriteToBuffer()
		require.NoError(t, err)

		_, items, err := ParseDocument("b.xlsx", buf.Bytes())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 1000.0, items[0].TotalPrice)
		assert.Equal(t, "03", items[0].ChapterCode)
	})

	t.Run("unreadable workbook", func(t *testing.T) {
		_, _, err := ParseDocument("bad.xlsx", []byte("garbage"))
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeRead))
		assert.Contains(t, apperrors.Message(err), "Could not read bad.xlsx")
	})

	t.Run("malformed xml", func(t *testing.T) {
		_, _, err := ParseDocument("bad.xml", []byte("<a>"))
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	})
}
