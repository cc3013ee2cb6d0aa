package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullFloat(t *testing.T) {
	tests := []struct {
		name      string
		value     NullFloat
		wantJSON  string
		wantOr    float64
		wantValid bool
	}{
		{
			name:      "present value",
			value:     Float(12.5),
			wantJSON:  "12.5",
			wantOr:    12.5,
			wantValid: true,
		},
		{
			name:      "present zero is not absent",
			value:     Float(0),
			wantJSON:  "0",
			wantOr:    0,
			wantValid: true,
		},
		{
			name:     "absent value",
			value:    NullFloat{},
			wantJSON: "null",
			wantOr:   -1,
		},
		{
			name:     "NaN stored as absent",
			value:    Float(math.NaN()),
			wantJSON: "null",
			wantOr:   -1,
		},
		{
			name:     "infinity stored as absent",
			value:    Float(math.Inf(1)),
			wantJSON: "null",
			wantOr:   -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.wantJSON, string(data))
			assert.Equal(t, tt.wantValid, tt.value.Valid)
			assert.Equal(t, tt.wantOr, tt.value.Or(-1))

			var decoded NullFloat
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.value, decoded)
		})
	}
}

func TestBidDocumentTotals(t *testing.T) {
	bid := BidDocument{
		Provider: "Acme",
		Items: []LineItem{
			{ItemCode: "01.01", TotalPrice: 1000},
			{ItemCode: "01.02", TotalPrice: 250},
			{ItemCode: "01.03", TotalPrice: 400, IsOption: true},
		},
	}

	assert.Equal(t, 1250.0, bid.BaseTotal())
	assert.Equal(t, 400.0, bid.OptionTotal())
	assert.Len(t, bid.BaseItems(), 2)
}

func TestProviderAmountsKeepOrder(t *testing.T) {
	amounts := ProviderAmounts{
		{Provider: "Zeta", Amount: 3},
		{Provider: "Alpha", Amount: 1.5},
		{Provider: "Midt \"AS\"", Amount: 0},
	}

	data, err := json.Marshal(amounts)
	require.NoError(t, err)
	assert.Equal(t, `{"Zeta":3,"Alpha":1.5,"Midt \"AS\"":0}`, string(data))

	v, ok := amounts.Get("Alpha")
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	_, ok = amounts.Get("missing")
	assert.False(t, ok)
}

func TestTableJSONKeepsColumnOrder(t *testing.T) {
	table := Table{
		Columns: []string{"postnr", "B (sum)", "A (sum)", "snitt"},
		Rows: [][]any{
			{"01.01", 10.5, nil, nil},
			{"SUM", 10.5},
		},
	}

	data, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Equal(t,
		`{"columns":["postnr","B (sum)","A (sum)","snitt"],"rows":[`+
			`{"postnr":"01.01","B (sum)":10.5,"A (sum)":null,"snitt":null},`+
			`{"postnr":"SUM","B (sum)":10.5,"A (sum)":null,"snitt":null}]}`,
		string(data))

	empty, err := json.Marshal(Table{})
	require.NoError(t, err)
	assert.Equal(t, `{"columns":[],"rows":[]}`, string(empty))
}
