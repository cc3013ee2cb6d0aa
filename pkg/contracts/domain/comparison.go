package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// ProviderPrice is one provider's cell pair in a comparison row
type ProviderPrice struct {
	UnitPrice NullFloat `json:"unit_price"`
	Total     NullFloat `json:"total"`
}

// ComparisonRow holds one item code across all providers
type ComparisonRow struct {
	ChapterCode        string          `json:"kapittel"`
	ChapterTitle       string          `json:"kapittel_navn"`
	ItemCode           string          `json:"postnr"`
	ClassificationCode string          `json:"ns_code"`
	Specification      string          `json:"specification"`
	Unit               string          `json:"enhet"`
	Quantity           float64         `json:"qty"`
	Prices             []ProviderPrice `json:"prices"`
	Winner             string          `json:"vinner"`
	LowestTotal        float64         `json:"lavest_sum"`
	StdDev             float64         `json:"std_avvik"`
	StdDevPct          float64         `json:"std_pct"`
	Mean               NullFloat       `json:"snitt"`
	ZScores            []float64       `json:"z_scores,omitempty"`
}

// ComparisonSum is the trailing SUM row of a comparison matrix
type ComparisonSum struct {
	Totals      []float64 `json:"totals"`
	LowestTotal float64   `json:"lavest_sum"`
	StdDev      float64   `json:"std_avvik"`
}

// ComparisonMatrix is the cross-bid line item comparison
type ComparisonMatrix struct {
	Providers  []string        `json:"providers"`
	Rows       []ComparisonRow `json:"rows"`
	Sum        ComparisonSum   `json:"sum"`
	HasZScores bool            `json:"has_z_scores"`
}

// ChapterSummary is one chapter's per-provider totals
type ChapterSummary struct {
	ChapterCode    string    `json:"kapittel"`
	ChapterTitle   string    `json:"kapittel_navn"`
	LowestProvider string    `json:"laveste_tilbyder"`
	LowestTotal    float64   `json:"laveste_sum"`
	SpreadPct      float64   `json:"spann_pct"`
	Totals         []float64 `json:"totals"`
}

// ChapterRollup is the chapter table with its SUM row
type ChapterRollup struct {
	Providers []string         `json:"providers"`
	Rows      []ChapterSummary `json:"rows"`
	SumTotals []float64        `json:"sum_totals"`
	SumLowest float64          `json:"sum_lowest"`
}

// ProviderAmount pairs a provider with an amount
type ProviderAmount struct {
	Provider string
	Amount   float64
}

// ProviderAmounts is an ordered provider→amount list. It renders as a JSON
// object whose keys keep registration order.
type ProviderAmounts []ProviderAmount

// Get returns the amount for provider
func (p ProviderAmounts) Get(provider string) (float64, bool) {
	for _, pa := range p {
		if pa.Provider == provider {
			return pa.Amount, true
		}
	}
	return 0, false
}

// MarshalJSON implements json.Marshaler
func (p ProviderAmounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pa := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(pa.Provider)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(pa.Amount)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Winner is the overall lowest base bid. Name is empty when all totals tie.
type Winner struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// Summary holds the headline figures of a comparison
type Summary struct {
	Totals       ProviderAmounts `json:"totals"`
	OptionTotals ProviderAmounts `json:"option_totals"`
	Winner       Winner          `json:"winner"`
	PostCount    int             `json:"post_count"`
}

// Table is a rendered tabular view with an explicit column order. Cells are
// string, float64 or nil. Rows are rendered as JSON objects keyed by column
// name, keys in column order.
type Table struct {
	Columns []string
	Rows    [][]any
}

// MarshalJSON implements json.Marshaler
func (t Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	columns, err := json.Marshal(t.Columns)
	if err != nil {
		return nil, err
	}
	if t.Columns == nil {
		columns = []byte("[]")
	}
	buf.WriteString(`{"columns":`)
	buf.Write(columns)
	buf.WriteString(`,"rows":[`)
	for i, row := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range t.Columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(col)
			if err != nil {
				return nil, err
			}
			var cell any
			if j < len(row) {
				cell = row[j]
			}
			val, err := json.Marshal(cell)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}

// ComparisonResult is the full output of one comparison batch
type ComparisonResult struct {
	ID          string            `json:"id"`
	Bids        []BidDocument     `json:"-"`
	Matrix      ComparisonMatrix  `json:"-"`
	Chapters    ChapterRollup     `json:"-"`
	Titles      map[string]string `json:"-"`
	Summary     Summary           `json:"summary"`
	Errors      []string          `json:"errors"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// Providers returns provider names in registration order
func (r *ComparisonResult) Providers() []string {
	names := make([]string, len(r.Bids))
	for i, b := range r.Bids {
		names[i] = b.Provider
	}
	return names
}
