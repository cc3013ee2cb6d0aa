package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// NullFloat is a number that may be absent. An absent value is rendered as
// JSON null and is ignored by statistics, which keeps "not priced" apart
// from "priced at zero".
type NullFloat struct {
	Value float64
	Valid bool
}

// Float returns a present NullFloat. Non-finite input is stored as absent.
func Float(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullFloat{}
	}
	return NullFloat{Value: v, Valid: true}
}

// Or returns the value, or def when absent.
func (n NullFloat) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Value
}

// MarshalJSON implements json.Marshaler
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Float(v)
	return nil
}

// LineItem is one priced row from one bid
type LineItem struct {
	ItemCode            string    `json:"postnr"`
	Description         string    `json:"beskrivelse"`
	Unit                string    `json:"enhet"`
	Quantity            float64   `json:"qty"`
	UnitPrice           NullFloat `json:"unit_price"`
	TotalPrice          float64   `json:"sum_amount"`
	ChapterCode         string    `json:"kapittel"`
	ChapterTitle        string    `json:"kapittel_navn"`
	ClassificationCode  string    `json:"ns_code"`
	ClassificationTitle string    `json:"ns_title"`
	Specification       string    `json:"specification"`
	IsOption            bool      `json:"is_option"`
}

// BidDocument is a successfully parsed bid registered under a unique provider name
type BidDocument struct {
	Provider string     `json:"provider"`
	Filename string     `json:"filename"`
	Items    []LineItem `json:"items"`
}

// BaseItems returns the items that count toward the base total
func (b BidDocument) BaseItems() []LineItem {
	out := make([]LineItem, 0, len(b.Items))
	for _, item := range b.Items {
		if !item.IsOption {
			out = append(out, item)
		}
	}
	return out
}

// BaseTotal sums total prices of non-option items
func (b BidDocument) BaseTotal() float64 {
	var total float64
	for _, item := range b.Items {
		if !item.IsOption {
			total += item.TotalPrice
		}
	}
	return total
}

// OptionTotal sums total prices of option items
func (b BidDocument) OptionTotal() float64 {
	var total float64
	for _, item := range b.Items {
		if item.IsOption {
			total += item.TotalPrice
		}
	}
	return total
}

// AggregatedItem is one bid's collapsed price for a single item code
type AggregatedItem struct {
	ItemCode    string    `json:"postnr"`
	ChapterCode string    `json:"kapittel"`
	UnitPrice   NullFloat `json:"unit_price"`
	TotalPrice  NullFloat `json:"sum_amount"`
}
