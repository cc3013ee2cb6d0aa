package api

import (
	"bytes"
	"encoding/json"
	"time"

	"bidcompare/pkg/contracts/domain"
)

// NormalizedBids renders as a JSON object mapping provider name to its line
// items, keys in registration order.
type NormalizedBids []domain.BidDocument

// MarshalJSON implements json.Marshaler
func (n NormalizedBids) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, bid := range n {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(bid.Provider)
		if err != nil {
			return nil, err
		}
		items := bid.Items
		if items == nil {
			items = []domain.LineItem{}
		}
		val, err := json.Marshal(items)
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

// CompareResponse is the body of a successful bid comparison. Workbooks are
// base64 encoded XLSX documents; MatrixExcel and ChaptersExcel are empty when
// there is nothing to show.
type CompareResponse struct {
	BatchID       string         `json:"batch_id"`
	Normalized    NormalizedBids `json:"normalized"`
	Matrix        domain.Table   `json:"matrix"`
	Chapters      domain.Table   `json:"chapters"`
	Summary       domain.Summary `json:"summary"`
	GeneratedAt   time.Time      `json:"generated_at"`
	Excel         string         `json:"excel"`
	MatrixExcel   string         `json:"matrix_excel"`
	ChaptersExcel string         `json:"chapters_excel"`
	Errors        []string       `json:"errors"`
}
