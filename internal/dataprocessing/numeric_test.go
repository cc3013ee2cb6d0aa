package dataprocessing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
	}{
		{"nil", nil, 0},
		{"empty", "", 0},
		{"whitespace", "   ", 0},
		{"plain", "42", 42},
		{"decimal comma", "100,50", 100.5},
		{"thousands space", "1 234,50", 1234.5},
		{"no-break space", "1 234", 1234},
		{"dot and comma", "1.234,50", 0},
		{"garbage", "abc", 0},
		{"nan string", "NaN", 0},
		{"inf string", "inf", 0},
		{"negative", "-12,5", -12.5},
		{"float", 3.25, 3.25},
		{"float nan", math.NaN(), 0},
		{"float inf", math.Inf(-1), 0},
		{"int", 7, 7},
		{"int64", int64(9), 9},
		{"json number", json.Number("2,5"), 2.5},
		{"bool", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.input))
		})
	}
}
