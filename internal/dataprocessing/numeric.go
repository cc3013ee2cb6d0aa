package dataprocessing

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var numberCleaner = strings.NewReplacer(" ", "", "\u00a0", "", ",", ".")

// ParseNumber converts a raw cell value to a finite float. Empty, blank and
// unparsable values yield 0. Spaces and no-break spaces are stripped and
// commas are read as decimal points.
func ParseNumber(value interface{}) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case bool:
		if v {
			return 1
		}
		return 0
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case json.Number:
		return parseNumberString(v.String())
	case string:
		return parseNumberString(v)
	case []byte:
		return parseNumberString(string(v))
	default:
		return parseNumberString(fmt.Sprint(v))
	}
}

func parseNumberString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(numberCleaner.Replace(s), 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
