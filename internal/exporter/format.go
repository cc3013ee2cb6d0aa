package exporter

import (
	"math"
	"strconv"
	"strings"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// cellString renders a table cell for text output. Absent cells are empty.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// Kroner formats an amount the Norwegian way: space as thousands separator
// and a decimal comma, e.g. 1234.5 -> "1 234,50".
func Kroner(v float64) string {
	return grouped(v, " ", ",")
}

// ParenthesizedKroner renders an option price, e.g. "(kr 1 234,50)"
func ParenthesizedKroner(v float64) string {
	return "(kr " + Kroner(v) + ")"
}

// Amount formats an amount with comma grouping and a decimal point,
// e.g. 1234.5 -> "1,234.50".
func Amount(v float64) string {
	return grouped(v, ",", ".")
}

func grouped(v float64, thousands, decimal string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if v < 0 && s != "0.00" {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(thousands)
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(decimal)
	b.WriteString(frac)
	return b.String()
}
