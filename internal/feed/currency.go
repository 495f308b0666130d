package feed

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseCurrency converts a monetary cell to a float. Numeric values pass
// through unchanged. Strings like "R$ 1.234,56" use "." for thousands and ","
// for decimals. Unparsable input yields 0 so one bad cell never aborts a
// load; callers that need to count such cells use ParseCurrencyOK.
func ParseCurrency(v any) float64 {
	f, _ := ParseCurrencyOK(v)
	return f
}

// ParseCurrencyOK is ParseCurrency that also reports whether the value was
// well formed. An empty cell is well formed and parses to 0.
func ParseCurrencyOK(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint64:
		return float64(x), true
	case uint32:
		return float64(x), true
	case string:
		return parseCurrencyString(x)
	default:
		return parseCurrencyString(fmt.Sprint(x))
	}
}

func parseCurrencyString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}

	s = strings.ReplaceAll(s, "R$", "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}
