package extraction

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundIfNumeric coerces a raw cell value to a float64 rounded to 2 decimal
// places. Nil and blank values pass through unchanged, and so does any value
// that cannot be coerced (free text stays free text). This never fails: a
// coercion error is a soft failure and the original value is preserved.
func RoundIfNumeric(v any) any {
	switch t := v.(type) {
	case nil:
		return v
	case float64:
		return round2(t)
	case int:
		return round2(float64(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return v
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return v
		}
		return round2(f)
	default:
		return v
	}
}

// round2 rounds half-to-even, the rounding rule of the upstream quotation
// tooling.
func round2(f float64) float64 {
	r, _ := decimal.NewFromFloat(f).RoundBank(2).Float64()
	return r
}

// toFloat reports a value's numeric form. Strings are coerced the same way
// RoundIfNumeric coerces them; anything else is not a number.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// isBlankValue reports whether a raw value is nil, empty or whitespace-only.
func isBlankValue(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
