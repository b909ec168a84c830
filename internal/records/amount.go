package records

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseAmount coerces a loosely-typed amount value into a finite float.
// Strings keep only digits, dots, commas and minus signs; commas are treated
// as thousands separators and dropped. Anything unparseable yields 0.
func ParseAmount(value any) float64 {
	switch typed := value.(type) {
	case float64:
		return finiteOrZero(typed)
	case float32:
		return finiteOrZero(float64(typed))
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return 0
		}
		return finiteOrZero(parsed)
	case string:
		return parseAmountString(typed)
	default:
		return 0
	}
}

func parseAmountString(value string) float64 {
	var b strings.Builder
	for _, r := range value {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(parsed)
}

func finiteOrZero(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}
