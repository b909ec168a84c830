package records

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dateLayout,
	"2006/01/02",
}

// ParseTimestamp parses the common upstream timestamp renderings. Numeric
// values are read as unix milliseconds.
func ParseTimestamp(value any) (time.Time, bool) {
	switch typed := value.(type) {
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return time.Time{}, false
		}
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, trimmed); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	case float64:
		if typed <= 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(typed)).UTC(), true
	case int64:
		if typed <= 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(typed).UTC(), true
	default:
		return time.Time{}, false
	}
}

// DateOnly truncates a timestamp value to YYYY-MM-DD. ok is false when the
// value is absent or unparseable.
func DateOnly(value any) (string, bool) {
	ts, ok := ParseTimestamp(value)
	if !ok {
		return "", false
	}
	return ts.Format(dateLayout), true
}

// firstDate tries candidate values in priority order and falls back to now.
func firstDate(now time.Time, candidates ...any) string {
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		if date, ok := DateOnly(candidate); ok {
			return date
		}
	}
	return now.Format(dateLayout)
}
