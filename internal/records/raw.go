package records

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RawRecord is an unvalidated upstream row. Any field may be missing or of
// an unexpected type; field names vary per endpoint and per deployment.
type RawRecord map[string]any

// First returns the first non-empty string value among the given keys.
// Numeric values are rendered as their decimal form.
func (r RawRecord) First(keys ...string) string {
	for _, key := range keys {
		value, ok := r[key]
		if !ok || value == nil {
			continue
		}
		if s := stringify(value); s != "" {
			return s
		}
	}
	return ""
}

// FirstValue returns the first present non-nil value among the given keys.
func (r RawRecord) FirstValue(keys ...string) (any, bool) {
	for _, key := range keys {
		if value, ok := r[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

// Records returns the array-valued field under key as raw records, or nil.
func (r RawRecord) Records(key string) []RawRecord {
	value, ok := r[key]
	if !ok {
		return nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]RawRecord, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, RawRecord(m))
		}
	}
	return out
}

func stringify(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case bool:
		return strconv.FormatBool(typed)
	case json.Number:
		return typed.String()
	default:
		return ""
	}
}
