// Package jsonvalue coerces values decoded into untyped JSON trees
// (map[string]any / []any) into optional Go scalars.
//
// Every helper returns nil for absent or JSON-null input, so callers keep the
// distinction between "no value" and a present zero.
package jsonvalue

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Int returns v as an integer. Integral floats and numeric strings are
// accepted; fractional or non-numeric input yields nil.
func Int(v any) *int {
	n, ok := int64Of(v)
	if !ok || n > math.MaxInt32 || n < math.MinInt32 {
		return nil
	}
	out := int(n)
	return &out
}

func Int64(v any) *int64 {
	n, ok := int64Of(v)
	if !ok {
		return nil
	}
	return &n
}

func Float(v any) *float64 {
	switch value := v.(type) {
	case float64:
		return &value
	case float32:
		out := float64(value)
		return &out
	case int:
		out := float64(value)
		return &out
	case int64:
		out := float64(value)
		return &out
	case json.Number:
		out, err := value.Float64()
		if err != nil {
			return nil
		}
		return &out
	case string:
		out, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil
		}
		return &out
	default:
		return nil
	}
}

// Text returns v rendered as text. Strings pass through untouched (including
// the empty string); numbers and booleans are formatted.
func Text(v any) *string {
	var out string
	switch value := v.(type) {
	case string:
		out = value
	case float64:
		out = strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		out = strconv.Itoa(value)
	case int64:
		out = strconv.FormatInt(value, 10)
	case json.Number:
		out = value.String()
	case bool:
		out = strconv.FormatBool(value)
	default:
		return nil
	}
	return &out
}

func Bool(v any) *bool {
	switch value := v.(type) {
	case bool:
		return &value
	case string:
		out, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil
		}
		return &out
	default:
		return nil
	}
}

// Object returns v as a JSON object, or nil.
func Object(v any) map[string]any {
	out, _ := v.(map[string]any)
	return out
}

// Array returns the array stored under key in doc. Missing keys, nulls and
// non-array values all yield an empty result.
func Array(doc map[string]any, key string) []any {
	if doc == nil {
		return nil
	}
	out, _ := doc[key].([]any)
	return out
}

func int64Of(v any) (int64, bool) {
	switch value := v.(type) {
	case float64:
		return integralFloat(value)
	case float32:
		return integralFloat(float64(value))
	case int:
		return int64(value), true
	case int32:
		return int64(value), true
	case int64:
		return value, true
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return n, true
		}
		f, err := value.Float64()
		if err != nil {
			return 0, false
		}
		return integralFloat(f)
	case string:
		trimmed := strings.TrimSpace(value)
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n, true
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return integralFloat(f)
	default:
		return 0, false
	}
}

func integralFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
