// Package value normalizes attribute and filter values decoded from JSON,
// YAML, or TOML so they can be compared with strict type-and-value equality.
package value

import (
	"fmt"
	"math"
)

// Backed is implemented by enumerated values that are backed by a scalar.
type Backed interface {
	Scalar() any
}

// Normalize converts decoded values to the canonical scalar set
// (nil, bool, int64, float64, string) and lists to []any.
// Floats stay floats: decoders keep integer tokens as integers, so 1.0 and 1
// remain distinct.
func Normalize(v any) any {
	switch t := v.(type) {
	case Backed:
		return Normalize(t.Scalar())
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		if t <= math.MaxInt64 {
			return int64(t)
		}
		return float64(t)
	case float32:
		return float64(t)
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

// Equal reports strict equality of two values after normalization:
// the dynamic types must match, so 1, "1" and true are pairwise distinct.
func Equal(a, b any) bool {
	a, b = Normalize(a), Normalize(b)
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case int64:
		y, ok := b.(int64)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsScalar reports whether v normalizes to nil, bool, a number, or a string.
func IsScalar(v any) bool {
	switch Normalize(v).(type) {
	case nil, bool, int64, float64, string:
		return true
	default:
		return false
	}
}

// AsList returns v as a list when it is one.
func AsList(v any) ([]any, bool) {
	list, ok := Normalize(v).([]any)
	return list, ok
}

// Contains reports whether list holds an element strictly equal to v.
func Contains(list []any, v any) bool {
	for _, item := range list {
		if Equal(item, v) {
			return true
		}
	}
	return false
}

// Intersects reports whether a and b share at least one element.
func Intersects(a, b []any) bool {
	for _, item := range a {
		if Contains(b, item) {
			return true
		}
	}
	return false
}

// TypeName names the normalized type of v for error messages.
func TypeName(v any) string {
	switch Normalize(v).(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// String renders v for display; strings are quoted so "1" and 1 stay distinct.
func String(v any) string {
	switch t := Normalize(v).(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
