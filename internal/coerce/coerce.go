// Package coerce converts loosely typed values produced by overrides and
// measure evaluators into the numeric and boolean forms the tuning
// primitives work with.
package coerce

import "reflect"

// Float converts numeric values of any width to float64.
func Float(v any) (float64, bool) {
	switch typed := v.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// Bool converts booleans directly and treats numeric values as true when
// non-zero.
func Bool(v any) (bool, bool) {
	if typed, ok := v.(bool); ok {
		return typed, true
	}
	if f, ok := Float(v); ok {
		return f != 0, true
	}
	return false, false
}
