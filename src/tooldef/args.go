package tooldef

import (
	"fmt"
	"strconv"
	"strings"
)

// Args are the keyword arguments of a tool call, as decoded from the model's JSON.
type Args map[string]any

// String returns the named argument as a string. Non-string values are formatted.
func (a Args) String(name string) (string, bool) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Bool accepts JSON booleans and the strings "true"/"false".
func (a Args) Bool(name string) (bool, bool) {
	switch v := a[name].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	default:
		return false, false
	}
}

// Float accepts any JSON number and numeric strings.
func (a Args) Float(name string) (float64, bool) {
	switch v := a[name].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Int accepts integral JSON numbers and numeric strings.
func (a Args) Int(name string) (int, bool) {
	f, ok := a.Float(name)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
