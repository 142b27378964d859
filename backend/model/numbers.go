package model

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber reads an editable numeric field. Blank, unparsable and
// non-finite input is 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatNumber renders a number without trailing zeros
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Record is a loosely typed wire object
type Record map[string]any

// String returns the field as text, formatting numbers
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return FormatNumber(v)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Number returns the field as a number, parsing strings
func (r Record) Number(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		return ParseNumber(v)
	default:
		return 0
	}
}

// Bool returns the field as a boolean, def when absent
func (r Record) Bool(key string, def bool) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	default:
		return def
	}
}

// First returns the first non-empty text among keys
func (r Record) First(keys ...string) string {
	for _, k := range keys {
		if s := r.String(k); s != "" {
			return s
		}
	}
	return ""
}
