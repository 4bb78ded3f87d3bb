package splash

import (
	"strconv"
	"strings"
)

// Record is one node of a scene document. Values are Record, List, string,
// int, float64 or bool.
type Record map[string]any

// List is an ordered sequence of record values.
type List []any

// Has reports whether key is present.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// String returns the value of key as a string. Numbers are formatted; any
// other type yields def.
func (r Record) String(key, def string) string {
	if s, ok := toString(r[key]); ok {
		return s
	}
	return def
}

// Int returns the value of key as an int. Floats are truncated and numeric
// strings are parsed.
func (r Record) Int(key string, def int) int {
	if v, ok := toInt(r[key]); ok {
		return v
	}
	return def
}

// Float returns the value of key as a float64.
func (r Record) Float(key string, def float64) float64 {
	if v, ok := toFloat(r[key]); ok {
		return v
	}
	return def
}

// Bool returns the value of key as a bool. Numbers are true when non-zero.
func (r Record) Bool(key string, def bool) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case int:
		return v != 0
	case float64:
		return v != 0
	case string:
		if b, err := strconv.ParseBool(strings.ToLower(v)); err == nil {
			return b
		}
	}
	return def
}

// Record returns the nested record under key, or nil.
func (r Record) Record(key string) Record {
	v, _ := r[key].(Record)
	return v
}

// List returns the list under key. A scalar or record is returned as a
// one-element list; a missing key yields nil.
func (r Record) List(key string) List {
	switch v := r[key].(type) {
	case nil:
		return nil
	case List:
		return v
	default:
		return List{v}
	}
}

// Strings returns the list under key as strings, skipping values that are
// not scalars.
func (r Record) Strings(key string) []string {
	l := r.List(key)
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, v := range l {
		if s, ok := toString(v); ok {
			out = append(out, s)
		}
	}
	return out
}

// Ints returns the list under key as ints. Non-numeric entries are skipped.
func (r Record) Ints(key string) []int {
	l := r.List(key)
	out := make([]int, 0, len(l))
	for _, v := range l {
		if n, ok := toInt(v); ok {
			out = append(out, n)
		}
	}
	return out
}

// Records returns the records of the list under key, skipping other values.
func (r Record) Records(key string) []Record {
	l := r.List(key)
	out := make([]Record, 0, len(l))
	for _, v := range l {
		if rec, ok := v.(Record); ok {
			out = append(out, rec)
		}
	}
	return out
}

func toString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

func toInt(v any) (int, bool) {
	switch v := v.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
