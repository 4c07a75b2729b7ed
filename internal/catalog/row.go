// Package catalog reads schema metadata through the query executor: a
// fixed set of read-only introspection queries per engine dialect, one per
// object category.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is a generic key/value record returned by an introspection query.
// Field names vary by catalog dialect (upper/lower case, synonyms like
// NAME vs RDB$RELATION_NAME), so all access goes through the tolerant
// lookup helpers below.
type Row map[string]any

// Get returns the first value found under any of the given keys, trying
// exact match first and then a case-insensitive scan.
func (r Row) Get(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			return v, true
		}
	}
	for _, k := range keys {
		for rk, v := range r {
			if strings.EqualFold(rk, k) {
				return v, true
			}
		}
	}
	return nil, false
}

// Str returns the value under keys as a string with trailing blanks
// trimmed (Firebird CHAR catalog columns are space-padded). Missing or
// NULL values return "".
func (r Row) Str(keys ...string) string {
	v, ok := r.Get(keys...)
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimRight(s, " ")
	case []byte:
		return strings.TrimRight(string(s), " ")
	default:
		return strings.TrimRight(fmt.Sprintf("%v", s), " ")
	}
}

// Int returns the value under keys as an int64. Missing, NULL, and
// non-numeric values return 0.
func (r Row) Int(keys ...string) int64 {
	v, ok := r.Get(keys...)
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int16:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		i, _ := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i
	default:
		return 0
	}
}

// IntOK is Int plus a presence flag, for fields where zero is meaningful
// (precision, scale).
func (r Row) IntOK(keys ...string) (int64, bool) {
	v, ok := r.Get(keys...)
	if !ok || v == nil {
		return 0, false
	}
	return r.Int(keys...), true
}

// Bool interprets the value under keys as a truth flag. Catalog dialects
// store these as 0/1 integers, "YES"/"NO", or native booleans.
func (r Row) Bool(keys ...string) bool {
	v, ok := r.Get(keys...)
	if !ok || v == nil {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		s := strings.ToUpper(strings.TrimSpace(b))
		return s == "1" || s == "YES" || s == "TRUE" || s == "T" || s == "Y"
	default:
		return r.Int(keys...) != 0
	}
}
