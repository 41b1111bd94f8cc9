package bom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Catalog indexes a material snapshot by id and by category.
type Catalog struct {
	materials  []Material
	byID       map[string]int
	byCategory map[string][]int
}

// NewCatalog builds the indexes. Later entries with a duplicate id replace earlier ones.
func NewCatalog(materials []Material) *Catalog {
	c := &Catalog{
		materials:  make([]Material, 0, len(materials)),
		byID:       make(map[string]int, len(materials)),
		byCategory: make(map[string][]int),
	}
	for _, m := range materials {
		if idx, exists := c.byID[m.ID]; exists {
			c.materials[idx] = m
			continue
		}
		c.byID[m.ID] = len(c.materials)
		c.byCategory[m.CategoryID] = append(c.byCategory[m.CategoryID], len(c.materials))
		c.materials = append(c.materials, m)
	}
	return c
}

// ByID returns the material with the given id.
func (c *Catalog) ByID(id string) (*Material, bool) {
	if c == nil || id == "" {
		return nil, false
	}
	idx, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.materials[idx], true
}

// ByCategory returns the materials of a category in snapshot order.
func (c *Catalog) ByCategory(categoryID string) []Material {
	if c == nil {
		return nil
	}
	indexes := c.byCategory[categoryID]
	res := make([]Material, 0, len(indexes))
	for _, idx := range indexes {
		res = append(res, c.materials[idx])
	}
	return res
}

// Len returns the number of distinct materials.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.materials)
}

// SpecValue returns the value of the first key, in priority order, that is set and non-empty.
func SpecValue(m *Material, keys ...string) (any, bool) {
	if m == nil || m.Spec == nil {
		return nil, false
	}
	for _, k := range keys {
		v, ok := m.Spec[k]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// SpecNumber is SpecValue followed by ParseNumber. Missing values read as 0.
func SpecNumber(m *Material, keys ...string) float64 {
	v, ok := SpecValue(m, keys...)
	if !ok {
		return 0
	}
	return ParseNumber(v)
}

// SpecString returns the spec value formatted as a string, or "".
func SpecString(m *Material, keys ...string) string {
	v, ok := SpecValue(m, keys...)
	if !ok {
		return ""
	}
	if s, isString := v.(string); isString {
		return strings.TrimSpace(s)
	}
	return fmt.Sprint(v)
}

// SpecBool interprets a spec value as a flag. The second result is false when
// the value is missing or not recognisable, so callers can tell "declared false"
// from "not declared".
func SpecBool(m *Material, keys ...string) (bool, bool) {
	v, ok := SpecValue(m, keys...)
	if !ok {
		return false, false
	}
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "ja", "y", "1":
			return true, true
		case "false", "no", "nein", "n", "0":
			return false, true
		}
		return false, false
	default:
		n := ParseNumber(v)
		return n != 0, true
	}
}

// ParseNumber converts v to a float64. Both "." and "," are accepted as decimal
// separator, see normalizeDecimal. Anything unparsable, NaN or infinite yields 0.
func ParseNumber(v any) float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case Count:
		f = float64(t)
	case Amount:
		f = float64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(normalizeDecimal(s), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case fmt.Stringer:
		return ParseNumber(t.String())
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// normalizeDecimal rewrites s to use "." as decimal separator. When both
// separators appear the last one separates the decimals and the other one
// groups thousands, so "1.234,5" and "1,234.5" both become "1234.5". A lone
// separator is always read as decimal.
func normalizeDecimal(s string) string {
	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma < 0 || dot < 0:
		return strings.ReplaceAll(s, ",", ".")
	case comma > dot:
		return strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	default:
		return strings.ReplaceAll(s, ",", "")
	}
}
