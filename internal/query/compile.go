package query

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Wire keys of the compiled query.
const (
	KeyRangeStart  = "rangeStart"
	KeyRangeEnd    = "rangeEnd"
	KeyOrderBy     = "orderBy"
	KeyOrderByDesc = "orderByDesc"
	KeyEager       = "eager"
	KeyJoin        = "join"
	KeyGroupBy     = "groupBy"
	KeyCount       = "count"
)

// Params is a compiled query: a flat map of wire keys to primitive values.
type Params map[string]any

// FilterKey returns the wire key of a filter on field.
func FilterKey(field string, op Operator) string {
	if op == "" {
		op = OpEq
	}
	return field + ":" + string(op)
}

// SplitFilterKey reverses FilterKey. ok is false for non-filter keys.
func SplitFilterKey(key string) (field string, op Operator, ok bool) {
	i := strings.LastIndexByte(key, ':')
	if i <= 0 || i == len(key)-1 {
		return "", "", false
	}
	op = Operator(key[i+1:])
	if !op.Valid() {
		return "", "", false
	}
	return key[:i], op, true
}

func compile(c Criteria) Params {
	p := Params{}

	if c.Page != nil && c.PageSize != nil {
		start := (*c.Page - 1) * *c.PageSize
		p[KeyRangeStart] = start
		p[KeyRangeEnd] = start + *c.PageSize - 1
	}

	for _, f := range c.Filters {
		key := FilterKey(f.Field, f.Operator)
		switch f.Operator {
		case OpIsNull, OpIsNotNull:
			p[key] = 1
		case OpIn:
			p[key] = joinValues(f.Value)
		default:
			p[key] = f.Value
		}
	}

	var asc, desc []string
	for _, s := range c.Sort {
		if s.Direction == Desc {
			desc = append(desc, s.Field)
		} else {
			asc = append(asc, s.Field)
		}
	}
	if len(asc) > 0 {
		p[KeyOrderBy] = strings.Join(asc, ",")
	}
	if len(desc) > 0 {
		p[KeyOrderByDesc] = strings.Join(desc, ",")
	}

	if v, ok := relationList(c.Includes); ok {
		p[KeyEager] = v
	}
	if v, ok := relationList(c.Join); ok {
		p[KeyJoin] = v
	}
	if len(c.GroupBy) > 0 {
		p[KeyGroupBy] = strings.Join(c.GroupBy, ",")
	}
	if c.Count != "" {
		p[KeyCount] = c.Count
	}
	return p
}

// relationList renders one relation bare and several as [a,b].
func relationList(rels []string) (string, bool) {
	switch len(rels) {
	case 0:
		return "", false
	case 1:
		return rels[0], true
	default:
		return "[" + strings.Join(rels, ",") + "]", true
	}
}

func joinValues(v any) any {
	if v == nil {
		return v
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return v
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = formatValue(rv.Index(i).Interface())
	}
	return strings.Join(parts, ",")
}

// Clone returns a shallow copy of p. A nil p clones to an empty set.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// criteria recovers the filters of p. Compile passes Params through
// unchanged, so only callers that need the structured form reach this.
func (p Params) criteria() Criteria {
	var c Criteria
	for _, k := range p.Keys() {
		if field, op, ok := SplitFilterKey(k); ok {
			c.Filters = append(c.Filters, Filter{Field: field, Operator: op, Value: p[k]})
		}
	}
	return c
}

// HasFilters reports whether p narrows the result set with at least one
// field filter.
func (p Params) HasFilters() bool {
	for k := range p {
		if _, _, ok := SplitFilterKey(k); ok {
			return true
		}
	}
	return false
}

// Keys returns the parameter keys in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values encodes p for a URL query string.
func (p Params) Values() url.Values {
	out := make(url.Values, len(p))
	for _, k := range p.Keys() {
		out.Set(k, formatValue(p[k]))
	}
	return out
}

// Encode returns the URL-encoded query string, keys sorted.
func (p Params) Encode() string { return p.Values().Encode() }

// Int reads an integer parameter.
func (p Params) Int(key string) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	default:
		return 0, false
	}
}

// String reads a parameter in its wire form.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	return formatValue(v), true
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	}
	if joined, ok := joinValues(v).(string); ok {
		return joined
	}
	return fmt.Sprint(v)
}

// ParseValues decodes a URL query string produced by Values. Range keys are
// read back as integers; every other value stays in its wire form.
func ParseValues(v url.Values) Params {
	p := make(Params, len(v))
	for k := range v {
		raw := v.Get(k)
		if k == KeyRangeStart || k == KeyRangeEnd {
			if n, err := strconv.Atoi(raw); err == nil {
				p[k] = n
				continue
			}
		}
		p[k] = raw
	}
	return p
}
