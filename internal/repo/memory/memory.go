package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"parish.org/internal/ids"
	"parish.org/internal/query"
	"parish.org/internal/repo"
)

var _ repo.Repository[repo.Entity] = (*Store[repo.Entity])(nil)

// Store is an in-memory repository that interprets the compiled query wire
// format: filters, orderBy/orderByDesc and rangeStart/rangeEnd. Relation,
// grouping and count directives are accepted and ignored.
type Store[T repo.Entity] struct {
	mu     sync.RWMutex
	items  map[string]T
	order  []string
	withID func(T, string) T
}

// New returns an empty store. withID stamps a generated id on created
// records that arrive without one.
func New[T repo.Entity](withID func(T, string) T) *Store[T] {
	return &Store[T]{items: map[string]T{}, withID: withID}
}

// Seed inserts items as-is, keeping their ids.
func (s *Store[T]) Seed(items ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		id := item.EntityID()
		if _, ok := s.items[id]; !ok {
			s.order = append(s.order, id)
		}
		s.items[id] = item
	}
}

func (s *Store[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := item.EntityID()
	if id == "" {
		if s.withID == nil {
			return zero, fmt.Errorf("memory: record has no id")
		}
		id = ids.New()
		item = s.withID(item, id)
	}
	if _, ok := s.items[id]; ok {
		return zero, repo.ErrConflict
	}
	s.items[id] = item
	s.order = append(s.order, id)
	return item, nil
}

func (s *Store[T]) Update(ctx context.Context, id string, item T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return zero, repo.ErrNotFound
	}
	if item.EntityID() != id && s.withID != nil {
		item = s.withID(item, id)
	}
	s.items[id] = item
	return item, nil
}

func (s *Store[T]) Delete(ctx context.Context, params query.Params) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	filters := parseFilters(params)
	kept := s.order[:0]
	for _, id := range s.order {
		if matchAll(s.items[id], filters) {
			delete(s.items, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return nil
}

func (s *Store[T]) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store[T]) FindByID(ctx context.Context, id string, _ query.Params) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return zero, repo.ErrNotFound
	}
	return item, nil
}

func (s *Store[T]) FindAll(ctx context.Context, params query.Params) (repo.Page[T], error) {
	if err := ctx.Err(); err != nil {
		return repo.Page[T]{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	filters := parseFilters(params)
	var matched []T
	for _, id := range s.order {
		item := s.items[id]
		if matchAll(item, filters) {
			matched = append(matched, item)
		}
	}
	sortItems(matched, params)

	total := len(matched)
	start, hasStart := params.Int(query.KeyRangeStart)
	end, hasEnd := params.Int(query.KeyRangeEnd)
	if hasStart && hasEnd {
		matched = window(matched, start, end)
	}
	return repo.Page[T]{Results: matched, Total: total}, nil
}

func window[T any](items []T, start, end int) []T {
	if start < 0 {
		start = 0
	}
	if end >= len(items) {
		end = len(items) - 1
	}
	if start > end {
		return []T{}
	}
	return append([]T(nil), items[start:end+1]...)
}

type filter struct {
	field string
	op    query.Operator
	value string
}

func parseFilters(params query.Params) []filter {
	var out []filter
	for _, key := range params.Keys() {
		field, op, ok := query.SplitFilterKey(key)
		if !ok {
			continue
		}
		v, _ := params.String(key)
		out = append(out, filter{field: field, op: op, value: v})
	}
	return out
}

func matchAll(item any, filters []filter) bool {
	if len(filters) == 0 {
		return true
	}
	doc := document(item)
	for _, f := range filters {
		if !match(lookup(doc, f.field), f) {
			return false
		}
	}
	return true
}

func match(v any, f filter) bool {
	switch f.op {
	case query.OpIsNull:
		return v == nil
	case query.OpIsNotNull:
		return v != nil
	}
	if v == nil {
		return f.op == query.OpNeq
	}
	got := scalar(v)
	switch f.op {
	case query.OpEq:
		return compare(got, f.value) == 0
	case query.OpNeq:
		return compare(got, f.value) != 0
	case query.OpLt:
		return compare(got, f.value) < 0
	case query.OpLte:
		return compare(got, f.value) <= 0
	case query.OpGt:
		return compare(got, f.value) > 0
	case query.OpGte:
		return compare(got, f.value) >= 0
	case query.OpLike:
		return likePattern(f.value, false).MatchString(got)
	case query.OpLikeLower:
		return likePattern(f.value, true).MatchString(got)
	case query.OpIn:
		for _, candidate := range strings.Split(f.value, ",") {
			if compare(got, candidate) == 0 {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// compare orders numerically when both sides parse as numbers.
func compare(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

func likePattern(pattern string, fold bool) *regexp.Regexp {
	var b strings.Builder
	if fold {
		b.WriteString("(?is)")
	} else {
		b.WriteString("(?s)")
	}
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	return regexp.MustCompile(b.String())
}

func sortItems[T any](items []T, params query.Params) {
	type key struct {
		field string
		desc  bool
	}
	var keys []key
	if v, ok := params.String(query.KeyOrderBy); ok && v != "" {
		for _, f := range strings.Split(v, ",") {
			keys = append(keys, key{field: f})
		}
	}
	if v, ok := params.String(query.KeyOrderByDesc); ok && v != "" {
		for _, f := range strings.Split(v, ",") {
			keys = append(keys, key{field: f, desc: true})
		}
	}
	if len(keys) == 0 {
		return
	}
	docs := make([]map[string]any, len(items))
	for i, item := range items {
		docs[i] = document(item)
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		for _, k := range keys {
			a, b := lookup(docs[idx[i]], k.field), lookup(docs[idx[j]], k.field)
			c := compare(scalar(a), scalar(b))
			if c == 0 {
				continue
			}
			if k.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	sorted := make([]T, len(items))
	for i, j := range idx {
		sorted[i] = items[j]
	}
	copy(items, sorted)
}

// document flattens a record to its JSON field map.
func document(item any) map[string]any {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return doc
}

// lookup resolves a dotted path such as "fellowship.name".
func lookup(doc map[string]any, path string) any {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[part]
	}
	return cur
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		raw, _ := json.Marshal(x)
		return string(raw)
	}
}
