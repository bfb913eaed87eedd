package specification

import (
	"sort"
	"time"
)

// FieldFunc reads the value of a specification field from an entity.
// Stores supply one per entity type at composition time, which keeps this
// package free of domain imports. Unknown fields return nil and never
// match.
type FieldFunc[T any] func(entity T, field Field) any

// Evaluate applies a specification to an in-memory collection: filter
// clauses first (ANDed), then ordering, then skip/take paging over the
// ordered result. Without an ordering the input order is preserved, but
// callers must not rely on it.
func Evaluate[T any](items []T, s Specification, field FieldFunc[T]) []T {
	var out []T
	for _, item := range items {
		if matchesAll(item, s.Where, field) {
			out = append(out, item)
		}
	}

	if s.OrderBy != nil {
		ob := *s.OrderBy
		sort.SliceStable(out, func(i, j int) bool {
			a, b := field(out[i], ob.Field), field(out[j], ob.Field)
			if ob.Direction == Descending {
				return lessValues(b, a)
			}
			return lessValues(a, b)
		})
	}

	if s.Skip > 0 {
		if s.Skip >= len(out) {
			return nil
		}
		out = out[s.Skip:]
	}
	if s.Take > 0 && s.Take < len(out) {
		out = out[:s.Take]
	}
	return out
}

// FirstOrDefault returns the first match and true, or the zero value and
// false when nothing matches. Absence is not an error.
func FirstOrDefault[T any](items []T, s Specification, field FieldFunc[T]) (T, bool) {
	matched := Evaluate(items, s, field)
	if len(matched) == 0 {
		var zero T
		return zero, false
	}
	return matched[0], true
}

// Count reports how many items match the filter clauses, ignoring paging.
func Count[T any](items []T, s Specification, field FieldFunc[T]) int {
	n := 0
	for _, item := range items {
		if matchesAll(item, s.Where, field) {
			n++
		}
	}
	return n
}

func matchesAll[T any](item T, clauses []Clause, field FieldFunc[T]) bool {
	for _, c := range clauses {
		if !matches(field(item, c.Field), c) {
			return false
		}
	}
	return true
}

func matches(value any, c Clause) bool {
	switch c.Op {
	case OpEq:
		return value != nil && value == c.Value
	case OpIn:
		ids, ok := c.Value.([]int64)
		if !ok {
			return false
		}
		id, ok := value.(int64)
		if !ok {
			return false
		}
		for _, candidate := range ids {
			if candidate == id {
				return true
			}
		}
		return false
	}
	return false
}

func lessValues(a, b any) bool {
	switch av := a.(type) {
	case int64:
		bv, ok := b.(int64)
		return ok && av < bv
	case string:
		bv, ok := b.(string)
		return ok && av < bv
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Before(bv)
	}
	return false
}
