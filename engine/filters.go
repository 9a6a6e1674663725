package engine

import (
	"strings"
)

// ============================================================================
// FILTERS: Dimension filters and row predicates via RecordView
// ============================================================================
// Single-pass filter: checks ALL constraints per record in one loop.
// Returns a SubView (index list into parent); zero data copy.
// ============================================================================

// Predicate decides whether row i of view is kept.
type Predicate func(view RecordView, i int) bool

// ApplyFilters returns a view of records matching all dimension filters.
// Dimensions are AND-combined; values within a dimension are OR-combined.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}
	return Where(view, filters.Predicate())
}

// Predicate converts the dimension filters into a row predicate.
// Matching is case-insensitive.
func (f Filters) Predicate() Predicate {
	sets := make(map[string]map[string]bool)
	for dim, allowed := range f.Dimensions {
		if len(allowed) > 0 {
			sets[dim] = toLowerSet(allowed)
		}
	}
	return func(view RecordView, i int) bool {
		for dim, set := range sets {
			if !set[strings.ToLower(view.Dimension(i, dim))] {
				return false
			}
		}
		return true
	}
}

// Where returns the rows of view accepted by every predicate. Nil
// predicates are ignored; no predicates returns view unchanged.
func Where(view RecordView, preds ...Predicate) RecordView {
	active := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return view
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for _, p := range active {
			if !p(view, i) {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// ============================================================================
// PREDICATE BUILDERS
// ============================================================================

// Eq keeps rows whose dimension equals value exactly.
func Eq(dimension, value string) Predicate {
	return func(view RecordView, i int) bool {
		return view.Dimension(i, dimension) == value
	}
}

// In keeps rows whose dimension is one of values.
func In(dimension string, values ...string) Predicate {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return func(view RecordView, i int) bool {
		return set[view.Dimension(i, dimension)]
	}
}

// Between keeps rows whose dimension sorts within [from, to], both inclusive.
// Intended for ISO dates and zero-padded years.
func Between(dimension, from, to string) Predicate {
	return func(view RecordView, i int) bool {
		v := view.Dimension(i, dimension)
		return v >= from && v <= to
	}
}

// And combines predicates; nil entries are skipped.
func And(preds ...Predicate) Predicate {
	return func(view RecordView, i int) bool {
		for _, p := range preds {
			if p != nil && !p(view, i) {
				return false
			}
		}
		return true
	}
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
