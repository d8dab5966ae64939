package query

import (
	"sort"
	"strings"
	"time"
)

// Kind identifies how a sort value compares.
type Kind int

const (
	// KindString compares case-insensitively.
	KindString Kind = iota
	// KindNumber compares as float64.
	KindNumber
	// KindTime compares as instants.
	KindTime
	// KindRank compares by a fixed enumeration rank (priority, severity).
	KindRank
)

// Value is a sortable projection of one record field.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Time time.Time
}

// String makes a case-insensitive string sort value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number makes a numeric sort value.
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// Instant makes a time sort value. A nil or zero time ranks first ascending.
func Instant(t time.Time) Value { return Value{Kind: KindTime, Time: t} }

// Rank makes a fixed-enumeration sort value; higher ranks sort later
// ascending, so descending order yields critical first.
func Rank(r int) Value { return Value{Kind: KindRank, Num: float64(r)} }

// Compare returns -1, 0, or 1 ordering v against other. Values of different
// kinds never occur for the same field; kinds are compared defensively anyway.
func (v Value) Compare(other Value) int {
	if v.Kind != other.Kind {
		switch {
		case v.Kind < other.Kind:
			return -1
		case v.Kind > other.Kind:
			return 1
		}
	}
	switch v.Kind {
	case KindString:
		return strings.Compare(strings.ToLower(v.Str), strings.ToLower(other.Str))
	case KindTime:
		switch {
		case v.Time.Before(other.Time):
			return -1
		case v.Time.After(other.Time):
			return 1
		}
		return 0
	default:
		switch {
		case v.Num < other.Num:
			return -1
		case v.Num > other.Num:
			return 1
		}
		return 0
	}
}

// FieldSet describes how a resource's records expose their fields to the
// pipeline: sortable projections, exact-match filterable fields, and the
// fixed set of fields free-text search scans.
type FieldSet[T any] struct {
	Sort   map[string]func(T) Value
	Filter map[string]func(T) string
	Search []func(T) string
}

// SortSpec is a field plus direction, client-local per view.
type SortSpec struct {
	Field      string
	Descending bool
}

// PageRequest asks for a 1-based page of a fixed size.
type PageRequest struct {
	Page int
	Size int
}

// Page is one ordered slice of the filtered collection plus totals.
type Page[T any] struct {
	Items      []T
	Page       int
	TotalCount int
	TotalPages int
}

// SearchKey is the criteria key carrying the free-text query.
const SearchKey = "search"

// Filter returns the records matching all criteria. Enumerated keys match
// exactly; the search key matches case-insensitively as a substring of any
// search field. An empty criteria value constrains nothing. The result is a
// fresh slice; input order is preserved, so Filter is idempotent.
func Filter[T any](items []T, fields FieldSet[T], c Criteria) []T {
	out := make([]T, 0, len(items))
	search := strings.ToLower(c.Get(SearchKey))
	for _, item := range items {
		if !matchesEnums(item, fields, c) {
			continue
		}
		if search != "" && !matchesSearch(item, fields, search) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesEnums[T any](item T, fields FieldSet[T], c Criteria) bool {
	for key, get := range fields.Filter {
		want := c.Get(key)
		if want != "" && get(item) != want {
			return false
		}
	}
	return true
}

func matchesSearch[T any](item T, fields FieldSet[T], search string) bool {
	for _, get := range fields.Search {
		if strings.Contains(strings.ToLower(get(item)), search) {
			return true
		}
	}
	return false
}

// Sort returns a stably sorted copy of items by the requested field.
// Direction flips the comparator, not the result, so equal records keep their
// input order under either direction. An unknown field sorts nothing.
func Sort[T any](items []T, fields FieldSet[T], spec SortSpec) []T {
	out := make([]T, len(items))
	copy(out, items)
	get, ok := fields.Sort[spec.Field]
	if !ok {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		cmp := get(out[i]).Compare(get(out[j]))
		if spec.Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return out
}

// Paginate slices out the requested page, clamped to the available length,
// and reports total item and page counts.
func Paginate[T any](items []T, req PageRequest) Page[T] {
	size := req.Size
	if size <= 0 {
		size = 1
	}
	total := len(items)
	totalPages := (total + size - 1) / size

	page := req.Page
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		TotalCount: total,
		TotalPages: totalPages,
	}
}

// Apply runs the full pipeline: filter, stable sort, then pagination.
// It is pure and deterministic for equal inputs.
func Apply[T any](items []T, fields FieldSet[T], c Criteria, spec SortSpec, req PageRequest) Page[T] {
	return Paginate(Sort(Filter(items, fields, c), fields, spec), req)
}

// ApplyAll runs filter and sort without pagination. Exports use this so the
// artifact reflects everything matching the current filters.
func ApplyAll[T any](items []T, fields FieldSet[T], c Criteria, spec SortSpec) []T {
	return Sort(Filter(items, fields, c), fields, spec)
}
