// Package query implements the pure filter, sort, and pagination pipeline the
// console applies to cached server collections, plus the filter criteria that
// double as cache keys.
package query

import (
	"sort"
	"strings"
)

// Criteria is the set of active constraints narrowing one resource collection.
// Two criteria are equal iff their resource and all stored keys are equal;
// that equality, expressed through Signature, is the cache key. Empty values
// are never stored, so "no constraint" and "absent key" compare equal.
type Criteria struct {
	resource string
	values   map[string]string
}

// NewCriteria creates empty criteria for a resource collection.
func NewCriteria(resource string) Criteria {
	return Criteria{resource: resource}
}

// Resource returns the resource collection the criteria apply to.
func (c Criteria) Resource() string { return c.resource }

// With returns a copy with key set to value. Setting an empty value removes
// the key, keeping the canonical form free of no-op constraints.
func (c Criteria) With(key, value string) Criteria {
	out := Criteria{resource: c.resource, values: make(map[string]string, len(c.values)+1)}
	for k, v := range c.values {
		out.values[k] = v
	}
	if value == "" {
		delete(out.values, key)
	} else {
		out.values[key] = value
	}
	return out
}

// Get returns the value for key, empty when unconstrained.
func (c Criteria) Get(key string) string { return c.values[key] }

// Keys returns the constrained keys in sorted order.
func (c Criteria) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Signature returns the canonical cache-key form: the resource name followed
// by key=value pairs in key order.
func (c Criteria) Signature() string {
	var b strings.Builder
	b.WriteString(c.resource)
	for _, k := range c.Keys() {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(c.values[k])
	}
	return b.String()
}

// Equal reports whether two criteria denote the same constrained view.
func (c Criteria) Equal(other Criteria) bool {
	return c.Signature() == other.Signature()
}
