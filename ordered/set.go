package ordered

import (
	"cmp"
	"iter"
)

// Set is a persistent ordered set of keys. The zero value is the empty
// set.
type Set[K cmp.Ordered] struct {
	m Map[K, struct{}]
}

// NewSet returns an empty set.
func NewSet[K cmp.Ordered]() Set[K] {
	return Set[K]{}
}

// FromKeys builds a set from keys, which need not be sorted or unique.
func FromKeys[K cmp.Ordered](keys []K) Set[K] {
	s := NewSet[K]()
	for _, k := range keys {
		s = s.Add(k)
	}
	return s
}

// Len returns the number of members.
func (s Set[K]) Len() int { return s.m.Len() }

// IsEmpty reports whether the set has no members.
func (s Set[K]) IsEmpty() bool { return s.m.IsEmpty() }

// Has reports membership of k.
func (s Set[K]) Has(k K) bool { return s.m.Has(k) }

// Add returns a set including k.
func (s Set[K]) Add(k K) Set[K] {
	return Set[K]{m: s.m.Set(k, struct{}{})}
}

// Delete returns a set without k.
func (s Set[K]) Delete(k K) Set[K] {
	return Set[K]{m: s.m.Delete(k)}
}

// Min returns the smallest member.
func (s Set[K]) Min() (K, bool) {
	e, ok := s.m.Min()
	return e.Key, ok
}

// Max returns the greatest member.
func (s Set[K]) Max() (K, bool) {
	e, ok := s.m.Max()
	return e.Key, ok
}

// All iterates the members in ascending order.
func (s Set[K]) All() iter.Seq[K] {
	return s.m.Keys()
}

// Union returns the members of either set.
func (s Set[K]) Union(other Set[K]) Set[K] {
	return Set[K]{m: s.m.Union(other.m)}
}

// Intersect returns the members present in both sets.
func (s Set[K]) Intersect(other Set[K]) Set[K] {
	return Set[K]{m: s.m.Intersect(other.m)}
}

// Difference returns the members of s absent from other.
func (s Set[K]) Difference(other Set[K]) Set[K] {
	return Set[K]{m: s.m.Difference(other.m)}
}
