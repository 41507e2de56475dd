/*
Package ordered provides persistent ordered maps and sets on top of a
sum tree of key-sorted entries.

A Map is an immutable value: Set and Delete return new maps sharing
unchanged fragments with the receiver, so snapshots are free and maps
may be read concurrently without locks. Lookup runs in O(log n) against
a greatest-key summary dimension.

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.
*/
package ordered

import (
	"cmp"
	"iter"

	"github.com/npillmayer/sumtree"
)

// MaxKeyDimID keys the greatest-key dimension carried by every map.
const MaxKeyDimID = "ordered.maxkey"

// Entry is one key/value pair of a map.
type Entry[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

// KeySummary is the greatest key of a span of entries. Present is false
// for the empty span.
type KeySummary[K cmp.Ordered] struct {
	Key     K
	Present bool
}

// maxKeyDim tracks the greatest key per subtree. Entries are kept
// key-sorted, so the greatest key of a span is its last key; Combine is
// max, which is associative for any entry order.
type maxKeyDim[K cmp.Ordered, V any] struct{}

func (maxKeyDim[K, V]) ID() string    { return MaxKeyDimID }
func (maxKeyDim[K, V]) Identity() any { return KeySummary[K]{} }

func (maxKeyDim[K, V]) SummarizeElement(e Entry[K, V]) any {
	return KeySummary[K]{Key: e.Key, Present: true}
}

func (maxKeyDim[K, V]) SummarizeSpan(span []Entry[K, V]) any {
	if len(span) == 0 {
		return KeySummary[K]{}
	}
	s := KeySummary[K]{Key: span[0].Key, Present: true}
	for _, e := range span[1:] {
		if e.Key > s.Key {
			s.Key = e.Key
		}
	}
	return s
}

func (maxKeyDim[K, V]) Combine(left, right any) any {
	l, r := left.(KeySummary[K]), right.(KeySummary[K])
	if !r.Present {
		return l
	}
	if !l.Present || r.Key > l.Key {
		return r
	}
	return l
}

func (maxKeyDim[K, V]) CanExtend(sum any) bool {
	return sum.(KeySummary[K]).Present
}

func (maxKeyDim[K, V]) Compare(left, right any) int {
	l, r := left.(KeySummary[K]), right.(KeySummary[K])
	if !l.Present || !r.Present {
		if l.Present {
			return 1
		}
		if r.Present {
			return -1
		}
		return 0
	}
	return cmp.Compare(l.Key, r.Key)
}

// Map is a persistent ordered map. The zero value is the empty map.
type Map[K cmp.Ordered, V any] struct {
	tree sumtree.Tree[Entry[K, V]]
}

// NewMap returns an empty map.
func NewMap[K cmp.Ordered, V any]() Map[K, V] {
	return Map[K, V]{}
}

// FromEntries builds a map from entries, which need not be sorted or
// unique; later entries win over earlier ones with the same key.
func FromEntries[K cmp.Ordered, V any](entries []Entry[K, V]) Map[K, V] {
	m := NewMap[K, V]()
	for _, e := range entries {
		m = m.Set(e.Key, e.Value)
	}
	return m
}

// Len returns the number of entries.
func (m Map[K, V]) Len() int { return m.tree.Len() }

// IsEmpty reports whether the map has no entries.
func (m Map[K, V]) IsEmpty() bool { return m.tree.IsEmpty() }

// lowerBound returns the index of the first entry with key >= k, or
// Len() if every key is smaller.
func (m Map[K, V]) lowerBound(k K) int {
	idx, _, err := m.tree.FindPosition(MaxKeyDimID, func(sum any) bool {
		s := sum.(KeySummary[K])
		return s.Present && s.Key >= k
	})
	if err != nil {
		return m.tree.Len()
	}
	return idx
}

// Get returns the value stored under k.
func (m Map[K, V]) Get(k K) (V, bool) {
	var zero V
	i := m.lowerBound(k)
	if i >= m.tree.Len() {
		return zero, false
	}
	e, err := m.tree.At(i)
	if err != nil || e.Key != k {
		return zero, false
	}
	return e.Value, true
}

// Has reports whether k is present.
func (m Map[K, V]) Has(k K) bool {
	_, ok := m.Get(k)
	return ok
}

// Set returns a map with k bound to v, replacing an existing binding.
func (m Map[K, V]) Set(k K, v V) Map[K, V] {
	entry := Entry[K, V]{Key: k, Value: v}
	if m.tree.IsEmpty() {
		return Map[K, V]{tree: sumtree.FromSlice([]Entry[K, V]{entry}, maxKeyDim[K, V]{})}
	}
	i := m.lowerBound(k)
	tree := m.tree
	if i < tree.Len() {
		if e, _ := tree.At(i); e.Key == k {
			tree = tree.RemoveRange(i, 1)
		}
	}
	tree, err := tree.InsertSlice(i, []Entry[K, V]{entry})
	if err != nil {
		// lowerBound is always within [0, Len]
		panic(err)
	}
	return Map[K, V]{tree: tree}
}

// Delete returns a map without k. Deleting an absent key is a no-op.
func (m Map[K, V]) Delete(k K) Map[K, V] {
	i := m.lowerBound(k)
	if i >= m.tree.Len() {
		return m
	}
	if e, _ := m.tree.At(i); e.Key != k {
		return m
	}
	return Map[K, V]{tree: m.tree.RemoveRange(i, 1)}
}

// At returns the i-th entry in key order.
func (m Map[K, V]) At(i int) (Entry[K, V], error) {
	return m.tree.At(i)
}

// Min returns the smallest-keyed entry.
func (m Map[K, V]) Min() (Entry[K, V], bool) {
	e, err := m.tree.At(0)
	return e, err == nil
}

// Max returns the greatest-keyed entry.
func (m Map[K, V]) Max() (Entry[K, V], bool) {
	e, err := m.tree.At(m.tree.Len() - 1)
	return e, err == nil
}

// Range iterates the entries in ascending key order.
func (m Map[K, V]) Range() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for e := range m.tree.All() {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Keys iterates the keys in ascending order.
func (m Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for e := range m.tree.All() {
			if !yield(e.Key) {
				return
			}
		}
	}
}

// Union returns a map holding every binding of m and other; on key
// collisions the binding from other wins.
func (m Map[K, V]) Union(other Map[K, V]) Map[K, V] {
	merged := make([]Entry[K, V], 0, m.Len()+other.Len())
	next, stop := iter.Pull(other.tree.All())
	defer stop()
	pending, ok := next()
	for e := range m.tree.All() {
		for ok && pending.Key < e.Key {
			merged = append(merged, pending)
			pending, ok = next()
		}
		if ok && pending.Key == e.Key {
			continue // other's binding wins, emitted in the loop above next round
		}
		merged = append(merged, e)
	}
	for ok {
		merged = append(merged, pending)
		pending, ok = next()
	}
	return fromSorted(merged)
}

// Intersect returns a map with the keys present in both maps, keeping
// the values of m.
func (m Map[K, V]) Intersect(other Map[K, V]) Map[K, V] {
	var merged []Entry[K, V]
	next, stop := iter.Pull(other.tree.All())
	defer stop()
	pending, ok := next()
	for e := range m.tree.All() {
		for ok && pending.Key < e.Key {
			pending, ok = next()
		}
		if ok && pending.Key == e.Key {
			merged = append(merged, e)
		}
	}
	return fromSorted(merged)
}

// Difference returns a map with the bindings of m whose keys are absent
// from other.
func (m Map[K, V]) Difference(other Map[K, V]) Map[K, V] {
	var merged []Entry[K, V]
	next, stop := iter.Pull(other.tree.All())
	defer stop()
	pending, ok := next()
	for e := range m.tree.All() {
		for ok && pending.Key < e.Key {
			pending, ok = next()
		}
		if ok && pending.Key == e.Key {
			continue
		}
		merged = append(merged, e)
	}
	return fromSorted(merged)
}

// fromSorted wraps an already key-sorted, duplicate-free entry slice.
func fromSorted[K cmp.Ordered, V any](entries []Entry[K, V]) Map[K, V] {
	if len(entries) == 0 {
		return Map[K, V]{}
	}
	return Map[K, V]{tree: sumtree.FromSlice(entries, maxKeyDim[K, V]{})}
}
