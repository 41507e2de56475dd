package sumtree

import "iter"

// EqualFunc reports whether two trees hold equal sequences under eq.
// Structure is irrelevant: trees with different leaf fragmentation but
// the same elements are equal. The comparison walks both leaf sequences
// in lockstep without materializing either side.
func EqualFunc[T any](t, u Tree[T], eq func(a, b T) bool) bool {
	if t.Len() != u.Len() {
		return false
	}
	next, stop := iter.Pull(u.Spans())
	defer stop()
	var pending []T
	for span := range t.Spans() {
		for len(span) > 0 {
			if len(pending) == 0 {
				var ok bool
				pending, ok = next()
				if !ok {
					return false
				}
			}
			n := min(len(span), len(pending))
			for i := 0; i < n; i++ {
				if !eq(span[i], pending[i]) {
					return false
				}
			}
			span = span[n:]
			pending = pending[n:]
		}
	}
	return true
}

// Equal reports whether two trees of comparable elements hold equal
// sequences.
func Equal[T comparable](t, u Tree[T]) bool {
	return EqualFunc(t, u, func(a, b T) bool { return a == b })
}
