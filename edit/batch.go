package edit

import (
	"fmt"
	"sort"

	"github.com/npillmayer/sumtree"
)

// ConflictError reports two edits of a batch whose affected ranges
// overlap. The batch carrying them is rejected wholesale.
type ConflictError[T any] struct {
	First  Edit[T]
	Second Edit[T]
}

func (e *ConflictError[T]) Error() string {
	return fmt.Sprintf("edit: conflicting edits: %v overlaps %v", e.First, e.Second)
}

// Conflicts reports whether the affected ranges of a and b overlap.
// Ranges are half-open, therefore edits which merely touch do not
// conflict, and an insertion (with an empty range) conflicts only when
// its position falls strictly inside the other edit's range.
func Conflicts[T any](a, b Edit[T]) bool {
	return a.Pos() < b.Pos()+b.Span() && b.Pos() < a.Pos()+a.Span()
}

// Normalize returns a copy of edits, sorted by position, with adjacent
// compatible edits merged: insertions at the same position are joined
// into one (contents in batch order), and removals whose ranges abut
// are fused. Other edits pass through untouched.
func Normalize[T any](edits []Edit[T]) []Edit[T] {
	sorted := make([]Edit[T], len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pos() < sorted[j].Pos()
	})
	out := sorted[:0]
	for _, e := range sorted {
		if len(out) > 0 {
			if merged, ok := merge(out[len(out)-1], e); ok {
				out[len(out)-1] = merged
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func merge[T any](a, b Edit[T]) (Edit[T], bool) {
	switch ae := a.(type) {
	case Insert[T]:
		if be, ok := b.(Insert[T]); ok && ae.At == be.At {
			content := make([]T, 0, len(ae.Content)+len(be.Content))
			content = append(content, ae.Content...)
			content = append(content, be.Content...)
			return Insert[T]{At: ae.At, Content: content}, true
		}
	case Remove[T]:
		if be, ok := b.(Remove[T]); ok && ae.At+ae.Count == be.At {
			return Remove[T]{At: ae.At, Count: ae.Count + be.Count}, true
		}
	}
	var zero Edit[T]
	return zero, false
}

// Apply applies a batch of edits to tree and returns the resulting
// tree. All positions refer to tree as given, not to intermediate
// results. The batch is checked up front: every edit must address a
// range within the tree, and no two edits may conflict; on the first
// conflict found Apply returns a *ConflictError and leaves the batch
// unapplied. Edits are then applied from highest position to lowest,
// which keeps the remaining positions stable.
func Apply[T any](tree sumtree.Tree[T], edits []Edit[T]) (sumtree.Tree[T], error) {
	length := tree.Len()
	for _, e := range edits {
		if e.Pos() < 0 || e.Pos()+e.Span() > length {
			return tree, fmt.Errorf("%w: edit %v exceeds tree of length %d",
				sumtree.ErrIndexOutOfBounds, e, length)
		}
	}
	sorted := make([]Edit[T], len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pos() < sorted[j].Pos()
	})
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			if Conflicts(sorted[i], sorted[j]) {
				return tree, &ConflictError[T]{First: sorted[i], Second: sorted[j]}
			}
		}
	}
	t := tree
	var err error
	for i := len(sorted) - 1; i >= 0; i-- {
		if t, err = sorted[i].apply(t); err != nil {
			return tree, err
		}
	}
	return t, nil
}
