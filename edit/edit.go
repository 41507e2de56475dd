/*
Package edit applies batches of positional edits to a sum tree.

Every edit addresses positions in the ORIGINAL tree; a batch is
validated as a whole (range checks and pairwise conflict detection)
before anything is applied, and applied in reverse position order so
that earlier positions stay valid throughout. A batch either applies
completely or not at all.

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.
*/
package edit

import (
	"fmt"

	"github.com/npillmayer/sumtree"
)

// Edit is one positional edit against a tree of elements T. Pos and
// Span describe the affected half-open range [Pos, Pos+Span) of the
// original tree; LengthChange is the element-count delta the edit
// produces.
type Edit[T any] interface {
	Pos() int
	Span() int
	LengthChange() int
	apply(tree sumtree.Tree[T]) (sumtree.Tree[T], error)
}

// Insert inserts Content before position At. Its affected range is
// empty.
type Insert[T any] struct {
	At      int
	Content []T
}

func (e Insert[T]) Pos() int          { return e.At }
func (e Insert[T]) Span() int         { return 0 }
func (e Insert[T]) LengthChange() int { return len(e.Content) }

func (e Insert[T]) apply(tree sumtree.Tree[T]) (sumtree.Tree[T], error) {
	return tree.InsertSlice(e.At, e.Content)
}

func (e Insert[T]) String() string {
	return fmt.Sprintf("insert %d elements at %d", len(e.Content), e.At)
}

// Remove removes the Count elements starting at At.
type Remove[T any] struct {
	At    int
	Count int
}

func (e Remove[T]) Pos() int          { return e.At }
func (e Remove[T]) Span() int         { return e.Count }
func (e Remove[T]) LengthChange() int { return -e.Count }

func (e Remove[T]) apply(tree sumtree.Tree[T]) (sumtree.Tree[T], error) {
	return tree.RemoveRange(e.At, e.Count), nil
}

func (e Remove[T]) String() string {
	return fmt.Sprintf("remove [%d, %d)", e.At, e.At+e.Count)
}

// Replace removes the Count elements starting at At and inserts Content
// in their place.
type Replace[T any] struct {
	At      int
	Count   int
	Content []T
}

func (e Replace[T]) Pos() int          { return e.At }
func (e Replace[T]) Span() int         { return e.Count }
func (e Replace[T]) LengthChange() int { return len(e.Content) - e.Count }

func (e Replace[T]) apply(tree sumtree.Tree[T]) (sumtree.Tree[T], error) {
	return tree.RemoveRange(e.At, e.Count).InsertSlice(e.At, e.Content)
}

func (e Replace[T]) String() string {
	return fmt.Sprintf("replace [%d, %d) with %d elements", e.At, e.At+e.Count, len(e.Content))
}
