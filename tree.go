package sumtree

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import "fmt"

// Tree stores an immutable ordered sequence of elements of type T,
// together with cached summaries for every attached dimension.
//
// A tree created by
//
//	Tree[T]{}
//
// is a valid object and behaves like the empty sequence. Every structural
// operation returns a new tree value sharing untouched subtrees with its
// operands; no operation ever mutates a node reachable from another live
// tree handle.
type Tree[T any] struct {
	root treeNode[T]
}

// New returns an empty tree. Equivalent to the zero value, provided for
// symmetry with the other constructors.
func New[T any]() Tree[T] {
	return Tree[T]{}
}

// Single returns a tree holding one element.
func Single[T any](item T, dims ...Dimension[T]) Tree[T] {
	return FromSlice([]T{item}, dims...)
}

// FromSlice builds a tree over a copy of items, with the given dimensions
// attached. The items are chunked into leaves of at most MaxLeafLen
// elements and merged pairwise, so the result is balanced by
// construction.
func FromSlice[T any](items []T, dims ...Dimension[T]) Tree[T] {
	table := make(summaryTable[T], 0, len(dims))
	for _, dim := range dims {
		assert(dim != nil && dim.ID() != "", "FromSlice requires valid dimensions")
		table = table.with(dim, nil)
	}
	if len(items) == 0 {
		if len(table) == 0 {
			return Tree[T]{}
		}
		return Tree[T]{root: makeLeaf(nil, table)}
	}
	maxItems := maxLeafLen[T]()
	leaves := make([]treeNode[T], 0, (len(items)+maxItems-1)/maxItems)
	for start := 0; start < len(items); start += maxItems {
		end := start + maxItems
		if end > len(items) {
			end = len(items)
		}
		buf := make([]T, end-start)
		copy(buf, items[start:end])
		leaves = append(leaves, makeLeaf(buf, table))
	}
	for len(leaves) > 1 {
		merged := leaves[:0]
		for i := 0; i < len(leaves); i += 2 {
			if i+1 == len(leaves) {
				merged = append(merged, leaves[i])
				break
			}
			merged = append(merged, makeInner(leaves[i], leaves[i+1]))
		}
		leaves = merged
	}
	return Tree[T]{root: leaves[0]}
}

// MaxLeafLen returns the leaf capacity for element type T, derived from a
// fixed memory budget.
func MaxLeafLen[T any]() int {
	return maxLeafLen[T]()
}

// IsEmpty reports whether the tree has no elements.
func (t Tree[T]) IsEmpty() bool {
	return t.root == nil || t.root.Len() == 0
}

// Len returns the number of elements in the tree.
func (t Tree[T]) Len() int {
	if t.root == nil {
		return 0
	}
	return t.root.Len()
}

// Depth returns the tree depth, where 0 means empty or a single leaf.
func (t Tree[T]) Depth() int {
	if t.root == nil {
		return 0
	}
	return t.root.Depth()
}

// LeafCount returns the number of leaf buffers. Informational; useful for
// diagnostics and fragmentation checks.
func (t Tree[T]) LeafCount() int {
	if t.root == nil {
		return 0
	}
	return t.root.LeafCount()
}

// At returns the element at index.
//
// Indexing is precise: an index outside [0, Len()) yields
// ErrIndexOutOfBounds, never a clamped element.
func (t Tree[T]) At(index int) (T, error) {
	var zero T
	if index < 0 || t.root == nil || index >= t.root.Len() {
		return zero, ErrIndexOutOfBounds
	}
	n := t.root
	for !n.isLeaf() {
		inner := n.(*innerNode[T])
		if index < inner.left.Len() {
			n = inner.left
		} else {
			index -= inner.left.Len()
			n = inner.right
		}
	}
	return n.(*leafNode[T]).items[index], nil
}

// HasDimension reports whether a dimension with the given ID is attached.
func (t Tree[T]) HasDimension(id string) bool {
	if t.root == nil {
		return false
	}
	_, ok := t.root.table().find(id)
	return ok
}

// dimension returns the registered instance for id.
func (t Tree[T]) dimension(id string) (Dimension[T], error) {
	if t.root != nil {
		if e, ok := t.root.table().find(id); ok {
			return e.dim, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrMissingDimension, id)
}

// AttachDimension returns a new tree with dim attached, its summary
// computed bottom-up for the whole tree in a single eager pass. Leaf
// buffers are shared with the receiver; node cells are rebuilt because
// per-node summary caches are immutable after construction.
//
// Attaching a dimension whose ID is already registered recomputes and
// replaces that registration.
func (t Tree[T]) AttachDimension(dim Dimension[T]) (Tree[T], error) {
	if dim == nil || dim.ID() == "" {
		return Tree[T]{}, fmt.Errorf("%w: missing ID", ErrInvalidDimension)
	}
	if t.root == nil {
		table := summaryTable[T]{}.with(dim, dim.Identity())
		return Tree[T]{root: &leafNode[T]{sums: table}}, nil
	}
	return Tree[T]{root: attachNode(t.root, dim)}, nil
}

func attachNode[T any](n treeNode[T], dim Dimension[T]) treeNode[T] {
	if leaf, ok := n.(*leafNode[T]); ok {
		return &leafNode[T]{
			items: leaf.items,
			sums:  leaf.sums.with(dim, dim.SummarizeSpan(leaf.items)),
		}
	}
	inner := n.(*innerNode[T])
	left := attachNode(inner.left, dim)
	right := attachNode(inner.right, dim)
	lsum, _ := left.table().find(dim.ID())
	rsum, _ := right.table().find(dim.ID())
	return &innerNode[T]{
		left:     left,
		right:    right,
		length:   inner.length,
		depth:    inner.depth,
		leaves:   inner.leaves,
		balanced: inner.balanced,
		sums:     inner.sums.with(dim, dim.Combine(lsum.sum, rsum.sum)),
	}
}

// Summary returns the cached aggregate value of the whole tree under the
// dimension with the given ID. It fails with ErrMissingDimension if the
// dimension is not attached; the identity value is never returned as a
// disguised default.
func (t Tree[T]) Summary(id string) (any, error) {
	if t.root == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingDimension, id)
	}
	e, ok := t.root.table().find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingDimension, id)
	}
	return e.sum, nil
}

// PrefixSummary returns the accumulated summary of elements [0, index)
// under the dimension with the given ID, in O(log n) using cached subtree
// summaries. index is clamped to [0, Len()].
func (t Tree[T]) PrefixSummary(id string, index int) (any, error) {
	dim, err := t.dimension(id)
	if err != nil {
		return nil, err
	}
	acc := dim.Identity()
	if index <= 0 || t.root == nil {
		return acc, nil
	}
	n := t.root
	for !n.isLeaf() {
		inner := n.(*innerNode[T])
		if index < inner.left.Len() {
			n = inner.left
			continue
		}
		acc = dim.Combine(acc, summarize(dim, inner.left))
		index -= inner.left.Len()
		n = inner.right
	}
	leaf := n.(*leafNode[T])
	if index >= len(leaf.items) {
		return dim.Combine(acc, summarize(dim, n)), nil
	}
	return dim.Combine(acc, dim.SummarizeSpan(leaf.items[:index])), nil
}

// FindPosition binary-searches the tree for the first element index whose
// inclusive prefix summary satisfies pred, descending into the left
// subtree whenever the predicate could already be satisfied there.
//
// It returns the index of that element and the accumulated summary
// strictly before it. If no prefix satisfies pred, the returned index is
// Len(), the summary is the whole-tree aggregate, and the error is
// ErrPositionNotFound.
func (t Tree[T]) FindPosition(id string, pred func(sum any) bool) (int, any, error) {
	dim, err := t.dimension(id)
	if err != nil {
		return 0, nil, err
	}
	acc := dim.Identity()
	if t.root == nil || t.root.Len() == 0 {
		return 0, acc, ErrPositionNotFound
	}
	index := 0
	n := t.root
	for !n.isLeaf() {
		inner := n.(*innerNode[T])
		leftInclusive := dim.Combine(acc, summarize(dim, inner.left))
		if pred(leftInclusive) {
			n = inner.left
			continue
		}
		acc = leftInclusive
		index += inner.left.Len()
		n = inner.right
	}
	for i, elem := range n.(*leafNode[T]).items {
		next := dim.Combine(acc, dim.SummarizeElement(elem))
		if pred(next) {
			return index + i, acc, nil
		}
		acc = next
	}
	return t.root.Len(), acc, ErrPositionNotFound
}
