package sumtree

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import "fmt"

// Concat returns the concatenation of t and u. The empty tree is a
// neutral element on either side. Small adjacent leaves are fused into a
// single buffer; otherwise the operands become children of a fresh
// interior node. If the joined tree fails the balance criterion it is
// rebalanced before being returned.
//
// Dimension sets are unioned: a dimension attached to only one operand is
// recomputed for the other operand's subtree during the join, so the
// result carries exact summaries for every attached dimension.
func Concat[T any](t, u Tree[T]) Tree[T] {
	if t.IsEmpty() {
		if u.IsEmpty() {
			return mergedEmpty(t, u)
		}
		return Tree[T]{root: adoptDims(u.root, t.root)}
	}
	if u.IsEmpty() {
		return Tree[T]{root: adoptDims(t.root, u.root)}
	}
	// Push dimensions missing on either operand down into the other
	// before joining, so every node of the result carries the full
	// union set with exact cached summaries.
	joined := concatNodes(adoptDims(t.root, u.root), adoptDims(u.root, t.root))
	out := Tree[T]{root: joined}
	if !out.IsBalanced() {
		out = out.Balanced()
	}
	return out
}

// Concat appends u to the receiver. Method form of the package-level
// Concat.
func (t Tree[T]) Concat(u Tree[T]) Tree[T] {
	return Concat(t, u)
}

// mergedEmpty joins two empty trees, keeping the union of their
// dimension registrations.
func mergedEmpty[T any](t, u Tree[T]) Tree[T] {
	var lt, rt summaryTable[T]
	if t.root != nil {
		lt = t.root.table()
	}
	if u.root != nil {
		rt = u.root.table()
	}
	if len(lt) == 0 && len(rt) == 0 {
		return Tree[T]{}
	}
	return Tree[T]{root: makeLeaf(nil, unionDims(lt, rt))}
}

// adoptDims returns n extended by any dimensions registered on other but
// not on n. other may be nil or empty; only its registrations matter.
func adoptDims[T any](n, other treeNode[T]) treeNode[T] {
	if other == nil {
		return n
	}
	for _, e := range other.table() {
		if _, ok := n.table().find(e.dim.ID()); !ok {
			n = attachNode(n, e.dim)
		}
	}
	return n
}

func concatNodes[T any](left, right treeNode[T]) treeNode[T] {
	ll, lok := left.(*leafNode[T])
	rl, rok := right.(*leafNode[T])
	if lok && rok && len(ll.items)+len(rl.items) <= maxLeafLen[T]() {
		return fuseLeaves(ll, rl)
	}
	return makeInner(left, right)
}

// SplitAt splits the tree before index, returning the prefix [0, index)
// and the suffix [index, Len()). The index is clamped to [0, Len()], so
// SplitAt never fails; out-of-range splits just yield an empty half.
//
// Both halves carry the full dimension set with exact summaries and
// share all untouched leaf buffers with the receiver.
func (t Tree[T]) SplitAt(index int) (Tree[T], Tree[T]) {
	if index < 0 {
		index = 0
	}
	if index > t.Len() {
		index = t.Len()
	}
	if t.root == nil {
		return Tree[T]{}, Tree[T]{}
	}
	switch index {
	case 0:
		return Tree[T]{root: makeLeaf(nil, t.root.table())}, t
	case t.Len():
		return t, Tree[T]{root: makeLeaf(nil, t.root.table())}
	}
	// Descend along the split path, parking each untouched sibling on the
	// side it belongs to. Siblings accumulate outside-in, so each side is
	// folded back inside-out after the leaf is cut.
	var leftSibs, rightSibs []treeNode[T]
	n := t.root
	for !n.isLeaf() {
		inner := n.(*innerNode[T])
		if index < inner.left.Len() {
			rightSibs = append(rightSibs, inner.right)
			n = inner.left
		} else {
			leftSibs = append(leftSibs, inner.left)
			index -= inner.left.Len()
			n = inner.right
		}
	}
	// The leaf fragment on the left is empty when the split falls on a
	// leaf boundary; it is dropped rather than folded in, so no junk
	// empty leaves end up inside either half.
	leaf := n.(*leafNode[T])
	var left treeNode[T]
	if index > 0 {
		left = makeLeaf(leaf.items[:index:index], leaf.sums)
	}
	right := treeNode[T](makeLeaf(leaf.items[index:], leaf.sums))
	for i := len(leftSibs) - 1; i >= 0; i-- {
		if left == nil {
			left = leftSibs[i]
			continue
		}
		left = concatNodes(leftSibs[i], left)
	}
	assert(left != nil, "split prefix lost its content")
	for i := len(rightSibs) - 1; i >= 0; i-- {
		right = concatNodes(right, rightSibs[i])
	}
	lt := Tree[T]{root: left}
	rt := Tree[T]{root: right}
	if !lt.IsBalanced() {
		lt = lt.Balanced()
	}
	if !rt.IsBalanced() {
		rt = rt.Balanced()
	}
	return lt, rt
}

// Insert returns a tree with item inserted before index. index == Len()
// appends. Insert is precise: an index outside [0, Len()] fails with
// ErrIndexOutOfBounds.
func (t Tree[T]) Insert(index int, item T) (Tree[T], error) {
	return t.InsertSlice(index, []T{item})
}

// InsertSlice returns a tree with items inserted before index, via
// split-concat-concat. The inserted run is chunked into fresh leaves and
// inherits the receiver's dimension set.
func (t Tree[T]) InsertSlice(index int, items []T) (Tree[T], error) {
	if index < 0 || index > t.Len() {
		return Tree[T]{}, fmt.Errorf("%w: insert at %d of %d", ErrIndexOutOfBounds, index, t.Len())
	}
	if len(items) == 0 {
		return t, nil
	}
	mid := FromSlice(items)
	if index == 0 {
		return Concat(mid, t), nil
	}
	if index == t.Len() {
		return Concat(t, mid), nil
	}
	prefix, suffix := t.SplitAt(index)
	return Concat(Concat(prefix, mid), suffix), nil
}

// RemoveRange returns a tree with count elements removed starting at
// start. The range is clamped to the sequence, so RemoveRange never
// fails; removing from an out-of-range position removes nothing.
func (t Tree[T]) RemoveRange(start, count int) Tree[T] {
	if start < 0 {
		count += start
		start = 0
	}
	if count <= 0 || start >= t.Len() {
		return t
	}
	prefix, rest := t.SplitAt(start)
	_, suffix := rest.SplitAt(count)
	return Concat(prefix, suffix)
}

// SubTree returns the subsequence of length elements starting at index,
// sharing leaf buffers with the receiver where possible. SubTree is
// precise: a range not fully inside the sequence fails with
// ErrIndexOutOfBounds.
func (t Tree[T]) SubTree(index, length int) (Tree[T], error) {
	if index < 0 || length < 0 || index+length > t.Len() {
		return Tree[T]{}, fmt.Errorf("%w: subtree [%d, %d) of %d", ErrIndexOutOfBounds,
			index, index+length, t.Len())
	}
	_, rest := t.SplitAt(index)
	sub, _ := rest.SplitAt(length)
	return sub, nil
}

// Report returns the elements [index, index+length) materialized as a
// fresh slice. Precise like SubTree.
func (t Tree[T]) Report(index, length int) ([]T, error) {
	sub, err := t.SubTree(index, length)
	if err != nil {
		return nil, err
	}
	return sub.Slice(), nil
}

// Append returns a tree with items appended at the end.
func (t Tree[T]) Append(items ...T) Tree[T] {
	if len(items) == 0 {
		return t
	}
	return Concat(t, FromSlice(items))
}
