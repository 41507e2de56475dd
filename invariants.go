package sumtree

import "fmt"

// CheckInvariants verifies structural and summary consistency of the
// tree and returns the first violation found, or nil.
//
// It recomputes every cached summary from leaf buffers and compares it
// to the cache with the dimension's own Compare, so a dimension whose
// Combine is not associative will usually be caught here. Intended for
// tests and debugging; it walks the whole tree.
func (t Tree[T]) CheckInvariants() error {
	if t.root == nil {
		return nil
	}
	rootDims := t.root.table()
	for i := 1; i < len(rootDims); i++ {
		if rootDims[i-1].dim.ID() >= rootDims[i].dim.ID() {
			return fmt.Errorf("summary table not strictly ordered at %q", rootDims[i].dim.ID())
		}
	}
	_, err := checkNode(t.root, rootDims)
	return err
}

// checkNode validates one subtree and returns its recomputed element
// count.
func checkNode[T any](n treeNode[T], dims summaryTable[T]) (int, error) {
	if len(n.table()) != len(dims) {
		return 0, fmt.Errorf("node carries %d dimensions, root carries %d", len(n.table()), len(dims))
	}
	if leaf, ok := n.(*leafNode[T]); ok {
		if len(leaf.items) > maxLeafLen[T]() {
			return 0, fmt.Errorf("leaf holds %d elements, capacity is %d", len(leaf.items), maxLeafLen[T]())
		}
		for _, e := range leaf.sums {
			want := e.dim.SummarizeSpan(leaf.items)
			if e.dim.Compare(e.sum, want) != 0 {
				return 0, fmt.Errorf("leaf summary for %q is %v, recomputed %v", e.dim.ID(), e.sum, want)
			}
		}
		return len(leaf.items), nil
	}
	inner := n.(*innerNode[T])
	if inner.left.Len() == 0 || inner.right.Len() == 0 {
		return 0, fmt.Errorf("inner node has an empty child")
	}
	ln, err := checkNode(inner.left, dims)
	if err != nil {
		return 0, err
	}
	rn, err := checkNode(inner.right, dims)
	if err != nil {
		return 0, err
	}
	if inner.length != ln+rn {
		return 0, fmt.Errorf("inner node caches length %d, children total %d", inner.length, ln+rn)
	}
	depth := max(inner.left.Depth(), inner.right.Depth()) + 1
	if inner.depth != depth {
		return 0, fmt.Errorf("inner node caches depth %d, children imply %d", inner.depth, depth)
	}
	if inner.leaves != inner.left.LeafCount()+inner.right.LeafCount() {
		return 0, fmt.Errorf("inner node caches %d leaves, children total %d", inner.leaves,
			inner.left.LeafCount()+inner.right.LeafCount())
	}
	if inner.balanced != lengthBalanced(inner.length, inner.depth) {
		return 0, fmt.Errorf("inner node caches balanced=%v for length %d at depth %d",
			inner.balanced, inner.length, inner.depth)
	}
	for _, e := range inner.sums {
		lsum := summarize(e.dim, inner.left)
		rsum := summarize(e.dim, inner.right)
		want := e.dim.Combine(lsum, rsum)
		if e.dim.Compare(e.sum, want) != 0 {
			return 0, fmt.Errorf("inner summary for %q is %v, recomputed %v", e.dim.ID(), e.sum, want)
		}
	}
	return inner.length, nil
}
