package sumtree

import "unsafe"

// leafMemoryBudget is the target size in bytes of a leaf buffer. It is
// cache-line aligned and small enough to avoid pathological allocations
// for element types of any size.
const leafMemoryBudget = 512

// maxLeafLen derives the leaf capacity for element type T from the fixed
// memory budget.
func maxLeafLen[T any]() int {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		size = 1
	}
	n := leafMemoryBudget / size
	if n < 1 {
		n = 1
	}
	return n
}

// dimEntry pairs a registered dimension instance with the cached summary
// value for one subtree.
type dimEntry[T any] struct {
	dim Dimension[T]
	sum any
}

// summaryTable maps dimension identity to (instance, cached summary) for
// one node. Entries are kept sorted by dimension ID. Tables are immutable
// after node construction; derived nodes get fresh tables.
type summaryTable[T any] []dimEntry[T]

func (tab summaryTable[T]) find(id string) (dimEntry[T], bool) {
	for _, e := range tab {
		if e.dim.ID() == id {
			return e, true
		}
	}
	return dimEntry[T]{}, false
}

// with returns a copy of the table with an entry added or replaced,
// preserving ID order.
func (tab summaryTable[T]) with(dim Dimension[T], sum any) summaryTable[T] {
	out := make(summaryTable[T], 0, len(tab)+1)
	inserted := false
	for _, e := range tab {
		switch {
		case e.dim.ID() == dim.ID():
			out = append(out, dimEntry[T]{dim: dim, sum: sum})
			inserted = true
		case !inserted && e.dim.ID() > dim.ID():
			out = append(out, dimEntry[T]{dim: dim, sum: sum})
			out = append(out, e)
			inserted = true
		default:
			out = append(out, e)
		}
	}
	if !inserted {
		out = append(out, dimEntry[T]{dim: dim, sum: sum})
	}
	return out
}

// treeNode is the tagged sum over the two node variants. Nodes are
// immutable once returned from a make-helper and may be shared between
// any number of trees.
type treeNode[T any] interface {
	isLeaf() bool
	Len() int
	Depth() int
	LeafCount() int
	table() summaryTable[T]
}

// leafNode owns a contiguous immutable buffer of elements.
type leafNode[T any] struct {
	items []T
	sums  summaryTable[T]
}

func (l *leafNode[T]) isLeaf() bool           { return true }
func (l *leafNode[T]) Len() int               { return len(l.items) }
func (l *leafNode[T]) Depth() int             { return 0 }
func (l *leafNode[T]) LeafCount() int         { return 1 }
func (l *leafNode[T]) table() summaryTable[T] { return l.sums }

// innerNode owns two child subtrees. Children are held by shared pointer,
// never raw-copied: trees are immutable and widely shared.
type innerNode[T any] struct {
	left, right treeNode[T]
	length      int
	depth       int
	leaves      int
	balanced    bool
	sums        summaryTable[T]
}

func (n *innerNode[T]) isLeaf() bool           { return false }
func (n *innerNode[T]) Len() int               { return n.length }
func (n *innerNode[T]) Depth() int             { return n.depth }
func (n *innerNode[T]) LeafCount() int         { return n.leaves }
func (n *innerNode[T]) table() summaryTable[T] { return n.sums }

// makeLeaf materializes a leaf over items, computing one span summary per
// dimension. The buffer is owned by the leaf and must not be mutated by
// the caller afterwards.
func makeLeaf[T any](items []T, dims summaryTable[T]) *leafNode[T] {
	leaf := &leafNode[T]{items: items}
	if len(dims) > 0 {
		leaf.sums = make(summaryTable[T], len(dims))
		for i, e := range dims {
			leaf.sums[i] = dimEntry[T]{dim: e.dim, sum: e.dim.SummarizeSpan(items)}
		}
	}
	return leaf
}

// makeInner materializes an interior node over two children, deriving
// length, depth, leaf count and the balanced flag, and combining child
// summaries for the union of both children's dimension sets.
//
// If a dimension is registered on only one child, the other child's
// summary is computed synchronously before combining; it is never
// silently treated as identity.
func makeInner[T any](left, right treeNode[T]) *innerNode[T] {
	assert(left != nil && right != nil, "makeInner called with nil child")
	depth := left.Depth()
	if right.Depth() > depth {
		depth = right.Depth()
	}
	depth++
	n := &innerNode[T]{
		left:   left,
		right:  right,
		length: left.Len() + right.Len(),
		depth:  depth,
		leaves: left.LeafCount() + right.LeafCount(),
	}
	n.balanced = lengthBalanced(n.length, depth)
	n.sums = combineTables(left, right)
	return n
}

// combineTables builds the summary table for a fresh interior node from
// the union of both children's dimension sets.
func combineTables[T any](left, right treeNode[T]) summaryTable[T] {
	lt, rt := left.table(), right.table()
	if len(lt) == 0 && len(rt) == 0 {
		return nil
	}
	out := make(summaryTable[T], 0, len(lt)+len(rt))
	i, j := 0, 0
	for i < len(lt) || j < len(rt) {
		switch {
		case j >= len(rt) || (i < len(lt) && lt[i].dim.ID() < rt[j].dim.ID()):
			e := lt[i]
			out = append(out, dimEntry[T]{dim: e.dim, sum: e.dim.Combine(e.sum, summarize(e.dim, right))})
			i++
		case i >= len(lt) || lt[i].dim.ID() > rt[j].dim.ID():
			e := rt[j]
			out = append(out, dimEntry[T]{dim: e.dim, sum: e.dim.Combine(summarize(e.dim, left), e.sum)})
			j++
		default:
			e := lt[i]
			out = append(out, dimEntry[T]{dim: e.dim, sum: e.dim.Combine(e.sum, rt[j].sum)})
			i++
			j++
		}
	}
	return out
}

// summarize returns the summary of subtree n under dim, using the cached
// value when present and recomputing by walking the subtree otherwise.
func summarize[T any](dim Dimension[T], n treeNode[T]) any {
	if n == nil {
		return dim.Identity()
	}
	if e, ok := n.table().find(dim.ID()); ok {
		return e.sum
	}
	if leaf, ok := n.(*leafNode[T]); ok {
		return dim.SummarizeSpan(leaf.items)
	}
	inner := n.(*innerNode[T])
	return dim.Combine(summarize(dim, inner.left), summarize(dim, inner.right))
}
