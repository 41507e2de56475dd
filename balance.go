package sumtree

// maxTreeDepth caps the depth for which the Fibonacci balance criterion
// is evaluated. fib(maxTreeDepth) still fits an int on 32-bit platforms;
// a deeper tree is unconditionally considered degenerate.
const maxTreeDepth = 46

// fibs[d] is the minimum-length baseline for depth d. Initialized once,
// immutable afterwards.
var fibs = computeFibs()

func computeFibs() [maxTreeDepth + 1]int {
	var f [maxTreeDepth + 1]int
	f[0], f[1] = 0, 1
	for i := 2; i <= maxTreeDepth; i++ {
		f[i] = f[i-1] + f[i-2]
	}
	return f
}

// lengthBalanced reports whether a subtree of the given length and depth
// meets the Fibonacci-derived minimum length for its depth. This is the
// rebalancing trigger, not a strict AVL-style invariant: a node failing
// it signals a degenerate, chain-like shape.
func lengthBalanced(length, depth int) bool {
	if depth > maxTreeDepth {
		return false
	}
	return length >= fibs[depth]+2
}

// IsBalanced reports whether the tree currently meets the balance
// criterion. Trees returned from structural operations always do.
func (t Tree[T]) IsBalanced() bool {
	if t.root == nil || t.root.isLeaf() {
		return true
	}
	return t.root.(*innerNode[T]).balanced
}

// Balanced returns a tree with the same content and summaries, rebalanced
// into pairwise-merged shape. Balanced is idempotent: rebalancing an
// already-rebalanced tree reproduces it.
func (t Tree[T]) Balanced() Tree[T] {
	if t.root == nil || t.root.isLeaf() {
		return t
	}
	return Tree[T]{root: rebalance(t.root)}
}

// rebalance rebuilds a subtree from its flat leaf sequence.
//
// All leaves are collected left-to-right, then adjacent pairs are merged
// repeatedly until a single tree remains. Adjacent leaf buffers that fit
// a single leaf are fused; otherwise the pair becomes an interior node.
// The result has depth ⌈log2(leafCount)⌉, since pairs are merged per
// round rather than folded sequentially.
//
// The merge loop is bounded by maxTreeDepth rounds. Exceeding the bound
// is a fatal invariant violation: it means the balance threshold itself
// is miscalibrated for the depth cap, not a recoverable input error.
func rebalance[T any](n treeNode[T]) treeNode[T] {
	leaves := collectLeaves(n)
	assert(len(leaves) > 0, "rebalance on subtree without leaves")
	tracer().Debugf("rebalancing subtree: %d leaves, depth %d", len(leaves), n.Depth())
	maxItems := maxLeafLen[T]()
	nodes := make([]treeNode[T], len(leaves))
	for i, leaf := range leaves {
		nodes[i] = leaf
	}
	rounds := 0
	for len(nodes) > 1 {
		rounds++
		assert(rounds <= maxTreeDepth, "rebalance exceeded depth guard")
		merged := nodes[:0]
		for i := 0; i < len(nodes); i += 2 {
			if i+1 == len(nodes) {
				merged = append(merged, nodes[i])
				break
			}
			merged = append(merged, mergePair(nodes[i], nodes[i+1], maxItems))
		}
		nodes = merged
	}
	return nodes[0]
}

// mergePair joins two adjacent subtrees during rebalancing, fusing two
// small leaves into one buffer when possible.
func mergePair[T any](a, b treeNode[T], maxItems int) treeNode[T] {
	la, aok := a.(*leafNode[T])
	lb, bok := b.(*leafNode[T])
	if aok && bok && len(la.items)+len(lb.items) <= maxItems {
		return fuseLeaves(la, lb)
	}
	return makeInner(a, b)
}

// fuseLeaves concatenates two leaf buffers into a fresh leaf carrying the
// union of both dimension sets.
func fuseLeaves[T any](a, b *leafNode[T]) *leafNode[T] {
	items := make([]T, 0, len(a.items)+len(b.items))
	items = append(items, a.items...)
	items = append(items, b.items...)
	return makeLeaf(items, unionDims(a.sums, b.sums))
}

// unionDims merges two dimension registrations by ID, dropping cached
// values (the caller recomputes summaries for its new buffer).
func unionDims[T any](a, b summaryTable[T]) summaryTable[T] {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return b
	}
	out := make(summaryTable[T], 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && a[i].dim.ID() < b[j].dim.ID()):
			out = append(out, a[i])
			i++
		case i >= len(a) || a[i].dim.ID() > b[j].dim.ID():
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i, j = i+1, j+1
		}
	}
	return out
}

// collectLeaves returns all leaves under n in left-to-right order,
// iteratively (no recursion, no thread-local state).
func collectLeaves[T any](n treeNode[T]) []*leafNode[T] {
	var leaves []*leafNode[T]
	stack := []treeNode[T]{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if leaf, ok := cur.(*leafNode[T]); ok {
			leaves = append(leaves, leaf)
			continue
		}
		inner := cur.(*innerNode[T])
		stack = append(stack, inner.right, inner.left)
	}
	return leaves
}
