package sumtree

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import "fmt"

// cursorState enumerates the three cursor phases. A cursor starts before
// the first element, is positioned on exactly one element while scanning,
// and parks after the last element when it runs off the sequence.
type cursorState int8

const (
	atStart cursorState = iota
	positioned
	atEnd
)

// cursorFrame records one step of the descent path: the interior node,
// which child the path continued into, and the accumulated summary and
// absolute index at the node's left edge. The edge values let the
// cursor retreat without re-descending from the root.
type cursorFrame[T any] struct {
	node      *innerNode[T]
	wentRight bool
	before    any // accumulated summary of elements before the subtree
	index     int // absolute index of the subtree's first element
}

// Cursor walks a tree along one summary dimension.
//
// A cursor tracks the accumulated summary of all elements strictly
// before its current element, so seeking, slicing and searching can be
// expressed in summary space instead of element indices. Cursors are
// cheap snapshots: they keep the tree value they were created from, and
// stay valid regardless of what other operations derive from that tree.
//
// A cursor is not safe for concurrent use; Clone one per goroutine.
type Cursor[T any] struct {
	tree    Tree[T]
	dim     Dimension[T]
	stack   []cursorFrame[T]
	leaf    *leafNode[T]
	leafPos any // accumulated summary before the leaf's first element
	off     int // element offset within leaf
	index   int // absolute element index
	pos     any // accumulated summary of elements [0, index)
	state   cursorState
}

// Cursor returns a cursor over the tree bound to the dimension with the
// given ID, initially positioned before the first element. It fails with
// ErrMissingDimension if the dimension is not attached.
func (t Tree[T]) Cursor(id string) (*Cursor[T], error) {
	dim, err := t.dimension(id)
	if err != nil {
		return nil, err
	}
	return &Cursor[T]{tree: t, dim: dim, pos: dim.Identity()}, nil
}

// Clone returns an independent copy of the cursor at the same position.
func (c *Cursor[T]) Clone() *Cursor[T] {
	cc := *c
	cc.stack = make([]cursorFrame[T], len(c.stack))
	copy(cc.stack, c.stack)
	return &cc
}

// Start moves the cursor back before the first element.
func (c *Cursor[T]) Start() { c.reset() }

// AtStart reports whether the cursor is before the first element.
func (c *Cursor[T]) AtStart() bool { return c.state == atStart }

// AtEnd reports whether the cursor has run past the last element.
func (c *Cursor[T]) AtEnd() bool { return c.state == atEnd }

// Item returns the current element. The second return is false while the
// cursor is before the first or past the last element.
func (c *Cursor[T]) Item() (T, bool) {
	var zero T
	if c.state != positioned {
		return zero, false
	}
	return c.leaf.items[c.off], true
}

// Index returns the absolute index of the current element. At the start
// it is 0; at the end it is Len().
func (c *Cursor[T]) Index() int { return c.index }

// Position returns the accumulated summary of all elements strictly
// before the current element.
func (c *Cursor[T]) Position() any { return c.pos }

// End returns the accumulated summary including the current element.
// While unpositioned it equals Position.
func (c *Cursor[T]) End() any {
	if c.state != positioned {
		return c.pos
	}
	return c.dim.Combine(c.pos, c.dim.SummarizeElement(c.leaf.items[c.off]))
}

// Next advances the cursor by one element and reports whether it is now
// positioned on one. From the start state it moves onto the first
// element; once past the last element it stays at the end.
func (c *Cursor[T]) Next() bool {
	switch c.state {
	case atEnd:
		return false
	case atStart:
		return c.descendFirst()
	}
	c.pos = c.dim.Combine(c.pos, c.dim.SummarizeElement(c.leaf.items[c.off]))
	c.index++
	c.off++
	if c.off < len(c.leaf.items) {
		return true
	}
	return c.ascendNext()
}

// Previous moves the cursor back by one element. Stepping back from the
// first element parks the cursor at the start.
//
// Retreating stays leaf-local where it can: within the current leaf the
// position is recomputed from the leaf prefix, and only a leaf-boundary
// crossing climbs the stack to the nearest left sibling.
func (c *Cursor[T]) Previous() bool {
	switch c.state {
	case atStart:
		return false
	case atEnd:
		if c.tree.Len() == 0 {
			c.reset()
			return false
		}
		return c.moveTo(c.tree.Len() - 1)
	}
	if c.index == 0 {
		c.reset()
		return false
	}
	if c.off > 0 {
		c.off--
		c.index--
		c.pos = c.dim.Combine(c.leafPos, c.dim.SummarizeSpan(c.leaf.items[:c.off]))
		return true
	}
	return c.retreatLeaf()
}

// retreatLeaf pops to the nearest frame whose left subtree precedes the
// cursor and descends to that subtree's last element, restoring pos from
// the frame's edge values and cached left-subtree summaries.
func (c *Cursor[T]) retreatLeaf() bool {
	for len(c.stack) > 0 {
		top := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		if !top.wentRight {
			continue
		}
		c.stack = append(c.stack, cursorFrame[T]{node: top.node, before: top.before, index: top.index})
		acc := top.before
		idx := top.index
		n := top.node.left
		for !n.isLeaf() {
			inner := n.(*innerNode[T])
			c.stack = append(c.stack, cursorFrame[T]{node: inner, wentRight: true, before: acc, index: idx})
			acc = c.dim.Combine(acc, summarize(c.dim, inner.left))
			idx += inner.left.Len()
			n = inner.right
		}
		leaf := n.(*leafNode[T])
		c.leaf = leaf
		c.leafPos = acc
		c.off = len(leaf.items) - 1
		c.index = idx + c.off
		c.pos = c.dim.Combine(acc, c.dim.SummarizeSpan(leaf.items[:c.off]))
		c.state = positioned
		return true
	}
	c.reset()
	return false
}

// reset puts the cursor back before the first element.
func (c *Cursor[T]) reset() {
	c.stack = c.stack[:0]
	c.leaf = nil
	c.leafPos = c.dim.Identity()
	c.off = 0
	c.index = 0
	c.pos = c.dim.Identity()
	c.state = atStart
}

// park moves the cursor past the last element, with pos holding the
// whole-sequence summary.
func (c *Cursor[T]) park() bool {
	c.stack = c.stack[:0]
	c.leaf = nil
	c.leafPos = nil
	c.off = 0
	c.index = c.tree.Len()
	if c.tree.root == nil {
		c.pos = c.dim.Identity()
	} else {
		c.pos = summarize(c.dim, c.tree.root)
	}
	c.state = atEnd
	return false
}

// descendFirst positions the cursor on the first element.
func (c *Cursor[T]) descendFirst() bool {
	if c.tree.root == nil || c.tree.root.Len() == 0 {
		return c.park()
	}
	c.stack = c.stack[:0]
	identity := c.dim.Identity()
	n := c.tree.root
	for !n.isLeaf() {
		inner := n.(*innerNode[T])
		c.stack = append(c.stack, cursorFrame[T]{node: inner, before: identity})
		n = inner.left
	}
	c.leaf = n.(*leafNode[T])
	c.leafPos = identity
	c.off = 0
	c.index = 0
	c.pos = identity
	c.state = positioned
	return true
}

// ascendNext pops to the nearest unvisited right sibling and descends to
// its leftmost leaf. pos and index are already past the old leaf.
func (c *Cursor[T]) ascendNext() bool {
	for len(c.stack) > 0 {
		top := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		if top.wentRight {
			continue
		}
		c.stack = append(c.stack, cursorFrame[T]{node: top.node, wentRight: true, before: top.before, index: top.index})
		n := top.node.right
		for !n.isLeaf() {
			inner := n.(*innerNode[T])
			c.stack = append(c.stack, cursorFrame[T]{node: inner, before: c.pos, index: c.index})
			n = inner.left
		}
		c.leaf = n.(*leafNode[T])
		c.leafPos = c.pos
		c.off = 0
		c.state = positioned
		return true
	}
	return c.park()
}

// moveTo positions the cursor on the element at index, rebuilding the
// descent path and recomputing pos from cached subtree summaries and a
// leaf prefix scan.
func (c *Cursor[T]) moveTo(index int) bool {
	assert(index >= 0 && index < c.tree.Len(), "cursor moveTo out of range")
	c.stack = c.stack[:0]
	acc := c.dim.Identity()
	rest := index
	n := c.tree.root
	for !n.isLeaf() {
		inner := n.(*innerNode[T])
		if rest < inner.left.Len() {
			c.stack = append(c.stack, cursorFrame[T]{node: inner, before: acc, index: index - rest})
			n = inner.left
			continue
		}
		c.stack = append(c.stack, cursorFrame[T]{node: inner, wentRight: true, before: acc, index: index - rest})
		acc = c.dim.Combine(acc, summarize(c.dim, inner.left))
		rest -= inner.left.Len()
		n = inner.right
	}
	c.leaf = n.(*leafNode[T])
	c.leafPos = acc
	c.off = rest
	c.index = index
	c.pos = c.dim.Combine(acc, c.dim.SummarizeSpan(c.leaf.items[:rest]))
	c.state = positioned
	return true
}

// Seek positions the cursor at the first element whose inclusive
// accumulated summary satisfies the target under the given bias,
// searching from the beginning of the sequence. With BiasLeft the
// accumulated summary must compare at or beyond the target; with
// BiasRight strictly beyond, so equal boundaries resolve to the later
// position.
//
// Seek reports whether the cursor is positioned on an element. If the
// whole sequence compares below the target the cursor parks at the end
// and Seek returns false; it never fails loudly on overshoot, so callers
// can probe with targets beyond the sequence.
func (c *Cursor[T]) Seek(target any, bias Bias) bool {
	c.reset()
	return c.seekInternal(target, bias)
}

// SeekForward is Seek restricted to forward motion: the search starts at
// the current position instead of the beginning. Seeking to a target
// already reached leaves the cursor in place.
func (c *Cursor[T]) SeekForward(target any, bias Bias) bool {
	if c.state == atEnd {
		return false
	}
	if c.state == positioned && bias.reached(c.dim, c.End(), target) {
		return true
	}
	return c.seekInternal(target, bias)
}

// seekInternal scans forward from the current position until the
// inclusive accumulated summary reaches the target, descending by whole
// subtrees where cached summaries show the target is not inside.
func (c *Cursor[T]) seekInternal(target any, bias Bias) bool {
	if c.state == atStart {
		if c.tree.root == nil || c.tree.root.Len() == 0 {
			return c.park()
		}
		return c.seekDescend(c.tree.root, c.dim.Identity(), 0, target, bias)
	}
	// scan the remainder of the current leaf, then climb
	acc := c.pos
	for c.off < len(c.leaf.items) {
		next := c.dim.Combine(acc, c.dim.SummarizeElement(c.leaf.items[c.off]))
		if bias.reached(c.dim, next, target) {
			c.pos = acc
			c.state = positioned
			return true
		}
		acc = next
		c.off++
		c.index++
	}
	for len(c.stack) > 0 {
		top := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		if top.wentRight {
			continue
		}
		right := top.node.right
		inclusive := c.dim.Combine(acc, summarize(c.dim, right))
		if bias.reached(c.dim, inclusive, target) {
			c.stack = append(c.stack, cursorFrame[T]{node: top.node, wentRight: true, before: top.before, index: top.index})
			return c.seekDescend(right, acc, c.index, target, bias)
		}
		acc = inclusive
		c.index += right.Len()
	}
	return c.park()
}

// seekDescend drills into subtree n knowing the target lies inside it.
// acc and index describe the position at the subtree's left edge.
func (c *Cursor[T]) seekDescend(n treeNode[T], acc any, index int, target any, bias Bias) bool {
	for !n.isLeaf() {
		inner := n.(*innerNode[T])
		leftIncl := c.dim.Combine(acc, summarize(c.dim, inner.left))
		if bias.reached(c.dim, leftIncl, target) {
			c.stack = append(c.stack, cursorFrame[T]{node: inner, before: acc, index: index})
			n = inner.left
			continue
		}
		c.stack = append(c.stack, cursorFrame[T]{node: inner, wentRight: true, before: acc, index: index})
		acc = leftIncl
		index += inner.left.Len()
		n = inner.right
	}
	leaf := n.(*leafNode[T])
	edge := acc
	for i, elem := range leaf.items {
		next := c.dim.Combine(acc, c.dim.SummarizeElement(elem))
		if bias.reached(c.dim, next, target) {
			c.leaf = leaf
			c.leafPos = edge
			c.off = i
			c.index = index + i
			c.pos = acc
			c.state = positioned
			return true
		}
		acc = next
	}
	// the subtree promised the target but the leaf scan ran out; resume
	// climbing from here
	c.leaf = leaf
	c.leafPos = edge
	c.off = len(leaf.items)
	c.index = index + len(leaf.items)
	c.pos = acc
	c.state = positioned
	return c.seekInternal(target, bias)
}

// Slice advances the cursor to the target position like SeekForward and
// returns the span of elements skipped over, from the previous position
// up to but excluding the new one, as a tree carrying the full dimension
// set.
func (c *Cursor[T]) Slice(target any, bias Bias) (Tree[T], error) {
	from := c.startIndex()
	c.SeekForward(target, bias)
	return c.tree.SubTree(from, c.index-from)
}

// Suffix returns the rest of the sequence from the current element
// (inclusive) to the end, and parks the cursor at the end.
func (c *Cursor[T]) Suffix() Tree[T] {
	from := c.startIndex()
	c.park()
	suffix, err := c.tree.SubTree(from, c.tree.Len()-from)
	assert(err == nil, "suffix range fell outside its own tree")
	return suffix
}

// Summary returns the residual aggregate of the sequence from the
// current element (inclusive) to the end, without moving the cursor.
func (c *Cursor[T]) Summary() any {
	switch c.state {
	case atEnd:
		return c.dim.Identity()
	case atStart:
		if c.tree.root == nil {
			return c.dim.Identity()
		}
		return summarize(c.dim, c.tree.root)
	}
	acc := c.dim.SummarizeSpan(c.leaf.items[c.off:])
	for i := len(c.stack) - 1; i >= 0; i-- {
		if !c.stack[i].wentRight {
			acc = c.dim.Combine(acc, summarize(c.dim, c.stack[i].node.right))
		}
	}
	return acc
}

// startIndex is the index of the first element not yet passed.
func (c *Cursor[T]) startIndex() int {
	if c.state == atStart {
		return 0
	}
	return c.index
}

// SearchForward advances the cursor to the first element at or after the
// current position whose inclusive accumulated summary satisfies pred,
// and returns that element.
//
// pred must be monotone along the sequence: once true for a prefix it
// stays true for every longer prefix. Subtrees whose combined summary
// leaves pred false are skipped using cached summaries. If no element
// satisfies pred the cursor is restored to its position before the call
// and the second return is false.
func (c *Cursor[T]) SearchForward(pred func(sum any) bool) (T, bool) {
	var zero T
	saved := c.Clone()
	if c.state == atStart && !c.Next() {
		*c = *saved
		return zero, false
	}
	if c.state == atEnd {
		return zero, false
	}
	// current leaf first
	for {
		for c.off < len(c.leaf.items) {
			elem := c.leaf.items[c.off]
			next := c.dim.Combine(c.pos, c.dim.SummarizeElement(elem))
			if pred(next) {
				c.state = positioned
				return elem, true
			}
			c.pos = next
			c.off++
			c.index++
		}
		advanced := false
		for len(c.stack) > 0 {
			top := c.stack[len(c.stack)-1]
			c.stack = c.stack[:len(c.stack)-1]
			if top.wentRight {
				continue
			}
			right := top.node.right
			rightSum := summarize(c.dim, right)
			if !pred(c.dim.Combine(c.pos, rightSum)) {
				// whole subtree cannot satisfy pred; skip it
				c.pos = c.dim.Combine(c.pos, rightSum)
				c.index += right.Len()
				continue
			}
			c.stack = append(c.stack, cursorFrame[T]{node: top.node, wentRight: true, before: top.before, index: top.index})
			n := right
			for !n.isLeaf() {
				inner := n.(*innerNode[T])
				leftSum := summarize(c.dim, inner.left)
				if !pred(c.dim.Combine(c.pos, leftSum)) {
					c.stack = append(c.stack, cursorFrame[T]{node: inner, wentRight: true, before: c.pos, index: c.index})
					c.pos = c.dim.Combine(c.pos, leftSum)
					c.index += inner.left.Len()
					n = inner.right
					continue
				}
				c.stack = append(c.stack, cursorFrame[T]{node: inner, before: c.pos, index: c.index})
				n = inner.left
			}
			c.leaf = n.(*leafNode[T])
			c.leafPos = c.pos
			c.off = 0
			advanced = true
			break
		}
		if !advanced {
			*c = *saved
			return zero, false
		}
	}
}

// SearchBackward moves the cursor back to the last element before the
// current position whose accumulated summary strictly before it
// satisfies pred, and returns that element.
//
// pred must be prefix-closed: true for some position implies true for
// every earlier position. If no such element exists the cursor is
// restored and the second return is false.
func (c *Cursor[T]) SearchBackward(pred func(sum any) bool) (T, bool) {
	var zero T
	if c.tree.Len() == 0 || c.state == atStart {
		return zero, false
	}
	limit := c.index // positions strictly before the current element
	if c.state == atEnd {
		limit = c.tree.Len()
	}
	// binary descent for the first position where pred turns false
	firstFalse := c.firstFalsePrefix(pred, limit)
	if firstFalse == 0 {
		return zero, false
	}
	saved := c.Clone()
	if !c.moveTo(firstFalse - 1) {
		*c = *saved
		return zero, false
	}
	if !pred(c.pos) {
		*c = *saved
		return zero, false
	}
	item, _ := c.Item()
	return item, true
}

// firstFalsePrefix returns the smallest index i < limit with pred of the
// prefix summary before element i false, or limit if pred holds for all
// of them.
func (c *Cursor[T]) firstFalsePrefix(pred func(sum any) bool, limit int) int {
	acc := c.dim.Identity()
	if !pred(acc) {
		return 0
	}
	index := 0
	n := c.tree.root
	for n != nil && !n.isLeaf() {
		inner := n.(*innerNode[T])
		leftIncl := c.dim.Combine(acc, summarize(c.dim, inner.left))
		boundary := index + inner.left.Len()
		if boundary < limit && pred(leftIncl) {
			acc = leftIncl
			index = boundary
			n = inner.right
		} else {
			n = inner.left
		}
	}
	if n == nil {
		return limit
	}
	for _, elem := range n.(*leafNode[T]).items {
		if index >= limit {
			return limit
		}
		if !pred(acc) {
			return index
		}
		acc = c.dim.Combine(acc, c.dim.SummarizeElement(elem))
		index++
	}
	if index < limit && !pred(acc) {
		return index
	}
	return limit
}

// String renders the cursor state for tracing.
func (c *Cursor[T]) String() string {
	switch c.state {
	case atStart:
		return "cursor(at start)"
	case atEnd:
		return fmt.Sprintf("cursor(at end, pos=%v)", c.pos)
	}
	return fmt.Sprintf("cursor(#%d, pos=%v)", c.index, c.pos)
}
