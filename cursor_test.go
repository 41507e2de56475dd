package sumtree

import (
	"testing"
)

func TestCursorTraversal(t *testing.T) {
	items := ints(500)
	tree := FromSlice(items, countDim{})
	cur, err := tree.Cursor("count")
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	if !cur.AtStart() {
		t.Fatalf("fresh cursor not at start")
	}
	i := 0
	for cur.Next() {
		v, ok := cur.Item()
		if !ok || v != items[i] {
			t.Fatalf("cursor element %d is %v (ok=%v)", i, v, ok)
		}
		if cur.Index() != i {
			t.Fatalf("cursor index %d at element %d", cur.Index(), i)
		}
		if cur.Position().(int) != i {
			t.Fatalf("cursor pos %v before element %d", cur.Position(), i)
		}
		i++
	}
	if i != 500 || !cur.AtEnd() {
		t.Fatalf("traversal ended after %d elements, atEnd=%v", i, cur.AtEnd())
	}
	if cur.Position().(int) != 500 {
		t.Fatalf("end position summary %v", cur.Position())
	}
}

func TestCursorPrevious(t *testing.T) {
	tree := FromSlice(ints(200), countDim{})
	cur, _ := tree.Cursor("count")
	for cur.Next() {
	}
	i := 199
	for cur.Previous() {
		v, _ := cur.Item()
		if v != i {
			t.Fatalf("backward element %d is %v", i, v)
		}
		i--
	}
	if i != -1 || !cur.AtStart() {
		t.Fatalf("backward traversal stopped at %d, atStart=%v", i+1, cur.AtStart())
	}
}

func TestCursorSeekBias(t *testing.T) {
	tree := FromSlice(ints(300), countDim{})
	cur, _ := tree.Cursor("count")
	// inclusive count reaches 100 exactly after element 99
	if !cur.Seek(100, BiasLeft) {
		t.Fatalf("seek failed")
	}
	if cur.Index() != 99 {
		t.Fatalf("BiasLeft lands at %d", cur.Index())
	}
	if !cur.Seek(100, BiasRight) {
		t.Fatalf("seek failed")
	}
	if cur.Index() != 100 {
		t.Fatalf("BiasRight lands at %d", cur.Index())
	}
}

func TestCursorSeekZeroWidthRun(t *testing.T) {
	// a run of zero-contribution elements between two contributors
	items := []int{1, 0, 0, 0, 1, 1}
	tree := FromSlice(items, totalDim{})
	cur, _ := tree.Cursor("total")
	if !cur.Seek(1, BiasLeft) {
		t.Fatalf("seek failed")
	}
	if cur.Index() != 0 {
		t.Fatalf("BiasLeft should stop at the first contributor, index %d", cur.Index())
	}
	if !cur.Seek(1, BiasRight) {
		t.Fatalf("seek failed")
	}
	if cur.Index() != 4 {
		t.Fatalf("BiasRight should skip the zero-width run, index %d", cur.Index())
	}
}

func TestCursorSeekClampsToEnd(t *testing.T) {
	tree := FromSlice(ints(50), countDim{})
	cur, _ := tree.Cursor("count")
	if cur.Seek(1000, BiasLeft) {
		t.Fatalf("seek beyond the sequence should not position")
	}
	if !cur.AtEnd() || cur.Index() != 50 {
		t.Fatalf("overshooting seek must clamp to the end, index %d", cur.Index())
	}
	if cur.Position().(int) != 50 {
		t.Fatalf("clamped position summary %v", cur.Position())
	}
}

func TestCursorSeekForward(t *testing.T) {
	tree := FromSlice(ints(400), countDim{})
	cur, _ := tree.Cursor("count")
	if !cur.SeekForward(10, BiasLeft) || cur.Index() != 9 {
		t.Fatalf("first forward seek at %d", cur.Index())
	}
	if !cur.SeekForward(250, BiasLeft) || cur.Index() != 249 {
		t.Fatalf("second forward seek at %d", cur.Index())
	}
	// seeking to an already-reached target stays put
	if !cur.SeekForward(100, BiasLeft) || cur.Index() != 249 {
		t.Fatalf("forward seek moved backwards to %d", cur.Index())
	}
}

func TestCursorSlice(t *testing.T) {
	tree := FromSlice(ints(300), countDim{})
	cur, _ := tree.Cursor("count")
	cur.Seek(100, BiasRight) // positioned at index 100
	span, err := cur.Slice(200, BiasRight)
	if err != nil {
		t.Fatalf("slice: %v", err)
	}
	if span.Len() != 100 {
		t.Fatalf("slice length %d", span.Len())
	}
	if v, _ := span.At(0); v != 100 {
		t.Fatalf("slice starts at %d", v)
	}
	if cur.Index() != 200 {
		t.Fatalf("cursor at %d after slice", cur.Index())
	}
}

func TestCursorSuffix(t *testing.T) {
	tree := FromSlice(ints(120), countDim{})
	cur, _ := tree.Cursor("count")
	cur.Seek(100, BiasRight)
	rest := cur.Suffix()
	if rest.Len() != 20 {
		t.Fatalf("suffix length %d", rest.Len())
	}
	if v, _ := rest.At(0); v != 100 {
		t.Fatalf("suffix starts at %d", v)
	}
	if !cur.AtEnd() {
		t.Fatalf("cursor not at end after Suffix")
	}
}

func TestCursorResidualSummary(t *testing.T) {
	tree := FromSlice(ints(100), totalDim{})
	cur, _ := tree.Cursor("total")
	total := 99 * 100 / 2
	if cur.Summary().(int) != total {
		t.Fatalf("residual at start = %v", cur.Summary())
	}
	cur.Seek(10, BiasLeft) // positioned on element 4, prefix sum 6
	if got := cur.Summary().(int); got != total-6 {
		t.Fatalf("residual after seek = %d, want %d", got, total-6)
	}
	if cur.Index() != 4 {
		t.Fatalf("Summary moved the cursor to %d", cur.Index())
	}
	for cur.Next() {
	}
	if cur.Summary().(int) != 0 {
		t.Fatalf("residual at end = %v", cur.Summary())
	}
}

func TestCursorClone(t *testing.T) {
	tree := FromSlice(ints(200), countDim{})
	cur, _ := tree.Cursor("count")
	cur.Seek(50, BiasLeft)
	cc := cur.Clone()
	for cc.Next() {
	}
	if cur.Index() != 49 || !cc.AtEnd() {
		t.Fatalf("clone is not independent: %d / %v", cur.Index(), cc.AtEnd())
	}
}

func TestSearchForward(t *testing.T) {
	tree := FromSlice(ints(1000), totalDim{})
	cur, _ := tree.Cursor("total")
	item, ok := cur.SearchForward(func(sum any) bool { return sum.(int) > 100 })
	if !ok {
		t.Fatalf("search failed")
	}
	// prefix sums: inclusive sum first exceeds 100 at element 14 (105)
	if item != 14 || cur.Index() != 14 {
		t.Fatalf("search found element %v at %d", item, cur.Index())
	}
	if cur.Position().(int) != 91 {
		t.Fatalf("position before match is %v", cur.Position())
	}
}

func TestSearchForwardRestoresOnFailure(t *testing.T) {
	tree := FromSlice(ints(100), totalDim{})
	cur, _ := tree.Cursor("total")
	cur.Seek(50, BiasLeft)
	before := cur.Index()
	if _, ok := cur.SearchForward(func(sum any) bool { return sum.(int) > 1_000_000 }); ok {
		t.Fatalf("search should fail")
	}
	if cur.Index() != before {
		t.Fatalf("failed search moved the cursor to %d", cur.Index())
	}
}

func TestSearchBackward(t *testing.T) {
	tree := FromSlice(ints(100), countDim{})
	cur, _ := tree.Cursor("count")
	for cur.Next() {
	}
	// last element whose preceding count is below 10 is element 9
	item, ok := cur.SearchBackward(func(sum any) bool { return sum.(int) < 10 })
	if !ok {
		t.Fatalf("backward search failed")
	}
	if item != 9 || cur.Index() != 9 {
		t.Fatalf("backward search found %v at %d", item, cur.Index())
	}
}

func TestSearchBackwardRestoresOnFailure(t *testing.T) {
	tree := FromSlice(ints(100), countDim{})
	cur, _ := tree.Cursor("count")
	cur.Seek(50, BiasLeft)
	before := cur.Index()
	if _, ok := cur.SearchBackward(func(sum any) bool { return false }); ok {
		t.Fatalf("backward search should fail")
	}
	if cur.Index() != before {
		t.Fatalf("failed backward search moved the cursor to %d", cur.Index())
	}
}

func TestCursorOnEmptyTree(t *testing.T) {
	tree, err := New[int]().AttachDimension(countDim{})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	cur, err := tree.Cursor("count")
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	if cur.Next() {
		t.Fatalf("Next on empty tree positioned the cursor")
	}
	if !cur.AtEnd() {
		t.Fatalf("cursor on empty tree should park at the end")
	}
}

func TestCursorPreviousAfterSeek(t *testing.T) {
	tree := FromSlice(ints(300), countDim{}, totalDim{})
	cur, _ := tree.Cursor("total")
	if !cur.Seek(5000, BiasLeft) {
		t.Fatalf("seek failed")
	}
	if cur.Index() != 100 {
		t.Fatalf("seek landed at %d", cur.Index())
	}
	for i := 99; i >= 20; i-- {
		if !cur.Previous() {
			t.Fatalf("cannot step back to %d", i)
		}
		if cur.Index() != i {
			t.Fatalf("backward index %d, expected %d", cur.Index(), i)
		}
		if cur.Position().(int) != i*(i-1)/2 {
			t.Fatalf("position before %d is %v, expected %d", i, cur.Position(), i*(i-1)/2)
		}
		if v, _ := cur.Item(); v != i {
			t.Fatalf("element at %d is %v", i, v)
		}
	}
}

func TestCursorZigzagAcrossLeaves(t *testing.T) {
	tree := FromSlice(ints(200), totalDim{})
	cur, _ := tree.Cursor("total")
	idx := -1
	move := func(fwd bool) {
		if fwd {
			if !cur.Next() {
				t.Fatalf("cannot advance past %d", idx)
			}
			idx++
		} else {
			if !cur.Previous() {
				t.Fatalf("cannot retreat from %d", idx)
			}
			idx--
		}
		if cur.Index() != idx {
			t.Fatalf("index %d, expected %d", cur.Index(), idx)
		}
		if cur.Position().(int) != idx*(idx-1)/2 {
			t.Fatalf("position before %d is %v", idx, cur.Position())
		}
		if v, _ := cur.Item(); v != idx {
			t.Fatalf("element at %d is %v", idx, v)
		}
	}
	// shuttle back and forth across the leaf boundary at 64
	for i := 0; i < 66; i++ {
		move(true)
	}
	for i := 0; i < 4; i++ {
		move(false)
	}
	for i := 0; i < 3; i++ {
		move(true)
	}
	for i := 0; i < 64; i++ {
		move(false)
	}
	if idx != 0 {
		t.Fatalf("zigzag ended at %d", idx)
	}
}
