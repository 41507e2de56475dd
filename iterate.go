package sumtree

import "iter"

// All returns an iterator over the elements of the tree in sequence
// order, for use with range-over-func.
func (t Tree[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if t.root == nil {
			return
		}
		eachLeaf(t.root, func(span []T) bool {
			for _, elem := range span {
				if !yield(elem) {
					return false
				}
			}
			return true
		})
	}
}

// Spans returns an iterator over the contiguous leaf buffers of the tree
// in sequence order. The yielded slices are owned by the tree and must
// not be mutated.
func (t Tree[T]) Spans() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		if t.root == nil {
			return
		}
		eachLeaf(t.root, func(span []T) bool {
			if len(span) == 0 {
				return true
			}
			return yield(span)
		})
	}
}

// ForEach calls f for every element in sequence order. It stops early
// if f returns an error and passes that error on.
func (t Tree[T]) ForEach(f func(index int, elem T) error) error {
	return t.ForEachSpan(func(pos int, span []T) error {
		for i, elem := range span {
			if err := f(pos+i, elem); err != nil {
				return err
			}
		}
		return nil
	})
}

// ForEachSpan calls f for every nonempty leaf buffer in sequence order,
// passing the element index of the span's first element. It stops early
// if f returns an error and passes that error on.
func (t Tree[T]) ForEachSpan(f func(pos int, span []T) error) error {
	if t.root == nil {
		return nil
	}
	pos := 0
	var err error
	eachLeaf(t.root, func(span []T) bool {
		if len(span) > 0 {
			if err = f(pos, span); err != nil {
				return false
			}
			pos += len(span)
		}
		return true
	})
	return err
}

// eachLeaf walks the leaf buffers left to right, iteratively.
func eachLeaf[T any](n treeNode[T], f func(span []T) bool) bool {
	stack := []treeNode[T]{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if leaf, ok := cur.(*leafNode[T]); ok {
			if !f(leaf.items) {
				return false
			}
			continue
		}
		inner := cur.(*innerNode[T])
		stack = append(stack, inner.right, inner.left)
	}
	return true
}

// Slice materializes the whole sequence as a fresh slice.
func (t Tree[T]) Slice() []T {
	out := make([]T, 0, t.Len())
	for span := range t.Spans() {
		out = append(out, span...)
	}
	return out
}
