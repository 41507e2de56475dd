package sumtree

import "errors"

var (
	// ErrIndexOutOfBounds signals an invalid positional index.
	ErrIndexOutOfBounds = errors.New("sumtree: index out of bounds")
	// ErrInvalidDimension signals a nil dimension or one without an ID.
	ErrInvalidDimension = errors.New("sumtree: invalid dimension")
	// ErrMissingDimension signals access to a dimension that has not been
	// attached to the tree. Summaries are never silently defaulted to the
	// identity value, as that would corrupt downstream aggregate math.
	ErrMissingDimension = errors.New("sumtree: dimension not attached")
	// ErrPositionNotFound signals that a predicate search exhausted the tree.
	ErrPositionNotFound = errors.New("sumtree: no position satisfies predicate")
)
