package sumtree

// Dimension describes a summary computation over elements of type T.
//
// A dimension is a monoid descriptor: Identity is the neutral element,
// SummarizeElement maps a single element to a summary, and Combine folds
// summaries upwards through the tree. For summaries s, t, u, Combine must
// be associative:
//
//	Combine(Combine(s, t), u) == Combine(s, Combine(t, u))
//
// and Identity must be neutral:
//
//	Combine(Identity(), s) == s == Combine(s, Identity())
//
// Associativity is a precondition of the whole summary cache; the tree
// cannot validate it at runtime, and violating it silently corrupts every
// cached summary above the violation point.
//
// Summary values are carried as `any`. Dimensions of the same element type
// are distinguished by ID, which keys the per-node summary table; two
// distinct dimensions must never share an ID. Dimension implementations
// must be pure and stateless: SummarizeSpan may be called concurrently for
// different subtrees.
type Dimension[T any] interface {
	// ID returns the dimension identity. It must be non-empty and unique
	// among the dimensions attached to one tree.
	ID() string
	// Identity returns the neutral summary value, the summary of the
	// empty sequence.
	Identity() any
	// SummarizeElement returns the summary of a single element.
	SummarizeElement(elem T) any
	// SummarizeSpan returns the summary of a contiguous run of elements.
	// It must be consistent with folding SummarizeElement via Combine;
	// FoldSpan provides that default. Implementations override it when a
	// single linear pass is cheaper.
	SummarizeSpan(span []T) any
	// Combine merges two adjacent summaries. Must be associative.
	Combine(left, right any) any
	// CanExtend reports whether a summary is distinguishable from the
	// identity. Searches use it to skip subtrees that cannot advance the
	// accumulated position.
	CanExtend(sum any) bool
	// Compare orders two summary values. The order must be total and
	// monotonic with respect to sequence position, or seeking along this
	// dimension yields undefined positions.
	Compare(left, right any) int
}

// FoldSpan is the default SummarizeSpan: a left-to-right fold of
// SummarizeElement via Combine.
func FoldSpan[T any](dim Dimension[T], span []T) any {
	sum := dim.Identity()
	for _, elem := range span {
		sum = dim.Combine(sum, dim.SummarizeElement(elem))
	}
	return sum
}

// Bias is the tie-break rule for seeking to a position between two
// elements with equal accumulated summary.
type Bias int8

const (
	// BiasLeft stops at or before the first position whose accumulated
	// summary reaches the target.
	BiasLeft Bias = iota
	// BiasRight stops strictly after the target is reached.
	BiasRight
)

func (b Bias) String() string {
	if b == BiasRight {
		return "right"
	}
	return "left"
}

// reached reports whether an accumulated summary satisfies the seek
// target under this bias.
func (b Bias) reached(dim interface{ Compare(any, any) int }, acc, target any) bool {
	if b == BiasRight {
		return dim.Compare(acc, target) > 0
	}
	return dim.Compare(acc, target) >= 0
}
