package text

import (
	"errors"
	"fmt"

	"github.com/npillmayer/sumtree"
)

// ErrNoMatchingBracket signals a bracket query with no answer in the
// text.
var ErrNoMatchingBracket = errors.New("text: no matching bracket")

// bracketSummaryAt returns the bracket summary of the prefix [0, offset),
// failing fast when the bracket dimension is not attached.
func (t Text) bracketSummaryAt(offset uint64) (BracketSummary, error) {
	sum, err := t.tree.PrefixSummary(BracketDimID, int(offset))
	if err != nil {
		return BracketSummary{}, err
	}
	return sum.(BracketSummary), nil
}

// FindNthOpenBracket returns the byte offset of the n-th opening bracket
// of the given kind, counting from 1. The text must have the bracket
// dimension attached (WithBrackets); otherwise the query fails with
// sumtree.ErrMissingDimension.
func (t Text) FindNthOpenBracket(kind BracketKind, n uint64) (uint64, error) {
	if n == 0 {
		return 0, fmt.Errorf("%w: bracket ordinals count from 1", sumtree.ErrIndexOutOfBounds)
	}
	idx, _, err := t.tree.FindPosition(BracketDimID, func(sum any) bool {
		return sum.(BracketSummary).Open[kind] >= n
	})
	if err != nil {
		if errors.Is(err, sumtree.ErrPositionNotFound) {
			return 0, fmt.Errorf("%w: open bracket #%d", ErrNoMatchingBracket, n)
		}
		return 0, err
	}
	return uint64(idx), nil
}

// FindNthCloseBracket returns the byte offset of the n-th closing
// bracket of the given kind, counting from 1.
func (t Text) FindNthCloseBracket(kind BracketKind, n uint64) (uint64, error) {
	if n == 0 {
		return 0, fmt.Errorf("%w: bracket ordinals count from 1", sumtree.ErrIndexOutOfBounds)
	}
	idx, _, err := t.tree.FindPosition(BracketDimID, func(sum any) bool {
		return sum.(BracketSummary).Close[kind] >= n
	})
	if err != nil {
		if errors.Is(err, sumtree.ErrPositionNotFound) {
			return 0, fmt.Errorf("%w: close bracket #%d", ErrNoMatchingBracket, n)
		}
		return 0, err
	}
	return uint64(idx), nil
}

// MatchingBracket returns the offset of the bracket matching the one at
// offset. For an opening bracket it scans forward, for a closing one
// backward, balancing nested brackets of the same kind. It fails when
// offset does not address a bracket or the match does not exist. It
// requires WithBrackets like the other bracket queries.
func (t Text) MatchingBracket(offset uint64) (uint64, error) {
	if _, err := t.bracketSummaryAt(0); err != nil {
		return 0, err // bracket dimension not attached
	}
	if offset >= t.Len() {
		return 0, fmt.Errorf("%w: offset %d of %d", sumtree.ErrIndexOutOfBounds, offset, t.Len())
	}
	b, err := t.tree.At(int(offset))
	if err != nil {
		return 0, err
	}
	kind, open, ok := bracketKindOf(b)
	if !ok {
		return 0, fmt.Errorf("%w: no bracket at offset %d", ErrNoMatchingBracket, offset)
	}
	if open {
		return t.matchForward(kind, offset)
	}
	return t.matchBackward(kind, offset)
}

// matchForward finds the closing bracket balancing the opening bracket
// at offset.
func (t Text) matchForward(kind BracketKind, offset uint64) (uint64, error) {
	depth := 0
	pos := int(offset)
	found := -1
	err := t.tree.ForEachSpan(func(spanPos int, span []byte) error {
		if spanPos+len(span) <= pos {
			return nil
		}
		start := 0
		if spanPos < pos {
			start = pos - spanPos
		}
		for i := start; i < len(span); i++ {
			k, op, ok := bracketKindOf(span[i])
			if !ok || k != kind {
				continue
			}
			if op {
				depth++
			} else {
				depth--
				if depth == 0 {
					found = spanPos + i
					return errStopScan
				}
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopScan) {
		return 0, err
	}
	if found < 0 {
		return 0, fmt.Errorf("%w: for open bracket at %d", ErrNoMatchingBracket, offset)
	}
	return uint64(found), nil
}

// matchBackward finds the opening bracket balancing the closing bracket
// at offset.
func (t Text) matchBackward(kind BracketKind, offset uint64) (uint64, error) {
	// collect candidate spans up to and including offset, then scan the
	// suffix of that prefix backwards
	prefix, _ := t.tree.SplitAt(int(offset) + 1)
	var spans [][]byte
	var positions []int
	prefix.ForEachSpan(func(spanPos int, span []byte) error {
		spans = append(spans, span)
		positions = append(positions, spanPos)
		return nil
	})
	depth := 0
	for s := len(spans) - 1; s >= 0; s-- {
		span := spans[s]
		for i := len(span) - 1; i >= 0; i-- {
			k, op, ok := bracketKindOf(span[i])
			if !ok || k != kind {
				continue
			}
			if op {
				depth--
				if depth == 0 {
					return uint64(positions[s] + i), nil
				}
			} else {
				depth++
			}
		}
	}
	return 0, fmt.Errorf("%w: for close bracket at %d", ErrNoMatchingBracket, offset)
}

// errStopScan terminates a span walk early; it never escapes this
// package.
var errStopScan = errors.New("stop scan")
