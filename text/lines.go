package text

import (
	"errors"
	"fmt"

	"github.com/npillmayer/sumtree"
)

// ErrNoSuchLine signals a line number beyond the text.
var ErrNoSuchLine = errors.New("text: no such line")

// LineCount returns the number of lines in the text. A trailing partial
// line counts, so any non-void text has at least one line; a text ending
// in a newline has an empty final line which does not count.
func (t Text) LineCount() uint64 {
	if t.IsVoid() {
		return 0
	}
	s := t.summary()
	if s.LastLine == 0 {
		return s.Lines
	}
	return s.Lines + 1
}

// LastLineLength returns the byte length of the text after the last
// newline.
func (t Text) LastLineLength() uint64 {
	return t.summary().LastLine
}

// LineColumn translates a byte offset into a (line, column) pair, both
// zero-based, the column counted in bytes from the line start. Offsets
// from 0 through Len() are legal; Len() addresses the position just past
// the text.
func (t Text) LineColumn(offset uint64) (uint64, uint64, error) {
	if offset > t.Len() {
		return 0, 0, fmt.Errorf("%w: offset %d of %d", sumtree.ErrIndexOutOfBounds, offset, t.Len())
	}
	sum, err := t.tree.PrefixSummary(LineDimID, int(offset))
	if err != nil {
		return 0, 0, err
	}
	s := sum.(LineSummary)
	return s.Lines, s.LastLine, nil
}

// OffsetOfLine returns the byte offset at which line n starts,
// zero-based. Line 0 starts at offset 0; line n starts just after the
// n-th newline. It fails with ErrNoSuchLine when the text has fewer
// lines.
func (t Text) OffsetOfLine(n uint64) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	if n > t.summary().Lines {
		return 0, fmt.Errorf("%w: line %d of %d", ErrNoSuchLine, n, t.LineCount())
	}
	// the element reaching line count n is the n-th newline itself
	idx, _, err := t.tree.FindPosition(LineDimID, func(sum any) bool {
		return sum.(LineSummary).Lines >= n
	})
	if err != nil {
		return 0, err
	}
	return uint64(idx) + 1, nil
}

// Line returns line n without its trailing newline.
func (t Text) Line(n uint64) (string, error) {
	start, err := t.OffsetOfLine(n)
	if err != nil {
		return "", err
	}
	end := t.Len()
	if n < t.summary().Lines {
		next, err := t.OffsetOfLine(n + 1)
		if err != nil {
			return "", err
		}
		end = next - 1 // exclude the newline
	}
	return t.Report(start, end-start)
}
