package text

import "bytes"

// LineDimID keys the line dimension attached to every Text.
const LineDimID = "text.lines"

// BracketDimID keys the optional bracket dimension, see WithBrackets.
const BracketDimID = "text.brackets"

// LineSummary aggregates byte and line counts over a span of text.
// LastLine is the byte length of the span's trailing partial line, i.e.
// everything after the last newline (or the whole span if it holds
// none).
type LineSummary struct {
	Bytes    uint64
	Lines    uint64
	LastLine uint64
}

// lineDim summarizes text spans into LineSummary values.
type lineDim struct{}

func (lineDim) ID() string    { return LineDimID }
func (lineDim) Identity() any { return LineSummary{} }

func (lineDim) SummarizeElement(b byte) any {
	s := LineSummary{Bytes: 1, LastLine: 1}
	if b == '\n' {
		s.Lines = 1
		s.LastLine = 0
	}
	return s
}

func (lineDim) SummarizeSpan(span []byte) any {
	s := LineSummary{Bytes: uint64(len(span))}
	s.Lines = uint64(bytes.Count(span, []byte{'\n'}))
	if i := bytes.LastIndexByte(span, '\n'); i >= 0 {
		s.LastLine = uint64(len(span) - i - 1)
	} else {
		s.LastLine = uint64(len(span))
	}
	return s
}

func (lineDim) Combine(left, right any) any {
	l, r := left.(LineSummary), right.(LineSummary)
	s := LineSummary{
		Bytes: l.Bytes + r.Bytes,
		Lines: l.Lines + r.Lines,
	}
	if r.Lines > 0 {
		s.LastLine = r.LastLine
	} else {
		s.LastLine = l.LastLine + r.Bytes
	}
	return s
}

func (lineDim) CanExtend(sum any) bool {
	return sum.(LineSummary).Bytes > 0
}

// Compare orders summaries by line count first, byte count second, so
// line-targeted seeks resolve ties in byte space through the seek bias.
func (lineDim) Compare(left, right any) int {
	l, r := left.(LineSummary), right.(LineSummary)
	if l.Lines != r.Lines {
		if l.Lines < r.Lines {
			return -1
		}
		return 1
	}
	switch {
	case l.Bytes < r.Bytes:
		return -1
	case l.Bytes > r.Bytes:
		return 1
	}
	return 0
}

// BracketKind selects one of the three bracket pairs tracked by the
// bracket dimension.
type BracketKind int

const (
	RoundBracket  BracketKind = iota // ( )
	SquareBracket                    // [ ]
	CurlyBracket                     // { }
	bracketKinds
)

// BracketSummary counts opening and closing brackets per kind over a
// span of text.
type BracketSummary struct {
	Open  [bracketKinds]uint64
	Close [bracketKinds]uint64
}

func bracketKindOf(b byte) (BracketKind, bool, bool) {
	switch b {
	case '(':
		return RoundBracket, true, true
	case ')':
		return RoundBracket, false, true
	case '[':
		return SquareBracket, true, true
	case ']':
		return SquareBracket, false, true
	case '{':
		return CurlyBracket, true, true
	case '}':
		return CurlyBracket, false, true
	}
	return 0, false, false
}

// bracketDim summarizes text spans into BracketSummary values.
type bracketDim struct{}

func (bracketDim) ID() string    { return BracketDimID }
func (bracketDim) Identity() any { return BracketSummary{} }

func (bracketDim) SummarizeElement(b byte) any {
	var s BracketSummary
	if kind, open, ok := bracketKindOf(b); ok {
		if open {
			s.Open[kind]++
		} else {
			s.Close[kind]++
		}
	}
	return s
}

func (d bracketDim) SummarizeSpan(span []byte) any {
	var s BracketSummary
	for _, b := range span {
		if kind, open, ok := bracketKindOf(b); ok {
			if open {
				s.Open[kind]++
			} else {
				s.Close[kind]++
			}
		}
	}
	return s
}

func (bracketDim) Combine(left, right any) any {
	l, r := left.(BracketSummary), right.(BracketSummary)
	var s BracketSummary
	for k := 0; k < int(bracketKinds); k++ {
		s.Open[k] = l.Open[k] + r.Open[k]
		s.Close[k] = l.Close[k] + r.Close[k]
	}
	return s
}

func (bracketDim) CanExtend(sum any) bool {
	s := sum.(BracketSummary)
	for k := 0; k < int(bracketKinds); k++ {
		if s.Open[k] > 0 || s.Close[k] > 0 {
			return true
		}
	}
	return false
}

func (bracketDim) Compare(left, right any) int {
	l, r := left.(BracketSummary), right.(BracketSummary)
	for k := 0; k < int(bracketKinds); k++ {
		switch {
		case l.Open[k] < r.Open[k]:
			return -1
		case l.Open[k] > r.Open[k]:
			return 1
		case l.Close[k] < r.Close[k]:
			return -1
		case l.Close[k] > r.Close[k]:
			return 1
		}
	}
	return 0
}
