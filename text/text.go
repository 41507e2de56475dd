package text

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"hash/fnv"
	"strings"

	"github.com/npillmayer/sumtree"
)

// Text is an immutable UTF-8 rope over a byte sum tree. The zero value
// is the void (empty) text. Every Text created by this package carries
// the line dimension.
type Text struct {
	tree sumtree.Tree[byte]
}

// FromString creates a text from a Go string.
func FromString(s string) Text {
	return Text{tree: sumtree.FromSlice([]byte(s), lineDim{})}
}

// FromTree wraps an existing byte tree as a text, attaching the line
// dimension if the tree does not carry it yet.
func FromTree(tree sumtree.Tree[byte]) Text {
	if !tree.HasDimension(LineDimID) {
		tree, _ = tree.AttachDimension(lineDim{})
	}
	return Text{tree: tree}
}

// Tree exposes the underlying byte tree, e.g. for attaching further
// dimensions or running tree-level queries.
func (t Text) Tree() sumtree.Tree[byte] { return t.tree }

// IsVoid reports whether the text is empty.
func (t Text) IsVoid() bool { return t.tree.IsEmpty() }

// Len returns the length of the text in bytes.
func (t Text) Len() uint64 { return uint64(t.tree.Len()) }

// String materializes the whole text.
func (t Text) String() string {
	var sb strings.Builder
	sb.Grow(t.tree.Len())
	for span := range t.tree.Spans() {
		sb.Write(span)
	}
	return sb.String()
}

// WithBrackets returns a text with the bracket dimension attached,
// enabling the bracket queries.
func (t Text) WithBrackets() Text {
	tree, err := t.tree.AttachDimension(bracketDim{})
	if err != nil {
		tracer().Errorf("attaching bracket dimension: %s", err.Error())
		return t
	}
	return Text{tree: tree}
}

// Concat concatenates two texts.
func Concat(t, u Text) Text {
	return Text{tree: sumtree.Concat(t.tree, u.tree)}
}

// Insert inserts other into t at byte position pos. pos up to and
// including Len() is legal; beyond it Insert fails with
// sumtree.ErrIndexOutOfBounds.
func (t Text) Insert(pos uint64, other Text) (Text, error) {
	if pos > t.Len() {
		return Text{}, sumtree.ErrIndexOutOfBounds
	}
	if other.IsVoid() {
		return t, nil
	}
	prefix, suffix := t.tree.SplitAt(int(pos))
	return Text{tree: sumtree.Concat(sumtree.Concat(prefix, other.tree), suffix)}, nil
}

// InsertString inserts a string at byte position pos.
func (t Text) InsertString(pos uint64, s string) (Text, error) {
	return t.Insert(pos, FromString(s))
}

// Delete removes length bytes starting at pos. The range is clamped to
// the text.
func (t Text) Delete(pos, length uint64) Text {
	return Text{tree: t.tree.RemoveRange(int(pos), int(length))}
}

// Report returns the bytes [pos, pos+length) as a string. Precise: a
// range not fully inside the text fails.
func (t Text) Report(pos, length uint64) (string, error) {
	span, err := t.tree.Report(int(pos), int(length))
	if err != nil {
		return "", err
	}
	return string(span), nil
}

// Substr returns the byte range [pos, pos+length) as a text, sharing
// fragments with t. Precise like Report.
func (t Text) Substr(pos, length uint64) (Text, error) {
	sub, err := t.tree.SubTree(int(pos), int(length))
	if err != nil {
		return Text{}, err
	}
	return Text{tree: sub}, nil
}

// Split splits the text before byte position pos, clamping pos to the
// text.
func (t Text) Split(pos uint64) (Text, Text) {
	left, right := t.tree.SplitAt(int(pos))
	return Text{tree: left}, Text{tree: right}
}

// Equal reports whether two texts hold the same byte sequence,
// regardless of fragment structure.
func Equal(t, u Text) bool {
	return sumtree.Equal(t.tree, u.tree)
}

// Hash returns an FNV-64a checksum of the full byte sequence. Texts
// with equal content hash equally, whatever their fragmentation.
func (t Text) Hash() uint64 {
	h := fnv.New64a()
	for span := range t.tree.Spans() {
		h.Write(span)
	}
	return h.Sum64()
}

// summary returns the whole-text line summary.
func (t Text) summary() LineSummary {
	sum, err := t.tree.Summary(LineDimID)
	if err != nil {
		return LineSummary{}
	}
	return sum.(LineSummary)
}
