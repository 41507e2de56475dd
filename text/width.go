package text

import (
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax11"
)

// LineWidth returns the display width of line n in fixed-width cells,
// segmenting the line into grapheme clusters and applying East Asian
// width rules for the given context. A nil context defaults to
// uax11.LatinContext.
//
// Widths are a property of the extracted line string; tree positions
// remain byte offsets throughout.
func (t Text) LineWidth(n uint64, context *uax11.Context) (int, error) {
	line, err := t.Line(n)
	if err != nil {
		return 0, err
	}
	if context == nil {
		context = uax11.LatinContext
	}
	gstr := grapheme.StringFromString(line)
	return uax11.StringWidth(gstr, context), nil
}
