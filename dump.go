package sumtree

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Dump writes an indented rendering of the tree structure to w, one node
// per line, with cached summaries per dimension. When w is os.Stdout and
// stdout is a terminal, node kinds are colorized and long leaf previews
// are clipped to the terminal width.
//
// Dump is a debugging aid, not a serialization format.
func Dump[T any](t Tree[T], w io.Writer) {
	width := 80
	useColor := false
	if w == os.Stdout && term.IsTerminal(0) {
		if tw, _, err := term.GetSize(0); err == nil && tw > 20 {
			width = tw
		}
		useColor = true
	}
	innerColor := color.New(color.FgBlue)
	leafColor := color.New(color.FgGreen)
	paint := func(c *color.Color, s string) string {
		if !useColor {
			return s
		}
		return c.Sprint(s)
	}
	if t.root == nil {
		fmt.Fprintln(w, "tree <empty>")
		return
	}
	var walk func(n treeNode[T], indent int)
	walk = func(n treeNode[T], indent int) {
		prefix := strings.Repeat("  ", indent)
		if leaf, ok := n.(*leafNode[T]); ok {
			line := fmt.Sprintf("%s%s len=%d%s", prefix, paint(leafColor, "leaf"),
				len(leaf.items), dumpSums(leaf.sums))
			fmt.Fprintln(w, clip(line, width))
			return
		}
		inner := n.(*innerNode[T])
		line := fmt.Sprintf("%s%s len=%d depth=%d%s", prefix, paint(innerColor, "node"),
			inner.length, inner.depth, dumpSums(inner.sums))
		fmt.Fprintln(w, clip(line, width))
		walk(inner.left, indent+1)
		walk(inner.right, indent+1)
	}
	walk(t.root, 0)
}

func dumpSums[T any](sums summaryTable[T]) string {
	if len(sums) == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range sums {
		fmt.Fprintf(&b, " %s=%v", e.dim.ID(), e.sum)
	}
	return b.String()
}

func clip(line string, width int) string {
	if len(line) <= width {
		return line
	}
	return line[:width-1] + "…"
}
