package sumtree

import (
	"fmt"
	"io"
)

// Tree2Dot outputs the internal structure of a tree in Graphviz DOT
// format (for debugging purposes). Leaf labels show element count and
// start position; interior labels show the subtree length.
func Tree2Dot[T any](t Tree[T], w io.Writer) {
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	if t.root != nil {
		ids := map[treeNode[T]]int{}
		nodelist, edgelist := "", ""
		pos := 0
		var walk func(n treeNode[T])
		walk = func(n treeNode[T]) {
			id := allocID(ids, n)
			if leaf, ok := n.(*leafNode[T]); ok {
				label := fmt.Sprintf("%d @%d", len(leaf.items), pos)
				pos += len(leaf.items)
				nodelist += fmt.Sprintf("\"%d\" [label=\"%s\"%s];\n", id, label, dotStyles(true))
				return
			}
			inner := n.(*innerNode[T])
			walk(inner.left)
			walk(inner.right)
			edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", id, ids[inner.left])
			edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", id, ids[inner.right])
			nodelist += fmt.Sprintf("\"%d\" [label=%d%s];\n", id, inner.length, dotStyles(false))
		}
		walk(t.root)
		io.WriteString(w, nodelist)
		io.WriteString(w, edgelist)
	}
	io.WriteString(w, "}\n")
}

func allocID[T any](ids map[treeNode[T]]int, n treeNode[T]) int {
	if id, ok := ids[n]; ok {
		return id
	}
	id := len(ids) + 1
	ids[n] = id
	return id
}

func dotStyles(isleaf bool) string {
	s := ",style=filled"
	if isleaf {
		s += ",shape=box"
	} else {
		s += ",color=black,fillcolor=\"#a3d7e4\""
		s += ",shape=circle"
	}
	return s
}
