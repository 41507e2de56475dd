/*
Package sumtree implements a persistent, immutable sequence tree which
maintains incrementally-computed aggregate summaries over its elements.

A tree stores an ordered sequence of elements of some type T as a binary
tree over contiguous leaf buffers. Structural operations (concatenation,
splitting, insertion, removal) return new tree values that share all
untouched subtrees with their operands. Trees are therefore safe to share
read-only across goroutines without locks; concurrency is achieved by
sharing immutable snapshots, never by synchronizing mutation.

On top of the sequence, clients may attach summary dimensions: monoid-shaped
aggregates (a line counter, a bracket balance, a greatest key) whose values
are cached per subtree and combined upwards. Dimensions drive O(log n)
positional queries through cursors: seek to the n-th line, find the k-th
open bracket, slice out a summary-delimited range.

	Operation     |   Tree          |  Slice
	--------------+-----------------+--------
	Index         |   O(log n)      |   O(1)
	Split         |   O(log n)      |   O(1)
	Concatenate   |   O(log n)      |   O(n)
	Insert        |   O(log n)      |   O(n)
	Delete        |   O(log n)      |   O(n)

Subpackages build the client-facing layers: package text wraps a byte tree
with line/column and bracket queries, package ordered provides a persistent
ordered map/set, package edit applies validated edit batches, and packages
textfile and html ingest external content into text trees.

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.
*/
package sumtree

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to a global core-tracer.
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
