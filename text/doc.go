/*
Package text wraps a byte-element sum tree as UTF-8 text, in the spirit
of text ropes. Positions and lengths at this API level are of type
uint64, counting bytes.

A Text carries a line dimension from construction onwards, so line
oriented queries (line count, offset of line n, line/column of an
offset) run in O(log n) against cached summaries. Clients working with
bracketed input attach a bracket dimension with WithBrackets, enabling
positional bracket queries.

Texts are immutable values: editing operations return new texts sharing
unchanged fragments with their input.

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.
*/
package text

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to a global core-tracer.
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}
