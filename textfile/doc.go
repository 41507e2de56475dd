/*
Package textfile loads UTF-8 text files as texts over a sum tree.

Load reads a file synchronously. LoadAsync reads it fragment by fragment
in a background goroutine and broadcasts every loaded fragment to
subscribers, so that clients (an editor opening a large file, say) can
start working on the leading fragments while the rest is still being
read. Opening and checking the file is always synchronous.

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.
*/
package textfile

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to a global core-tracer.
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}
