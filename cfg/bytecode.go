// Package cfg builds a control flow graph from a linear bytecode stream:
// it slices the stream into basic-block chunks at jump targets and
// branch/terminator boundaries, eliminates dead code that a terminator
// makes unreachable, and links the resulting chunks into a graph.
package cfg

import "github.com/bemani-tools/ap2cfg/action"

// ByteCode is the input to Build: an ordered stream of actions plus the
// offset one past the last action. Actions must be sorted strictly
// ascending by Offset; EndOffset must equal the last action's offset + 1
// (or, for an empty stream, any sentinel end value the caller chooses).
type ByteCode struct {
	Actions   []action.Action
	EndOffset uint32
}
