package cfg

import "github.com/bemani-tools/ap2cfg/action"

// ByteCodeChunk is a basic block: a contiguous run of actions with a
// single entry and, at most, one terminating action at its end.
// Equality and identity are by ID.
//
// NextChunks and PreviousChunks are ordered lists, not de-duplicating
// sets: an IF action whose target happens to equal its own fall-through
// offset legitimately produces two identical successor entries, and
// that duplication must survive rather than collapse, so callers should
// not assume uniqueness — only that iteration order is deterministic
// (successors in branch-evaluation order, predecessors ascending by ID).
type ByteCodeChunk struct {
	ID             uint32
	Actions        []action.Action
	PreviousChunks []uint32
	NextChunks     []uint32
}

// IsSentinel reports whether this chunk is the synthetic terminal chunk
// Build appends to represent "control has left the function". It has no
// actions and, per the graph's invariants, no successors.
func (c *ByteCodeChunk) IsSentinel() bool {
	return len(c.Actions) == 0
}
