package cfg

import (
	"sort"

	"github.com/bemani-tools/ap2cfg/action"
)

// builder carries the scratch state used while slicing a ByteCode into
// chunks: a small struct holding the in-progress chunk list, threaded
// through one action at a time by a two-state machine over byte offsets.
type builder struct {
	code ByteCode

	// offsetIndex maps an action's offset to its index in code.Actions.
	offsetIndex map[uint32]int

	// branchTargets holds every offset named as a JUMP or IF target.
	// These are the only offsets dead-code skipping resumes at, and the
	// only offsets that force a chunk boundary in the middle of an
	// otherwise straight-line run.
	branchTargets map[uint32]bool

	chunks    []*ByteCodeChunk
	offsetMap map[uint32]uint32
}

// Build slices bytecode into basic-block chunks and returns them
// alongside a total map from every relevant offset to its chunk ID. The
// first chunk (ID 0) is the entry; the last chunk is a sentinel with no
// actions, representing control falling off the end of the function.
func Build(bytecode ByteCode) ([]*ByteCodeChunk, map[uint32]uint32, error) {
	if len(bytecode.Actions) == 0 {
		sentinel := &ByteCodeChunk{ID: 0}
		return []*ByteCodeChunk{sentinel}, map[uint32]uint32{bytecode.EndOffset: 0}, nil
	}

	b := &builder{
		code:          bytecode,
		offsetIndex:   make(map[uint32]int, len(bytecode.Actions)),
		branchTargets: make(map[uint32]bool),
		offsetMap:     make(map[uint32]uint32),
	}

	if err := b.index(); err != nil {
		return nil, nil, err
	}
	if err := b.validateTargets(); err != nil {
		return nil, nil, err
	}

	b.carve()
	b.appendSentinel()
	b.buildOffsetMap()

	if err := b.link(); err != nil {
		return nil, nil, err
	}

	return b.chunks, b.offsetMap, nil
}

// index validates that actions are strictly ascending, records each
// offset's index, and collects every JUMP/IF target.
func (b *builder) index() error {
	var previous uint32
	for i, a := range b.code.Actions {
		if i > 0 && a.Offset <= previous {
			return &DisorderedBytecodeError{PreviousOffset: previous, Offset: a.Offset}
		}
		switch a.Kind {
		case action.Stop, action.Play, action.End, action.Return, action.Throw,
			action.Jump, action.If, action.Push, action.Other:
			// recognized
		default:
			return &MalformedActionError{Offset: a.Offset, Reason: "unrecognized action kind"}
		}

		b.offsetIndex[a.Offset] = i
		previous = a.Offset

		if a.Kind == action.Jump || a.Kind == action.If {
			b.branchTargets[a.Target] = true
		}
	}
	return nil
}

// validateTargets ensures every JUMP/IF target is either the stream's
// EndOffset or an actual action offset.
func (b *builder) validateTargets() error {
	for _, a := range b.code.Actions {
		if a.Kind != action.Jump && a.Kind != action.If {
			continue
		}
		if a.Target == b.code.EndOffset {
			continue
		}
		if _, ok := b.offsetIndex[a.Target]; !ok {
			return &InvalidTargetError{ActionOffset: a.Offset, Target: a.Target}
		}
	}
	return nil
}

// nextOffset returns the offset of the action immediately following the
// action at offset o, or EndOffset if o names the last action.
func (b *builder) nextOffset(o uint32) uint32 {
	idx := b.offsetIndex[o]
	if idx+1 < len(b.code.Actions) {
		return b.code.Actions[idx+1].Offset
	}
	return b.code.EndOffset
}

// carve implements phases 1-3 of the algorithm: it walks the action
// stream once, building chunks and dropping actions that a preceding
// terminator makes unreachable.
//
// The builder is always in one of two states: building (accumulating
// actions into the current chunk) or dead (a RETURN, THROW or JUMP cut
// the current chunk short, and every following action is unreachable
// until one lands on an offset some other action actually branches to).
func (b *builder) carve() {
	const (
		building = iota
		dead
	)

	state := building
	var current *ByteCodeChunk
	var currentStart uint32

	startChunk := func(offset uint32) {
		current = &ByteCodeChunk{ID: uint32(len(b.chunks))}
		currentStart = offset
	}
	finishChunk := func() {
		b.chunks = append(b.chunks, current)
		current = nil
	}

	startChunk(b.code.Actions[0].Offset)

	for _, a := range b.code.Actions {
		switch state {
		case dead:
			if !b.branchTargets[a.Offset] {
				continue // still unreachable; keep skipping
			}
			startChunk(a.Offset)
			state = building
			fallthrough
		case building:
			if a.Offset != currentStart && b.branchTargets[a.Offset] {
				// Some other branch targets this offset mid-run: end the
				// current (purely fall-through) chunk here and start a
				// fresh one, even though nothing overtly terminates it.
				finishChunk()
				startChunk(a.Offset)
			}

			current.Actions = append(current.Actions, a)

			switch {
			case a.Kind == action.Return || a.Kind == action.Throw || a.Kind == action.Jump:
				finishChunk()
				state = dead
			case a.Kind == action.If:
				finishChunk()
				if next := b.nextOffset(a.Offset); next == b.code.EndOffset {
					// The IF is the last action in the stream: there is
					// nothing left to carve, so don't open a chunk that
					// would only ever collide with the sentinel.
					current = nil
					state = dead
				} else {
					startChunk(next)
				}
			}
		}
	}

	if state == building {
		finishChunk()
	}
}

// appendSentinel adds the synthetic terminal chunk representing control
// falling off the end of the function.
func (b *builder) appendSentinel() {
	b.chunks = append(b.chunks, &ByteCodeChunk{ID: uint32(len(b.chunks))})
}

// buildOffsetMap emits the total map from leader offsets to chunk IDs,
// including the sentinel's EndOffset entry. Offsets of discarded dead
// code never appear here, because they never became a chunk's first
// action.
func (b *builder) buildOffsetMap() {
	for _, c := range b.chunks {
		if c.IsSentinel() {
			continue
		}
		b.offsetMap[c.Actions[0].Offset] = c.ID
	}
	b.offsetMap[b.code.EndOffset] = b.chunks[len(b.chunks)-1].ID
}

// link implements phase 5: it inspects each chunk's last action to
// determine its successors, then derives predecessors by inversion.
func (b *builder) link() error {
	sentinelID := b.chunks[len(b.chunks)-1].ID

	for _, c := range b.chunks {
		if c.IsSentinel() {
			continue
		}
		last := c.Actions[len(c.Actions)-1]

		switch last.Kind {
		case action.Jump:
			b.connect(c.ID, b.offsetMap[last.Target])
		case action.If:
			b.connect(c.ID, b.offsetMap[b.nextOffset(last.Offset)])
			b.connect(c.ID, b.offsetMap[last.Target])
		case action.Return, action.Throw:
			b.connect(c.ID, sentinelID)
		default:
			b.connect(c.ID, b.offsetMap[b.nextOffset(last.Offset)])
		}
	}

	for _, c := range b.chunks {
		sort.Slice(c.PreviousChunks, func(i, j int) bool {
			return c.PreviousChunks[i] < c.PreviousChunks[j]
		})
	}
	return nil
}

// connect records a from -> to edge. Successor lists are appended
// verbatim (see ByteCodeChunk's doc comment on why duplicates are
// allowed); predecessor lists are sorted ascending once link finishes.
func (b *builder) connect(from, to uint32) {
	fromChunk := b.chunks[from]
	toChunk := b.chunks[to]
	fromChunk.NextChunks = append(fromChunk.NextChunks, to)
	toChunk.PreviousChunks = append(toChunk.PreviousChunks, from)
}
