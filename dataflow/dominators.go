// Package dataflow runs iterative fixpoint analyses over a constructed
// control flow graph. Dominators is the one such analysis this module
// ships; it is the caller of bitvector.BitVector in this module (the cfg
// package builds its graph without it), the way a bitset-backed analysis
// pass sits alongside a CFG builder.
package dataflow

import (
	"sort"

	"github.com/bemani-tools/ap2cfg/bitvector"
	"github.com/bemani-tools/ap2cfg/cfg"
)

// Dominators computes, for every chunk in chunks, the set of chunk IDs
// that dominate it: a chunk D dominates chunk N if every path from the
// entry chunk (ID 0) to N passes through D. Every chunk dominates
// itself.
//
// The result maps a chunk ID to a BitVector of length len(chunks) whose
// bit i is set iff chunk i dominates that chunk. chunks must be the
// output of cfg.Build (IDs dense, starting at 0, with chunks[i].ID == i).
func Dominators(chunks []*cfg.ByteCodeChunk) map[uint32]*bitvector.BitVector {
	n := uint(len(chunks))

	dom := make(map[uint32]*bitvector.BitVector, n)
	for _, c := range chunks {
		if c.ID == 0 {
			dom[c.ID] = bitvector.New(n, false).SetBit(0)
			continue
		}
		// Every chunk starts out dominated by everything; the fixpoint
		// below only ever shrinks this set.
		dom[c.ID] = bitvector.New(n, true)
	}

	order := make([]uint32, 0, n)
	for _, c := range chunks {
		if c.ID != 0 {
			order = append(order, c.ID)
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	for changed := true; changed; {
		changed = false

		for _, id := range order {
			c := chunks[id]

			var merged *bitvector.BitVector
			for _, p := range c.PreviousChunks {
				if merged == nil {
					merged = dom[p].Clone()
					continue
				}
				merged.AndVector(dom[p])
			}
			if merged == nil {
				// Unreachable chunk: no predecessors, so nothing
				// constrains it yet. Leave it fully dominated until a
				// predecessor appears.
				merged = bitvector.New(n, true)
			}
			merged.SetBit(id)

			if !merged.Equal(dom[id]) {
				dom[id] = merged
				changed = true
			}
		}
	}

	return dom
}

// StrictlyDominates reports whether chunk d dominates chunk n and d != n.
func StrictlyDominates(dom map[uint32]*bitvector.BitVector, d, n uint32) bool {
	if d == n {
		return false
	}
	set := dom[n]
	if set == nil {
		return false
	}
	_, ok := set.BitsSet()[uint(d)]
	return ok
}
