package dataflow_test

import (
	"testing"

	"github.com/bemani-tools/ap2cfg/action"
	"github.com/bemani-tools/ap2cfg/cfg"
	"github.com/bemani-tools/ap2cfg/dataflow"
)

// buildDiamond constructs the if-diamond scenario: chunk 0 branches to
// chunk 1 or chunk 2, both of which join at chunk 3 before falling off
// into the sentinel, chunk 4.
func buildDiamond(t *testing.T) []*cfg.ByteCodeChunk {
	t.Helper()
	bc := cfg.ByteCode{
		Actions: []action.Action{
			action.NewPush(100, action.Boolean(true)),
			action.NewIf(101, "IS TRUE", 104),
			action.NewStop(102),
			action.NewJump(103, 105),
			action.NewPlay(104),
			action.NewEnd(105),
		},
		EndOffset: 106,
	}
	chunks, _, err := cfg.Build(bc)
	if err != nil {
		t.Fatalf("cfg.Build() error = %v", err)
	}
	return chunks
}

func TestDominatorsDiamond(t *testing.T) {
	chunks := buildDiamond(t)
	dom := dataflow.Dominators(chunks)

	// Entry dominates everything; chunks 1 and 2 dominate only
	// themselves (either arm of the branch can be skipped); the join
	// point (chunk 3) is dominated only by the entry, since no single
	// arm is mandatory, and the sentinel inherits the join point's
	// dominators plus itself.
	cases := []struct {
		id   uint32
		want []uint32
	}{
		{0, []uint32{0}},
		{1, []uint32{0, 1}},
		{2, []uint32{0, 2}},
		{3, []uint32{0, 3}},
		{4, []uint32{0, 3, 4}},
	}

	for _, c := range cases {
		got := dom[c.id].BitsSet()
		if len(got) != len(c.want) {
			t.Errorf("dominators of %d = %v, want %v", c.id, got, c.want)
			continue
		}
		for _, w := range c.want {
			if _, ok := got[uint(w)]; !ok {
				t.Errorf("dominators of %d = %v, want %v (missing %d)", c.id, got, c.want, w)
			}
		}
	}

	for _, c := range cases {
		if !dataflow.StrictlyDominates(dom, 0, c.id) && c.id != 0 {
			t.Errorf("expected entry chunk to strictly dominate %d", c.id)
		}
	}
	if dataflow.StrictlyDominates(dom, 1, 2) {
		t.Error("chunk 1 must not dominate chunk 2: either arm of the branch can be taken")
	}
}
