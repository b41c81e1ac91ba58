// Package bitvector provides a fixed-length bit set, the foundation
// primitive that the dataflow package builds dominator (and, in a
// fuller decompiler, liveness) computations on top of.
package bitvector

import "github.com/bits-and-blooms/bitset"

// BitVector is a fixed-length set of bit indices. Mutating operations
// return the receiver so callers may chain them, e.g.
// bitvector.New(5).SetBit(2).SetBit(3).
type BitVector struct {
	n    uint
	bits *bitset.BitSet
}

// New allocates a BitVector of length n. Every bit starts equal to init.
func New(n uint, init bool) *BitVector {
	bv := &BitVector{n: n, bits: bitset.New(n)}
	if init {
		bv.SetAll(true)
	}
	return bv
}

// Length returns the fixed number of bits in the vector.
func (bv *BitVector) Length() uint {
	return bv.n
}

// SetBit sets bit i. i must be in [0, Length()); an out-of-range index is
// a programming error, consistent with the rest of this package's
// precondition-based contract.
func (bv *BitVector) SetBit(i uint) *BitVector {
	if i >= bv.n {
		panic("bitvector: set_bit index out of range")
	}
	bv.bits.Set(i)
	return bv
}

// ClearBit clears bit i. Unlike SetBit, an out-of-range i is tolerated
// silently as a no-op; callers that probe a bit past the known length
// before clearing it rely on this.
func (bv *BitVector) ClearBit(i uint) *BitVector {
	if i >= bv.n {
		return bv
	}
	bv.bits.Clear(i)
	return bv
}

// SetAll sets every bit to b.
func (bv *BitVector) SetAll(b bool) *BitVector {
	for i := uint(0); i < bv.n; i++ {
		if b {
			bv.bits.Set(i)
		} else {
			bv.bits.Clear(i)
		}
	}
	return bv
}

// BitsSet returns the set of indices whose bit is set.
func (bv *BitVector) BitsSet() map[uint]struct{} {
	set := make(map[uint]struct{})
	for i := uint(0); i < bv.n; i++ {
		if bv.bits.Test(i) {
			set[i] = struct{}{}
		}
	}
	return set
}

// Clone returns an independent copy of bv.
func (bv *BitVector) Clone() *BitVector {
	return &BitVector{n: bv.n, bits: bv.bits.Clone()}
}

// OrVector computes the in-place union of bv and other. Panics if the
// two vectors do not have the same length: mismatched lengths indicate a
// caller bug, not a runtime condition to recover from.
func (bv *BitVector) OrVector(other *BitVector) *BitVector {
	bv.mustMatch(other)
	bv.bits.InPlaceUnion(other.bits)
	return bv
}

// AndVector computes the in-place intersection of bv and other. Panics
// if the two vectors do not have the same length.
func (bv *BitVector) AndVector(other *BitVector) *BitVector {
	bv.mustMatch(other)
	bv.bits.InPlaceIntersection(other.bits)
	return bv
}

// Equal reports whether bv and other have the same length and the same
// bits set.
func (bv *BitVector) Equal(other *BitVector) bool {
	if other == nil {
		return false
	}
	return bv.n == other.n && bv.bits.Equal(other.bits)
}

func (bv *BitVector) mustMatch(other *BitVector) {
	if bv.n != other.n {
		panic("bitvector: length mismatch")
	}
}
