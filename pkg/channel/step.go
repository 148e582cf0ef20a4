package channel

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Op says what happens to the source track of a wire.
type Op uint8

const (
	// Move frees the source track once the net has reached its destinations.
	Move Op = iota
	// Copy keeps the net on the source track, which the destination layout
	// needs at that same row.
	Copy
)

func (o Op) String() string {
	if o == Copy {
		return "copy"
	}
	return "move"
}

// Wire is one vertical connection drawn in a step column.
type Wire struct {
	Op   Op
	From int
	To   []int
}

// Span returns the lowest and highest track the wire touches.
func (w Wire) Span() (lo, hi int) {
	lo, hi = w.From, w.From
	for _, t := range w.To {
		lo, hi = min(lo, t), max(hi, t)
	}
	return lo, hi
}

func (w Wire) String() string {
	return fmt.Sprintf("%s %d->%v", w.Op, w.From, w.To)
}

// Step is one column of routing. Occupancy has one bit per track, set where a
// net is present after the step's wires are applied.
type Step struct {
	Wires     []Wire
	Occupancy *bitset.BitSet
}

// Tracks returns the channel width at this step.
func (s Step) Tracks() int {
	if s.Occupancy == nil {
		return 0
	}
	return int(s.Occupancy.Len())
}

func occupancy(state Layout) *bitset.BitSet {
	b := bitset.New(uint(len(state)))
	for i, s := range state {
		if s.HasNet() {
			b.Set(uint(i))
		}
	}
	return b
}

// claims tracks the rows used by wires in the current column.
type claims struct {
	rows *bitset.BitSet
	sum  int
}

func newClaims(n int) *claims {
	return &claims{rows: bitset.New(uint(n))}
}

// overlaps reports whether any row in [lo-1, hi+1] is claimed, so that two
// runs in one column never touch on either side.
func (c *claims) overlaps(lo, hi int) bool {
	for r := max(lo-1, 0); r <= hi+1; r++ {
		if c.rows.Test(uint(r)) {
			return true
		}
	}
	return false
}

func (c *claims) add(lo, hi int) {
	for r := lo; r <= hi; r++ {
		c.rows.Set(uint(r))
	}
	c.sum += hi - lo + 1
}
