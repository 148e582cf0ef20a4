// Package place assigns rows to the circuits of a stage.
//
// Placement happens before the width of the channel on a stage's left is
// known, so circuits are anchored at column 0 and moved into their final
// column later with [netlist.Circuit.Reposition]. Only rows matter here.
//
// # Passes
//
// [Place] makes two passes over a stage:
//
//  1. Alignment. Commutative two-input gates have their inputs swapped when
//     that keeps them in the same vertical order as their source tracks.
//     Single-input gates whose source track is still free on the right side
//     of the channel are placed on that track, so the net runs straight
//     through.
//  2. Packing. Every remaining circuit takes the first run of free rows as
//     tall as its footprint, scanning from the top, or is appended below the
//     last row.
//
// A circuit's input rows are marked with the pin it expects there. The rest
// of its footprint is marked Occupied so that no other circuit overlaps it.
package place

import (
	"github.com/matzehuels/netgrid/pkg/channel"
	"github.com/matzehuels/netgrid/pkg/errors"
	"github.com/matzehuels/netgrid/pkg/netlist"
)

// Place anchors every circuit of a stage given the layout of nets arriving
// from the left. It returns the layout the stage requires on its inputs.
func Place(src channel.Layout, circuits []*netlist.Circuit) (channel.Layout, error) {
	dst := make(channel.Layout, len(src))

	for _, c := range circuits {
		switch len(c.Inputs) {
		case 2:
			if err := alignPair(src, c); err != nil {
				return nil, err
			}
		case 1:
			id, ok := c.Inputs[0].Conn.NetOf()
			if !ok {
				continue
			}
			p := src.Index(id)
			if p < 0 {
				return nil, errors.New(errors.ErrCodeNetNotFound, "net %d of %v is not in the channel", id, c)
			}
			top := p - c.Shape().InputOffsets[0]
			if top < 0 || !fits(dst, top, c.Height()) {
				continue
			}
			if err := anchor(&dst, c, top); err != nil {
				return nil, err
			}
		}
	}

	for _, c := range circuits {
		if c.Placed() {
			continue
		}
		top := firstFit(dst, c.Height())
		if err := anchor(&dst, c, top); err != nil {
			return nil, err
		}
	}

	for _, c := range circuits {
		if !c.Placed() {
			return nil, errors.New(errors.ErrCodeUnplacedGate, "%v left unplaced", c)
		}
	}
	return dst, nil
}

// alignPair swaps the inputs of a commutative gate whose first input comes
// from a lower track than its second.
func alignPair(src channel.Layout, c *netlist.Circuit) error {
	if !c.CanSwapInputs() {
		return nil
	}
	a, okA := c.Inputs[0].Conn.NetOf()
	b, okB := c.Inputs[1].Conn.NetOf()
	if !okA || !okB {
		return nil
	}
	p1, p2 := src.Index(a), src.Index(b)
	if p1 < 0 || p2 < 0 {
		return errors.New(errors.ErrCodeNetNotFound, "inputs of %v are not in the channel", c)
	}
	if p1 > p2 {
		return c.SwapInputs()
	}
	return nil
}

// fits reports whether rows [top, top+h) are free. Rows past the end are free.
func fits(dst channel.Layout, top, h int) bool {
	for y := top; y < top+h && y < len(dst); y++ {
		if !dst[y].IsFree() {
			return false
		}
	}
	return true
}

// firstFit returns the first row of a free run of h rows lying entirely
// inside dst, or len(dst).
func firstFit(dst channel.Layout, h int) int {
	run := 0
	for y, s := range dst {
		if !s.IsFree() {
			run = 0
			continue
		}
		run++
		if run == h {
			return y - h + 1
		}
	}
	return len(dst)
}

// anchor places c with its top row at top and marks its footprint in dst.
func anchor(dst *channel.Layout, c *netlist.Circuit, top int) error {
	if err := c.Place(netlist.Position{X: 0, Y: top}); err != nil {
		return err
	}
	*dst = dst.Padded(top + c.Height())
	l := *dst
	for y := top; y < top+c.Height(); y++ {
		l[y] = channel.Occupied
	}
	for _, p := range c.Inputs {
		l[p.Pos.Y] = channel.FromPin(p.Conn)
	}
	return nil
}

// PlaceInputs stacks the circuits of the first stage top to bottom in column
// x and returns the width of the widest one.
func PlaceInputs(circuits []*netlist.Circuit, x int) (int, error) {
	y, w := 0, 0
	for _, c := range circuits {
		if err := c.Place(netlist.Position{X: x, Y: y}); err != nil {
			return 0, err
		}
		y += c.Height()
		w = max(w, c.Width())
	}
	return w, nil
}
