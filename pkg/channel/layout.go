package channel

import (
	"fmt"
	"strings"

	"github.com/matzehuels/netgrid/pkg/netlist"
)

type stateKind uint8

const (
	kindFree stateKind = iota
	kindOccupied
	kindConstant
	kindNet
)

// State is the content of one track.
type State struct {
	kind stateKind
	net  netlist.NetID
}

// Track states without a net.
var (
	Free     = State{kind: kindFree}
	Occupied = State{kind: kindOccupied} // no connection, same as constant false
	Constant = State{kind: kindConstant} // constant true
)

// Net returns the state of a track carrying id.
func Net(id netlist.NetID) State { return State{kind: kindNet, net: id} }

// FromPin converts a pin connection to the track state it requires.
func FromPin(p netlist.Pin) State {
	switch p.Kind {
	case netlist.PinTrue:
		return Constant
	case netlist.PinFalse:
		return Occupied
	}
	return Net(p.Net)
}

// IsFree reports whether nothing uses the track.
func (s State) IsFree() bool { return s.kind == kindFree }

// HasNet reports whether the track carries a net.
func (s State) HasNet() bool { return s.kind == kindNet }

// IsConstant reports whether the track is tied to constant true.
func (s State) IsConstant() bool { return s.kind == kindConstant }

// NetID returns the net on the track and whether there is one.
func (s State) NetID() (netlist.NetID, bool) { return s.net, s.kind == kindNet }

func (s State) String() string {
	switch s.kind {
	case kindOccupied:
		return "#"
	case kindConstant:
		return "T"
	case kindNet:
		return fmt.Sprintf("%d", s.net)
	}
	return "."
}

// Layout is the per-track state of a channel edge, indexed by track.
type Layout []State

// Index returns the first track carrying id, or -1.
func (l Layout) Index(id netlist.NetID) int {
	for i, s := range l {
		if s == Net(id) {
			return i
		}
	}
	return -1
}

// Nets returns the number of tracks carrying a net.
func (l Layout) Nets() int {
	n := 0
	for _, s := range l {
		if s.HasNet() {
			n++
		}
	}
	return n
}

// Padded returns a copy of l extended with Free tracks to at least n tracks.
func (l Layout) Padded(n int) Layout {
	out := make(Layout, max(len(l), n))
	copy(out, l)
	return out
}

func (l Layout) String() string {
	parts := make([]string, len(l))
	for i, s := range l {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Side selects which pins of a stage a layout is read from.
type Side int

const (
	// Outputs reads the pins leaving a stage (left edge of the next channel).
	Outputs Side = iota
	// Inputs reads the pins entering a stage (right edge of the previous channel).
	Inputs
)

// Extract reads the row of every pin on the given side of the circuits and
// returns the resulting layout. Rows between pins are Occupied. Circuits must
// be placed.
func Extract(circuits []*netlist.Circuit, side Side) Layout {
	var l Layout
	for _, c := range circuits {
		ports := c.Outputs
		if side == Inputs {
			ports = c.Inputs
		}
		for _, p := range ports {
			if p.Pos == nil {
				continue
			}
			for len(l) <= p.Pos.Y {
				l = append(l, Occupied)
			}
			l[p.Pos.Y] = FromPin(p.Conn)
		}
	}
	return l
}
