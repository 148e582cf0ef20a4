// Package netlist holds the in-memory circuit model consumed by the layout
// core: nets, pin connections and gate placement records.
//
// A [Circuit] is created unplaced by the loader (or by the stage builder for
// synthetic pins), placed exactly once by the gate placer and moved
// horizontally once more when the width of the channel on its left is known.
package netlist

import (
	"fmt"

	"github.com/matzehuels/netgrid/pkg/errors"
	"github.com/matzehuels/netgrid/pkg/grid"
	"github.com/matzehuels/netgrid/pkg/shape"
)

// NetID names a logical signal. Two pins with the same NetID are the same wire.
type NetID uint

// PinKind tags a Pin.
type PinKind uint8

const (
	PinNet PinKind = iota
	PinFalse
	PinTrue
)

// Pin is the connection of a gate pin: a net or a constant.
type Pin struct {
	Kind PinKind
	Net  NetID // valid only when Kind == PinNet
}

// NetPin returns a pin bound to id.
func NetPin(id NetID) Pin { return Pin{Kind: PinNet, Net: id} }

// ConstPin returns a constant pin.
func ConstPin(v bool) Pin {
	if v {
		return Pin{Kind: PinTrue}
	}
	return Pin{Kind: PinFalse}
}

// IsConstant reports whether the pin is tied to a constant.
func (p Pin) IsConstant() bool { return p.Kind != PinNet }

// NetOf returns the pin's net and whether it has one.
func (p Pin) NetOf() (NetID, bool) {
	return p.Net, p.Kind == PinNet
}

// Compare orders pins by net id. Constants compare equal to everything, which
// keeps sorts stable around them.
func (p Pin) Compare(o Pin) int {
	if p.Kind != PinNet || o.Kind != PinNet {
		return 0
	}
	switch {
	case p.Net < o.Net:
		return -1
	case p.Net > o.Net:
		return 1
	}
	return 0
}

func (p Pin) String() string {
	switch p.Kind {
	case PinFalse:
		return "0"
	case PinTrue:
		return "1"
	}
	return fmt.Sprintf("n%d", p.Net)
}

// Position is a grid coordinate.
type Position struct {
	X, Y int
}

// Port is one pin of a circuit together with its resolved grid position.
type Port struct {
	Conn Pin
	Pos  *Position
}

// Netlist is the loader's output: every gate, including synthetic external
// input pins, and the external output pins.
type Netlist struct {
	Circuits []*Circuit
	Outputs  []Pin
}

// Circuit is the placement record of one gate instance.
type Circuit struct {
	Kind    shape.Kind
	Inputs  []Port
	Outputs []Port
	Pos     *Position // nil until placed
}

// NewCircuit creates an unplaced circuit of the given kind.
func NewCircuit(kind shape.Kind, inputs, outputs []Pin) *Circuit {
	c := &Circuit{Kind: kind}
	for _, p := range inputs {
		c.Inputs = append(c.Inputs, Port{Conn: p})
	}
	for _, p := range outputs {
		c.Outputs = append(c.Outputs, Port{Conn: p})
	}
	return c
}

// NewInputPin creates the synthetic circuit driving an external input net.
func NewInputPin(p Pin) *Circuit {
	return NewCircuit(shape.Input, nil, []Pin{p})
}

// NewOutputPin creates the synthetic sink for an external output.
func NewOutputPin(p Pin) *Circuit {
	return NewCircuit(shape.Output, []Pin{p}, nil)
}

// NewForwardPin creates a pass-through that carries p across one stage.
func NewForwardPin(p Pin) *Circuit {
	return NewCircuit(shape.Forward, []Pin{p}, []Pin{p})
}

// Shape returns the catalog entry of the circuit's kind.
func (c *Circuit) Shape() shape.Shape { return shape.Lookup(c.Kind) }

// Width returns the footprint width.
func (c *Circuit) Width() int { return c.Shape().Width }

// Height returns the footprint height.
func (c *Circuit) Height() int { return c.Shape().Height }

// Placed reports whether the circuit has an anchor.
func (c *Circuit) Placed() bool { return c.Pos != nil }

// CanSwapInputs reports whether the two inputs are interchangeable.
func (c *Circuit) CanSwapInputs() bool {
	return len(c.Inputs) == 2 && c.Shape().Commutative
}

// SwapInputs exchanges the two inputs of a commutative gate.
func (c *Circuit) SwapInputs() error {
	if !c.CanSwapInputs() {
		return errors.New(errors.ErrCodeInvalidInput, "%v inputs cannot be swapped", c.Kind)
	}
	c.Inputs[0].Conn, c.Inputs[1].Conn = c.Inputs[1].Conn, c.Inputs[0].Conn
	return nil
}

// FirstOutput returns the first output pin, used as the circuit's sort key.
func (c *Circuit) FirstOutput() (Pin, bool) {
	if len(c.Outputs) == 0 {
		return Pin{}, false
	}
	return c.Outputs[0].Conn, true
}

// Place anchors the circuit's top-left corner at p and resolves its pin
// positions. Placing a circuit twice is an error.
func (c *Circuit) Place(p Position) error {
	if c.Pos != nil {
		return errors.New(errors.ErrCodeAlreadyPlaced, "%v circuit already placed at (%d, %d)", c.Kind, c.Pos.X, c.Pos.Y)
	}
	c.Pos = &p
	c.resolvePins()
	return nil
}

// Reposition moves a placed circuit to column x, keeping its row.
func (c *Circuit) Reposition(x int) error {
	if c.Pos == nil {
		return errors.New(errors.ErrCodeNotPlaced, "%v circuit repositioned before placement", c.Kind)
	}
	c.Pos.X = x
	c.resolvePins()
	return nil
}

// resolvePins puts input pins one column left of the body and output pins one
// column right of it.
func (c *Circuit) resolvePins() {
	s := c.Shape()
	for i := range c.Inputs {
		c.Inputs[i].Pos = &Position{X: c.Pos.X - 1, Y: c.Pos.Y + s.InputOffsets[i]}
	}
	for i := range c.Outputs {
		c.Outputs[i].Pos = &Position{X: c.Pos.X + s.Width, Y: c.Pos.Y + s.OutputOffsets[i]}
	}
}

// Draw paints the circuit's cell pattern at its anchor.
func (c *Circuit) Draw(g *grid.Grid) error {
	if c.Pos == nil {
		return errors.New(errors.ErrCodeNotPlaced, "%v circuit drawn before placement", c.Kind)
	}
	s := c.Shape()
	for x := 0; x < s.Width; x++ {
		for y := 0; y < s.Height; y++ {
			if err := g.Set(c.Pos.X+x, c.Pos.Y+y, s.At(x, y)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Circuit) String() string {
	return fmt.Sprintf("%v%v->%v", c.Kind, pins(c.Inputs), pins(c.Outputs))
}

func pins(ports []Port) []Pin {
	out := make([]Pin, len(ports))
	for i, p := range ports {
		out[i] = p.Conn
	}
	return out
}
