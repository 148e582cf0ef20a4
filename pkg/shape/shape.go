// Package shape is the static catalog of gate footprints.
//
// Each logic-function [Kind] maps to a [Shape]: its width and height in grid
// cells, the row offset of every input and output pin, whether its two inputs
// may be swapped, and the fixed cell pattern drawn for its body. The kind set
// is closed and known at compile time, so [Lookup] is a plain table lookup.
//
// Input pins enter on the left edge of the footprint and output pins leave on
// the right edge. Pin offsets are relative to the top row of the footprint.
package shape

import (
	"github.com/matzehuels/netgrid/pkg/errors"
	"github.com/matzehuels/netgrid/pkg/grid"
)

// Kind identifies a gate shape.
type Kind uint8

const (
	And Kind = iota
	Nand
	AndNot
	Or
	Nor
	OrNot
	Not
	Xnor
	Xor
	Buf
	Dff

	// Synthetic kinds created by the compiler, never by a netlist.
	Input
	Output
	Forward
)

// Shape is the static description of one gate kind.
type Shape struct {
	Kind          Kind
	Name          string
	Width         int
	Height        int
	InputNames    []string
	InputOffsets  []int
	OutputNames   []string
	OutputOffsets []int
	Commutative   bool
	Pattern       []grid.Cell // row-major, Width*Height cells
}

// At returns the pattern cell at column x and row y of the footprint.
func (s Shape) At(x, y int) grid.Cell {
	return s.Pattern[y*s.Width+x]
}

// Synthetic reports whether the shape is created by the compiler rather than
// read from a netlist.
func (s Shape) Synthetic() bool {
	return s.Kind >= Input
}

func (k Kind) String() string {
	if int(k) < len(catalog) {
		return catalog[k].Name
	}
	return "UNKNOWN"
}

// Lookup returns the shape for k. It panics on a kind outside the closed set,
// which can only result from a conversion bug.
func Lookup(k Kind) Shape {
	if int(k) >= len(catalog) {
		panic("shape: unknown kind")
	}
	return catalog[k]
}

// Parse maps a netlist cell type name (e.g. "AND", "DFF") to its kind.
// Synthetic kinds cannot be parsed.
func Parse(cellType string) (Kind, error) {
	for _, s := range catalog {
		if !s.Synthetic() && s.Name == cellType {
			return s.Kind, nil
		}
	}
	return 0, errors.New(errors.ErrCodeUnknownGate, "unsupported cell type %q", cellType)
}

// Kinds returns every kind in the catalog in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(catalog))
	for i := range catalog {
		kinds[i] = Kind(i)
	}
	return kinds
}
