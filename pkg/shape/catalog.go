package shape

import "github.com/matzehuels/netgrid/pkg/grid"

var (
	cornerLD = grid.CornerCell(grid.LeftDown)
	cornerLU = grid.CornerCell(grid.LeftUp)
	cornerDR = grid.CornerCell(grid.DownRight)
	cornerUR = grid.CornerCell(grid.UpRight)
	air      = grid.Air
)

func gate(g grid.Gate) grid.Cell { return grid.GateCell(g) }

// twoInput builds a 1x3 gate: inputs on rows 0 and 2 merge into the body on
// row 1.
func twoInput(k Kind, name string, g grid.Gate) Shape {
	return Shape{
		Kind: k, Name: name,
		Width: 1, Height: 3,
		InputNames: []string{"A", "B"}, InputOffsets: []int{0, 2},
		OutputNames: []string{"Y"}, OutputOffsets: []int{1},
		Commutative: true,
		Pattern:     []grid.Cell{cornerLD, gate(g), cornerLU},
	}
}

// inverted builds a 2x3 gate whose body output runs through a NOT.
func inverted(k Kind, name string, g grid.Gate) Shape {
	return Shape{
		Kind: k, Name: name,
		Width: 2, Height: 3,
		InputNames: []string{"A", "B"}, InputOffsets: []int{0, 2},
		OutputNames: []string{"Y"}, OutputOffsets: []int{1},
		Commutative: true,
		Pattern: []grid.Cell{
			cornerLD, air,
			gate(g), gate(grid.GateNot),
			cornerLU, air,
		},
	}
}

// negatedB builds a 2x3 gate that inverts its B input, so inputs may not be
// swapped.
func negatedB(k Kind, name string, g grid.Gate) Shape {
	return Shape{
		Kind: k, Name: name,
		Width: 2, Height: 3,
		InputNames: []string{"A", "B"}, InputOffsets: []int{0, 2},
		OutputNames: []string{"Y"}, OutputOffsets: []int{1},
		Pattern: []grid.Cell{
			grid.WireH, cornerLD,
			air, gate(g),
			gate(grid.GateNot), cornerLU,
		},
	}
}

func single(k Kind, name string, c grid.Cell, hasInput bool) Shape {
	s := Shape{
		Kind: k, Name: name,
		Width: 1, Height: 1,
		OutputNames: []string{"Y"}, OutputOffsets: []int{0},
		Pattern: []grid.Cell{c},
	}
	if hasInput {
		s.InputNames = []string{"A"}
		s.InputOffsets = []int{0}
	}
	return s
}

func dff() Shape {
	teeLRD := grid.TeeCell(grid.LeftRightDown)
	teeLUD := grid.TeeCell(grid.LeftUpDown)
	h, v, x := grid.WireH, grid.WireV, grid.Crossing
	return Shape{
		Kind: Dff, Name: "DFF",
		Width: 7, Height: 7,
		InputNames: []string{"C", "D"}, InputOffsets: []int{0, 2},
		OutputNames: []string{"Q"}, OutputOffsets: []int{1},
		Pattern: []grid.Cell{
			teeLRD, gate(grid.GateNot), cornerLD, air, air, air, air,
			v, air, gate(grid.GateAnd), h, cornerLD, air, cornerDR,
			x, h, teeLUD, air, gate(grid.GateNor), teeLRD, cornerLU,
			v, air, v, air, cornerUR, x, cornerLD,
			v, air, v, air, cornerDR, cornerLU, v,
			v, air, gate(grid.GateAnd), cornerLD, gate(grid.GateNor), h, cornerLU,
			cornerUR, h, cornerLU, cornerUR, cornerLU, air, air,
		},
	}
}

// catalog is indexed by Kind.
var catalog = [...]Shape{
	And:     twoInput(And, "AND", grid.GateAnd),
	Nand:    twoInput(Nand, "NAND", grid.GateNand),
	AndNot:  negatedB(AndNot, "ANDNOT", grid.GateAnd),
	Or:      twoInput(Or, "OR", grid.GateOr),
	Nor:     twoInput(Nor, "NOR", grid.GateNor),
	OrNot:   negatedB(OrNot, "ORNOT", grid.GateOr),
	Not:     single(Not, "NOT", gate(grid.GateNot), true),
	Xnor:    inverted(Xnor, "XNOR", grid.GateXor),
	Xor:     twoInput(Xor, "XOR", grid.GateXor),
	Buf:     single(Buf, "BUF", gate(grid.GateForward), true),
	Dff:     dff(),
	Input:   single(Input, "INPUT", gate(grid.GateInput), false),
	Output:  single(Output, "OUTPUT", gate(grid.GateOutput), true),
	Forward: single(Forward, "FORWARD", gate(grid.GateForward), true),
}
