package grid_test

import (
	"fmt"

	"github.com/matzehuels/netgrid/pkg/errors"
	"github.com/matzehuels/netgrid/pkg/grid"
)

func ExampleGrid_String() {
	// A bus tapped by a constant and an AND gate.
	g := grid.New(0, 0)
	_ = g.Set(0, 0, grid.WireH)
	_ = g.Set(1, 0, grid.TeeCell(grid.LeftRightDown))
	_ = g.Set(2, 0, grid.WireH)
	_ = g.Set(0, 1, grid.Constant)
	_ = g.Set(1, 1, grid.TeeCell(grid.LeftRightUp))
	_ = g.Set(2, 1, grid.GateCell(grid.GateAnd))

	w, h := g.Dimensions()
	fmt.Printf("%dx%d\n", w, h)
	fmt.Print(g.String())
	// Output:
	// 3x2
	// ─┬─
	// o┴^
}

func ExampleGrid_Set_outOfRange() {
	g := grid.New(4, 4)
	err := g.Set(5, 0, grid.WireH)
	fmt.Println(errors.Is(err, errors.ErrCodeOutOfRange))
	// Output:
	// true
}

func ExampleCell_upgrade() {
	// Later writes replace earlier ones: a second wire turns a run into a crossing.
	g := grid.New(0, 0)
	_ = g.Set(0, 0, grid.WireH)
	if g.At(0, 0) == grid.WireH {
		_ = g.Set(0, 0, grid.Crossing)
	}
	fmt.Println(string(g.At(0, 0).Rune()))
	// Output:
	// ╂
}
