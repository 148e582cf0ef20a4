// Package grid provides the shared two-dimensional cell array that every
// stage of the layout writes into.
//
// # Coordinates
//
// Cells are addressed by (x, y) with x growing to the right (towards later
// stages) and y growing downwards (towards higher track indices). Storage is
// allocated lazily per column, so a grid costs memory proportional to its
// used extent rather than to its addressable bound.
//
// # Write Semantics
//
// A cell holds exactly one [Kind] at a time. Later writes replace earlier
// ones. Renderers rely on this to upgrade cells in place, for example a plain
// horizontal wire becomes a crossing once a vertical run passes over it.
//
// # Bounds
//
// Every accessor is bounds-checked against the limits given to [New].
// Coordinates outside them yield an [errors.ErrCodeOutOfRange] error instead
// of a panic.
//
// # Concurrency
//
// Grid is not safe for concurrent use. Rendering writes stages in order from a
// single goroutine.
package grid

import (
	"strings"

	"github.com/matzehuels/netgrid/pkg/errors"
)

// DefaultMaxWidth and DefaultMaxHeight bound the addressable extent when New
// is given zero limits. They match the 16-bit size fields of the MTS format.
const (
	DefaultMaxWidth  = 1<<16 - 1
	DefaultMaxHeight = 1<<16 - 1
)

// Grid is a growable, bounds-checked 2D array of cells.
type Grid struct {
	cols   [][]Cell
	maxW   int
	maxH   int
	width  int // one past the largest x written
	height int // one past the largest y written
}

// New creates an empty grid whose valid coordinates satisfy x < maxW and
// y < maxH. Non-positive limits fall back to the defaults.
func New(maxW, maxH int) *Grid {
	if maxW <= 0 {
		maxW = DefaultMaxWidth
	}
	if maxH <= 0 {
		maxH = DefaultMaxHeight
	}
	return &Grid{maxW: maxW, maxH: maxH}
}

// Bounds returns the addressable limits of the grid.
func (g *Grid) Bounds() (maxW, maxH int) { return g.maxW, g.maxH }

func (g *Grid) check(x, y int) error {
	if x < 0 || y < 0 || x >= g.maxW || y >= g.maxH {
		return errors.New(errors.ErrCodeOutOfRange, "position (%d, %d) outside %dx%d grid", x, y, g.maxW, g.maxH)
	}
	return nil
}

// Set writes c at (x, y), replacing whatever was there.
func (g *Grid) Set(x, y int, c Cell) error {
	if err := g.check(x, y); err != nil {
		return err
	}
	for len(g.cols) <= x {
		g.cols = append(g.cols, nil)
	}
	col := g.cols[x]
	if len(col) <= y {
		col = append(col, make([]Cell, y+1-len(col))...)
		g.cols[x] = col
	}
	col[y] = c
	if x+1 > g.width {
		g.width = x + 1
	}
	if y+1 > g.height {
		g.height = y + 1
	}
	return nil
}

// Get returns the cell at (x, y). Positions that were never written hold Air.
func (g *Grid) Get(x, y int) (Cell, error) {
	if err := g.check(x, y); err != nil {
		return Air, err
	}
	return g.At(x, y), nil
}

// At is like Get but returns Air instead of an error for any position
// outside the written extent.
func (g *Grid) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= len(g.cols) || y >= len(g.cols[x]) {
		return Air
	}
	return g.cols[x][y]
}

// Dimensions returns the used extent: one past the largest written x and y.
func (g *Grid) Dimensions() (width, height int) {
	return g.width, g.height
}

// Count returns the number of cells in the used extent matching pred.
// Unwritten positions inside the extent count as Air.
func (g *Grid) Count(pred func(Cell) bool) int {
	n := 0
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			if pred(g.At(x, y)) {
				n++
			}
		}
	}
	return n
}

// Equal reports whether both grids hold the same cell at every position.
func (g *Grid) Equal(o *Grid) bool {
	if g.width != o.width || g.height != o.height {
		return false
	}
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			if g.At(x, y) != o.At(x, y) {
				return false
			}
		}
	}
	return true
}

// String renders the used extent as lines of box-drawing runes.
func (g *Grid) String() string {
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			b.WriteRune(g.At(x, y).Rune())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
