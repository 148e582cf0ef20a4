package pipeline

import (
	"context"
	"os"
	"slices"
	"testing"

	"github.com/matzehuels/netgrid/pkg/grid"
	"github.com/matzehuels/netgrid/pkg/netlist"
	"github.com/matzehuels/netgrid/pkg/stage"
)

type side int

const (
	up side = iota
	down
	left
	right
)

var offsets = [...][2]int{up: {0, -1}, down: {0, 1}, left: {-1, 0}, right: {1, 0}}

func (s side) opposite() side { return s ^ 1 }

// openings lists the sides a wire cell connects.
func openings(c grid.Cell) []side {
	switch c.Kind {
	case grid.KindWireH:
		return []side{left, right}
	case grid.KindWireV:
		return []side{up, down}
	case grid.KindCrossing, grid.KindStar:
		return []side{up, down, left, right}
	case grid.KindCorner:
		switch c.Corner {
		case grid.LeftUp:
			return []side{left, up}
		case grid.LeftDown:
			return []side{left, down}
		case grid.DownRight:
			return []side{down, right}
		case grid.UpRight:
			return []side{up, right}
		}
	case grid.KindTee:
		switch c.Tee {
		case grid.LeftRightDown:
			return []side{left, right, down}
		case grid.LeftRightUp:
			return []side{left, right, up}
		case grid.RightUpDown:
			return []side{right, up, down}
		case grid.LeftUpDown:
			return []side{left, up, down}
		}
	}
	return nil
}

// traceGates follows the wire leaving (x, y) towards dir and returns the
// positions of every gate cell it ends in. A cell is entered only if it
// opens towards the cell it is entered from, and crossings pass straight
// through.
func traceGates(g *grid.Grid, x, y int, dir side) map[[2]int]bool {
	type visit struct {
		x, y int
		from side
	}
	next := func(x, y int, s side) visit {
		return visit{x + offsets[s][0], y + offsets[s][1], s.opposite()}
	}

	found := map[[2]int]bool{}
	seen := map[visit]bool{}
	queue := []visit{next(x, y, dir)}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if seen[v] {
			continue
		}
		seen[v] = true

		c := g.At(v.x, v.y)
		if c.Kind == grid.KindGate {
			found[[2]int{v.x, v.y}] = true
			continue
		}
		outs := openings(c)
		if !slices.Contains(outs, v.from) {
			continue
		}
		if c.Kind == grid.KindCrossing {
			outs = []side{v.from.opposite()}
		}
		for _, o := range outs {
			if o != v.from {
				queue = append(queue, next(v.x, v.y, o))
			}
		}
	}
	return found
}

func within(c *netlist.Circuit, pos [2]int) bool {
	return pos[0] >= c.Pos.X && pos[0] < c.Pos.X+c.Width() &&
		pos[1] >= c.Pos.Y && pos[1] < c.Pos.Y+c.Height()
}

// checkWiring traces every net from the output of its producer and checks
// that it ends in exactly the circuits of the next stage that consume it.
func checkWiring(t *testing.T, g *grid.Grid, stages []stage.Stage) {
	t.Helper()
	for i := 1; i < len(stages); i++ {
		for _, p := range stages[i-1] {
			for k, out := range p.Outputs {
				id, ok := out.Conn.NetOf()
				if !ok {
					continue
				}
				x := p.Pos.X + p.Width() - 1
				y := p.Pos.Y + p.Shape().OutputOffsets[k]
				reached := traceGates(g, x, y, right)

				for _, c := range stages[i] {
					wants := slices.ContainsFunc(c.Inputs, func(in netlist.Port) bool {
						n, ok := in.Conn.NetOf()
						return ok && n == id
					})
					got := false
					for pos := range reached {
						if within(c, pos) {
							got = true
							delete(reached, pos)
						}
					}
					if got != wants {
						t.Errorf("net %d from %v: reaches %v = %v, want %v", id, p, c, got, wants)
					}
				}
				for pos := range reached {
					t.Errorf("net %d from %v ends in stray gate cell at %v", id, p, pos)
				}
			}
		}
	}
}

func TestTraceGates(t *testing.T) {
	g := grid.New(0, 0)
	_ = g.Set(0, 0, grid.GateCell(grid.GateInput))
	_ = g.Set(1, 0, grid.WireH)
	_ = g.Set(2, 0, grid.CornerCell(grid.LeftDown))
	_ = g.Set(2, 1, grid.Crossing)
	_ = g.Set(2, 2, grid.CornerCell(grid.UpRight))
	_ = g.Set(3, 2, grid.GateCell(grid.GateAnd))
	_ = g.Set(1, 1, grid.WireH)
	_ = g.Set(3, 1, grid.GateCell(grid.GateOr))

	got := traceGates(g, 0, 0, right)
	if len(got) != 1 || !got[[2]int{3, 2}] {
		t.Errorf("traceGates() = %v, want only (3, 2)", got)
	}

	// A corner turned the wrong way breaks the path.
	_ = g.Set(2, 0, grid.CornerCell(grid.LeftUp))
	if got := traceGates(g, 0, 0, right); len(got) != 0 {
		t.Errorf("traceGates() with broken corner = %v, want none", got)
	}
}

func TestCompileWiring(t *testing.T) {
	halfAdder, err := os.ReadFile("../../examples/netlists/half_adder.json")
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	tests := []struct {
		name string
		src  string
	}{
		{"and", andNetlist},
		{"swapped", swappedNetlist},
		{"chain", chainNetlist},
		{"half adder", string(halfAdder)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Compile(context.Background(), load(t, tt.src), Options{})
			if err != nil {
				t.Fatalf("Compile() error: %v", err)
			}
			checkWiring(t, c.Grid, c.Stages)
		})
	}
}

func TestCompileSingleGatePaths(t *testing.T) {
	c, err := Compile(context.Background(), load(t, andNetlist), Options{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	and := c.Stages[1][0]
	body := [2]int{and.Pos.X, and.Pos.Y + 1}
	if c.Grid.At(body[0], body[1]) != grid.GateCell(grid.GateAnd) {
		t.Fatalf("AND body at %v = %c", body, c.Grid.At(body[0], body[1]).Rune())
	}

	for _, in := range c.Stages[0] {
		got := traceGates(c.Grid, in.Pos.X, in.Pos.Y, right)
		if len(got) != 1 || !got[body] {
			t.Errorf("input %v reaches %v, want only the AND body %v", in, got, body)
		}
	}

	sink := c.Stages[2][0]
	got := traceGates(c.Grid, body[0], body[1], right)
	if want := [2]int{sink.Pos.X, sink.Pos.Y}; len(got) != 1 || !got[want] {
		t.Errorf("AND output reaches %v, want only the output pin %v", got, want)
	}
}
