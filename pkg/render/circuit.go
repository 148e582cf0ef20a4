package render

import (
	"github.com/matzehuels/netgrid/pkg/errors"
	"github.com/matzehuels/netgrid/pkg/grid"
	"github.com/matzehuels/netgrid/pkg/netlist"
)

// DrawCircuits paints the circuits of one stage. Outputs of circuits narrower
// than the widest one are extended with horizontal wire so that every output
// of the stage leaves from the same column. Inputs tied to constant true get
// a constant source on their pin cell.
func DrawCircuits(g *grid.Grid, circuits []*netlist.Circuit) error {
	widest := 1
	for _, c := range circuits {
		widest = max(widest, c.Width())
	}
	for _, c := range circuits {
		if !c.Placed() {
			return errors.New(errors.ErrCodeUnplacedGate, "%v was not placed", c)
		}
		if err := c.Draw(g); err != nil {
			return err
		}
		s := c.Shape()
		for _, off := range s.OutputOffsets {
			for dx := s.Width; dx < widest; dx++ {
				if err := g.Set(c.Pos.X+dx, c.Pos.Y+off, grid.WireH); err != nil {
					return err
				}
			}
		}
	}
	return DrawConstants(g, circuits)
}

// DrawConstants puts a constant source on the pin cell of every input tied
// to constant true.
func DrawConstants(g *grid.Grid, circuits []*netlist.Circuit) error {
	for _, c := range circuits {
		for _, p := range c.Inputs {
			if p.Conn.Kind != netlist.PinTrue || p.Pos == nil {
				continue
			}
			if err := g.Set(p.Pos.X, p.Pos.Y, grid.Constant); err != nil {
				return err
			}
		}
	}
	return nil
}
