package sink

import "github.com/matzehuels/netgrid/pkg/grid"

const nodeStone = "stone"

// nodeIDs is the MTS name table. Indices are written as node ids.
var nodeIDs = []string{
	"air",
	nodeStone,
	"mesecons_lamp:lamp_off",
	"mesecons_walllever:wall_lever_off",
	"mesecons_gates:and_off",
	"mesecons_gates:nand_off",
	"mesecons_gates:nor_off",
	"mesecons_gates:not_off",
	"mesecons_gates:or_off",
	"mesecons_gates:xor_off",
	"mesecons:mesecon_off",
	"mesecons_insulated:insulated_off",
	"mesecons_extrawires:corner_off",
	"mesecons_extrawires:tjunction_off",
	"mesecons_extrawires:crossover_off",
	"mesecons_torch:mesecon_torch_off",
}

var nodeIndex = func() map[string]uint16 {
	m := make(map[string]uint16, len(nodeIDs))
	for i, n := range nodeIDs {
		m[n] = uint16(i)
	}
	return m
}()

var gateNodes = map[grid.Gate]string{
	grid.GateInput:   "mesecons_walllever:wall_lever_off",
	grid.GateOutput:  "mesecons_lamp:lamp_off",
	grid.GateForward: "mesecons_insulated:insulated_off",
	grid.GateAnd:     "mesecons_gates:and_off",
	grid.GateNand:    "mesecons_gates:nand_off",
	grid.GateOr:      "mesecons_gates:or_off",
	grid.GateNor:     "mesecons_gates:nor_off",
	grid.GateNot:     "mesecons_gates:not_off",
	grid.GateXor:     "mesecons_gates:xor_off",
}

// nodeName returns the Minetest node for a cell.
func nodeName(c grid.Cell) string {
	switch c.Kind {
	case grid.KindWireH, grid.KindWireV:
		return "mesecons_insulated:insulated_off"
	case grid.KindCrossing:
		return "mesecons_extrawires:crossover_off"
	case grid.KindCorner:
		return "mesecons_extrawires:corner_off"
	case grid.KindTee:
		return "mesecons_extrawires:tjunction_off"
	case grid.KindStar:
		return "mesecons:mesecon_off"
	case grid.KindConstant:
		return "mesecons_torch:mesecon_torch_off"
	case grid.KindGate:
		if n, ok := gateNodes[c.Gate]; ok {
			return n
		}
	}
	return "air"
}

// param2 returns the facing of a cell's node.
func param2(c grid.Cell) uint8 {
	switch c.Kind {
	case grid.KindWireH:
		return 3
	case grid.KindCorner:
		switch c.Corner {
		case grid.LeftDown:
			return 3
		case grid.DownRight:
			return 2
		case grid.UpRight:
			return 1
		}
	case grid.KindTee:
		switch c.Tee {
		case grid.LeftRightUp:
			return 1
		case grid.RightUpDown:
			return 2
		case grid.LeftRightDown:
			return 3
		}
	case grid.KindGate:
		if c.Gate != grid.GateInput && c.Gate != grid.GateOutput {
			return 3
		}
	}
	return 0
}

// forEachNode visits both schematic layers in Minetest storage order: grid
// column outermost, then layer, then grid row. The bottom layer is stone.
func forEachNode(g *grid.Grid, fn func(name string, p2 uint8) error) error {
	w, h := g.Dimensions()
	for x := 0; x < w; x++ {
		for layer := 0; layer < 2; layer++ {
			for y := 0; y < h; y++ {
				var err error
				if layer == 0 {
					err = fn(nodeStone, 0)
				} else {
					c := g.At(x, y)
					err = fn(nodeName(c), param2(c))
				}
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}
