package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/netgrid/pkg/grid"
)

// RenderLua renders g as a Lua schematic table.
func RenderLua(g *grid.Grid) []byte {
	w, h := g.Dimensions()
	var b bytes.Buffer
	b.WriteString("schematic = {\n")
	fmt.Fprintf(&b, "\tsize = {x=%d, y=2, z=%d},\n", h, w)
	b.WriteString("\tdata = {\n")
	_ = forEachNode(g, func(name string, p2 uint8) error {
		if name == nodeStone {
			b.WriteString("\t\t{name=\"stone\"},\n")
			return nil
		}
		fmt.Fprintf(&b, "\t\t{name=%q, param2=%d},\n", name, p2)
		return nil
	})
	b.WriteString("\t}\n}\n")
	return b.Bytes()
}
