// Package render paints routed channels and placed circuits onto a grid.
//
// # Channels
//
// [DrawChannel] turns the step list produced by the channel router into
// cells, one column per step (plus [Options.Padding] spare columns). Every
// track that carries a net after the step gets a horizontal wire. Each wire
// of the step then becomes a vertical run in the step's column:
//
//   - Several destinations form a bus from the topmost to the bottommost
//     destination, with corners at both ends and T-junctions at every
//     destination in between.
//   - A source outside the bus gets its own run to the nearest bus end, ending
//     in a corner at the source row.
//   - A source inside the bus becomes a T-junction or a four-way junction.
//   - A copied source keeps its horizontal wire and joins the run with a
//     T-junction.
//
// Cells are upgraded in place: a horizontal wire crossed by a vertical run
// becomes a crossing, and the corner closing a bus becomes a T-junction once
// the source run joins it. A run reaching a cell that no upgrade covers is
// logged and marked with a constant cell so the defect stays visible.
//
// # Circuits
//
// [DrawCircuits] paints gate bodies, extends the outputs of gates narrower
// than the widest in their stage, and puts a constant source next to every
// input tied to constant true.
//
// # Graphs
//
// The [nodelink] subpackage renders the stage layering as a Graphviz graph.
//
// [nodelink]: github.com/matzehuels/netgrid/pkg/render/nodelink
package render
