// Package pkg provides the core libraries for netgrid, a place-and-route
// backend that lays gate-level netlists out on a two-dimensional block grid.
//
// # Overview
//
// A netlist is a set of logic gates connected by nets. netgrid sorts the gates
// into stages, stacks each stage in a column, and routes the nets between
// neighbouring columns through a wire channel. The finished grid can be
// dumped as text or exported as a Minetest schematic.
//
// # Architecture
//
// The typical data flow:
//
//	Yosys JSON netlist
//	         ↓
//	    [io] package (load and normalize the netlist)
//	         ↓
//	    [stage] package (topological stages + forwarding pass-throughs)
//	         ↓
//	    [place] package (stack gates of a stage, aligned to incoming nets)
//	         ↓
//	    [channel] package (route each channel with eviction)
//	         ↓
//	    [render] package (draw wires and gates onto a [grid])
//	         ↓
//	    txt / lua / mts / json / dot / svg
//
// # Quick Start
//
//	nl, _ := io.ImportYosys("adder.json")
//	compiled, _ := pipeline.Compile(ctx, nl, pipeline.Options{})
//	fmt.Print(compiled.Grid.String())
//
// # Main Packages
//
// ## Domain
//
// [netlist] - Pins, ports and circuits. A circuit is one grid-resident
// component: a gate, an input or output pin, or a forwarding wire.
//
// [shape] - The closed gate library with footprints and pin offsets.
//
// [grid] - Sparse two-dimensional block grid with bounds checking.
//
// [stage] - Stage builder. Splits a netlist into topological stages and
// inserts forwarding circuits so every stage reads only from its predecessor.
//
// [place] - Gate placer. Stacks the circuits of a stage, swapping commutative
// inputs and aligning inputs with their source tracks.
//
// [channel] - Channel layouts and the router. A channel is solved as a
// sequence of steps, each claiming a non-overlapping set of tracks; blocking
// nets are evicted to free tracks when needed.
//
// [render] - Draws routed channels, lead-out columns and circuits onto a
// grid. [render/sink] exports grids; [render/nodelink] draws stage graphs.
//
// ## Infrastructure
//
// [pipeline] - Complete compile pipeline (load → stage → place → route →
// draw → render) used by the CLI and the compile server.
//
// [cache] - Artifact cache with file, Redis, MongoDB and null backends.
//
// [config] - TOML config file.
//
// [observability] - Pipeline, cache and server hooks.
//
// [errors] - Structured error codes.
//
// # Testing
//
//	go test ./pkg/...
//	go test -run TestRouteRandomized ./pkg/channel
//
// [io]: https://pkg.go.dev/github.com/matzehuels/netgrid/pkg/io
// [netlist]: https://pkg.go.dev/github.com/matzehuels/netgrid/pkg/netlist
// [shape]: https://pkg.go.dev/github.com/matzehuels/netgrid/pkg/shape
// [grid]: https://pkg.go.dev/github.com/matzehuels/netgrid/pkg/grid
// [stage]: https://pkg.go.dev/github.com/matzehuels/netgrid/pkg/stage
// [place]: https://pkg.go.dev/github.com/matzehuels/netgrid/pkg/place
// [channel]: https://pkg.go.dev/github.com/matzehuels/netgrid/pkg/channel
// [render]: https://pkg.go.dev/github.com/matzehuels/netgrid/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/netgrid/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/netgrid/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/netgrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/netgrid/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/netgrid/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/netgrid/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/netgrid/pkg/errors
package pkg
