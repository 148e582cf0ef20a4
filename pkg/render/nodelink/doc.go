// Package nodelink renders a stage layering as a node-link diagram.
//
// # Overview
//
// Every circuit becomes a box, every stage a rank laid out left to right,
// and every net an arrow from its driver to each gate reading it. This view
// makes it easy to see how deep a netlist is and where pass-through circuits
// were needed.
//
// # Usage
//
//	dot := nodelink.ToDOT(stages, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
