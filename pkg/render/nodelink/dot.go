package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/netgrid/pkg/netlist"
	"github.com/matzehuels/netgrid/pkg/shape"
	"github.com/matzehuels/netgrid/pkg/stage"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the stage index and pin lists to node labels.
	// When false, only the gate kind is shown.
	Detailed bool
	// HideForwards drops pass-through circuits and draws the nets they carry
	// as direct edges.
	HideForwards bool
}

// ToDOT converts a stage layering to Graphviz DOT format. Every stage is one
// rank, left to right. Every net becomes edges from its driver in the
// previous stage to each consumer, labelled with the net id.
//
// Pass-through circuits are rendered with dashed outlines and grey fill to
// distinguish them from gates of the netlist.
func ToDOT(stages []stage.Stage, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	ids := make(map[*netlist.Circuit]string)
	for i, s := range stages {
		fmt.Fprintf(&buf, "  subgraph stage%d {\n    rank=same;\n", i)
		for j, c := range s {
			if opts.HideForwards && c.Kind == shape.Forward {
				continue
			}
			id := fmt.Sprintf("s%d_%d", i, j)
			ids[c] = id
			fmt.Fprintf(&buf, "    %q [%s];\n", id, strings.Join(fmtAttrs(c, i, opts.Detailed), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	drivers := make(map[netlist.NetID]*netlist.Circuit)
	for _, s := range stages {
		for _, c := range s {
			for _, p := range c.Inputs {
				id, ok := p.Conn.NetOf()
				if !ok {
					continue
				}
				from := drivers[id]
				if from == nil {
					continue
				}
				if _, shown := ids[c]; shown {
					fmt.Fprintf(&buf, "  %q -> %q [label=\"%d\"];\n", ids[from], ids[c], id)
				}
			}
		}
		for _, c := range s {
			if opts.HideForwards && c.Kind == shape.Forward {
				continue
			}
			for _, p := range c.Outputs {
				if id, ok := p.Conn.NetOf(); ok {
					drivers[id] = c
				}
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(c *netlist.Circuit, stageIdx int, detailed bool) string {
	if !detailed {
		return c.Kind.String()
	}
	parts := []string{
		fmt.Sprintf("stage: %d", stageIdx),
		fmt.Sprintf("in: %v", pinList(c.Inputs)),
		fmt.Sprintf("out: %v", pinList(c.Outputs)),
	}
	return c.Kind.String() + "\n" + strings.Join(parts, "\n")
}

func pinList(ports []netlist.Port) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = p.Conn.String()
	}
	return strings.Join(parts, " ")
}

func fmtAttrs(c *netlist.Circuit, stageIdx int, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(c, stageIdx, detailed))}
	switch c.Kind {
	case shape.Forward:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	case shape.Input, shape.Output:
		attrs = append(attrs, "shape=ellipse", "fillcolor=lightblue")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
