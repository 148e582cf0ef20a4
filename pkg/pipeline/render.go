package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/netgrid/pkg/render/nodelink"
	"github.com/matzehuels/netgrid/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, c *Compiled, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatText:
			var to []sink.TextOption
			if opts.Color {
				to = append(to, sink.WithColor())
			}
			data = sink.RenderText(c.Grid, to...)
		case FormatLua:
			data = sink.RenderLua(c.Grid)
		case FormatMTS:
			data, err = sink.RenderMTS(c.Grid)
		case FormatJSON:
			data, err = sink.RenderJSON(c.Grid, sink.WithJSONMeta("stats", c.Stats))
		case FormatDOT:
			data = []byte(nodelink.ToDOT(c.Stages, nodelink.Options{HideForwards: opts.HideForwards}))
		case FormatSVG:
			dot := nodelink.ToDOT(c.Stages, nodelink.Options{HideForwards: opts.HideForwards})
			data, err = nodelink.RenderSVG(ctx, dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
