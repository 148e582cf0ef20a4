package sink

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/netgrid/pkg/grid"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	meta map[string]any
}

// WithJSONMeta attaches free-form metadata, such as compile statistics.
func WithJSONMeta(key string, v any) JSONOption {
	return func(r *jsonRenderer) {
		if r.meta == nil {
			r.meta = make(map[string]any)
		}
		r.meta[key] = v
	}
}

type jsonOutput struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Rows   []string       `json:"rows"`
	Counts map[string]int `json:"counts"`
	Meta   map[string]any `json:"meta,omitempty"`
}

var kindNames = map[grid.Kind]string{
	grid.KindWireH:    "wire",
	grid.KindWireV:    "wire",
	grid.KindCrossing: "crossing",
	grid.KindCorner:   "corner",
	grid.KindTee:      "tee",
	grid.KindStar:     "star",
	grid.KindGate:     "gate",
	grid.KindConstant: "constant",
}

// RenderJSON renders g as rows of box-drawing text plus per-kind cell counts.
func RenderJSON(g *grid.Grid, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	w, h := g.Dimensions()
	out := jsonOutput{
		Width:  w,
		Height: h,
		Rows:   strings.Split(strings.TrimSuffix(g.String(), "\n"), "\n"),
		Counts: make(map[string]int),
		Meta:   r.meta,
	}
	if h == 0 {
		out.Rows = []string{}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if name, ok := kindNames[g.At(x, y).Kind]; ok {
				out.Counts[name]++
			}
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
