package sink

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/netgrid/pkg/grid"
)

// TextOption configures text rendering via [RenderText].
type TextOption func(*textRenderer)

type textRenderer struct {
	color bool
}

// WithColor styles gates, constants and junctions with ANSI colors.
func WithColor() TextOption { return func(r *textRenderer) { r.color = true } }

var (
	styleGate     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleIO       = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	styleConstant = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleJunction = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	styleWire     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// RenderText renders the used extent of g one grid row per line.
func RenderText(g *grid.Grid, opts ...TextOption) []byte {
	var r textRenderer
	for _, opt := range opts {
		opt(&r)
	}
	if !r.color {
		return []byte(g.String())
	}

	w, h := g.Dimensions()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := g.At(x, y)
			b.WriteString(styleFor(c).Render(string(c.Rune())))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func styleFor(c grid.Cell) lipgloss.Style {
	switch c.Kind {
	case grid.KindGate:
		if c.Gate == grid.GateInput || c.Gate == grid.GateOutput {
			return styleIO
		}
		return styleGate
	case grid.KindConstant:
		return styleConstant
	case grid.KindTee, grid.KindStar, grid.KindCrossing:
		return styleJunction
	case grid.KindEmpty:
		return lipgloss.NewStyle()
	}
	return styleWire
}
