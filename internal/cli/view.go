package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netgrid/pkg/grid"
	"github.com/matzehuels/netgrid/pkg/pipeline"
)

var (
	viewHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// viewCommand creates the view command for browsing a layout in the terminal.
func (c *CLI) viewCommand() *cobra.Command {
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "view [netlist.json]",
		Short: "Browse the compiled grid in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			return c.runView(cmd.Context(), opts)
		},
	}

	cmd.Flags().Float64Var(&opts.UtilizationCap, "cap", 0, "fraction of a channel one routing step may claim")
	cmd.Flags().IntVar(&opts.Padding, "padding", 0, "extra columns after each routing step")

	return cmd
}

func (c *CLI) runView(ctx context.Context, opts pipeline.Options) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	cfg.Apply(&opts)
	opts.Logger = c.Logger

	raw, err := pipeline.ReadInput(opts)
	if err != nil {
		return err
	}
	nl, err := pipeline.Load(raw)
	if err != nil {
		return err
	}
	compiled, err := pipeline.Compile(ctx, nl, opts)
	if err != nil {
		return err
	}

	m := newGridModel(opts.Path, compiled.Grid, compiled.Stats)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// gridModel - Scrollable grid viewer
// =============================================================================

// gridModel is the bubbletea model for browsing a grid.
type gridModel struct {
	title  string
	cells  [][]grid.Cell
	stats  pipeline.Stats
	offX   int
	offY   int
	width  int
	height int
}

func newGridModel(title string, g *grid.Grid, stats pipeline.Stats) gridModel {
	w, h := g.Dimensions()
	m := gridModel{title: title, stats: stats, width: 80, height: 20}
	for y := 0; y < h; y++ {
		row := make([]grid.Cell, w)
		for x := range row {
			row[x] = g.At(x, y)
		}
		m.cells = append(m.cells, row)
	}
	return m
}

func (m gridModel) Init() tea.Cmd {
	return nil
}

func (m gridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.offY--
		case "down", "j":
			m.offY++
		case "left", "h":
			m.offX--
		case "right", "l":
			m.offX++
		case "pgup":
			m.offY -= m.height
		case "pgdown", " ":
			m.offY += m.height
		case "home", "g":
			m.offX, m.offY = 0, 0
		case "end", "G":
			m.offY = len(m.cells)
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 10)
		m.height = max(msg.Height-4, 3)
	}
	m.clamp()
	return m, nil
}

func (m *gridModel) clamp() {
	cols := 0
	if len(m.cells) > 0 {
		cols = len(m.cells[0])
	}
	m.offY = min(max(m.offY, 0), max(len(m.cells)-m.height, 0))
	m.offX = min(max(m.offX, 0), max(cols-m.width, 0))
}

func (m gridModel) View() string {
	var b strings.Builder

	b.WriteString(viewHeaderStyle.Render(m.title))
	b.WriteString(viewDimStyle.Render(fmt.Sprintf("  %dx%d · %d stages · %d steps · %d evictions",
		m.stats.Width, m.stats.Height, m.stats.Stages, m.stats.Steps(), m.stats.Evictions())))
	b.WriteString("\n\n")

	end := min(m.offY+m.height, len(m.cells))
	for y := m.offY; y < end; y++ {
		row := m.cells[y]
		stop := min(m.offX+m.width, len(row))
		for x := m.offX; x < stop; x++ {
			c := row[x]
			b.WriteString(cellStyle(c).Render(string(c.Rune())))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(viewDimStyle.Render(fmt.Sprintf("↑↓←→ scroll  g top  q quit  [%d,%d]", m.offX, m.offY)))
	return b.String()
}

func cellStyle(c grid.Cell) lipgloss.Style {
	switch c.Kind {
	case grid.KindGate:
		return StyleHighlight.Bold(true)
	case grid.KindConstant:
		return StyleWarning
	case grid.KindEmpty:
		return lipgloss.NewStyle()
	}
	return StyleDim
}
