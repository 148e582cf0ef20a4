package render

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netgrid/pkg/channel"
	"github.com/matzehuels/netgrid/pkg/grid"
)

// Options configure channel drawing.
type Options struct {
	// Padding is the number of extra columns drawn after each step.
	Padding int `json:"padding,omitempty"`

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if o.Padding < 0 {
		o.Padding = 0
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Result reports where drawing stopped.
type Result struct {
	// Next is the first column after the drawn channel.
	Next int
	// Fallbacks counts cells that no upgrade rule covered.
	Fallbacks int
}

// painter writes cells and keeps the first error, so drawing code can call
// set without checking every write.
type painter struct {
	g         *grid.Grid
	log       *log.Logger
	err       error
	fallbacks int
}

func (p *painter) get(x, y int) grid.Cell { return p.g.At(x, y) }

func (p *painter) set(x, y int, c grid.Cell) {
	if p.err != nil {
		return
	}
	p.err = p.g.Set(x, y, c)
}

// through draws a vertical run over (x, y), crossing a horizontal wire.
func (p *painter) through(x, y int) {
	switch p.get(x, y) {
	case grid.Air:
		p.set(x, y, grid.WireV)
	case grid.WireH:
		p.set(x, y, grid.Crossing)
	}
}

// DrawChannel draws steps starting at column x.
func DrawChannel(g *grid.Grid, steps []channel.Step, x int, opts Options) (Result, error) {
	opts.SetDefaults()
	p := &painter{g: g, log: opts.Logger}

	for _, s := range steps {
		for xi := 0; xi <= opts.Padding; xi++ {
			if s.Occupancy == nil {
				break
			}
			for i, ok := s.Occupancy.NextSet(0); ok; i, ok = s.Occupancy.NextSet(i + 1) {
				y := int(i)
				if p.get(x+xi, y) == grid.WireV {
					p.set(x+xi, y, grid.Crossing)
				} else {
					p.set(x+xi, y, grid.WireH)
				}
			}
		}
		for _, w := range s.Wires {
			p.wire(x, w)
		}
		if p.err != nil {
			return Result{Next: x, Fallbacks: p.fallbacks}, p.err
		}
		x += 1 + opts.Padding
	}
	return Result{Next: x, Fallbacks: p.fallbacks}, nil
}

type side uint8

const (
	above side = iota
	below
)

func (p *painter) wire(x int, w channel.Wire) {
	dest := slices.Clone(w.To)
	if w.Op == channel.Copy {
		dest = append(dest, w.From)
	}
	if len(dest) == 0 {
		return
	}
	lo, hi := slices.Min(dest), slices.Max(dest)
	src := w.From

	if lo != hi {
		for y := lo; y <= hi; y++ {
			switch {
			case y == lo:
				p.set(x, y, grid.CornerCell(grid.DownRight))
			case y == hi:
				p.set(x, y, grid.CornerCell(grid.UpRight))
			case slices.Contains(dest, y):
				p.set(x, y, grid.TeeCell(grid.RightUpDown))
			default:
				p.through(x, y)
			}
		}
	}

	var start, end int
	var pos side
	switch {
	case src < lo:
		start, end, pos = src, lo, above
	case src > hi:
		start, end, pos = hi, src, below
	default:
		switch {
		case !slices.Contains(dest, src):
			p.set(x, src, grid.TeeCell(grid.LeftUpDown))
		case src == lo:
			p.set(x, src, grid.TeeCell(grid.LeftRightDown))
		case src == hi:
			p.set(x, src, grid.TeeCell(grid.LeftRightUp))
		default:
			p.set(x, src, grid.Star)
		}
		return
	}

	for y := start; y <= end; y++ {
		if y != start && y != end {
			p.through(x, y)
			continue
		}
		if y == src && w.Op == channel.Copy {
			continue
		}
		p.set(x, y, p.join(x, y, y == src, pos))
	}

	if w.Op == channel.Copy {
		if pos == below {
			p.set(x, src, grid.TeeCell(grid.LeftRightUp))
		} else {
			p.set(x, src, grid.TeeCell(grid.LeftRightDown))
		}
	}
}

// join picks the cell where a source run ends, given what is already there.
func (p *painter) join(x, y int, atSource bool, pos side) grid.Cell {
	prev := p.get(x, y)
	switch {
	case atSource && pos == above && prev == grid.Air:
		return grid.CornerCell(grid.LeftDown)
	case atSource && pos == below && prev == grid.Air:
		return grid.CornerCell(grid.LeftUp)
	case !atSource && pos == above && prev == grid.CornerCell(grid.DownRight):
		return grid.TeeCell(grid.RightUpDown)
	case !atSource && pos == below && prev == grid.CornerCell(grid.UpRight):
		return grid.TeeCell(grid.RightUpDown)
	case !atSource && pos == below && prev == grid.WireH:
		return grid.CornerCell(grid.DownRight)
	case !atSource && pos == above && prev == grid.WireH:
		return grid.CornerCell(grid.UpRight)
	}
	p.fallbacks++
	p.log.Warn("unexpected cell at end of source run", "cell", string(prev.Rune()), "source", atSource, "x", x, "y", y)
	return grid.Constant
}

// DrawLeadOut draws one column of horizontal wire at x for every track of l
// that carries a net.
func DrawLeadOut(g *grid.Grid, l channel.Layout, x int) error {
	for y, s := range l {
		if !s.HasNet() {
			continue
		}
		if err := g.Set(x, y, grid.WireH); err != nil {
			return err
		}
	}
	return nil
}
