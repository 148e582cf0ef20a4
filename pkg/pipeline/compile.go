package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/netgrid/pkg/channel"
	"github.com/matzehuels/netgrid/pkg/errors"
	"github.com/matzehuels/netgrid/pkg/grid"
	"github.com/matzehuels/netgrid/pkg/netlist"
	"github.com/matzehuels/netgrid/pkg/observability"
	"github.com/matzehuels/netgrid/pkg/place"
	"github.com/matzehuels/netgrid/pkg/render"
	"github.com/matzehuels/netgrid/pkg/stage"
)

// firstColumn is where the input stage is drawn. Column 0 stays empty.
const firstColumn = 1

// boundary is the channel in front of one stage.
type boundary struct {
	src, dst channel.Layout
	route    *channel.Result
}

// Compile lays out nl into a grid. The circuits of nl are placed in the
// process, so a netlist can be compiled only once.
func Compile(ctx context.Context, nl *netlist.Netlist, opts Options) (*Compiled, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	hooks := observability.Pipeline()
	logger := opts.Logger
	out := &Compiled{}

	start := time.Now()
	hooks.OnStagesStart(ctx, len(nl.Circuits))
	stages, err := stage.Build(nl)
	out.Stats.StageTime = time.Since(start)
	hooks.OnStagesComplete(ctx, len(stages), out.Stats.StageTime, err)
	if err != nil {
		return nil, err
	}
	out.Stages = stages
	out.Stats.Stages = len(stages)
	for _, s := range stages {
		out.Stats.Forwards += s.Forwards()
		out.Stats.Gates += len(s) - s.Forwards()
	}
	logger.Debug("built stages", "stages", len(stages), "forwards", out.Stats.Forwards)

	bounds, err := placeStages(stages)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	if err := routeAll(ctx, bounds, opts); err != nil {
		return nil, err
	}
	out.Stats.RouteTime = time.Since(start)
	for i, b := range bounds[1:] {
		out.Stats.Boundaries = append(out.Stats.Boundaries, BoundaryStats{
			Index:     i + 1,
			Tracks:    b.route.Tracks,
			Tasks:     b.route.Tasks,
			Steps:     len(b.route.Steps),
			Evictions: b.route.Evictions,
			Widenings: b.route.Widenings,
			Crossings: place.CountCrossings(b.src, b.dst),
		})
	}

	start = time.Now()
	g := grid.New(opts.MaxWidth, opts.MaxHeight)
	fallbacks, err := draw(g, stages, bounds, opts)
	if err != nil {
		return nil, err
	}
	out.Grid = g
	out.Stats.Fallbacks = fallbacks
	out.Stats.DrawTime = time.Since(start)
	out.Stats.Width, out.Stats.Height = g.Dimensions()

	logger.Info("compiled netlist",
		"stages", out.Stats.Stages,
		"gates", out.Stats.Gates,
		"steps", out.Stats.Steps(),
		"evictions", out.Stats.Evictions(),
		"size", [2]int{out.Stats.Width, out.Stats.Height})
	return out, nil
}

// placeStages assigns rows stage by stage. The first stage is stacked in
// its final column; every later stage is placed against the outputs of the
// stage before it. bounds[0] is unused.
func placeStages(stages []stage.Stage) ([]boundary, error) {
	if _, err := place.PlaceInputs(stages[0], firstColumn); err != nil {
		return nil, err
	}
	bounds := make([]boundary, len(stages))
	for i := 1; i < len(stages); i++ {
		src := channel.Extract(stages[i-1], channel.Outputs)
		dst, err := place.Place(src, stages[i])
		if err != nil {
			return nil, wrap(err, "place stage %d", i)
		}
		bounds[i] = boundary{src: src, dst: dst}
	}
	return bounds, nil
}

// routeAll routes every channel concurrently. Channels are independent once
// placement is done.
func routeAll(ctx context.Context, bounds []boundary, opts Options) error {
	hooks := observability.Pipeline()
	ro := opts.RouterOptions()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)
	for i := 1; i < len(bounds); i++ {
		b := &bounds[i]
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			hooks.OnRouteStart(ctx, i, max(len(b.src), len(b.dst)))
			res, err := channel.Route(b.src, b.dst, ro)
			if err == nil {
				err = channel.Verify(b.src, b.dst, res.Steps)
			}
			if err != nil {
				hooks.OnRouteComplete(ctx, i, 0, 0, time.Since(start), err)
				return wrap(err, "route channel %d", i)
			}
			hooks.OnRouteComplete(ctx, i, len(res.Steps), res.Evictions, time.Since(start), nil)
			b.route = res
			return nil
		})
	}
	return eg.Wait()
}

// draw writes every stage and channel into g from left to right and returns
// the number of fallback cells.
func draw(g *grid.Grid, stages []stage.Stage, bounds []boundary, opts Options) (int, error) {
	ro := opts.RenderOptions()
	fallbacks := 0
	x := firstColumn + stages[0].Widest()

	for i := 1; i < len(stages); i++ {
		b := bounds[i]
		for range opts.LeadOut {
			if err := render.DrawLeadOut(g, b.src, x); err != nil {
				return 0, err
			}
			x++
		}
		res, err := render.DrawChannel(g, b.route.Steps, x, ro)
		fallbacks += res.Fallbacks
		if err != nil {
			return 0, wrap(err, "draw channel %d", i)
		}
		x = res.Next
		for range opts.LeadOut {
			if err := render.DrawLeadOut(g, b.dst, x); err != nil {
				return 0, err
			}
			x++
		}
		for _, c := range stages[i] {
			if err := c.Reposition(x); err != nil {
				return 0, err
			}
		}
		x += stages[i].Widest()
	}

	for _, s := range stages {
		if err := render.DrawCircuits(g, s); err != nil {
			return 0, err
		}
	}
	return fallbacks, nil
}

// wrap adds context to err and keeps its code.
func wrap(err error, format string, args ...any) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, err, format, args...)
}
