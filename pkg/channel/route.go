package channel

import (
	"io"
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netgrid/pkg/errors"
	"github.com/matzehuels/netgrid/pkg/netlist"
)

// Default router tuning.
const (
	DefaultUtilizationCap  = 0.5
	DefaultEvictionPenalty = 2.0
	DefaultWidenDivisor    = 10
)

// Options tune the router. Zero values fall back to the defaults.
type Options struct {
	// UtilizationCap is the fraction of the channel one step may claim
	// before the remaining tasks are deferred to the next step.
	UtilizationCap float64 `json:"utilization_cap,omitempty"`
	// EvictionPenalty weighs each track an evicted net lands outside the
	// span of its own destinations.
	EvictionPenalty float64 `json:"eviction_penalty,omitempty"`
	// WidenDivisor controls how many tracks are appended when no free track
	// exists: ceil(pending/WidenDivisor) + 1.
	WidenDivisor int `json:"widen_divisor,omitempty"`

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills zero fields. Safe to call more than once.
func (o *Options) SetDefaults() {
	if o.UtilizationCap <= 0 {
		o.UtilizationCap = DefaultUtilizationCap
	}
	if o.EvictionPenalty <= 0 {
		o.EvictionPenalty = DefaultEvictionPenalty
	}
	if o.WidenDivisor <= 0 {
		o.WidenDivisor = DefaultWidenDivisor
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Result is the routing of one channel.
type Result struct {
	Steps     []Step
	Tasks     int // routing tasks built from the layouts
	Evictions int
	Widenings int // times the channel had to grow
	Tracks    int // final channel width
}

type task struct {
	net  netlist.NetID
	from int
	to   []int
}

func (t *task) bounds() (lo, hi int) {
	lo, hi = t.from, t.from
	for _, v := range t.to {
		lo, hi = min(lo, v), max(hi, v)
	}
	return lo, hi
}

func (t *task) width() int {
	lo, hi := t.bounds()
	return hi - lo + 1
}

// blockers returns the destinations held by a different net.
func (t *task) blockers(state Layout) []int {
	var out []int
	for _, v := range t.to {
		if state[v].HasNet() && state[v] != Net(t.net) {
			out = append(out, v)
		}
	}
	return out
}

// evictionCost rates pos as a new source row for t.
func (t *task) evictionCost(pos int, penalty float64) float64 {
	lo, hi := slices.Min(t.to), slices.Max(t.to)
	cost := math.Abs(float64(t.from - pos))
	switch {
	case pos > hi:
		cost += penalty * float64(pos-hi)
	case pos < lo:
		cost += penalty * float64(lo-pos)
	}
	return cost
}

// Route computes the steps that turn src into dst. The shorter layout is
// padded with Free tracks and the channel may grow further when eviction
// finds no free track. Tracks whose destination is not a net are left to
// their own devices: constants are satisfied by cells drawn next to the pins.
func Route(src, dst Layout, opts Options) (*Result, error) {
	opts.SetDefaults()

	state := src.Padded(len(dst))
	tasks, err := buildTasks(state, dst)
	if err != nil {
		return nil, err
	}
	res := &Result{Tasks: len(tasks)}

	for {
		limit := int(float64(max(len(state), len(dst))) * opts.UtilizationCap)
		cl := newClaims(len(state))
		var wires []Wire

		var pending []*task
		for _, t := range tasks {
			if !complete(t, state, dst, cl, limit, &wires) {
				pending = append(pending, t)
			}
		}

		if len(tasks) > 0 && len(pending) == len(tasks) {
			free := freeTracks(state, dst)
			if len(free) == 0 {
				n := (len(pending)+opts.WidenDivisor-1)/opts.WidenDivisor + 1
				opts.Logger.Debugf("no free tracks, widening channel by %d", n)
				for range n {
					free = append(free, len(state))
					state = append(state, Free)
				}
				res.Widenings++
			}
			evicted, err := evict(pending, state, free, cl, opts.EvictionPenalty, &wires)
			if err != nil {
				return nil, err
			}
			res.Evictions += evicted
		}
		tasks = pending

		res.Steps = append(res.Steps, Step{Wires: wires, Occupancy: occupancy(state)})
		if len(tasks) == 0 {
			break
		}
	}
	res.Tracks = len(state)
	return res, nil
}

// buildTasks merges every destination needing a net it does not yet hold into
// one task per source track, ordered by the span of channel they cover.
func buildTasks(state, dst Layout) ([]*task, error) {
	byFrom := make(map[int]*task)
	var tasks []*task
	for k, want := range dst {
		if !want.HasNet() || state[k] == want {
			continue
		}
		from := state.Index(want.net)
		if from < 0 {
			return nil, errors.New(errors.ErrCodeNetNotFound, "net %d required at track %d is not in the channel", want.net, k)
		}
		t, ok := byFrom[from]
		if !ok {
			t = &task{net: want.net, from: from}
			byFrom[from] = t
			tasks = append(tasks, t)
		}
		t.to = append(t.to, k)
	}
	slices.SortStableFunc(tasks, func(a, b *task) int {
		if d := a.width() - b.width(); d != 0 {
			return d
		}
		return a.from - b.from
	})
	return tasks, nil
}

// complete routes t in the current column if the column has room and no
// destination is held by another net.
func complete(t *task, state, dst Layout, cl *claims, limit int, wires *[]Wire) bool {
	if cl.sum > limit {
		return false
	}
	lo, hi := t.bounds()
	if cl.overlaps(lo, hi) {
		return false
	}
	if len(t.blockers(state)) > 0 {
		return false
	}
	op := Move
	if t.from < len(dst) && state[t.from] == dst[t.from] {
		op = Copy
	} else {
		state[t.from] = Free
	}
	*wires = append(*wires, Wire{Op: op, From: t.from, To: slices.Clone(t.to)})
	cl.add(lo, hi)
	for _, v := range t.to {
		state[v] = Net(t.net)
	}
	return true
}

// freeTracks lists tracks without a net that no destination needs a net on.
func freeTracks(state, dst Layout) []int {
	var free []int
	for k, s := range state {
		if s.HasNet() {
			continue
		}
		if k < len(dst) && dst[k].HasNet() {
			continue
		}
		free = append(free, k)
	}
	return free
}

// evict moves every net blocking a pending task to the cheapest free track
// whose run does not cross a run already in this column.
func evict(pending []*task, state Layout, free []int, cl *claims, penalty float64, wires *[]Wire) (int, error) {
	n := 0
	for _, t := range pending {
		for _, b := range t.blockers(state) {
			idx := slices.IndexFunc(pending, func(o *task) bool { return o.from == b })
			if idx < 0 {
				return n, errors.New(errors.ErrCodeInternal, "net %v at track %d blocks net %d but is not routed", state[b], b, t.net)
			}
			if len(free) == 0 {
				continue
			}
			owner := pending[idx]
			best := 0
			for i := 1; i < len(free); i++ {
				ci, cb := owner.evictionCost(free[i], penalty), owner.evictionCost(free[best], penalty)
				if ci < cb || (ci == cb && free[i] < free[best]) {
					best = i
				}
			}
			pos := free[best]
			lo, hi := min(owner.from, pos), max(owner.from, pos)
			if cl.overlaps(lo, hi) {
				continue
			}
			free = slices.Delete(free, best, best+1)
			cl.add(lo, hi)
			*wires = append(*wires, Wire{Op: Move, From: owner.from, To: []int{pos}})
			state[pos] = Net(owner.net)
			state[owner.from] = Free
			owner.from = pos
			n++
		}
	}
	return n, nil
}

// Replay applies steps to src and returns the resulting layout.
func Replay(src Layout, steps []Step) Layout {
	width := len(src)
	for _, s := range steps {
		width = max(width, s.Tracks())
		for _, w := range s.Wires {
			width = max(width, w.From+1)
			for _, t := range w.To {
				width = max(width, t+1)
			}
		}
	}
	state := src.Padded(width)
	for _, s := range steps {
		for _, w := range s.Wires {
			net := state[w.From]
			if w.Op == Move {
				state[w.From] = Free
			}
			for _, t := range w.To {
				state[t] = net
			}
		}
	}
	return state
}

// Verify replays steps on src and checks that every destination net arrived,
// that no stray net is left on a track the destination does not route, and
// that each step's occupancy matches the replayed state.
func Verify(src, dst Layout, steps []Step) error {
	width := len(src)
	for _, s := range steps {
		width = max(width, s.Tracks())
	}
	state := src.Padded(max(width, len(dst)))
	for i, s := range steps {
		for _, w := range s.Wires {
			if w.From >= len(state) {
				return errors.New(errors.ErrCodeInternal, "step %d: wire source %d outside channel", i, w.From)
			}
			net := state[w.From]
			if !net.HasNet() {
				return errors.New(errors.ErrCodeInternal, "step %d: wire from empty track %d", i, w.From)
			}
			if w.Op == Move {
				state[w.From] = Free
			}
			for _, t := range w.To {
				if t >= len(state) {
					return errors.New(errors.ErrCodeInternal, "step %d: wire target %d outside channel", i, t)
				}
				if state[t].HasNet() && state[t] != net {
					return errors.New(errors.ErrCodeInternal, "step %d: net %v overwrites net %v at track %d", i, net, state[t], t)
				}
				state[t] = net
			}
		}
		if s.Occupancy != nil && !s.Occupancy.Equal(occupancy(state[:s.Tracks()])) {
			return errors.New(errors.ErrCodeInternal, "step %d: occupancy %v does not match %v", i, s.Occupancy, state)
		}
	}
	for k, s := range state {
		want := Free
		if k < len(dst) {
			want = dst[k]
		}
		switch {
		case want.HasNet() && s != want:
			return errors.New(errors.ErrCodeInternal, "track %d holds %v, want %v", k, s, want)
		case !want.HasNet() && s.HasNet():
			return errors.New(errors.ErrCodeInternal, "track %d holds stray net %v", k, s)
		}
	}
	return nil
}
