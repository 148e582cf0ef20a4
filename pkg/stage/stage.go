// Package stage layers the circuits of a netlist into stages.
//
// A stage is a column of gates whose inputs are all produced by the stage
// directly to its left. Stage 0 holds the external input pins and any gate
// fed only by constants. The last stage holds one synthetic sink per external
// output.
package stage

import (
	"cmp"
	"slices"

	"github.com/matzehuels/netgrid/pkg/errors"
	"github.com/matzehuels/netgrid/pkg/netlist"
	"github.com/matzehuels/netgrid/pkg/shape"
)

// Stage is one column of circuits, in placement order.
type Stage []*netlist.Circuit

// Requirements returns the nets read by the stage's inputs, in first-use
// order without duplicates.
func (s Stage) Requirements() []netlist.NetID {
	return collect(s, func(c *netlist.Circuit) []netlist.Port { return c.Inputs })
}

// Provides returns the nets driven by the stage's outputs, in first-use order
// without duplicates.
func (s Stage) Provides() []netlist.NetID {
	return collect(s, func(c *netlist.Circuit) []netlist.Port { return c.Outputs })
}

// Widest returns the width of the widest circuit, or 1 for an empty stage.
func (s Stage) Widest() int {
	w := 1
	for _, c := range s {
		w = max(w, c.Width())
	}
	return w
}

// Forwards returns the number of pass-through circuits in the stage.
func (s Stage) Forwards() int {
	n := 0
	for _, c := range s {
		if c.Kind == shape.Forward {
			n++
		}
	}
	return n
}

func collect(s Stage, ports func(*netlist.Circuit) []netlist.Port) []netlist.NetID {
	var out []netlist.NetID
	seen := make(map[netlist.NetID]bool)
	for _, c := range s {
		for _, p := range ports(c) {
			if id, ok := p.Conn.NetOf(); ok && !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// Build layers nl into stages.
//
// Gates are extracted round by round: a gate joins the current round once
// every net input is driven by an earlier round. Each round is sorted by its
// first output pin. A round that extracts nothing while gates remain means
// the netlist has a combinational loop and yields ErrCodeCircularDependency.
//
// The external outputs form the final stage. Nets that are driven but neither
// read by a gate nor exported yield an [errors.UnusedNetError].
//
// Finally the stages are tightened: walking from the last stage to the first,
// every net a stage reads that the stage before it does not drive gets a
// pass-through circuit in that earlier stage. The circuits of nl are shared
// with the returned stages, not copied.
func Build(nl *netlist.Netlist) ([]Stage, error) {
	remaining := slices.Clone(nl.Circuits)
	available := make(map[netlist.NetID]bool)
	var produced []netlist.NetID
	required := make(map[netlist.NetID]bool)

	var stages []Stage
	for len(remaining) > 0 {
		var ready Stage
		var rest []*netlist.Circuit
		for _, c := range remaining {
			if inputsAvailable(c, available) {
				ready = append(ready, c)
			} else {
				rest = append(rest, c)
			}
		}
		if len(ready) == 0 {
			return nil, errors.New(errors.ErrCodeCircularDependency,
				"circular dependency: %d gate(s) wait on nets never produced, first %v", len(rest), rest[0])
		}
		slices.SortStableFunc(ready, byFirstOutput)

		for _, c := range ready {
			for _, p := range c.Outputs {
				if id, ok := p.Conn.NetOf(); ok && !available[id] {
					available[id] = true
					produced = append(produced, id)
				}
			}
			for _, p := range c.Inputs {
				if id, ok := p.Conn.NetOf(); ok {
					required[id] = true
				}
			}
		}
		stages = append(stages, ready)
		remaining = rest
	}

	outputs := slices.Clone(nl.Outputs)
	slices.SortStableFunc(outputs, netlist.Pin.Compare)
	sinks := make(Stage, 0, len(outputs))
	for _, p := range outputs {
		if id, ok := p.NetOf(); ok {
			required[id] = true
			if !available[id] {
				return nil, errors.New(errors.ErrCodeNetNotFound, "external output net %d is never driven", id)
			}
		}
		sinks = append(sinks, netlist.NewOutputPin(p))
	}
	stages = append(stages, sinks)

	var unused []uint
	for _, id := range produced {
		if !required[id] {
			unused = append(unused, uint(id))
		}
	}
	if len(unused) > 0 {
		slices.Sort(unused)
		return nil, &errors.UnusedNetError{Nets: unused}
	}

	tighten(stages)
	return stages, nil
}

func inputsAvailable(c *netlist.Circuit, available map[netlist.NetID]bool) bool {
	for _, p := range c.Inputs {
		if id, ok := p.Conn.NetOf(); ok && !available[id] {
			return false
		}
	}
	return true
}

func byFirstOutput(a, b *netlist.Circuit) int {
	pa, oka := a.FirstOutput()
	pb, okb := b.FirstOutput()
	if !oka || !okb {
		return cmp.Compare(boolRank(oka), boolRank(okb))
	}
	return pa.Compare(pb)
}

func boolRank(b bool) int {
	if b {
		return 0
	}
	return 1
}

// tighten adds pass-through circuits so that every stage reads only nets
// driven by the stage directly before it.
func tighten(stages []Stage) {
	for i := len(stages) - 1; i >= 1; i-- {
		have := make(map[netlist.NetID]bool)
		for _, id := range stages[i-1].Provides() {
			have[id] = true
		}
		for _, id := range stages[i].Requirements() {
			if have[id] {
				continue
			}
			stages[i-1] = append(stages[i-1], netlist.NewForwardPin(netlist.NetPin(id)))
			have[id] = true
		}
	}
}

// Check verifies that every stage reads only nets driven by the stage before
// it. Stage 0 may read constants only.
func Check(stages []Stage) error {
	for i, s := range stages {
		have := make(map[netlist.NetID]bool)
		if i > 0 {
			for _, id := range stages[i-1].Provides() {
				have[id] = true
			}
		}
		for _, id := range s.Requirements() {
			if !have[id] {
				return errors.New(errors.ErrCodeNetNotFound, "stage %d reads net %d not driven by stage %d", i, id, i-1)
			}
		}
	}
	return nil
}
