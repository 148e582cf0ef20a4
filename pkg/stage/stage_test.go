package stage

import (
	"errors"
	"slices"
	"testing"

	nerrors "github.com/matzehuels/netgrid/pkg/errors"
	"github.com/matzehuels/netgrid/pkg/netlist"
	"github.com/matzehuels/netgrid/pkg/shape"
)

func n(id netlist.NetID) netlist.Pin { return netlist.NetPin(id) }

func gate(k shape.Kind, out netlist.NetID, in ...netlist.Pin) *netlist.Circuit {
	return netlist.NewCircuit(k, in, []netlist.Pin{n(out)})
}

// andNetlist is a single AND gate fed by two external inputs.
func andNetlist() *netlist.Netlist {
	return &netlist.Netlist{
		Circuits: []*netlist.Circuit{
			netlist.NewInputPin(n(1)),
			netlist.NewInputPin(n(2)),
			gate(shape.And, 3, n(1), n(2)),
		},
		Outputs: []netlist.Pin{n(3)},
	}
}

func TestBuildAnd(t *testing.T) {
	stages, err := Build(andNetlist())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(stages) != 3 {
		t.Fatalf("len(stages) = %d, want 3", len(stages))
	}
	kinds := [][]shape.Kind{{shape.Input, shape.Input}, {shape.And}, {shape.Output}}
	for i, want := range kinds {
		var got []shape.Kind
		for _, c := range stages[i] {
			got = append(got, c.Kind)
		}
		if !slices.Equal(got, want) {
			t.Errorf("stage %d kinds = %v, want %v", i, got, want)
		}
	}
	if err := Check(stages); err != nil {
		t.Errorf("Check() error: %v", err)
	}
}

func TestBuildSortsByOutput(t *testing.T) {
	nl := &netlist.Netlist{
		Circuits: []*netlist.Circuit{
			netlist.NewInputPin(n(5)),
			netlist.NewInputPin(n(2)),
			netlist.NewInputPin(n(9)),
			gate(shape.Xor, 10, n(5), n(2)),
			gate(shape.Not, 11, n(9)),
		},
		Outputs: []netlist.Pin{n(11), n(10)},
	}
	stages, err := Build(nl)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := stages[0].Provides(); !slices.Equal(got, []netlist.NetID{2, 5, 9}) {
		t.Errorf("stage 0 provides %v, want [2 5 9]", got)
	}
	if got := stages[2].Requirements(); !slices.Equal(got, []netlist.NetID{10, 11}) {
		t.Errorf("output stage requires %v, want [10 11]", got)
	}
}

func TestBuildForwarding(t *testing.T) {
	// Net 1 feeds both the first NOT and the final AND, so it must be carried
	// through the middle stage.
	nl := &netlist.Netlist{
		Circuits: []*netlist.Circuit{
			netlist.NewInputPin(n(1)),
			gate(shape.Not, 2, n(1)),
			gate(shape.Not, 3, n(2)),
			gate(shape.And, 4, n(1), n(3)),
		},
		Outputs: []netlist.Pin{n(4)},
	}
	stages, err := Build(nl)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(stages) != 5 {
		t.Fatalf("len(stages) = %d, want 5", len(stages))
	}
	if got := stages[1].Forwards() + stages[2].Forwards(); got != 2 {
		t.Errorf("forwards = %d, want 2", got)
	}
	if err := Check(stages); err != nil {
		t.Errorf("Check() error: %v", err)
	}
}

func TestBuildConstantsInStageZero(t *testing.T) {
	nl := &netlist.Netlist{
		Circuits: []*netlist.Circuit{
			gate(shape.Not, 1, netlist.ConstPin(false)),
		},
		Outputs: []netlist.Pin{n(1), netlist.ConstPin(true)},
	}
	stages, err := Build(nl)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(stages) != 2 {
		t.Fatalf("len(stages) = %d, want 2", len(stages))
	}
	if len(stages[1]) != 2 {
		t.Errorf("output stage has %d sinks, want 2", len(stages[1]))
	}
}

func TestBuildCircular(t *testing.T) {
	nl := &netlist.Netlist{
		Circuits: []*netlist.Circuit{
			gate(shape.Not, 1, n(2)),
			gate(shape.Not, 2, n(1)),
		},
		Outputs: []netlist.Pin{n(1)},
	}
	_, err := Build(nl)
	if !nerrors.Is(err, nerrors.ErrCodeCircularDependency) {
		t.Errorf("Build() error = %v, want %s", err, nerrors.ErrCodeCircularDependency)
	}
}

func TestBuildUnusedNet(t *testing.T) {
	nl := andNetlist()
	nl.Circuits = append(nl.Circuits, netlist.NewInputPin(n(7)), netlist.NewInputPin(n(6)))
	_, err := Build(nl)

	var unused *nerrors.UnusedNetError
	if !errors.As(err, &unused) {
		t.Fatalf("Build() error = %v, want UnusedNetError", err)
	}
	if !slices.Equal(unused.Nets, []uint{6, 7}) {
		t.Errorf("unused nets = %v, want [6 7]", unused.Nets)
	}
	if !nerrors.Is(err, nerrors.ErrCodeUnusedNet) {
		t.Errorf("errors.Is(%v, %s) = false", err, nerrors.ErrCodeUnusedNet)
	}
}

func TestBuildUndrivenOutput(t *testing.T) {
	nl := andNetlist()
	nl.Outputs = append(nl.Outputs, n(42))
	_, err := Build(nl)
	if !nerrors.Is(err, nerrors.ErrCodeNetNotFound) {
		t.Errorf("Build() error = %v, want %s", err, nerrors.ErrCodeNetNotFound)
	}
}

func TestWidest(t *testing.T) {
	s := Stage{gate(shape.Not, 1, n(0)), gate(shape.Xnor, 2, n(0), n(1))}
	if got := s.Widest(); got != 2 {
		t.Errorf("Widest() = %d, want 2", got)
	}
	if got := (Stage{}).Widest(); got != 1 {
		t.Errorf("empty Widest() = %d, want 1", got)
	}
}
