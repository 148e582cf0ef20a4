package place

import (
	"testing"

	"github.com/matzehuels/netgrid/pkg/channel"
	"github.com/matzehuels/netgrid/pkg/errors"
	"github.com/matzehuels/netgrid/pkg/netlist"
	"github.com/matzehuels/netgrid/pkg/shape"
)

func n(id netlist.NetID) netlist.Pin { return netlist.NetPin(id) }

func gate(k shape.Kind, out netlist.NetID, in ...netlist.Pin) *netlist.Circuit {
	return netlist.NewCircuit(k, in, []netlist.Pin{n(out)})
}

func TestPlaceSwapsToSourceOrder(t *testing.T) {
	src := channel.Layout{channel.Free, channel.Free, channel.Net(20), channel.Free, channel.Free, channel.Net(10)}
	and := gate(shape.And, 30, n(10), n(20))

	if _, err := Place(src, []*netlist.Circuit{and}); err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if got := and.Inputs[0].Conn; got != n(20) {
		t.Errorf("first input = %v, want n20 (source row 2)", got)
	}
	if got := and.Inputs[1].Conn; got != n(10) {
		t.Errorf("second input = %v, want n10 (source row 5)", got)
	}
}

func TestPlaceKeepsNonCommutative(t *testing.T) {
	src := channel.Layout{channel.Net(2), channel.Net(1)}
	g := gate(shape.AndNot, 3, n(1), n(2))
	if _, err := Place(src, []*netlist.Circuit{g}); err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if got := g.Inputs[0].Conn; got != n(1) {
		t.Errorf("first input = %v, want n1", got)
	}
}

func TestPlaceAlignsSingleInput(t *testing.T) {
	src := channel.Layout{channel.Net(1), channel.Occupied, channel.Net(2), channel.Net(3)}
	a := gate(shape.Not, 4, n(2))
	b := netlist.NewForwardPin(n(3))
	dst, err := Place(src, []*netlist.Circuit{a, b})
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if a.Pos.Y != 2 || b.Pos.Y != 3 {
		t.Errorf("rows = %d, %d; want 2, 3", a.Pos.Y, b.Pos.Y)
	}
	if dst[2] != channel.Net(2) || dst[3] != channel.Net(3) {
		t.Errorf("layout = %v", dst)
	}
}

func TestPlacePacks(t *testing.T) {
	src := channel.Layout{channel.Net(1), channel.Net(2), channel.Net(3)}
	and := gate(shape.And, 10, n(1), n(2))
	not := gate(shape.Not, 11, n(3))
	or := gate(shape.Or, 12, n(3), n(1))

	dst, err := Place(src, []*netlist.Circuit{and, not, or})
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	// NOT takes row 2 in the alignment pass, so AND cannot fit in rows 0-2
	// and goes below, then OR follows it.
	if not.Pos.Y != 2 {
		t.Errorf("NOT row = %d, want 2", not.Pos.Y)
	}
	if and.Pos.Y != 3 || or.Pos.Y != 6 {
		t.Errorf("AND row = %d, OR row = %d; want 3, 6", and.Pos.Y, or.Pos.Y)
	}
	if len(dst) != 9 {
		t.Errorf("len(layout) = %d, want 9", len(dst))
	}
	if dst[4] != channel.Occupied {
		t.Errorf("AND spacer row = %v, want Occupied", dst[4])
	}
	// OR(3, 1) keeps source order after the swap.
	if or.Inputs[0].Conn != n(1) {
		t.Errorf("OR first input = %v, want n1", or.Inputs[0].Conn)
	}
}

func TestPlaceNoOverlap(t *testing.T) {
	src := channel.Layout{channel.Net(1), channel.Net(2), channel.Net(3), channel.Net(4)}
	circuits := []*netlist.Circuit{
		netlist.NewCircuit(shape.Dff, []netlist.Pin{n(1), n(2)}, []netlist.Pin{n(5)}),
		gate(shape.Not, 6, n(4)),
		gate(shape.Xor, 7, n(3), n(4)),
	}
	if _, err := Place(src, circuits); err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	rows := map[int]*netlist.Circuit{}
	for _, c := range circuits {
		for y := c.Pos.Y; y < c.Pos.Y+c.Height(); y++ {
			if o, ok := rows[y]; ok {
				t.Errorf("row %d used by %v and %v", y, o, c)
			}
			rows[y] = c
		}
	}
}

func TestPlaceConstantInput(t *testing.T) {
	src := channel.Layout{channel.Net(1)}
	and := gate(shape.And, 2, n(1), netlist.ConstPin(true))
	dst, err := Place(src, []*netlist.Circuit{and})
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	// Three rows do not fit in the one-track channel, so AND goes below it.
	if and.Pos.Y != 1 {
		t.Errorf("AND row = %d, want 1", and.Pos.Y)
	}
	if dst[3] != channel.Constant {
		t.Errorf("layout = %v, want constant on row 3", dst)
	}
}

func TestPlaceMissingNet(t *testing.T) {
	src := channel.Layout{channel.Net(1)}
	_, err := Place(src, []*netlist.Circuit{gate(shape.Not, 2, n(9))})
	if !errors.Is(err, errors.ErrCodeNetNotFound) {
		t.Errorf("Place() error = %v, want %s", err, errors.ErrCodeNetNotFound)
	}
}

func TestPlaceTwice(t *testing.T) {
	src := channel.Layout{channel.Net(1)}
	g := gate(shape.Not, 2, n(1))
	if _, err := Place(src, []*netlist.Circuit{g}); err != nil {
		t.Fatal(err)
	}
	_, err := Place(src, []*netlist.Circuit{g})
	if !errors.Is(err, errors.ErrCodeAlreadyPlaced) {
		t.Errorf("second Place() error = %v, want %s", err, errors.ErrCodeAlreadyPlaced)
	}
}

func TestPlaceInputs(t *testing.T) {
	circuits := []*netlist.Circuit{
		netlist.NewInputPin(n(1)),
		netlist.NewInputPin(n(2)),
		netlist.NewInputPin(n(3)),
	}
	w, err := PlaceInputs(circuits, 1)
	if err != nil {
		t.Fatalf("PlaceInputs() error: %v", err)
	}
	if w != 1 {
		t.Errorf("width = %d, want 1", w)
	}
	for i, c := range circuits {
		if c.Pos.X != 1 || c.Pos.Y != i {
			t.Errorf("circuit %d at %v, want (1, %d)", i, *c.Pos, i)
		}
	}
	if _, err := PlaceInputs(circuits, 1); !errors.Is(err, errors.ErrCodeAlreadyPlaced) {
		t.Errorf("second PlaceInputs() error = %v, want %s", err, errors.ErrCodeAlreadyPlaced)
	}
}

func TestCountCrossings(t *testing.T) {
	tests := []struct {
		name     string
		src, dst channel.Layout
		want     int
	}{
		{"parallel", channel.Layout{channel.Net(1), channel.Net(2)}, channel.Layout{channel.Net(1), channel.Net(2)}, 0},
		{"swap", channel.Layout{channel.Net(1), channel.Net(2)}, channel.Layout{channel.Net(2), channel.Net(1)}, 1},
		{"reverse3", channel.Layout{channel.Net(1), channel.Net(2), channel.Net(3)}, channel.Layout{channel.Net(3), channel.Net(2), channel.Net(1)}, 3},
		{"fanout", channel.Layout{channel.Net(1), channel.Net(2)}, channel.Layout{channel.Net(2), channel.Net(1), channel.Net(2)}, 1},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountCrossings(tt.src, tt.dst); got != tt.want {
				t.Errorf("CountCrossings() = %d, want %d", got, tt.want)
			}
		})
	}
}
