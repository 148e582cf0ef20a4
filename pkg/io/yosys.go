package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/matzehuels/netgrid/pkg/errors"
	"github.com/matzehuels/netgrid/pkg/netlist"
	"github.com/matzehuels/netgrid/pkg/shape"
)

type yosysFile struct {
	Creator string                 `json:"creator"`
	Modules map[string]yosysModule `json:"modules"`
}

type yosysModule struct {
	Ports map[string]yosysPort `json:"ports"`
	Cells map[string]yosysCell `json:"cells"`
}

type yosysPort struct {
	Direction string     `json:"direction"`
	Bits      []yosysBit `json:"bits"`
}

type yosysCell struct {
	Type           string                `json:"type"`
	PortDirections map[string]string     `json:"port_directions"`
	Connections    map[string][]yosysBit `json:"connections"`
}

// yosysBit is a net number or a constant string.
type yosysBit struct {
	pin netlist.Pin
}

func (b *yosysBit) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch s {
		case "0", "x", "z":
			b.pin = netlist.ConstPin(false)
		case "1":
			b.pin = netlist.ConstPin(true)
		default:
			return fmt.Errorf("unknown constant bit %q", s)
		}
		return nil
	}
	var n uint64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("bit %s: %w", data, err)
	}
	b.pin = netlist.NetPin(netlist.NetID(n))
	return nil
}

// ReadYosys decodes a Yosys JSON netlist from r.
func ReadYosys(r io.Reader) (*netlist.Netlist, error) {
	var f yosysFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yosys json")
	}
	if len(f.Modules) != 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "expected exactly one module, found %d", len(f.Modules))
	}
	var name string
	var m yosysModule
	for name, m = range f.Modules {
	}

	nl := &netlist.Netlist{}
	for _, cellName := range slices.Sorted(maps.Keys(m.Cells)) {
		c, err := convertCell(m.Cells[cellName])
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "module %s: cell %s", name, cellName)
		}
		nl.Circuits = append(nl.Circuits, c)
	}

	for _, portName := range slices.Sorted(maps.Keys(m.Ports)) {
		p := m.Ports[portName]
		for _, b := range p.Bits {
			switch p.Direction {
			case "input":
				nl.Circuits = append(nl.Circuits, netlist.NewInputPin(b.pin))
			case "output":
				nl.Outputs = append(nl.Outputs, b.pin)
			default:
				return nil, errors.New(errors.ErrCodeUnsupported, "port %s: direction %q", portName, p.Direction)
			}
		}
	}

	slices.SortStableFunc(nl.Outputs, netlist.Pin.Compare)
	slices.SortStableFunc(nl.Circuits, compareCircuits)
	return nl, nil
}

// ImportYosys reads a Yosys JSON netlist from path.
func ImportYosys(path string) (*netlist.Netlist, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "netlist %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadYosys(f)
}

func convertCell(cell yosysCell) (*netlist.Circuit, error) {
	kind, err := shape.Parse(normalizeType(cell.Type))
	if err != nil {
		return nil, err
	}
	var in, out []netlist.Pin
	for _, port := range slices.Sorted(maps.Keys(cell.Connections)) {
		bits := cell.Connections[port]
		if len(bits) != 1 {
			return nil, errors.New(errors.ErrCodeUnsupported, "port %s has %d bits, want 1", port, len(bits))
		}
		switch cell.PortDirections[port] {
		case "input":
			in = append(in, bits[0].pin)
		case "output":
			out = append(out, bits[0].pin)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "port %s has no direction", port)
		}
	}
	s := shape.Lookup(kind)
	if len(in) != len(s.InputOffsets) || len(out) != len(s.OutputOffsets) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s takes %d inputs and %d outputs, got %d and %d",
			s.Name, len(s.InputOffsets), len(s.OutputOffsets), len(in), len(out))
	}
	return netlist.NewCircuit(kind, in, out), nil
}

// compareCircuits puts input pins first, ordered by their net, then every
// other circuit ordered by its first input.
func compareCircuits(a, b *netlist.Circuit) int {
	ai, bi := a.Kind == shape.Input, b.Kind == shape.Input
	switch {
	case ai && bi:
		return a.Outputs[0].Conn.Compare(b.Outputs[0].Conn)
	case ai:
		return -1
	case bi:
		return 1
	}
	if len(a.Inputs) == 0 || len(b.Inputs) == 0 {
		return 0
	}
	return a.Inputs[0].Conn.Compare(b.Inputs[0].Conn)
}

// normalizeType accepts Yosys' internal cell names such as "$_AND_" as well as
// the plain library names.
func normalizeType(t string) string {
	if strings.HasPrefix(t, "$_") && strings.HasSuffix(t, "_") && len(t) > 3 {
		t = t[2 : len(t)-1]
	}
	return strings.ToUpper(t)
}
