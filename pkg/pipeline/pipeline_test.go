package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/netgrid/pkg/cache"
	"github.com/matzehuels/netgrid/pkg/errors"
	"github.com/matzehuels/netgrid/pkg/grid"
	"github.com/matzehuels/netgrid/pkg/netlist"
)

const andNetlist = `{"modules": {"top": {
  "ports": {
    "a": {"direction": "input", "bits": [2]},
    "b": {"direction": "input", "bits": [3]},
    "y": {"direction": "output", "bits": [4]}
  },
  "cells": {
    "g1": {"type": "AND", "port_directions": {"A": "input", "B": "input", "Y": "output"},
           "connections": {"A": [2], "B": [3], "Y": [4]}}
  }}}}`

// swappedNetlist reads its inputs in the opposite order of the input pins.
const swappedNetlist = `{"modules": {"top": {
  "ports": {
    "a": {"direction": "input", "bits": [2]},
    "b": {"direction": "input", "bits": [3]},
    "y": {"direction": "output", "bits": [4]}
  },
  "cells": {
    "g1": {"type": "OR", "port_directions": {"A": "input", "B": "input", "Y": "output"},
           "connections": {"A": [3], "B": [2], "Y": [4]}}
  }}}}`

// chainNetlist is a three gate chain that needs a forward for input c.
const chainNetlist = `{"modules": {"top": {
  "ports": {
    "a": {"direction": "input", "bits": [2]},
    "b": {"direction": "input", "bits": [3]},
    "c": {"direction": "input", "bits": [4]},
    "y": {"direction": "output", "bits": [7]}
  },
  "cells": {
    "g1": {"type": "XOR", "port_directions": {"A": "input", "B": "input", "Y": "output"},
           "connections": {"A": [2], "B": [3], "Y": [5]}},
    "g2": {"type": "NOT", "port_directions": {"A": "input", "Y": "output"},
           "connections": {"A": [5], "Y": [6]}},
    "g3": {"type": "NAND", "port_directions": {"A": "input", "B": "input", "Y": "output"},
           "connections": {"A": [6], "B": [4], "Y": [7]}}
  }}}}`

func load(t *testing.T, src string) *netlist.Netlist {
	t.Helper()
	nl, err := Load([]byte(src))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return nl
}

func isGate(g grid.Gate) func(grid.Cell) bool {
	return func(c grid.Cell) bool { return c == grid.GateCell(g) }
}

func TestCompileSingleGate(t *testing.T) {
	c, err := Compile(context.Background(), load(t, andNetlist), Options{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if c.Stats.Stages != 3 {
		t.Errorf("Stages = %d, want 3", c.Stats.Stages)
	}
	if n := c.Grid.Count(isGate(grid.GateAnd)); n != 1 {
		t.Errorf("AND cells = %d, want 1", n)
	}
	if n := c.Grid.Count(isGate(grid.GateInput)); n != 2 {
		t.Errorf("input cells = %d, want 2", n)
	}
	if n := c.Grid.Count(isGate(grid.GateOutput)); n != 1 {
		t.Errorf("output cells = %d, want 1", n)
	}
	if got := c.Stats.Evictions(); got != 0 {
		t.Errorf("Evictions() = %d, want 0", got)
	}
	if c.Stats.Fallbacks != 0 {
		t.Errorf("Fallbacks = %d, want 0", c.Stats.Fallbacks)
	}
	if len(c.Stats.Boundaries) != 2 {
		t.Fatalf("len(Boundaries) = %d, want 2", len(c.Stats.Boundaries))
	}
	if c.Grid.At(0, 0) != grid.Air {
		t.Errorf("column 0 = %c, want empty", c.Grid.At(0, 0).Rune())
	}
	if c.Grid.At(1, 0) != grid.GateCell(grid.GateInput) {
		t.Errorf("first input at (1, 0) = %c", c.Grid.At(1, 0).Rune())
	}
}

func TestCompileSwapsInputs(t *testing.T) {
	c, err := Compile(context.Background(), load(t, swappedNetlist), Options{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	or := c.Stages[1][0]
	if or.Inputs[0].Conn != netlist.NetPin(2) || or.Inputs[1].Conn != netlist.NetPin(3) {
		t.Errorf("OR inputs = %v, %v, want 2, 3", or.Inputs[0].Conn, or.Inputs[1].Conn)
	}
	if got := c.Stats.Boundaries[0].Crossings; got != 0 {
		t.Errorf("Crossings = %d, want 0", got)
	}
}

func TestCompileForwards(t *testing.T) {
	c, err := Compile(context.Background(), load(t, chainNetlist), Options{Workers: 1})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if c.Stats.Stages != 5 {
		t.Errorf("Stages = %d, want 5", c.Stats.Stages)
	}
	if c.Stats.Forwards == 0 {
		t.Error("Forwards = 0, want input c forwarded")
	}
	if c.Stats.Gates != 3+3+1 {
		t.Errorf("Gates = %d, want 7", c.Stats.Gates)
	}
	w, h := c.Grid.Dimensions()
	if w != c.Stats.Width || h != c.Stats.Height {
		t.Errorf("Stats size = %dx%d, grid %dx%d", c.Stats.Width, c.Stats.Height, w, h)
	}
}

func TestCompileDeterministic(t *testing.T) {
	var dumps []string
	for range 3 {
		c, err := Compile(context.Background(), load(t, chainNetlist), Options{})
		if err != nil {
			t.Fatalf("Compile() error: %v", err)
		}
		dumps = append(dumps, c.Grid.String())
	}
	for i := 1; i < len(dumps); i++ {
		if dumps[i] != dumps[0] {
			t.Errorf("run %d differs:\n%s\nvs\n%s", i, dumps[i], dumps[0])
		}
	}
}

func TestCompileErrors(t *testing.T) {
	circular := `{"modules": {"m": {"cells": {
	  "g1": {"type": "NOT", "port_directions": {"A": "input", "Y": "output"}, "connections": {"A": [3], "Y": [2]}},
	  "g2": {"type": "NOT", "port_directions": {"A": "input", "Y": "output"}, "connections": {"A": [2], "Y": [3]}}
	}}}}`
	_, err := Compile(context.Background(), load(t, circular), Options{})
	if !errors.Is(err, errors.ErrCodeCircularDependency) {
		t.Errorf("Compile(circular) error = %v, want CIRCULAR_DEPENDENCY", err)
	}

	_, err = Compile(context.Background(), load(t, andNetlist), Options{Formats: []string{"png"}})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Compile(png) error = %v, want INVALID_INPUT", err)
	}
}

func TestCompileGridBounds(t *testing.T) {
	_, err := Compile(context.Background(), load(t, chainNetlist), Options{MaxWidth: 4})
	if !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("Compile(MaxWidth 4) error = %v, want OUT_OF_RANGE", err)
	}
}

func TestRender(t *testing.T) {
	c, err := Compile(context.Background(), load(t, andNetlist), Options{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	opts := Options{Formats: []string{FormatText, FormatLua, FormatMTS, FormatJSON, FormatDOT}}
	artifacts, err := Render(context.Background(), c, opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got := string(artifacts[FormatText]); got != c.Grid.String() {
		t.Errorf("txt artifact differs from grid dump")
	}
	if !bytes.HasPrefix(artifacts[FormatMTS], []byte("MTSM")) {
		t.Errorf("mts artifact has no signature")
	}
	if !strings.HasPrefix(string(artifacts[FormatLua]), "schematic = {") {
		t.Errorf("lua artifact = %.20q", artifacts[FormatLua])
	}
	if !bytes.Contains(artifacts[FormatJSON], []byte(`"stats"`)) {
		t.Errorf("json artifact has no stats")
	}
	if !strings.Contains(string(artifacts[FormatDOT]), "digraph") {
		t.Errorf("dot artifact = %.40q", artifacts[FormatDOT])
	}

	if _, err := Render(context.Background(), c, Options{Formats: []string{"gif"}}); err == nil {
		t.Error("Render(gif) should fail")
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"txt", false},
		{"lua", false},
		{"mts", false},
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"TXT", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if o.LeadOut != DefaultLeadOut {
		t.Errorf("LeadOut = %d, want %d", o.LeadOut, DefaultLeadOut)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatText {
		t.Errorf("Formats = %v, want [txt]", o.Formats)
	}
	if o.Workers < 1 || o.Logger == nil {
		t.Errorf("Workers = %d, Logger = %v", o.Workers, o.Logger)
	}

	bad := []Options{
		{UtilizationCap: 1.5},
		{Padding: -1},
		{Formats: []string{"bmp"}},
	}
	for _, o := range bad {
		if err := o.ValidateAndSetDefaults(); err == nil {
			t.Errorf("ValidateAndSetDefaults(%+v) should fail", o)
		}
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	a := Options{}
	b := Options{UtilizationCap: 0.5}
	if a.LayoutKeyOpts() != b.LayoutKeyOpts() {
		t.Error("default cap and explicit default cap should share a key")
	}
	c := Options{Padding: 2}
	if a.LayoutKeyOpts() == c.LayoutKeyOpts() {
		t.Error("padding should change the key")
	}
	color := Options{Color: true}
	if a.ArtifactKeyOpts(FormatText) == color.ArtifactKeyOpts(FormatText) {
		t.Error("color should change the text artifact key")
	}
	if a.ArtifactKeyOpts(FormatMTS) != color.ArtifactKeyOpts(FormatMTS) {
		t.Error("color should not change the mts artifact key")
	}
}

func TestRunnerCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	path := filepath.Join(t.TempDir(), "and.json")
	if err := os.WriteFile(path, []byte(andNetlist), 0o644); err != nil {
		t.Fatal(err)
	}
	opts := Options{Path: path, Formats: []string{FormatText, FormatMTS}}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if first.Compiled == nil {
		t.Fatal("first run should compile")
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the cache")
	}
	if second.Compiled != nil {
		t.Error("cached run should not compile")
	}
	if !bytes.Equal(first.Artifacts[FormatText], second.Artifacts[FormatText]) {
		t.Error("cached text artifact differs")
	}
	if second.Stats.Stages != first.Stats.Stages {
		t.Errorf("cached Stages = %d, want %d", second.Stats.Stages, first.Stats.Stages)
	}

	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRunnerInput(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	res, err := r.Execute(context.Background(), Options{Netlist: []byte(andNetlist)})
	if err != nil {
		t.Fatalf("Execute(netlist) error: %v", err)
	}
	if res.NetlistHash != cache.Hash([]byte(andNetlist)) {
		t.Errorf("NetlistHash = %s", res.NetlistHash)
	}

	_, err = r.Execute(context.Background(), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Execute(no input) error = %v, want INVALID_INPUT", err)
	}
	_, err = r.Execute(context.Background(), Options{Path: filepath.Join(t.TempDir(), "none.json")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Execute(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestCompileExampleHalfAdder(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "examples", "netlists", "half_adder.json"))
	if err != nil {
		t.Fatal(err)
	}
	c, err := Compile(context.Background(), load(t, string(data)), Options{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if c.Stats.Stages != 3 {
		t.Errorf("Stages = %d, want 3", c.Stats.Stages)
	}
	for _, g := range []grid.Gate{grid.GateXor, grid.GateAnd} {
		if n := c.Grid.Count(isGate(g)); n != 1 {
			t.Errorf("%s cells = %d, want 1", g, n)
		}
	}
	if n := c.Grid.Count(isGate(grid.GateOutput)); n != 2 {
		t.Errorf("output cells = %d, want 2", n)
	}
}
