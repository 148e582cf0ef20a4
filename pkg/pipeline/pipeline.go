// Package pipeline provides the compile pipeline shared by the CLI and the
// compile server.
//
// This package implements the complete load → stage → place → route → draw →
// render pipeline. Centralizing it keeps the command line and the HTTP API
// producing byte-identical artifacts for the same netlist and options.
//
// # Architecture
//
// [Compile] turns a loaded netlist into a drawn grid:
//
//  1. Stages: group gates into dependency stages and insert forwards
//  2. Placement: assign rows to every stage, left to right
//  3. Routing: route every channel between adjacent stages, in parallel
//  4. Drawing: draw stages and channels into one grid, left to right
//
// [Render] serializes the grid (or the stage graph) into the requested
// formats. [Runner] wraps both with a cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "adder.json",
//	    Formats: []string{"txt", "mts"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	schematic := result.Artifacts["mts"]
package pipeline

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netgrid/pkg/cache"
	"github.com/matzehuels/netgrid/pkg/channel"
	"github.com/matzehuels/netgrid/pkg/grid"
	"github.com/matzehuels/netgrid/pkg/render"
	"github.com/matzehuels/netgrid/pkg/stage"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultLeadOut is the number of straight columns drawn on each side of a
	// channel.
	DefaultLeadOut = 1

	// DefaultPadding is the number of extra columns drawn after every routing
	// step.
	DefaultPadding = 0
)

// Format constants for output formats.
const (
	FormatText = "txt"
	FormatLua  = "lua"
	FormatMTS  = "mts"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatLua:  true,
	FormatMTS:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the compile pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options. Netlist takes precedence over Path.
	Path    string `json:"path,omitempty"`
	Netlist []byte `json:"netlist,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Router options
	UtilizationCap  float64 `json:"utilization_cap,omitempty"`
	EvictionPenalty float64 `json:"eviction_penalty,omitempty"`
	WidenDivisor    int     `json:"widen_divisor,omitempty"`

	// Layout options
	Padding   int `json:"padding,omitempty"`
	LeadOut   int `json:"lead_out,omitempty"`
	MaxWidth  int `json:"max_width,omitempty"`
	MaxHeight int `json:"max_height,omitempty"`

	// Render options
	Formats      []string `json:"formats,omitempty"`
	Color        bool     `json:"color,omitempty"`
	HideForwards bool     `json:"hide_forwards,omitempty"`

	// Runtime options (not serialized)
	Workers int         `json:"-"`
	Logger  *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Compiled is nil when every artifact came from the cache.
	Compiled *Compiled

	// NetlistHash is the content hash of the input netlist.
	NetlistHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Compiled is the output of [Compile].
type Compiled struct {
	Grid   *grid.Grid
	Stages []stage.Stage
	Stats  Stats
}

// Stats contains compile statistics.
type Stats struct {
	Stages     int             `json:"stages"`
	Gates      int             `json:"gates"`
	Forwards   int             `json:"forwards"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Fallbacks  int             `json:"fallbacks"`
	Boundaries []BoundaryStats `json:"boundaries,omitempty"`

	StageTime  time.Duration `json:"stage_time"`
	RouteTime  time.Duration `json:"route_time"`
	DrawTime   time.Duration `json:"draw_time"`
	RenderTime time.Duration `json:"render_time,omitempty"`
}

// BoundaryStats describes the channel between stage Index-1 and stage Index.
type BoundaryStats struct {
	Index     int `json:"index"`
	Tracks    int `json:"tracks"`
	Tasks     int `json:"tasks"`
	Steps     int `json:"steps"`
	Evictions int `json:"evictions"`
	Widenings int `json:"widenings"`
	Crossings int `json:"crossings"`
}

// Evictions sums evictions over all boundaries.
func (s Stats) Evictions() int {
	n := 0
	for _, b := range s.Boundaries {
		n += b.Evictions
	}
	return n
}

// Steps sums routing steps over all boundaries.
func (s Stats) Steps() int {
	n := 0
	for _, b := range s.Boundaries {
		n += b.Steps
	}
	return n
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	return []string{FormatText, FormatLua, FormatMTS, FormatJSON, FormatDOT, FormatSVG}
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if o.UtilizationCap > 1 {
		return fmt.Errorf("utilization_cap must be in (0, 1], got %v", o.UtilizationCap)
	}
	if o.Padding < 0 {
		return fmt.Errorf("padding must not be negative, got %d", o.Padding)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if o.LeadOut <= 0 {
		o.LeadOut = DefaultLeadOut
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatText}
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// RouterOptions returns the options passed to [channel.Route].
func (o *Options) RouterOptions() channel.Options {
	ro := channel.Options{
		UtilizationCap:  o.UtilizationCap,
		EvictionPenalty: o.EvictionPenalty,
		WidenDivisor:    o.WidenDivisor,
		Logger:          o.Logger,
	}
	ro.SetDefaults()
	return ro
}

// RenderOptions returns the options passed to [render.DrawChannel].
func (o *Options) RenderOptions() render.Options {
	return render.Options{Padding: o.Padding, Logger: o.Logger}
}

// LayoutKeyOpts returns cache key options for a compiled layout.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	ro := o.RouterOptions()
	return cache.LayoutKeyOpts{
		UtilizationCap:  ro.UtilizationCap,
		EvictionPenalty: ro.EvictionPenalty,
		WidenDivisor:    ro.WidenDivisor,
		Padding:         o.Padding,
		LeadOut:         o.LeadOut,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	if format == FormatText && o.Color {
		format += "+color"
	}
	if (format == FormatDOT || format == FormatSVG) && o.HideForwards {
		format += "-forwards"
	}
	return cache.ArtifactKeyOpts{Format: format}
}
