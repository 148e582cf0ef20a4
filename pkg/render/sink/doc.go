// Package sink serializes a finished [grid.Grid] into output formats.
//
// # Overview
//
// A "sink" turns the cell array produced by the compiler into bytes. This
// package provides:
//
//   - Text: box-drawing dump for terminals, optionally colored
//   - Lua: a Minetest schematic table for worldedit-style loaders
//   - MTS: the binary Minetest schematic format
//   - JSON: cell rows plus summary counts for external tools
//
// # Minetest Mapping
//
// Both Minetest formats place the circuit on a layer of stone. Grid rows map
// to the schematic X axis, grid columns to Z, and the two layers to Y. Every
// cell kind maps to one mesecons node name and a param2 facing:
//
//	horizontal wire   insulated_off   param2 3
//	vertical wire     insulated_off   param2 0
//	corner            corner_off      0..3 by orientation
//	tee               tjunction_off   0..3 by orientation
//	crossing          crossover_off   0
//	star              mesecon_off     0
//	constant          mesecon_torch   0
//
// Gate bodies use the matching mesecons gate, with levers for inputs and
// lamps for outputs.
//
// # MTS Limits
//
// The MTS header stores sizes as signed 16-bit integers. [RenderMTS] rejects
// grids that do not fit with an [errors.ErrCodeOutOfRange] error.
//
// [grid.Grid]: github.com/matzehuels/netgrid/pkg/grid.Grid
// [errors.ErrCodeOutOfRange]: github.com/matzehuels/netgrid/pkg/errors.ErrCodeOutOfRange
package sink
