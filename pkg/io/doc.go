// Package io reads gate-level netlists.
//
// # Yosys JSON
//
// [ReadYosys] decodes the JSON written by Yosys' write_json command after
// technology mapping to the gate library of [shape] (AND, OR, XOR, NAND,
// NOR, XNOR, ANDNOT, ORNOT, NOT, BUF, DFF):
//
//	{
//	  "creator": "Yosys ...",
//	  "modules": {
//	    "top": {
//	      "ports": {"a": {"direction": "input", "bits": [2]}, ...},
//	      "cells": {
//	        "g1": {
//	          "type": "AND",
//	          "port_directions": {"A": "input", "B": "input", "Y": "output"},
//	          "connections": {"A": [2], "B": [3], "Y": [4]}
//	        }
//	      }
//	    }
//	  }
//	}
//
// The file must contain exactly one module. Every bit is either a net number
// or one of the constant strings "0", "1", "x" and "z"; undefined and
// high-impedance bits are tied to constant false. Cell inputs are ordered by
// port name. Each external input bit becomes a synthetic input circuit.
//
// # Determinism
//
// Cells are visited in name order and the resulting circuits are sorted with
// input pins first, so the same file always yields the same layout.
//
// [shape]: github.com/matzehuels/netgrid/pkg/shape
package io
