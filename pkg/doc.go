// Package pkg provides the core libraries for qcviz quantum circuit
// visualization.
//
// # Overview
//
// qcviz turns quantum circuits into scheduled, drawable diagrams. The
// pkg directory is organized into four main areas:
//
//  1. [circuit] - The circuit model (gates, wires, dependency analysis)
//  2. [schedule] / [layout] - Scheduling and 2D coordinate derivation
//  3. [render] - Output sinks (SVG, terminal text, Graphviz DOT)
//  4. [pipeline] - Orchestration (decode → schedule → layout → render)
//
// # Architecture
//
// The typical data flow through qcviz:
//
//	OpenQASM source
//	         ↓
//	    [qasm] package (decode into a circuit)
//	         ↓
//	    [schedule] package (pack gates into parallel levels)
//	         ↓
//	    [layout] package (derive draw coordinates)
//	         ↓
//	    [render] package (SVG / text / DOT output)
//
// # Quick Start
//
// Build a circuit and render it:
//
//	import (
//	    "github.com/qcviz/qcviz/pkg/circuit"
//	    "github.com/qcviz/qcviz/pkg/layout"
//	    "github.com/qcviz/qcviz/pkg/render"
//	    "github.com/qcviz/qcviz/pkg/schedule"
//	)
//
//	// 1. Build a circuit
//	c := circuit.New()
//	c.AllocateQubits(2)
//	c.AddH(0)
//	c.AddCNOT(0, 1)
//
//	// 2. Schedule gates into levels
//	levels := schedule.Levels(c)
//
//	// 3. Compute the layout
//	l := layout.Compute(c, levels, layout.Geometry{})
//
//	// 4. Render to SVG
//	svg := render.RenderSVG(l)
//
// # Main Packages
//
// [circuit] - The gate and wire model. Gates are closed variant types
// (CNOT, Hadamard, Measure, Conditional, ...) validated on insertion.
// Qubit and classical wires share one unified index space used by the
// scheduler and layout.
//
// [qasm] - OpenQASM 2.0 conversion: decode a supported subset into a
// circuit and encode circuits back to canonical QASM.
//
// [schedule] - Level scheduling. Gates that touch disjoint wires pack
// into the same level; overlap suppression widens multi-qubit gates to
// their full wire span so crossing gates never share a column.
//
// [layout] - Coordinate derivation from a scheduled circuit: wire
// baselines, per-gate draw records with typed operand points, and a
// JSON serialization for caching and external consumers.
//
// [render] - Output sinks over a layout: SVG documents, unicode
// terminal diagrams, and Graphviz dependency graphs. Themes and
// geometry load from TOML files.
//
// [pipeline] - The complete visualization pipeline used by the CLI and
// the HTTP server, with per-stage caching keyed on content hashes.
//
// [cache] - Cache backends (file, Redis, MongoDB) and the key schema
// shared by the pipeline stages.
//
// [errors] - Coded errors shared across packages.
//
// [observability] - Hook registry for instrumenting pipeline, cache,
// and server events without hard backend dependencies.
//
// [buildinfo] - Build-time version information set via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/schedule/...    # Specific package
//	go test -run Example          # Examples only
//
// [circuit]: https://pkg.go.dev/github.com/qcviz/qcviz/pkg/circuit
// [qasm]: https://pkg.go.dev/github.com/qcviz/qcviz/pkg/qasm
// [schedule]: https://pkg.go.dev/github.com/qcviz/qcviz/pkg/schedule
// [layout]: https://pkg.go.dev/github.com/qcviz/qcviz/pkg/layout
// [render]: https://pkg.go.dev/github.com/qcviz/qcviz/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/qcviz/qcviz/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/qcviz/qcviz/pkg/cache
// [errors]: https://pkg.go.dev/github.com/qcviz/qcviz/pkg/errors
// [observability]: https://pkg.go.dev/github.com/qcviz/qcviz/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/qcviz/qcviz/pkg/buildinfo
package pkg
