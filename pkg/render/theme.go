package render

import (
	"github.com/BurntSushi/toml"

	"github.com/qcviz/qcviz/pkg/errors"
	"github.com/qcviz/qcviz/pkg/layout"
)

// Theme holds the visual attributes shared by the render sinks: marker
// colors and box labels keyed by gate kind name, plus line styling.
//
// Defaults are immutable package data; DefaultTheme returns a fresh copy
// so per-instance mutation never leaks into other renders.
type Theme struct {
	// Colors maps gate kind names (circuit.Kind.String) to SVG colors.
	Colors map[string]string `toml:"colors"`
	// Labels maps gate kind names to the short label drawn inside boxes.
	// Kinds without an entry fall back to the kind name itself.
	Labels map[string]string `toml:"labels"`

	LineWidth           float64 `toml:"line_width"`
	WireColor           string  `toml:"wire_color"`
	ClassicalLabelColor string  `toml:"classical_label_color"`
	ConnectorColor      string  `toml:"connector_color"`
	GateEdgeColor       string  `toml:"gate_edge_color"`
	GateEdgeWidth       float64 `toml:"gate_edge_width"`
	FontSize            float64 `toml:"font_size"`
	GateFontSize        float64 `toml:"gate_font_size"`

	// ClassicalLineOffset is the gap between the twin baselines of a
	// classical wire; ConnectorOffset is the gap between the double
	// vertical lines connecting measurements to their classical wire.
	ClassicalLineOffset float64 `toml:"classical_line_offset"`
	ConnectorOffset     float64 `toml:"connector_offset"`
}

var defaultColors = map[string]string{
	"CNOT":     "royalblue",
	"CZ":       "purple",
	"Toffoli":  "green",
	"T":        "crimson",
	"Tdg":      "crimson",
	"PauliX":   "royalblue",
	"PauliZ":   "black",
	"S":        "magenta",
	"Hadamard": "green",
	"Measure":  "orange",
}

var defaultLabels = map[string]string{
	"PauliX":   "X",
	"PauliZ":   "Z",
	"S":        "S",
	"Hadamard": "H",
	"T":        "T",
	"Tdg":      "T",
}

// DefaultTheme returns a copy of the default theme. Callers may mutate
// the returned value freely.
func DefaultTheme() Theme {
	t := Theme{
		Colors:              make(map[string]string, len(defaultColors)),
		Labels:              make(map[string]string, len(defaultLabels)),
		LineWidth:           1,
		WireColor:           "gray",
		ClassicalLabelColor: "red",
		ConnectorColor:      "black",
		GateEdgeColor:       "black",
		GateEdgeWidth:       1,
		FontSize:            8,
		GateFontSize:        10,
		ClassicalLineOffset: 2,
		ConnectorOffset:     2,
	}
	for k, v := range defaultColors {
		t.Colors[k] = v
	}
	for k, v := range defaultLabels {
		t.Labels[k] = v
	}
	return t
}

// Color returns the theme color for a gate kind name, or fallback when
// the kind has no entry.
func (t Theme) Color(kind, fallback string) string {
	if c, ok := t.Colors[kind]; ok {
		return c
	}
	return fallback
}

// Label returns the box label for a gate kind name, defaulting to the
// kind name itself.
func (t Theme) Label(kind string) string {
	if l, ok := t.Labels[kind]; ok {
		return l
	}
	return kind
}

// Config is the TOML file schema accepted by LoadConfig: an optional
// [geometry] table plus theme keys at the top level ([colors], [labels],
// line styling).
//
//	[geometry]
//	column_width = 48
//	row_height   = 56
//
//	[colors]
//	CNOT = "#1f77b4"
//
//	[labels]
//	Tdg = "T†"
type Config struct {
	Geometry layout.Geometry `toml:"geometry"`
	Theme
}

// LoadConfig reads a TOML theme/geometry file and merges it over the
// defaults: geometry zero fields keep their default values, and color or
// label entries override the default tables entry by entry.
func LoadConfig(path string) (Config, error) {
	cfg := Config{Theme: DefaultTheme()}
	var file Config
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidTheme, err, "load %s", path)
	}

	cfg.Geometry = file.Geometry
	for k, v := range file.Colors {
		cfg.Theme.Colors[k] = v
	}
	for k, v := range file.Labels {
		cfg.Theme.Labels[k] = v
	}
	if file.LineWidth != 0 {
		cfg.Theme.LineWidth = file.LineWidth
	}
	if file.WireColor != "" {
		cfg.Theme.WireColor = file.WireColor
	}
	if file.ClassicalLabelColor != "" {
		cfg.Theme.ClassicalLabelColor = file.ClassicalLabelColor
	}
	if file.ConnectorColor != "" {
		cfg.Theme.ConnectorColor = file.ConnectorColor
	}
	if file.GateEdgeColor != "" {
		cfg.Theme.GateEdgeColor = file.GateEdgeColor
	}
	if file.GateEdgeWidth != 0 {
		cfg.Theme.GateEdgeWidth = file.GateEdgeWidth
	}
	if file.FontSize != 0 {
		cfg.Theme.FontSize = file.FontSize
	}
	if file.GateFontSize != 0 {
		cfg.Theme.GateFontSize = file.GateFontSize
	}
	if file.ClassicalLineOffset != 0 {
		cfg.Theme.ClassicalLineOffset = file.ClassicalLineOffset
	}
	if file.ConnectorOffset != 0 {
		cfg.Theme.ConnectorOffset = file.ConnectorOffset
	}
	return cfg, nil
}
