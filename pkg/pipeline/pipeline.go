// Package pipeline provides the core visualization pipeline for qcviz.
//
// This package implements the complete decode → schedule → layout →
// render pipeline shared by the CLI and the render server. Centralizing
// it keeps behavior consistent across entry points and puts the caching
// logic in one place.
//
// # Architecture
//
// The pipeline consists of three cached stages:
//
//  1. Decode: Parse OpenQASM source into a circuit
//  2. Layout: Schedule the circuit into levels and compute draw geometry
//  3. Render: Generate output artifacts (SVG, text, DOT, JSON)
//
// Each stage can be run independently or as part of the complete
// pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  qasmSource,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/qcviz/qcviz/pkg/cache"
	"github.com/qcviz/qcviz/pkg/circuit"
	"github.com/qcviz/qcviz/pkg/errors"
	"github.com/qcviz/qcviz/pkg/layout"
	"github.com/qcviz/qcviz/pkg/render"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatText = "txt"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatText: true,
	FormatDOT:  true,
	FormatJSON: true,
}

// Visualization types.
const (
	VizTypeCircuit  = "circuit"
	VizTypeDepgraph = "depgraph"
)

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeCircuit:  true,
	VizTypeDepgraph: true,
}

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeCircuit

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Decode options
	Source  string `json:"source"`
	Refresh bool   `json:"refresh,omitempty"`

	// Schedule and layout options
	NoWiden  bool            `json:"no_widen,omitempty"`
	Geometry layout.Geometry `json:"geometry,omitempty"`

	// Render options
	VizType string   `json:"viz_type,omitempty"`
	Formats []string `json:"formats,omitempty"`

	// ThemeHash fingerprints the theme for cache keys; set it when
	// Theme is non-nil, typically to the hash of the theme file.
	ThemeHash string `json:"theme_hash,omitempty"`

	// Runtime options (not serialized)
	Theme  *render.Theme `json:"-"`
	Logger *log.Logger   `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Circuit is the decoded circuit.
	Circuit *circuit.Circuit

	// CircuitHash is the content hash of the circuit source.
	CircuitHash string

	// Levels is the schedule level per operation.
	Levels []int

	// Layout is the computed draw geometry.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	GateCount  int
	WireCount  int
	MaxLevel   int
	DecodeTime time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DecodeHit bool
	LayoutHit bool
	RenderHit bool // all requested artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, txt, dot, json)", format)
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

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid viz_type: %q (must be one of: circuit, depgraph)", vizType)
	}
	return nil
}

// ValidateForDecode checks required fields for decoding.
func (o *Options) ValidateForDecode() error {
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidFormat, "source is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForDecode(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	geom := o.Geometry.WithDefaults()
	return cache.LayoutKeyOpts{
		Widen:       !o.NoWiden,
		ColumnWidth: geom.ColumnWidth,
		RowHeight:   geom.RowHeight,
		MarginX:     geom.MarginX,
		MarginY:     geom.MarginY,
		MarkerSize:  geom.MarkerSize,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		VizType:   o.VizType,
		ThemeHash: o.ThemeHash,
	}
}
