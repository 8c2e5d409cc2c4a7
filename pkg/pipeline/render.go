package pipeline

import (
	"context"

	"github.com/qcviz/qcviz/pkg/circuit"
	"github.com/qcviz/qcviz/pkg/errors"
	"github.com/qcviz/qcviz/pkg/layout"
	"github.com/qcviz/qcviz/pkg/render"
)

// renderFormats produces every requested format from an already
// computed layout. The depgraph visualization renders the operation
// dependency graph instead of the wire diagram and supports only the
// dot and svg formats.
func renderFormats(ctx context.Context, l layout.Layout, c *circuit.Circuit, levels []int, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		data, err := renderOne(ctx, l, c, levels, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderOne(ctx context.Context, l layout.Layout, c *circuit.Circuit, levels []int, format string, opts Options) ([]byte, error) {
	if opts.VizType == VizTypeDepgraph {
		dot := render.DependencyDOT(c, levels)
		switch format {
		case FormatDOT:
			return []byte(dot), nil
		case FormatSVG:
			return render.RenderDOTSVG(ctx, dot)
		}
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"format %q is not supported for depgraph output", format)
	}

	switch format {
	case FormatSVG:
		var svgOpts []render.SVGOption
		if opts.Theme != nil {
			svgOpts = append(svgOpts, render.WithTheme(*opts.Theme))
		}
		return render.RenderSVG(l, svgOpts...), nil
	case FormatText:
		var termOpts []render.TermOption
		if opts.Theme != nil {
			termOpts = append(termOpts, render.WithTermTheme(*opts.Theme))
		}
		termOpts = append(termOpts, render.WithoutColor())
		return []byte(render.RenderText(l, termOpts...)), nil
	case FormatDOT:
		return []byte(render.DependencyDOT(c, levels)), nil
	case FormatJSON:
		return layout.MarshalLayout(l)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format: %q", format)
}
