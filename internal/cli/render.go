package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qcviz/qcviz/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file path, "-" for stdout, or base path for multiple formats
	formats []string // output formats: svg, txt, dot, json
	vizType string   // visualization type: circuit or depgraph
	theme   string   // optional TOML theme/geometry file
	noWiden bool     // disable overlap suppression in the scheduler
	refresh bool     // bypass cached results
	cache   cacheFlags
}

// newRenderCmd behavior: parse the QASM input, schedule it, compute the
// layout, and write one file per requested format. The default output
// path derives from the input file name.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a circuit to SVG, text, DOT, or layout JSON",
		Long: `Render parses an OpenQASM file (or stdin with "-"), packs its gates
into parallel execution levels, and renders the scheduled circuit.

The depgraph type draws the operation dependency graph instead of the
wire diagram; it supports the svg and dot formats.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file, "-" for stdout, or base path for multiple formats`)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), txt, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", pipeline.VizTypeCircuit, "visualization type: circuit (default), depgraph")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "TOML theme/geometry file")
	cmd.Flags().BoolVar(&opts.noWiden, "no-overlap", false, "disable overlap suppression (gates may share a column across crossing wires)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached results exist")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	source, err := readSource(input)
	if err != nil {
		return err
	}

	theme, cfg, themeHash, err := loadTheme(opts.theme)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	pipeOpts := pipeline.Options{
		Source:    source,
		Refresh:   opts.refresh,
		NoWiden:   opts.noWiden,
		VizType:   opts.vizType,
		Formats:   opts.formats,
		Theme:     theme,
		ThemeHash: themeHash,
		Logger:    logger,
	}
	if cfg != nil {
		pipeOpts.Geometry = cfg.Geometry
	}

	track := newProgress(logger)
	result, err := runner.Execute(ctx, pipeOpts)
	if err != nil {
		return err
	}
	track.done(fmt.Sprintf("Scheduled %d gates into %d levels",
		result.Stats.GateCount, result.Stats.MaxLevel+1))

	printCircuitStats(result)

	for _, format := range opts.formats {
		if err := writeArtifact(input, format, opts, result.Artifacts[format]); err != nil {
			return err
		}
	}
	return nil
}

// writeArtifact writes one rendered format to its output destination.
// Text output with no explicit --output goes to stdout, everything else
// to a file derived from the input name.
func writeArtifact(input, format string, opts *renderOpts, data []byte) error {
	path := artifactPath(input, format, opts)
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if path != "-" {
		printFile(path)
	}
	return nil
}

// artifactPath derives the output path for one format.
func artifactPath(input, format string, opts *renderOpts) string {
	if opts.output == "-" {
		return "-"
	}
	if opts.output == "" && format == pipeline.FormatText {
		return "-"
	}

	base := opts.output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
		if input == "-" {
			base = "circuit"
		}
	} else if len(opts.formats) == 1 {
		return base
	}
	return fmt.Sprintf("%s.%s", base, format)
}

// printCircuitStats prints a one-line summary of the pipeline run.
func printCircuitStats(result *pipeline.Result) {
	printStats(result.Stats.GateCount, result.Stats.WireCount, result.Stats.MaxLevel+1,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
}
