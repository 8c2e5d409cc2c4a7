package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/qcviz/qcviz/pkg/cache"
	"github.com/qcviz/qcviz/pkg/circuit"
	"github.com/qcviz/qcviz/pkg/layout"
	"github.com/qcviz/qcviz/pkg/observability"
	"github.com/qcviz/qcviz/pkg/qasm"
	"github.com/qcviz/qcviz/pkg/schedule"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete decode → schedule → layout → render
// pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		CircuitHash: cache.Hash([]byte(opts.Source)),
		Artifacts:   make(map[string][]byte),
	}

	// Stage 1: Decode
	decodeStart := time.Now()
	c, decodeHit, err := r.DecodeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	result.Circuit = c
	result.Stats.DecodeTime = time.Since(decodeStart)
	result.Stats.GateCount = c.NumGates()
	result.Stats.WireCount = c.NumWires()
	result.CacheInfo.DecodeHit = decodeHit

	r.Logger.Info("decoded circuit",
		"qubits", c.NumQubits(),
		"gates", c.NumGates(),
		"duration", result.Stats.DecodeTime)

	// Stage 2: Schedule and layout
	layoutStart := time.Now()
	l, levels, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, c, result.CircuitHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Levels = levels
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.MaxLevel = schedule.MaxLevel(levels)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"levels", result.Stats.MaxLevel+1,
		"wires", len(l.Wires),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, c, levels, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// DecodeWithCacheInfo parses QASM source with caching and returns cache
// hit info. Decoded circuits are cached as their canonical QASM
// encoding, which every importable circuit has.
func (r *Runner) DecodeWithCacheInfo(ctx context.Context, opts Options) (*circuit.Circuit, bool, error) {
	if err := opts.ValidateForDecode(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.CircuitKey(cache.Hash([]byte(opts.Source)))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if c, err := qasm.DecodeString(string(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "circuit")
				return c, true, nil
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "circuit")

	start := time.Now()
	observability.Pipeline().OnDecodeStart(ctx, "qasm")
	c, err := qasm.DecodeString(opts.Source)
	gates := 0
	if c != nil {
		gates = c.NumGates()
	}
	observability.Pipeline().OnDecodeComplete(ctx, "qasm", gates, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if !opts.Refresh {
		if canonical, err := qasm.EncodeString(c); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, []byte(canonical), cache.TTLCircuit)
			observability.Cache().OnCacheSet(ctx, "circuit", len(canonical))
		}
	}

	return c, false, nil
}

// Decode is a convenience wrapper that discards the cache hit info.
func (r *Runner) Decode(ctx context.Context, opts Options) (*circuit.Circuit, error) {
	c, _, err := r.DecodeWithCacheInfo(ctx, opts)
	return c, err
}

// ComputeLayoutWithCacheInfo schedules the circuit and computes its
// layout, caching the layout JSON. Levels are always recomputed; the
// scheduler is a single linear pass and not worth a cache round trip.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, c *circuit.Circuit, circuitHash string, opts Options) (layout.Layout, []int, bool, error) {
	r.applyLogger(&opts)

	start := time.Now()
	observability.Pipeline().OnScheduleStart(ctx, c.NumGates())
	var schedOpts []schedule.Option
	if opts.NoWiden {
		schedOpts = append(schedOpts, schedule.WithoutWidening())
	}
	levels := schedule.Levels(c, schedOpts...)
	observability.Pipeline().OnScheduleComplete(ctx, c.NumGates(), schedule.MaxLevel(levels), time.Since(start), nil)

	cacheKey := r.Keyer.LayoutKey(circuitHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := layout.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, levels, true, nil
			}
			// Deserialization failure falls through to recompute.
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	start = time.Now()
	observability.Pipeline().OnLayoutStart(ctx, c.NumWires())
	l := layout.Compute(c, levels, opts.Geometry)
	observability.Pipeline().OnLayoutComplete(ctx, c.NumWires(), time.Since(start), nil)

	if data, err := layout.MarshalLayout(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return l, levels, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, c *circuit.Circuit, circuitHash string, opts Options) (layout.Layout, []int, error) {
	l, levels, _, err := r.ComputeLayoutWithCacheInfo(ctx, c, circuitHash, opts)
	return l, levels, err
}

// RenderWithCacheInfo generates artifacts with caching and returns
// cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, c *circuit.Circuit, levels []int, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := layout.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache.
	allCached := true
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := renderFormats(ctx, l, c, levels, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, c *circuit.Circuit, levels []int, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, c, levels, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
