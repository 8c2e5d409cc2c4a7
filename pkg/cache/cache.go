// Package cache provides pluggable byte caches for pipeline results:
// parsed circuits, computed layouts, and rendered artifacts.
//
// Four backends implement the same [Cache] interface: a file cache for
// CLI usage, Redis and MongoDB caches for server deployments, and a
// null cache that disables caching. Keys are built through a [Keyer] so
// the key schema lives in one place.
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached artifact class. Parsed circuits and layouts
// are pure functions of their inputs and could live forever; the TTLs
// bound storage growth.
const (
	TTLCircuit  = 30 * 24 * time.Hour
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented cache with TTL support. Get returns the
// cached bytes and true on a hit; a miss is (nil, false, nil), never an
// error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts are the inputs that change a computed layout for the
// same circuit.
type LayoutKeyOpts struct {
	Widen       bool
	ColumnWidth float64
	RowHeight   float64
	MarginX     float64
	MarginY     float64
	MarkerSize  float64
}

// ArtifactKeyOpts are the inputs that change a rendered artifact for
// the same layout.
type ArtifactKeyOpts struct {
	Format  string // svg, txt, dot, json
	VizType string // circuit or depgraph
	// ThemeHash fingerprints the theme configuration; empty means the
	// default theme.
	ThemeHash string
}

// Keyer builds cache keys for the three pipeline stages.
type Keyer interface {
	// CircuitKey keys a parsed circuit by the hash of its source text.
	CircuitKey(sourceHash string) string
	// LayoutKey keys a computed layout by circuit hash and layout options.
	LayoutKey(circuitHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys a rendered artifact by layout hash and render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key schema. Option structs are folded
// into the key by hashing, so any option change yields a distinct key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

func (k *DefaultKeyer) CircuitKey(sourceHash string) string {
	return "circuit:" + sourceHash
}

func (k *DefaultKeyer) LayoutKey(circuitHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", circuitHash, opts)
}

func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
