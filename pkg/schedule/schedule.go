// Package schedule assigns a discrete time column (level) to every
// operation of a circuit.
//
// The scheduler is a single deterministic pass over the operation
// sequence in program order. An operation's level is one more than the
// highest level among the operations that last touched any wire it
// depends on, so causal order on every wire is preserved while
// independent operations share columns.
//
// # Overlap Suppression
//
// By default the dependency set of each operation is widened to the full
// contiguous wire range it visually spans (qubit and classical
// subranges widened independently). A gate drawn from wire 0 to wire 3
// claims wires 1 and 2 as well, so no unrelated gate is scheduled into
// the same column on a wire its connector line crosses. Disable with
// [WithoutWidening] to pack columns as tightly as data dependencies
// allow.
package schedule

import "github.com/qcviz/qcviz/pkg/circuit"

// Option configures a scheduling pass.
type Option func(*config)

type config struct {
	widen bool
}

// WithoutWidening disables overlap suppression, scheduling purely on
// direct operand dependencies.
func WithoutWidening() Option {
	return func(c *config) { c.widen = false }
}

// Levels computes the level of every operation, indexed by operation
// position in program order. The result covers every operation exactly
// once; an empty circuit yields an empty slice regardless of wire
// counts.
//
// The pass is a pure function of the operation sequence and the
// widening flag: no randomness, no floating point. Runtime is linear in
// the total number of dependency-wire touches.
func Levels(c *circuit.Circuit, opts ...Option) []int {
	cfg := config{widen: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Flat per-wire arena indexed by unified wire number; -1 = untouched.
	current := make([]int, c.NumWires())
	for i := range current {
		current[i] = -1
	}

	levels := make([]int, c.NumGates())
	for i := range levels {
		deps := c.DependencyWires(c.Gate(i))
		if cfg.widen {
			deps = widen(deps, c.NumQubits())
		}

		level := 0
		for _, w := range deps {
			if current[w]+1 > level {
				level = current[w] + 1
			}
		}
		for _, w := range deps {
			current[w] = level
		}
		levels[i] = level
	}
	return levels
}

// widen expands a sorted dependency set to the contiguous ranges it
// spans, treating the qubit subrange (wire < nQubits) and the classical
// subrange (wire >= nQubits) independently so a measurement's connector
// does not claim classical wires it never crosses.
func widen(deps []int, nQubits int) []int {
	if len(deps) == 0 {
		return deps
	}

	// deps is sorted, so the qubit subrange is a prefix.
	split := 0
	for split < len(deps) && deps[split] < nQubits {
		split++
	}

	out := make([]int, 0, len(deps))
	if split > 0 {
		for w := deps[0]; w <= deps[split-1]; w++ {
			out = append(out, w)
		}
	}
	if split < len(deps) {
		for w := deps[split]; w <= deps[len(deps)-1]; w++ {
			out = append(out, w)
		}
	}
	return out
}

// MaxLevel returns the highest level in a schedule, or -1 when the
// schedule is empty. The number of drawn columns is MaxLevel+1.
func MaxLevel(levels []int) int {
	maxL := -1
	for _, l := range levels {
		if l > maxL {
			maxL = l
		}
	}
	return maxL
}
