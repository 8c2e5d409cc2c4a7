// Package circuit models a quantum circuit as an ordered sequence of
// gate operations over a fixed set of qubit and classical-bit wires.
//
// A Circuit is built by allocating wires and appending operations; gate
// order is temporal program order and is never reordered. Once built, a
// Circuit is treated as an immutable input by the scheduler
// (pkg/schedule) and the layout engine (pkg/layout).
//
// # Wire Spaces
//
// Qubit wires and classical wires live in disjoint index spaces. For
// scheduling and layout the two are concatenated into a unified space of
// size NumQubits()+NumClassicalBits(), classical wires after qubit
// wires; see [Circuit.UnifiedIndex].
//
// # Concurrency
//
// Circuit is not safe for concurrent mutation. Distinct instances can be
// used concurrently, and a fully built instance can be read concurrently
// as long as no mutation happens.
package circuit

import (
	"slices"

	"github.com/qcviz/qcviz/pkg/errors"
)

// Circuit is an ordered sequence of gates over allocated wires.
// The zero value is an empty circuit with no wires; use New for clarity.
type Circuit struct {
	nQubits        int
	nClassicalBits int
	gates          []Gate
}

// New creates an empty circuit with no allocated wires.
func New() *Circuit { return &Circuit{} }

// NumQubits returns the number of allocated qubit wires.
func (c *Circuit) NumQubits() int { return c.nQubits }

// NumClassicalBits returns the number of allocated classical wires.
func (c *Circuit) NumClassicalBits() int { return c.nClassicalBits }

// NumWires returns the size of the unified wire space
// (qubits plus classical bits).
func (c *Circuit) NumWires() int { return c.nQubits + c.nClassicalBits }

// NumGates returns the number of appended operations.
func (c *Circuit) NumGates() int { return len(c.gates) }

// Gate returns the operation at index i in program order.
func (c *Circuit) Gate(i int) Gate { return c.gates[i] }

// Gates returns a copy of the operation sequence in program order.
// Gates are immutable values, so the copy shares no mutable state
// with the circuit.
func (c *Circuit) Gates() []Gate { return slices.Clone(c.gates) }

// AllocateQubit allocates one qubit wire and returns its index.
// Indices are a pure counter: the first call returns 0, and an index is
// never reused.
func (c *Circuit) AllocateQubit() int {
	c.nQubits++
	return c.nQubits - 1
}

// AllocateQubits allocates n qubit wires and returns their indices in
// ascending order.
func (c *Circuit) AllocateQubits(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = c.AllocateQubit()
	}
	return idx
}

// AllocateClassicalBit allocates one classical wire and returns its index.
func (c *Circuit) AllocateClassicalBit() int {
	c.nClassicalBits++
	return c.nClassicalBits - 1
}

// AllocateClassicalBits allocates n classical wires and returns their
// indices in ascending order.
func (c *Circuit) AllocateClassicalBits(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = c.AllocateClassicalBit()
	}
	return idx
}

// UnifiedIndex maps a wire from its own space to the unified space used
// by scheduling and layout: qubit i stays at i, classical bit j maps to
// NumQubits()+j.
func (c *Circuit) UnifiedIndex(classical bool, index int) int {
	if classical {
		return c.nQubits + index
	}
	return index
}

// Add validates g against the current wire allocation and appends it.
// On failure the circuit is left unmodified and the returned error
// carries [errors.ErrCodeInvalidOperation]. The gate is stored by value,
// so later changes to the caller's copy do not affect the circuit.
func (c *Circuit) Add(g Gate) error {
	if g == nil {
		return errors.New(errors.ErrCodeInvalidOperation, "nil gate")
	}
	if err := g.validate(c.nQubits, c.nClassicalBits); err != nil {
		return err
	}
	c.gates = append(c.gates, g)
	return nil
}

// AppendCircuit composes other after c. Other's qubit wires are shifted
// by c's qubit count, its classical wires by c's classical count, and
// its operations are appended in order with operand indices shifted
// accordingly. Returns a TYPE_MISMATCH error when other is nil (the
// type system rules out every other kind of non-circuit argument).
//
// Composition is all-or-nothing: on error nothing is appended. Appending
// a circuit to itself composes a snapshot of the receiver.
func (c *Circuit) AppendCircuit(other *Circuit) error {
	if other == nil {
		return errors.New(errors.ErrCodeTypeMismatch, "can only append another Circuit")
	}

	qubitOffset := c.nQubits
	classicalOffset := c.nClassicalBits

	// Snapshot before mutating so that c.AppendCircuit(c) is well defined.
	gates := other.gates[:len(other.gates):len(other.gates)]
	otherQubits := other.nQubits
	otherClassical := other.nClassicalBits

	c.nQubits = max(c.nQubits, otherQubits+qubitOffset)
	c.nClassicalBits += otherClassical

	for _, g := range gates {
		c.gates = append(c.gates, g.shifted(qubitOffset, classicalOffset))
	}
	return nil
}

// Clone returns a deep copy: independent wire counts and an independent
// operation sequence. Mutating the clone never affects the source.
func (c *Circuit) Clone() *Circuit {
	return &Circuit{
		nQubits:        c.nQubits,
		nClassicalBits: c.nClassicalBits,
		gates:          slices.Clone(c.gates),
	}
}

// Convenience constructors mirroring the common gate set. Each is
// shorthand for Add with the corresponding variant.

// AddCNOT appends a CNOT gate.
func (c *Circuit) AddCNOT(ctrl, target int) error {
	return c.Add(CNOT{Ctrl: ctrl, Target: target})
}

// AddCZ appends a CZ gate.
func (c *Circuit) AddCZ(ctrl, target int) error {
	return c.Add(CZ{Ctrl: ctrl, Target: target})
}

// AddToffoli appends a Toffoli gate.
func (c *Circuit) AddToffoli(ctrl1, ctrl2, target int) error {
	return c.Add(Toffoli{Ctrl1: ctrl1, Ctrl2: ctrl2, Target: target})
}

// AddH appends a Hadamard gate.
func (c *Circuit) AddH(target int) error { return c.Add(Hadamard{Target: target}) }

// AddX appends a Pauli-X gate.
func (c *Circuit) AddX(target int) error { return c.Add(PauliX{Target: target}) }

// AddZ appends a Pauli-Z gate.
func (c *Circuit) AddZ(target int) error { return c.Add(PauliZ{Target: target}) }

// AddS appends an S gate.
func (c *Circuit) AddS(target int) error { return c.Add(SGate{Target: target}) }

// AddT appends a T gate.
func (c *Circuit) AddT(target int) error { return c.Add(TGate{Target: target}) }

// AddTdg appends a T-dagger gate.
func (c *Circuit) AddTdg(target int) error { return c.Add(TdgGate{Target: target}) }

// AddMeasure appends a measurement of qubit into classicalBit.
func (c *Circuit) AddMeasure(qubit, classicalBit int) error {
	return c.Add(Measure{Qubit: qubit, ClassicalBit: classicalBit})
}

// AddConditionalX appends an X gate conditioned on a classical bit.
func (c *Circuit) AddConditionalX(classicalBit, target int) error {
	return c.Add(Conditional{ClassicalBit: classicalBit, Target: target, Ctrl: NoCtrl, Inner: KindPauliX})
}

// AddConditionalZ appends a Z gate conditioned on a classical bit.
func (c *Circuit) AddConditionalZ(classicalBit, target int) error {
	return c.Add(Conditional{ClassicalBit: classicalBit, Target: target, Ctrl: NoCtrl, Inner: KindPauliZ})
}

// AddConditionalH appends a Hadamard conditioned on a classical bit.
func (c *Circuit) AddConditionalH(classicalBit, target int) error {
	return c.Add(Conditional{ClassicalBit: classicalBit, Target: target, Ctrl: NoCtrl, Inner: KindHadamard})
}

// AddConditionalCNOT appends a CNOT conditioned on a classical bit.
func (c *Circuit) AddConditionalCNOT(classicalBit, ctrl, target int) error {
	return c.Add(Conditional{ClassicalBit: classicalBit, Target: target, Ctrl: ctrl, Inner: KindCNOT})
}
