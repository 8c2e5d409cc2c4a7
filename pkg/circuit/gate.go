package circuit

import (
	"fmt"

	"github.com/qcviz/qcviz/pkg/errors"
)

// Kind identifies the operation kind of a gate.
type Kind int

const (
	KindCNOT Kind = iota
	KindCZ
	KindToffoli
	KindHadamard
	KindPauliX
	KindPauliZ
	KindS
	KindT
	KindTdg
	KindMeasure
	KindConditional
)

var kindNames = [...]string{
	KindCNOT:        "CNOT",
	KindCZ:          "CZ",
	KindToffoli:     "Toffoli",
	KindHadamard:    "Hadamard",
	KindPauliX:      "PauliX",
	KindPauliZ:      "PauliZ",
	KindS:           "S",
	KindT:           "T",
	KindTdg:         "Tdg",
	KindMeasure:     "Measure",
	KindConditional: "Conditional",
}

// String returns the canonical name of the kind (e.g., "CNOT", "Hadamard").
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// NoCtrl marks the absent optional control of a [Conditional] gate.
const NoCtrl = -1

// Gate is a single operation on circuit wires. Each kind has its own
// variant struct carrying exactly the operand fields that kind requires,
// so a well-typed Gate can never be missing a field.
//
// The interface is sealed: only the variant types in this package
// implement it. Gates are plain value structs; storing one in a Circuit
// copies it, so later mutation of the caller's value has no effect on
// the stored operation.
type Gate interface {
	// Kind returns the operation kind discriminant.
	Kind() Kind

	// validate checks operand bounds against the circuit's current
	// wire allocation. Called by Circuit.Add.
	validate(nQubits, nClassicalBits int) error

	// shifted returns a copy with qubit operands offset by qubitOffset
	// and classical operands offset by classicalOffset.
	shifted(qubitOffset, classicalOffset int) Gate
}

// CNOT is a controlled-NOT acting on two qubits.
type CNOT struct {
	Ctrl   int
	Target int
}

// CZ is a controlled-Z acting on two qubits. The gate is symmetric, but
// the ctrl/target roles are kept for rendering.
type CZ struct {
	Ctrl   int
	Target int
}

// Toffoli is a doubly-controlled NOT acting on three qubits.
type Toffoli struct {
	Ctrl1  int
	Ctrl2  int
	Target int
}

// Hadamard is the single-qubit H gate.
type Hadamard struct {
	Target int
}

// PauliX is the single-qubit X (NOT) gate.
type PauliX struct {
	Target int
}

// PauliZ is the single-qubit Z gate.
type PauliZ struct {
	Target int
}

// SGate is the single-qubit phase gate S.
type SGate struct {
	Target int
}

// TGate is the single-qubit T gate.
type TGate struct {
	Target int
}

// TdgGate is the single-qubit T-dagger (adjoint T) gate.
type TdgGate struct {
	Target int
}

// Measure reads a qubit and writes the outcome to a classical bit.
type Measure struct {
	Qubit        int
	ClassicalBit int
}

// Conditional wraps an inner gate whose execution is gated by the value
// of a classical bit. Inner must be one of KindPauliX, KindPauliZ,
// KindHadamard, or KindCNOT; Ctrl is only meaningful (and required)
// when Inner is KindCNOT, and must be NoCtrl otherwise.
type Conditional struct {
	ClassicalBit int
	Target       int
	Ctrl         int // NoCtrl unless Inner == KindCNOT
	Inner        Kind
}

func (CNOT) Kind() Kind        { return KindCNOT }
func (CZ) Kind() Kind          { return KindCZ }
func (Toffoli) Kind() Kind     { return KindToffoli }
func (Hadamard) Kind() Kind    { return KindHadamard }
func (PauliX) Kind() Kind      { return KindPauliX }
func (PauliZ) Kind() Kind      { return KindPauliZ }
func (SGate) Kind() Kind       { return KindS }
func (TGate) Kind() Kind       { return KindT }
func (TdgGate) Kind() Kind     { return KindTdg }
func (Measure) Kind() Kind     { return KindMeasure }
func (Conditional) Kind() Kind { return KindConditional }

// checkQubit reports an INVALID_OPERATION error when q is outside
// [0, nQubits). field names the operand role in the message.
func checkQubit(kind Kind, field string, q, nQubits int) error {
	if q < 0 || q >= nQubits {
		return errors.New(errors.ErrCodeInvalidOperation,
			"%s: %s qubit %d out of range [0, %d)", kind, field, q, nQubits)
	}
	return nil
}

func checkClassical(kind Kind, b, nClassicalBits int) error {
	if b < 0 || b >= nClassicalBits {
		return errors.New(errors.ErrCodeInvalidOperation,
			"%s: classical bit %d out of range [0, %d)", kind, b, nClassicalBits)
	}
	return nil
}

func (g CNOT) validate(nQubits, _ int) error {
	if err := checkQubit(KindCNOT, "ctrl", g.Ctrl, nQubits); err != nil {
		return err
	}
	return checkQubit(KindCNOT, "target", g.Target, nQubits)
}

func (g CZ) validate(nQubits, _ int) error {
	if err := checkQubit(KindCZ, "ctrl", g.Ctrl, nQubits); err != nil {
		return err
	}
	return checkQubit(KindCZ, "target", g.Target, nQubits)
}

func (g Toffoli) validate(nQubits, _ int) error {
	if err := checkQubit(KindToffoli, "ctrl1", g.Ctrl1, nQubits); err != nil {
		return err
	}
	if err := checkQubit(KindToffoli, "ctrl2", g.Ctrl2, nQubits); err != nil {
		return err
	}
	return checkQubit(KindToffoli, "target", g.Target, nQubits)
}

func (g Hadamard) validate(nQubits, _ int) error {
	return checkQubit(KindHadamard, "target", g.Target, nQubits)
}

func (g PauliX) validate(nQubits, _ int) error {
	return checkQubit(KindPauliX, "target", g.Target, nQubits)
}

func (g PauliZ) validate(nQubits, _ int) error {
	return checkQubit(KindPauliZ, "target", g.Target, nQubits)
}

func (g SGate) validate(nQubits, _ int) error {
	return checkQubit(KindS, "target", g.Target, nQubits)
}

func (g TGate) validate(nQubits, _ int) error {
	return checkQubit(KindT, "target", g.Target, nQubits)
}

func (g TdgGate) validate(nQubits, _ int) error {
	return checkQubit(KindTdg, "target", g.Target, nQubits)
}

func (g Measure) validate(nQubits, nClassicalBits int) error {
	if err := checkQubit(KindMeasure, "qubit", g.Qubit, nQubits); err != nil {
		return err
	}
	return checkClassical(KindMeasure, g.ClassicalBit, nClassicalBits)
}

func (g Conditional) validate(nQubits, nClassicalBits int) error {
	switch g.Inner {
	case KindPauliX, KindPauliZ, KindHadamard:
		if g.Ctrl != NoCtrl {
			return errors.New(errors.ErrCodeInvalidOperation,
				"Conditional: ctrl is only valid for an inner CNOT, got inner %s", g.Inner)
		}
	case KindCNOT:
		if err := checkQubit(KindConditional, "ctrl", g.Ctrl, nQubits); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidOperation,
			"Conditional: unsupported inner gate kind %s", g.Inner)
	}
	if err := checkQubit(KindConditional, "target", g.Target, nQubits); err != nil {
		return err
	}
	return checkClassical(KindConditional, g.ClassicalBit, nClassicalBits)
}

func (g CNOT) shifted(q, _ int) Gate { return CNOT{Ctrl: g.Ctrl + q, Target: g.Target + q} }
func (g CZ) shifted(q, _ int) Gate   { return CZ{Ctrl: g.Ctrl + q, Target: g.Target + q} }

func (g Toffoli) shifted(q, _ int) Gate {
	return Toffoli{Ctrl1: g.Ctrl1 + q, Ctrl2: g.Ctrl2 + q, Target: g.Target + q}
}

func (g Hadamard) shifted(q, _ int) Gate { return Hadamard{Target: g.Target + q} }
func (g PauliX) shifted(q, _ int) Gate   { return PauliX{Target: g.Target + q} }
func (g PauliZ) shifted(q, _ int) Gate   { return PauliZ{Target: g.Target + q} }
func (g SGate) shifted(q, _ int) Gate    { return SGate{Target: g.Target + q} }
func (g TGate) shifted(q, _ int) Gate    { return TGate{Target: g.Target + q} }
func (g TdgGate) shifted(q, _ int) Gate  { return TdgGate{Target: g.Target + q} }

func (g Measure) shifted(q, c int) Gate {
	return Measure{Qubit: g.Qubit + q, ClassicalBit: g.ClassicalBit + c}
}

func (g Conditional) shifted(q, c int) Gate {
	out := Conditional{
		ClassicalBit: g.ClassicalBit + c,
		Target:       g.Target + q,
		Ctrl:         NoCtrl,
		Inner:        g.Inner,
	}
	if g.Ctrl != NoCtrl {
		out.Ctrl = g.Ctrl + q
	}
	return out
}
