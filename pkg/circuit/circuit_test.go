package circuit

import (
	"reflect"
	"testing"

	"github.com/qcviz/qcviz/pkg/errors"
)

func TestAllocate(t *testing.T) {
	c := New()
	if got := c.AllocateQubit(); got != 0 {
		t.Errorf("first qubit = %d, want 0", got)
	}
	if got := c.AllocateQubits(3); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("AllocateQubits(3) = %v, want [1 2 3]", got)
	}
	if got := c.AllocateClassicalBit(); got != 0 {
		t.Errorf("first classical bit = %d, want 0", got)
	}

	if c.NumQubits() != 4 || c.NumClassicalBits() != 1 || c.NumWires() != 5 {
		t.Errorf("counts = %d/%d/%d, want 4/1/5",
			c.NumQubits(), c.NumClassicalBits(), c.NumWires())
	}
}

func TestUnifiedIndex(t *testing.T) {
	c := New()
	c.AllocateQubits(3)
	c.AllocateClassicalBits(2)

	if got := c.UnifiedIndex(false, 2); got != 2 {
		t.Errorf("qubit 2 = %d, want 2", got)
	}
	if got := c.UnifiedIndex(true, 1); got != 4 {
		t.Errorf("classical 1 = %d, want 4", got)
	}
}

func TestAddValidation(t *testing.T) {
	c := New()
	c.AllocateQubits(2)
	c.AllocateClassicalBits(1)

	tests := []struct {
		name string
		gate Gate
		ok   bool
	}{
		{"valid cnot", CNOT{Ctrl: 0, Target: 1}, true},
		{"cnot target out of range", CNOT{Ctrl: 0, Target: 2}, false},
		{"negative qubit", Hadamard{Target: -1}, false},
		{"valid measure", Measure{Qubit: 0, ClassicalBit: 0}, true},
		{"measure bad classical bit", Measure{Qubit: 0, ClassicalBit: 1}, false},
		{"toffoli out of range", Toffoli{Ctrl1: 0, Ctrl2: 1, Target: 5}, false},
		{"valid conditional", Conditional{ClassicalBit: 0, Target: 1, Ctrl: NoCtrl, Inner: KindPauliX}, true},
		{"conditional ctrl without cnot", Conditional{ClassicalBit: 0, Target: 1, Ctrl: 0, Inner: KindPauliX}, false},
		{"conditional cnot needs ctrl", Conditional{ClassicalBit: 0, Target: 1, Ctrl: NoCtrl, Inner: KindCNOT}, false},
		{"conditional bad inner", Conditional{ClassicalBit: 0, Target: 1, Ctrl: NoCtrl, Inner: KindMeasure}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := c.NumGates()
			err := c.Add(tt.gate)
			if tt.ok && err != nil {
				t.Fatalf("Add() error: %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("Add() should have failed")
				}
				if !errors.Is(err, errors.ErrCodeInvalidOperation) {
					t.Errorf("error code = %s, want INVALID_OPERATION", errors.GetCode(err))
				}
				if c.NumGates() != before {
					t.Error("failed Add must leave the circuit unmodified")
				}
			}
		})
	}
}

func TestAddNilGate(t *testing.T) {
	c := New()
	if err := c.Add(nil); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("Add(nil) error = %v, want INVALID_OPERATION", err)
	}
}

func TestGatesReturnsCopy(t *testing.T) {
	c := New()
	c.AllocateQubits(1)
	_ = c.AddH(0)

	gates := c.Gates()
	gates[0] = PauliX{Target: 0}
	if c.Gate(0).Kind() != KindHadamard {
		t.Error("mutating Gates() result must not affect the circuit")
	}
}

func TestAppendCircuit(t *testing.T) {
	a := New()
	a.AllocateQubits(2)
	a.AllocateClassicalBits(1)
	_ = a.AddH(0)
	_ = a.AddMeasure(1, 0)

	b := New()
	b.AllocateQubits(2)
	b.AllocateClassicalBits(1)
	_ = b.AddCNOT(0, 1)
	_ = b.AddConditionalX(0, 1)

	if err := a.AppendCircuit(b); err != nil {
		t.Fatalf("AppendCircuit() error: %v", err)
	}

	if a.NumQubits() != 4 || a.NumClassicalBits() != 2 {
		t.Errorf("wires = %d/%d, want 4/2", a.NumQubits(), a.NumClassicalBits())
	}
	if a.NumGates() != 4 {
		t.Fatalf("NumGates = %d, want 4", a.NumGates())
	}

	cnot, ok := a.Gate(2).(CNOT)
	if !ok || cnot.Ctrl != 2 || cnot.Target != 3 {
		t.Errorf("shifted CNOT = %+v, want Ctrl=2 Target=3", a.Gate(2))
	}
	cond, ok := a.Gate(3).(Conditional)
	if !ok || cond.ClassicalBit != 1 || cond.Target != 3 || cond.Ctrl != NoCtrl {
		t.Errorf("shifted Conditional = %+v", a.Gate(3))
	}
}

func TestAppendCircuitNil(t *testing.T) {
	c := New()
	if err := c.AppendCircuit(nil); !errors.Is(err, errors.ErrCodeTypeMismatch) {
		t.Errorf("AppendCircuit(nil) error = %v, want TYPE_MISMATCH", err)
	}
}

func TestAppendCircuitSelf(t *testing.T) {
	c := New()
	c.AllocateQubits(2)
	_ = c.AddCNOT(0, 1)

	if err := c.AppendCircuit(c); err != nil {
		t.Fatalf("AppendCircuit(self) error: %v", err)
	}
	if c.NumQubits() != 4 || c.NumGates() != 2 {
		t.Errorf("self-append = %d qubits, %d gates, want 4, 2", c.NumQubits(), c.NumGates())
	}
	second, ok := c.Gate(1).(CNOT)
	if !ok || second.Ctrl != 2 || second.Target != 3 {
		t.Errorf("second CNOT = %+v, want Ctrl=2 Target=3", c.Gate(1))
	}
}

func TestClone(t *testing.T) {
	c := New()
	c.AllocateQubits(2)
	_ = c.AddH(0)

	clone := c.Clone()
	_ = clone.AddX(1)
	clone.AllocateQubit()

	if c.NumGates() != 1 || c.NumQubits() != 2 {
		t.Error("mutating the clone must not affect the source")
	}
}

func TestOperandWires(t *testing.T) {
	tests := []struct {
		gate Gate
		want []int
	}{
		{CNOT{Ctrl: 2, Target: 0}, []int{2, 0}},
		{Toffoli{Ctrl1: 0, Ctrl2: 1, Target: 2}, []int{0, 1, 2}},
		{Hadamard{Target: 3}, []int{3}},
		{Measure{Qubit: 1, ClassicalBit: 0}, []int{1}},
		{Conditional{ClassicalBit: 0, Target: 2, Ctrl: NoCtrl, Inner: KindPauliZ}, []int{2}},
		{Conditional{ClassicalBit: 0, Target: 2, Ctrl: 1, Inner: KindCNOT}, []int{1, 2}},
	}

	for _, tt := range tests {
		if got := OperandWires(tt.gate); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("OperandWires(%T) = %v, want %v", tt.gate, got, tt.want)
		}
	}
}

func TestDependencyWires(t *testing.T) {
	c := New()
	c.AllocateQubits(3)
	c.AllocateClassicalBits(2)

	tests := []struct {
		gate Gate
		want []int
	}{
		{CNOT{Ctrl: 2, Target: 0}, []int{0, 2}},
		{Measure{Qubit: 1, ClassicalBit: 1}, []int{1, 4}},
		{Conditional{ClassicalBit: 0, Target: 2, Ctrl: NoCtrl, Inner: KindHadamard}, []int{2, 3}},
		{Conditional{ClassicalBit: 1, Target: 0, Ctrl: 1, Inner: KindCNOT}, []int{0, 1, 4}},
	}

	for _, tt := range tests {
		if got := c.DependencyWires(tt.gate); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("DependencyWires(%T%+v) = %v, want %v", tt.gate, tt.gate, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := KindCNOT.String(); got != "CNOT" {
		t.Errorf("KindCNOT = %q", got)
	}
	if got := KindTdg.String(); got != "Tdg" {
		t.Errorf("KindTdg = %q", got)
	}
	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("Kind(99) = %q", got)
	}
}
