package circuit

import "slices"

// OperandWires returns the qubit-space wires a gate operates on directly:
// ctrl/target pairs for two-qubit gates, all three wires for Toffoli, the
// single target for one-qubit gates, the measured qubit for Measure, and
// target (plus ctrl, if present) for Conditional. Classical operands are
// not included; see [Circuit.DependencyWires] for the scheduling view.
func OperandWires(g Gate) []int {
	switch g := g.(type) {
	case CNOT:
		return []int{g.Ctrl, g.Target}
	case CZ:
		return []int{g.Ctrl, g.Target}
	case Toffoli:
		return []int{g.Ctrl1, g.Ctrl2, g.Target}
	case Hadamard:
		return []int{g.Target}
	case PauliX:
		return []int{g.Target}
	case PauliZ:
		return []int{g.Target}
	case SGate:
		return []int{g.Target}
	case TGate:
		return []int{g.Target}
	case TdgGate:
		return []int{g.Target}
	case Measure:
		return []int{g.Qubit}
	case Conditional:
		if g.Ctrl != NoCtrl {
			return []int{g.Ctrl, g.Target}
		}
		return []int{g.Target}
	}
	return nil
}

// DependencyWires returns the set of unified wire indices g depends on,
// sorted ascending. It extends [OperandWires] with the classical wire
// NumQubits()+ClassicalBit for Measure and Conditional gates, which read
// or write a classical bit in addition to their qubit operands.
//
// The resolver is pure: it has no failure mode for gates that passed
// [Circuit.Add] validation.
func (c *Circuit) DependencyWires(g Gate) []int {
	wires := OperandWires(g)
	switch g := g.(type) {
	case Measure:
		wires = append(wires, c.UnifiedIndex(true, g.ClassicalBit))
	case Conditional:
		wires = append(wires, c.UnifiedIndex(true, g.ClassicalBit))
	}
	slices.Sort(wires)
	return slices.Compact(wires)
}
