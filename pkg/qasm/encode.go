package qasm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/qcviz/qcviz/pkg/circuit"
	"github.com/qcviz/qcviz/pkg/errors"
)

// Encode writes c to w as OpenQASM 2.0, using the canonical lowercase
// gate names. Every supported gate round-trips through [Decode] with
// identical operand wires.
//
// Circuits containing Measure or Conditional gates cannot be exported;
// Encode fails with an UNSUPPORTED_CONVERSION error before writing any
// gate statements, so a failed export never produces a truncated
// program body.
func Encode(c *circuit.Circuit, w io.Writer) error {
	// Reject unexportable gates up front.
	for i := 0; i < c.NumGates(); i++ {
		switch c.Gate(i).Kind() {
		case circuit.KindMeasure:
			return errors.New(errors.ErrCodeUnsupportedConversion,
				"measurement export is not supported")
		case circuit.KindConditional:
			return errors.New(errors.ErrCodeUnsupportedConversion,
				"conditional gate export is not supported")
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "OPENQASM 2.0;")
	fmt.Fprintln(bw, `include "qelib1.inc";`)
	if n := c.NumQubits(); n > 0 {
		fmt.Fprintf(bw, "qreg q[%d];\n", n)
	}
	if n := c.NumClassicalBits(); n > 0 {
		fmt.Fprintf(bw, "creg c[%d];\n", n)
	}

	for i := 0; i < c.NumGates(); i++ {
		switch g := c.Gate(i).(type) {
		case circuit.CNOT:
			fmt.Fprintf(bw, "cx q[%d], q[%d];\n", g.Ctrl, g.Target)
		case circuit.CZ:
			fmt.Fprintf(bw, "cz q[%d], q[%d];\n", g.Ctrl, g.Target)
		case circuit.Toffoli:
			fmt.Fprintf(bw, "ccx q[%d], q[%d], q[%d];\n", g.Ctrl1, g.Ctrl2, g.Target)
		case circuit.PauliX:
			fmt.Fprintf(bw, "x q[%d];\n", g.Target)
		case circuit.PauliZ:
			fmt.Fprintf(bw, "z q[%d];\n", g.Target)
		case circuit.Hadamard:
			fmt.Fprintf(bw, "h q[%d];\n", g.Target)
		case circuit.SGate:
			fmt.Fprintf(bw, "s q[%d];\n", g.Target)
		case circuit.TGate:
			fmt.Fprintf(bw, "t q[%d];\n", g.Target)
		case circuit.TdgGate:
			fmt.Fprintf(bw, "tdg q[%d];\n", g.Target)
		default:
			return errors.New(errors.ErrCodeUnsupportedConversion,
				"unsupported gate kind for export: %s", g.Kind())
		}
	}
	return bw.Flush()
}

// EncodeString returns c as an OpenQASM source string.
func EncodeString(c *circuit.Circuit) (string, error) {
	var sb strings.Builder
	if err := Encode(c, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
