// Package qasm converts circuits to and from an OpenQASM 2.0 subset.
//
// Only the gate set the layout engine understands is supported. The
// decoder accepts both the canonical lowercase QASM names (cx, ccx, h,
// tdg, ...) and the uppercase legacy aliases some toolchains emit
// (CNOT, Tof, HAD, TDAG, NOT); matching is case-insensitive. The
// compound ccz gate is decomposed on import into H; Toffoli; H on the
// target qubit.
//
// Measurement has no interchange mapping: both importing a measure
// statement and exporting a circuit that contains Measure or Conditional
// gates fail fast with an UNSUPPORTED_CONVERSION error rather than
// silently dropping the operation.
package qasm

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/qcviz/qcviz/pkg/circuit"
	"github.com/qcviz/qcviz/pkg/errors"
)

// Statement patterns for the supported QASM subset.
var (
	qregRe    = regexp.MustCompile(`^qreg\s+(\w+)\[(\d+)\];?$`)
	cregRe    = regexp.MustCompile(`^creg\s+(\w+)\[(\d+)\];?$`)
	oneQRe    = regexp.MustCompile(`^(\w+)\s+(\w+)\[(\d+)\];?$`)
	twoQRe    = regexp.MustCompile(`^(\w+)\s+(\w+)\[(\d+)\]\s*,\s*(\w+)\[(\d+)\];?$`)
	threeQRe  = regexp.MustCompile(`^(\w+)\s+(\w+)\[(\d+)\]\s*,\s*(\w+)\[(\d+)\]\s*,\s*(\w+)\[(\d+)\];?$`)
	measureRe = regexp.MustCompile(`^measure\s+`)
)

// Decode reads an OpenQASM 2.0 subset from r and returns the circuit.
//
// Errors carry [errors.ErrCodeInvalidFormat] for malformed statements
// and out-of-range register indices, and
// [errors.ErrCodeUnsupportedConversion] for measure statements and
// unrecognized gate names (the offending name is included in the
// message).
func Decode(r io.Reader) (*circuit.Circuit, error) {
	c := circuit.New()
	var qreg, creg string

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") || strings.HasPrefix(line, "include") {
			continue
		}

		if m := qregRe.FindStringSubmatch(line); m != nil {
			if qreg != "" {
				return nil, errors.New(errors.ErrCodeInvalidFormat,
					"line %d: multiple qreg declarations", lineNo)
			}
			qreg = m[1]
			n, _ := strconv.Atoi(m[2])
			c.AllocateQubits(n)
			continue
		}
		if m := cregRe.FindStringSubmatch(line); m != nil {
			if creg != "" {
				return nil, errors.New(errors.ErrCodeInvalidFormat,
					"line %d: multiple creg declarations", lineNo)
			}
			creg = m[1]
			n, _ := strconv.Atoi(m[2])
			c.AllocateClassicalBits(n)
			continue
		}
		if measureRe.MatchString(line) {
			return nil, errors.New(errors.ErrCodeUnsupportedConversion,
				"line %d: measurement import is not supported", lineNo)
		}

		if err := decodeGate(c, qreg, line, lineNo); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read input")
	}
	return c, nil
}

// DecodeString decodes a QASM source string.
func DecodeString(src string) (*circuit.Circuit, error) {
	return Decode(strings.NewReader(src))
}

// decodeGate parses a single gate statement and appends it to c.
func decodeGate(c *circuit.Circuit, qreg, line string, lineNo int) error {
	if m := threeQRe.FindStringSubmatch(line); m != nil {
		name := strings.ToLower(m[1])
		regs := []string{m[2], m[4], m[6]}
		q, err := operands(c, qreg, regs, []string{m[3], m[5], m[7]}, lineNo)
		if err != nil {
			return err
		}
		switch name {
		case "ccx", "tof":
			return wrapAdd(c.AddToffoli(q[0], q[1], q[2]), lineNo)
		case "ccz":
			// ccz decomposes as H(target); Toffoli; H(target).
			if err := c.AddH(q[2]); err != nil {
				return wrapAdd(err, lineNo)
			}
			if err := c.AddToffoli(q[0], q[1], q[2]); err != nil {
				return wrapAdd(err, lineNo)
			}
			return wrapAdd(c.AddH(q[2]), lineNo)
		}
		return unsupported(m[1], lineNo)
	}

	if m := twoQRe.FindStringSubmatch(line); m != nil {
		name := strings.ToLower(m[1])
		q, err := operands(c, qreg, []string{m[2], m[4]}, []string{m[3], m[5]}, lineNo)
		if err != nil {
			return err
		}
		switch name {
		case "cx", "cnot":
			return wrapAdd(c.AddCNOT(q[0], q[1]), lineNo)
		case "cz":
			return wrapAdd(c.AddCZ(q[0], q[1]), lineNo)
		}
		return unsupported(m[1], lineNo)
	}

	if m := oneQRe.FindStringSubmatch(line); m != nil {
		name := strings.ToLower(m[1])
		q, err := operands(c, qreg, []string{m[2]}, []string{m[3]}, lineNo)
		if err != nil {
			return err
		}
		switch name {
		case "x", "not":
			return wrapAdd(c.AddX(q[0]), lineNo)
		case "z":
			return wrapAdd(c.AddZ(q[0]), lineNo)
		case "h", "had":
			return wrapAdd(c.AddH(q[0]), lineNo)
		case "s":
			return wrapAdd(c.AddS(q[0]), lineNo)
		case "t":
			return wrapAdd(c.AddT(q[0]), lineNo)
		case "tdg", "tdag":
			return wrapAdd(c.AddTdg(q[0]), lineNo)
		}
		return unsupported(m[1], lineNo)
	}

	return errors.New(errors.ErrCodeInvalidFormat, "line %d: cannot parse %q", lineNo, line)
}

// operands resolves register references against the declared qreg and
// converts indices. All gate operands must come from the qubit register.
func operands(c *circuit.Circuit, qreg string, regs, indices []string, lineNo int) ([]int, error) {
	out := make([]int, len(regs))
	for i, reg := range regs {
		if qreg == "" || reg != qreg {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"line %d: unknown register %q", lineNo, reg)
		}
		q, err := strconv.Atoi(indices[i])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err,
				"line %d: register index", lineNo)
		}
		if q >= c.NumQubits() {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"line %d: qubit %d out of range [0, %d)", lineNo, q, c.NumQubits())
		}
		out[i] = q
	}
	return out, nil
}

func unsupported(name string, lineNo int) error {
	return errors.New(errors.ErrCodeUnsupportedConversion,
		"line %d: unsupported gate: %s", lineNo, name)
}

func wrapAdd(err error, lineNo int) error {
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", lineNo)
	}
	return nil
}
