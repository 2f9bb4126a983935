package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"qstep/sim"
)

// Pre-compiled regexps for the OpenQASM 2.0 subset the debugger loads.
var (
	qregRegex      = regexp.MustCompile(`^qreg\s+(\w+)\[(\d+)\];?$`)
	singleRegex    = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	rotationRegex  = regexp.MustCompile(`^(\w+)\s*\(\s*(` + anglePattern + `)\s*\)\s+q\[(\d+)\];?$`)
	twoQubitRegex  = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	toffoliRegex   = regexp.MustCompile(`^(ccx|toffoli)\s+q\[(\d+)\],\s*q\[(\d+)\],\s*q\[(\d+)\];?$`)
)

// ParseQASM reads the supported OpenQASM 2.0 subset into a circuit. Each
// statement occupies its own time position. Statements outside the gate
// catalog are an error: the debugger must not silently step a circuit
// that differs from the file.
func ParseQASM(src string) (*sim.Circuit, error) {
	c := sim.NewCircuit(1)
	step := 0

	for lineNo, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") ||
			strings.HasPrefix(line, "OPENQASM") || strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") || strings.HasPrefix(line, "barrier") {
			continue
		}

		if m := qregRegex.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[2])
			c.NumQubits = n
			continue
		}

		lower := strings.ToLower(line)

		if m := toffoliRegex.FindStringSubmatch(lower); m != nil {
			c1, _ := strconv.Atoi(m[2])
			c2, _ := strconv.Atoi(m[3])
			tgt, _ := strconv.Atoi(m[4])
			c.Add(sim.NewToffoli(c1, c2, tgt, step))
			step++
			continue
		}

		if m := twoQubitRegex.FindStringSubmatch(lower); m != nil {
			kind, ok := sim.KindFromName(strings.ToUpper(m[1]))
			if !ok {
				return nil, fmt.Errorf("line %d: unsupported gate %q", lineNo+1, m[1])
			}
			q1, _ := strconv.Atoi(m[2])
			q2, _ := strconv.Atoi(m[3])
			c.Add(sim.NewControlled(kind, q1, q2, step))
			step++
			continue
		}

		if m := rotationRegex.FindStringSubmatch(lower); m != nil {
			kind, ok := sim.KindFromName(strings.ToUpper(m[1]))
			if !ok {
				return nil, fmt.Errorf("line %d: unsupported gate %q", lineNo+1, m[1])
			}
			theta, err := parseAngle(m[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
			}
			tgt, _ := strconv.Atoi(m[3])
			c.Add(sim.NewRotation(kind, tgt, step, theta))
			step++
			continue
		}

		if m := singleRegex.FindStringSubmatch(lower); m != nil {
			kind, ok := sim.KindFromName(strings.ToUpper(m[1]))
			if !ok {
				return nil, fmt.Errorf("line %d: unsupported gate %q", lineNo+1, m[1])
			}
			tgt, _ := strconv.Atoi(m[2])
			c.Add(sim.NewGate(kind, tgt, step))
			step++
			continue
		}

		return nil, fmt.Errorf("line %d: cannot parse %q", lineNo+1, line)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ToQASM writes the circuit back out as OpenQASM 2.0, one statement per
// time position in execution order.
func ToQASM(c *sim.Circuit) string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n\n", c.NumQubits)

	for _, g := range c.Ordered() {
		name := strings.ToLower(g.Kind.String())
		switch {
		case g.Kind == sim.KindCCX:
			fmt.Fprintf(&sb, "ccx q[%d], q[%d], q[%d];\n", g.Control, g.Control2, g.Target)
		case g.Control >= 0:
			fmt.Fprintf(&sb, "%s q[%d], q[%d];\n", name, g.Control, g.Target)
		case g.Kind.Parameterized():
			fmt.Fprintf(&sb, "%s(%s) q[%d];\n", name, formatAngle(g.Theta), g.Target)
		default:
			fmt.Fprintf(&sb, "%s q[%d];\n", name, g.Target)
		}
	}
	return sb.String()
}
