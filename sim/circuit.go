package sim

import (
	"errors"
	"fmt"
	"sort"
)

// MaxQubits caps the register size. State vectors are dense, so memory and
// CPU grow as 2^n; twelve qubits is a 4096-amplitude vector, plenty for
// interactive use.
const MaxQubits = 12

// Circuit validation errors. All of them describe caller bugs and are
// recoverable: the circuit is rejected whole, never partially evaluated.
var (
	ErrUnknownKind  = errors.New("unknown gate kind")
	ErrWireRange    = errors.New("wire index out of range")
	ErrControlClash = errors.New("control wire collides with target or other control")
	ErrControlArity = errors.New("wrong number of control wires")
	ErrBadAngle     = errors.New("rotation angle is not finite")
	ErrRegisterSize = errors.New("qubit count out of range")
	ErrNoSuchGate   = errors.New("no gate with that ID")
)

// Circuit is a qubit count plus an ordered collection of gate instances.
// It carries no simulation state; execution lives in the engine.
type Circuit struct {
	NumQubits int
	Gates     []Gate
	MaxSteps  int
}

// NewCircuit returns an empty circuit over numQubits wires.
func NewCircuit(numQubits int) *Circuit {
	return &Circuit{NumQubits: numQubits}
}

// Add appends a gate instance and grows the timeline to cover its step.
func (c *Circuit) Add(g Gate) {
	c.Gates = append(c.Gates, g)
	if g.Step >= c.MaxSteps {
		c.MaxSteps = g.Step + 1
	}
}

// GatesAtStep returns the instances occupying the given time position.
func (c *Circuit) GatesAtStep(step int) []Gate {
	var out []Gate
	for _, g := range c.Gates {
		if g.Step == step {
			out = append(out, g)
		}
	}
	return out
}

// GateByID returns the gate with the given identity, or nil.
func (c *Circuit) GateByID(id string) *Gate {
	for i := range c.Gates {
		if c.Gates[i].ID == id {
			return &c.Gates[i]
		}
	}
	return nil
}

// GateAt returns the gate touching the given step and wire, or nil.
func (c *Circuit) GateAt(step, wire int) *Gate {
	for i := range c.Gates {
		g := &c.Gates[i]
		if g.Step != step {
			continue
		}
		for _, w := range g.wires() {
			if w == wire {
				return g
			}
		}
	}
	return nil
}

// Ordered returns the gates sorted by ascending step. The sort is stable:
// gates sharing a step act on disjoint wires in a valid circuit, so their
// relative order is irrelevant, but keeping insertion order makes runs
// reproducible byte for byte.
func (c *Circuit) Ordered() []Gate {
	out := make([]Gate, len(c.Gates))
	copy(out, c.Gates)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Step < out[j].Step })
	return out
}

// Validate checks the register size and every gate instance. The first
// failure is returned; a circuit that fails validation must not be
// executed.
func (c *Circuit) Validate() error {
	if c.NumQubits < 1 || c.NumQubits > MaxQubits {
		return fmt.Errorf("%w: %d (limit %d)", ErrRegisterSize, c.NumQubits, MaxQubits)
	}
	for _, g := range c.Gates {
		if err := g.validate(c.NumQubits); err != nil {
			return err
		}
	}
	return nil
}
