package sim

import (
	"fmt"
	"math"
	"math/cmplx"
)

// NormTol is the floating tolerance for unit-norm checks. Drift below it
// is rounding noise; drift above it is corrected by renormalization before
// any probability is surfaced.
const NormTol = 1e-9

// StateVector holds the 2^n complex amplitudes of an n-qubit register.
// Qubit i corresponds to bit i of the basis index.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewStateVector returns the all-zero basis state |0...0>.
func NewStateVector(numQubits int) *StateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// Clone returns a deep copy of the state.
func (s *StateVector) Clone() *StateVector {
	amps := make([]complex128, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// Norm returns the 2-norm of the amplitude vector.
func (s *StateVector) Norm() float64 {
	sum := 0.0
	for _, a := range s.Amplitudes {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	return math.Sqrt(sum)
}

// Renormalize rescales the amplitudes back to unit norm. A zero vector is
// left untouched.
func (s *StateVector) Renormalize() {
	n := s.Norm()
	if n == 0 {
		return
	}
	inv := complex(1/n, 0)
	for i := range s.Amplitudes {
		s.Amplitudes[i] *= inv
	}
}

// Probabilities returns the Born-rule probability of each basis index.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs
}

// QubitProbability is the marginal outcome distribution of one wire.
type QubitProbability struct {
	P0 float64
	P1 float64
}

// Probability returns the marginal distribution of the given wire:
// P1 sums |amplitude|^2 over every basis index with that bit set.
func (s *StateVector) Probability(wire int) QubitProbability {
	bit := 1 << wire
	var p QubitProbability
	for i, a := range s.Amplitudes {
		pr := real(a)*real(a) + imag(a)*imag(a)
		if i&bit != 0 {
			p.P1 += pr
		} else {
			p.P0 += pr
		}
	}
	return p
}

// Entropy returns the Shannon entropy, in bits, of the basis-index
// probability distribution. This is a readout of the sampling
// distribution, not the von Neumann entropy a tomography result carries.
func (s *StateVector) Entropy() float64 {
	e := 0.0
	for _, a := range s.Amplitudes {
		p := real(a)*real(a) + imag(a)*imag(a)
		if p > 0 {
			e -= p * math.Log2(p)
		}
	}
	return e
}

// ExpectationZZ returns <Z_a Z_b>: +1 weight where bits a and b agree,
// -1 where they differ. Used as a QAOA-style cost readout.
func (s *StateVector) ExpectationZZ(wireA, wireB int) float64 {
	bitA, bitB := 1<<wireA, 1<<wireB
	sum := 0.0
	for i, a := range s.Amplitudes {
		p := real(a)*real(a) + imag(a)*imag(a)
		if (i&bitA != 0) == (i&bitB != 0) {
			sum += p
		} else {
			sum -= p
		}
	}
	return sum
}

// InnerProduct returns <s|o>.
func (s *StateVector) InnerProduct(o *StateVector) complex128 {
	var sum complex128
	for i, a := range s.Amplitudes {
		sum += cmplx.Conj(a) * o.Amplitudes[i]
	}
	return sum
}

// Fidelity returns |<s|o>|^2.
func (s *StateVector) Fidelity(o *StateVector) float64 {
	ip := s.InnerProduct(o)
	return real(ip)*real(ip) + imag(ip)*imag(ip)
}

// applyPaired applies a 2x2 unitary to the target wire, conditioned on
// every control bit being set. For each basis index with the target bit 0
// and all controls 1, the (index, index|targetBit) amplitude pair is
// replaced by the unitary applied to that 2-vector; everything else is
// untouched. This is the single primitive behind every catalog gate
// except SWAP.
func (s *StateVector) applyPaired(u Matrix2, target int, controls []int) {
	tBit := 1 << target
	mask := 0
	for _, c := range controls {
		mask |= 1 << c
	}
	for i := range s.Amplitudes {
		if i&tBit != 0 || i&mask != mask {
			continue
		}
		j := i | tBit
		a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
		s.Amplitudes[i] = u[0][0]*a0 + u[0][1]*a1
		s.Amplitudes[j] = u[1][0]*a0 + u[1][1]*a1
	}
}

// applySwap exchanges two wires by permuting basis amplitudes directly.
func (s *StateVector) applySwap(q1, q2 int) {
	bit1, bit2 := 1<<q1, 1<<q2
	for i := range s.Amplitudes {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i &^ bit1) | bit2
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// applyGate applies one validated gate instance with the given angle.
func (s *StateVector) applyGate(g Gate, theta float64) {
	if g.Kind.TwoQubit() {
		s.applySwap(g.Control, g.Target)
		return
	}
	s.applyPaired(g.Kind.Unitary(theta), g.Target, g.controls())
}

// Overrides substitutes stored rotation angles by gate ID without
// mutating the circuit. Non-rotation gates ignore their entry.
type Overrides map[string]float64

func (o Overrides) theta(g Gate) float64 {
	if v, ok := o[g.ID]; ok && g.Kind.Parameterized() {
		return v
	}
	return g.Theta
}

// Execute runs the circuit against the all-zero register and returns the
// final state. The circuit is validated whole before any gate is applied;
// overrides may be nil.
func Execute(c *Circuit, overrides Overrides) (*StateVector, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s := NewStateVector(c.NumQubits)
	for _, g := range c.Ordered() {
		s.applyGate(g, overrides.theta(g))
	}
	if math.Abs(s.Norm()-1) > NormTol {
		s.Renormalize()
	}
	return s, nil
}

// SweepAngle re-executes the circuit once per angle, overriding the given
// rotation gate, and returns the <Z_a Z_b> landscape. The gate layout is
// never mutated.
func SweepAngle(c *Circuit, gateID string, thetas []float64, wireA, wireB int) ([]float64, error) {
	g := c.GateByID(gateID)
	if g == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchGate, gateID)
	}
	if !g.Kind.Parameterized() {
		return nil, fmt.Errorf("gate %s: %w: %s takes no angle", g.ID, ErrBadAngle, g.Kind)
	}
	out := make([]float64, len(thetas))
	for i, th := range thetas {
		state, err := Execute(c, Overrides{gateID: th})
		if err != nil {
			return nil, err
		}
		out[i] = state.ExpectationZZ(wireA, wireB)
	}
	return out, nil
}
