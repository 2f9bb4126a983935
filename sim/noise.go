package sim

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
)

// ErrNoiseRange rejects noise probabilities outside [0, 1].
var ErrNoiseRange = errors.New("noise level must be in [0, 1]")

// ComparisonResult holds the diagnostics of an ideal-vs-noisy run.
type ComparisonResult struct {
	IdealProbs []float64    // Born probabilities of the ideal final state
	NoisyProbs []float64    // Born probabilities of the perturbed final state
	Delta      []float64    // NoisyProbs - IdealProbs, elementwise
	Overlap    []complex128 // conj(ideal_k) * noisy_k per basis index
	Fidelity   float64      // |<ideal|noisy>|^2
}

// Compare runs the circuit once ideally and once with stochastic noise:
// after each gate application the target wire suffers, with probability
// noiseLevel, an extra bit-flip or phase-kick (chosen by the same seeded
// generator). noiseLevel 0 reproduces the ideal run exactly.
func Compare(c *Circuit, noiseLevel float64, seed int64) (*ComparisonResult, error) {
	if noiseLevel < 0 || noiseLevel > 1 || math.IsNaN(noiseLevel) {
		return nil, fmt.Errorf("%w: %v", ErrNoiseRange, noiseLevel)
	}
	ideal, err := Execute(c, nil)
	if err != nil {
		return nil, err
	}
	noisy := executeNoisy(c, noiseLevel, rand.New(rand.NewSource(seed)))

	res := &ComparisonResult{
		IdealProbs: ideal.Probabilities(),
		NoisyProbs: noisy.Probabilities(),
	}
	res.Delta = make([]float64, len(res.IdealProbs))
	res.Overlap = make([]complex128, len(res.IdealProbs))
	var ip complex128
	for k := range res.Delta {
		res.Delta[k] = res.NoisyProbs[k] - res.IdealProbs[k]
		term := cmplx.Conj(ideal.Amplitudes[k]) * noisy.Amplitudes[k]
		res.Overlap[k] = term
		ip += term
	}
	res.Fidelity = real(ip)*real(ip) + imag(ip)*imag(ip)
	return res, nil
}

// executeNoisy assumes the circuit was validated by the ideal run.
func executeNoisy(c *Circuit, noiseLevel float64, rng *rand.Rand) *StateVector {
	s := NewStateVector(c.NumQubits)
	x := KindX.Unitary(0)
	z := KindZ.Unitary(0)
	for _, g := range c.Ordered() {
		s.applyGate(g, g.Theta)
		if rng.Float64() < noiseLevel {
			if rng.Intn(2) == 0 {
				s.applyPaired(x, g.Target, nil)
			} else {
				s.applyPaired(z, g.Target, nil)
			}
		}
	}
	if math.Abs(s.Norm()-1) > NormTol {
		s.Renormalize()
	}
	return s
}
