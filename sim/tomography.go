package sim

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand"
)

// ErrNoShots rejects tomography with a non-positive shot count: an empty
// sample is a caller contract violation, not a valid empirical result.
var ErrNoShots = errors.New("shot count must be positive")

// Basis is a single-qubit measurement basis.
type Basis int

const (
	BasisZ Basis = iota
	BasisX
	BasisY
)

func (b Basis) String() string {
	switch b {
	case BasisZ:
		return "Z"
	case BasisX:
		return "X"
	case BasisY:
		return "Y"
	}
	return "?"
}

// Bases lists the measured bases in reporting order.
var Bases = []Basis{BasisZ, BasisX, BasisY}

// TomographyResult is the reconstruction of a state from repeated
// basis-rotated measurement.
type TomographyResult struct {
	Density    [][]complex128 // 2^n x 2^n reconstructed density matrix
	Purity     float64        // Tr(rho^2)
	VonNeumann float64        // -Tr(rho log2 rho), in bits
	ZProbs     []float64      // empirical basis-index probabilities per basis
	XProbs     []float64
	YProbs     []float64
	Shots      int
}

// Probs returns the empirical probability vector for a basis.
func (r *TomographyResult) Probs(b Basis) []float64 {
	switch b {
	case BasisX:
		return r.XProbs
	case BasisY:
		return r.YProbs
	}
	return r.ZProbs
}

// rotateBasis returns a copy of the state rotated so a Z measurement
// reads out the given basis: H per qubit for X, Sdg then H per qubit for
// Y, identity for Z. Outcome bit 0 maps to the +1 eigenvalue.
func rotateBasis(s *StateVector, b Basis) *StateVector {
	out := s.Clone()
	if b == BasisZ {
		return out
	}
	sdg := KindSdg.Unitary(0)
	h := KindH.Unitary(0)
	for q := 0; q < out.NumQubits; q++ {
		if b == BasisY {
			out.applyPaired(sdg, q, nil)
		}
		out.applyPaired(h, q, nil)
	}
	return out
}

// empiricalProbs samples the state shots times and normalizes the counts.
func empiricalProbs(s *StateVector, shots int, rng *rand.Rand) []float64 {
	counts := SampleCounts(s, shots, rng)
	probs := make([]float64, len(counts))
	for i, c := range counts {
		probs[i] = float64(c) / float64(shots)
	}
	return probs
}

// wireExpectations collapses a basis-index probability vector into the
// per-wire Pauli expectation <P_q> = p(bit 0) - p(bit 1).
func wireExpectations(probs []float64, numQubits int) []float64 {
	ex := make([]float64, numQubits)
	for q := 0; q < numQubits; q++ {
		bit := 1 << q
		for i, p := range probs {
			if i&bit == 0 {
				ex[q] += p
			} else {
				ex[q] -= p
			}
		}
	}
	return ex
}

// PerformTomography executes the circuit, measures the final state shots
// times in each of the Z, X and Y bases with a generator seeded once, and
// reconstructs an approximate density matrix plus purity and von Neumann
// entropy. Identical inputs produce identical outputs.
func PerformTomography(c *Circuit, shots int, seed int64) (*TomographyResult, error) {
	if shots <= 0 {
		return nil, ErrNoShots
	}
	state, err := Execute(c, nil)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))

	res := &TomographyResult{Shots: shots}
	res.ZProbs = empiricalProbs(rotateBasis(state, BasisZ), shots, rng)
	res.XProbs = empiricalProbs(rotateBasis(state, BasisX), shots, rng)
	res.YProbs = empiricalProbs(rotateBasis(state, BasisY), shots, rng)

	n := c.NumQubits
	exX := wireExpectations(res.XProbs, n)
	exY := wireExpectations(res.YProbs, n)
	if n == 1 {
		exZ := wireExpectations(res.ZProbs, n)
		res.Density = singleQubitDensity(exX[0], exY[0], exZ[0])
	} else {
		res.Density = pureStateDensity(res.ZProbs, exX, exY, n)
	}

	res.Purity, res.VonNeumann = spectrumStats(res.Density)
	return res, nil
}

// singleQubitDensity is the exact Pauli inversion
// rho = (I + <X>X + <Y>Y + <Z>Z) / 2.
func singleQubitDensity(x, y, z float64) [][]complex128 {
	return [][]complex128{
		{complex((1+z)/2, 0), complex(x/2, -y/2)},
		{complex(x/2, y/2), complex((1-z)/2, 0)},
	}
}

// pureStateDensity estimates |psi><psi| for multi-qubit registers:
// amplitude magnitudes come from the joint Z-basis probabilities (which
// keep correlations exact), phases from the per-qubit X/Y azimuths.
// Three global bases cannot determine mixed Pauli strings such as X(x)Z,
// so this is the approximation the measurement model permits.
func pureStateDensity(zProbs []float64, exX, exY []float64, numQubits int) [][]complex128 {
	phi := make([]float64, numQubits)
	for q := range phi {
		if exX[q] != 0 || exY[q] != 0 {
			phi[q] = math.Atan2(exY[q], exX[q])
		}
	}

	dim := len(zProbs)
	amp := make([]complex128, dim)
	norm := 0.0
	for k, p := range zProbs {
		if p <= 0 {
			continue
		}
		ph := 0.0
		for q := 0; q < numQubits; q++ {
			if k&(1<<q) != 0 {
				ph += phi[q]
			}
		}
		amp[k] = cmplx.Rect(math.Sqrt(p), ph)
		norm += p
	}
	if norm > 0 {
		inv := complex(1/math.Sqrt(norm), 0)
		for k := range amp {
			amp[k] *= inv
		}
	}

	rho := make([][]complex128, dim)
	for j := range rho {
		rho[j] = make([]complex128, dim)
		for k := range rho[j] {
			rho[j][k] = amp[j] * cmplx.Conj(amp[k])
		}
	}
	return rho
}

// spectrumStats returns Tr(rho^2) and -Tr(rho log2 rho) from the
// eigenvalues of the Hermitian matrix. Sampling noise can push small
// eigenvalues slightly negative; they are clamped and the spectrum
// renormalized before taking logs.
func spectrumStats(rho [][]complex128) (purity, entropy float64) {
	eig := hermitianEigenvalues(rho)
	total := 0.0
	for i, v := range eig {
		if v < 0 {
			eig[i] = 0
			continue
		}
		total += v
	}
	for _, v := range eig {
		if total > 0 {
			v /= total
		}
		purity += v * v
		if v > 1e-12 {
			entropy -= v * math.Log2(v)
		}
	}
	return purity, entropy
}
