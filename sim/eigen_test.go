package sim

import (
	"math/cmplx"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sortedEigenvalues(m [][]complex128) []float64 {
	eig := hermitianEigenvalues(m)
	sort.Float64s(eig)
	return eig
}

func TestEigenDiagonal(t *testing.T) {
	m := [][]complex128{
		{3, 0, 0},
		{0, -1, 0},
		{0, 0, 2},
	}
	eig := sortedEigenvalues(m)
	assert.InDelta(t, -1, eig[0], 1e-10)
	assert.InDelta(t, 2, eig[1], 1e-10)
	assert.InDelta(t, 3, eig[2], 1e-10)
}

func TestEigenPauliX(t *testing.T) {
	m := [][]complex128{{0, 1}, {1, 0}}
	eig := sortedEigenvalues(m)
	assert.InDelta(t, -1, eig[0], 1e-10)
	assert.InDelta(t, 1, eig[1], 1e-10)
}

func TestEigenComplexHermitian(t *testing.T) {
	// Pauli Y shifted by the identity: eigenvalues 0 and 2.
	m := [][]complex128{{1, -1i}, {1i, 1}}
	eig := sortedEigenvalues(m)
	assert.InDelta(t, 0, eig[0], 1e-10)
	assert.InDelta(t, 2, eig[1], 1e-10)
}

func TestEigenRealSymmetric(t *testing.T) {
	m := [][]complex128{{2, 1}, {1, 2}}
	eig := sortedEigenvalues(m)
	assert.InDelta(t, 1, eig[0], 1e-10)
	assert.InDelta(t, 3, eig[1], 1e-10)
}

func TestEigenBellProjector(t *testing.T) {
	state, err := Execute(bellCircuit(), nil)
	assert.NoError(t, err)

	dim := len(state.Amplitudes)
	rho := make([][]complex128, dim)
	for j := range rho {
		rho[j] = make([]complex128, dim)
		for k := range rho[j] {
			rho[j][k] = state.Amplitudes[j] * cmplx.Conj(state.Amplitudes[k])
		}
	}

	eig := sortedEigenvalues(rho)
	for _, v := range eig[:dim-1] {
		assert.InDelta(t, 0, v, 1e-10)
	}
	assert.InDelta(t, 1, eig[dim-1], 1e-10)

	purity, entropy := spectrumStats(rho)
	assert.InDelta(t, 1, purity, 1e-9)
	assert.InDelta(t, 0, entropy, 1e-9)
}
