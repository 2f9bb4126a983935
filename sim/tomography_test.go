package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureIsDeterministicForSeed(t *testing.T) {
	state, err := Execute(bellCircuit(), nil)
	require.NoError(t, err)

	a := SampleCounts(state.Clone(), 200, rand.New(rand.NewSource(42)))
	b := SampleCounts(state.Clone(), 200, rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b)
}

func TestMeasureFollowsBornRule(t *testing.T) {
	c := NewCircuit(1)
	c.Add(NewGate(KindH, 0, 0))
	state, err := Execute(c, nil)
	require.NoError(t, err)

	counts := SampleCounts(state, 10000, rand.New(rand.NewSource(1)))
	assert.InDelta(t, 5000, counts[0], 500, "|+> should split evenly")
	assert.Equal(t, 10000, counts[0]+counts[1])
}

func TestMeasureOnBellNeverYieldsOddParity(t *testing.T) {
	state, err := Execute(bellCircuit(), nil)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		outcome := Measure(state, rng)
		assert.Contains(t, []int{0b00, 0b11}, outcome)
	}
}

func TestTomographyRejectsZeroShots(t *testing.T) {
	_, err := PerformTomography(bellCircuit(), 0, 1)
	require.ErrorIs(t, err, ErrNoShots)
	_, err = PerformTomography(bellCircuit(), -5, 1)
	require.ErrorIs(t, err, ErrNoShots)
}

func TestTomographyRejectsInvalidCircuit(t *testing.T) {
	c := NewCircuit(2)
	c.Add(NewGate(KindH, 7, 0))
	_, err := PerformTomography(c, 100, 1)
	require.ErrorIs(t, err, ErrWireRange)
}

func TestTomographyDeterministic(t *testing.T) {
	a, err := PerformTomography(bellCircuit(), 500, 99)
	require.NoError(t, err)
	b, err := PerformTomography(bellCircuit(), 500, 99)
	require.NoError(t, err)
	assert.Equal(t, a, b, "identical inputs must give identical results")

	c, err := PerformTomography(bellCircuit(), 500, 100)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "a different seed should resample")
}

func TestTomographyPlusState(t *testing.T) {
	c := NewCircuit(1)
	c.Add(NewGate(KindH, 0, 0))

	res, err := PerformTomography(c, 20000, 7)
	require.NoError(t, err)

	// |+> has <X> = 1: the X-basis distribution collapses onto outcome 0.
	assert.InDelta(t, 1.0, res.XProbs[0], 1e-12)
	assert.InDelta(t, 0.5, res.ZProbs[0], 0.03)
	assert.InDelta(t, 0.5, res.YProbs[0], 0.03)

	assert.InDelta(t, 0.5, real(res.Density[0][1]), 0.03, "coherence term")
	assert.Greater(t, res.Purity, 0.97)
	assert.Less(t, res.VonNeumann, 0.15)
}

func TestTomographyBellPure(t *testing.T) {
	res, err := PerformTomography(bellCircuit(), 20000, 3)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, res.ZProbs[0b00], 0.03)
	assert.InDelta(t, 0.5, res.ZProbs[0b11], 0.03)
	assert.InDelta(t, 0.0, res.ZProbs[0b01], 1e-12)
	assert.InDelta(t, 0.0, res.ZProbs[0b10], 1e-12)

	assert.InDelta(t, 1.0, res.Purity, 1e-6, "noiseless reconstruction is pure")
	assert.InDelta(t, 0.0, res.VonNeumann, 1e-6)

	// Trace of the reconstructed matrix is 1.
	var tr complex128
	for i := range res.Density {
		tr += res.Density[i][i]
	}
	assert.InDelta(t, 1.0, real(tr), 1e-9)
	assert.InDelta(t, 0.0, imag(tr), 1e-9)
}

// TestTomographyVarianceShrinksWithShots checks the estimator property
// directly: across many seeds, the mean squared error of an empirical
// probability falls as the shot count grows.
func TestTomographyVarianceShrinksWithShots(t *testing.T) {
	c := NewCircuit(1)
	c.Add(NewRotation(KindRY, 0, 0, math.Pi/3)) // P1 = sin^2(pi/6) = 0.25

	mse := func(shots int) float64 {
		sum := 0.0
		const trials = 20
		for seed := int64(0); seed < trials; seed++ {
			res, err := PerformTomography(c, shots, seed)
			require.NoError(t, err)
			d := res.ZProbs[1] - 0.25
			sum += d * d
		}
		return sum / trials
	}

	assert.Less(t, mse(50000), mse(500))
}

func TestRotateBasisMapsEigenstates(t *testing.T) {
	// Y +1 eigenstate (|0> + i|1>)/sqrt(2), built as H then S.
	c := NewCircuit(1)
	c.Add(NewGate(KindH, 0, 0))
	c.Add(NewGate(KindS, 0, 1))
	state, err := Execute(c, nil)
	require.NoError(t, err)

	rotated := rotateBasis(state, BasisY)
	assert.InDelta(t, 1.0, real(rotated.Amplitudes[0])*real(rotated.Amplitudes[0])+
		imag(rotated.Amplitudes[0])*imag(rotated.Amplitudes[0]), 1e-12,
		"Y eigenstate must read out as outcome 0")

	// The source state is untouched.
	assert.InDelta(t, 1/math.Sqrt2, real(state.Amplitudes[0]), 1e-12)
}
