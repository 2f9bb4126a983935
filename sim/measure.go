package sim

import (
	"math"
	"math/rand"
)

// Measure samples one basis index under the Born rule using the injected
// generator. The state is renormalized first if accumulated rounding has
// pushed it off unit norm, so the cumulative scan always covers [0, 1).
func Measure(s *StateVector, rng *rand.Rand) int {
	if math.Abs(s.Norm()-1) > NormTol {
		s.Renormalize()
	}
	r := rng.Float64()
	acc := 0.0
	for i, a := range s.Amplitudes {
		acc += real(a)*real(a) + imag(a)*imag(a)
		if r < acc {
			return i
		}
	}
	// r landed in the rounding sliver above the cumulative sum.
	return len(s.Amplitudes) - 1
}

// SampleCounts draws shots independent measurements and returns the
// per-basis-index histogram.
func SampleCounts(s *StateVector, shots int, rng *rand.Rand) []int {
	counts := make([]int, len(s.Amplitudes))
	for i := 0; i < shots; i++ {
		counts[Measure(s, rng)]++
	}
	return counts
}
