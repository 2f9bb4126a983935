package sim

import (
	"math"
	"math/cmplx"
)

// hermitianEigenvalues computes the eigenvalues of a Hermitian matrix by
// cyclic Jacobi rotations. The matrices here are density matrices of a
// handful of qubits, so a dependency-free O(n^3)-per-sweep solver is
// plenty; convergence for Hermitian input is quadratic once the
// off-diagonal mass is small.
func hermitianEigenvalues(m [][]complex128) []float64 {
	n := len(m)
	a := make([][]complex128, n)
	for i := range m {
		a[i] = make([]complex128, n)
		copy(a[i], m[i])
	}

	const maxSweeps = 60
	for sweep := 0; sweep < maxSweeps; sweep++ {
		off := 0.0
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				z := a[p][q]
				off += real(z)*real(z) + imag(z)*imag(z)
			}
		}
		if off < 1e-24 {
			break
		}
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				rotate(a, p, q)
			}
		}
	}

	eig := make([]float64, n)
	for i := 0; i < n; i++ {
		eig[i] = real(a[i][i])
	}
	return eig
}

// rotate zeroes a[p][q] with the unitary G = V*R restricted to the (p, q)
// plane, where V = diag(e^{i*alpha}, 1) strips the phase of a[p][q] and R
// is the real Jacobi rotation for the resulting symmetric 2x2 block.
func rotate(a [][]complex128, p, q int) {
	z := a[p][q]
	absz := cmplx.Abs(z)
	if absz < 1e-15 {
		a[p][q] = 0
		a[q][p] = 0
		return
	}
	phase := z / complex(absz, 0)
	app := real(a[p][p])
	aqq := real(a[q][q])

	// Small-|t| root of t^2 - 2*tau*t - 1 = 0 for R = [[c,-s],[s,c]].
	tau := (aqq - app) / (2 * absz)
	var t float64
	if tau >= 0 {
		t = tau - math.Sqrt(tau*tau+1)
	} else {
		t = tau + math.Sqrt(tau*tau+1)
	}
	c := 1 / math.Sqrt(1+t*t)
	s := t * c

	gpp := phase * complex(c, 0)
	gpq := phase * complex(-s, 0)
	gqp := complex(s, 0)
	gqq := complex(c, 0)

	n := len(a)
	for i := 0; i < n; i++ {
		aip, aiq := a[i][p], a[i][q]
		a[i][p] = aip*gpp + aiq*gqp
		a[i][q] = aip*gpq + aiq*gqq
	}
	for j := 0; j < n; j++ {
		apj, aqj := a[p][j], a[q][j]
		a[p][j] = cmplx.Conj(gpp)*apj + cmplx.Conj(gqp)*aqj
		a[q][j] = cmplx.Conj(gpq)*apj + cmplx.Conj(gqq)*aqj
	}
	// Clean up the rotated pivot: it is zero analytically.
	a[p][q] = 0
	a[q][p] = 0
}
