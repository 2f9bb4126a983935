package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKinds = []Kind{
	KindH, KindX, KindY, KindZ, KindS, KindSdg, KindT, KindTdg,
	KindRX, KindRY, KindRZ, KindCX, KindCZ, KindCCX, KindSWAP,
}

func requireIdentity(t *testing.T, m Matrix2, msgAndArgs ...any) {
	t.Helper()
	want := Matrix2{{1, 0}, {0, 1}}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			require.InDelta(t, real(want[i][j]), real(m[i][j]), 1e-12, msgAndArgs...)
			require.InDelta(t, imag(want[i][j]), imag(m[i][j]), 1e-12, msgAndArgs...)
		}
	}
}

func TestUnitaryProperty(t *testing.T) {
	angles := []float64{0, math.Pi / 7, math.Pi / 2, math.Pi, 2 * math.Pi, -1.3}
	for _, k := range allKinds {
		for _, theta := range angles {
			u := k.Unitary(theta)
			requireIdentity(t, u.Mul(u.Dagger()), "U*Udag != I for %s(theta=%g)", k, theta)
		}
	}
}

func TestUnparameterizedKindsIgnoreAngle(t *testing.T) {
	for _, k := range allKinds {
		if k.Parameterized() {
			continue
		}
		assert.Equal(t, k.Unitary(0), k.Unitary(1.234), "%s should ignore its angle", k)
	}
}

func TestKindArity(t *testing.T) {
	assert.Equal(t, 1, KindCX.NumControls())
	assert.Equal(t, 1, KindCZ.NumControls())
	assert.Equal(t, 2, KindCCX.NumControls())
	assert.Equal(t, 0, KindH.NumControls())
	assert.True(t, KindSWAP.TwoQubit())
	assert.False(t, KindCX.TwoQubit())

	for _, k := range allKinds {
		want := k == KindRX || k == KindRY || k == KindRZ
		assert.Equal(t, want, k.Parameterized(), "kind %s", k)
	}
}

func TestKindNameRoundTrip(t *testing.T) {
	for _, k := range allKinds {
		got, ok := KindFromName(k.String())
		require.True(t, ok, "name %q", k.String())
		assert.Equal(t, k, got)
	}
	_, ok := KindFromName("BOGUS")
	assert.False(t, ok)
}

func TestGateIDs(t *testing.T) {
	g := NewRotation(KindRX, 2, 5, math.Pi/2)
	assert.Equal(t, "RX_q2_s5", g.ID)
	assert.Equal(t, -1, g.Control)
	assert.Equal(t, -1, g.Control2)

	cx := NewControlled(KindCX, 0, 1, 3)
	assert.Equal(t, "CX_q1_s3", cx.ID)
	assert.Equal(t, []int{0}, cx.controls())

	ccx := NewToffoli(0, 1, 2, 0)
	assert.Equal(t, []int{0, 1}, ccx.controls())
	assert.Equal(t, []int{0, 1, 2}, ccx.wires())
}
