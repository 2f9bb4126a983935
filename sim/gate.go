// Package sim implements a small state-vector quantum circuit simulator:
// a gate catalog, a step-ordered circuit model, an execution engine with
// per-qubit readouts, Born-rule measurement and tomography, noise
// comparison, and a steppable debug session.
package sim

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Matrix2 is a dense 2x2 complex matrix, row major.
type Matrix2 [2][2]complex128

// Mul returns the matrix product m * o.
func (m Matrix2) Mul(o Matrix2) Matrix2 {
	var r Matrix2
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j]
		}
	}
	return r
}

// Dagger returns the conjugate transpose of m.
func (m Matrix2) Dagger() Matrix2 {
	return Matrix2{
		{cmplx.Conj(m[0][0]), cmplx.Conj(m[1][0])},
		{cmplx.Conj(m[0][1]), cmplx.Conj(m[1][1])},
	}
}

// Kind identifies a gate in the catalog. The set is closed: every switch
// over Kind in this package covers all values, so adding a kind without
// teaching the engine about it fails loudly in tests rather than silently
// at runtime.
type Kind int

const (
	KindH Kind = iota
	KindX
	KindY
	KindZ
	KindS
	KindSdg
	KindT
	KindTdg
	KindRX
	KindRY
	KindRZ
	KindCX
	KindCZ
	KindCCX
	KindSWAP

	numKinds
)

var kindNames = [numKinds]string{
	"H", "X", "Y", "Z", "S", "SDG", "T", "TDG",
	"RX", "RY", "RZ", "CX", "CZ", "CCX", "SWAP",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// KindFromName maps a gate name (as used in QASM and display) back to its
// Kind. The second result is false for names outside the catalog.
func KindFromName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Parameterized reports whether the kind takes a rotation angle.
func (k Kind) Parameterized() bool {
	switch k {
	case KindRX, KindRY, KindRZ:
		return true
	}
	return false
}

// NumControls returns how many control wires the kind requires.
func (k Kind) NumControls() int {
	switch k {
	case KindCX, KindCZ:
		return 1
	case KindCCX:
		return 2
	}
	return 0
}

// TwoQubit reports whether the kind is an intrinsic two-qubit gate rather
// than a controlled single-qubit gate. The engine applies these as basis
// permutations instead of conditional 2x2 updates.
func (k Kind) TwoQubit() bool {
	return k == KindSWAP
}

// Unitary returns the 2x2 unitary for the kind. For the controlled family
// it is the base unitary applied when every control bit is set (X for
// CX/CCX, Z for CZ). Kinds without a stored parameter ignore theta, so a
// stray override degrades to the identity angle instead of failing.
// SWAP has no 2x2 form and returns the identity; the engine never uses it.
func (k Kind) Unitary(theta float64) Matrix2 {
	h := complex(1/math.Sqrt2, 0)
	switch k {
	case KindH:
		return Matrix2{{h, h}, {h, -h}}
	case KindX, KindCX, KindCCX:
		return Matrix2{{0, 1}, {1, 0}}
	case KindY:
		return Matrix2{{0, -1i}, {1i, 0}}
	case KindZ, KindCZ:
		return Matrix2{{1, 0}, {0, -1}}
	case KindS:
		return Matrix2{{1, 0}, {0, 1i}}
	case KindSdg:
		return Matrix2{{1, 0}, {0, -1i}}
	case KindT:
		return Matrix2{{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}}
	case KindTdg:
		return Matrix2{{1, 0}, {0, cmplx.Exp(complex(0, -math.Pi/4))}}
	case KindRX:
		c := complex(math.Cos(theta/2), 0)
		js := complex(0, -math.Sin(theta/2))
		return Matrix2{{c, js}, {js, c}}
	case KindRY:
		c := complex(math.Cos(theta/2), 0)
		s := complex(math.Sin(theta/2), 0)
		return Matrix2{{c, -s}, {s, c}}
	case KindRZ:
		p := cmplx.Exp(complex(0, theta/2))
		return Matrix2{{cmplx.Conj(p), 0}, {0, p}}
	case KindSWAP:
		return Matrix2{{1, 0}, {0, 1}}
	}
	return Matrix2{{1, 0}, {0, 1}}
}

// Gate is a single gate instance placed on the circuit. Control and
// Control2 are -1 when unused; for SWAP, Control holds the second wire.
type Gate struct {
	ID       string
	Kind     Kind
	Target   int
	Control  int
	Control2 int
	Step     int     // position in circuit timeline
	Theta    float64 // rotation angle in radians, rotation kinds only
}

func gateID(k Kind, target, step int) string {
	return fmt.Sprintf("%s_q%d_s%d", k, target, step)
}

// NewGate builds a single-qubit gate instance.
func NewGate(k Kind, target, step int) Gate {
	return Gate{ID: gateID(k, target, step), Kind: k, Target: target, Control: -1, Control2: -1, Step: step}
}

// NewRotation builds a parameterized rotation gate instance.
func NewRotation(k Kind, target, step int, theta float64) Gate {
	g := NewGate(k, target, step)
	g.Theta = theta
	return g
}

// NewControlled builds a singly-controlled gate (CX, CZ) or a SWAP, where
// control is the second wire.
func NewControlled(k Kind, control, target, step int) Gate {
	g := NewGate(k, target, step)
	g.Control = control
	return g
}

// NewToffoli builds a doubly-controlled X.
func NewToffoli(control1, control2, target, step int) Gate {
	g := NewGate(KindCCX, target, step)
	g.Control = control1
	g.Control2 = control2
	return g
}

// controls returns the control wires actually set on the gate.
func (g Gate) controls() []int {
	switch {
	case g.Control >= 0 && g.Control2 >= 0:
		return []int{g.Control, g.Control2}
	case g.Control >= 0:
		return []int{g.Control}
	}
	return nil
}

// wires returns every wire the gate touches.
func (g Gate) wires() []int {
	return append(g.controls(), g.Target)
}

// validate checks the instance against the register size and the kind's
// arity. A failing gate poisons the whole circuit: the engine rejects it
// up front rather than skipping it, since downstream probability
// semantics assume every listed gate was applied.
func (g Gate) validate(numQubits int) error {
	if g.Kind < 0 || g.Kind >= numKinds {
		return fmt.Errorf("gate %s: %w", g.ID, ErrUnknownKind)
	}
	for _, w := range g.wires() {
		if w < 0 || w >= numQubits {
			return fmt.Errorf("gate %s: wire %d: %w (register size %d)", g.ID, w, ErrWireRange, numQubits)
		}
	}
	wantControls := g.Kind.NumControls()
	if g.Kind.TwoQubit() {
		wantControls = 1 // second wire rides in the Control slot
	}
	if len(g.controls()) != wantControls {
		return fmt.Errorf("gate %s: %w: want %d control wire(s), have %d", g.ID, ErrControlArity, wantControls, len(g.controls()))
	}
	if g.Control >= 0 && g.Control == g.Target ||
		g.Control2 >= 0 && (g.Control2 == g.Target || g.Control2 == g.Control) {
		return fmt.Errorf("gate %s: %w", g.ID, ErrControlClash)
	}
	if g.Kind.Parameterized() && (math.IsNaN(g.Theta) || math.IsInf(g.Theta, 0)) {
		return fmt.Errorf("gate %s: %w", g.ID, ErrBadAngle)
	}
	return nil
}
