package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugCircuit() *Circuit {
	c := NewCircuit(3)
	c.Add(NewGate(KindH, 0, 0))
	c.Add(NewControlled(KindCX, 0, 1, 1))
	c.Add(NewRotation(KindRY, 2, 2, 0.8))
	c.Add(NewToffoli(0, 1, 2, 3))
	return c
}

func TestSessionRoundTrip(t *testing.T) {
	s, err := NewSession(debugCircuit())
	require.NoError(t, err)

	initial := append([]complex128(nil), s.Current().Amplitudes...)
	n := s.Total()
	require.Equal(t, 4, n)

	for i := 0; i < n; i++ {
		s.StepForward()
	}
	require.Equal(t, Complete, s.Status())
	require.Len(t, s.History(), n)

	for i := 0; i < n; i++ {
		s.StepBackward()
	}
	assert.Equal(t, NotStarted, s.Status())
	assert.Equal(t, initial, s.Current().Amplitudes, "round trip must restore the state bit for bit")
}

func TestSessionStepNoOps(t *testing.T) {
	s, err := NewSession(debugCircuit())
	require.NoError(t, err)

	s.StepBackward()
	assert.Equal(t, 0, s.Step(), "backward at start is a no-op")

	for i := 0; i < s.Total()+3; i++ {
		s.StepForward()
	}
	assert.Equal(t, s.Total(), s.Step(), "forward past the end is a no-op")
	assert.Equal(t, Complete, s.Status())
}

func TestSessionStatusPhases(t *testing.T) {
	s, err := NewSession(debugCircuit())
	require.NoError(t, err)

	assert.Equal(t, NotStarted, s.Status())
	s.StepForward()
	assert.Equal(t, InProgress, s.Status())
	for s.Status() != Complete {
		s.StepForward()
	}
	assert.Equal(t, Complete, s.Status())
}

func TestSessionSnapshotsCarryEntropy(t *testing.T) {
	s, err := NewSession(debugCircuit())
	require.NoError(t, err)

	s.StepForward() // H on wire 0
	require.Len(t, s.History(), 1)
	snap := s.History()[0]
	assert.Equal(t, KindH, snap.Gate.Kind)
	assert.InDelta(t, 1.0, snap.Entropy, 1e-12)
	assert.Equal(t, snap.Gate, *s.LastGate())
}

func TestRunUntilBreakpoint(t *testing.T) {
	s, err := NewSession(debugCircuit())
	require.NoError(t, err)

	s.ToggleBreakpoint("CX_q1_s1")
	s.RunUntilBreak()

	assert.Equal(t, 2, s.Step(), "halt after the breakpointed gate applies")
	assert.True(t, s.HitBreakpoint)
	assert.False(t, s.HitCondition)

	// The flag clears on the next step.
	s.StepForward()
	assert.False(t, s.HitBreakpoint)
}

func TestRunUntilBreakCompletesWithoutBreakpoints(t *testing.T) {
	s, err := NewSession(debugCircuit())
	require.NoError(t, err)

	s.RunUntilBreak()
	assert.Equal(t, Complete, s.Status())
	assert.False(t, s.HitBreakpoint)
	assert.False(t, s.HitCondition)
}

func TestProbabilityCondition(t *testing.T) {
	s, err := NewSession(debugCircuit())
	require.NoError(t, err)

	// Wire 1 stays at P1 = 0 until the CX entangles it.
	require.NoError(t, s.AddCondition(BreakCondition{
		Kind: BreakProbability, Qubit: 1, Threshold: 0.4, Op: Above,
	}))
	s.RunUntilBreak()

	assert.Equal(t, 2, s.Step())
	assert.True(t, s.HitCondition)
	assert.False(t, s.HitBreakpoint)
}

func TestEntropyCondition(t *testing.T) {
	s, err := NewSession(debugCircuit())
	require.NoError(t, err)

	require.NoError(t, s.AddCondition(BreakCondition{
		Kind: BreakEntropy, Threshold: 0.9, Op: Above,
	}))
	s.RunUntilBreak()

	// The very first Hadamard pushes the distribution to one full bit.
	assert.Equal(t, 1, s.Step())
	assert.True(t, s.HitCondition)
}

func TestAddConditionValidation(t *testing.T) {
	s, err := NewSession(debugCircuit())
	require.NoError(t, err)

	err = s.AddCondition(BreakCondition{Kind: BreakProbability, Qubit: 9, Threshold: 0.5, Op: Above})
	require.ErrorIs(t, err, ErrBadCondition)
	require.ErrorIs(t, err, ErrWireRange)

	err = s.AddCondition(BreakCondition{Kind: BreakKind(42), Threshold: 0.5, Op: Above})
	require.ErrorIs(t, err, ErrBadCondition)
}

func TestRemoveCondition(t *testing.T) {
	s, err := NewSession(debugCircuit())
	require.NoError(t, err)

	require.NoError(t, s.AddCondition(BreakCondition{Kind: BreakEntropy, Threshold: 0.5, Op: Above}))
	require.NoError(t, s.AddCondition(BreakCondition{Kind: BreakEntropy, Threshold: 1.5, Op: Above}))

	s.RemoveCondition(0)
	require.Len(t, s.Conditions(), 1)
	assert.Equal(t, 1.5, s.Conditions()[0].Threshold)

	s.RemoveCondition(5) // out of range: ignored
	assert.Len(t, s.Conditions(), 1)
}

func TestResetKeepsDebugConfiguration(t *testing.T) {
	s, err := NewSession(debugCircuit())
	require.NoError(t, err)

	s.ToggleBreakpoint("RY_q2_s2")
	require.NoError(t, s.AddCondition(BreakCondition{Kind: BreakEntropy, Threshold: 2.5, Op: Above}))
	s.RunUntilBreak()
	require.NotEqual(t, 0, s.Step())

	s.Reset()
	assert.Equal(t, 0, s.Step())
	assert.Equal(t, NotStarted, s.Status())
	assert.Empty(t, s.History())
	assert.False(t, s.HitBreakpoint)
	assert.False(t, s.HitCondition)
	assert.True(t, s.HasBreakpoint("RY_q2_s2"), "breakpoints survive a reset")
	assert.Len(t, s.Conditions(), 1, "conditions survive a reset")

	// The session still runs after a reset.
	s.RunUntilBreak()
	assert.Equal(t, 3, s.Step())
	assert.True(t, s.HitBreakpoint)
}

func TestToggleBreakpoint(t *testing.T) {
	s, err := NewSession(debugCircuit())
	require.NoError(t, err)

	s.ToggleBreakpoint("H_q0_s0")
	assert.True(t, s.HasBreakpoint("H_q0_s0"))
	s.ToggleBreakpoint("H_q0_s0")
	assert.False(t, s.HasBreakpoint("H_q0_s0"))
}

func TestSessionRejectsInvalidCircuit(t *testing.T) {
	c := NewCircuit(2)
	c.Add(NewGate(KindX, 5, 0))
	_, err := NewSession(c)
	require.ErrorIs(t, err, ErrWireRange)
}
