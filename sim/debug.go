package sim

import (
	"errors"
	"fmt"
)

// Status is the coarse phase of a debug session, derived from the step
// index.
type Status int

const (
	NotStarted Status = iota
	InProgress
	Complete
)

func (st Status) String() string {
	switch st {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	case Complete:
		return "complete"
	}
	return "?"
}

// BreakKind selects what a break condition inspects.
type BreakKind int

const (
	BreakProbability BreakKind = iota // marginal P1 of one wire
	BreakEntropy                      // Shannon entropy of the distribution
)

func (k BreakKind) String() string {
	if k == BreakEntropy {
		return "entropy"
	}
	return "probability"
}

// CompareOp is the direction of a break-condition comparison.
type CompareOp int

const (
	Above CompareOp = iota
	Below
)

func (o CompareOp) String() string {
	if o == Below {
		return "below"
	}
	return "above"
}

// BreakCondition halts stepwise execution when a numeric predicate over
// the current state becomes true. Qubit is only meaningful for
// BreakProbability.
type BreakCondition struct {
	Kind      BreakKind
	Qubit     int
	Threshold float64
	Op        CompareOp
}

func (bc BreakCondition) String() string {
	if bc.Kind == BreakProbability {
		return fmt.Sprintf("P1(q%d) %s %.3f", bc.Qubit, bc.Op, bc.Threshold)
	}
	return fmt.Sprintf("entropy %s %.3f", bc.Op, bc.Threshold)
}

func (bc BreakCondition) evaluate(s *StateVector) bool {
	var v float64
	switch bc.Kind {
	case BreakProbability:
		v = s.Probability(bc.Qubit).P1
	case BreakEntropy:
		v = s.Entropy()
	}
	if bc.Op == Above {
		return v > bc.Threshold
	}
	return v < bc.Threshold
}

// ErrBadCondition rejects malformed break conditions at registration.
var ErrBadCondition = errors.New("invalid break condition")

// Snapshot is one history entry: the state after a gate was applied, the
// gate itself, and the distribution entropy at that point.
type Snapshot struct {
	State   *StateVector
	Gate    Gate
	Entropy float64
}

// Session steps a fixed gate sequence forward and backward over the same
// register, halting on breakpointed gate identities or break conditions.
// A session is owned by a single caller; it is not safe for concurrent
// use.
type Session struct {
	numQubits int
	ordered   []Gate
	step      int
	history   []Snapshot
	initial   *StateVector

	breakpoints map[string]struct{}
	conditions  []BreakCondition

	// Transient halt flags, cleared at the start of the next step call.
	HitBreakpoint bool
	HitCondition  bool
}

// NewSession validates the circuit and wraps it in a fresh session at
// step zero.
func NewSession(c *Circuit) (*Session, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		numQubits:   c.NumQubits,
		ordered:     c.Ordered(),
		initial:     NewStateVector(c.NumQubits),
		breakpoints: make(map[string]struct{}),
	}, nil
}

// Step returns the current step index in [0, Total()].
func (s *Session) Step() int { return s.step }

// Total returns the gate count N.
func (s *Session) Total() int { return len(s.ordered) }

// Status reports the session phase.
func (s *Session) Status() Status {
	switch {
	case s.step == 0:
		return NotStarted
	case s.step == len(s.ordered):
		return Complete
	}
	return InProgress
}

// Gates returns the execution-ordered gate sequence.
func (s *Session) Gates() []Gate { return s.ordered }

// NumQubits returns the register size.
func (s *Session) NumQubits() int { return s.numQubits }

// Current returns the state after the last applied gate, or the initial
// all-zero state before any step. Callers must treat it as read-only.
func (s *Session) Current() *StateVector {
	if len(s.history) == 0 {
		return s.initial
	}
	return s.history[len(s.history)-1].State
}

// History returns the per-step snapshots taken so far.
func (s *Session) History() []Snapshot { return s.history }

// LastGate returns the most recently applied gate, or nil at step zero.
func (s *Session) LastGate() *Gate {
	if len(s.history) == 0 {
		return nil
	}
	return &s.history[len(s.history)-1].Gate
}

// StepForward applies the next gate, snapshots the result, and evaluates
// breakpoints and conditions against the new state. No-op once Complete.
func (s *Session) StepForward() {
	s.HitBreakpoint = false
	s.HitCondition = false
	if s.step >= len(s.ordered) {
		return
	}
	g := s.ordered[s.step]
	next := s.Current().Clone()
	next.applyGate(g, g.Theta)
	s.history = append(s.history, Snapshot{State: next, Gate: g, Entropy: next.Entropy()})
	s.step++

	if _, ok := s.breakpoints[g.ID]; ok {
		s.HitBreakpoint = true
	}
	for _, bc := range s.conditions {
		if bc.evaluate(next) {
			s.HitCondition = true
			break
		}
	}
}

// StepBackward pops the last snapshot, restoring the previous state
// bit for bit. No-op at step zero. Stepping forward again recomputes and
// re-appends; there is no redo branch to maintain.
func (s *Session) StepBackward() {
	s.HitBreakpoint = false
	s.HitCondition = false
	if s.step == 0 {
		return
	}
	s.history = s.history[:len(s.history)-1]
	s.step--
}

// RunUntilBreak steps forward until a breakpoint or condition hits, or
// the session completes.
func (s *Session) RunUntilBreak() {
	for s.Status() != Complete {
		s.StepForward()
		if s.HitBreakpoint || s.HitCondition {
			return
		}
	}
}

// ToggleBreakpoint flips the breakpoint on a gate identity.
func (s *Session) ToggleBreakpoint(gateID string) {
	if _, ok := s.breakpoints[gateID]; ok {
		delete(s.breakpoints, gateID)
		return
	}
	s.breakpoints[gateID] = struct{}{}
}

// HasBreakpoint reports whether the gate identity is breakpointed.
func (s *Session) HasBreakpoint(gateID string) bool {
	_, ok := s.breakpoints[gateID]
	return ok
}

// AddCondition registers a break condition. Probability conditions must
// name a wire inside the register.
func (s *Session) AddCondition(bc BreakCondition) error {
	if bc.Kind != BreakProbability && bc.Kind != BreakEntropy {
		return fmt.Errorf("%w: kind %d", ErrBadCondition, bc.Kind)
	}
	if bc.Kind == BreakProbability && (bc.Qubit < 0 || bc.Qubit >= s.numQubits) {
		return fmt.Errorf("%w: qubit %d: %w", ErrBadCondition, bc.Qubit, ErrWireRange)
	}
	s.conditions = append(s.conditions, bc)
	return nil
}

// RemoveCondition drops the condition at index i; out-of-range indices
// are ignored.
func (s *Session) RemoveCondition(i int) {
	if i < 0 || i >= len(s.conditions) {
		return
	}
	s.conditions = append(s.conditions[:i], s.conditions[i+1:]...)
}

// Conditions returns the registered break conditions.
func (s *Session) Conditions() []BreakCondition { return s.conditions }

// Reset rewinds the session to step zero, discarding history and halt
// flags. Breakpoints and conditions are debugging configuration, not
// execution state, and survive.
func (s *Session) Reset() {
	s.step = 0
	s.history = nil
	s.initial = NewStateVector(s.numQubits)
	s.HitBreakpoint = false
	s.HitCondition = false
}
