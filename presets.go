package main

import (
	"math"

	"qstep/sim"
)

// preset is a built-in demo circuit for the debugger.
type preset struct {
	name  string
	desc  string
	build func() *sim.Circuit
}

var presets = []preset{
	{
		name: "bell",
		desc: "2-qubit Bell pair: H then CNOT",
		build: func() *sim.Circuit {
			c := sim.NewCircuit(2)
			c.Add(sim.NewGate(sim.KindH, 0, 0))
			c.Add(sim.NewControlled(sim.KindCX, 0, 1, 1))
			return c
		},
	},
	{
		name: "ghz",
		desc: "3-qubit GHZ state",
		build: func() *sim.Circuit {
			c := sim.NewCircuit(3)
			c.Add(sim.NewGate(sim.KindH, 0, 0))
			c.Add(sim.NewControlled(sim.KindCX, 0, 1, 1))
			c.Add(sim.NewControlled(sim.KindCX, 1, 2, 2))
			return c
		},
	},
	{
		name: "qaoa",
		desc: "single-edge QAOA slice with a sweepable RZ",
		build: func() *sim.Circuit {
			c := sim.NewCircuit(2)
			c.Add(sim.NewGate(sim.KindH, 0, 0))
			c.Add(sim.NewGate(sim.KindH, 1, 0))
			c.Add(sim.NewControlled(sim.KindCX, 0, 1, 1))
			c.Add(sim.NewRotation(sim.KindRZ, 1, 2, math.Pi/2))
			c.Add(sim.NewControlled(sim.KindCX, 0, 1, 3))
			c.Add(sim.NewRotation(sim.KindRX, 0, 4, math.Pi/4))
			c.Add(sim.NewRotation(sim.KindRX, 1, 4, math.Pi/4))
			return c
		},
	},
	{
		name: "toffoli",
		desc: "Toffoli carry bit over a superposed register",
		build: func() *sim.Circuit {
			c := sim.NewCircuit(3)
			c.Add(sim.NewGate(sim.KindH, 0, 0))
			c.Add(sim.NewGate(sim.KindH, 1, 0))
			c.Add(sim.NewToffoli(0, 1, 2, 1))
			return c
		},
	},
	{
		name: "phases",
		desc: "phase-gate tour: S, T and rotations on one wire",
		build: func() *sim.Circuit {
			c := sim.NewCircuit(1)
			c.Add(sim.NewGate(sim.KindH, 0, 0))
			c.Add(sim.NewGate(sim.KindS, 0, 1))
			c.Add(sim.NewGate(sim.KindT, 0, 2))
			c.Add(sim.NewRotation(sim.KindRZ, 0, 3, math.Pi/3))
			c.Add(sim.NewGate(sim.KindH, 0, 4))
			return c
		},
	},
}

// presetByName returns the named preset, or nil.
func presetByName(name string) *preset {
	for i := range presets {
		if presets[i].name == name {
			return &presets[i]
		}
	}
	return nil
}
