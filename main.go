package main

import (
	"flag"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"qstep/sim"
)

func main() {
	var (
		qasmPath   = flag.String("qasm", "", "load a circuit from an OpenQASM 2.0 file")
		presetName = flag.String("preset", "bell", "built-in circuit to load when -qasm is not given")
		seed       = flag.Int64("seed", 42, "seed for sampling and noise generation")
		shots      = flag.Int("shots", 2048, "shots per measurement basis for tomography")
		noise      = flag.Float64("noise", 0.05, "per-gate error probability for the noisy comparison run")
		savePath   = flag.String("out", "circuit.qasm", "path Ctrl+S writes the circuit to")
	)
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "qstep",
	})

	var circuit *sim.Circuit
	if *qasmPath != "" {
		src, err := os.ReadFile(*qasmPath)
		if err != nil {
			logger.Fatal("read circuit file", "path", *qasmPath, "err", err)
		}
		circuit, err = ParseQASM(string(src))
		if err != nil {
			logger.Fatal("parse circuit", "path", *qasmPath, "err", err)
		}
		logger.Info("loaded circuit", "path", *qasmPath,
			"qubits", circuit.NumQubits, "gates", len(circuit.Gates))
	} else {
		p := presetByName(*presetName)
		if p == nil {
			logger.Fatal("unknown preset", "name", *presetName)
		}
		circuit = p.build()
		logger.Info("loaded preset", "name", p.name,
			"qubits", circuit.NumQubits, "gates", len(circuit.Gates))
	}

	m, err := newModel(circuit, *shots, *seed, *noise, *savePath)
	if err != nil {
		logger.Fatal("start session", "err", err)
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		logger.Fatal("run program", "err", err)
	}
}
