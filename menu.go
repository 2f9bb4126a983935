package main

import (
	"fmt"
	"strconv"
	"strings"

	"qstep/sim"
)

// parseCondition turns a short textual rule into a break condition.
// Supported forms:
//
//	q<N> > 0.5    halt when P(wire N reads 1) rises above the threshold
//	q<N> < 0.1    halt when it falls below
//	entropy > 0.9 halt on the distribution entropy (alias: s)
func parseCondition(input string) (sim.BreakCondition, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(fields) != 3 {
		return sim.BreakCondition{}, fmt.Errorf("want <subject> <op> <threshold>, e.g. \"q1 > 0.5\"")
	}

	var bc sim.BreakCondition
	switch subj := fields[0]; {
	case subj == "entropy" || subj == "s":
		bc.Kind = sim.BreakEntropy
	case strings.HasPrefix(subj, "q"):
		wire, err := strconv.Atoi(subj[1:])
		if err != nil {
			return sim.BreakCondition{}, fmt.Errorf("bad wire %q", subj)
		}
		bc.Kind = sim.BreakProbability
		bc.Qubit = wire
	default:
		return sim.BreakCondition{}, fmt.Errorf("unknown subject %q", subj)
	}

	switch fields[1] {
	case ">":
		bc.Op = sim.Above
	case "<":
		bc.Op = sim.Below
	default:
		return sim.BreakCondition{}, fmt.Errorf("operator must be > or <")
	}

	thr, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return sim.BreakCondition{}, fmt.Errorf("bad threshold %q", fields[2])
	}
	bc.Threshold = thr

	return bc, nil
}

// renderPresetMenu renders the floating circuit-picker popup.
func (m Model) renderPresetMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Load Preset"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 46)))
	sb.WriteString("\n")

	for i, p := range presets {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-10s", p.name)))
			sb.WriteString(menuNormalStyle.Render(p.desc))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-10s", p.name)))
			sb.WriteString(dimStyle.Render(p.desc))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}

// renderConditionInput renders the break-condition builder overlay.
func (m Model) renderConditionInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Add Break Condition"))
	sb.WriteString("\n\n")
	sb.WriteString(m.condInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Forms: q1 > 0.5   entropy > 0.9   q0 < 0.1"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("⏎ Add  Esc Cancel"))
	return menuBorderStyle.Render(sb.String())
}
