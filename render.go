package main

import (
	"fmt"
	"math/cmplx"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qstep/sim"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// controlSymbol returns the wire symbol for the control qubit of a multi-qubit gate.
func controlSymbol(k sim.Kind) string {
	if k == sim.KindSWAP {
		return "×"
	}
	return "●"
}

// targetSymbol returns the wire symbol for the target qubit of a multi-qubit gate.
func targetSymbol(k sim.Kind) string {
	switch k {
	case sim.KindCZ:
		return "●"
	case sim.KindSWAP:
		return "×"
	default:
		return "⊕"
	}
}

// ──────────────────────────── Cell rendering ────────────────────────────

// cellInfo describes how one gate column intersects one qubit wire.
type cellInfo struct {
	gate      *sim.Gate
	isControl bool
	isTarget  bool
	pass      bool // wire runs between control and target without touching the gate
	vertAbove bool
	vertBelow bool
}

// cellAt computes the cell occupancy for gate g on the given wire.
func cellAt(g *sim.Gate, qubit int) cellInfo {
	info := cellInfo{gate: g}

	minW, maxW := g.Target, g.Target
	touch := map[int]bool{g.Target: true}
	for _, c := range []int{g.Control, g.Control2} {
		if c < 0 {
			continue
		}
		touch[c] = true
		minW = min(minW, c)
		maxW = max(maxW, c)
	}

	switch {
	case qubit == g.Target:
		info.isTarget = true
	case touch[qubit]:
		info.isControl = true
	case qubit > minW && qubit < maxW:
		info.pass = true
	default:
		return cellInfo{}
	}

	info.vertAbove = qubit > minW
	info.vertBelow = qubit < maxW
	return info
}

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW visual characters wide.
func renderCell(info cellInfo, gs lipgloss.Style, highlighted bool) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	// ── Highlighted cell (cursor on this gate's target) ──
	if highlighted {
		bdr := cursorBoxStyle
		innerW := cellW - 2
		inDashL := (innerW - 1) / 2
		inDashR := innerW - inDashL - 1

		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")

		if info.gate.Kind.TwoQubit() || info.gate.Kind == sim.KindCCX {
			sym := targetSymbol(info.gate.Kind)
			mid = bdr.Render("║") + strings.Repeat("─", inDashL) + gs.Render(sym) + strings.Repeat("─", inDashR) + bdr.Render("║")
		} else {
			name := padCenter(info.gate.Kind.String(), gateNameW)
			mid = bdr.Render("║") + "─┤" + gs.Render(name) + "├─" + bdr.Render("║")
		}
		return
	}

	// ── Normal cells ──
	switch {
	case info.gate == nil:
		top = emptyRow
		mid = strings.Repeat("─", cellW)
		bot = emptyRow

	case info.isControl:
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", dashL) + gs.Render(controlSymbol(info.gate.Kind)) + strings.Repeat("─", dashR)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}

	case info.isTarget && (info.gate.Kind.TwoQubit() || info.gate.Kind == sim.KindCCX):
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", dashL) + gs.Render(targetSymbol(info.gate.Kind)) + strings.Repeat("─", dashR)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}

	case info.isTarget:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(info.gate.Kind.String(), gateNameW)
		top = strings.Repeat(" ", margin) + gs.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gs.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gs.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)

	default: // pass-through
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow
	}

	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderCircuitPanel renders the gate timeline, one column per gate in
// execution order. Applied gates are dimmed; breakpointed gates are
// flagged in the header row.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Circuit"))
	gates := m.session.Gates()
	applied := m.session.Step()
	fmt.Fprintf(&sb, "  %s", dimStyle.Render(fmt.Sprintf("gate %d/%d", applied, len(gates))))
	sb.WriteString("\n\n")

	availWidth := width - labelVisualW - 4
	maxCols := max(availWidth/cellW, 1)

	start := 0
	if m.cursor >= maxCols {
		start = m.cursor - maxCols + 1
	}
	end := min(start+maxCols, len(gates))

	if start > 0 {
		fmt.Fprintf(&sb, "  ◀ showing gates %d–%d\n", start, end-1)
	}

	// Header: gate index, breakpoint flag, execution marker.
	header := strings.Repeat(" ", labelVisualW)
	for i := start; i < end; i++ {
		label := fmt.Sprintf("%d", i)
		if m.session.HasBreakpoint(gates[i].ID) {
			header += breakpointStyle.Render(padCenter("●"+label, cellW))
		} else if i == applied {
			header += activeGateStyle.Render(padCenter("▶"+label, cellW))
		} else {
			header += dimStyle.Render(padCenter(label, cellW))
		}
	}
	sb.WriteString(header + "\n")

	for qubit := 0; qubit < m.session.NumQubits(); qubit++ {
		topLine := strings.Repeat(" ", labelVisualW)
		label := fmt.Sprintf("q[%d]", qubit)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for i := start; i < end; i++ {
			g := gates[i]
			gs := gateStyle
			if i < applied {
				gs = doneGateStyle
			}
			hl := i == m.cursor && qubit == g.Target && m.focus == focusCircuit

			top, mid, bot := renderCell(cellAt(&g, qubit), gs, hl)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// Status line
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  %s", m.session.Status())
	if m.session.HitBreakpoint {
		sb.WriteString("  " + haltStyle.Render("■ halted on breakpoint"))
	}
	if m.session.HitCondition {
		sb.WriteString("  " + haltStyle.Render("■ halted on condition"))
	}
	if g := m.session.LastGate(); g != nil {
		fmt.Fprintf(&sb, "  │  last: %s", activeGateStyle.Render(g.ID))
	}
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "  │  %s", activeGateStyle.Render(m.statusMsg))
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// probBar renders a horizontal bar for a probability in [0, 1].
func probBar(p float64) string {
	filled := min(int(p*float64(barW)+0.5), barW)
	return barStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", barW-filled))
}

// renderStatePanel renders the live register: basis-state probabilities,
// per-wire marginals and the distribution entropy at the current step.
func (m Model) renderStatePanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("State"))
	sb.WriteString("\n\n")

	state := m.session.Current()
	n := m.session.NumQubits()
	probs := state.Probabilities()

	// Basis states. Collapse to the non-negligible ones when the register
	// is too large for the panel.
	shown := 0
	for k, p := range probs {
		if len(probs) > 16 && p < 1e-6 {
			continue
		}
		amp := state.Amplitudes[k]
		label := fmt.Sprintf("|%0*b⟩", n, k)
		fmt.Fprintf(&sb, "%s %s %s\n",
			qubitLabelStyle.Render(label),
			probBar(p),
			amplitudeStyle.Render(fmt.Sprintf("%.4f  %+.3f%+.3fi", p, real(amp), imag(amp))))
		shown++
		if shown >= 16 {
			fmt.Fprintf(&sb, "%s\n", dimStyle.Render("…"))
			break
		}
	}

	sb.WriteString("\n")
	for q := 0; q < n; q++ {
		qp := state.Probability(q)
		fmt.Fprintf(&sb, "%s P1=%.4f\n", qubitLabelStyle.Render(fmt.Sprintf("q[%d] ", q)), qp.P1)
	}

	fmt.Fprintf(&sb, "\nentropy %.4f bits   norm %.6f\n", state.Entropy(), state.Norm())

	if bps := m.breakpointList(); len(bps) > 0 {
		sb.WriteString("\n" + breakpointStyle.Render("breakpoints") + "\n")
		for _, id := range bps {
			fmt.Fprintf(&sb, "  ● %s\n", id)
		}
	}
	if conds := m.session.Conditions(); len(conds) > 0 {
		sb.WriteString("\n" + breakpointStyle.Render("conditions") + "\n")
		for i, bc := range conds {
			fmt.Fprintf(&sb, "  %d: %s\n", i, bc)
		}
	}

	return stateStyle.Width(width).Height(height).Render(sb.String())
}

// breakpointList returns the breakpointed gate IDs in execution order.
func (m Model) breakpointList() []string {
	var ids []string
	for _, g := range m.session.Gates() {
		if m.session.HasBreakpoint(g.ID) {
			ids = append(ids, g.ID)
		}
	}
	return ids
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Step:    "))
	sb.WriteString("→/n Forward  ←/p Backward  r Run to break  R Reset  ↑↓/hl Move cursor\n")

	sb.WriteString(activeGateStyle.Render("Debug:   "))
	sb.WriteString("b Breakpoint at cursor  c Add condition  x Drop conditions  ")
	sb.WriteString(activeGateStyle.Render("Analyze: "))
	sb.WriteString("t Tomography  o Noise  ^S Save  P Presets  q Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// renderTomography renders the tomography result overlay.
func (m Model) renderTomography() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("State Tomography"))
	sb.WriteString("\n\n")

	r := m.tomo
	fmt.Fprintf(&sb, "shots per basis: %d\n", r.Shots)
	fmt.Fprintf(&sb, "purity Tr(ρ²):   %.4f\n", r.Purity)
	fmt.Fprintf(&sb, "von Neumann S:   %.4f bits\n\n", r.VonNeumann)

	n := m.session.NumQubits()
	for _, b := range sim.Bases {
		fmt.Fprintf(&sb, "%s basis\n", b)
		for k, p := range r.Probs(b) {
			if p < 1e-3 && len(r.ZProbs) > 8 {
				continue
			}
			fmt.Fprintf(&sb, "  |%0*b⟩ %s %.4f\n", n, k, probBar(p), p)
		}
	}

	if len(r.Density) <= 4 {
		sb.WriteString("\nreconstructed ρ\n")
		for _, row := range r.Density {
			sb.WriteString("  ")
			for _, v := range row {
				fmt.Fprintf(&sb, "%6.3f%+6.3fi  ", real(v), imag(v))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("Esc/Enter Close"))
	return menuBorderStyle.Render(sb.String())
}

// renderComparison renders the ideal-vs-noisy overlay.
func (m Model) renderComparison() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Ideal vs Noisy"))
	sb.WriteString("\n\n")

	r := m.comp
	fmt.Fprintf(&sb, "noise level: %.3f   seed: %d\n", m.noiseLevel, m.seed)
	fmt.Fprintf(&sb, "fidelity |⟨ideal|noisy⟩|²: %.4f\n\n", r.Fidelity)

	n := m.session.NumQubits()
	sb.WriteString(dimStyle.Render(fmt.Sprintf("%-*s %8s %8s %8s %10s", n+4, "state", "ideal", "noisy", "Δ", "|overlap|")))
	sb.WriteString("\n")
	for k := range r.IdealProbs {
		if len(r.IdealProbs) > 16 && r.IdealProbs[k] < 1e-6 && r.NoisyProbs[k] < 1e-6 {
			continue
		}
		fmt.Fprintf(&sb, "%-*s %8.4f %8.4f %+8.4f %10.4f\n",
			n+4, fmt.Sprintf("|%0*b⟩", n, k),
			r.IdealProbs[k], r.NoisyProbs[k], r.Delta[k], cmplx.Abs(r.Overlap[k]))
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("Esc/Enter Close"))
	return menuBorderStyle.Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
// It handles ANSI escape sequences by tracking visible column positions.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// spliceLineAt replaces visible columns starting at position x in bgLine with overlay content.
// It properly handles ANSI escape sequences in the background line.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var prefix strings.Builder
	var suffix strings.Builder

	col := 0
	i := 0
	inEsc := false

	// Collect prefix: everything up to visible column x
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			inEsc = true
			for i < len(runes) {
				prefix.WriteRune(runes[i])
				if inEsc && runes[i] != '\x1b' && runes[i] != '[' && ((runes[i] >= 'A' && runes[i] <= 'Z') || (runes[i] >= 'a' && runes[i] <= 'z')) {
					inEsc = false
					i++
					break
				}
				i++
			}
		} else {
			prefix.WriteRune(runes[i])
			col++
			i++
		}
	}

	// Pad prefix if bg line is shorter than x
	for col < x {
		prefix.WriteRune(' ')
		col++
	}

	// Skip over ovWidth visible columns in the background
	skipped := 0
	for i < len(runes) && skipped < ovWidth {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				i++
				if i > 0 && runes[i-1] != '\x1b' && runes[i-1] != '[' && ((runes[i-1] >= 'A' && runes[i-1] <= 'Z') || (runes[i-1] >= 'a' && runes[i-1] <= 'z')) {
					break
				}
			}
		} else {
			skipped++
			i++
		}
	}

	// Collect suffix: rest of the background line
	for i < len(runes) {
		suffix.WriteRune(runes[i])
		i++
	}

	return prefix.String() + overlay + suffix.String()
}

// visibleLen returns the number of visible (non-ANSI-escape) characters in a string.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}
