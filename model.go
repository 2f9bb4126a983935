package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qstep/sim"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusPresets
	focusCondition
	focusTomography
	focusComparison
)

// Model represents the TUI application state.
type Model struct {
	circuit *sim.Circuit
	session *sim.Session

	cursor    int // gate index the breakpoint cursor sits on
	width     int
	height    int
	focus     focus
	statusMsg string // transient status message (e.g. save confirmation)

	// Preset picker state
	menuItem int

	// Condition builder state
	condInput textinput.Model

	// Analysis overlays
	tomo *sim.TomographyResult
	comp *sim.ComparisonResult

	// Run parameters fixed at startup
	shots      int
	seed       int64
	noiseLevel float64
	savePath   string
}

func newModel(c *sim.Circuit, shots int, seed int64, noiseLevel float64, savePath string) (Model, error) {
	session, err := sim.NewSession(c)
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.Placeholder = "q1 > 0.5   or   entropy > 0.9"
	ti.CharLimit = 40
	ti.Width = 34

	return Model{
		circuit:    c,
		session:    session,
		condInput:  ti,
		shots:      shots,
		seed:       seed,
		noiseLevel: noiseLevel,
		savePath:   savePath,
	}, nil
}

// loadCircuit swaps in a new circuit and starts a fresh session over it.
func (m *Model) loadCircuit(c *sim.Circuit) error {
	session, err := sim.NewSession(c)
	if err != nil {
		return err
	}
	m.circuit = c
	m.session = session
	m.cursor = 0
	return nil
}

// syncCursor keeps the breakpoint cursor on the execution frontier after
// a step operation.
func (m *Model) syncCursor() {
	m.cursor = min(m.session.Step(), m.session.Total()-1)
	m.cursor = max(m.cursor, 0)
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "right", "n", " ":
				m.session.StepForward()
				m.syncCursor()
			case "left", "p":
				m.session.StepBackward()
				m.syncCursor()
			case "r":
				m.session.RunUntilBreak()
				m.syncCursor()
			case "R":
				m.session.Reset()
				m.cursor = 0
			case "up", "k", "h":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j", "l":
				if m.cursor < m.session.Total()-1 {
					m.cursor++
				}
			case "b":
				if gates := m.session.Gates(); len(gates) > 0 {
					id := gates[m.cursor].ID
					m.session.ToggleBreakpoint(id)
					if m.session.HasBreakpoint(id) {
						m.statusMsg = "Breakpoint set on " + id
					} else {
						m.statusMsg = "Breakpoint cleared on " + id
					}
				}
			case "c":
				m.condInput.SetValue("")
				m.condInput.Focus()
				m.focus = focusCondition
			case "x":
				for len(m.session.Conditions()) > 0 {
					m.session.RemoveCondition(0)
				}
				m.statusMsg = "Conditions cleared"
			case "t":
				res, err := sim.PerformTomography(m.circuit, m.shots, m.seed)
				if err != nil {
					m.statusMsg = fmt.Sprintf("Tomography error: %v", err)
					break
				}
				m.tomo = res
				m.focus = focusTomography
			case "o":
				res, err := sim.Compare(m.circuit, m.noiseLevel, m.seed)
				if err != nil {
					m.statusMsg = fmt.Sprintf("Comparison error: %v", err)
					break
				}
				m.comp = res
				m.focus = focusComparison
			case "ctrl+s":
				qasm := ToQASM(m.circuit)
				if err := os.WriteFile(m.savePath, []byte(qasm), 0644); err != nil {
					m.statusMsg = fmt.Sprintf("Save error: %v", err)
				} else {
					m.statusMsg = "Saved " + m.savePath
				}
			case "P":
				m.menuItem = 0
				m.focus = focusPresets
			}

		case focusPresets:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(presets)-1 {
					m.menuItem++
				}
			case "enter":
				p := presets[m.menuItem]
				if err := m.loadCircuit(p.build()); err != nil {
					m.statusMsg = fmt.Sprintf("Preset error: %v", err)
				} else {
					m.statusMsg = "Loaded preset " + p.name
				}
				m.focus = focusCircuit
			}

		case focusCondition:
			switch key {
			case "esc":
				m.condInput.Blur()
				m.focus = focusCircuit
			case "enter":
				bc, err := parseCondition(m.condInput.Value())
				if err != nil {
					m.statusMsg = fmt.Sprintf("Condition error: %v", err)
					break
				}
				if err := m.session.AddCondition(bc); err != nil {
					m.statusMsg = fmt.Sprintf("Condition error: %v", err)
					break
				}
				m.statusMsg = "Condition added: " + bc.String()
				m.condInput.Blur()
				m.focus = focusCircuit
			default:
				var cmd tea.Cmd
				m.condInput, cmd = m.condInput.Update(msg)
				cmds = append(cmds, cmd)
			}

		case focusTomography, focusComparison:
			switch key {
			case "esc", "enter", "q":
				m.focus = focusCircuit
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	stateWidth := max(m.width/3, 40)
	circuitWidth := m.width - stateWidth - 4
	controlsHeight := 6
	circuitHeight := max(m.height-controlsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, circuitHeight)
	statePanel := m.renderStatePanel(stateWidth, circuitHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, statePanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	switch m.focus {
	case focusPresets:
		frame = overlayAt(frame, m.renderPresetMenu(), 2, 2)
	case focusCondition:
		frame = overlayAt(frame, m.renderConditionInput(), 2, 2)
	case focusTomography:
		frame = overlayAt(frame, m.renderTomography(), 2, 2)
	case focusComparison:
		frame = overlayAt(frame, m.renderComparison(), 2, 2)
	}

	return frame
}
