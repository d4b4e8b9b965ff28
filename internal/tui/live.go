// Package tui provides a live terminal view of a running simulation.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/triadlab/triadsim/internal/resonance"
)

const (
	graphWidth      = 70
	graphHeight     = 10
	historyCapacity = 600
)

var (
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model holds the live simulation and its display buffers.
type Model struct {
	sys       resonance.System
	stepper   resonance.Stepper
	state     resonance.Vector
	initial   resonance.Vector
	t, dt     float64
	running   bool
	modelName string

	history   [resonance.NumFields][]float64
	params    map[string]float64
	paramKeys []string
	selected  int
}

func NewModel(sys resonance.System, stepper resonance.Stepper, x0 resonance.Vector, dt float64, modelName string) Model {
	params := make(map[string]float64)
	if c, ok := sys.(resonance.Configurable); ok {
		for k, v := range c.Params() {
			params[k] = v
		}
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Model{
		sys:       sys,
		stepper:   stepper,
		state:     x0.Clone(),
		initial:   x0.Clone(),
		dt:        dt,
		running:   true,
		modelName: modelName,
		params:    params,
		paramKeys: keys,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) reset() {
	m.state = m.initial.Clone()
	m.t = 0
	for i := range m.history {
		m.history[i] = nil
	}
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	newVal := m.params[key] * factor
	if c, ok := m.sys.(resonance.Configurable); ok {
		if err := c.SetParam(key, newVal); err == nil {
			m.params[key] = newVal
		}
	}
}

func (m *Model) step() {
	// A few substeps per frame keeps wall-clock speed reasonable
	// without a coarse dt.
	for i := 0; i < 4; i++ {
		m.state = m.stepper.Step(m.sys, m.state, m.t, m.dt)
		m.t += m.dt
	}

	fields := m.sys.Fields(m.state)
	for i := 0; i < resonance.NumFields; i++ {
		m.history[i] = append(m.history[i], fields[i])
		if len(m.history[i]) > historyCapacity {
			m.history[i] = m.history[i][1:]
		}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("triadsim live — %s", m.modelName)))
	b.WriteString("\n")

	fields := m.sys.Fields(m.state)
	for i := 0; i < resonance.NumFields; i++ {
		b.WriteString(labelStyle.Render(resonance.FieldNames[i]))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%+.4f", fields[i])))
		b.WriteString("  ")
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("t"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.2f", m.t)))
	if !m.running {
		b.WriteString(valueStyle.Render("  [paused]"))
	}
	b.WriteString("\n")

	if len(m.history[0]) > 1 {
		graph := asciigraph.PlotMany(
			[][]float64{m.history[0], m.history[1], m.history[2]},
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.SeriesColors(asciigraph.Green, asciigraph.Magenta, asciigraph.Blue),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	if len(m.paramKeys) > 0 {
		b.WriteString("\n")
		for i, key := range m.paramKeys {
			line := fmt.Sprintf("%s = %.4f", key, m.params[key])
			if i == m.selected {
				b.WriteString(activeParamStyle.Render("> " + line))
			} else {
				b.WriteString(valueStyle.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(helpStyle.Render("space pause · r reset · tab select param · ↑/↓ adjust · q quit"))

	return b.String()
}
