// Package tui runs the dice simulation in a terminal with a top-down arena
// view.
package tui

import (
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/dicesim/internal/config"
	"github.com/san-kum/dicesim/internal/input"
	"github.com/san-kum/dicesim/internal/metrics"
	"github.com/san-kum/dicesim/internal/sim"
)

// terminals report key presses only, so every arrow becomes a down/up tap.
var keyCodes = map[string]int{
	"up":    input.KeyUp,
	"down":  input.KeyDown,
	"left":  input.KeyLeft,
	"right": input.KeyRight,
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	clock  *sim.Clock
	view   *ArenaView
	energy *metrics.KineticEnergy
	settle *metrics.SettleTime

	paused bool
	speed  int
	err    error

	width  int
	height int
}

func newModel(clock *sim.Clock, view *ArenaView) model {
	energy := metrics.NewKineticEnergy()
	settle := metrics.NewSettleTime()
	clock.AddMetric(energy)
	clock.AddMetric(settle)
	view.Attach(clock.State())

	return model{
		clock:  clock,
		view:   view,
		energy: energy,
		settle: settle,
		speed:  1,
		width:  80,
		height: 24,
	}
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.Resize(msg.Width-4, msg.Height-10)
		return m, nil
	case tickMsg:
		if m.err != nil {
			return m, nil
		}
		if !m.paused {
			for i := 0; i < m.speed; i++ {
				if err := m.clock.Tick(); err != nil {
					m.err = err
					return m, nil
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	tracker := m.clock.State().Tracker
	key := msg.String()

	if code, ok := keyCodes[key]; ok {
		tracker.KeyDown(code)
		tracker.KeyUp(code)
		return m, nil
	}

	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "enter":
		tracker.RequestThrow()
	case "p":
		m.paused = !m.paused
	case "+", "=":
		if m.speed < 8 {
			m.speed *= 2
		}
	case "-":
		if m.speed > 1 {
			m.speed /= 2
		}
	}
	return m, nil
}

func (m model) View() string {
	s := m.clock.State()
	sel := s.Tracker.Selection()

	var b strings.Builder

	status := StatusRolling.Render("● ROLLING")
	if s.Settled() {
		status = StatusSettled.Render("● SETTLED")
	}
	if m.paused {
		status = Subtle.Render("○ PAUSED")
	}
	header := fmt.Sprintf("%s  %s  %s  %s",
		Title.Render("dicesim"),
		MetricValue.Render(fmt.Sprintf("%d × d%d", sel.Count, sel.Faces())),
		status,
		Subtle.Render(fmt.Sprintf("t=%.2fs  %dx", m.clock.Time(), m.speed)),
	)
	b.WriteString(header + "\n\n")

	b.WriteString(Panel.Render(m.view.String()) + "\n")

	b.WriteString(MetricLabel.Render("target  ") + MetricValue.Render(joinInts(s.Dispatcher.LastTargets())) + "\n")
	b.WriteString(MetricLabel.Render("showing ") + MetricValue.Render(joinInts(s.Values())) + "\n")

	energy := MetricLabel.Render("energy  ") + Sparkline(tail(m.energy.Trace(), 40), 40)
	energy += Subtle.Render(fmt.Sprintf(" %.1f", m.energy.Value()))
	if m.settle.Settled() {
		energy += Subtle.Render(fmt.Sprintf("  settled in %.2fs", m.settle.Value()))
	}
	b.WriteString(energy + "\n")

	if m.err != nil {
		b.WriteString(ErrorText.Render(m.err.Error()) + "\n")
	}

	b.WriteString(KeyHint.Render("↑/↓ count  ←/→ type  space throw  p pause  +/- speed  q quit"))

	return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
}

func tail(vals []float64, n int) []float64 {
	if len(vals) <= n {
		return vals
	}
	return vals[len(vals)-n:]
}

func joinInts(vals []int) string {
	if len(vals) == 0 {
		return "-"
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}

// Run builds a simulation from cfg and drives it in the terminal.
func Run(cfg *config.Config, logger *log.Logger) error {
	view := NewArenaView(60, 20, cfg.Arena.Width, cfg.Arena.Depth)
	clock, err := sim.Build(cfg, view, nil, logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newModel(clock, view), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(model); ok && m.err != nil {
		return m.err
	}
	return nil
}
