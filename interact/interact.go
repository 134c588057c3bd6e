// Package interact is the terminal front end of a live auralization session. Moving
// the listener requests a new simulation tick while audio keeps playing the previous
// response.
package interact

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fogleman/pt/pt"

	"github.com/jdginn/go-auralizer/audio"
	"github.com/jdginn/go-auralizer/auralizer"
	"github.com/jdginn/go-auralizer/room"
)

var (
	docStyle   = lipgloss.NewStyle().Margin(1, 2)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(14)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

const refreshInterval = 250 * time.Millisecond

// Simulation is the simulation side of a session
type Simulation interface {
	Tick(listener room.Listener) (auralizer.TickResult, error)
	Dropped() uint64
}

// Monitor is the audio side of a session
type Monitor interface {
	Stats() audio.Stats
	Deadline() time.Duration
}

type tickMsg struct {
	listener room.Listener
	result   auralizer.TickResult
	err      error
}

type refreshMsg time.Time

type model struct {
	sim      Simulation
	monitor  Monitor
	listener room.Listener
	step     float64

	traced  room.Listener
	result  auralizer.TickResult
	err     error
	dropped uint64
	stats   audio.Stats

	help help.Model
}

func newModel(sim Simulation, monitor Monitor, listener room.Listener, step float64) model {
	return model{
		sim:      sim,
		monitor:  monitor,
		listener: listener,
		step:     step,
		help:     help.New(),
	}
}

func (m model) requestTick() tea.Cmd {
	listener := m.listener
	return func() tea.Msg {
		result, err := m.sim.Tick(listener)
		return tickMsg{listener: listener, result: result, err: err}
	}
}

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.requestTick(), refresh())
}

func (m model) move(d pt.Vector) (tea.Model, tea.Cmd) {
	m.listener.Position = m.listener.Position.Add(d.MulScalar(m.step))
	return m, m.requestTick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, keys.Forward):
			return m.move(room.V(0, 1, 0))
		case key.Matches(msg, keys.Back):
			return m.move(room.V(0, -1, 0))
		case key.Matches(msg, keys.Left):
			return m.move(room.V(-1, 0, 0))
		case key.Matches(msg, keys.Right):
			return m.move(room.V(1, 0, 0))
		case key.Matches(msg, keys.Up):
			return m.move(room.V(0, 0, 1))
		case key.Matches(msg, keys.Down):
			return m.move(room.V(0, 0, -1))
		case key.Matches(msg, keys.Retrace):
			return m, m.requestTick()
		}
	case tea.WindowSizeMsg:
		h, _ := docStyle.GetFrameSize()
		m.help.Width = msg.Width - h
	case tickMsg:
		m.dropped = m.sim.Dropped()
		if errors.Is(msg.err, auralizer.ErrTickInProgress) {
			// The running tick retraces when it finds the listener has moved
			return m, nil
		}
		m.err = msg.err
		if msg.err == nil {
			m.traced = msg.listener
			m.result = msg.result
		}
		if msg.listener.Position != m.listener.Position {
			return m, m.requestTick()
		}
	case refreshMsg:
		m.stats = m.monitor.Stats()
		return m, refresh()
	}
	return m, nil
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

func formatVector(v pt.Vector) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}

func (m model) View() string {
	sim := []string{
		row("listener", formatVector(m.listener.Position)),
		row("traced at", formatVector(m.traced.Position)),
		row("tick", fmt.Sprintf("%d", m.result.Tick)),
		row("paths", fmt.Sprintf("%d", len(m.result.Paths))),
		row("energy", fmt.Sprintf("%.4g", m.result.Response.Sum())),
		row("trace time", m.result.Elapsed.Round(time.Millisecond).String()),
		row("dropped", fmt.Sprintf("%d", m.dropped)),
	}
	if m.err != nil {
		sim = append(sim, warnStyle.Render(m.err.Error()))
	}

	deadline := m.monitor.Deadline()
	process := fmt.Sprintf("%v / %v (peak %v)", m.stats.LastProcess.Round(time.Microsecond), deadline, m.stats.PeakProcess.Round(time.Microsecond))
	if m.stats.PeakProcess > deadline {
		process = warnStyle.Render(process)
	}
	aud := []string{
		row("playing tick", fmt.Sprintf("%d", m.stats.Tick)),
		row("callbacks", fmt.Sprintf("%d", m.stats.Callbacks)),
		row("blocks", fmt.Sprintf("%d", m.stats.Blocks)),
		row("xruns", fmt.Sprintf("%d", m.stats.Xruns)),
		row("overruns", fmt.Sprintf("%d", m.stats.Overruns)),
		row("failures", fmt.Sprintf("%d", m.stats.Failures)),
		row("process", process),
	}

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(titleStyle.Render("Simulation")+"\n"+strings.Join(sim, "\n")),
		panelStyle.Render(titleStyle.Render("Audio")+"\n"+strings.Join(aud, "\n")),
	)
	return docStyle.Render(panels + "\n" + m.help.View(keys))
}

// Run blocks until the user quits
func Run(sim Simulation, monitor Monitor, listener room.Listener, step float64) error {
	p := tea.NewProgram(newModel(sim, monitor, listener, step), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interactive session: %w", err)
	}
	return nil
}
