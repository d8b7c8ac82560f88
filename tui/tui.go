// Package tui provides a Bubble Tea terminal host for the QuestScript
// runner: a scrolling transcript viewport, a status bar, and key-driven
// responses to dialogue, choice and battle suspensions.
package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/questscript/engine"
	"github.com/nathoo/questscript/host"
)

// Model is the Bubble Tea model driving one script execution.
type Model struct {
	runner   *engine.Runner
	host     *Host
	scriptID string

	viewport viewport.Model
	lines    []transcriptLine
	pending  pendingKind
	options  int

	width    int
	height   int
	ready    bool
	quitting bool
}

type startedMsg struct{ err error }
type resumedMsg struct{ err error }
type imageDoneMsg struct{}

// New creates a TUI model for the given runner and host.
func New(r *engine.Runner, h *Host, scriptID string) Model {
	return Model{runner: r, host: h, scriptID: scriptID}
}

// Run starts the Bubble Tea program and blocks until the player quits.
func Run(r *engine.Runner, h *Host, scriptID string) error {
	p := tea.NewProgram(New(r, h, scriptID), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init starts the script.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		return startedMsg{err: m.runner.Start(m.scriptID)}
	}
}

// Update handles key presses, window resizes and runner resumptions.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 2 // status bar + hint line
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()
		return m, nil

	case startedMsg:
		return m.afterRunner(msg.err)

	case resumedMsg:
		return m.afterRunner(msg.err)

	case imageDoneMsg:
		if m.pending != pendingImage {
			return m, nil
		}
		m.pending = pendingNone
		return m, m.resume(m.runner.Advance)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		m.runner.Stop()
		m.quitting = true
		return m, tea.Quit

	case "enter":
		if m.pending == pendingDialogue {
			m.pending = pendingNone
			return m, m.resume(m.runner.Advance)
		}

	case "w", "l":
		if m.pending == pendingBattle {
			cb := m.host.takeBattle()
			if cb == nil {
				return m, nil
			}
			outcome := host.Victory
			if key == "l" {
				outcome = host.Defeat
			}
			m.pending = pendingNone
			return m, m.resume(func() error {
				// Delivering the completion resumes execution in place.
				cb(outcome)
				return nil
			})
		}
	}

	if m.pending == pendingChoice {
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= m.options {
			m.pending = pendingNone
			return m, m.resume(func() error { return m.runner.Choose(n - 1) })
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// resume wraps a runner call in a command.
func (m Model) resume(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return resumedMsg{err: fn()}
	}
}

// afterRunner drains host output after a runner interaction and schedules
// the image timer when one is awaited.
func (m Model) afterRunner(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.lines = append(m.lines, transcriptLine{kind: kindWarning, text: err.Error()})
	}

	lines, pend, options, duration := m.host.drain()
	m.lines = append(m.lines, lines...)
	m.pending = pend
	m.options = options

	switch m.runner.Phase() {
	case engine.PhaseStopped:
		m.lines = append(m.lines, transcriptLine{kind: kindSystem, text: "script ended — q to quit"})
		m.pending = pendingNone
	case engine.PhasePaused:
		m.lines = append(m.lines, transcriptLine{kind: kindSystem, text: "script paused, world effects remain — q to quit"})
		m.pending = pendingNone
	}

	m.refreshViewport()

	if m.pending == pendingImage {
		return m, tea.Tick(duration, func(time.Time) tea.Msg { return imageDoneMsg{} })
	}
	return m, nil
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	rendered := make([]string, len(m.lines))
	for i, l := range m.lines {
		rendered[i] = l.render()
	}
	m.viewport.SetContent(strings.Join(rendered, "\n"))
	m.viewport.GotoBottom()
}

// View renders transcript, status bar and input hint.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.hint()
}

func (m Model) renderStatusBar() string {
	left := " " + m.scriptID
	right := m.runner.Phase().String() + " | npcs:" + strconv.Itoa(m.host.NPCs.Len()) + " "
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return styleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) hint() string {
	switch m.pending {
	case pendingDialogue:
		return styleSystem.Render("enter: continue · q: quit")
	case pendingChoice:
		return styleSystem.Render("1-" + strconv.Itoa(m.options) + ": choose · q: quit")
	case pendingImage:
		return styleSystem.Render("…")
	case pendingBattle:
		return styleSystem.Render("w: win · l: lose")
	default:
		return styleSystem.Render("q: quit")
	}
}
