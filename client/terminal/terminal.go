// Package terminal is a text frontend for consoles without a display server.
// Terminals only report key presses, so the hold keys are tracked through
// their auto-repeat.
package terminal

import (
	"fmt"
	"strings"
	"time"

	"github.com/cbodonnell/suitcase/pkg/effects"
	"github.com/cbodonnell/suitcase/pkg/game"
	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/cbodonnell/suitcase/pkg/input"
	"github.com/cbodonnell/suitcase/pkg/log"
	"github.com/cbodonnell/suitcase/pkg/render"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RefreshInterval is how often the screen and the hold keys are polled.
const RefreshInterval = 100 * time.Millisecond

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	footerStyle = lipgloss.NewStyle().Faint(true)
	screenStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			Width(46)
	offStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	redStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	bluStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
)

// Console is the part of the game manager the terminal needs.
type Console interface {
	Snapshot() types.Snapshot
	Rules() game.Rules
	Submit(ev input.Event) error
}

type tickMsg time.Time

type Model struct {
	console  Console
	panel    *effects.Panel
	tracker  *input.HoldTracker
	now      func() time.Time
	start    time.Time
	snapshot types.Snapshot
}

type NewModelOptions struct {
	Console Console
	Panel   *effects.Panel
	// HoldTimeout overrides input.DefaultHoldTimeout.
	HoldTimeout time.Duration
	Now         func() time.Time
}

func NewModel(opts NewModelOptions) *Model {
	m := &Model{
		console: opts.Console,
		panel:   opts.Panel,
		tracker: input.NewHoldTracker(input.NewKeymap(), opts.HoldTimeout),
		now:     opts.Now,
	}
	if m.panel == nil {
		m.panel = effects.NewPanel()
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.start = m.now()
	m.snapshot = m.console.Snapshot()
	return m
}

// Run blocks until the user quits with ctrl+c.
func Run(m *Model) error {
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run terminal: %v", err)
	}
	return nil
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if name := KeyName(msg); name != "" {
			m.submit(m.tracker.Press(name, m.now()))
		}
	case tickMsg:
		m.submit(m.tracker.Expire(time.Time(msg)))
		m.snapshot = m.console.Snapshot()
		return m, tick()
	}
	return m, nil
}

// KeyName maps a terminal key onto a console key. Escape stands in for the
// menu key and space for the signal button.
func KeyName(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyEnter:
		return input.KeyEnter
	case tea.KeyBackspace, tea.KeyDelete:
		return input.KeyDelete
	case tea.KeyEsc:
		return input.KeyHash
	case tea.KeySpace:
		return input.KeyStar
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			return input.NormalizeKey(string(msg.Runes))
		}
	}
	return ""
}

func (m *Model) View() string {
	v := render.Build(m.snapshot.Session, m.console.Rules())

	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Title))
	if v.Status != "" {
		style := statusStyle
		if v.Alert {
			style = alertStyle
		}
		b.WriteString("\n\n" + style.Render(v.Status))
	}
	if len(v.Lines) > 0 {
		b.WriteString("\n\n" + strings.Join(v.Lines, "\n"))
	}
	if v.Footer != "" {
		b.WriteString("\n\n" + footerStyle.Render(v.Footer))
	}

	return screenStyle.Render(b.String()) + "\n" + m.panelLine(m.now().Sub(m.start)) + "\n" +
		footerStyle.Render("0-9 A-D keys | enter: blue | backspace: red | esc: menu | space: signal | ctrl+c: quit")
}

func (m *Model) panelLine(at time.Duration) string {
	state := m.panel.State()
	lamp := func(ch effects.Channel, on lipgloss.Style) string {
		if state.Lit(ch, at) {
			return on.Render("●")
		}
		return offStyle.Render("●")
	}

	c := state.StripeAt(at)
	stripe := offStyle.Render(strings.Repeat("▬", 20))
	if c != effects.Black {
		hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
		stripe = lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(strings.Repeat("▬", 20))
	}
	return " " + lamp(effects.ChannelRed, redStyle) + " " + lamp(effects.ChannelBlue, bluStyle) + "  " + stripe
}

func (m *Model) submit(events []input.Event) {
	for _, ev := range events {
		if err := m.console.Submit(ev); err != nil {
			log.Error("Failed to submit %s: %v", ev, err)
		}
	}
}
