// Package preview shows a layout in the terminal, refreshed on a timer.
package preview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matjam/beambar/internal/render"
	"github.com/matjam/beambar/internal/widget"
)

const DefaultInterval = time.Second

type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type tickMsg time.Time

type Model struct {
	layout   []widget.Widget
	term     *render.Terminal
	interval time.Duration
	help     help.Model

	line   string
	frames uint64
	width  int
}

func New(layout []widget.Widget, term *render.Terminal, interval time.Duration) Model {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return Model{
		layout:   layout,
		term:     term,
		interval: interval,
		help:     help.New(),
	}
}

// Init renders straight away; later frames follow the interval.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return tickMsg(time.Now()) }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tickMsg:
		m.line = m.term.Render(m.layout)
		m.frames++
		return m, m.tick()
	}
	return m, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) View() string {
	line := m.line
	if m.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	}

	status := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("frame %d • every %s • ", m.frames, m.interval))
	return line + "\n" + status + m.help.ShortHelpView([]key.Binding{keys.Quit}) + "\n"
}

func (m Model) Line() string {
	return m.line
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, layout []widget.Widget, term *render.Terminal, interval time.Duration) error {
	p := tea.NewProgram(New(layout, term, interval), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}
