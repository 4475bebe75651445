package progress

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle   = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// ItemUpdate reports one finished batch item.
type ItemUpdate struct {
	Index  int
	Label  string
	Failed bool
}

// doneMsg signals that the update channel was closed by the producer.
type doneMsg struct{}

// Model is a bubbletea model that tracks batch completion. Updates
// arrive over a channel so the transfer goroutines never touch the UI
// directly.
type Model struct {
	bar     progress.Model
	updates <-chan ItemUpdate

	total     int
	completed int
	failed    int
	lastLabel string
}

func New(total int, updates <-chan ItemUpdate) Model {
	return Model{
		bar:     progress.New(progress.WithDefaultGradient()),
		updates: updates,
		total:   total,
	}
}

func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func waitForUpdate(ch <-chan ItemUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return doneMsg{}
		}
		return u
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ItemUpdate:
		m.completed++
		m.lastLabel = msg.Label
		if msg.Failed {
			m.failed++
		}
		return m, waitForUpdate(m.updates)

	case doneMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder

	frac := 0.0
	if m.total > 0 {
		frac = float64(m.completed) / float64(m.total)
	}

	sb.WriteString(m.bar.ViewAs(frac))
	sb.WriteString(fmt.Sprintf("  %d/%d", m.completed, m.total))
	if m.failed > 0 {
		sb.WriteString("  " + failureStyle.Render(fmt.Sprintf("%d failed", m.failed)))
	} else if m.completed == m.total && m.total > 0 {
		sb.WriteString("  " + successStyle.Render("done"))
	}
	if m.lastLabel != "" {
		sb.WriteString("\n" + labelStyle.Render(m.lastLabel))
	}
	sb.WriteString("\n")

	return sb.String()
}

// Run drives the progress display until the update channel closes. The
// caller owns the channel: send one update per finished item, then
// close it.
func Run(total int, updates <-chan ItemUpdate, out io.Writer) error {
	p := tea.NewProgram(New(total, updates), tea.WithOutput(out))
	_, err := p.Run()
	return err
}
