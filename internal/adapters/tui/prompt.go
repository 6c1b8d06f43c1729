package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/taskpulse/internal/domain"
)

// updatePrompt answers the oldest queued completion event. Prompts are
// modal: nothing else reacts to keys until the queue is empty.
func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	evt := m.prompts[0]

	switch key := msg.String(); key {
	case "left", "h", "shift+tab":
		if m.choice > 0 {
			m.choice--
		}
	case "right", "l", "tab":
		if m.choice < len(evt.Options)-1 {
			m.choice++
		}
	case "enter", " ":
		m.resolve(evt, m.choice)
	case "esc":
		// Dismiss with the option that starts nothing.
		m.resolve(evt, len(evt.Options)-1)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if idx := int(key[0] - '1'); idx < len(evt.Options) {
				m.resolve(evt, idx)
			}
		}
	}
	return m, nil
}

func (m *Model) resolve(evt domain.CompletionEvent, idx int) {
	m.prompts = m.prompts[1:]
	m.choice = 0
	if idx < 0 || idx >= len(evt.Options) {
		return
	}

	choice := evt.Options[idx].Choice
	id, err := m.tracker.Resolve(evt, choice)
	if err != nil {
		m.logger.Warn("resolve failed", "session", evt.SessionID, "choice", choice, "error", err)
		m.status = err.Error()
		return
	}
	if id != "" {
		m.refreshSessions()
		m.cursor = len(m.sessions) - 1
	}
}

func (m Model) viewPrompt() string {
	evt := m.prompts[0]
	accent := kindColor(m.theme, evt.Kind)

	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	var opts []string
	for i, opt := range evt.Options {
		label := fmt.Sprintf("%d %s", i+1, opt.Label)
		if i == m.choice {
			opts = append(opts, activeStyle.Render("▸ "+label))
		} else {
			opts = append(opts, dimStyle.Render("  "+label))
		}
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render(evt.Heading),
		"",
		evt.Message,
	}
	if evt.Kind == domain.KindPomodoro && evt.DailyCount > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%d pomodoro(s) today", evt.DailyCount)))
	}
	lines = append(lines, "", strings.Join(opts, "   "))
	if pending := len(m.prompts) - 1; pending > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%d more waiting", pending)))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 3)
	return box.Render(strings.Join(lines, "\n"))
}
