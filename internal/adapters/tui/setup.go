package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/xvierd/taskpulse/internal/domain"
)

// testPresetMinutes is the 5-second preset offered in test mode.
const testPresetMinutes = 5.0 / 60

// Preset is one selectable session length.
type Preset struct {
	Label   string
	Minutes float64
}

type setupState struct {
	input        textinput.Model
	kind         domain.SessionKind
	presets      []Preset
	preset       int
	candidates   []string
	suggestions  []string
	defaultTitle string
	work         time.Duration
}

// buildPresets turns the configured quick lengths into presets, with a
// 5-second entry first when test mode is on.
func buildPresets(quickMinutes []int, testMode bool) []Preset {
	var presets []Preset
	if testMode {
		presets = append(presets, Preset{Label: "5 sec", Minutes: testPresetMinutes})
	}
	for _, n := range quickMinutes {
		if n > 0 {
			presets = append(presets, Preset{Label: fmt.Sprintf("%d min", n), Minutes: float64(n)})
		}
	}
	if len(presets) == 0 {
		presets = append(presets, Preset{Label: "25 min", Minutes: 25})
	}
	return presets
}

// presetIndex returns the preset closest to minutes.
func presetIndex(presets []Preset, minutes float64) int {
	best := 0
	for i, p := range presets {
		if abs(p.Minutes-minutes) < abs(presets[best].Minutes-minutes) {
			best = i
		}
	}
	return best
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func (m *Model) openSetup(kind domain.SessionKind) tea.Cmd {
	m.screen = screenSetup
	m.setup.kind = kind
	m.setup.input.Reset()
	m.setup.suggestions = nil
	m.setup.preset = presetIndex(m.setup.presets, m.setup.work.Minutes())
	return m.setup.input.Focus()
}

func (m Model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.setup.input.Blur()
		m.screen = screenSessions
		return m, nil
	case "enter":
		return m.submitSetup()
	case "tab":
		if len(m.setup.suggestions) > 0 {
			m.setup.input.SetValue(m.setup.suggestions[0])
			m.setup.input.CursorEnd()
			m.setup.suggestions = nil
		}
		return m, nil
	case "ctrl+t":
		m.setup.kind = nextKind(m.setup.kind)
		if m.setup.kind == domain.KindBreak {
			brk := m.tracker.Config().BreakAfter(m.tracker.PomodoroCount())
			m.setup.preset = presetIndex(m.setup.presets, brk.Minutes())
		}
		return m, nil
	case "up":
		if m.setup.preset > 0 {
			m.setup.preset--
		}
		return m, nil
	case "down":
		if m.setup.preset < len(m.setup.presets)-1 {
			m.setup.preset++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.setup.input, cmd = m.setup.input.Update(msg)
	m.setup.suggestions = suggest(m.setup.input.Value(), m.setup.candidates)
	return m, cmd
}

func (m Model) submitSetup() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.setup.input.Value())
	if title == "" && m.setup.kind == domain.KindPomodoro {
		title = m.setup.defaultTitle
	}

	preset := m.setup.presets[m.setup.preset]
	if _, err := m.tracker.StartSession(title, preset.Minutes, m.setup.kind); err != nil {
		m.status = err.Error()
		return m, nil
	}

	m.setup.input.Blur()
	m.screen = screenSessions
	m.refreshSessions()
	m.cursor = len(m.sessions) - 1
	return m, nil
}

func nextKind(k domain.SessionKind) domain.SessionKind {
	for i, kind := range domain.ValidKinds {
		if kind == k {
			return domain.ValidKinds[(i+1)%len(domain.ValidKinds)]
		}
	}
	return domain.KindManual
}

// suggest returns up to three fuzzy matches of query among candidates.
func suggest(query string, candidates []string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	var out []string
	for _, match := range fuzzy.Find(query, candidates) {
		if match.Str == query {
			continue
		}
		out = append(out, match.Str)
		if len(out) == 3 {
			break
		}
	}
	return out
}

func (m Model) viewSetup() string {
	accent := kindColor(m.theme, m.setup.kind)
	label := lipgloss.NewStyle().Bold(true).Foreground(accent)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	lines := []string{
		label.Render("New " + strings.ToLower(m.setup.kind.Label()) + " session"),
		"",
		"Title  " + m.setup.input.View(),
	}
	if len(m.setup.suggestions) > 0 {
		lines = append(lines, dim.Render("       tab → "+strings.Join(m.setup.suggestions, " · ")))
	} else if m.setup.kind == domain.KindPomodoro && m.setup.defaultTitle != "" {
		lines = append(lines, dim.Render("       blank uses "+m.setup.defaultTitle))
	}

	var presets []string
	for i, p := range m.setup.presets {
		if i == m.setup.preset {
			presets = append(presets, label.Render("["+p.Label+"]"))
		} else {
			presets = append(presets, dim.Render(p.Label))
		}
	}
	lines = append(lines, "", "Length "+strings.Join(presets, " "))
	return strings.Join(lines, "\n")
}
