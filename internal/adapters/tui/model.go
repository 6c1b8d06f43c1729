// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/taskpulse/internal/config"
	"github.com/xvierd/taskpulse/internal/domain"
)

// Tracker is the session control surface the TUI drives.
type Tracker interface {
	StartSession(title string, durationMinutes float64, kind domain.SessionKind) (string, error)
	Tick(ctx context.Context, now time.Time) []domain.CompletionEvent
	Resolve(evt domain.CompletionEvent, choice domain.Choice) (string, error)
	CancelSession(id string, silent bool) bool
	ClearFinished() int
	Sessions() []domain.Session
	PomodoroCount() int
	Config() domain.PomodoroConfig
	FiredC() <-chan string
	Fired(id string)
}

// StatsReader supplies the aggregated statistics shown by the TUI.
type StatsReader interface {
	TodayCount(ctx context.Context, now time.Time) int
	TagRanking(ctx context.Context) []domain.TagCount
	ClearTagStats(ctx context.Context) error
	Heatmap(ctx context.Context, weeks int, now time.Time) domain.Heatmap
}

// Options configures a Model.
type Options struct {
	Tracker      Tracker
	Stats        StatsReader
	Config       *config.Config
	TaskTitles   []string
	DefaultTitle string
	TestMode     bool
	Logger       *slog.Logger
	Now          func() time.Time
}

// tickMsg is sent on every timer tick.
type tickMsg time.Time

// firedMsg carries the id of a scheduler job that fired.
type firedMsg string

type screen int

const (
	screenSessions screen = iota
	screenSetup
	screenStats
)

// Model represents the TUI state.
type Model struct {
	ctx      context.Context
	tracker  Tracker
	stats    StatsReader
	logger   *slog.Logger
	now      func() time.Time
	interval time.Duration
	theme    config.ThemeConfig

	screen   screen
	sessions []domain.Session
	cursor   int
	prompts  []domain.CompletionEvent
	choice   int
	status   string

	setup setupState

	today        int
	ranking      []domain.TagCount
	heatmap      domain.Heatmap
	heatmapWeeks int
	confirmClear bool

	progress progress.Model
	width    int
	height   int
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	theme := resolveTheme(&cfg.Theme)
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pbar := progress.New(progress.WithGradient(theme.HeatLow, theme.HeatHigh), progress.WithoutPercentage())
	pbar.Width = 24

	ti := textinput.New()
	ti.Placeholder = "What are you working on?"
	ti.CharLimit = 120
	ti.Width = 40

	m := Model{
		ctx:          ctx,
		tracker:      opts.Tracker,
		stats:        opts.Stats,
		logger:       logger.With("component", "tui"),
		now:          now,
		interval:     cfg.TickInterval(),
		theme:        theme,
		heatmapWeeks: cfg.UI.HeatmapWeeks,
		progress:     pbar,
		setup: setupState{
			input:        ti,
			presets:      buildPresets(cfg.Pomodoro.QuickMinutes, opts.TestMode),
			candidates:   opts.TaskTitles,
			defaultTitle: opts.DefaultTitle,
			work:         opts.Tracker.Config().WorkDuration,
		},
	}
	m.refreshSessions()
	m.refreshStats()
	return m
}

// Init starts the tick loop and the fired-job listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.interval), waitForFired(m.tracker.FiredC()))
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForFired blocks on the tracker's fired channel off the update loop
// and delivers each id back to it as a message.
func waitForFired(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		id, ok := <-ch
		if !ok {
			return nil
		}
		return firedMsg(id)
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick(time.Time(msg))
		return m, tickCmd(m.interval)

	case firedMsg:
		m.tracker.Fired(string(msg))
		return m, waitForFired(m.tracker.FiredC())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if w := msg.Width - 50; w > 10 {
			m.progress.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if len(m.prompts) > 0 {
			return m.updatePrompt(msg)
		}
		switch m.screen {
		case screenSetup:
			return m.updateSetup(msg)
		case screenStats:
			return m.updateStats(msg)
		default:
			return m.updateSessions(msg)
		}
	}

	if m.screen == screenSetup {
		var cmd tea.Cmd
		m.setup.input, cmd = m.setup.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// tick advances the tracker and queues any completion prompts.
func (m *Model) tick(now time.Time) {
	events := m.tracker.Tick(m.ctx, now)
	if len(events) > 0 {
		m.prompts = append(m.prompts, events...)
		m.refreshStats()
	}
	m.refreshSessions()
}

func (m Model) updateSessions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.sessions)-1 {
			m.cursor++
		}
	case "n":
		cmd := m.openSetup(domain.KindManual)
		return m, cmd
	case "p":
		title := m.setup.defaultTitle
		if title == "" {
			title = "Pomodoro"
		}
		m.start(title, m.setup.work.Minutes(), domain.KindPomodoro)
	case "b":
		brk := m.tracker.Config().BreakAfter(m.tracker.PomodoroCount())
		m.start("", brk.Minutes(), domain.KindBreak)
	case "x", "d":
		if m.cursor < len(m.sessions) {
			s := m.sessions[m.cursor]
			m.tracker.CancelSession(s.ID, s.Finished)
			m.refreshSessions()
		}
	case "c":
		if n := m.tracker.ClearFinished(); n > 0 {
			m.status = fmt.Sprintf("Cleared %d finished session(s).", n)
		}
		m.refreshSessions()
	case "s":
		m.refreshStats()
		m.screen = screenStats
	}
	return m, nil
}

func (m Model) updateStats(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "s":
		m.screen = screenSessions
		m.confirmClear = false
	case "r":
		if !m.confirmClear {
			m.confirmClear = true
			return m, nil
		}
		m.confirmClear = false
		if err := m.stats.ClearTagStats(m.ctx); err != nil {
			m.status = "Failed to clear tag stats: " + err.Error()
		} else {
			m.status = "Tag statistics cleared."
		}
		m.refreshStats()
	default:
		m.confirmClear = false
	}
	return m, nil
}

func (m *Model) start(title string, minutes float64, kind domain.SessionKind) {
	if _, err := m.tracker.StartSession(title, minutes, kind); err != nil {
		m.status = err.Error()
		return
	}
	m.refreshSessions()
	m.cursor = len(m.sessions) - 1
}

func (m *Model) refreshSessions() {
	m.sessions = m.tracker.Sessions()
	if m.cursor >= len(m.sessions) {
		m.cursor = len(m.sessions) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) refreshStats() {
	if m.stats == nil {
		return
	}
	now := m.now()
	m.today = m.stats.TodayCount(m.ctx, now)
	m.ranking = m.stats.TagRanking(m.ctx)
	m.heatmap = m.stats.Heatmap(m.ctx, m.heatmapWeeks, now)
}

// View renders the TUI.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	header := titleStyle.Render(fmt.Sprintf("%s TaskPulse", m.theme.IconApp)) +
		helpStyle.Render(fmt.Sprintf("   today %d · cycle #%d", m.today, m.tracker.PomodoroCount()))

	var body, help string
	switch {
	case len(m.prompts) > 0:
		body, help = m.viewPrompt(), "←/→ choose · enter confirm · 1-9 pick"
	case m.screen == screenSetup:
		body, help = m.viewSetup(), "enter start · tab complete · ctrl+t kind · ↑/↓ length · esc back"
	case m.screen == screenStats:
		body = m.viewStats()
		help = "[r] clear tags · [s]/esc back · [q]uit"
		if m.confirmClear {
			help = "press [r] again to confirm clearing tag stats"
		}
	default:
		body = m.viewSessions()
		help = "[n]ew · [p]omodoro · [b]reak · [x] cancel · [c]lear done · [s]tats · [q]uit"
	}

	sections := []string{header, "", body, ""}
	if m.status != "" {
		sections = append(sections, lipgloss.NewStyle().Italic(true).Render(m.status))
	}
	sections = append(sections, helpStyle.Render(help))

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) viewSessions() string {
	if len(m.sessions) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp)).Render("No sessions. Start one with [n] or [p].")
	}

	now := m.now()
	lines := make([]string, 0, len(m.sessions))
	for i, s := range m.sessions {
		marker := "  "
		if i == m.cursor {
			marker = "▸ "
		}
		kind := lipgloss.NewStyle().Bold(true).Foreground(kindColor(m.theme, s.Kind)).Render(fmt.Sprintf("%-8s", s.Kind.Label()))

		var state string
		if s.Finished && s.FinishedTime != nil {
			state = fmt.Sprintf("%s done at %s", m.theme.IconDone, s.FinishedTime.Format("15:04"))
		} else {
			state = fmt.Sprintf("%s  %s", m.progress.ViewAs(s.Progress(now)), formatClock(s.Remaining(now)))
		}
		lines = append(lines, fmt.Sprintf("%s%s %-28s %s", marker, kind, truncate(s.Title, 28), state))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewStats() string {
	heading := lipgloss.NewStyle().Bold(true)
	return strings.Join([]string{
		heading.Render(fmt.Sprintf("%s Pomodoros per day", m.theme.IconStats)),
		RenderHeatmap(m.heatmap, &m.theme),
		"",
		heading.Render("Top tasks"),
		RenderTagRanking(m.ranking, 10, &m.theme),
	}, "\n")
}
