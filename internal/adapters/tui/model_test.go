package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/taskpulse/internal/config"
	"github.com/xvierd/taskpulse/internal/domain"
	"github.com/xvierd/taskpulse/internal/services"
)

var modelStart = time.Date(2026, 5, 4, 9, 0, 0, 0, time.Local)

type fakeStats struct {
	today    int
	ranking  []domain.TagCount
	cleared  int
	clearErr error
}

func (f *fakeStats) TodayCount(context.Context, time.Time) int     { return f.today }
func (f *fakeStats) TagRanking(context.Context) []domain.TagCount { return f.ranking }
func (f *fakeStats) ClearTagStats(context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared++
	f.ranking = nil
	return nil
}
func (f *fakeStats) Heatmap(_ context.Context, weeks int, now time.Time) domain.Heatmap {
	return domain.BuildHeatmap(domain.DailyCounts{}, weeks, now)
}

type modelFixture struct {
	model   Model
	tracker *services.SessionTracker
	stats   *fakeStats
	now     time.Time
}

func newModelFixture(t *testing.T, testMode bool) *modelFixture {
	t.Helper()
	f := &modelFixture{now: modelStart, stats: &fakeStats{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.tracker = services.NewSessionTracker(nil, nil, nil,
		services.WithClock(func() time.Time { return f.now }),
		services.WithLogger(logger))
	f.model = NewModel(context.Background(), Options{
		Tracker:      f.tracker,
		Stats:        f.stats,
		Config:       config.DefaultConfig(),
		TaskTitles:   []string{"Write docs", "Review pull request"},
		DefaultTitle: "main",
		TestMode:     testMode,
		Logger:       logger,
		Now:          func() time.Time { return f.now },
	})
	return f
}

func (f *modelFixture) send(msg tea.Msg) tea.Cmd {
	next, cmd := f.model.Update(msg)
	f.model = next.(Model)
	return cmd
}

func (f *modelFixture) press(keys ...string) {
	for _, k := range keys {
		f.send(keyMsg(k))
	}
}

func (f *modelFixture) tickAt(d time.Duration) {
	f.now = modelStart.Add(d)
	f.send(tickMsg(f.now))
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func TestModel_StartPomodoroWithDefaultTitle(t *testing.T) {
	f := newModelFixture(t, false)

	f.press("p")

	sessions := f.tracker.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "main", sessions[0].Title)
	assert.Equal(t, domain.KindPomodoro, sessions[0].Kind)
	assert.Equal(t, 25*time.Minute, sessions[0].Duration())
	assert.Contains(t, f.model.View(), "main")
}

func TestModel_CompletionPromptStartsBreak(t *testing.T) {
	f := newModelFixture(t, false)
	f.press("p")

	f.tickAt(25 * time.Minute)
	require.Len(t, f.model.prompts, 1)
	assert.Contains(t, f.model.View(), "Pomodoro complete!")

	// A second tick must not queue the same completion again.
	f.tickAt(26 * time.Minute)
	require.Len(t, f.model.prompts, 1)

	f.press("1")
	assert.Empty(t, f.model.prompts)

	sessions := f.tracker.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, domain.KindBreak, sessions[1].Kind)
	assert.Equal(t, 5*time.Minute, sessions[1].Duration())
	assert.Equal(t, 1, f.model.cursor)
}

func TestModel_EscDismissesWithoutStarting(t *testing.T) {
	f := newModelFixture(t, false)
	f.press("p")
	f.tickAt(25 * time.Minute)

	f.press("esc")

	assert.Empty(t, f.model.prompts)
	assert.Len(t, f.tracker.Sessions(), 1)
}

func TestModel_PromptIsModal(t *testing.T) {
	f := newModelFixture(t, false)
	f.press("p")
	f.tickAt(25 * time.Minute)

	f.press("n", "s")

	assert.Equal(t, screenSessions, f.model.screen)
	require.Len(t, f.model.prompts, 1)

	f.press("l")
	assert.Equal(t, 1, f.model.choice)
	f.press("enter")
	assert.Empty(t, f.model.prompts)
	assert.Len(t, f.tracker.Sessions(), 1)
}

func TestModel_SetupStartsManualSession(t *testing.T) {
	f := newModelFixture(t, false)

	f.press("n")
	require.Equal(t, screenSetup, f.model.screen)
	assert.Equal(t, domain.KindManual, f.model.setup.kind)

	f.press("Write release notes", "down", "enter")

	assert.Equal(t, screenSessions, f.model.screen)
	sessions := f.tracker.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "Write release notes", sessions[0].Title)
	assert.Equal(t, domain.KindManual, sessions[0].Kind)
	assert.Equal(t, 45*time.Minute, sessions[0].Duration())
}

func TestModel_SetupBlankManualTitleShowsError(t *testing.T) {
	f := newModelFixture(t, false)

	f.press("n", "enter")

	assert.Equal(t, screenSetup, f.model.screen)
	assert.NotEmpty(t, f.model.status)
	assert.Empty(t, f.tracker.Sessions())
}

func TestModel_SetupTabAcceptsSuggestion(t *testing.T) {
	f := newModelFixture(t, false)

	f.press("n", "rvw")
	require.NotEmpty(t, f.model.setup.suggestions)
	assert.Equal(t, "Review pull request", f.model.setup.suggestions[0])

	f.press("tab")
	assert.Equal(t, "Review pull request", f.model.setup.input.Value())
}

func TestModel_SetupCyclesKind(t *testing.T) {
	f := newModelFixture(t, false)

	f.press("n", "ctrl+t")
	assert.Equal(t, domain.KindPomodoro, f.model.setup.kind)

	f.press("enter")
	sessions := f.tracker.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "main", sessions[0].Title)
}

func TestModel_SetupEscReturns(t *testing.T) {
	f := newModelFixture(t, false)

	f.press("n", "esc")

	assert.Equal(t, screenSessions, f.model.screen)
	assert.Empty(t, f.tracker.Sessions())
}

func TestModel_TestModePresetFinishesInSeconds(t *testing.T) {
	f := newModelFixture(t, true)
	require.Equal(t, "5 sec", f.model.setup.presets[0].Label)

	f.press("n", "Quick check")
	for f.model.setup.preset > 0 {
		f.press("up")
	}
	f.press("enter")

	sessions := f.tracker.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, 5*time.Second, sessions[0].Duration())

	f.tickAt(5 * time.Second)
	require.Len(t, f.model.prompts, 1)
	assert.Equal(t, "Focus complete!", f.model.prompts[0].Heading)
}

func TestModel_BreakKeyUsesCycleLength(t *testing.T) {
	f := newModelFixture(t, false)

	f.press("b")

	sessions := f.tracker.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, domain.KindBreak, sessions[0].Kind)
	assert.Equal(t, 5*time.Minute, sessions[0].Duration())
}

func TestModel_CancelAndClear(t *testing.T) {
	f := newModelFixture(t, false)
	f.press("p", "b")
	require.Len(t, f.tracker.Sessions(), 2)

	f.press("x")
	assert.Len(t, f.tracker.Sessions(), 1)

	f.tickAt(30 * time.Minute)
	f.press("esc")
	f.press("c")
	assert.Empty(t, f.tracker.Sessions())
	assert.Contains(t, f.model.status, "Cleared 1")
}

func TestModel_StatsScreenClearNeedsConfirmation(t *testing.T) {
	f := newModelFixture(t, false)
	f.stats.ranking = []domain.TagCount{{Name: "Write docs", Count: 3}}

	f.press("s")
	require.Equal(t, screenStats, f.model.screen)
	assert.Contains(t, f.model.View(), "Write docs")

	f.press("r")
	assert.True(t, f.model.confirmClear)
	assert.Equal(t, 0, f.stats.cleared)

	f.press("r")
	assert.Equal(t, 1, f.stats.cleared)
	assert.Equal(t, "Tag statistics cleared.", f.model.status)
	assert.Contains(t, f.model.View(), "No completed pomodoros yet.")

	f.press("esc")
	assert.Equal(t, screenSessions, f.model.screen)
}

func TestModel_StatsClearCancelledByOtherKey(t *testing.T) {
	f := newModelFixture(t, false)

	f.press("s", "r", "x", "r")

	assert.True(t, f.model.confirmClear)
	assert.Equal(t, 0, f.stats.cleared)
}

func TestModel_FiredMsgRearmsListener(t *testing.T) {
	f := newModelFixture(t, false)
	f.press("p")

	cmd := f.send(firedMsg(f.tracker.Sessions()[0].ID))

	assert.NotNil(t, cmd)
}

func TestModel_QuitKeys(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			f := newModelFixture(t, false)
			cmd := f.send(keyMsg(key))
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestModel_ViewHeader(t *testing.T) {
	f := newModelFixture(t, false)
	f.stats.today = 3
	f.model.refreshStats()

	view := f.model.View()

	assert.Contains(t, view, "TaskPulse")
	assert.Contains(t, view, "today 3")
	assert.True(t, strings.Contains(view, "No sessions."))
}
