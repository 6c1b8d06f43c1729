// Package chaining encapsulates kind-specific completion behavior.
// The tracker queries the Policy for prompts, statistics eligibility and
// the follow-up session instead of scattering kind checks everywhere.
package chaining

import (
	"fmt"
	"time"

	"github.com/xvierd/taskpulse/internal/domain"
)

// NextFocusTitle names a pomodoro started from a break prompt.
const NextFocusTitle = "Next focus round"

// FollowUp describes the session a choice starts.
type FollowUp struct {
	Title    string
	Duration time.Duration
	Kind     domain.SessionKind
}

// Policy defines the completion behavior of one session kind.
type Policy interface {
	// Kind returns the session kind this policy handles.
	Kind() domain.SessionKind

	// CountsTowardStats reports whether completions are aggregated and
	// advance the pomodoro cycle.
	CountsTowardStats() bool

	// Describe fills the heading, message and options of a completion event.
	Describe(evt *domain.CompletionEvent)

	// Next returns the session to start for choice, or nil.
	Next(evt domain.CompletionEvent, choice domain.Choice) *FollowUp
}

// ForKind returns the Policy implementation for the given kind.
func ForKind(k domain.SessionKind, cfg domain.PomodoroConfig) Policy {
	switch k {
	case domain.KindPomodoro:
		return &pomodoroPolicy{cfg: cfg}
	case domain.KindBreak:
		return &breakPolicy{cfg: cfg}
	default:
		return &manualPolicy{}
	}
}

// --- Pomodoro ---

type pomodoroPolicy struct{ cfg domain.PomodoroConfig }

func (p *pomodoroPolicy) Kind() domain.SessionKind { return domain.KindPomodoro }
func (p *pomodoroPolicy) CountsTowardStats() bool  { return true }

func (p *pomodoroPolicy) Describe(evt *domain.CompletionEvent) {
	evt.BreakLength = p.cfg.BreakAfter(evt.PomodoroCount)
	breakName := "short break"
	if p.cfg.IsLongBreak(evt.PomodoroCount) {
		breakName = "long break"
	}
	evt.Heading = "Pomodoro complete!"
	evt.Message = fmt.Sprintf("Pomodoro #%d is done. Time for a %s %s. Start the break now?",
		evt.PomodoroCount, domain.FormatDuration(evt.BreakLength), breakName)
	evt.Options = []domain.ChoiceOption{
		{Choice: domain.ChoiceStartBreak, Label: "Start break"},
		{Choice: domain.ChoiceDefer, Label: "Later"},
	}
}

func (p *pomodoroPolicy) Next(evt domain.CompletionEvent, choice domain.Choice) *FollowUp {
	if choice != domain.ChoiceStartBreak || evt.BreakLength <= 0 {
		return nil
	}
	return &FollowUp{
		Title:    domain.DefaultBreakTitle(evt.BreakLength),
		Duration: evt.BreakLength,
		Kind:     domain.KindBreak,
	}
}

// --- Break ---

type breakPolicy struct{ cfg domain.PomodoroConfig }

func (b *breakPolicy) Kind() domain.SessionKind { return domain.KindBreak }
func (b *breakPolicy) CountsTowardStats() bool  { return false }

func (b *breakPolicy) Describe(evt *domain.CompletionEvent) {
	evt.Heading = "Break is over!"
	evt.Message = fmt.Sprintf("Feeling refreshed? Start the next %s pomodoro?", domain.FormatDuration(b.work()))
	evt.Options = []domain.ChoiceOption{
		{Choice: domain.ChoiceStartPomodoro, Label: "Start focus"},
		{Choice: domain.ChoiceStop, Label: "Stop"},
	}
}

func (b *breakPolicy) Next(_ domain.CompletionEvent, choice domain.Choice) *FollowUp {
	if choice != domain.ChoiceStartPomodoro {
		return nil
	}
	return &FollowUp{Title: NextFocusTitle, Duration: b.work(), Kind: domain.KindPomodoro}
}

func (b *breakPolicy) work() time.Duration {
	if b.cfg.WorkDuration > 0 {
		return b.cfg.WorkDuration
	}
	return 25 * time.Minute
}

// --- Manual ---

type manualPolicy struct{}

func (m *manualPolicy) Kind() domain.SessionKind { return domain.KindManual }
func (m *manualPolicy) CountsTowardStats() bool  { return false }

func (m *manualPolicy) Describe(evt *domain.CompletionEvent) {
	evt.Heading = "Focus complete!"
	evt.Message = fmt.Sprintf("%q is done. Take a short rest.", evt.Title)
	evt.Options = []domain.ChoiceOption{{Choice: domain.ChoiceAcknowledge, Label: "OK"}}
}

func (m *manualPolicy) Next(domain.CompletionEvent, domain.Choice) *FollowUp { return nil }
