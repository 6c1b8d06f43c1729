package domain

import "time"

// PomodoroConfig holds the lengths used when chaining pomodoros and breaks.
type PomodoroConfig struct {
	WorkDuration       time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration
	SessionsBeforeLong int
}

// DefaultPomodoroConfig returns the standard pomodoro configuration.
func DefaultPomodoroConfig() PomodoroConfig {
	return PomodoroConfig{
		WorkDuration:       25 * time.Minute,
		ShortBreakDuration: 5 * time.Minute,
		LongBreakDuration:  15 * time.Minute,
		SessionsBeforeLong: 4,
	}
}

// BreakAfter returns the break length owed after the count-th completed
// pomodoro.
func (c PomodoroConfig) BreakAfter(count int) time.Duration {
	if c.IsLongBreak(count) {
		return c.LongBreakDuration
	}
	return c.ShortBreakDuration
}

// IsLongBreak reports whether the count-th pomodoro earns the long break.
// Every SessionsBeforeLong-th pomodoro does.
func (c PomodoroConfig) IsLongBreak(count int) bool {
	every := c.SessionsBeforeLong
	if every <= 0 {
		every = 4
	}
	return count > 0 && count%every == 0
}

// MaxSliderMinutes is the upper bound of a custom countdown length.
const MaxSliderMinutes = 120

var snapPoints = []int{0, 30, 60, 90, 120}

// SnapMinutes clamps a custom length to 0..MaxSliderMinutes and pulls it
// onto the nearest half-hour mark when it lands within 5 minutes of one.
func SnapMinutes(minutes int) int {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > MaxSliderMinutes {
		minutes = MaxSliderMinutes
	}
	closest := snapPoints[0]
	for _, p := range snapPoints[1:] {
		if absInt(p-minutes) < absInt(closest-minutes) {
			closest = p
		}
	}
	if absInt(minutes-closest) < 5 {
		return closest
	}
	return minutes
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Choice is the user's answer to a completion prompt.
type Choice string

const (
	ChoiceStartBreak    Choice = "start_break"
	ChoiceDefer         Choice = "defer"
	ChoiceStartPomodoro Choice = "start_pomodoro"
	ChoiceStop          Choice = "stop"
	ChoiceAcknowledge   Choice = "ok"
)

// ChoiceOption is one button offered by a completion prompt.
type ChoiceOption struct {
	Choice Choice
	Label  string
}

// CompletionEvent is raised exactly once per session, on the tick that
// first observes it finished.
type CompletionEvent struct {
	SessionID     string
	Title         string
	Kind          SessionKind
	FinishedAt    time.Time
	PomodoroCount int
	BreakLength   time.Duration
	DailyCount    int
	Heading       string
	Message       string
	Options       []ChoiceOption
}

// Offers reports whether c is one of the event's options.
func (e CompletionEvent) Offers(c Choice) bool {
	for _, opt := range e.Options {
		if opt.Choice == c {
			return true
		}
	}
	return false
}
