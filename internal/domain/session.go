package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// SessionKind classifies a countdown session.
type SessionKind string

const (
	KindManual   SessionKind = "manual"
	KindPomodoro SessionKind = "pomodoro"
	KindBreak    SessionKind = "break"
)

// ValidKinds lists all supported session kinds.
var ValidKinds = []SessionKind{KindManual, KindPomodoro, KindBreak}

// ParseKind checks if a string is a valid session kind.
func ParseKind(s string) (SessionKind, error) {
	k := SessionKind(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range ValidKinds {
		if k == valid {
			return k, nil
		}
	}
	return "", fmt.Errorf("invalid session kind %q: must be one of manual, pomodoro, break", s)
}

// Label returns a human-readable label.
func (k SessionKind) Label() string {
	switch k {
	case KindManual:
		return "Focus"
	case KindPomodoro:
		return "Pomodoro"
	case KindBreak:
		return "Break"
	default:
		return "Unknown"
	}
}

// Session is one running or recently finished countdown. Sessions live
// only in memory; a restart loses them.
type Session struct {
	ID           string
	Title        string
	Kind         SessionKind
	StartTime    time.Time
	EndTime      time.Time
	Finished     bool
	FinishedTime *time.Time
	Notified     bool
	Resolved     bool
}

// NewSession creates a running session starting at now. The duration is
// given in minutes, may be fractional, and is rounded to whole seconds.
func NewSession(title string, durationMinutes float64, kind SessionKind, now time.Time) (*Session, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}

	duration, err := MinutesToDuration(durationMinutes)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		if kind != KindBreak {
			return nil, ErrEmptyTitle
		}
		title = DefaultBreakTitle(duration)
	}

	return &Session{
		ID:        generateID(),
		Title:     title,
		Kind:      kind,
		StartTime: now,
		EndTime:   now.Add(duration),
	}, nil
}

// MinutesToDuration converts fractional minutes to a whole-second duration.
func MinutesToDuration(minutes float64) (time.Duration, error) {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return 0, ErrInvalidDuration
	}
	seconds := math.Round(minutes * 60)
	if seconds <= 0 {
		return 0, ErrInvalidDuration
	}
	return time.Duration(seconds) * time.Second, nil
}

// DefaultBreakTitle names an untitled break after its length.
func DefaultBreakTitle(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes >= 15 {
		return fmt.Sprintf("Long break (%dmin)", minutes)
	}
	return fmt.Sprintf("Short break (%dmin)", minutes)
}

// Duration returns the requested countdown length.
func (s *Session) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Remaining returns the time left at now, clamped at zero.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.Finished {
		return 0
	}
	remaining := s.EndTime.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the countdown has run out at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.EndTime.After(now)
}

// Progress returns the completion percentage (0.0 to 1.0).
func (s *Session) Progress(now time.Time) float64 {
	if s.Finished {
		return 1
	}
	total := s.Duration()
	if total <= 0 {
		return 0
	}
	progress := float64(now.Sub(s.StartTime)) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// MarkFinished records the tick that observed expiry. It returns false
// if the session was already finished.
func (s *Session) MarkFinished(now time.Time) bool {
	if s.Finished {
		return false
	}
	s.Finished = true
	finished := now
	s.FinishedTime = &finished
	return true
}

// Snapshot returns a copy that is safe to hand to readers.
func (s *Session) Snapshot() Session {
	c := *s
	if s.FinishedTime != nil {
		ft := *s.FinishedTime
		c.FinishedTime = &ft
	}
	return c
}

// FormatDuration renders a duration the way start notifications show it:
// whole minutes when at least one minute, otherwise seconds.
func FormatDuration(d time.Duration) string {
	if d >= time.Minute {
		minutes := d.Minutes()
		if minutes == math.Trunc(minutes) {
			return fmt.Sprintf("%d min", int(minutes))
		}
		return fmt.Sprintf("%.1f min", minutes)
	}
	return fmt.Sprintf("%d sec", int(d.Seconds()))
}
