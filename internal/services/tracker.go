package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xvierd/taskpulse/internal/chaining"
	"github.com/xvierd/taskpulse/internal/domain"
	"github.com/xvierd/taskpulse/internal/ports"
)

const firedBuffer = 64

// CompletionRecorder receives completed pomodoros.
type CompletionRecorder interface {
	RecordCompletion(ctx context.Context, taskName string, when time.Time) int
}

// SessionTracker owns the in-flight and finished countdown sessions.
//
// It is not safe for concurrent use: StartSession, Tick, Resolve,
// CancelSession and Fired must all run on one control goroutine. The
// scheduler's callbacks only push ids onto the Fired channel.
type SessionTracker struct {
	sessions      map[string]*domain.Session
	scheduler     ports.Scheduler
	notifier      ports.Notifier
	stats         CompletionRecorder
	config        domain.PomodoroConfig
	clock         func() time.Time
	logger        *slog.Logger
	pomodoroCount int
	pending       []domain.CompletionEvent
	fired         chan string
}

// TrackerOption configures a SessionTracker.
type TrackerOption func(*SessionTracker)

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) TrackerOption {
	return func(t *SessionTracker) { t.clock = clock }
}

// WithPomodoroConfig overrides the default cycle lengths.
func WithPomodoroConfig(cfg domain.PomodoroConfig) TrackerOption {
	return func(t *SessionTracker) { t.config = cfg }
}

// WithLogger sets the tracker's logger.
func WithLogger(logger *slog.Logger) TrackerOption {
	return func(t *SessionTracker) { t.logger = logger }
}

// NewSessionTracker creates a tracker. stats may be nil, in which case
// completions advance the cycle but are not recorded.
func NewSessionTracker(scheduler ports.Scheduler, notifier ports.Notifier, stats CompletionRecorder, opts ...TrackerOption) *SessionTracker {
	t := &SessionTracker{
		sessions:  make(map[string]*domain.Session),
		scheduler: scheduler,
		notifier:  notifier,
		stats:     stats,
		config:    domain.DefaultPomodoroConfig(),
		clock:     time.Now,
		logger:    slog.Default(),
		fired:     make(chan string, firedBuffer),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With("component", "tracker")
	return t
}

// StartSession begins a countdown of durationMinutes and registers its
// one-shot job with the scheduler. Invalid input leaves state unchanged.
func (t *SessionTracker) StartSession(title string, durationMinutes float64, kind domain.SessionKind) (string, error) {
	session, err := domain.NewSession(title, durationMinutes, kind, t.clock())
	if err != nil {
		return "", fmt.Errorf("invalid session: %w", err)
	}

	t.sessions[session.ID] = session
	if t.scheduler != nil {
		id := session.ID
		t.scheduler.ScheduleOnce(id, session.EndTime, func() { t.handOff(id) })
	}

	t.logger.Info("session started",
		"id", session.ID, "kind", session.Kind, "title", session.Title, "duration", session.Duration())
	t.notify("Session started", fmt.Sprintf("[%s] - %s countdown started.",
		session.Title, domain.FormatDuration(session.Duration())))

	return session.ID, nil
}

// Tick marks every expired session finished and returns one completion
// event per newly finished session. Repeated ticks never finish or
// report a session twice. The events are also queued for
// DrainCompletions.
func (t *SessionTracker) Tick(ctx context.Context, now time.Time) []domain.CompletionEvent {
	var finished []*domain.Session
	for _, s := range t.ordered() {
		if s.Finished || !s.Expired(now) {
			continue
		}
		s.MarkFinished(now)
		finished = append(finished, s)
	}

	var events []domain.CompletionEvent
	for _, s := range finished {
		if s.Notified {
			continue
		}
		s.Notified = true
		events = append(events, t.complete(ctx, s))
	}

	t.pending = append(t.pending, events...)
	return events
}

// complete applies the kind's completion policy. Pomodoros advance the
// cycle and are recorded before the event is handed out, so a slow
// decision cannot lose a completion.
func (t *SessionTracker) complete(ctx context.Context, s *domain.Session) domain.CompletionEvent {
	policy := chaining.ForKind(s.Kind, t.config)
	evt := domain.CompletionEvent{
		SessionID:  s.ID,
		Title:      s.Title,
		Kind:       s.Kind,
		FinishedAt: *s.FinishedTime,
	}

	if policy.CountsTowardStats() {
		t.pomodoroCount++
		evt.PomodoroCount = t.pomodoroCount
		if t.stats != nil {
			evt.DailyCount = t.stats.RecordCompletion(ctx, s.Title, *s.FinishedTime)
		}
	}
	policy.Describe(&evt)

	t.logger.Info("session finished",
		"id", s.ID, "kind", s.Kind, "late_by", s.FinishedTime.Sub(s.EndTime), "pomodoro_count", evt.PomodoroCount)
	return evt
}

// DrainCompletions returns and clears the queued completion events.
func (t *SessionTracker) DrainCompletions() []domain.CompletionEvent {
	events := t.pending
	t.pending = nil
	return events
}

// Resolve applies the user's answer to a completion event and returns
// the id of the follow-up session, or "" when the choice starts nothing.
// Each completion is resolved at most once. Events whose session was
// cancelled or already resolved are ignored.
func (t *SessionTracker) Resolve(evt domain.CompletionEvent, choice domain.Choice) (string, error) {
	if !evt.Offers(choice) {
		return "", fmt.Errorf("%w: %s for %s session", domain.ErrInvalidChoice, choice, evt.Kind)
	}

	session, ok := t.sessions[evt.SessionID]
	if !ok || session.Resolved {
		t.logger.Debug("resolve ignored", "id", evt.SessionID, "tracked", ok)
		return "", nil
	}
	session.Resolved = true

	next := chaining.ForKind(evt.Kind, t.config).Next(evt, choice)
	if next == nil {
		return "", nil
	}
	return t.StartSession(next.Title, next.Duration.Minutes(), next.Kind)
}

// CancelSession stops tracking id and cancels its scheduled job. It is
// a no-op returning false for unknown ids, so double cancels are safe.
// silent suppresses the cancellation notice, used when clearing a
// finished session rather than aborting a live one.
func (t *SessionTracker) CancelSession(id string, silent bool) bool {
	session, ok := t.sessions[id]
	if !ok {
		t.logger.Debug("cancel ignored", "id", id, "error", domain.ErrUnknownSession)
		return false
	}

	if t.scheduler != nil {
		t.scheduler.Cancel(id)
	}
	delete(t.sessions, id)

	t.logger.Info("session removed", "id", id, "finished", session.Finished, "silent", silent)
	if !silent {
		t.notify("Session cancelled", fmt.Sprintf("[%s] was cancelled.", session.Title))
	}
	return true
}

// ClearFinished silently removes every finished session and returns how
// many were removed.
func (t *SessionTracker) ClearFinished() int {
	removed := 0
	for _, s := range t.ordered() {
		if s.Finished && t.CancelSession(s.ID, true) {
			removed++
		}
	}
	return removed
}

// Sessions returns snapshots ordered by start time, then id.
func (t *SessionTracker) Sessions() []domain.Session {
	ordered := t.ordered()
	out := make([]domain.Session, 0, len(ordered))
	for _, s := range ordered {
		out = append(out, s.Snapshot())
	}
	return out
}

// Session returns a snapshot of one session.
func (t *SessionTracker) Session(id string) (domain.Session, bool) {
	s, ok := t.sessions[id]
	if !ok {
		return domain.Session{}, false
	}
	return s.Snapshot(), true
}

// PomodoroCount returns the pomodoros completed since the process started.
func (t *SessionTracker) PomodoroCount() int {
	return t.pomodoroCount
}

// Config returns the cycle lengths in use.
func (t *SessionTracker) Config() domain.PomodoroConfig {
	return t.config
}

// FiredC delivers the ids of scheduler jobs that fired. The control
// loop reads it and calls Fired.
func (t *SessionTracker) FiredC() <-chan string {
	return t.fired
}

// Fired handles a scheduler job on the control goroutine. Jobs whose
// session was already cancelled are ignored.
func (t *SessionTracker) Fired(id string) {
	session, ok := t.sessions[id]
	if !ok {
		return
	}
	t.notify("Session finished", fmt.Sprintf("[%s] - %s reached!",
		session.Title, domain.FormatDuration(session.Duration())))
}

// handOff runs on the scheduler's goroutine and must not touch sessions.
func (t *SessionTracker) handOff(id string) {
	select {
	case t.fired <- id:
	default:
		t.logger.Warn("fired queue full, dropping notification", "id", id)
	}
}

func (t *SessionTracker) ordered() []*domain.Session {
	out := make([]*domain.Session, 0, len(t.sessions))
	for _, s := range t.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (t *SessionTracker) notify(title, message string) {
	if t.notifier != nil {
		t.notifier.Notify(title, message)
	}
}
