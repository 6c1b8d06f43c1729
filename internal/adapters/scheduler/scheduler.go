// Package scheduler provides a timer-backed implementation of
// ports.Scheduler.
package scheduler

import (
	"sync"
	"time"

	"github.com/xvierd/taskpulse/internal/ports"
)

// TimerScheduler runs each one-shot job on its own time.AfterFunc timer.
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	now    func() time.Time
	closed bool
}

// Ensure TimerScheduler implements ports.Scheduler.
var _ ports.Scheduler = (*TimerScheduler)(nil)

// New creates a scheduler.
func New() *TimerScheduler {
	return &TimerScheduler{
		timers: make(map[string]*time.Timer),
		now:    time.Now,
	}
}

// ScheduleOnce runs fn at fireAt, replacing any pending job with the
// same id. A fireAt in the past fires immediately.
func (s *TimerScheduler) ScheduleOnce(id string, fireAt time.Time, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if old, ok := s.timers[id]; ok {
		old.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(fireAt.Sub(s.now()), func() {
		s.mu.Lock()
		current, ok := s.timers[id]
		if ok && current == timer {
			delete(s.timers, id)
		}
		s.mu.Unlock()

		if ok && current == timer {
			fn()
		}
	})
	s.timers[id] = timer
}

// Cancel stops the pending job for id. Unknown ids are ignored.
func (s *TimerScheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
}

// Pending returns how many jobs have not fired yet.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Shutdown stops every pending job. Later ScheduleOnce calls are ignored.
func (s *TimerScheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	s.closed = true
}
