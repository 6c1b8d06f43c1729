package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/xvierd/taskpulse/internal/ports"
)

var errDiskFull = errors.New("disk full")

// memStore is an in-memory RecordStore that round-trips through JSON
// so tests see the same decoding behavior as the file store.
type memStore struct {
	records   map[string][]byte
	failLoad  map[string]error
	failSave  map[string]error
	saveCalls map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		records:   make(map[string][]byte),
		failLoad:  make(map[string]error),
		failSave:  make(map[string]error),
		saveCalls: make(map[string]int),
	}
}

func (m *memStore) Load(_ context.Context, name string, dst any) error {
	if err := m.failLoad[name]; err != nil {
		return err
	}
	body, ok := m.records[name]
	if !ok {
		return ports.ErrRecordNotFound
	}
	return json.Unmarshal(body, dst)
}

func (m *memStore) Save(_ context.Context, name string, src any) error {
	m.saveCalls[name]++
	if err := m.failSave[name]; err != nil {
		return err
	}
	body, err := json.Marshal(src)
	if err != nil {
		return err
	}
	m.records[name] = body
	return nil
}

func (m *memStore) Close() error { return nil }

type scheduledJob struct {
	fireAt time.Time
	fn     func()
}

// fakeScheduler records jobs and lets tests fire them by hand.
type fakeScheduler struct {
	mu        sync.Mutex
	jobs      map[string]scheduledJob
	cancelled []string
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{jobs: make(map[string]scheduledJob)}
}

func (f *fakeScheduler) ScheduleOnce(id string, fireAt time.Time, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[id] = scheduledJob{fireAt: fireAt, fn: fn}
}

func (f *fakeScheduler) Cancel(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.jobs, id)
	f.cancelled = append(f.cancelled, id)
}

func (f *fakeScheduler) Shutdown() {}

func (f *fakeScheduler) fire(id string) bool {
	f.mu.Lock()
	job, ok := f.jobs[id]
	delete(f.jobs, id)
	f.mu.Unlock()
	if ok {
		job.fn()
	}
	return ok
}

type notification struct {
	title   string
	message string
}

type recordingNotifier struct {
	sent []notification
}

func (r *recordingNotifier) Notify(title, message string) {
	r.sent = append(r.sent, notification{title: title, message: message})
}

func (r *recordingNotifier) titles() []string {
	out := make([]string, len(r.sent))
	for i, n := range r.sent {
		out[i] = n.title
	}
	return out
}

// fakeClock is advanced manually by tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
