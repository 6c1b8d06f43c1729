// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/taskpulse/internal/domain"
	"github.com/xvierd/taskpulse/internal/ports"
)

// TaskService manages the task list and user config record.
type TaskService struct {
	store  ports.RecordStore
	logger *slog.Logger
}

// NewTaskService creates a new task service.
func NewTaskService(store ports.RecordStore, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{store: store, logger: logger.With("component", "tasks")}
}

// AddTaskRequest contains the data needed to create a new task.
type AddTaskRequest struct {
	Title  string
	Type   string
	Params map[string]string
}

// AddTask creates a new task.
func (s *TaskService) AddTask(ctx context.Context, req AddTaskRequest) (*domain.Task, error) {
	task, err := domain.NewTask(req.Title, req.Type, req.Params)
	if err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	rec, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	rec.Tasks = append(rec.Tasks, task)
	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}

	return task, nil
}

// ListTasks returns every task in insertion order.
func (s *TaskService) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	rec, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return rec.Tasks, nil
}

// DeleteTask removes a task. It reports false when no task had that id.
func (s *TaskService) DeleteTask(ctx context.Context, id string) (bool, error) {
	rec, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	kept := rec.Tasks[:0]
	for _, t := range rec.Tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(rec.Tasks) {
		return false, nil
	}
	rec.Tasks = kept

	if err := s.save(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

// FindTasks does a fuzzy search for tasks by title, best match first.
func (s *TaskService) FindTasks(ctx context.Context, query string) ([]*domain.Task, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks for fuzzy search: %w", err)
	}

	titles := make([]string, len(tasks))
	for i, task := range tasks {
		titles[i] = task.Title
	}

	var result []*domain.Task
	for _, match := range fuzzy.Find(query, titles) {
		result = append(result, tasks[match.Index])
	}
	return result, nil
}

// UserConfig returns the stored toggles.
func (s *TaskService) UserConfig(ctx context.Context) (domain.UserConfig, error) {
	rec, err := s.load(ctx)
	if err != nil {
		return domain.UserConfig{}, err
	}
	return rec.UserConfig, nil
}

// UpdateConfig sets one toggle and persists the record.
func (s *TaskService) UpdateConfig(ctx context.Context, key string, value bool) error {
	rec, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := rec.UserConfig.Set(key, value); err != nil {
		return err
	}
	if err := s.save(ctx, rec); err != nil {
		return err
	}
	s.logger.Info("user config updated", "key", key, "value", value)
	return nil
}

// load returns the tasks record, creating the default one on first use.
// A corrupt record is logged and replaced by an empty default in memory.
func (s *TaskService) load(ctx context.Context) (*domain.TaskRecord, error) {
	rec := &domain.TaskRecord{}
	err := s.store.Load(ctx, ports.RecordTasks, rec)
	switch {
	case errors.Is(err, ports.ErrRecordNotFound):
		rec = domain.NewTaskRecord(time.Now())
		if err := s.save(ctx, rec); err != nil {
			return nil, err
		}
	case err != nil:
		s.logger.Error("failed to load tasks, using empty default", "error", err)
		rec = domain.NewTaskRecord(time.Now())
	}
	if rec.Tasks == nil {
		rec.Tasks = []*domain.Task{}
	}
	return rec, nil
}

func (s *TaskService) save(ctx context.Context, rec *domain.TaskRecord) error {
	if err := s.store.Save(ctx, ports.RecordTasks, rec); err != nil {
		s.logger.Error("failed to save tasks", "error", err)
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}
