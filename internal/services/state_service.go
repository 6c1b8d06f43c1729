package services

import (
	"context"

	"github.com/xvierd/taskpulse/internal/domain"
	"github.com/xvierd/taskpulse/internal/ports"
)

// StateService implements the StatsProvider interface over the
// persisted records.
type StateService struct {
	stats *StatsService
	tasks *TaskService
}

// NewStateService creates a new state service.
func NewStateService(stats *StatsService, tasks *TaskService) *StateService {
	return &StateService{stats: stats, tasks: tasks}
}

// DailyCounts implements ports.StatsProvider.
func (s *StateService) DailyCounts(ctx context.Context) domain.DailyCounts {
	return s.stats.DailyCounts(ctx)
}

// TagRanking implements ports.StatsProvider.
func (s *StateService) TagRanking(ctx context.Context) []domain.TagCount {
	return s.stats.TagRanking(ctx)
}

// ClearTagStats implements ports.StatsProvider.
func (s *StateService) ClearTagStats(ctx context.Context) error {
	return s.stats.ClearTagStats(ctx)
}

// ListTasks implements ports.StatsProvider.
func (s *StateService) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	return s.tasks.ListTasks(ctx)
}

// UserConfig implements ports.StatsProvider.
func (s *StateService) UserConfig(ctx context.Context) (domain.UserConfig, error) {
	return s.tasks.UserConfig(ctx)
}

// Ensure StateService implements StatsProvider.
var _ ports.StatsProvider = (*StateService)(nil)
