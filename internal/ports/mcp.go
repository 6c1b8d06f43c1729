package ports

import (
	"context"

	"github.com/xvierd/taskpulse/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// StatsProvider exposes persisted statistics and tasks to the MCP server.
// This is a driven port (implemented by the services layer).
type StatsProvider interface {
	DailyCounts(ctx context.Context) domain.DailyCounts
	TagRanking(ctx context.Context) []domain.TagCount
	ClearTagStats(ctx context.Context) error
	ListTasks(ctx context.Context) ([]*domain.Task, error)
	UserConfig(ctx context.Context) (domain.UserConfig, error)
}
