// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/taskpulse/internal/domain"
	"github.com/xvierd/taskpulse/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server   *server.MCPServer
	provider ports.StatsProvider
	now      func() time.Time
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(provider ports.StatsProvider, version string) *Server {
	s := &Server{
		provider: provider,
		now:      time.Now,
	}

	s.server = server.NewMCPServer(
		"taskpulse",
		version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)
	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_daily_counts",
			mcp.WithDescription("Get the number of completed pomodoros per day"),
			mcp.WithNumber(
				"days",
				mcp.Description("Only return the last N days including today (default: all)"),
			),
		),
		s.handleGetDailyCounts,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_tag_ranking",
			mcp.WithDescription("Get pomodoro task names ranked by completion count"),
			mcp.WithNumber(
				"limit",
				mcp.Description("Maximum number of entries to return (default: all)"),
			),
		),
		s.handleGetTagRanking,
	)

	s.server.AddTool(
		mcp.NewTool(
			"clear_tag_stats",
			mcp.WithDescription("Reset the per-task completion counts. Daily counts are kept."),
		),
		s.handleClearTagStats,
	)

	s.server.AddTool(
		mcp.NewTool(
			"list_tasks",
			mcp.WithDescription("List saved tasks, optionally filtered by status"),
			mcp.WithString(
				"status",
				mcp.Description("Filter tasks by status"),
				mcp.Enum(string(domain.StatusActive), string(domain.StatusCompleted)),
			),
		),
		s.handleListTasks,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_user_config",
			mcp.WithDescription("Get the stored user toggles"),
		),
		s.handleGetUserConfig,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

type dailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

func (s *Server) handleGetDailyCounts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := request.GetInt("days", 0)
	if days < 0 {
		return mcp.NewToolResultError("days must not be negative"), nil
	}

	counts := s.provider.DailyCounts(ctx)
	cutoff := ""
	if days > 0 {
		cutoff = domain.DateKey(s.now().AddDate(0, 0, -(days - 1)))
	}

	list := make([]dailyCount, 0, len(counts))
	total := 0
	for date, n := range counts {
		if cutoff != "" && date < cutoff {
			continue
		}
		list = append(list, dailyCount{Date: date, Count: n})
		total += n
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date < list[j].Date })

	return jsonResult(map[string]interface{}{
		"days":  list,
		"total": total,
		"today": counts[domain.DateKey(s.now())],
	})
}

func (s *Server) handleGetTagRanking(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	ranking := s.provider.TagRanking(ctx)
	if limit > 0 && len(ranking) > limit {
		ranking = ranking[:limit]
	}
	if ranking == nil {
		ranking = []domain.TagCount{}
	}

	return jsonResult(map[string]interface{}{
		"tags":        ranking,
		"total_count": len(ranking),
	})
}

func (s *Server) handleClearTagStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.provider.ClearTagStats(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear tag stats: %w", err)
	}
	return mcp.NewToolResultText("Tag statistics cleared."), nil
}

func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := request.GetString("status", "")

	tasks, err := s.provider.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	filtered := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if status != "" && string(task.Status) != status {
			continue
		}
		filtered = append(filtered, task)
	}

	result := map[string]interface{}{
		"tasks":       filtered,
		"total_count": len(filtered),
	}
	if status != "" {
		result["filter_status"] = status
	}
	return jsonResult(result)
}

func (s *Server) handleGetUserConfig(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := s.provider.UserConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user config: %w", err)
	}
	return jsonResult(cfg)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
