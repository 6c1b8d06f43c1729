package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/taskpulse/internal/domain"
)

var listStatus string

// listCmd represents the task list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long:  `List all tasks, or filter by status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		tasks, err := app.tasks.ListTasks(ctx)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if listStatus != "" {
			filtered := tasks[:0:0]
			for _, t := range tasks {
				if string(t.Status) == listStatus {
					filtered = append(filtered, t)
				}
			}
			tasks = filtered
		}

		return printTasks(cmd.OutOrStdout(), tasks)
	},
}

// findCmd represents the task find command
var findCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Fuzzy search tasks by title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := app.tasks.FindTasks(context.Background(), args[0])
		if err != nil {
			return err
		}
		return printTasks(cmd.OutOrStdout(), tasks)
	},
}

func init() {
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "Filter by status (active, completed)")
	taskCmd.AddCommand(listCmd)
	taskCmd.AddCommand(findCmd)
}

func printTasks(out io.Writer, tasks []*domain.Task) error {
	if jsonOutput {
		if tasks == nil {
			tasks = []*domain.Task{}
		}
		return printJSON(out, map[string]interface{}{
			"tasks": tasks,
			"count": len(tasks),
		})
	}

	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}

	fmt.Fprintf(out, "📋 Tasks (%d):\n\n", len(tasks))
	for _, task := range tasks {
		fmt.Fprintf(out, "%s %s (ID: %s)\n", getStatusIcon(task.Status), task.Title, shortID(task.ID))
	}
	return nil
}

func getStatusIcon(status domain.TaskStatus) string {
	switch status {
	case domain.StatusActive:
		return "⏳"
	case domain.StatusCompleted:
		return "✅"
	default:
		return "❓"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// knownTitles collects task titles and tag names for autocompletion.
func knownTitles(ctx context.Context) []string {
	seen := make(map[string]bool)
	var titles []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			titles = append(titles, s)
		}
	}

	if tasks, err := app.tasks.ListTasks(ctx); err == nil {
		for _, t := range tasks {
			add(t.Title)
		}
	}
	for _, tc := range app.stats.TagRanking(ctx) {
		add(tc.Name)
	}
	return titles
}
