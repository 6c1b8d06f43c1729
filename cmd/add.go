package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/taskpulse/internal/services"
)

var (
	addType   string
	addParams map[string]string
)

// addCmd represents the task add command
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long:  `Add a new task to the TaskPulse task list.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		task, err := app.tasks.AddTask(ctx, services.AddTaskRequest{
			Title:  strings.Join(args, " "),
			Type:   addType,
			Params: addParams,
		})
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, task)
		}

		fmt.Fprintf(out, "✅ Task added: %s (ID: %s)\n", task.Title, task.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addType, "type", "t", "manual", "Task type")
	addCmd.Flags().StringToStringVarP(&addParams, "param", "p", nil, "Task parameter as key=value (repeatable)")
	taskCmd.AddCommand(addCmd)
}
