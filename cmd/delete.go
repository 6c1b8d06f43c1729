package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/taskpulse/internal/adapters/tui"
)

var deleteYes bool

// deleteCmd represents the task delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Long:  `Delete a task by its ID. Use with caution - this cannot be undone.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		taskID := args[0]

		if !deleteYes && !jsonOutput {
			if !isInteractive() {
				return fmt.Errorf("refusing to delete %s without --yes", taskID)
			}
			confirm := tui.RunPicker(fmt.Sprintf("Delete task %s?", shortID(taskID)), []tui.PickerItem{
				{Label: "Delete", Desc: "This cannot be undone"},
				{Label: "Keep"},
			}, "", &app.config.Theme)
			if confirm.Aborted || confirm.Index != 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled.")
				return nil
			}
		}

		deleted, err := app.tasks.DeleteTask(ctx, taskID)
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, map[string]interface{}{"deleted": deleted, "task_id": taskID})
		}
		if !deleted {
			return fmt.Errorf("task not found: %s", taskID)
		}
		fmt.Fprintf(out, "✅ Task %s deleted.\n", shortID(taskID))
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking")
	taskCmd.AddCommand(deleteCmd)
}
