package cmd

import "github.com/spf13/cobra"

// taskCmd groups the task list commands.
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage the saved task list",
	Long:  `Add, list, search and delete the tasks kept in the tasks record.`,
}

func init() {
	rootCmd.AddCommand(taskCmd)
}
