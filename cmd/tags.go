package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/taskpulse/internal/adapters/tui"
)

var (
	tagsLimit    int
	tagsClearYes bool
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Show the task ranking by completed pomodoros",
	RunE: func(cmd *cobra.Command, args []string) error {
		ranking := app.stats.TagRanking(context.Background())
		if tagsLimit > 0 && len(ranking) > tagsLimit {
			ranking = ranking[:tagsLimit]
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, map[string]interface{}{"ranking": nonNilRanking(ranking)})
		}
		fmt.Fprintln(out, tui.RenderTagRanking(ranking, 0, &app.config.Theme))
		return nil
	},
}

var tagsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset the per-task counts (daily counts are kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if !tagsClearYes {
			if !isInteractive() {
				return fmt.Errorf("refusing to clear tag statistics without --yes")
			}
			res := tui.RunPicker("Clear tag statistics?", []tui.PickerItem{
				{Label: "Clear", Desc: "Daily counts are kept"},
				{Label: "Cancel"},
			}, "", &app.config.Theme)
			if res.Aborted || res.Index != 0 {
				fmt.Fprintln(out, "Nothing cleared.")
				return nil
			}
		}

		if err := app.stats.ClearTagStats(context.Background()); err != nil {
			return fmt.Errorf("failed to clear tag statistics: %w", err)
		}
		if jsonOutput {
			return printJSON(out, map[string]bool{"cleared": true})
		}
		fmt.Fprintln(out, "✅ Tag statistics cleared.")
		return nil
	},
}

func init() {
	tagsCmd.Flags().IntVarP(&tagsLimit, "limit", "n", 0, "Show only the top N tasks")
	tagsClearCmd.Flags().BoolVarP(&tagsClearYes, "yes", "y", false, "Clear without asking")
	tagsCmd.AddCommand(tagsClearCmd)
	rootCmd.AddCommand(tagsCmd)
}
