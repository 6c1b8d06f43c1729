package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/taskpulse/internal/adapters/tui"
	"github.com/xvierd/taskpulse/internal/domain"
)

var statsWeeks int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a dashboard of completed pomodoros",
	Long:  `Display today's count, a calendar heatmap of pomodoros per day and the top tasks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		now := time.Now()
		out := cmd.OutOrStdout()

		weeks := statsWeeks
		if weeks <= 0 {
			weeks = app.config.UI.HeatmapWeeks
		}

		daily := app.stats.DailyCounts(ctx)
		ranking := app.stats.TagRanking(ctx)

		if jsonOutput {
			return printJSON(out, map[string]interface{}{
				"today":   daily[domain.DateKey(now)],
				"daily":   daily,
				"ranking": nonNilRanking(ranking),
			})
		}

		theme := &app.config.Theme
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorTitle))
		valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorPomodoro))

		fmt.Fprintln(out)
		fmt.Fprintf(out, "  %s  %s\n\n", titleStyle.Render("Today"), valueStyle.Render(fmt.Sprintf("%d pomodoros", daily[domain.DateKey(now)])))
		fmt.Fprintln(out, tui.RenderHeatmap(domain.BuildHeatmap(daily, weeks, now), theme))
		fmt.Fprintln(out)
		fmt.Fprintln(out, titleStyle.Render("Top tasks"))
		fmt.Fprintln(out, tui.RenderTagRanking(ranking, 10, theme))
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVarP(&statsWeeks, "weeks", "w", 0, "Weeks shown in the heatmap (default from config)")
	rootCmd.AddCommand(statsCmd)
}

func nonNilRanking(r []domain.TagCount) []domain.TagCount {
	if r == nil {
		return []domain.TagCount{}
	}
	return r
}
