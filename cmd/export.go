package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/taskpulse/internal/domain"
)

var (
	exportFormat string
	exportPeriod string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export pomodoro statistics",
	Long:  "Export the daily pomodoro counts and the task ranking in markdown or CSV format.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), cmd.OutOrStdout(), time.Now())
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Output format: md or csv")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "week", "Time period: week, month, or all")
}

type dayRow struct {
	date  string
	count int
}

func runExport(ctx context.Context, out io.Writer, now time.Time) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var since string
	switch exportPeriod {
	case "week":
		since = domain.DateKey(now.AddDate(0, 0, -6))
	case "month":
		since = domain.DateKey(now.AddDate(0, -1, 0))
	case "all":
	default:
		return fmt.Errorf("unknown period %q: must be week, month or all", exportPeriod)
	}

	var days []dayRow
	for date, count := range app.stats.DailyCounts(ctx) {
		if date >= since {
			days = append(days, dayRow{date: date, count: count})
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date < days[j].date })

	ranking := app.stats.TagRanking(ctx)

	switch exportFormat {
	case "csv":
		return exportCSV(out, days)
	case "md":
		return exportMarkdown(out, now, days, ranking)
	default:
		return fmt.Errorf("unknown format %q: must be md or csv", exportFormat)
	}
}

func exportMarkdown(out io.Writer, now time.Time, days []dayRow, ranking []domain.TagCount) error {
	fmt.Fprintf(out, "# TaskPulse Export\n\n")
	fmt.Fprintf(out, "Generated: %s\n\n", now.Format("2006-01-02 15:04"))

	total := 0
	fmt.Fprintf(out, "## Pomodoros per day\n\n")
	fmt.Fprintf(out, "| Date | Pomodoros |\n|---|---|\n")
	for _, d := range days {
		fmt.Fprintf(out, "| %s | %d |\n", d.date, d.count)
		total += d.count
	}
	fmt.Fprintf(out, "\nTotal: %d\n\n", total)

	fmt.Fprintf(out, "## Tasks\n\n")
	if len(ranking) == 0 {
		fmt.Fprintln(out, "No completed pomodoros yet.")
		return nil
	}
	for i, tc := range ranking {
		fmt.Fprintf(out, "%d. %s (%d)\n", i+1, tc.Name, tc.Count)
	}
	return nil
}

func exportCSV(out io.Writer, days []dayRow) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"date", "pomodoros"}); err != nil {
		return err
	}
	for _, d := range days {
		if err := w.Write([]string{d.date, strconv.Itoa(d.count)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
