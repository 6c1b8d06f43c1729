package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/xvierd/taskpulse/internal/config"
	"github.com/xvierd/taskpulse/internal/domain"
)

var weekdayLabels = [7]string{"Mon", "", "Wed", "", "Fri", "", "Sun"}

// heatShades returns the five cell colors for levels 0..4.
func heatShades(theme config.ThemeConfig) [5]lipgloss.Color {
	shades := [5]lipgloss.Color{lipgloss.Color(theme.ColorTitle)}
	low, errLow := colorful.Hex(theme.HeatLow)
	high, errHigh := colorful.Hex(theme.HeatHigh)
	for level := 1; level <= 4; level++ {
		if errLow != nil || errHigh != nil {
			shades[level] = lipgloss.Color(theme.HeatHigh)
			continue
		}
		t := float64(level-1) / 3
		shades[level] = lipgloss.Color(low.BlendLab(high, t).Clamped().Hex())
	}
	return shades
}

// RenderHeatmap draws the calendar grid, one row per weekday and one
// column per week, oldest on the left.
func RenderHeatmap(hm domain.Heatmap, theme *config.ThemeConfig) string {
	resolved := resolveTheme(theme)
	shades := heatShades(resolved)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(resolved.ColorHelp))

	var b strings.Builder
	b.WriteString("    ")
	lastMonth := time.Month(0)
	for _, week := range hm.Weeks {
		month := week[0].Date.Month()
		if month != lastMonth {
			b.WriteString(dim.Render(week[0].Date.Format("Jan")[:1]) + " ")
			lastMonth = month
		} else {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")

	for day := 0; day < 7; day++ {
		b.WriteString(dim.Render(fmt.Sprintf("%-4s", weekdayLabels[day])))
		for _, week := range hm.Weeks {
			cell := week[day]
			if cell.Future {
				b.WriteString("  ")
				continue
			}
			level := hm.Level(cell.Count)
			glyph := "■"
			if level == 0 {
				glyph = "·"
			}
			b.WriteString(lipgloss.NewStyle().Foreground(shades[level]).Render(glyph) + " ")
		}
		b.WriteString("\n")
	}

	b.WriteString(dim.Render(fmt.Sprintf("    %d pomodoros in %d weeks · less ", hm.Total, len(hm.Weeks))))
	for level := 0; level <= 4; level++ {
		b.WriteString(lipgloss.NewStyle().Foreground(shades[level]).Render("■"))
	}
	b.WriteString(dim.Render(" more"))
	return b.String()
}

// RenderTagRanking lists the top limit tags with proportional bars.
// limit <= 0 shows every tag.
func RenderTagRanking(ranking []domain.TagCount, limit int, theme *config.ThemeConfig) string {
	resolved := resolveTheme(theme)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(resolved.ColorHelp))
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(resolved.ColorPomodoro))

	if len(ranking) == 0 {
		return dim.Render("No completed pomodoros yet.")
	}
	if limit > 0 && len(ranking) > limit {
		ranking = ranking[:limit]
	}

	nameWidth := 0
	for _, tc := range ranking {
		if w := lipgloss.Width(tc.Name); w > nameWidth {
			nameWidth = w
		}
	}
	if nameWidth > 30 {
		nameWidth = 30
	}

	top := ranking[0].Count
	lines := make([]string, 0, len(ranking))
	for i, tc := range ranking {
		width := 1
		if top > 0 {
			width = tc.Count * 20 / top
			if width < 1 {
				width = 1
			}
		}
		lines = append(lines, fmt.Sprintf("%2d. %-*s %s %d",
			i+1, nameWidth, truncate(tc.Name, nameWidth), bar.Render(strings.Repeat("█", width)), tc.Count))
	}
	return strings.Join(lines, "\n")
}

// formatClock formats a duration as MM:SS, or H:MM:SS past an hour.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
