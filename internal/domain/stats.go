package domain

import (
	"sort"
	"strings"
	"time"
)

// DateLayout is the key format of the daily stats record.
const DateLayout = "2006-01-02"

// DailyCounts maps a local calendar date to completed pomodoros that day.
type DailyCounts map[string]int

// TagCounts maps a trimmed task name to its completed pomodoros.
type TagCounts map[string]int

// TagCount is one row of the tag ranking.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DateKey returns the local calendar date of t in DateLayout.
func DateKey(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// NormalizeTag trims a task name. No case folding is applied, so "Focus"
// and "focus" are different tags.
func NormalizeTag(name string) (string, bool) {
	name = strings.TrimSpace(name)
	return name, name != ""
}

// RankTags orders tags by count descending, then name ascending.
func RankTags(counts TagCounts) []TagCount {
	ranking := make([]TagCount, 0, len(counts))
	for name, count := range counts {
		ranking = append(ranking, TagCount{Name: name, Count: count})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Count != ranking[j].Count {
			return ranking[i].Count > ranking[j].Count
		}
		return ranking[i].Name < ranking[j].Name
	})
	return ranking
}

// HeatmapCell is one day in the calendar heatmap.
type HeatmapCell struct {
	Date   time.Time
	Count  int
	Future bool
}

// Heatmap is a calendar grid of Weeks columns, each Monday..Sunday.
type Heatmap struct {
	Weeks [][7]HeatmapCell
	Max   int
	Total int
}

// BuildHeatmap lays the last weeks of counts out as columns ending with
// the week that contains now.
func BuildHeatmap(counts DailyCounts, weeks int, now time.Time) Heatmap {
	if weeks <= 0 {
		weeks = 1
	}
	now = now.Local()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	weekday := int(today.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := today.AddDate(0, 0, -(weekday - 1))
	start := monday.AddDate(0, 0, -7*(weeks-1))

	hm := Heatmap{Weeks: make([][7]HeatmapCell, weeks)}
	for w := 0; w < weeks; w++ {
		for d := 0; d < 7; d++ {
			day := start.AddDate(0, 0, w*7+d)
			cell := HeatmapCell{Date: day, Future: day.After(today)}
			if !cell.Future {
				cell.Count = counts[day.Format(DateLayout)]
				hm.Total += cell.Count
				if cell.Count > hm.Max {
					hm.Max = cell.Count
				}
			}
			hm.Weeks[w][d] = cell
		}
	}
	return hm
}

// Level buckets a count into 0..4 relative to max, for shading.
func (h Heatmap) Level(count int) int {
	if count <= 0 || h.Max <= 0 {
		return 0
	}
	level := (count*4 + h.Max - 1) / h.Max
	if level > 4 {
		return 4
	}
	return level
}
