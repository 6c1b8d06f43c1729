package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/xvierd/taskpulse/internal/domain"
	"github.com/xvierd/taskpulse/internal/ports"
)

// StatsService aggregates completed pomodoros into per-day and per-tag
// counters. Callers must serialize access: every update is an unlocked
// read-modify-write of a whole record.
type StatsService struct {
	store  ports.RecordStore
	logger *slog.Logger
}

// NewStatsService creates a new statistics service.
func NewStatsService(store ports.RecordStore, logger *slog.Logger) *StatsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsService{store: store, logger: logger.With("component", "stats")}
}

// RecordCompletion counts one completed pomodoro on when's local date and,
// if taskName is not blank, under its trimmed name. The two records are
// updated independently; a store failure is logged and drops only that
// update. It returns the new count for the date, or 0 if the daily
// record could not be written.
func (s *StatsService) RecordCompletion(ctx context.Context, taskName string, when time.Time) int {
	day := domain.DateKey(when)
	dailyCount := 0

	daily := s.loadDaily(ctx)
	daily[day]++
	if err := s.store.Save(ctx, ports.RecordDailyStats, daily); err != nil {
		s.logger.Error("failed to save daily stats", "date", day, "error", err)
	} else {
		dailyCount = daily[day]
	}

	if tag, ok := domain.NormalizeTag(taskName); ok {
		tags := s.loadTags(ctx)
		tags[tag]++
		if err := s.store.Save(ctx, ports.RecordTagStats, tags); err != nil {
			s.logger.Error("failed to save tag stats", "tag", tag, "error", err)
		}
	}

	return dailyCount
}

// DailyCounts returns the persisted per-day counts. A missing or corrupt
// record yields an empty map.
func (s *StatsService) DailyCounts(ctx context.Context) domain.DailyCounts {
	return s.loadDaily(ctx)
}

// TodayCount returns the count recorded for now's local date.
func (s *StatsService) TodayCount(ctx context.Context, now time.Time) int {
	return s.loadDaily(ctx)[domain.DateKey(now)]
}

// TagRanking returns tags by count descending, ties by name ascending.
func (s *StatsService) TagRanking(ctx context.Context) []domain.TagCount {
	return domain.RankTags(s.loadTags(ctx))
}

// ClearTagStats replaces the tag record with an empty one. Daily counts
// are untouched.
func (s *StatsService) ClearTagStats(ctx context.Context) error {
	if err := s.store.Save(ctx, ports.RecordTagStats, domain.TagCounts{}); err != nil {
		s.logger.Error("failed to clear tag stats", "error", err)
		return err
	}
	s.logger.Info("tag stats cleared")
	return nil
}

// Heatmap lays out the last weeks of daily counts as a calendar grid.
func (s *StatsService) Heatmap(ctx context.Context, weeks int, now time.Time) domain.Heatmap {
	return domain.BuildHeatmap(s.loadDaily(ctx), weeks, now)
}

func (s *StatsService) loadDaily(ctx context.Context) domain.DailyCounts {
	daily := domain.DailyCounts{}
	if err := s.store.Load(ctx, ports.RecordDailyStats, &daily); err != nil {
		s.logLoadFailure(ports.RecordDailyStats, err)
		return domain.DailyCounts{}
	}
	if daily == nil {
		daily = domain.DailyCounts{}
	}
	return daily
}

func (s *StatsService) loadTags(ctx context.Context) domain.TagCounts {
	tags := domain.TagCounts{}
	if err := s.store.Load(ctx, ports.RecordTagStats, &tags); err != nil {
		s.logLoadFailure(ports.RecordTagStats, err)
		return domain.TagCounts{}
	}
	if tags == nil {
		tags = domain.TagCounts{}
	}
	return tags
}

func (s *StatsService) logLoadFailure(record string, err error) {
	if errors.Is(err, ports.ErrRecordNotFound) {
		s.logger.Debug("record not found, using empty default", "record", record)
		return
	}
	s.logger.Error("failed to load record, using empty default", "record", record, "error", err)
}
