package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/taskpulse/internal/domain"
	"github.com/xvierd/taskpulse/internal/ports"
)

var statsDay = time.Date(2026, 5, 4, 10, 30, 0, 0, time.Local)

func TestStatsService_RecordCompletion(t *testing.T) {
	ctx := context.Background()
	svc := NewStatsService(newMemStore(), discardLogger())

	assert.Equal(t, 1, svc.RecordCompletion(ctx, "Focus Work", statsDay))
	assert.Equal(t, 2, svc.RecordCompletion(ctx, "Focus Work", statsDay))

	assert.Equal(t, domain.DailyCounts{"2026-05-04": 2}, svc.DailyCounts(ctx))
	assert.Equal(t, []domain.TagCount{{Name: "Focus Work", Count: 2}}, svc.TagRanking(ctx))
}

func TestStatsService_RecordCompletion_BlankName(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewStatsService(store, discardLogger())

	assert.Equal(t, 1, svc.RecordCompletion(ctx, "  ", statsDay))
	assert.Equal(t, 2, svc.RecordCompletion(ctx, "", statsDay))

	assert.Empty(t, svc.TagRanking(ctx))
	assert.Zero(t, store.saveCalls[ports.RecordTagStats], "blank names must not touch the tag record")
}

func TestStatsService_TrimsButKeepsCase(t *testing.T) {
	ctx := context.Background()
	svc := NewStatsService(newMemStore(), discardLogger())

	svc.RecordCompletion(ctx, "  Focus Work ", statsDay)
	svc.RecordCompletion(ctx, "Focus Work", statsDay)
	svc.RecordCompletion(ctx, "focus work", statsDay)

	assert.Equal(t, []domain.TagCount{
		{Name: "Focus Work", Count: 2},
		{Name: "focus work", Count: 1},
	}, svc.TagRanking(ctx))
}

func TestStatsService_SeparateDates(t *testing.T) {
	ctx := context.Background()
	svc := NewStatsService(newMemStore(), discardLogger())

	svc.RecordCompletion(ctx, "A", statsDay)
	next := svc.RecordCompletion(ctx, "A", statsDay.AddDate(0, 0, 1))

	assert.Equal(t, 1, next)
	assert.Equal(t, domain.DailyCounts{"2026-05-04": 1, "2026-05-05": 1}, svc.DailyCounts(ctx))
	assert.Equal(t, 1, svc.TodayCount(ctx, statsDay))
}

func TestStatsService_TagRankingTieBreak(t *testing.T) {
	ctx := context.Background()
	svc := NewStatsService(newMemStore(), discardLogger())

	for name, n := range map[string]int{"C": 3, "A": 5, "B": 3} {
		for i := 0; i < n; i++ {
			svc.RecordCompletion(ctx, name, statsDay)
		}
	}

	assert.Equal(t, []domain.TagCount{
		{Name: "A", Count: 5},
		{Name: "B", Count: 3},
		{Name: "C", Count: 3},
	}, svc.TagRanking(ctx))
}

func TestStatsService_ClearTagStats(t *testing.T) {
	ctx := context.Background()
	svc := NewStatsService(newMemStore(), discardLogger())

	svc.RecordCompletion(ctx, "A", statsDay)
	svc.RecordCompletion(ctx, "B", statsDay)

	require.NoError(t, svc.ClearTagStats(ctx))
	assert.Empty(t, svc.TagRanking(ctx))
	assert.Equal(t, domain.DailyCounts{"2026-05-04": 2}, svc.DailyCounts(ctx))
}

func TestStatsService_StoreFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("daily save fails, tag still recorded", func(t *testing.T) {
		store := newMemStore()
		store.failSave[ports.RecordDailyStats] = errDiskFull
		svc := NewStatsService(store, discardLogger())

		assert.Equal(t, 0, svc.RecordCompletion(ctx, "A", statsDay))
		assert.Empty(t, svc.DailyCounts(ctx))
		assert.Equal(t, []domain.TagCount{{Name: "A", Count: 1}}, svc.TagRanking(ctx))
	})

	t.Run("tag save fails, daily still recorded", func(t *testing.T) {
		store := newMemStore()
		store.failSave[ports.RecordTagStats] = errDiskFull
		svc := NewStatsService(store, discardLogger())

		assert.Equal(t, 1, svc.RecordCompletion(ctx, "A", statsDay))
		assert.Empty(t, svc.TagRanking(ctx))
	})

	t.Run("corrupt record reads as empty", func(t *testing.T) {
		store := newMemStore()
		store.records[ports.RecordDailyStats] = []byte("{not json")
		svc := NewStatsService(store, discardLogger())

		assert.Empty(t, svc.DailyCounts(ctx))
		assert.Equal(t, 1, svc.RecordCompletion(ctx, "", statsDay))
	})

	t.Run("null record reads as empty", func(t *testing.T) {
		store := newMemStore()
		store.records[ports.RecordTagStats] = []byte("null")
		svc := NewStatsService(store, discardLogger())

		assert.Empty(t, svc.TagRanking(ctx))
		svc.RecordCompletion(ctx, "A", statsDay)
		assert.Len(t, svc.TagRanking(ctx), 1)
	})

	t.Run("clear reports save failure", func(t *testing.T) {
		store := newMemStore()
		store.failSave[ports.RecordTagStats] = errDiskFull
		svc := NewStatsService(store, discardLogger())

		assert.ErrorIs(t, svc.ClearTagStats(ctx), errDiskFull)
	})
}

func TestStatsService_Heatmap(t *testing.T) {
	ctx := context.Background()
	svc := NewStatsService(newMemStore(), discardLogger())

	svc.RecordCompletion(ctx, "A", statsDay)
	svc.RecordCompletion(ctx, "A", statsDay)

	hm := svc.Heatmap(ctx, 4, statsDay)
	assert.Len(t, hm.Weeks, 4)
	assert.Equal(t, 2, hm.Total)
	assert.Equal(t, 2, hm.Max)
}
