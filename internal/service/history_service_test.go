package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"sheetgrader/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRecordPrepends(t *testing.T) {
	ctx := context.Background()
	h, err := LoadHistoryStore(ctx, newTestStore())
	require.NoError(t, err)
	assert.Empty(t, h.List())

	t0 := time.Now()
	require.NoError(t, h.Record(ctx, gradedAt("first", 5, t0)))
	require.NoError(t, h.Record(ctx, gradedAt("second", 7, t0.Add(time.Second))))

	list := h.List()
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].ID)
	assert.Equal(t, "first", list[1].ID)
}

func TestHistoryEvictsOldestAtCapacity(t *testing.T) {
	ctx := context.Background()
	h, err := LoadHistoryStore(ctx, newTestStore())
	require.NoError(t, err)

	t0 := time.Now()
	for i := 0; i < model.HistoryLimit; i++ {
		require.NoError(t, h.Record(ctx, gradedAt(fmt.Sprintf("r%02d", i), 5, t0.Add(time.Duration(i)*time.Second))))
	}
	full := h.List()
	require.Len(t, full, model.HistoryLimit)
	oldest := full[model.HistoryLimit-1]
	assert.Equal(t, "r00", oldest.ID)

	require.NoError(t, h.Record(ctx, gradedAt("newest", 9, t0.Add(time.Hour))))
	list := h.List()
	require.Len(t, list, model.HistoryLimit)
	assert.Equal(t, "newest", list[0].ID)
	assert.Equal(t, full[model.HistoryLimit-2].ID, list[model.HistoryLimit-1].ID)
	for _, r := range list {
		assert.NotEqual(t, oldest.ID, r.ID)
	}
}

func TestHistoryListIsACopy(t *testing.T) {
	ctx := context.Background()
	h, err := LoadHistoryStore(ctx, newTestStore())
	require.NoError(t, err)
	require.NoError(t, h.Record(ctx, gradedAt("x", 5, time.Now())))

	list := h.List()
	list[0].ID = "mutated"
	list[0].Answers[1] = model.ChoiceD

	again := h.List()
	assert.Equal(t, "x", again[0].ID)
	assert.Equal(t, model.ChoiceA, again[0].Answers[1])
}

func TestHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	h, err := LoadHistoryStore(ctx, store)
	require.NoError(t, err)

	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, h.Record(ctx, gradedAt("a", 4.5, t0)))
	require.NoError(t, h.Record(ctx, gradedAt("b", 8, t0.Add(time.Minute))))

	reloaded, err := LoadHistoryStore(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, h.List(), reloaded.List())
}

func TestHistoryRollsBackOnSaveFailure(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	h, err := LoadHistoryStore(ctx, store)
	require.NoError(t, err)
	require.NoError(t, h.Record(ctx, gradedAt("kept", 5, time.Now())))

	store.setFailSave(true)
	err = h.Record(ctx, gradedAt("lost", 5, time.Now()))
	assert.True(t, errors.Is(err, errStoreDown))
	require.Len(t, h.List(), 1)
	assert.Equal(t, "kept", h.List()[0].ID)
}

func TestHistoryLoadTruncatesOversizedSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	h, err := LoadHistoryStore(ctx, store)
	require.NoError(t, err)
	for i := 0; i < model.HistoryLimit; i++ {
		require.NoError(t, h.Record(ctx, gradedAt(fmt.Sprint(i), 5, time.Now())))
	}
	// Tamper: store holds more than the limit
	data := store.data[HistoryStateKey]
	big := append([]byte("["), data[1:len(data)-1]...)
	big = append(big, ',')
	big = append(big, data[1:]...)
	store.data[HistoryStateKey] = big

	reloaded, err := LoadHistoryStore(ctx, store)
	require.NoError(t, err)
	assert.Len(t, reloaded.List(), model.HistoryLimit)
}

func TestHistorySummary(t *testing.T) {
	ctx := context.Background()
	h, err := LoadHistoryStore(ctx, newTestStore())
	require.NoError(t, err)
	assert.Equal(t, model.HistorySummary{}, h.Summary())

	now := time.Now()
	require.NoError(t, h.Record(ctx, gradedAt("a", 4, now)))
	require.NoError(t, h.Record(ctx, gradedAt("b", 6, now)))
	require.NoError(t, h.Record(ctx, gradedAt("c", 9.5, now)))

	sum := h.Summary()
	assert.Equal(t, 3, sum.Count)
	assert.Equal(t, 2, sum.Passed)
	assert.InDelta(t, 6.5, sum.AverageScore, 1e-9)
}
