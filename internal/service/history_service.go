package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sheetgrader/internal/model"
	"sync"
)

// HistoryStore keeps the most recent graded results, newest first
type HistoryStore struct {
	mu      sync.RWMutex
	store   StateStore
	limit   int
	results []model.GradedResult
}

// LoadHistoryStore restores history from store, or starts empty
func LoadHistoryStore(ctx context.Context, store StateStore) (*HistoryStore, error) {
	data, err := store.Load(ctx, HistoryStateKey)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	h := &HistoryStore{store: store, limit: model.HistoryLimit}
	if data != nil {
		var saved []model.GradedResult
		if err := json.Unmarshal(data, &saved); err != nil {
			log.Printf("Stored history is unreadable, starting empty: %v", err)
		} else {
			if len(saved) > h.limit {
				saved = saved[:h.limit]
			}
			h.results = saved
		}
	}
	return h, nil
}

// Record puts result at the front, evicts beyond the limit from the tail,
// and persists the whole list.
func (h *HistoryStore) Record(ctx context.Context, result model.GradedResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.results) + 1
	if n > h.limit {
		n = h.limit
	}
	next := make([]model.GradedResult, 0, n)
	next = append(next, result.Clone())
	next = append(next, h.results...)
	next = next[:n]

	data, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := h.store.Save(ctx, HistoryStateKey, data); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	h.results = next
	return nil
}

// List returns a copy of the history, newest first
func (h *HistoryStore) List() []model.GradedResult {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]model.GradedResult, len(h.results))
	for i, r := range h.results {
		out[i] = r.Clone()
	}
	return out
}

// Summary aggregates the current history
func (h *HistoryStore) Summary() model.HistorySummary {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sum := model.HistorySummary{Count: len(h.results)}
	if sum.Count == 0 {
		return sum
	}
	total := 0.0
	for _, r := range h.results {
		total += r.Score
		if r.Score >= model.PassingScore {
			sum.Passed++
		}
	}
	sum.AverageScore = total / float64(sum.Count)
	return sum
}
