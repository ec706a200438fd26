package cache

import (
	"context"
	"sheetgrader/internal/model"
	"sort"
	"sync"
)

// MemoryState keeps workspace state in process memory. Used for
// STATE_BACKEND=memory and in tests.
type MemoryState struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryState creates an empty in-memory state store
func NewMemoryState() *MemoryState {
	return &MemoryState{data: make(map[string][]byte)}
}

func (m *MemoryState) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryState) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(data))
	copy(v, data)
	m.data[key] = v
	return nil
}

// MemoryArchive is an in-process result archive
type MemoryArchive struct {
	mu      sync.RWMutex
	results map[string][]model.GradedResult // owner -> results
}

// NewMemoryArchive creates an empty in-memory archive
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{results: make(map[string][]model.GradedResult)}
}

func (m *MemoryArchive) Save(ctx context.Context, owner string, result *model.GradedResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[owner] = append(m.results[owner], result.Clone())
	return nil
}

func (m *MemoryArchive) List(ctx context.Context, owner, studentID string, limit int64) ([]*model.GradedResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*model.GradedResult, 0)
	for _, r := range m.results[owner] {
		if studentID != "" && r.StudentID != studentID {
			continue
		}
		c := r.Clone()
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryArchive) Get(ctx context.Context, owner, id string) (*model.GradedResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.results[owner] {
		if r.ID == id {
			c := r.Clone()
			return &c, nil
		}
	}
	return nil, nil
}
