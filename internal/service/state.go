package service

import (
	"context"
	"errors"
	"sheetgrader/internal/model"
)

// ErrArchiveDisabled is returned when no result archive is configured
var ErrArchiveDisabled = errors.New("result archive is not configured")

// Storage keys of the persisted workspace state
const (
	AnswerKeyStateKey = "answerKey"
	HistoryStateKey   = "scanHistory"
)

// StateStore is the durable key-value mirror of workspace state.
// Load returns nil, nil when the key has never been saved.
type StateStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// ResultArchive keeps every graded result, unbounded, for later review
type ResultArchive interface {
	Save(ctx context.Context, owner string, result *model.GradedResult) error
	List(ctx context.Context, owner, studentID string, limit int64) ([]*model.GradedResult, error)
	Get(ctx context.Context, owner, id string) (*model.GradedResult, error)
}

// ScanGuard serialises recognition calls per owner across server replicas
type ScanGuard interface {
	Acquire(ctx context.Context, owner string) (bool, error)
	Release(ctx context.Context, owner string) error
}

type scopedStore struct {
	inner StateStore
	scope string
}

// ScopedStore prefixes every key with scope, so owners never share state
func ScopedStore(inner StateStore, scope string) StateStore {
	return &scopedStore{inner: inner, scope: scope}
}

func (s *scopedStore) key(k string) string {
	return s.scope + ":" + k
}

func (s *scopedStore) Load(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Load(ctx, s.key(key))
}

func (s *scopedStore) Save(ctx context.Context, key string, data []byte) error {
	return s.inner.Save(ctx, s.key(key), data)
}
