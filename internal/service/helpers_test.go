package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"sheetgrader/internal/model"
)

var errStoreDown = errors.New("store down")

// testStore is an in-memory StateStore that can be told to fail
type testStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	failSave bool
	failLoad bool
	saves    int
}

func newTestStore() *testStore {
	return &testStore{data: make(map[string][]byte)}
}

func (s *testStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failLoad {
		return nil, errStoreDown
	}
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *testStore) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errStoreDown
	}
	s.saves++
	s.data[key] = append([]byte(nil), data...)
	return nil
}

func (s *testStore) setFailSave(v bool) {
	s.mu.Lock()
	s.failSave = v
	s.mu.Unlock()
}

// fakeRecognizer returns a canned result, optionally waiting for release
type fakeRecognizer struct {
	result  *model.ScanResult
	err     error
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (f *fakeRecognizer) Recognize(ctx context.Context, image []byte) (*model.ScanResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

// recordingBroadcaster keeps every published event type
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBroadcaster) Publish(owner string, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, msgType)
}

func (b *recordingBroadcaster) Events() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}

// fakeGuard is an in-process ScanGuard
type fakeGuard struct {
	mu   sync.Mutex
	held map[string]bool
}

func (g *fakeGuard) Acquire(ctx context.Context, owner string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held == nil {
		g.held = make(map[string]bool)
	}
	if g.held[owner] {
		return false, nil
	}
	g.held[owner] = true
	return true, nil
}

func (g *fakeGuard) Release(ctx context.Context, owner string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, owner)
	return nil
}

var testJPEG = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

func gradedAt(id string, score float64, ts time.Time) model.GradedResult {
	return model.GradedResult{
		ID:             id,
		ScanResult:     model.ScanResult{StudentID: id, Answers: map[int]model.Choice{1: model.ChoiceA}},
		Score:          score,
		TotalQuestions: model.QuestionCount,
		CorrectCount:   int(score * 2),
		Timestamp:      ts,
	}
}
