package service

import (
	"context"
	"sheetgrader/internal/model"
	"sync"
)

// Workspace is one owner's answer key, history and scan flow
type Workspace struct {
	Owner   string
	Keys    *AnswerKeyStore
	History *HistoryStore
	Session *ScanSession
}

// WorkspaceService loads workspaces from durable state on first use and keeps them in memory
type WorkspaceService struct {
	store       StateStore
	recognizer  Recognizer
	opts        FlowOptions
	archive     ResultArchive
	guard       ScanGuard
	broadcaster Broadcaster

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(store StateStore, recognizer Recognizer, opts FlowOptions) *WorkspaceService {
	return &WorkspaceService{
		store:      store,
		recognizer: recognizer,
		opts:       opts,
		workspaces: make(map[string]*Workspace),
	}
}

// SetArchive sets where every graded result is archived
func (s *WorkspaceService) SetArchive(a ResultArchive) {
	s.archive = a
}

// SetScanGuard sets the cross-replica scan lock
func (s *WorkspaceService) SetScanGuard(g ScanGuard) {
	s.guard = g
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *WorkspaceService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Get returns the owner's workspace, restoring it from the state store if needed
func (s *WorkspaceService) Get(ctx context.Context, owner string) (*Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ws, ok := s.workspaces[owner]; ok {
		return ws, nil
	}

	store := ScopedStore(s.store, owner)
	keys, err := LoadAnswerKeyStore(ctx, store)
	if err != nil {
		return nil, err
	}
	history, err := LoadHistoryStore(ctx, store)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{
		Owner:   owner,
		Keys:    keys,
		History: history,
	}
	ws.Session = NewScanSession(owner, SessionDeps{
		Keys:        keys,
		History:     history,
		Recognizer:  s.recognizer,
		Archive:     s.archive,
		Guard:       s.guard,
		Broadcaster: s.broadcaster,
	}, s.opts)

	s.workspaces[owner] = ws
	return ws, nil
}

// ArchivedResults lists the owner's archived results, newest first
func (s *WorkspaceService) ArchivedResults(ctx context.Context, owner, studentID string, limit int64) ([]*model.GradedResult, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.List(ctx, owner, studentID, limit)
}

// ArchivedResult returns one archived result, or nil when it does not exist
func (s *WorkspaceService) ArchivedResult(ctx context.Context, owner, id string) (*model.GradedResult, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.Get(ctx, owner, id)
}
