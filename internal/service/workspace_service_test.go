package service

import (
	"context"
	"testing"

	"sheetgrader/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceGetIsCached(t *testing.T) {
	ctx := context.Background()
	svc := NewWorkspaceService(newTestStore(), &fakeRecognizer{}, FlowOptions{})

	a, err := svc.Get(ctx, "host_a")
	require.NoError(t, err)
	again, err := svc.Get(ctx, "host_a")
	require.NoError(t, err)
	assert.Same(t, a, again)

	b, err := svc.Get(ctx, "host_b")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestWorkspaceRestoresFromStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	first := NewWorkspaceService(store, &fakeRecognizer{}, FlowOptions{})
	ws, err := first.Get(ctx, "host_a")
	require.NoError(t, err)
	require.NoError(t, ws.Keys.Set(ctx, 4, model.ChoiceD))

	second := NewWorkspaceService(store, &fakeRecognizer{}, FlowOptions{})
	restored, err := second.Get(ctx, "host_a")
	require.NoError(t, err)
	assert.Equal(t, model.ChoiceD, restored.Keys.Get()[4])
	assert.Equal(t, model.StateIdle, restored.Session.Snapshot().State)
}

func TestWorkspaceLoadError(t *testing.T) {
	store := newTestStore()
	store.failLoad = true
	svc := NewWorkspaceService(store, &fakeRecognizer{}, FlowOptions{})

	_, err := svc.Get(context.Background(), "host_a")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestWorkspaceArchiveDisabled(t *testing.T) {
	svc := NewWorkspaceService(newTestStore(), &fakeRecognizer{}, FlowOptions{})

	_, err := svc.ArchivedResults(context.Background(), "host_a", "", 10)
	assert.ErrorIs(t, err, ErrArchiveDisabled)
	_, err = svc.ArchivedResult(context.Background(), "host_a", "id")
	assert.ErrorIs(t, err, ErrArchiveDisabled)
}
