package cache

import (
	"context"
	"testing"
	"time"

	"sheetgrader/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryState()

	data, err := m.Load(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, data)

	in := []byte("abc")
	require.NoError(t, m.Save(ctx, "k", in))
	in[0] = 'x'

	out, err := m.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))
}

func TestMemoryArchive(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryArchive()
	t0 := time.Now()

	for i, sid := range []string{"s1", "s2", "s1"} {
		r := model.GradedResult{
			ID:         sid + "-" + string(rune('a'+i)),
			ScanResult: model.ScanResult{StudentID: sid},
			Timestamp:  t0.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, a.Save(ctx, "host_a", &r))
	}

	all, err := a.List(ctx, "host_a", "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "s1-c", all[0].ID)
	assert.Equal(t, "s1-a", all[2].ID)

	s1, err := a.List(ctx, "host_a", "s1", 1)
	require.NoError(t, err)
	require.Len(t, s1, 1)
	assert.Equal(t, "s1-c", s1[0].ID)

	other, err := a.List(ctx, "host_b", "", 0)
	require.NoError(t, err)
	assert.Empty(t, other)

	got, err := a.Get(ctx, "host_a", "s2-b")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "s2", got.StudentID)

	missing, err := a.Get(ctx, "host_b", "s2-b")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
