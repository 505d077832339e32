package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brackenfield/matchstate/internal/domain/eventlog"
)

func TestSnapshotRepository_LoadBeforeSave_ReturnsNotFound(t *testing.T) {
	t.Parallel()

	repo := NewSnapshotRepository()
	_, ok, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSnapshotRepository_SaveThenLoad_ReturnsLatest(t *testing.T) {
	t.Parallel()

	repo := NewSnapshotRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, eventlog.Snapshot{Sequence: 5, Blob: []byte("first")}))
	require.NoError(t, repo.Save(ctx, eventlog.Snapshot{Sequence: 12, Blob: []byte("second")}))

	snap, ok, err := repo.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(12), snap.Sequence)
	require.Equal(t, []byte("second"), snap.Blob)
}
