package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brackenfield/matchstate/internal/domain/eventlog"
)

func TestEventRepository_Append_AssignsMonotonicSequence(t *testing.T) {
	t.Parallel()

	repo := NewEventRepository()
	ctx := context.Background()

	first, err := repo.Append(ctx, []eventlog.Event{
		{Kind: eventlog.KindKickOff, Payload: eventlog.KickOff{MatchID: "m1", Minute: 0}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), first[0].Sequence)

	second, err := repo.Append(ctx, []eventlog.Event{
		{Kind: eventlog.KindGoal, Payload: eventlog.Goal{MatchID: "m1", Minute: 10}},
		{Kind: eventlog.KindGoal, Payload: eventlog.Goal{MatchID: "m1", Minute: 20}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), second[0].Sequence)
	require.Equal(t, int64(3), second[1].Sequence)
}

func TestEventRepository_ReadFrom_ReturnsEventsAtOrAboveSequence(t *testing.T) {
	t.Parallel()

	repo := NewEventRepository()
	ctx := context.Background()
	_, err := repo.Append(ctx, []eventlog.Event{
		{Kind: eventlog.KindKickOff, Payload: eventlog.KickOff{MatchID: "m1"}},
		{Kind: eventlog.KindGoal, Payload: eventlog.Goal{MatchID: "m1", Minute: 10}},
		{Kind: eventlog.KindMatchEnded, Payload: eventlog.MatchEnded{MatchID: "m1"}},
	})
	require.NoError(t, err)

	got, err := repo.ReadFrom(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, eventlog.KindGoal, got[0].Kind)
	require.Equal(t, eventlog.KindMatchEnded, got[1].Kind)
}

func TestEventRepository_Reset_ClearsLog(t *testing.T) {
	t.Parallel()

	repo := NewEventRepository()
	ctx := context.Background()
	_, err := repo.Append(ctx, []eventlog.Event{{Kind: eventlog.KindKickOff, Payload: eventlog.KickOff{MatchID: "m1"}}})
	require.NoError(t, err)

	require.NoError(t, repo.Reset(ctx))

	got, err := repo.ReadFrom(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, got)
}
