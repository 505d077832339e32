package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brackenfield/matchstate/internal/domain/team"
	"github.com/brackenfield/matchstate/internal/domain/world"
)

func TestHeadToHeadService_BuildHeadToHead_SortsByOpponentID(t *testing.T) {
	t.Parallel()

	w := world.New(1, time.Now())
	tm := team.Team{ID: "t1", Name: "Home FC"}
	tm.RecordHeadToHead("t3", team.ResultWin)
	tm.RecordHeadToHead("t2", team.ResultDraw)
	tm.RecordHeadToHead("t2", team.ResultLoss)
	w.Teams["t1"] = tm

	svc := NewHeadToHeadService()
	rows, err := svc.BuildHeadToHead(w, "t1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "t2", rows[0].OpponentID)
	require.Equal(t, 1, rows[0].Draws)
	require.Equal(t, 1, rows[0].Losses)
	require.Equal(t, "t3", rows[1].OpponentID)
	require.Equal(t, 1, rows[1].Wins)
}

func TestHeadToHeadService_BuildHeadToHeadBetween_ZeroRecordWhenNeverPlayed(t *testing.T) {
	t.Parallel()

	w := world.New(1, time.Now())
	w.Teams["t1"] = team.Team{ID: "t1", Name: "Home FC"}

	svc := NewHeadToHeadService()
	rec, err := svc.BuildHeadToHeadBetween(w, "t1", "unseen")
	require.NoError(t, err)
	require.Zero(t, rec.Wins+rec.Draws+rec.Losses)
}

func TestHeadToHeadService_UnknownTeam(t *testing.T) {
	t.Parallel()

	w := world.New(1, time.Now())
	svc := NewHeadToHeadService()
	_, err := svc.BuildHeadToHead(w, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
