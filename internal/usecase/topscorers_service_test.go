package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brackenfield/matchstate/internal/domain/league"
	"github.com/brackenfield/matchstate/internal/domain/player"
	"github.com/brackenfield/matchstate/internal/domain/team"
	"github.com/brackenfield/matchstate/internal/domain/world"
)

func buildTopScorersWorld() *world.World {
	w := world.New(1, time.Now())
	w.Leagues["lg"] = league.League{ID: "lg", TeamIDs: []string{"t1", "t2"}}
	w.Teams["t1"] = team.Team{ID: "t1", Name: "Home FC", CleanSheets: 3, GoalsAgainst: 4}
	w.Teams["t2"] = team.Team{ID: "t2", Name: "Away FC", CleanSheets: 1, GoalsAgainst: 4}
	w.Players["p1"] = player.Player{
		ID: "p1", TeamID: "t1", Name: "Striker One",
		SeasonStats: map[int]player.SeasonStats{1: {Goals: 5, Assists: 1}},
	}
	w.Players["p2"] = player.Player{
		ID: "p2", TeamID: "t2", Name: "Striker Two",
		SeasonStats: map[int]player.SeasonStats{1: {Goals: 5, Assists: 3}},
	}
	w.Players["p3"] = player.Player{
		ID: "p3", TeamID: "t1", Name: "Bench Warmer",
		SeasonStats: map[int]player.SeasonStats{1: {Goals: 0, Assists: 0}},
	}
	return w
}

func TestTopScorersService_BuildTopScorers_TieBreaksOnAssistsThenName(t *testing.T) {
	t.Parallel()

	w := buildTopScorersWorld()
	svc := NewTopScorersService()
	rows, err := svc.BuildTopScorers(w, "lg")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "p2", rows[0].PlayerID, "tied on goals: higher assists ranks first")
	require.Equal(t, "p1", rows[1].PlayerID)
}

func TestTopScorersService_BuildTopAssisters_RanksByAssistsFirst(t *testing.T) {
	t.Parallel()

	w := buildTopScorersWorld()
	svc := NewTopScorersService()
	rows, err := svc.BuildTopAssisters(w, "lg")
	require.NoError(t, err)
	require.Equal(t, "p2", rows[0].PlayerID)
}

func TestTopScorersService_BuildBestDefense_RanksByCleanSheetsThenConceded(t *testing.T) {
	t.Parallel()

	w := buildTopScorersWorld()
	svc := NewTopScorersService()
	rows, err := svc.BuildBestDefense(w, "lg")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "t1", rows[0].TeamID)
	require.Equal(t, "t2", rows[1].TeamID)
}

func TestTopScorersService_UnknownLeague(t *testing.T) {
	t.Parallel()

	w := world.New(1, time.Now())
	svc := NewTopScorersService()
	_, err := svc.BuildTopScorers(w, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
