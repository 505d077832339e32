package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brackenfield/matchstate/internal/domain/league"
	"github.com/brackenfield/matchstate/internal/domain/team"
	"github.com/brackenfield/matchstate/internal/domain/world"
)

func TestTableService_BuildTable_SortsByPointsThenGoalDifferenceThenName(t *testing.T) {
	t.Parallel()

	w := world.New(1, time.Now())
	w.Leagues["lg"] = league.League{ID: "lg", TeamIDs: []string{"a", "b", "c"}}
	w.Teams["a"] = team.Team{ID: "a", Name: "Zeta", Wins: 2, Draws: 1, GoalsFor: 5, GoalsAgainst: 2}
	w.Teams["b"] = team.Team{ID: "b", Name: "Alpha", Wins: 2, Draws: 1, GoalsFor: 5, GoalsAgainst: 2}
	w.Teams["c"] = team.Team{ID: "c", Name: "Beta", Wins: 1, Draws: 1, Losses: 1, GoalsFor: 3, GoalsAgainst: 4}

	svc := NewTableService()
	rows, err := svc.BuildTable(w, "lg")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, "b", rows[0].TeamID, "tied on points and goal difference: name breaks the tie")
	require.Equal(t, "a", rows[1].TeamID)
	require.Equal(t, "c", rows[2].TeamID)
	require.Equal(t, 7, rows[0].Points)
	require.Equal(t, 3, rows[0].GoalDifference)
}

func TestTableService_BuildTable_UnknownLeague(t *testing.T) {
	t.Parallel()

	w := world.New(1, time.Now())
	svc := NewTableService()
	_, err := svc.BuildTable(w, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
