package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brackenfield/matchstate/internal/domain/player"
	"github.com/brackenfield/matchstate/internal/domain/world"
)

func TestPlayerStatsService_BuildPlayerSeasonStats_ReturnsRecordedSeason(t *testing.T) {
	t.Parallel()

	w := world.New(1, time.Now())
	w.Players["p1"] = player.Player{
		ID: "p1",
		SeasonStats: map[int]player.SeasonStats{
			1: {Apps: 10, Goals: 4, Assists: 2, Yellows: 1, Minutes: 900, AvgRating: 6.8},
			2: {Apps: 3, Goals: 1},
		},
	}

	svc := NewPlayerStatsService()
	stats, err := svc.BuildPlayerSeasonStats(w, "p1", 1)
	require.NoError(t, err)
	require.Equal(t, 10, stats.Apps)
	require.Equal(t, 4, stats.Goals)
	require.Equal(t, 6.8, stats.AvgRating)
}

func TestPlayerStatsService_BuildPlayerSeasonStats_ZeroRowForUnplayedSeason(t *testing.T) {
	t.Parallel()

	w := world.New(1, time.Now())
	w.Players["p1"] = player.Player{ID: "p1", SeasonStats: map[int]player.SeasonStats{}}

	svc := NewPlayerStatsService()
	stats, err := svc.BuildPlayerSeasonStats(w, "p1", 5)
	require.NoError(t, err)
	require.Zero(t, stats.Apps)
}

func TestPlayerStatsService_UnknownPlayer(t *testing.T) {
	t.Parallel()

	w := world.New(1, time.Now())
	svc := NewPlayerStatsService()
	_, err := svc.BuildPlayerSeasonStats(w, "missing", 1)
	require.ErrorIs(t, err, ErrNotFound)
}
