package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildSeasonEveryTeamPlaysOncePerMatchday(t *testing.T) {
	teams := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}
	genesis := time.Date(2026, 8, 1, 15, 0, 0, 0, time.UTC)

	fixtures, err := BuildSeason("league-1", teams, 1, genesis, 42)
	require.NoError(t, err)

	wantMatchdays := TotalMatchdays(len(teams))
	require.Equal(t, wantMatchdays, 2*(len(teams)-1))

	byMatchday := make(map[int][]string)
	for _, fx := range fixtures {
		byMatchday[fx.Matchday] = append(byMatchday[fx.Matchday], fx.HomeTeamID, fx.AwayTeamID)
	}
	require.Len(t, byMatchday, wantMatchdays)

	for md, ids := range byMatchday {
		seen := make(map[string]int)
		for _, id := range ids {
			seen[id]++
		}
		require.Lenf(t, seen, len(teams), "matchday %d did not field every team", md)
		for _, count := range seen {
			require.Equal(t, 1, count)
		}
	}
}

func TestBuildSeasonSecondHalfMirrorsWithSwap(t *testing.T) {
	teams := []string{"a", "b", "c", "d"}
	genesis := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	fixtures, err := BuildSeason("league-1", teams, 1, genesis, 7)
	require.NoError(t, err)

	matchdaysPerHalf := len(teams) - 1
	firstHalf := make(map[[2]string]bool)
	for _, fx := range fixtures {
		if fx.Matchday <= matchdaysPerHalf {
			firstHalf[[2]string{fx.HomeTeamID, fx.AwayTeamID}] = true
		}
	}
	for _, fx := range fixtures {
		if fx.Matchday > matchdaysPerHalf {
			mirrored := [2]string{fx.AwayTeamID, fx.HomeTeamID}
			require.True(t, firstHalf[mirrored], "second-half fixture %v has no mirrored first-half pairing", fx)
		}
	}
}

func TestBuildSeasonRejectsOddTeamCount(t *testing.T) {
	_, err := BuildSeason("league-1", []string{"a", "b", "c"}, 1, time.Now(), 1)
	require.ErrorIs(t, err, ErrOddTeamCount)
}

func TestBuildSeasonDeterministic(t *testing.T) {
	teams := []string{"a", "b", "c", "d", "e", "f"}
	genesis := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := BuildSeason("league-1", teams, 1, genesis, 99)
	require.NoError(t, err)
	second, err := BuildSeason("league-1", teams, 1, genesis, 99)
	require.NoError(t, err)

	require.Equal(t, first, second)
}
