// Package scheduler builds a season's fixture list and classifies each
// fixture's narrative importance.
package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/brackenfield/matchstate/internal/domain/fixture"
	"github.com/brackenfield/matchstate/internal/platform/id"
)

// ErrOddTeamCount is returned when BuildSeason is asked to schedule an odd
// number of teams; the circle method requires a bye slot this engine does
// not model (leagues are expected to carry an even team count).
var ErrOddTeamCount = errors.New("scheduler: team count must be even")

const matchdayInterval = 7 * 24 * time.Hour

// BuildSeason produces a full double round-robin for leagueID: 2(n-1)
// matchdays for n teams, built with the canonical circle method. Rotation
// is anchored on the lexicographic sort of teamIDs so the schedule is a
// pure, reproducible function of its inputs; the second half mirrors the
// first with home and away swapped. Matchday k's kickoff is genesis +
// 7*(k-1) days.
func BuildSeason(leagueID string, teamIDs []string, season int, genesis time.Time, seed uint64) ([]fixture.Fixture, error) {
	n := len(teamIDs)
	if n == 0 {
		return nil, nil
	}
	if n%2 != 0 {
		return nil, ErrOddTeamCount
	}

	anchored := append([]string(nil), teamIDs...)
	sort.Strings(anchored)

	firstHalf := circleMethodRounds(anchored)
	matchdaysPerHalf := n - 1

	fixtures := make([]fixture.Fixture, 0, matchdaysPerHalf*2*(n/2))
	for half := 0; half < 2; half++ {
		for round := 0; round < matchdaysPerHalf; round++ {
			matchday := half*matchdaysPerHalf + round + 1
			kickAt := genesis.Add(time.Duration(matchday-1) * matchdayInterval)
			for _, pair := range firstHalf[round] {
				home, away := pair[0], pair[1]
				if half == 1 {
					home, away = away, home
				}
				fx := fixture.Fixture{
					ID:         id.NewDeterministic(fmt.Sprintf("fixture:%s:%d:%d:%s:%s", leagueID, season, matchday, home, away), seed),
					LeagueID:   leagueID,
					Season:     season,
					Matchday:   matchday,
					HomeTeamID: home,
					AwayTeamID: away,
					KickoffAt:  kickAt,
					Importance: fixture.ImportanceNormal,
				}
				fixtures = append(fixtures, fx)
			}
		}
	}
	return fixtures, nil
}

// circleMethodRounds runs the standard circle method over an even-length,
// already-sorted team slice and returns one round (a slice of [home,away]
// pairs) per element of the result, n-1 rounds total. Team 0 is pinned;
// the rest rotate one position per round.
func circleMethodRounds(teams []string) [][][2]string {
	n := len(teams)
	rounds := make([][][2]string, n-1)

	rotating := append([]string(nil), teams[1:]...)
	pinned := teams[0]

	for round := 0; round < n-1; round++ {
		var pairs [][2]string
		current := append([]string{pinned}, rotating...)
		half := n / 2
		for i := 0; i < half; i++ {
			home, away := current[i], current[n-1-i]
			if round%2 == 1 {
				home, away = away, home
			}
			pairs = append(pairs, [2]string{home, away})
		}
		rounds[round] = pairs

		if len(rotating) > 1 {
			last := rotating[len(rotating)-1]
			rotating = append([]string{last}, rotating[:len(rotating)-1]...)
		}
	}
	return rounds
}

// TotalMatchdays reports 2(n-1), the number of matchdays a double
// round-robin of n teams produces.
func TotalMatchdays(teamCount int) int {
	if teamCount < 2 {
		return 0
	}
	return 2 * (teamCount - 1)
}
