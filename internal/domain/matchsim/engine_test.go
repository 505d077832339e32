package matchsim

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brackenfield/matchstate/internal/domain/eventlog"
	"github.com/brackenfield/matchstate/internal/domain/match"
	"github.com/brackenfield/matchstate/internal/domain/player"
)

// fixedStream is a deterministic, seedable Stream for tests, independent of
// the real rng.Stream implementation.
type fixedStream struct{ r *rand.Rand }

func newFixedStream(seed uint64) *fixedStream {
	return &fixedStream{r: rand.New(rand.NewPCG(seed, seed^0xdeadbeef))}
}

func (s *fixedStream) Intn(n int) int        { return s.r.IntN(n) }
func (s *fixedStream) Float64() float64      { return s.r.Float64() }
func (s *fixedStream) Bool(p float64) bool   { return s.r.Float64() < p }
func (s *fixedStream) Jitter(amp float64) float64 {
	return (s.r.Float64()*2 - 1) * amp
}

func buildSquad(teamID string, n int) []PlayerSnapshot {
	squad := make([]PlayerSnapshot, 0, n)
	positions := []player.Position{
		player.PositionGK,
		player.PositionCB, player.PositionCB, player.PositionLB, player.PositionRB,
		player.PositionCM, player.PositionCM, player.PositionLM,
		player.PositionST, player.PositionLW, player.PositionRW,
	}
	for i := 0; i < n; i++ {
		pos := positions[i%len(positions)]
		squad = append(squad, PlayerSnapshot{
			ID:          teamID + "-p" + itoa(i),
			Name:        teamID + " Player " + itoa(i),
			Position:    pos,
			Pace:        60 + i%20,
			Shooting:    55 + i%25,
			Passing:     60 + i%20,
			Defending:   50 + i%30,
			Physicality: 60 + i%15,
			Form:        50,
			Morale:      50,
			Fitness:     100,
		})
	}
	return squad
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

func TestSimulateProducesExactlyOneMatchEnded(t *testing.T) {
	in := SimInput{
		MatchID:       "m1",
		LeagueID:      "l1",
		Matchday:      1,
		Home:          TeamSnapshot{ID: "home", Name: "Home FC", Players: buildSquad("home", 16)},
		Away:          TeamSnapshot{ID: "away", Name: "Away FC", Players: buildSquad("away", 16)},
		Stream:        newFixedStream(1),
		Weather:       match.WeatherSunny,
		HomeAdvantage: true,
	}

	result, err := Simulate(context.Background(), in)
	require.NoError(t, err)
	require.False(t, result.Aborted)

	endedCount := 0
	var lastKind string
	for _, e := range result.Events {
		if e.Kind == eventlog.KindMatchEnded {
			endedCount++
		}
		lastKind = e.Kind
	}
	require.Equal(t, 1, endedCount)
	require.Equal(t, eventlog.KindMatchEnded, lastKind)
}

func TestSimulateConservation(t *testing.T) {
	in := SimInput{
		MatchID: "m2", LeagueID: "l1", Matchday: 1,
		Home: TeamSnapshot{ID: "home", Players: buildSquad("home", 16)},
		Away: TeamSnapshot{ID: "away", Players: buildSquad("away", 16)},
		Stream: newFixedStream(7), Weather: match.WeatherCloudy,
	}
	result, err := Simulate(context.Background(), in)
	require.NoError(t, err)

	goals := 0
	for _, e := range result.Events {
		if e.Kind == eventlog.KindGoal {
			goals++
		}
	}
	require.Equal(t, result.HomeScore+result.AwayScore, goals)
	require.GreaterOrEqual(t, result.Stats.ShotsOnTargetH, 0)
	require.GreaterOrEqual(t, result.Stats.ShotsHome, result.Stats.ShotsOnTargetH)
	require.GreaterOrEqual(t, result.Stats.ShotsAway, result.Stats.ShotsOnTargetA)
	require.GreaterOrEqual(t, result.Stats.PenaltiesTaken, result.Stats.PenaltiesScored)
	require.InDelta(t, 100, result.Stats.PossessionHome+result.Stats.PossessionAway, 0.001)
}

func TestSimulatePlayerRatingsWithinBounds(t *testing.T) {
	in := SimInput{
		MatchID: "m3", LeagueID: "l1", Matchday: 1,
		Home: TeamSnapshot{ID: "home", Players: buildSquad("home", 16)},
		Away: TeamSnapshot{ID: "away", Players: buildSquad("away", 16)},
		Stream: newFixedStream(123), Weather: match.WeatherRainy,
	}
	result, err := Simulate(context.Background(), in)
	require.NoError(t, err)
	require.NotEmpty(t, result.PlayerRatings)
	for _, r := range result.PlayerRatings {
		require.GreaterOrEqual(t, r.Rating, 1.0)
		require.LessOrEqual(t, r.Rating, 10.0)
	}
}

func TestSimulateDeterministicGivenSameStreamSequence(t *testing.T) {
	build := func() SimInput {
		return SimInput{
			MatchID: "m4", LeagueID: "l1", Matchday: 1,
			Home: TeamSnapshot{ID: "home", Players: buildSquad("home", 16)},
			Away: TeamSnapshot{ID: "away", Players: buildSquad("away", 16)},
			Stream: newFixedStream(555), Weather: match.WeatherWindy,
		}
	}
	r1, err := Simulate(context.Background(), build())
	require.NoError(t, err)
	r2, err := Simulate(context.Background(), build())
	require.NoError(t, err)
	require.Equal(t, r1.HomeScore, r2.HomeScore)
	require.Equal(t, r1.AwayScore, r2.AwayScore)
	require.Equal(t, len(r1.Events), len(r2.Events))
}

func TestSimulateAbortsOnUnformableStartingXI(t *testing.T) {
	in := SimInput{
		MatchID: "m5", LeagueID: "l1", Matchday: 1,
		Home: TeamSnapshot{ID: "home", Players: []PlayerSnapshot{{ID: "p1", Position: player.PositionST}}},
		Away: TeamSnapshot{ID: "away", Players: buildSquad("away", 16)},
		Stream: newFixedStream(1), Weather: match.WeatherSunny,
	}
	result, err := Simulate(context.Background(), in)
	require.NoError(t, err)
	require.True(t, result.Aborted)
	require.Len(t, result.Events, 1)
	require.Equal(t, eventlog.KindMatchAborted, result.Events[0].Kind)
}
