package matchsim

import (
	"github.com/brackenfield/matchstate/internal/domain/match"
	"github.com/brackenfield/matchstate/internal/domain/player"
)

// PlayerSnapshot is an immutable-by-convention copy of a player's
// attributes fed into one match simulation. Engine-local mutable state
// (fitness drain, cards) is carried in runtimePlayer, never written back
// onto this snapshot.
type PlayerSnapshot struct {
	ID          string
	Name        string
	Position    player.Position
	Pace        int
	Shooting    int
	Passing     int
	Defending   int
	Physicality int
	Form        float64
	Morale      float64
	Fitness     float64
}

// TeamSnapshot is one side's immutable input to Simulate.
type TeamSnapshot struct {
	ID      string
	Name    string
	Players []PlayerSnapshot
}

// SimInput is everything Simulate needs to produce a deterministic result.
// Stream must be derived by the caller from (world.seed, match.id) per the
// seeded-RNG contract; Simulate never derives its own seed.
type SimInput struct {
	MatchID       string
	LeagueID      string
	Matchday      int
	Home          TeamSnapshot
	Away          TeamSnapshot
	Stream        Stream
	Weather       match.Weather
	HomeAdvantage bool
}

// Stream is the subset of rng.Stream the engine depends on, kept as an
// interface so tests can substitute a fixed sequence without touching the
// real seeded generator.
type Stream interface {
	Intn(n int) int
	Float64() float64
	Bool(p float64) bool
	Jitter(amplitude float64) float64
}

// WeightedItem mirrors rng.Weighted without importing rng here, so this
// package's exported surface doesn't leak the platform dependency choice.
type WeightedItem struct {
	Tag    string
	Weight float64
}
