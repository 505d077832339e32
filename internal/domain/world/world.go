// Package world holds the World aggregate: the single root that owns every
// entity in the simulated football universe. Components borrow read-only
// snapshots; the only mutating pathway is Apply(event).
package world

import (
	"time"

	"github.com/brackenfield/matchstate/internal/domain/club"
	"github.com/brackenfield/matchstate/internal/domain/fixture"
	"github.com/brackenfield/matchstate/internal/domain/league"
	"github.com/brackenfield/matchstate/internal/domain/match"
	"github.com/brackenfield/matchstate/internal/domain/media"
	"github.com/brackenfield/matchstate/internal/domain/player"
	"github.com/brackenfield/matchstate/internal/domain/team"
)

// World is the root aggregate. Every id referenced from within must be
// resolvable inside the world (invariant enforced by callers constructing
// events only from entities already present).
type World struct {
	Season      int
	CurrentDate time.Time
	Seed        uint64

	Leagues  map[string]league.League
	Teams    map[string]team.Team
	Players  map[string]player.Player
	Matches  map[string]match.Match
	Fixtures map[string]fixture.Fixture

	Owners       map[string]club.Owner
	Staff        map[string][]club.Staff
	MediaOutlets map[string]media.MediaOutlet
}

// New constructs an empty world ready for genesis population.
func New(seed uint64, genesis time.Time) *World {
	return &World{
		Season:       1,
		CurrentDate:  genesis,
		Seed:         seed,
		Leagues:      make(map[string]league.League),
		Teams:        make(map[string]team.Team),
		Players:      make(map[string]player.Player),
		Matches:      make(map[string]match.Match),
		Fixtures:     make(map[string]fixture.Fixture),
		Owners:       make(map[string]club.Owner),
		Staff:        make(map[string][]club.Staff),
		MediaOutlets: make(map[string]media.MediaOutlet),
	}
}

// Snapshot returns a deep copy usable as a read-only view, satisfying the
// "copy-on-write snapshot" read path from the concurrency model: callers
// may hold this indefinitely without blocking the driver's writes.
func (w *World) Snapshot() *World {
	out := &World{
		Season:       w.Season,
		CurrentDate:  w.CurrentDate,
		Seed:         w.Seed,
		Leagues:      make(map[string]league.League, len(w.Leagues)),
		Teams:        make(map[string]team.Team, len(w.Teams)),
		Players:      make(map[string]player.Player, len(w.Players)),
		Matches:      make(map[string]match.Match, len(w.Matches)),
		Fixtures:     make(map[string]fixture.Fixture, len(w.Fixtures)),
		Owners:       make(map[string]club.Owner, len(w.Owners)),
		Staff:        make(map[string][]club.Staff, len(w.Staff)),
		MediaOutlets: make(map[string]media.MediaOutlet, len(w.MediaOutlets)),
	}
	for k, v := range w.Leagues {
		cp := v
		cp.TeamIDs = append([]string(nil), v.TeamIDs...)
		cp.FixturesByMatchday = copyIntStringSliceMap(v.FixturesByMatchday)
		cp.ChampionsBySeason = copyIntStringMap(v.ChampionsBySeason)
		cp.TopScorersBySeason = copyIntStringMap(v.TopScorersBySeason)
		out.Leagues[k] = cp
	}
	for k, v := range w.Teams {
		cp := v
		cp.Squad = append([]string(nil), v.Squad...)
		cp.RecentForm = append([]team.Result(nil), v.RecentForm...)
		cp.HeadToHead = make(map[string]team.HeadToHeadRecord, len(v.HeadToHead))
		for opp, rec := range v.HeadToHead {
			cp.HeadToHead[opp] = rec
		}
		out.Teams[k] = cp
	}
	for k, v := range w.Players {
		cp := v
		cp.SeasonStats = make(map[int]player.SeasonStats, len(v.SeasonStats))
		for s, st := range v.SeasonStats {
			cp.SeasonStats[s] = st
		}
		cp.InjuryHistory = append([]player.InjuryRecord(nil), v.InjuryHistory...)
		cp.Awards = append([]string(nil), v.Awards...)
		cp.Traits = make(map[string]struct{}, len(v.Traits))
		for t := range v.Traits {
			cp.Traits[t] = struct{}{}
		}
		out.Players[k] = cp
	}
	for k, v := range w.Matches {
		out.Matches[k] = v
	}
	for k, v := range w.Fixtures {
		out.Fixtures[k] = v
	}
	for k, v := range w.Owners {
		out.Owners[k] = v
	}
	for k, v := range w.Staff {
		out.Staff[k] = append([]club.Staff(nil), v...)
	}
	for k, v := range w.MediaOutlets {
		out.MediaOutlets[k] = v
	}
	return out
}

func copyIntStringSliceMap(in map[int][]string) map[int][]string {
	if in == nil {
		return nil
	}
	out := make(map[int][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func copyIntStringMap(in map[int]string) map[int]string {
	if in == nil {
		return nil
	}
	out := make(map[int]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
