package llm

import (
	"context"
	"sort"

	"github.com/brackenfield/matchstate/internal/domain/softstate"
	"github.com/brackenfield/matchstate/internal/domain/world"
	"github.com/brackenfield/matchstate/internal/platform/rng"
)

// OfflineClient is a deterministic, seed-keyed stand-in for the HTTP
// collaborator: no network call, same Client contract. It nudges each
// team's morale by a small rng-derived amount (players are left alone) so
// tests exercise the full soft-state pipeline without a live provider.
type OfflineClient struct {
	Seed uint64
}

// Propose derives a stream from (c.Seed, or snapshot.Seed when c.Seed is
// zero, mctx.Phase, mctx.Matchday), takes one sub-stream per team, and
// produces one small morale nudge per team in the league, in stable id
// order, so repeated calls for the same inputs are byte-identical.
func (c OfflineClient) Propose(_ context.Context, snapshot *world.World, mctx MatchdayContext) ([]softstate.Proposal, error) {
	league, ok := snapshot.Leagues[mctx.LeagueID]
	if !ok {
		return nil, nil
	}

	seed := c.Seed
	if seed == 0 {
		seed = snapshot.Seed
	}
	stream := rng.Derive(seed, "offline-collaborator", mctx.Phase, itoa(mctx.Matchday))

	teamIDs := append([]string(nil), league.TeamIDs...)
	sort.Strings(teamIDs)

	proposals := make([]softstate.Proposal, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		t, ok := snapshot.Teams[teamID]
		if !ok {
			continue
		}
		nudge := stream.Sub(teamID).Jitter(4)
		proposals = append(proposals, softstate.Proposal{
			Target: softstate.Target{Kind: softstate.TargetTeam, ID: teamID},
			Field:  "morale",
			Value:  t.Morale + nudge,
			Phase:  mctx.Phase,
		})
	}
	return proposals, nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}
