// Package llm defines the soft-state collaborator contract and its
// concrete bindings: a real HTTP-backed provider and an offline,
// deterministic stand-in satisfying the same interface for tests and CI.
package llm

import (
	"context"

	"github.com/brackenfield/matchstate/internal/domain/softstate"
	"github.com/brackenfield/matchstate/internal/domain/world"
)

// MatchdayContext is the narrative context handed to the collaborator
// alongside a read-only world snapshot: which matchday is being previewed
// or recapped, and the phase ("pre_match" or "post_match").
type MatchdayContext struct {
	LeagueID string
	Matchday int
	Phase    string
	MatchIDs []string
}

// Client is the soft-state collaborator contract. Implementations never
// mutate world directly — every proposal is validated by softstate.Validate
// before becoming a SoftStateUpdated event.
type Client interface {
	Propose(ctx context.Context, snapshot *world.World, mctx MatchdayContext) ([]softstate.Proposal, error)
}
