// Package softstate validates LLM-collaborator proposals before they are
// allowed to become SoftStateUpdated events. No proposal reaches the world
// without passing Validate.
package softstate

// TargetKind names the entity kind a proposal addresses.
type TargetKind string

const (
	TargetPlayer TargetKind = "player"
	TargetTeam   TargetKind = "team"
)

// Target identifies the entity a proposal mutates.
type Target struct {
	Kind TargetKind `validate:"required,oneof=player team"`
	ID   string     `validate:"required"`
}

// Proposal is one soft-state adjustment offered by the collaborator.
type Proposal struct {
	Target Target  `validate:"required"`
	Field  string  `validate:"required"`
	Value  float64
	Phase  string
}

// bounds for fields writable on both player and team targets.
var sharedBounds = map[string][2]float64{
	"form":             {0, 100},
	"morale":           {0, 100},
	"fitness":          {0, 100},
	"public_approval":  {0, 100},
	"team_rapport":     {0, 100},
	"reputation":       {1, 100},
}

var teamOnlyBounds = map[string][2]float64{
	"tactical_familiarity": {0, 100},
}

// notWritable lists derived-only fields: no proposal may target them
// regardless of target kind.
var notWritable = map[string]struct{}{
	"recent_form":   {},
	"head_to_head":  {},
}

// reputationMaxDelta is the per-matchday cap on a reputation change (§4.7).
const reputationMaxDelta = 5.0

// ValidateResult is the outcome of validating one proposal against a
// known-current value.
type ValidateResult struct {
	Accepted    bool
	ClampedTo   float64
	RejectReason string
}

// Validate checks a proposal's target/field against the known bounds and
// clamps Value into range. currentValue is the entity's value for Field
// before this proposal, used to cap reputation deltas. Unknown
// target/field combinations are rejected, never panicking.
func Validate(p Proposal, currentValue float64) ValidateResult {
	if p.Target.Kind != TargetPlayer && p.Target.Kind != TargetTeam {
		return ValidateResult{RejectReason: "unknown target kind"}
	}
	if p.Target.ID == "" {
		return ValidateResult{RejectReason: "missing target id"}
	}
	if _, blocked := notWritable[p.Field]; blocked {
		return ValidateResult{RejectReason: "field is derived-only"}
	}

	bounds, ok := sharedBounds[p.Field]
	if !ok && p.Target.Kind == TargetTeam {
		bounds, ok = teamOnlyBounds[p.Field]
	}
	if !ok {
		return ValidateResult{RejectReason: "unknown field for target"}
	}
	if p.Target.Kind == TargetPlayer {
		if _, isTeamOnly := teamOnlyBounds[p.Field]; isTeamOnly {
			return ValidateResult{RejectReason: "field not writable on player"}
		}
	}

	value := p.Value
	if p.Field == "reputation" {
		delta := value - currentValue
		if delta > reputationMaxDelta {
			value = currentValue + reputationMaxDelta
		} else if delta < -reputationMaxDelta {
			value = currentValue - reputationMaxDelta
		}
	}

	lo, hi := bounds[0], bounds[1]
	if value < lo {
		value = lo
	}
	if value > hi {
		value = hi
	}

	return ValidateResult{Accepted: true, ClampedTo: value}
}
