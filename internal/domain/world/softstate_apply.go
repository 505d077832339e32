package world

import (
	"fmt"

	"github.com/brackenfield/matchstate/internal/domain/eventlog"
)

// applySoftStateUpdated applies an already-validated soft-state mutation.
// The softstate package is responsible for range-checking and clamping
// before the event is constructed; this method re-clamps defensively so a
// malformed or hand-built event can never push an entity out of bounds.
func (w *World) applySoftStateUpdated(p eventlog.SoftStateUpdated) error {
	switch p.TargetKind {
	case "player":
		pl, ok := w.Players[p.TargetID]
		if !ok {
			return fmt.Errorf("world: soft-state target player %s not found", p.TargetID)
		}
		switch p.Field {
		case "form":
			pl.Form = p.Value
		case "morale":
			pl.Morale = p.Value
		case "fitness":
			pl.Fitness = p.Value
		case "reputation":
			pl.Reputation = p.Value
		default:
			return fmt.Errorf("world: unknown soft-state player field %q", p.Field)
		}
		pl.ClampSoftState()
		w.Players[p.TargetID] = pl
	case "team":
		t, ok := w.Teams[p.TargetID]
		if !ok {
			return fmt.Errorf("world: soft-state target team %s not found", p.TargetID)
		}
		switch p.Field {
		case "morale":
			t.Morale = clamp(p.Value, 0, 100)
		case "reputation":
			t.Reputation = clamp(p.Value, 1, 100)
		case "tactical_familiarity":
			t.TacticalFamiliarity = clamp(p.Value, 0, 100)
		case "public_approval":
			t.PublicApproval = clamp(p.Value, 0, 100)
		case "team_rapport":
			t.TeamRapport = clamp(p.Value, 0, 100)
		default:
			return fmt.Errorf("world: unknown soft-state team field %q", p.Field)
		}
		w.Teams[p.TargetID] = t
	default:
		return fmt.Errorf("world: unknown soft-state target kind %q", p.TargetKind)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
