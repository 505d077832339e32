package matchsim

import (
	"sort"

	"github.com/brackenfield/matchstate/internal/domain/player"
)

// overallRating mirrors player.Player.OverallRating for a PlayerSnapshot,
// which carries only the raw attributes (no Player value to call it on).
func (p PlayerSnapshot) overallRating() int {
	if p.Position.IsGoalkeeper() {
		return (p.Defending*2 + p.Physicality*2 + p.Pace + 2) / 5
	}
	return (p.Pace + p.Shooting + p.Passing + p.Defending + p.Physicality + 2) / 5
}

// SelectStartingXI picks 11 players from squad by overall rating, subject
// to: exactly one GK, at least three defenders, at least one forward
// (attacking position). Returns ErrCannotFormStartingXI if the squad
// cannot satisfy these constraints.
func SelectStartingXI(squad []PlayerSnapshot) ([]PlayerSnapshot, error) {
	ranked := append([]PlayerSnapshot(nil), squad...)
	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := ranked[i].overallRating(), ranked[j].overallRating()
		if ri != rj {
			return ri > rj
		}
		return ranked[i].ID < ranked[j].ID
	})

	var gks, defs, atts, rest []PlayerSnapshot
	for _, p := range ranked {
		switch {
		case p.Position.IsGoalkeeper():
			gks = append(gks, p)
		case p.Position.IsDefender():
			defs = append(defs, p)
		case p.Position.IsAttacking():
			atts = append(atts, p)
		default:
			rest = append(rest, p)
		}
	}

	if len(gks) < 1 || len(defs) < 3 || len(atts) < 1 {
		return nil, ErrCannotFormStartingXI
	}

	xi := []PlayerSnapshot{gks[0]}
	xi = append(xi, defs[:3]...)
	xi = append(xi, atts[0])

	used := map[string]struct{}{xi[0].ID: {}}
	for _, p := range xi[1:] {
		used[p.ID] = struct{}{}
	}

	pool := make([]PlayerSnapshot, 0, len(ranked))
	pool = append(pool, defs[3:]...)
	pool = append(pool, atts[1:]...)
	pool = append(pool, rest...)
	sort.SliceStable(pool, func(i, j int) bool {
		ri, rj := pool[i].overallRating(), pool[j].overallRating()
		if ri != rj {
			return ri > rj
		}
		return pool[i].ID < pool[j].ID
	})

	for _, p := range pool {
		if len(xi) == 11 {
			break
		}
		if _, dup := used[p.ID]; dup {
			continue
		}
		xi = append(xi, p)
		used[p.ID] = struct{}{}
	}

	if len(xi) < 11 {
		return nil, ErrCannotFormStartingXI
	}
	return xi, nil
}

// ToSnapshot converts a domain player into the engine's attribute-only
// input shape.
func ToSnapshot(p player.Player) PlayerSnapshot {
	return PlayerSnapshot{
		ID:          p.ID,
		Name:        p.Name,
		Position:    p.Position,
		Pace:        p.Pace,
		Shooting:    p.Shooting,
		Passing:     p.Passing,
		Defending:   p.Defending,
		Physicality: p.Physicality,
		Form:        p.Form,
		Morale:      p.Morale,
		Fitness:     p.Fitness,
	}
}
