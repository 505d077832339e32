// Package matchsim is the match simulation engine: the deterministic,
// seed-driven hard core that turns two team snapshots into a minute-by-
// minute event stream and a sealed result.
package matchsim

import (
	"context"
	"fmt"
	"sort"

	"github.com/brackenfield/matchstate/internal/domain/eventlog"
	"github.com/brackenfield/matchstate/internal/domain/match"
)

// SimResult is Simulate's output: the ordered event stream (ending in
// exactly one MatchEnded, or instead a single MatchAborted on fatal
// failure), plus the pieces callers commonly want without re-walking the
// stream.
type SimResult struct {
	Events        []eventlog.Event
	HomeScore     int
	AwayScore     int
	Stats         eventlog.MatchStats
	Commentary    []string
	PlayerRatings []eventlog.PlayerRating
	Aborted       bool
	AbortReason   string
}

type runtimePlayer struct {
	PlayerSnapshot
	fitness     float64
	yellows     int
	redCarded   bool
	subbedOut   bool
	onField     bool
	rating      float64
	goals       int
	assists     int
}

type sideState struct {
	teamID      string
	xi          []*runtimePlayer
	bench       []*runtimePlayer
	subsUsed    int
	shots       int
	shotsOnTgt  int
	corners     int
	fouls       int
	offsides    int
	freeKicks   int
	strength    float64
}

// Simulate runs one deterministic match from in. State machine transitions
// (Created -> KickedOff -> Running -> Ended) are enforced explicitly; a
// violation (or an unformable starting XI) aborts the match and returns a
// result carrying a single MatchAborted event instead of MatchEnded, per
// the fatal-match rollback contract (the orchestrator appends no events
// for an aborted match besides this one).
func Simulate(ctx context.Context, in SimInput) (SimResult, error) {
	state := match.StateCreated

	homeXI, err := SelectStartingXI(in.Home.Players)
	if err != nil {
		return abort(in.MatchID, err.Error()), nil
	}
	awayXI, err := SelectStartingXI(in.Away.Players)
	if err != nil {
		return abort(in.MatchID, err.Error()), nil
	}

	if !transition(&state, match.StateKickedOff) {
		return abort(in.MatchID, fmt.Sprintf("%v: from %s to %s", ErrIllegalTransition, state, match.StateKickedOff)), nil
	}

	home := newSideState(in.Home.ID, homeXI, in.Home.Players)
	away := newSideState(in.Away.ID, awayXI, in.Away.Players)

	events := []eventlog.Event{
		{Kind: eventlog.KindMatchStarted, Payload: eventlog.MatchStarted{
			MatchID: in.MatchID, Weather: string(in.Weather),
		}},
	}
	var commentary []string

	if !transition(&state, match.StateRunning) {
		return abort(in.MatchID, fmt.Sprintf("%v: from %s to %s", ErrIllegalTransition, state, match.StateRunning)), nil
	}
	events = append(events, eventlog.Event{Kind: eventlog.KindKickOff, Payload: eventlog.KickOff{MatchID: in.MatchID, Minute: 0}})
	commentary = append(commentary, "0' - Kick-off")

	homeScore, awayScore := 0, 0
	possessionSamples := make([]float64, 0, 90)

	for minute := 1; minute <= 90; minute++ {
		select {
		case <-ctx.Done():
			return abort(in.MatchID, "cancelled"), nil
		default:
		}

		pHome := strengthShare(home.strength, away.strength, in.HomeAdvantage)
		jitter := in.Stream.Jitter(3)
		possessionSamples = append(possessionSamples, clampShare(pHome*100+jitter))

		pEvent := clampProb(BaseEventProbability * (0.8 + 0.4*(home.strength+away.strength)/200))
		if !in.Stream.Bool(pEvent) {
			drainFitness(home)
			drainFitness(away)
			continue
		}

		weights := availableWeights(home, away, minute)
		kind := weightedDraw(in.Stream, weights)

		attackingSide, defendingSide := pickAttackingSide(in.Stream, home, away, pHome)

		switch kind {
		case "Goal":
			scorer := pickScorer(in.Stream, attackingSide)
			var assistID string
			if in.Stream.Bool(AssistShare) {
				if a := pickAssist(in.Stream, attackingSide, scorer); a != nil {
					assistID = a.ID
					a.assists++
				}
			}
			if attackingSide == home {
				homeScore++
			} else {
				awayScore++
			}
			attackingSide.shots++
			attackingSide.shotsOnTgt++
			scorer.goals++
			events = append(events, eventlog.Event{Kind: eventlog.KindGoal, Payload: eventlog.Goal{
				MatchID: in.MatchID, Minute: minute, TeamID: attackingSide.teamID,
				ScorerID: scorer.ID, AssistID: assistID,
			}})
			commentary = append(commentary, fmt.Sprintf("%d' - Goal! %s scores for %s", minute, scorer.Name, attackingSide.teamID))

		case "Foul":
			fouler := pickByLowAttribute(in.Stream, defendingSide, func(p *runtimePlayer) int { return p.Defending })
			defendingSide.fouls++
			events = append(events, eventlog.Event{Kind: eventlog.KindFoul, Payload: eventlog.Foul{
				MatchID: in.MatchID, Minute: minute, TeamID: defendingSide.teamID, PlayerID: fouler.ID, Severity: "normal",
			}})
			commentary = append(commentary, fmt.Sprintf("%d' - Foul by %s", minute, fouler.Name))

		case "Yellow":
			culprit := pickByLowAttribute(in.Stream, defendingSide, func(p *runtimePlayer) int { return int(p.Morale) })
			culprit.yellows++
			events = append(events, eventlog.Event{Kind: eventlog.KindYellowCard, Payload: eventlog.YellowCard{
				MatchID: in.MatchID, Minute: minute, TeamID: defendingSide.teamID, PlayerID: culprit.ID,
			}})
			commentary = append(commentary, fmt.Sprintf("%d' - Yellow card for %s", minute, culprit.Name))
			if culprit.yellows >= 2 {
				culprit.redCarded = true
				culprit.onField = false
				events = append(events, eventlog.Event{Kind: eventlog.KindRedCard, Payload: eventlog.RedCard{
					MatchID: in.MatchID, Minute: minute, TeamID: defendingSide.teamID, PlayerID: culprit.ID, SecondYellow: true,
				}})
				commentary = append(commentary, fmt.Sprintf("%d' - Second yellow, %s is sent off", minute, culprit.Name))
			}

		case "Red":
			culprit := pickByLowAttribute(in.Stream, defendingSide, func(p *runtimePlayer) int { return int(p.Morale) })
			culprit.redCarded = true
			culprit.onField = false
			events = append(events, eventlog.Event{Kind: eventlog.KindRedCard, Payload: eventlog.RedCard{
				MatchID: in.MatchID, Minute: minute, TeamID: defendingSide.teamID, PlayerID: culprit.ID,
			}})
			commentary = append(commentary, fmt.Sprintf("%d' - Red card for %s", minute, culprit.Name))

		case "Substitution":
			side := attackingSide
			if minute < SubstitutionMinMinute || side.subsUsed >= MaxSubstitutionsPerTeam || len(side.bench) == 0 {
				break
			}
			off := lowestFitnessOnField(side)
			if off == nil {
				break
			}
			on := side.bench[0]
			side.bench = side.bench[1:]
			off.onField = false
			off.subbedOut = true
			on.onField = true
			side.subsUsed++
			events = append(events, eventlog.Event{Kind: eventlog.KindSubstitution, Payload: eventlog.Substitution{
				MatchID: in.MatchID, Minute: minute, TeamID: side.teamID, OffID: off.ID, OnID: on.ID,
			}})
			commentary = append(commentary, fmt.Sprintf("%d' - Substitution: %s off, %s on", minute, off.Name, on.Name))

		case "Corner":
			attackingSide.corners++
			events = append(events, eventlog.Event{Kind: eventlog.KindCornerKick, Payload: eventlog.CornerKick{
				MatchID: in.MatchID, Minute: minute, TeamID: attackingSide.teamID,
			}})
			commentary = append(commentary, fmt.Sprintf("%d' - Corner kick for %s", minute, attackingSide.teamID))

		case "FreeKick":
			direct := in.Stream.Bool(FreeKickDirectShare)
			dangerous := in.Stream.Bool(FreeKickDangerousShare)
			attackingSide.freeKicks++
			if dangerous {
				attackingSide.shots++
				if in.Stream.Bool(0.5) {
					attackingSide.shotsOnTgt++
				}
			}
			loc := "deep"
			if dangerous {
				loc = "dangerous area"
			}
			events = append(events, eventlog.Event{Kind: eventlog.KindFreeKick, Payload: eventlog.FreeKick{
				MatchID: in.MatchID, Minute: minute, TeamID: attackingSide.teamID, Direct: direct, Dangerous: dangerous, Location: loc,
			}})
			commentary = append(commentary, fmt.Sprintf("%d' - Free kick for %s", minute, attackingSide.teamID))

		case "Offside":
			attackingSide.offsides++
			offender := pickAnyOnField(in.Stream, attackingSide)
			events = append(events, eventlog.Event{Kind: eventlog.KindOffside, Payload: eventlog.Offside{
				MatchID: in.MatchID, Minute: minute, TeamID: attackingSide.teamID, PlayerID: offender.ID,
			}})
			commentary = append(commentary, fmt.Sprintf("%d' - %s flagged offside", minute, offender.Name))

		case "Injury":
			victim := pickAnyOnField(in.Stream, defendingSide)
			severity := "minor"
			if in.Stream.Bool(0.3) {
				severity = "major"
			}
			events = append(events, eventlog.Event{Kind: eventlog.KindInjury, Payload: eventlog.Injury{
				MatchID: in.MatchID, Minute: minute, TeamID: defendingSide.teamID, PlayerID: victim.ID, Severity: severity,
			}})
			commentary = append(commentary, fmt.Sprintf("%d' - %s goes down injured (%s)", minute, victim.Name, severity))

		case "Penalty":
			attackingSide.freeKicks++ // penalties count toward dead-ball total for stats purposes
			taker := pickScorer(in.Stream, attackingSide)
			scored := in.Stream.Bool(PenaltyConversionRate)
			events = append(events, eventlog.Event{Kind: eventlog.KindPenaltyAwarded, Payload: eventlog.PenaltyAwarded{
				MatchID: in.MatchID, Minute: minute, TeamID: attackingSide.teamID, Scored: scored, TakerID: taker.ID,
			}})
			commentary = append(commentary, fmt.Sprintf("%d' - Penalty awarded to %s", minute, attackingSide.teamID))
			attackingSide.shots++
			if scored {
				attackingSide.shotsOnTgt++
				if attackingSide == home {
					homeScore++
				} else {
					awayScore++
				}
				taker.goals++
				events = append(events, eventlog.Event{Kind: eventlog.KindGoal, Payload: eventlog.Goal{
					MatchID: in.MatchID, Minute: minute, SubMinute: 0.5, TeamID: attackingSide.teamID,
					ScorerID: taker.ID, Penalty: true,
				}})
				commentary = append(commentary, fmt.Sprintf("%d' - Penalty scored by %s", minute, taker.Name))
			} else {
				commentary = append(commentary, fmt.Sprintf("%d' - Penalty missed by %s", minute, taker.Name))
			}
		case "Idle":
			if in.Stream.Bool(0.3) {
				attackingSide.shots++
				if in.Stream.Bool(0.4) {
					attackingSide.shotsOnTgt++
				}
			}
		}

		drainFitness(home)
		drainFitness(away)
	}

	if !transition(&state, match.StateEnded) {
		return abort(in.MatchID, fmt.Sprintf("%v: from %s to %s", ErrIllegalTransition, state, match.StateEnded)), nil
	}

	possHome := meanOf(possessionSamples)
	stats := eventlog.MatchStats{
		PossessionHome:  possHome,
		PossessionAway:  100 - possHome,
		ShotsHome:       home.shots,
		ShotsAway:       away.shots,
		ShotsOnTargetH:  home.shotsOnTgt,
		ShotsOnTargetA:  away.shotsOnTgt,
		CornersHome:     home.corners,
		CornersAway:     away.corners,
		FoulsHome:       home.fouls,
		FoulsAway:       away.fouls,
		OffsidesHome:    home.offsides,
		OffsidesAway:    away.offsides,
		FreeKicksHome:   home.freeKicks,
		FreeKicksAway:   away.freeKicks,
	}
	stats.PenaltiesTaken, stats.PenaltiesScored = countPenalties(events)

	ratings := computeRatings(home, homeScore, awayScore)
	ratings = append(ratings, computeRatings(away, awayScore, homeScore)...)
	sort.SliceStable(ratings, func(i, j int) bool { return ratings[i].PlayerID < ratings[j].PlayerID })

	events = append(events, eventlog.Event{Kind: eventlog.KindMatchEnded, Payload: eventlog.MatchEnded{
		MatchID: in.MatchID, HomeID: in.Home.ID, AwayID: in.Away.ID,
		HomeScore: homeScore, AwayScore: awayScore,
		Stats: stats, Commentary: append([]string(nil), commentary...), PlayerRatings: ratings,
	}})

	return SimResult{
		Events: events, HomeScore: homeScore, AwayScore: awayScore,
		Stats: stats, Commentary: commentary, PlayerRatings: ratings,
	}, nil
}

func abort(matchID, reason string) SimResult {
	return SimResult{
		Aborted:     true,
		AbortReason: reason,
		Events: []eventlog.Event{
			{Kind: eventlog.KindMatchAborted, Payload: eventlog.MatchAborted{MatchID: matchID, Reason: reason}},
		},
	}
}

func transition(state *match.State, next match.State) bool {
	current := match.Match{State: *state}
	if !current.CanTransition(next) {
		return false
	}
	*state = next
	return true
}

func newSideState(teamID string, xi []PlayerSnapshot, full []PlayerSnapshot) *sideState {
	s := &sideState{teamID: teamID}
	xiIDs := make(map[string]struct{}, len(xi))
	for _, p := range xi {
		rp := &runtimePlayer{PlayerSnapshot: p, fitness: p.Fitness, onField: true}
		s.xi = append(s.xi, rp)
		xiIDs[p.ID] = struct{}{}
	}
	for _, p := range full {
		if _, in := xiIDs[p.ID]; in {
			continue
		}
		s.bench = append(s.bench, &runtimePlayer{PlayerSnapshot: p, fitness: p.Fitness})
	}
	sort.SliceStable(s.bench, func(i, j int) bool { return s.bench[i].ID < s.bench[j].ID })

	var total float64
	for _, p := range s.xi {
		total += float64(p.overallRating())
	}
	if len(s.xi) > 0 {
		s.strength = total / float64(len(s.xi))
	}
	return s
}

func strengthShare(homeStrength, awayStrength float64, homeAdvantage bool) float64 {
	h := homeStrength
	if homeAdvantage {
		h *= 1.1
	}
	total := h + awayStrength
	if total <= 0 {
		return 0.5
	}
	return h / total
}

func clampProb(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func clampShare(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func availableWeights(home, away *sideState, minute int) map[string]float64 {
	w := make(map[string]float64, len(EventWeights))
	for k, v := range EventWeights {
		w[k] = v
	}
	if minute < SubstitutionMinMinute || (home.subsUsed >= MaxSubstitutionsPerTeam && away.subsUsed >= MaxSubstitutionsPerTeam) {
		delete(w, "Substitution")
	}
	return w
}

func pickAttackingSide(s Stream, home, away *sideState, pHome float64) (*sideState, *sideState) {
	if s.Bool(pHome) {
		return home, away
	}
	return away, home
}

func onFieldPlayers(side *sideState) []*runtimePlayer {
	out := make([]*runtimePlayer, 0, len(side.xi))
	for _, p := range side.xi {
		if p.onField && !p.redCarded {
			out = append(out, p)
		}
	}
	return out
}

func pickScorer(s Stream, side *sideState) *runtimePlayer {
	candidates := onFieldPlayers(side)
	restrictToAttackers := s.Bool(AttackingScorerShare)
	pool := candidates
	if restrictToAttackers {
		var attackers []*runtimePlayer
		for _, p := range candidates {
			if p.Position.IsAttacking() {
				attackers = append(attackers, p)
			}
		}
		if len(attackers) > 0 {
			pool = attackers
		}
	}
	return weightedPlayerPick(s, pool, func(p *runtimePlayer) float64 {
		return float64(p.Shooting+p.Pace) + p.Form
	})
}

func pickAssist(s Stream, side *sideState, scorer *runtimePlayer) *runtimePlayer {
	var pool []*runtimePlayer
	for _, p := range onFieldPlayers(side) {
		if p.ID != scorer.ID {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		return nil
	}
	return weightedPlayerPick(s, pool, func(p *runtimePlayer) float64 { return float64(p.Passing) })
}

func pickByLowAttribute(s Stream, side *sideState, attr func(*runtimePlayer) int) *runtimePlayer {
	pool := onFieldPlayers(side)
	if len(pool) == 0 {
		return &runtimePlayer{PlayerSnapshot: PlayerSnapshot{ID: "unknown", Name: "unknown"}}
	}
	return weightedPlayerPick(s, pool, func(p *runtimePlayer) float64 {
		v := attr(p)
		return 1.0 / float64(v+1)
	})
}

func pickAnyOnField(s Stream, side *sideState) *runtimePlayer {
	pool := onFieldPlayers(side)
	if len(pool) == 0 {
		return &runtimePlayer{PlayerSnapshot: PlayerSnapshot{ID: "unknown", Name: "unknown"}}
	}
	return weightedPlayerPick(s, pool, func(p *runtimePlayer) float64 { return 1.0 })
}

func lowestFitnessOnField(side *sideState) *runtimePlayer {
	pool := onFieldPlayers(side)
	if len(pool) == 0 {
		return nil
	}
	lowest := pool[0]
	for _, p := range pool[1:] {
		if p.fitness < lowest.fitness || (p.fitness == lowest.fitness && p.ID < lowest.ID) {
			lowest = p
		}
	}
	return lowest
}

func weightedPlayerPick(s Stream, pool []*runtimePlayer, weight func(*runtimePlayer) float64) *runtimePlayer {
	if len(pool) == 0 {
		return &runtimePlayer{PlayerSnapshot: PlayerSnapshot{ID: "unknown", Name: "unknown"}}
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	weights := make(map[string]float64, len(pool))
	byTag := make(map[string]*runtimePlayer, len(pool))
	for _, p := range pool {
		w := weight(p)
		if w <= 0 {
			w = 0.001
		}
		weights[p.ID] = w
		byTag[p.ID] = p
	}
	tag := weightedDraw(s, weights)
	if tag == "" {
		return pool[0]
	}
	return byTag[tag]
}

func drainFitness(side *sideState) {
	for _, p := range side.xi {
		if p.onField {
			p.fitness -= 0.5
			if p.fitness < 0 {
				p.fitness = 0
			}
		}
	}
}

func meanOf(vs []float64) float64 {
	if len(vs) == 0 {
		return 50
	}
	var total float64
	for _, v := range vs {
		total += v
	}
	return total / float64(len(vs))
}

func countPenalties(events []eventlog.Event) (taken, scored int) {
	for _, e := range events {
		if pa, ok := e.Payload.(eventlog.PenaltyAwarded); ok {
			taken++
			if pa.Scored {
				scored++
			}
		}
	}
	return taken, scored
}

// computeRatings derives per-player ratings for one side per the fixed
// rating formula: base 6.0, +1.0/goal, +0.5/assist, -0.3/yellow,
// -1.5/red, keeper clean sheet +1.0, keeper concedes >3 -1.0, form bonus
// +-1.0 linear, fitness penalty up to -1.0 linear, clamped [1.0,10.0].
func computeRatings(side *sideState, goalsFor, goalsAgainst int) []eventlog.PlayerRating {
	out := make([]eventlog.PlayerRating, 0, len(side.xi))
	for _, p := range side.xi {
		rating := 6.0
		rating += float64(p.goals) * 1.0
		rating += float64(p.assists) * 0.5
		rating -= float64(p.yellows) * 0.3
		if p.redCarded {
			rating -= 1.5
		}
		if p.Position.IsGoalkeeper() {
			if goalsAgainst == 0 {
				rating += 1.0
			}
			if goalsAgainst > 3 {
				rating -= 1.0
			}
		}
		rating += (p.Form/100)*2.0 - 1.0
		rating -= ((100 - p.Fitness) / 100) * 1.0
		rating = clampRating(rating)
		out = append(out, eventlog.PlayerRating{PlayerID: p.ID, Rating: roundOneDecimal(rating)})
	}
	return out
}

func clampRating(v float64) float64 {
	if v < 1.0 {
		return 1.0
	}
	if v > 10.0 {
		return 10.0
	}
	return v
}

func roundOneDecimal(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
