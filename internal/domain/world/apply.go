package world

import (
	"fmt"

	"github.com/brackenfield/matchstate/internal/domain/eventlog"
	"github.com/brackenfield/matchstate/internal/domain/match"
	"github.com/brackenfield/matchstate/internal/domain/player"
	"github.com/brackenfield/matchstate/internal/domain/team"
)

// Apply is the single mutating pathway into the world: pure over
// (world, event) and idempotent under repeated application of the same
// event sequence, which is what makes replay identity hold.
func (w *World) Apply(evt eventlog.Event) error {
	switch p := evt.Payload.(type) {
	case eventlog.MatchScheduled:
		w.applyMatchScheduled(p)
	case eventlog.MatchStarted:
		w.applyMatchStarted(p)
	case eventlog.KickOff:
		w.applyKickOff(p)
	case eventlog.Goal:
		w.applyGoal(p)
	case eventlog.YellowCard:
		w.applyYellowCard(p)
	case eventlog.RedCard:
		w.applyRedCard(p)
	case eventlog.Injury:
		w.applyInjury(p)
	case eventlog.Substitution, eventlog.CornerKick, eventlog.Foul,
		eventlog.FreeKick, eventlog.PenaltyAwarded, eventlog.Offside:
		// Minute-level flavor events: folded into MatchEnded.Stats by the
		// engine: no standalone world mutation.
	case eventlog.MatchEnded:
		w.applyMatchEnded(p)
	case eventlog.MatchAborted:
		// No mutation: the orchestrator never appends events for the
		// match's partial state, per the fatal-match rollback contract.
	case eventlog.HeadToHeadUpdated:
		w.applyHeadToHeadUpdated(p)
	case eventlog.SoftStateUpdated:
		if err := w.applySoftStateUpdated(p); err != nil {
			return err
		}
	case eventlog.ValidationFailed:
		// Log-only: no state change by construction.
	case eventlog.SeasonEnded:
		w.applySeasonEnded(p)
	case eventlog.MediaStory, eventlog.OwnerStatement:
		// Narrative-only events: no bound world field to mutate.
	default:
		return fmt.Errorf("world: unhandled event payload kind %q", evt.Kind)
	}
	return nil
}

func (w *World) applyMatchScheduled(p eventlog.MatchScheduled) {
	m := w.Matches[p.MatchID]
	m.ID = p.MatchID
	m.LeagueID = p.LeagueID
	m.Matchday = p.Matchday
	m.HomeTeamID = p.HomeID
	m.AwayTeamID = p.AwayID
	if m.State == "" {
		m.State = match.StateCreated
	}
	w.Matches[p.MatchID] = m
}

func (w *World) applyMatchStarted(p eventlog.MatchStarted) {
	m := w.Matches[p.MatchID]
	m.Weather = match.Weather(p.Weather)
	m.State = match.StateKickedOff
	w.Matches[p.MatchID] = m
}

func (w *World) applyKickOff(p eventlog.KickOff) {
	m := w.Matches[p.MatchID]
	m.State = match.StateRunning
	w.Matches[p.MatchID] = m
}

func (w *World) applyGoal(p eventlog.Goal) {
	if pl, ok := w.Players[p.ScorerID]; ok {
		st := pl.SeasonStats[w.Season]
		st.Goals++
		if pl.SeasonStats == nil {
			pl.SeasonStats = make(map[int]player.SeasonStats)
		}
		pl.SeasonStats[w.Season] = st
		w.Players[p.ScorerID] = pl
	}
	if p.AssistID != "" {
		if pl, ok := w.Players[p.AssistID]; ok {
			if pl.SeasonStats == nil {
				pl.SeasonStats = make(map[int]player.SeasonStats)
			}
			st := pl.SeasonStats[w.Season]
			st.Assists++
			pl.SeasonStats[w.Season] = st
			w.Players[p.AssistID] = pl
		}
	}
}

func (w *World) applyYellowCard(p eventlog.YellowCard) {
	if pl, ok := w.Players[p.PlayerID]; ok {
		pl.YellowsSeason++
		if pl.SeasonStats == nil {
			pl.SeasonStats = make(map[int]player.SeasonStats)
		}
		st := pl.SeasonStats[w.Season]
		st.Yellows++
		pl.SeasonStats[w.Season] = st
		w.Players[p.PlayerID] = pl
	}
}

func (w *World) applyRedCard(p eventlog.RedCard) {
	if pl, ok := w.Players[p.PlayerID]; ok {
		pl.RedsSeason++
		if pl.SeasonStats == nil {
			pl.SeasonStats = make(map[int]player.SeasonStats)
		}
		st := pl.SeasonStats[w.Season]
		st.Reds++
		pl.SeasonStats[w.Season] = st
		w.Players[p.PlayerID] = pl
	}
}

func (w *World) applyInjury(p eventlog.Injury) {
	if pl, ok := w.Players[p.PlayerID]; ok {
		pl.Injured = true
		pl.InjuryHistory = append(pl.InjuryHistory, player.InjuryRecord{
			Season:   w.Season,
			Severity: p.Severity,
		})
		w.Players[p.PlayerID] = pl
	}
}

func (w *World) applyMatchEnded(p eventlog.MatchEnded) {
	m := w.Matches[p.MatchID]
	m.Finished = true
	m.State = match.StateEnded
	m.HomeScore = p.HomeScore
	m.AwayScore = p.AwayScore
	w.Matches[p.MatchID] = m

	if fx, ok := w.Fixtures[p.MatchID]; ok {
		fx.Played = true
		w.Fixtures[p.MatchID] = fx
	}

	home := w.Teams[p.HomeID]
	away := w.Teams[p.AwayID]

	home.GoalsFor += p.HomeScore
	home.GoalsAgainst += p.AwayScore
	away.GoalsFor += p.AwayScore
	away.GoalsAgainst += p.HomeScore

	switch {
	case p.HomeScore > p.AwayScore:
		home.Wins++
		home.HomeWins++
		away.Losses++
		away.AwayLosses++
		home.PushForm(team.ResultWin)
		away.PushForm(team.ResultLoss)
		recordStreak(&home, team.ResultWin)
		recordStreak(&away, team.ResultLoss)
	case p.HomeScore < p.AwayScore:
		away.Wins++
		away.AwayWins++
		home.Losses++
		home.HomeLosses++
		home.PushForm(team.ResultLoss)
		away.PushForm(team.ResultWin)
		recordStreak(&home, team.ResultLoss)
		recordStreak(&away, team.ResultWin)
	default:
		home.Draws++
		home.HomeDraws++
		away.Draws++
		away.AwayDraws++
		home.PushForm(team.ResultDraw)
		away.PushForm(team.ResultDraw)
		recordStreak(&home, team.ResultDraw)
		recordStreak(&away, team.ResultDraw)
	}

	if p.AwayScore == 0 {
		home.CleanSheets++
	}
	if p.HomeScore == 0 {
		away.CleanSheets++
	}

	w.Teams[p.HomeID] = home
	w.Teams[p.AwayID] = away

	for _, r := range p.PlayerRatings {
		pl, ok := w.Players[r.PlayerID]
		if !ok {
			continue
		}
		if pl.SeasonStats == nil {
			pl.SeasonStats = make(map[int]player.SeasonStats)
		}
		st := pl.SeasonStats[w.Season]
		prevApps := st.Apps
		st.Apps++
		st.Minutes += 90
		st.AvgRating = (st.AvgRating*float64(prevApps) + r.Rating) / float64(st.Apps)
		pl.SeasonStats[w.Season] = st
		w.Players[r.PlayerID] = pl
	}
}

func recordStreak(t *team.Team, r team.Result) {
	if t.CurrentStreak.CurrentKind == r {
		t.CurrentStreak.Current++
	} else {
		t.CurrentStreak.CurrentKind = r
		t.CurrentStreak.Current = 1
	}
	switch r {
	case team.ResultWin:
		if t.CurrentStreak.Current > t.LongestWinStreak {
			t.LongestWinStreak = t.CurrentStreak.Current
		}
	case team.ResultLoss:
		if t.CurrentStreak.Current > t.LongestLossStreak {
			t.LongestLossStreak = t.CurrentStreak.Current
		}
	}
}

func (w *World) applyHeadToHeadUpdated(p eventlog.HeadToHeadUpdated) {
	t, ok := w.Teams[p.TeamID]
	if !ok {
		return
	}
	t.RecordHeadToHead(p.OpponentID, team.Result(p.Result))
	w.Teams[p.TeamID] = t
}

func (w *World) applySeasonEnded(p eventlog.SeasonEnded) {
	l, ok := w.Leagues[p.LeagueID]
	if !ok {
		return
	}
	if l.ChampionsBySeason == nil {
		l.ChampionsBySeason = make(map[int]string)
	}
	if l.TopScorersBySeason == nil {
		l.TopScorersBySeason = make(map[int]string)
	}
	l.ChampionsBySeason[p.Season] = p.ChampionID
	l.TopScorersBySeason[p.Season] = p.TopScorerID
	w.Leagues[p.LeagueID] = l
}
