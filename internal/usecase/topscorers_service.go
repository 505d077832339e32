package usecase

import (
	"sort"

	"github.com/brackenfield/matchstate/internal/domain/world"
)

// PlayerTally is one player's goal/assist count for a season, used for
// top-scorer and top-assister projections.
type PlayerTally struct {
	PlayerID string
	Name     string
	TeamID   string
	Goals    int
	Assists  int
}

// DefenseRow is one team's clean-sheet standing for best-defense projections.
type DefenseRow struct {
	TeamID       string
	Name         string
	CleanSheets  int
	GoalsAgainst int
}

// TopScorersService projects goal/assist/clean-sheet leaderboards from
// player and team season counters — a fold equivalent to scanning Goal
// events with a finished-match filter.
type TopScorersService struct{}

func NewTopScorersService() *TopScorersService { return &TopScorersService{} }

// BuildTopScorers ranks leagueID's current-season players by goals desc,
// assists desc, name asc.
func (s *TopScorersService) BuildTopScorers(w *world.World, leagueID string) ([]PlayerTally, error) {
	l, ok := w.Leagues[leagueID]
	if !ok {
		return nil, ErrNotFound
	}

	tallies := s.seasonTallies(w, l.TeamIDs, w.Season)
	sort.SliceStable(tallies, func(i, j int) bool {
		if tallies[i].Goals != tallies[j].Goals {
			return tallies[i].Goals > tallies[j].Goals
		}
		if tallies[i].Assists != tallies[j].Assists {
			return tallies[i].Assists > tallies[j].Assists
		}
		return tallies[i].Name < tallies[j].Name
	})
	return tallies, nil
}

// BuildTopAssisters is BuildTopScorers ranked by assists first.
func (s *TopScorersService) BuildTopAssisters(w *world.World, leagueID string) ([]PlayerTally, error) {
	l, ok := w.Leagues[leagueID]
	if !ok {
		return nil, ErrNotFound
	}

	tallies := s.seasonTallies(w, l.TeamIDs, w.Season)
	sort.SliceStable(tallies, func(i, j int) bool {
		if tallies[i].Assists != tallies[j].Assists {
			return tallies[i].Assists > tallies[j].Assists
		}
		if tallies[i].Goals != tallies[j].Goals {
			return tallies[i].Goals > tallies[j].Goals
		}
		return tallies[i].Name < tallies[j].Name
	})
	return tallies, nil
}

func (s *TopScorersService) seasonTallies(w *world.World, teamIDs []string, season int) []PlayerTally {
	teamSet := make(map[string]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		teamSet[id] = struct{}{}
	}

	tallies := make([]PlayerTally, 0, len(w.Players))
	for _, p := range w.Players {
		if _, ok := teamSet[p.TeamID]; !ok {
			continue
		}
		stats := p.SeasonStats[season]
		tallies = append(tallies, PlayerTally{
			PlayerID: p.ID,
			Name:     p.Name,
			TeamID:   p.TeamID,
			Goals:    stats.Goals,
			Assists:  stats.Assists,
		})
	}
	return tallies
}

// BuildBestDefense ranks leagueID's teams by clean sheets desc, goals
// conceded asc, name asc.
func (s *TopScorersService) BuildBestDefense(w *world.World, leagueID string) ([]DefenseRow, error) {
	l, ok := w.Leagues[leagueID]
	if !ok {
		return nil, ErrNotFound
	}

	rows := make([]DefenseRow, 0, len(l.TeamIDs))
	for _, teamID := range l.TeamIDs {
		t, ok := w.Teams[teamID]
		if !ok {
			continue
		}
		rows = append(rows, DefenseRow{
			TeamID:       t.ID,
			Name:         t.Name,
			CleanSheets:  t.CleanSheets,
			GoalsAgainst: t.GoalsAgainst,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CleanSheets != rows[j].CleanSheets {
			return rows[i].CleanSheets > rows[j].CleanSheets
		}
		if rows[i].GoalsAgainst != rows[j].GoalsAgainst {
			return rows[i].GoalsAgainst < rows[j].GoalsAgainst
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}
