package usecase

import (
	"sort"

	"github.com/brackenfield/matchstate/internal/domain/world"
)

// TableRow is one team's standing row in a league table.
type TableRow struct {
	TeamID         string
	Name           string
	Played         int
	Wins           int
	Draws          int
	Losses         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
}

// TableService projects league standings from the world's team counters —
// a fold equivalent to replaying every MatchEnded event for the league.
type TableService struct{}

func NewTableService() *TableService { return &TableService{} }

// BuildTable returns leagueID's standings, stable-sorted by (points desc,
// goal_difference desc, goals_for desc, name asc).
func (s *TableService) BuildTable(w *world.World, leagueID string) ([]TableRow, error) {
	l, ok := w.Leagues[leagueID]
	if !ok {
		return nil, ErrNotFound
	}

	rows := make([]TableRow, 0, len(l.TeamIDs))
	for _, teamID := range l.TeamIDs {
		t, ok := w.Teams[teamID]
		if !ok {
			continue
		}
		rows = append(rows, TableRow{
			TeamID:         t.ID,
			Name:           t.Name,
			Played:         t.MatchesPlayed(),
			Wins:           t.Wins,
			Draws:          t.Draws,
			Losses:         t.Losses,
			GoalsFor:       t.GoalsFor,
			GoalsAgainst:   t.GoalsAgainst,
			GoalDifference: t.GoalDifference(),
			Points:         t.Points(),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].GoalDifference != rows[j].GoalDifference {
			return rows[i].GoalDifference > rows[j].GoalDifference
		}
		if rows[i].GoalsFor != rows[j].GoalsFor {
			return rows[i].GoalsFor > rows[j].GoalsFor
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}
