package team

import "fmt"

// Stadium describes a club's home ground.
type Stadium struct {
	Name                    string
	Capacity                int
	TrainingFacilityQuality int
}

// Finances describes one team's financial state.
type Finances struct {
	Balance      int64
	MonthlyCosts int64
	RevenueNote  string
}

// HeadToHeadRecord is one opponent's cumulative record against this team.
type HeadToHeadRecord struct {
	Wins   int
	Draws  int
	Losses int
}

// Result is one of the FIFO recent-form outcomes.
type Result string

const (
	ResultWin  Result = "W"
	ResultDraw Result = "D"
	ResultLoss Result = "L"
)

// Streak tracks current and longest runs of a given result kind.
type Streak struct {
	CurrentKind Result
	Current     int
	Longest     int
}

// Team is a football club inside a league.
type Team struct {
	ID       string
	LeagueID string
	Name     string
	Short    string

	Squad []string // player ids

	TacticalFamiliarity float64 // [0,100]
	Morale              float64 // [0,100]
	Reputation          float64 // [1,100]
	PublicApproval      float64 // [0,100]
	TeamRapport         float64 // [0,100]

	Finances Finances
	Stadium  Stadium

	Wins, Draws, Losses int
	GoalsFor, GoalsAgainst int
	CleanSheets         int
	HomeWins, HomeDraws, HomeLosses int
	AwayWins, AwayDraws, AwayLosses int
	CurrentStreak Streak
	LongestWinStreak  int
	LongestLossStreak int

	RecentForm  []Result // FIFO, len <= 5
	HeadToHead  map[string]HeadToHeadRecord
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.LeagueID == "" {
		return fmt.Errorf("team league id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Reputation != 0 && (t.Reputation < 1 || t.Reputation > 100) {
		return fmt.Errorf("team reputation out of range [1,100]: %v", t.Reputation)
	}
	if len(t.RecentForm) > 5 {
		return fmt.Errorf("team recent_form exceeds 5 entries: %d", len(t.RecentForm))
	}
	if t.MatchesPlayed() != t.Wins+t.Draws+t.Losses {
		return fmt.Errorf("team matches_played invariant violated")
	}
	return nil
}

// MatchesPlayed returns wins+draws+losses.
func (t Team) MatchesPlayed() int { return t.Wins + t.Draws + t.Losses }

// GoalDifference returns goals_for - goals_against.
func (t Team) GoalDifference() int { return t.GoalsFor - t.GoalsAgainst }

// Points returns 3*wins + draws.
func (t Team) Points() int { return 3*t.Wins + t.Draws }

// PushForm appends a result to the FIFO recent-form list, dropping the
// oldest entry once the list exceeds 5.
func (t *Team) PushForm(r Result) {
	t.RecentForm = append(t.RecentForm, r)
	if len(t.RecentForm) > 5 {
		t.RecentForm = t.RecentForm[len(t.RecentForm)-5:]
	}
}

// RecordHeadToHead updates the head-to-head record against opponentID with
// the given result (from this team's perspective).
func (t *Team) RecordHeadToHead(opponentID string, r Result) {
	if t.HeadToHead == nil {
		t.HeadToHead = make(map[string]HeadToHeadRecord)
	}
	rec := t.HeadToHead[opponentID]
	switch r {
	case ResultWin:
		rec.Wins++
	case ResultDraw:
		rec.Draws++
	case ResultLoss:
		rec.Losses++
	}
	t.HeadToHead[opponentID] = rec
}
