package scheduler

import (
	"github.com/brackenfield/matchstate/internal/domain/fixture"
	"github.com/brackenfield/matchstate/internal/domain/team"
)

// TableRow is one team's standing for importance classification purposes.
type TableRow struct {
	TeamID   string
	Position int // 1-based
	Points   int
}

// Table is a league's current standings, ordered by position.
type Table []TableRow

func (t Table) row(teamID string) (TableRow, bool) {
	for _, r := range t {
		if r.TeamID == teamID {
			return r, true
		}
	}
	return TableRow{}, false
}

// RivalrySet names pairs of team ids that are configured derbies,
// independent of anything derivable from standings.
type RivalrySet map[[2]string]struct{}

// NewRivalrySet builds a RivalrySet from unordered team id pairs.
func NewRivalrySet(pairs ...[2]string) RivalrySet {
	set := make(RivalrySet, len(pairs))
	for _, p := range pairs {
		set[normalizePair(p)] = struct{}{}
	}
	return set
}

func normalizePair(p [2]string) [2]string {
	if p[0] > p[1] {
		return [2]string{p[1], p[0]}
	}
	return p
}

func (r RivalrySet) contains(home, away string) bool {
	_, ok := r[normalizePair([2]string{home, away})]
	return ok
}

const (
	titleRaceTopN        = 3
	titleRacePointGap    = 3
	relegationBottomN    = 3
)

// ClassifyImportance is a pure function over two teams and the league's
// current standings: derby when the pair is in rivalries, title_race when
// both sit in the top three within a 3-point gap, relegation when both sit
// in the bottom three. Derby takes precedence over the table-based
// classifications since it reflects a fixed rivalry rather than a
// transient position.
func ClassifyImportance(home, away team.Team, standing Table, rivalries RivalrySet) fixture.Importance {
	if rivalries.contains(home.ID, away.ID) {
		return fixture.ImportanceDerby
	}

	homeRow, homeOK := standing.row(home.ID)
	awayRow, awayOK := standing.row(away.ID)
	if !homeOK || !awayOK {
		return fixture.ImportanceNormal
	}

	n := len(standing)
	if homeRow.Position <= titleRaceTopN && awayRow.Position <= titleRaceTopN {
		gap := homeRow.Points - awayRow.Points
		if gap < 0 {
			gap = -gap
		}
		if gap <= titleRacePointGap {
			return fixture.ImportanceTitleRace
		}
	}

	bottomThreshold := n - relegationBottomN
	if homeRow.Position > bottomThreshold && awayRow.Position > bottomThreshold {
		return fixture.ImportanceRelegation
	}

	return fixture.ImportanceNormal
}
