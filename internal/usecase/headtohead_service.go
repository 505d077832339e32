package usecase

import (
	"sort"

	"github.com/brackenfield/matchstate/internal/domain/world"
)

// HeadToHeadRecord is one team's perspective of its history against an
// opponent, mirroring team.HeadToHeadRecord.
type HeadToHeadRecord struct {
	TeamID     string
	OpponentID string
	Wins       int
	Draws      int
	Losses     int
}

// HeadToHeadService projects a team's head-to-head ledger, already
// maintained incrementally on team.Team — this is a read-only view over
// that counter, not a re-derivation.
type HeadToHeadService struct{}

func NewHeadToHeadService() *HeadToHeadService { return &HeadToHeadService{} }

// BuildHeadToHead returns teamID's full ledger, one row per opponent faced,
// sorted by opponent id for stable output.
func (s *HeadToHeadService) BuildHeadToHead(w *world.World, teamID string) ([]HeadToHeadRecord, error) {
	t, ok := w.Teams[teamID]
	if !ok {
		return nil, ErrNotFound
	}

	opponentIDs := make([]string, 0, len(t.HeadToHead))
	for opp := range t.HeadToHead {
		opponentIDs = append(opponentIDs, opp)
	}
	sort.Strings(opponentIDs)

	rows := make([]HeadToHeadRecord, 0, len(opponentIDs))
	for _, opp := range opponentIDs {
		rec := t.HeadToHead[opp]
		rows = append(rows, HeadToHeadRecord{
			TeamID:     teamID,
			OpponentID: opp,
			Wins:       rec.Wins,
			Draws:      rec.Draws,
			Losses:     rec.Losses,
		})
	}
	return rows, nil
}

// BuildHeadToHeadBetween returns teamID's record against opponentID alone.
func (s *HeadToHeadService) BuildHeadToHeadBetween(w *world.World, teamID, opponentID string) (HeadToHeadRecord, error) {
	t, ok := w.Teams[teamID]
	if !ok {
		return HeadToHeadRecord{}, ErrNotFound
	}
	rec := t.HeadToHead[opponentID]
	return HeadToHeadRecord{
		TeamID:     teamID,
		OpponentID: opponentID,
		Wins:       rec.Wins,
		Draws:      rec.Draws,
		Losses:     rec.Losses,
	}, nil
}
