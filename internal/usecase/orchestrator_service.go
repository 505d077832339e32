package usecase

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"context"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/brackenfield/matchstate/external/llm"
	"github.com/brackenfield/matchstate/internal/domain/eventlog"
	"github.com/brackenfield/matchstate/internal/domain/fixture"
	"github.com/brackenfield/matchstate/internal/domain/league"
	"github.com/brackenfield/matchstate/internal/domain/match"
	"github.com/brackenfield/matchstate/internal/domain/matchsim"
	"github.com/brackenfield/matchstate/internal/domain/scheduler"
	"github.com/brackenfield/matchstate/internal/domain/softstate"
	"github.com/brackenfield/matchstate/internal/domain/team"
	"github.com/brackenfield/matchstate/internal/domain/world"
	"github.com/brackenfield/matchstate/internal/platform/logging"
	"github.com/brackenfield/matchstate/internal/platform/rng"
)

const (
	defaultWorkerCount    = 8
	defaultSoftStateTimeout = 30 * time.Second
	calendarAdvance       = 7 * 24 * time.Hour
)

// OrchestratorConfig tunes the single write path.
type OrchestratorConfig struct {
	WorkerCount      int
	SoftStateTimeout time.Duration
}

func (c OrchestratorConfig) normalize() OrchestratorConfig {
	if c.WorkerCount <= 0 {
		c.WorkerCount = defaultWorkerCount
	}
	if c.WorkerCount > 10 {
		c.WorkerCount = 10
	}
	if c.SoftStateTimeout <= 0 {
		c.SoftStateTimeout = defaultSoftStateTimeout
	}
	return c
}

// AdvanceSummary reports what one Advance call did, for CLI/HTTP callers.
type AdvanceSummary struct {
	Action            string // "simulated_matchday", "advanced_calendar", "rolled_over_season", "noop"
	MatchesSimulated  int
	EventsAppended    int
	LeaguesAffected   []string
	SeasonsRolledOver []string
}

// OrchestratorService is the single write path into the world: every
// append to the event log and every world.Apply call the system performs
// during normal operation flows through Advance.
type OrchestratorService struct {
	events     eventlog.Repository
	softState  *SoftStateService
	collaborator llm.Client
	logger     *logging.Logger
	cfg        OrchestratorConfig
}

func NewOrchestratorService(events eventlog.Repository, softState *SoftStateService, collaborator llm.Client, logger *logging.Logger, cfg OrchestratorConfig) *OrchestratorService {
	if logger == nil {
		logger = logging.Default()
	}
	return &OrchestratorService{
		events:       events,
		softState:    softState,
		collaborator: collaborator,
		logger:       logger,
		cfg:          cfg.normalize(),
	}
}

type matchTask struct {
	fixture fixture.Fixture
	home    team.Team
	away    team.Team
}

type matchOutcome struct {
	fixtureID string
	leagueID  string
	homeID    string
	awayID    string
	result    matchsim.SimResult
}

// Advance performs one step of the matchday state machine against w (the
// live, mutable world — callers own serializing concurrent Advance calls;
// the event-log repository is the only thing actually required to be safe
// for concurrent writers).
//
// Step order per call: determine pending fixtures, pre-match soft state,
// parallel simulate, deterministic merge, append + apply, post-match soft
// state, season-end handling.
func (o *OrchestratorService) Advance(ctx context.Context, w *world.World) (AdvanceSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OrchestratorService.Advance")
	defer span.End()

	pending, affectedLeagues := o.collectPendingTasks(w)
	if len(pending) > 0 {
		return o.simulateMatchday(ctx, w, pending, affectedLeagues)
	}

	anyLeagueContinues := false
	for id, l := range w.Leagues {
		if !l.SeasonComplete() {
			l.CurrentMatchday++
			w.Leagues[id] = l
			anyLeagueContinues = true
		}
	}
	if anyLeagueContinues {
		w.CurrentDate = w.CurrentDate.Add(calendarAdvance)
		return AdvanceSummary{Action: "advanced_calendar"}, nil
	}

	return o.rollOverCompletedSeasons(ctx, w)
}

func (o *OrchestratorService) collectPendingTasks(w *world.World) ([]matchTask, []string) {
	var tasks []matchTask
	leagueSet := make(map[string]struct{})

	leagueIDs := make([]string, 0, len(w.Leagues))
	for id := range w.Leagues {
		leagueIDs = append(leagueIDs, id)
	}
	sort.Strings(leagueIDs)

	for _, leagueID := range leagueIDs {
		l := w.Leagues[leagueID]
		fixtureIDs := append([]string(nil), l.FixturesByMatchday[l.CurrentMatchday]...)
		sort.Strings(fixtureIDs)
		for _, fxID := range fixtureIDs {
			fx, ok := w.Fixtures[fxID]
			if !ok || fx.Played {
				continue
			}
			home, homeOK := w.Teams[fx.HomeTeamID]
			away, awayOK := w.Teams[fx.AwayTeamID]
			if !homeOK || !awayOK {
				continue
			}
			tasks = append(tasks, matchTask{fixture: fx, home: home, away: away})
			leagueSet[leagueID] = struct{}{}
		}
	}

	leagues := make([]string, 0, len(leagueSet))
	for id := range leagueSet {
		leagues = append(leagues, id)
	}
	sort.Strings(leagues)
	return tasks, leagues
}

func (o *OrchestratorService) simulateMatchday(ctx context.Context, w *world.World, tasks []matchTask, leagueIDs []string) (AdvanceSummary, error) {
	matchIDs := make([]string, 0, len(tasks))
	for _, t := range tasks {
		matchIDs = append(matchIDs, t.fixture.ID)
	}

	var allEvents []eventlog.Event

	for _, leagueID := range leagueIDs {
		l := w.Leagues[leagueID]
		preProposals, err := o.proposeSoftState(ctx, w, leagueID, l.CurrentMatchday, "pre_match", matchIDs)
		if err != nil {
			o.logger.WarnContext(ctx, "pre-match soft-state collaborator unavailable", "league_id", leagueID, "error", err)
		}
		allEvents = append(allEvents, o.softState.Apply(ctx, w, "pre_match", preProposals)...)
	}
	if err := o.appendAndApply(ctx, w, allEvents); err != nil {
		return AdvanceSummary{}, err
	}
	allEvents = nil

	outcomes, err := o.runMatchTasks(ctx, w, tasks)
	if err != nil {
		return AdvanceSummary{}, err
	}

	sort.SliceStable(outcomes, func(i, j int) bool {
		if outcomes[i].leagueID != outcomes[j].leagueID {
			return outcomes[i].leagueID < outcomes[j].leagueID
		}
		if outcomes[i].homeID != outcomes[j].homeID {
			return outcomes[i].homeID < outcomes[j].homeID
		}
		return outcomes[i].awayID < outcomes[j].awayID
	})

	var matchEvents []eventlog.Event
	for _, oc := range outcomes {
		matchEvents = append(matchEvents, oc.result.Events...)
		if !oc.result.Aborted {
			matchEvents = append(matchEvents,
				eventlog.Event{Kind: eventlog.KindHeadToHeadUpdated, Payload: eventlog.HeadToHeadUpdated{
					TeamID: oc.homeID, OpponentID: oc.awayID, Result: headToHeadResult(oc.result.HomeScore, oc.result.AwayScore),
				}},
				eventlog.Event{Kind: eventlog.KindHeadToHeadUpdated, Payload: eventlog.HeadToHeadUpdated{
					TeamID: oc.awayID, OpponentID: oc.homeID, Result: headToHeadResult(oc.result.AwayScore, oc.result.HomeScore),
				}},
			)
		}
	}
	if err := o.appendAndApply(ctx, w, matchEvents); err != nil {
		return AdvanceSummary{}, err
	}

	for _, leagueID := range leagueIDs {
		l := w.Leagues[leagueID]
		postProposals, err := o.proposeSoftState(ctx, w, leagueID, l.CurrentMatchday, "post_match", matchIDs)
		if err != nil {
			o.logger.WarnContext(ctx, "post-match soft-state collaborator unavailable", "league_id", leagueID, "error", err)
		}
		postEvents := o.softState.Apply(ctx, w, "post_match", postProposals)
		if err := o.appendAndApply(ctx, w, postEvents); err != nil {
			return AdvanceSummary{}, err
		}
	}

	return AdvanceSummary{
		Action:           "simulated_matchday",
		MatchesSimulated: len(tasks),
		EventsAppended:   len(matchEvents),
		LeaguesAffected:  leagueIDs,
	}, nil
}

func (o *OrchestratorService) proposeSoftState(ctx context.Context, w *world.World, leagueID string, matchday int, phase string, matchIDs []string) ([]softstate.Proposal, error) {
	if o.collaborator == nil {
		return nil, nil
	}
	cctx, cancel := context.WithTimeout(ctx, o.cfg.SoftStateTimeout)
	defer cancel()
	return o.collaborator.Propose(cctx, w.Snapshot(), llm.MatchdayContext{
		LeagueID: leagueID, Matchday: matchday, Phase: phase, MatchIDs: matchIDs,
	})
}

// runMatchTasks simulates every pending match in parallel via a bounded
// ants worker pool. Each task derives its own rng.Stream from (world seed,
// match id) and touches no shared mutable state: only the buffered results
// channel crosses goroutine boundaries.
func (o *OrchestratorService) runMatchTasks(ctx context.Context, w *world.World, tasks []matchTask) ([]matchOutcome, error) {
	pool, err := ants.NewPool(o.cfg.WorkerCount)
	if err != nil {
		return nil, fmt.Errorf("create match worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan matchOutcome, len(tasks))
	var failures atomic.Int32
	var workers sync.WaitGroup

	for _, task := range tasks {
		task := task
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			stream := rng.Derive(w.Seed, "match", task.fixture.ID)
			input := matchsim.SimInput{
				MatchID:       task.fixture.ID,
				LeagueID:      task.fixture.LeagueID,
				Matchday:      task.fixture.Matchday,
				Home:          toTeamSnapshot(task.home, w),
				Away:          toTeamSnapshot(task.away, w),
				Stream:        stream,
				Weather:       weatherFor(stream),
				HomeAdvantage: true,
			}
			result, simErr := matchsim.Simulate(ctx, input)
			if simErr != nil {
				failures.Add(1)
				o.logger.ErrorContext(ctx, "match simulation failed", "match_id", task.fixture.ID, "error", simErr)
				return
			}
			results <- matchOutcome{
				fixtureID: task.fixture.ID, leagueID: task.fixture.LeagueID,
				homeID: task.home.ID, awayID: task.away.ID, result: result,
			}
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit match task: %w", err)
		}
	}

	workers.Wait()
	close(results)

	if failures.Load() > 0 {
		return nil, fmt.Errorf("%d match simulations failed fatally", failures.Load())
	}

	outcomes := make([]matchOutcome, 0, len(tasks))
	for oc := range results {
		outcomes = append(outcomes, oc)
	}
	return outcomes, nil
}

func (o *OrchestratorService) appendAndApply(ctx context.Context, w *world.World, events []eventlog.Event) error {
	if len(events) == 0 {
		return nil
	}
	appended, err := o.events.Append(ctx, events)
	if err != nil {
		return fmt.Errorf("append events: %w", err)
	}
	for _, e := range appended {
		if err := w.Apply(e); err != nil {
			return fmt.Errorf("apply event %s: %w", e.Kind, err)
		}
	}
	return nil
}

func (o *OrchestratorService) rollOverCompletedSeasons(ctx context.Context, w *world.World) (AdvanceSummary, error) {
	leagueIDs := make([]string, 0, len(w.Leagues))
	for id := range w.Leagues {
		leagueIDs = append(leagueIDs, id)
	}
	sort.Strings(leagueIDs)
	if len(leagueIDs) == 0 {
		return AdvanceSummary{Action: "noop"}, nil
	}

	// Each league's awards are computed from an independent read-only fold
	// over w; conc's result pool runs them concurrently while preserving
	// submission order, so the emitted event order stays a pure function of
	// leagueIDs (already sorted above) rather than goroutine completion order.
	awardsPool := pool.NewWithResults[eventlog.SeasonEnded]().WithMaxGoroutines(len(leagueIDs))
	for _, id := range leagueIDs {
		id := id
		awardsPool.Go(func() eventlog.SeasonEnded {
			l := w.Leagues[id]
			champion, topScorer, topAssister, mostCleanSheets := seasonAwards(w, l)
			return eventlog.SeasonEnded{
				LeagueID: id, Season: w.Season, ChampionID: champion,
				TopScorerID: topScorer, TopAssisterID: topAssister, MostCleanSheets: mostCleanSheets,
			}
		})
	}

	events := make([]eventlog.Event, 0, len(leagueIDs))
	for _, award := range awardsPool.Wait() {
		events = append(events, eventlog.Event{Kind: eventlog.KindSeasonEnded, Payload: award})
	}
	rolledOver := append([]string(nil), leagueIDs...)
	if err := o.appendAndApply(ctx, w, events); err != nil {
		return AdvanceSummary{}, err
	}

	w.Season++
	genesis := w.CurrentDate.Add(calendarAdvance)
	for _, id := range leagueIDs {
		l := w.Leagues[id]
		l.Season = w.Season
		l.CurrentMatchday = 1

		fixtures, err := scheduler.BuildSeason(id, l.TeamIDs, w.Season, genesis, w.Seed)
		if err != nil {
			return AdvanceSummary{}, fmt.Errorf("regenerate fixtures for league %s: %w", id, err)
		}
		byMatchday := make(map[int][]string)
		for _, fx := range fixtures {
			w.Fixtures[fx.ID] = fx
			byMatchday[fx.Matchday] = append(byMatchday[fx.Matchday], fx.ID)
		}
		l.FixturesByMatchday = byMatchday
		w.Leagues[id] = l
	}
	w.CurrentDate = genesis

	return AdvanceSummary{Action: "rolled_over_season", SeasonsRolledOver: rolledOver}, nil
}

// seasonAwards picks the champion and statistical leaders for a league's
// ending season. It reuses the table/top-scorer projections rather than
// ranging over w.Teams/w.Players directly so ties resolve the same
// deterministic way the public standings do, not by map iteration order.
func seasonAwards(w *world.World, l league.League) (championID, topScorerID, topAssisterID, mostCleanSheetsID string) {
	table, err := NewTableService().BuildTable(w, l.ID)
	if err == nil && len(table) > 0 {
		championID = table[0].TeamID
	}

	scorers, err := NewTopScorersService().BuildTopScorers(w, l.ID)
	if err == nil && len(scorers) > 0 {
		topScorerID = scorers[0].PlayerID
	}

	assisters, err := NewTopScorersService().BuildTopAssisters(w, l.ID)
	if err == nil && len(assisters) > 0 {
		topAssisterID = assisters[0].PlayerID
	}

	defense, err := NewTopScorersService().BuildBestDefense(w, l.ID)
	if err == nil && len(defense) > 0 {
		mostCleanSheetsID = defense[0].TeamID
	}
	return
}

func headToHeadResult(forScore, againstScore int) string {
	switch {
	case forScore > againstScore:
		return string(team.ResultWin)
	case forScore < againstScore:
		return string(team.ResultLoss)
	default:
		return string(team.ResultDraw)
	}
}

func toTeamSnapshot(t team.Team, w *world.World) matchsim.TeamSnapshot {
	snap := matchsim.TeamSnapshot{ID: t.ID, Name: t.Name}
	for _, playerID := range t.Squad {
		if p, ok := w.Players[playerID]; ok {
			snap.Players = append(snap.Players, matchsim.ToSnapshot(p))
		}
	}
	return snap
}

func weatherFor(stream *rng.Stream) match.Weather {
	options := []match.Weather{
		match.WeatherSunny, match.WeatherCloudy, match.WeatherRainy,
		match.WeatherSnowy, match.WeatherWindy, match.WeatherFoggy,
	}
	return options[stream.Intn(len(options))]
}
