package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/brackenfield/matchstate/internal/domain/eventlog"
	"github.com/brackenfield/matchstate/internal/domain/world"
	"github.com/brackenfield/matchstate/internal/platform/logging"
	"github.com/brackenfield/matchstate/internal/usecase"
)

// Handler wires the query/projection services (C8) and the matchday
// orchestrator (C6) to the HTTP surface. It holds no state of its own
// beyond the shared worldStore and event log reader.
type Handler struct {
	events       eventlog.Repository
	world        *WorldStore
	table        *usecase.TableService
	topScorers   *usecase.TopScorersService
	headToHead   *usecase.HeadToHeadService
	playerStats  *usecase.PlayerStatsService
	orchestrator *usecase.OrchestratorService
	logger       *logging.Logger
}

func NewHandler(
	events eventlog.Repository,
	world *WorldStore,
	table *usecase.TableService,
	topScorers *usecase.TopScorersService,
	headToHead *usecase.HeadToHeadService,
	playerStats *usecase.PlayerStatsService,
	orchestrator *usecase.OrchestratorService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		events:       events,
		world:        world,
		table:        table,
		topScorers:   topScorers,
		headToHead:   headToHead,
		playerStats:  playerStats,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// worldSummary is the GET /v1/world projection: headline counters, not the
// full aggregate (which can be large once a season or two has played out).
type worldSummary struct {
	Season      int      `json:"season"`
	CurrentDate string   `json:"current_date"`
	LeagueIDs   []string `json:"league_ids"`
	TeamCount   int      `json:"team_count"`
	PlayerCount int      `json:"player_count"`
}

func (h *Handler) GetWorld(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWorld")
	defer span.End()

	snap := h.world.Snapshot()
	leagueIDs := make([]string, 0, len(snap.Leagues))
	for id := range snap.Leagues {
		leagueIDs = append(leagueIDs, id)
	}

	writeSuccess(ctx, w, http.StatusOK, worldSummary{
		Season:      snap.Season,
		CurrentDate: snap.CurrentDate.Format("2006-01-02"),
		LeagueIDs:   leagueIDs,
		TeamCount:   len(snap.Teams),
		PlayerCount: len(snap.Players),
	})
}

func (h *Handler) GetLeagueTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueTable")
	defer span.End()

	rows, err := h.table.BuildTable(h.world.Snapshot(), r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) GetLeagueTopScorers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueTopScorers")
	defer span.End()

	rows, err := h.topScorers.BuildTopScorers(h.world.Snapshot(), r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) GetLeagueBestDefense(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueBestDefense")
	defer span.End()

	rows, err := h.topScorers.BuildBestDefense(h.world.Snapshot(), r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	snap := h.world.Snapshot()
	team, ok := snap.Teams[r.PathValue("teamID")]
	if !ok {
		writeError(ctx, w, usecase.ErrNotFound)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, team)
}

func (h *Handler) GetTeamHeadToHead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamHeadToHead")
	defer span.End()

	rows, err := h.headToHead.BuildHeadToHead(h.world.Snapshot(), r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) GetPlayerSeasonStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerSeasonStats")
	defer span.End()

	snap := h.world.Snapshot()
	season := snap.Season
	if raw := strings.TrimSpace(r.URL.Query().Get("season")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, usecase.ErrInvalidInput)
			return
		}
		season = parsed
	}

	stats, err := h.playerStats.BuildPlayerSeasonStats(snap, r.PathValue("playerID"), season)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, stats)
}

// GetMatchEvents returns the full event history for one match, in append
// order, by scanning the log for payloads naming that match id.
func (h *Handler) GetMatchEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchEvents")
	defer span.End()

	matchID := r.PathValue("matchID")
	all, err := h.events.ReadFrom(ctx, 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matched := make([]eventlog.Event, 0)
	for _, e := range all {
		if id, ok := matchIDOf(e.Payload); ok && id == matchID {
			matched = append(matched, e)
		}
	}
	writeSuccess(ctx, w, http.StatusOK, matched)
}

// advanceResponse mirrors usecase.AdvanceSummary for a stable wire shape.
type advanceResponse struct {
	Action            string   `json:"action"`
	MatchesSimulated  int      `json:"matches_simulated"`
	EventsAppended    int      `json:"events_appended"`
	LeaguesAffected   []string `json:"leagues_affected"`
	SeasonsRolledOver []string `json:"seasons_rolled_over"`
}

// PostAdvance invokes the orchestrator once under the world's write lock
// and returns the resulting summary.
func (h *Handler) PostAdvance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PostAdvance")
	defer span.End()

	var summary usecase.AdvanceSummary
	err := h.world.WithWrite(func(w *world.World) error {
		s, err := h.orchestrator.Advance(ctx, w)
		summary = s
		return err
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, advanceResponse{
		Action:            summary.Action,
		MatchesSimulated:  summary.MatchesSimulated,
		EventsAppended:    summary.EventsAppended,
		LeaguesAffected:   summary.LeaguesAffected,
		SeasonsRolledOver: summary.SeasonsRolledOver,
	})
}

// matchIDOf extracts the match id carried by payload kinds that name one.
// Payloads with no match association (SoftStateUpdated, SeasonEnded, etc.)
// report ok=false.
func matchIDOf(p eventlog.Payload) (string, bool) {
	switch v := p.(type) {
	case eventlog.MatchScheduled:
		return v.MatchID, true
	case eventlog.MatchStarted:
		return v.MatchID, true
	case eventlog.KickOff:
		return v.MatchID, true
	case eventlog.Goal:
		return v.MatchID, true
	case eventlog.YellowCard:
		return v.MatchID, true
	case eventlog.RedCard:
		return v.MatchID, true
	case eventlog.Substitution:
		return v.MatchID, true
	case eventlog.Injury:
		return v.MatchID, true
	case eventlog.CornerKick:
		return v.MatchID, true
	case eventlog.Foul:
		return v.MatchID, true
	case eventlog.FreeKick:
		return v.MatchID, true
	case eventlog.PenaltyAwarded:
		return v.MatchID, true
	case eventlog.Offside:
		return v.MatchID, true
	case eventlog.MatchEnded:
		return v.MatchID, true
	case eventlog.MatchAborted:
		return v.MatchID, true
	default:
		return "", false
	}
}
