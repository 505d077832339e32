package usecase

import (
	"fmt"
	"time"

	"github.com/brackenfield/matchstate/internal/domain/club"
	"github.com/brackenfield/matchstate/internal/domain/league"
	"github.com/brackenfield/matchstate/internal/domain/media"
	"github.com/brackenfield/matchstate/internal/domain/player"
	"github.com/brackenfield/matchstate/internal/domain/scheduler"
	"github.com/brackenfield/matchstate/internal/domain/team"
	"github.com/brackenfield/matchstate/internal/domain/world"
	"github.com/brackenfield/matchstate/internal/platform/id"
	"github.com/brackenfield/matchstate/internal/platform/rng"
)

// GenesisConfig describes the size of the world GenesisService builds.
// Two ten-team leagues is the shape the matchday worker pool is sized
// around (5 fixtures per league per matchday, at most 10 concurrent
// fixtures across both leagues).
type GenesisConfig struct {
	Seed          uint64
	GenesisDate   time.Time
	LeagueNames   []string
	TeamsPerLeague int
	SquadSize     int
}

func (c GenesisConfig) normalize() GenesisConfig {
	if len(c.LeagueNames) == 0 {
		c.LeagueNames = []string{"Meridian Premier", "Coastal First Division"}
	}
	if c.TeamsPerLeague <= 0 {
		c.TeamsPerLeague = 10
	}
	if c.SquadSize <= 0 {
		c.SquadSize = 16
	}
	if c.GenesisDate.IsZero() {
		c.GenesisDate = time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	}
	return c
}

// GenesisService builds a new World populated with leagues, teams, players,
// club collateral, and a first season's fixture calendar — the one-time
// world genesis step, as opposed to the per-matchday mutations Advance
// performs afterward.
type GenesisService struct{}

func NewGenesisService() *GenesisService { return &GenesisService{} }

// Build constructs a fresh world, deterministic in every field for a given
// seed: two calls with the same GenesisConfig produce byte-identical
// worlds (modulo Sequence, assigned later by the event repository).
func (g *GenesisService) Build(cfg GenesisConfig) (*world.World, error) {
	cfg = cfg.normalize()
	w := world.New(cfg.Seed, cfg.GenesisDate)
	stream := rng.Derive(cfg.Seed, "genesis")

	squadPositions := squadTemplate(cfg.SquadSize)

	for _, leagueName := range cfg.LeagueNames {
		leagueID := id.NewDeterministic("league:"+leagueName, cfg.Seed)
		countryCode := countryCodeFor(leagueName)

		teamIDs := make([]string, 0, cfg.TeamsPerLeague)
		for t := 0; t < cfg.TeamsPerLeague; t++ {
			teamName := fmt.Sprintf("%s %s", cityNames[t%len(cityNames)], clubSuffixes[t/len(cityNames)%len(clubSuffixes)])
			teamID := id.NewDeterministic(fmt.Sprintf("team:%s:%s", leagueID, teamName), cfg.Seed)
			teamIDs = append(teamIDs, teamID)

			teamStream := stream.Sub("team", teamID)
			newTeam := team.Team{
				ID:       teamID,
				LeagueID: leagueID,
				Name:     teamName,
				Short:    shortName(teamName),

				TacticalFamiliarity: 50 + teamStream.Jitter(10),
				Morale:              55 + teamStream.Jitter(15),
				Reputation:          clampFloat(40+teamStream.Float64()*50, 1, 100),
				PublicApproval:      55 + teamStream.Jitter(15),
				TeamRapport:         55 + teamStream.Jitter(15),

				Finances: team.Finances{
					Balance:      int64(5_000_000 + teamStream.Intn(20_000_000)),
					MonthlyCosts: int64(200_000 + teamStream.Intn(800_000)),
					RevenueNote:  "matchday and broadcast revenue",
				},
				Stadium: team.Stadium{
					Name:                    teamName + " Stadium",
					Capacity:                15_000 + teamStream.Intn(45_000),
					TrainingFacilityQuality: 40 + teamStream.Intn(60),
				},
				HeadToHead: make(map[string]team.HeadToHeadRecord),
			}
			w.Teams[teamID] = newTeam

			w.Owners[teamID] = club.Owner{
				ID:             id.NewDeterministic("owner:"+teamID, cfg.Seed),
				TeamID:         teamID,
				Name:           teamName + " ownership group",
				PatienceRating: clampFloat(30+teamStream.Float64()*60, 0, 100),
			}
			w.Staff[teamID] = []club.Staff{
				{
					ID:     id.NewDeterministic("staff:manager:"+teamID, cfg.Seed),
					TeamID: teamID,
					Name:   teamName + " manager",
					Role:   club.RoleManager,
				},
			}

			squad := make([]string, 0, len(squadPositions))
			for i, pos := range squadPositions {
				p := buildPlayer(teamStream.Sub("player", fmt.Sprint(i)), cfg.Seed, leagueID, teamID, pos, i)
				w.Players[p.ID] = p
				squad = append(squad, p.ID)
			}
			newTeam.Squad = squad
			w.Teams[teamID] = newTeam
		}

		fixtures, err := scheduler.BuildSeason(leagueID, teamIDs, w.Season, cfg.GenesisDate, cfg.Seed)
		if err != nil {
			return nil, fmt.Errorf("build season for league %s: %w", leagueName, err)
		}
		byMatchday := make(map[int][]string)
		for _, fx := range fixtures {
			w.Fixtures[fx.ID] = fx
			byMatchday[fx.Matchday] = append(byMatchday[fx.Matchday], fx.ID)
		}

		w.Leagues[leagueID] = league.League{
			ID:                 leagueID,
			Name:               leagueName,
			CountryCode:        countryCode,
			Season:             w.Season,
			CurrentMatchday:    1,
			TeamIDs:            teamIDs,
			FixturesByMatchday: byMatchday,
			ChampionsBySeason:  make(map[int]string),
			TopScorersBySeason: make(map[int]string),
		}
	}

	mediaStream := stream.Sub("media")
	for i, name := range mediaOutletNames {
		w.MediaOutlets[id.NewDeterministic("media:"+name, cfg.Seed)] = media.MediaOutlet{
			ID:   id.NewDeterministic("media:"+name, cfg.Seed),
			Name: name,
			Bias: mediaBiasFor(mediaStream, i),
		}
	}

	return w, nil
}

func squadTemplate(size int) []player.Position {
	base := []player.Position{
		player.PositionGK, player.PositionGK,
		player.PositionCB, player.PositionCB, player.PositionLB, player.PositionRB, player.PositionCB,
		player.PositionCM, player.PositionCM, player.PositionLM, player.PositionRM, player.PositionCAM,
		player.PositionST, player.PositionST, player.PositionLW, player.PositionRW,
	}
	for len(base) < size {
		base = append(base, player.PositionCM)
	}
	return base[:size]
}

func buildPlayer(stream *rng.Stream, seed uint64, leagueID, teamID string, pos player.Position, slot int) player.Player {
	playerID := id.NewDeterministic(fmt.Sprintf("player:%s:%d", teamID, slot), seed)
	name := fmt.Sprintf("%s %s", firstNames[stream.Intn(len(firstNames))], lastNames[stream.Intn(len(lastNames))])

	potential := 55 + stream.Intn(40)
	attr := func(base int) int { return clampIntRange(base+stream.Intn(20)-10, 1, 99) }

	p := player.Player{
		ID:       playerID,
		LeagueID: leagueID,
		TeamID:   teamID,
		Name:     name,
		Position: pos,
		Age:      17 + stream.Intn(21),

		Pace:        attr(60),
		Shooting:    attr(55),
		Passing:     attr(60),
		Defending:   attr(55),
		Physicality: attr(60),

		Form:       50 + stream.Jitter(15),
		Morale:     55 + stream.Jitter(15),
		Fitness:    85 + stream.Jitter(10),
		Reputation: clampFloat(20+stream.Float64()*60, 0, 100),

		PreferredFoot: footChoices[stream.Intn(len(footChoices))],
		WeakFoot:      1 + stream.Intn(5),
		SkillMoves:    1 + stream.Intn(5),
		Traits:        map[string]struct{}{},
		WorkRateAtt:   workRates[stream.Intn(len(workRates))],
		WorkRateDef:   workRates[stream.Intn(len(workRates))],

		SeasonStats: make(map[int]player.SeasonStats),
	}

	// A generated prospect's ceiling can never sit below the attributes
	// that define their current floor (player.Validate enforces this).
	if overall := p.OverallRating(); potential < overall {
		potential = overall
	}
	p.Potential = clampIntRange(potential, 1, 99)
	return p
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampIntRange(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func shortName(name string) string {
	if len(name) <= 3 {
		return name
	}
	return name[:3]
}

func countryCodeFor(leagueName string) string {
	h := 0
	for _, r := range leagueName {
		h += int(r)
	}
	return countryCodes[h%len(countryCodes)]
}

func mediaBiasFor(s *rng.Stream, i int) media.Bias {
	biases := []media.Bias{media.BiasNeutral, media.BiasSupportive, media.BiasCritical}
	return biases[(i+s.Intn(3))%len(biases)]
}

var cityNames = []string{
	"Ashford", "Brindle", "Calder", "Duncaster", "Elmhaven",
	"Fenwick", "Greyport", "Hartshire", "Ilmington", "Joscombe",
}

var clubSuffixes = []string{"United", "City", "Athletic", "Rovers"}

var mediaOutletNames = []string{"The Morning Whistle", "Pitchside Daily", "National Sports Wire"}

var countryCodes = []string{"MD", "CS", "HL", "NR"}

var firstNames = []string{
	"Marco", "Tomas", "Luka", "Kenji", "Idris", "Pavel", "Enzo", "Amir",
	"Dario", "Finn", "Oskar", "Teo", "Bram", "Rico", "Noe", "Silas",
}

var lastNames = []string{
	"Novak", "Brandt", "Costa", "Ueda", "Keller", "Marchetti", "Dubois",
	"Varga", "Solis", "Haavisto", "Lindgren", "Okafor", "Petrov", "Rossi",
}

var footChoices = []player.Foot{player.FootLeft, player.FootRight, player.FootRight, player.FootBoth}

var workRates = []player.WorkRate{player.WorkRateLow, player.WorkRateMedium, player.WorkRateHigh}
