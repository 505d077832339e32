package league

import "fmt"

// League is a simulated football league.
type League struct {
	ID          string
	Name        string
	CountryCode string
	Season      int

	CurrentMatchday int
	TeamIDs         []string

	// FixturesByMatchday holds, for each matchday, the ordered list of
	// fixture ids scheduled for that round. Populated by the scheduler.
	FixturesByMatchday map[int][]string

	ChampionsBySeason   map[int]string
	TopScorersBySeason  map[int]string
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.CountryCode == "" {
		return fmt.Errorf("league country code is required")
	}
	if l.Season <= 0 {
		return fmt.Errorf("league season must be positive")
	}
	if l.CurrentMatchday < 0 {
		return fmt.Errorf("league current_matchday cannot be negative")
	}
	return nil
}

// TotalMatchdays returns 2*(n-1) for the league's team count, the double
// round-robin matchday total.
func (l League) TotalMatchdays() int {
	n := len(l.TeamIDs)
	if n < 2 {
		return 0
	}
	return 2 * (n - 1)
}

// SeasonComplete reports whether the league has played every matchday of
// its double round-robin calendar.
func (l League) SeasonComplete() bool {
	return l.CurrentMatchday > l.TotalMatchdays()
}
