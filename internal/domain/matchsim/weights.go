package matchsim

import "sort"

// EventWeights is the fixed per-resolved-event-minute categorical
// distribution. Exposed as package-level values (not hidden literals) so
// tests can compare sampled distributions against these starting points.
var EventWeights = map[string]float64{
	"Goal":         6.0,
	"Foul":         25.0,
	"Yellow":       8.0,
	"Red":          0.5,
	"Substitution": 6.0,
	"Corner":       14.0,
	"FreeKick":     15.0,
	"Offside":      5.0,
	"Injury":       1.5,
	"Penalty":      1.5,
	"Idle":         17.5,
}

// BaseEventProbability is P_event's base rate before strength modulation.
const BaseEventProbability = 0.40

// FreeKickDirectShare / FreeKickDangerousShare split FreeKick resolution.
const (
	FreeKickDirectShare    = 0.80
	FreeKickDangerousShare = 0.30
)

// PenaltyConversionRate is the probability a PenaltyAwarded is converted.
const PenaltyConversionRate = 0.75

// AssistShare is the fraction of goals carrying a non-scorer assist.
const AssistShare = 0.60

// AttackingScorerShare is the fraction of scorer draws restricted to
// attacking positions; the remainder draws from any outfielder.
const AttackingScorerShare = 0.85

// SubstitutionMinMinute is the earliest minute a substitution may occur.
const SubstitutionMinMinute = 45

// MaxSubstitutionsPerTeam bounds substitutions per team per match.
const MaxSubstitutionsPerTeam = 3

// weightedDraw picks one key from weights proportional to its weight, with
// a deterministic lexicographic tie-break on key when sampled values tie.
func weightedDraw(s Stream, weights map[string]float64) string {
	keys := make([]string, 0, len(weights))
	total := 0.0
	for k, w := range weights {
		if w > 0 {
			keys = append(keys, k)
			total += w
		}
	}
	if total <= 0 || len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	r := s.Float64() * total
	var cursor float64
	for _, k := range keys {
		cursor += weights[k]
		if r < cursor {
			return k
		}
	}
	return keys[len(keys)-1]
}
