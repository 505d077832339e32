// Package media holds the MediaOutlet collateral entity referenced by
// MediaStory narrative events.
package media

import "fmt"

// Bias describes an outlet's editorial lean toward a team, consumed when
// the soft-state collaborator drafts a MediaStory.
type Bias string

const (
	BiasNeutral    Bias = "Neutral"
	BiasSupportive Bias = "Supportive"
	BiasCritical   Bias = "Critical"
)

type MediaOutlet struct {
	ID   string
	Name string
	Bias Bias
}

func (m MediaOutlet) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("media outlet id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("media outlet name is required")
	}
	switch m.Bias {
	case BiasNeutral, BiasSupportive, BiasCritical:
	default:
		return fmt.Errorf("invalid media outlet bias: %s", m.Bias)
	}
	return nil
}
