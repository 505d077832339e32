// Package club holds the light collateral entities referenced by narrative
// events: club ownership and technical staff.
package club

import "fmt"

type StaffRole string

const (
	RoleManager          StaffRole = "Manager"
	RoleAssistantManager StaffRole = "AssistantManager"
	RoleScoutHead        StaffRole = "ScoutHead"
)

// Owner is a club's controlling stakeholder, whose patience narrows as
// results disappoint (consumed by OwnerStatement narrative events).
type Owner struct {
	ID             string
	TeamID         string
	Name           string
	PatienceRating float64 // [0,100]
}

func (o Owner) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("owner id is required")
	}
	if o.TeamID == "" {
		return fmt.Errorf("owner team id is required")
	}
	if o.PatienceRating < 0 || o.PatienceRating > 100 {
		return fmt.Errorf("owner patience_rating out of range [0,100]: %v", o.PatienceRating)
	}
	return nil
}

// Staff is one technical staff member attached to a team.
type Staff struct {
	ID     string
	TeamID string
	Name   string
	Role   StaffRole
}

func (s Staff) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("staff id is required")
	}
	if s.TeamID == "" {
		return fmt.Errorf("staff team id is required")
	}
	switch s.Role {
	case RoleManager, RoleAssistantManager, RoleScoutHead:
	default:
		return fmt.Errorf("invalid staff role: %s", s.Role)
	}
	return nil
}
