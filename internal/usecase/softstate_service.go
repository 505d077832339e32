package usecase

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/brackenfield/matchstate/internal/domain/eventlog"
	"github.com/brackenfield/matchstate/internal/domain/softstate"
	"github.com/brackenfield/matchstate/internal/domain/world"
	"github.com/brackenfield/matchstate/internal/platform/logging"
)

// SoftStateService turns collaborator proposals into validated events. It
// never mutates the world directly: callers apply the returned events
// through world.Apply, keeping the event log the single source of truth.
type SoftStateService struct {
	validator *validator.Validate
	logger    *logging.Logger
}

func NewSoftStateService(logger *logging.Logger) *SoftStateService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SoftStateService{validator: validator.New(), logger: logger}
}

// Apply validates a batch of proposals against w (read-only, used only to
// read current values for reputation delta-capping) and returns the
// events to append, in stable (target-id, field) order.
func (s *SoftStateService) Apply(ctx context.Context, w *world.World, phase string, proposals []softstate.Proposal) []eventlog.Event {
	ordered := make([]softstate.Proposal, len(proposals))
	copy(ordered, proposals)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Target.ID != ordered[j].Target.ID {
			return ordered[i].Target.ID < ordered[j].Target.ID
		}
		return ordered[i].Field < ordered[j].Field
	})

	events := make([]eventlog.Event, 0, len(ordered))
	for _, p := range ordered {
		p.Phase = phase
		if err := s.validator.StructCtx(ctx, p); err != nil {
			events = append(events, failedEvent(p, "malformed proposal"))
			continue
		}

		current, ok := currentValue(w, p)
		if !ok {
			events = append(events, failedEvent(p, "unknown target or field"))
			continue
		}

		result := softstate.Validate(p, current)
		if !result.Accepted {
			s.logger.WarnContext(ctx, "soft-state proposal rejected",
				"target_kind", p.Target.Kind, "target_id", p.Target.ID,
				"field", p.Field, "reason", result.RejectReason)
			events = append(events, failedEvent(p, result.RejectReason))
			continue
		}

		events = append(events, eventlog.Event{
			Kind: eventlog.KindSoftStateUpdated,
			Payload: eventlog.SoftStateUpdated{
				TargetKind: string(p.Target.Kind),
				TargetID:   p.Target.ID,
				Field:      p.Field,
				Value:      result.ClampedTo,
				Phase:      phase,
			},
		})
	}
	return events
}

func failedEvent(p softstate.Proposal, reason string) eventlog.Event {
	return eventlog.Event{
		Kind: eventlog.KindValidationFailed,
		Payload: eventlog.ValidationFailed{
			TargetKind: string(p.Target.Kind),
			TargetID:   p.Target.ID,
			Field:      p.Field,
			Reason:     reason,
		},
	}
}

func currentValue(w *world.World, p softstate.Proposal) (float64, bool) {
	switch p.Target.Kind {
	case softstate.TargetPlayer:
		pl, ok := w.Players[p.Target.ID]
		if !ok {
			return 0, false
		}
		switch p.Field {
		case "form":
			return pl.Form, true
		case "morale":
			return pl.Morale, true
		case "fitness":
			return pl.Fitness, true
		case "reputation":
			return pl.Reputation, true
		default:
			return 0, false
		}
	case softstate.TargetTeam:
		t, ok := w.Teams[p.Target.ID]
		if !ok {
			return 0, false
		}
		switch p.Field {
		case "morale":
			return t.Morale, true
		case "reputation":
			return t.Reputation, true
		case "tactical_familiarity":
			return t.TacticalFamiliarity, true
		case "public_approval":
			return t.PublicApproval, true
		case "team_rapport":
			return t.TeamRapport, true
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}
