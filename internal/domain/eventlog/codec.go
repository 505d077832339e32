package eventlog

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// registry maps a stable kind tag to a zero-value payload factory, used by
// Decode to know which concrete type to unmarshal into.
var registry = map[string]func() Payload{
	KindMatchScheduled:    func() Payload { return &MatchScheduled{} },
	KindMatchStarted:      func() Payload { return &MatchStarted{} },
	KindKickOff:           func() Payload { return &KickOff{} },
	KindGoal:              func() Payload { return &Goal{} },
	KindYellowCard:        func() Payload { return &YellowCard{} },
	KindRedCard:           func() Payload { return &RedCard{} },
	KindSubstitution:      func() Payload { return &Substitution{} },
	KindInjury:            func() Payload { return &Injury{} },
	KindCornerKick:        func() Payload { return &CornerKick{} },
	KindFoul:              func() Payload { return &Foul{} },
	KindFreeKick:          func() Payload { return &FreeKick{} },
	KindPenaltyAwarded:    func() Payload { return &PenaltyAwarded{} },
	KindOffside:           func() Payload { return &Offside{} },
	KindMatchEnded:        func() Payload { return &MatchEnded{} },
	KindMatchAborted:      func() Payload { return &MatchAborted{} },
	KindSoftStateUpdated:  func() Payload { return &SoftStateUpdated{} },
	KindValidationFailed:  func() Payload { return &ValidationFailed{} },
	KindSeasonEnded:       func() Payload { return &SeasonEnded{} },
	KindMediaStory:        func() Payload { return &MediaStory{} },
	KindOwnerStatement:    func() Payload { return &OwnerStatement{} },
	KindHeadToHeadUpdated: func() Payload { return &HeadToHeadUpdated{} },
}

// EncodePayload serializes a payload to its stable jsoniter representation.
func EncodePayload(p Payload) ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload kind %s: %w", p.Kind(), err)
	}
	return b, nil
}

// DecodePayload looks up kind in the registry and unmarshals raw into a
// fresh instance of the matching type. ok is false when kind is unknown;
// callers decide (per strict mode) whether that is fatal.
func DecodePayload(kind string, raw []byte) (payload Payload, ok bool, err error) {
	factory, known := registry[kind]
	if !known {
		return nil, false, nil
	}
	p := factory()
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, true, fmt.Errorf("decode payload kind %s: %w", kind, err)
	}
	// Unmarshal targets were created through pointer factories; dereference
	// back to the value form so callers get the same type Kind() returns.
	return dereference(p), true, nil
}

func dereference(p Payload) Payload {
	switch v := p.(type) {
	case *MatchScheduled:
		return *v
	case *MatchStarted:
		return *v
	case *KickOff:
		return *v
	case *Goal:
		return *v
	case *YellowCard:
		return *v
	case *RedCard:
		return *v
	case *Substitution:
		return *v
	case *Injury:
		return *v
	case *CornerKick:
		return *v
	case *Foul:
		return *v
	case *FreeKick:
		return *v
	case *PenaltyAwarded:
		return *v
	case *Offside:
		return *v
	case *MatchEnded:
		return *v
	case *MatchAborted:
		return *v
	case *SoftStateUpdated:
		return *v
	case *ValidationFailed:
		return *v
	case *SeasonEnded:
		return *v
	case *MediaStory:
		return *v
	case *OwnerStatement:
		return *v
	case *HeadToHeadUpdated:
		return *v
	default:
		return p
	}
}

// IsKnownKind reports whether kind has a registered payload type.
func IsKnownKind(kind string) bool {
	_, ok := registry[kind]
	return ok
}
