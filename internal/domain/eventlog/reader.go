package eventlog

import "fmt"

// RawRecord is the storage-level shape: a sequence, timestamp-bearing
// envelope and an undecoded payload, as persisted by a Repository
// implementation before kind dispatch.
type RawRecord struct {
	Event
	RawPayload []byte
}

// Reader decodes RawRecords into fully-typed Events, applying the
// strict-mode replay contract from the event log spec: an unknown kind is
// fatal unless Strict is false, in which case the caller's OnUnknown hook
// is invoked (for logging) and the record is skipped.
type Reader struct {
	Strict    bool
	OnUnknown func(sequence int64, kind string)
}

// Decode walks records in order, returning fully-typed events. A corrupt
// record always halts decoding with ErrCorruptRecord naming the sequence;
// in strict mode (Strict true, as the postgres repository builds its
// reader; the zero Reader is not strict) an unknown kind halts decoding
// with ErrUnknownEventKind naming the sequence.
func (r Reader) Decode(records []RawRecord) ([]Event, error) {
	out := make([]Event, 0, len(records))
	for _, rec := range records {
		payload, known, err := DecodePayload(rec.Kind, rec.RawPayload)
		if err != nil {
			return nil, fmt.Errorf("%w: sequence %d: %v", ErrCorruptRecord, rec.Sequence, err)
		}
		if !known {
			if r.Strict {
				return nil, fmt.Errorf("%w: sequence %d kind %q", ErrUnknownEventKind, rec.Sequence, rec.Kind)
			}
			if r.OnUnknown != nil {
				r.OnUnknown(rec.Sequence, rec.Kind)
			}
			continue
		}
		evt := rec.Event
		evt.Payload = payload
		out = append(out, evt)
	}
	return out, nil
}
