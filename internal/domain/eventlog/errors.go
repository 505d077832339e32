package eventlog

import "github.com/cockroachdb/errors"

// ErrUnknownEventKind is returned by strict-mode replay when a stored
// record's kind tag has no registered payload type. Reader.Decode wraps it
// with fmt.Errorf, adding the offending sequence and kind.
var ErrUnknownEventKind = errors.New("eventlog: unknown event kind")

// ErrCorruptRecord is returned when a stored payload fails to decode
// against its own declared kind.
var ErrCorruptRecord = errors.New("eventlog: corrupt record")
