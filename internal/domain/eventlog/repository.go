package eventlog

import "context"

// Repository is the single append-only serialization point for the world's
// history. Append is atomic: a partial append never leaves a visible gap in
// Sequence.
type Repository interface {
	Append(ctx context.Context, events []Event) ([]Event, error)
	ReadFrom(ctx context.Context, sequence int64) ([]Event, error)
	Reset(ctx context.Context) error
}

// Snapshot is a compact world encoding alongside the last sequence it
// covers. Nothing in the application takes snapshots on a schedule; Save
// stores whatever snapshot a caller hands it.
type Snapshot struct {
	Sequence int64
	Blob     []byte
}

// SnapshotRepository stores and retrieves the most recent snapshot.
type SnapshotRepository interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, bool, error)
}
