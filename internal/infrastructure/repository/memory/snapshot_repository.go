package memory

import (
	"context"
	"sync"

	"github.com/brackenfield/matchstate/internal/domain/eventlog"
)

// SnapshotRepository keeps the single most recent world snapshot in memory.
type SnapshotRepository struct {
	mu  sync.RWMutex
	cur eventlog.Snapshot
	has bool
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

func (r *SnapshotRepository) Save(_ context.Context, snap eventlog.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cur = snap
	r.has = true
	return nil
}

func (r *SnapshotRepository) Load(_ context.Context) (eventlog.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cur, r.has, nil
}
