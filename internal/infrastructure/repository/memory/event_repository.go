package memory

import (
	"context"
	"sync"

	"github.com/brackenfield/matchstate/internal/domain/eventlog"
)

// EventRepository is the in-process eventlog.Repository used by the
// simulate/test CLI modes and unit tests. A single sync.RWMutex is the
// store's sole serialization point, the same locking style as
// platform/cache.Store.
type EventRepository struct {
	mu     sync.RWMutex
	events []eventlog.Event
}

func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

// Append assigns each event the next monotonic sequence and stores it,
// returning the stored copies with sequences filled in.
func (r *EventRepository) Append(_ context.Context, events []eventlog.Event) ([]eventlog.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]eventlog.Event, 0, len(events))
	for _, e := range events {
		e.Sequence = int64(len(r.events)) + 1
		r.events = append(r.events, e)
		out = append(out, e)
	}
	return out, nil
}

func (r *EventRepository) ReadFrom(_ context.Context, sequence int64) ([]eventlog.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]eventlog.Event, 0)
	for _, e := range r.events {
		if e.Sequence >= sequence {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *EventRepository) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	return nil
}
