package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/brackenfield/matchstate/internal/domain/eventlog"
)

// SnapshotRepository stores the single most recent world snapshot, keyed by
// the event sequence it covers. Save upserts; Load returns the latest row.
type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Save(ctx context.Context, snap eventlog.Snapshot) error {
	sqlQuery, args, err := sqlx.Named(`
INSERT INTO snapshots (sequence, blob)
VALUES (:sequence, :blob)
ON CONFLICT (sequence) DO UPDATE SET blob = EXCLUDED.blob`, map[string]any{
		"sequence": snap.Sequence,
		"blob":     snap.Blob,
	})
	if err != nil {
		return errors.Wrap(err, "bind save snapshot query")
	}
	sqlQuery = r.db.Rebind(sqlQuery)

	if _, err := r.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		return errors.Wrap(err, "save snapshot")
	}
	return nil
}

func (r *SnapshotRepository) Load(ctx context.Context) (eventlog.Snapshot, bool, error) {
	var row snapshotRow
	err := r.db.GetContext(ctx, &row, `SELECT sequence, blob FROM snapshots ORDER BY sequence DESC LIMIT 1`)
	if err != nil {
		if isNotFound(err) {
			return eventlog.Snapshot{}, false, nil
		}
		return eventlog.Snapshot{}, false, errors.Wrap(err, "load latest snapshot")
	}
	return eventlog.Snapshot{Sequence: row.Sequence, Blob: row.Blob}, true, nil
}
