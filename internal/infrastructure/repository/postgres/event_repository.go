package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/brackenfield/matchstate/internal/domain/eventlog"
	qb "github.com/brackenfield/matchstate/internal/platform/querybuilder"
)

// EventRepository is the Postgres-backed eventlog.Repository: the single
// durable serialization point for the world's history. Append commits
// inside one transaction so a partial write never leaves a visible gap in
// Sequence.
type EventRepository struct {
	db     *sqlx.DB
	reader eventlog.Reader
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db, reader: eventlog.Reader{Strict: true}}
}

// Append persists events inside one transaction, in order, letting Postgres
// assign each row's sequence via BIGSERIAL, and returns the stored copies
// with their assigned sequences filled in.
func (r *EventRepository) Append(ctx context.Context, events []eventlog.Event) ([]eventlog.Event, error) {
	if len(events) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin append events tx")
	}
	defer func() { _ = tx.Rollback() }()

	out := make([]eventlog.Event, 0, len(events))
	for _, e := range events {
		payloadBytes, err := eventlog.EncodePayload(e.Payload)
		if err != nil {
			return nil, errors.Wrapf(err, "encode event payload kind %s", e.Kind)
		}

		sqlQuery, args, err := sqlx.Named(`
INSERT INTO events (timestamp, kind, payload_bytes)
VALUES (:timestamp, :kind, :payload_bytes)
RETURNING sequence`, map[string]any{
			"timestamp":     e.Timestamp,
			"kind":          e.Kind,
			"payload_bytes": payloadBytes,
		})
		if err != nil {
			return nil, errors.Wrap(err, "bind insert event query")
		}
		sqlQuery = tx.Rebind(sqlQuery)

		var sequence int64
		if err := tx.QueryRowxContext(ctx, sqlQuery, args...).Scan(&sequence); err != nil {
			return nil, errors.Wrapf(err, "insert event kind %s", e.Kind)
		}

		e.Sequence = sequence
		out = append(out, e)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit append events tx")
	}
	return out, nil
}

// ReadFrom streams every event with sequence >= sequence, decoding each row
// through the strict-mode reader as it arrives.
func (r *EventRepository) ReadFrom(ctx context.Context, sequence int64) ([]eventlog.Event, error) {
	query, args, err := qb.Select("*").From("events").
		Where(qb.Expr("sequence >= ?", sequence)).
		OrderBy("sequence").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build read events query")
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer func() { _ = rows.Close() }()

	records := make([]eventlog.RawRecord, 0)
	for rows.Next() {
		var row eventRow
		if err := rows.StructScan(&row); err != nil {
			return nil, errors.Wrap(err, "scan event row")
		}
		records = append(records, eventlog.RawRecord{
			Event: eventlog.Event{
				Sequence:  row.Sequence,
				Timestamp: row.Timestamp,
				Kind:      row.Kind,
			},
			RawPayload: row.PayloadBytes,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate event rows")
	}

	return r.reader.Decode(records)
}

// Reset truncates both the events and snapshots tables, used by CLI modes
// that rebuild the world from scratch.
func (r *EventRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `TRUNCATE TABLE events, snapshots`); err != nil {
		return errors.Wrap(err, "truncate events and snapshots")
	}
	return nil
}
