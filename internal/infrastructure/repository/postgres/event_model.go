package postgres

import "time"

type eventRow struct {
	Sequence     int64     `db:"sequence"`
	Timestamp    time.Time `db:"timestamp"`
	Kind         string    `db:"kind"`
	PayloadBytes []byte    `db:"payload_bytes"`
}

type snapshotRow struct {
	Sequence int64  `db:"sequence"`
	Blob     []byte `db:"blob"`
}
