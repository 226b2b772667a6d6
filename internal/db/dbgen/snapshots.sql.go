package dbgen

import (
	"context"
	"time"
)

const insertStandingsSnapshot = `-- name: InsertStandingsSnapshot :one
INSERT INTO standings_snapshots (season_id, taken_at, payload)
VALUES (?, ?, ?)
RETURNING id, season_id, taken_at, payload
`

type InsertStandingsSnapshotParams struct {
	SeasonID int64     `json:"seasonId"`
	TakenAt  time.Time `json:"takenAt"`
	Payload  string    `json:"payload"`
}

func (q *Queries) InsertStandingsSnapshot(ctx context.Context, arg InsertStandingsSnapshotParams) (StandingsSnapshot, error) {
	row := q.db.QueryRowContext(ctx, insertStandingsSnapshot, arg.SeasonID, arg.TakenAt, arg.Payload)
	var i StandingsSnapshot
	err := row.Scan(
		&i.ID,
		&i.SeasonID,
		&i.TakenAt,
		&i.Payload,
	)
	return i, err
}

const getLatestStandingsSnapshot = `-- name: GetLatestStandingsSnapshot :one
SELECT id, season_id, taken_at, payload FROM standings_snapshots
WHERE season_id = ?
ORDER BY taken_at DESC, id DESC
LIMIT 1
`

func (q *Queries) GetLatestStandingsSnapshot(ctx context.Context, seasonID int64) (StandingsSnapshot, error) {
	row := q.db.QueryRowContext(ctx, getLatestStandingsSnapshot, seasonID)
	var i StandingsSnapshot
	err := row.Scan(
		&i.ID,
		&i.SeasonID,
		&i.TakenAt,
		&i.Payload,
	)
	return i, err
}

const deleteStandingsSnapshotsBefore = `-- name: DeleteStandingsSnapshotsBefore :execrows
DELETE FROM standings_snapshots
WHERE season_id = ? AND taken_at < ?
`

type DeleteStandingsSnapshotsBeforeParams struct {
	SeasonID int64     `json:"seasonId"`
	TakenAt  time.Time `json:"takenAt"`
}

func (q *Queries) DeleteStandingsSnapshotsBefore(ctx context.Context, arg DeleteStandingsSnapshotsBeforeParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteStandingsSnapshotsBefore, arg.SeasonID, arg.TakenAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
