package dbgen

import (
	"context"
	"database/sql"
	"time"
)

const gameColumns = `id, season_id, home_team_id, away_team_id, game_date, venue, round, is_completed, home_score, away_score, created_at, updated_at`

const createGame = `-- name: CreateGame :one
INSERT INTO games (season_id, home_team_id, away_team_id, game_date, venue, round, is_completed, home_score, away_score)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + gameColumns + `
`

type CreateGameParams struct {
	SeasonID    int64         `json:"seasonId"`
	HomeTeamID  int64         `json:"homeTeamId"`
	AwayTeamID  int64         `json:"awayTeamId"`
	GameDate    time.Time     `json:"gameDate"`
	Venue       string        `json:"venue"`
	Round       int64         `json:"round"`
	IsCompleted bool          `json:"isCompleted"`
	HomeScore   sql.NullInt64 `json:"homeScore"`
	AwayScore   sql.NullInt64 `json:"awayScore"`
}

func (q *Queries) CreateGame(ctx context.Context, arg CreateGameParams) (Game, error) {
	row := q.db.QueryRowContext(ctx, createGame,
		arg.SeasonID,
		arg.HomeTeamID,
		arg.AwayTeamID,
		arg.GameDate,
		arg.Venue,
		arg.Round,
		arg.IsCompleted,
		arg.HomeScore,
		arg.AwayScore,
	)
	return scanGame(row)
}

const getGame = `-- name: GetGame :one
SELECT ` + gameColumns + ` FROM games
WHERE id = ?
`

func (q *Queries) GetGame(ctx context.Context, id int64) (Game, error) {
	row := q.db.QueryRowContext(ctx, getGame, id)
	return scanGame(row)
}

const listSeasonGames = `-- name: ListSeasonGames :many
SELECT ` + gameColumns + ` FROM games
WHERE season_id = ?
ORDER BY game_date, id
`

func (q *Queries) ListSeasonGames(ctx context.Context, seasonID int64) ([]Game, error) {
	rows, err := q.db.QueryContext(ctx, listSeasonGames, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Game
	for rows.Next() {
		i, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const recordGameScore = `-- name: RecordGameScore :one
UPDATE games
SET home_score = ?, away_score = ?, is_completed = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
RETURNING ` + gameColumns + `
`

type RecordGameScoreParams struct {
	HomeScore   sql.NullInt64 `json:"homeScore"`
	AwayScore   sql.NullInt64 `json:"awayScore"`
	IsCompleted bool          `json:"isCompleted"`
	ID          int64         `json:"id"`
}

func (q *Queries) RecordGameScore(ctx context.Context, arg RecordGameScoreParams) (Game, error) {
	row := q.db.QueryRowContext(ctx, recordGameScore,
		arg.HomeScore,
		arg.AwayScore,
		arg.IsCompleted,
		arg.ID,
	)
	return scanGame(row)
}

const deleteSeasonGames = `-- name: DeleteSeasonGames :execrows
DELETE FROM games
WHERE season_id = ? AND is_completed = 0
`

func (q *Queries) DeleteSeasonGames(ctx context.Context, seasonID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSeasonGames, seasonID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countSeasonGames = `-- name: CountSeasonGames :one
SELECT COUNT(*) FROM games
WHERE season_id = ?
`

func (q *Queries) CountSeasonGames(ctx context.Context, seasonID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countSeasonGames, seasonID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row rowScanner) (Game, error) {
	var i Game
	err := row.Scan(
		&i.ID,
		&i.SeasonID,
		&i.HomeTeamID,
		&i.AwayTeamID,
		&i.GameDate,
		&i.Venue,
		&i.Round,
		&i.IsCompleted,
		&i.HomeScore,
		&i.AwayScore,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
