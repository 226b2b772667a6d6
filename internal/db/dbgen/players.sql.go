package dbgen

import (
	"context"
	"database/sql"
)

const createPlayer = `-- name: CreatePlayer :one
INSERT INTO players (team_id, first_name, last_name, jersey_number, position, email, phone)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, team_id, first_name, last_name, jersey_number, position, email, phone, created_at
`

type CreatePlayerParams struct {
	TeamID       int64          `json:"teamId"`
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName"`
	JerseyNumber sql.NullInt64  `json:"jerseyNumber"`
	Position     string         `json:"position"`
	Email        sql.NullString `json:"email"`
	Phone        sql.NullString `json:"phone"`
}

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) (Player, error) {
	row := q.db.QueryRowContext(ctx, createPlayer,
		arg.TeamID,
		arg.FirstName,
		arg.LastName,
		arg.JerseyNumber,
		arg.Position,
		arg.Email,
		arg.Phone,
	)
	var i Player
	err := row.Scan(
		&i.ID,
		&i.TeamID,
		&i.FirstName,
		&i.LastName,
		&i.JerseyNumber,
		&i.Position,
		&i.Email,
		&i.Phone,
		&i.CreatedAt,
	)
	return i, err
}

const getPlayer = `-- name: GetPlayer :one
SELECT id, team_id, first_name, last_name, jersey_number, position, email, phone, created_at FROM players
WHERE id = ?
`

func (q *Queries) GetPlayer(ctx context.Context, id int64) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayer, id)
	var i Player
	err := row.Scan(
		&i.ID,
		&i.TeamID,
		&i.FirstName,
		&i.LastName,
		&i.JerseyNumber,
		&i.Position,
		&i.Email,
		&i.Phone,
		&i.CreatedAt,
	)
	return i, err
}

const listTeamPlayers = `-- name: ListTeamPlayers :many
SELECT id, team_id, first_name, last_name, jersey_number, position, email, phone, created_at FROM players
WHERE team_id = ?
ORDER BY last_name, first_name
`

func (q *Queries) ListTeamPlayers(ctx context.Context, teamID int64) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listTeamPlayers, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		var i Player
		if err := rows.Scan(
			&i.ID,
			&i.TeamID,
			&i.FirstName,
			&i.LastName,
			&i.JerseyNumber,
			&i.Position,
			&i.Email,
			&i.Phone,
			&i.CreatedAt,
		); err != nil {
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

const deletePlayer = `-- name: DeletePlayer :execrows
DELETE FROM players
WHERE id = ? AND team_id = ?
`

type DeletePlayerParams struct {
	ID     int64 `json:"id"`
	TeamID int64 `json:"teamId"`
}

func (q *Queries) DeletePlayer(ctx context.Context, arg DeletePlayerParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePlayer, arg.ID, arg.TeamID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
