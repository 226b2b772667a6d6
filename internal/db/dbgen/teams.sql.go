package dbgen

import (
	"context"
	"database/sql"
)

const createTeam = `-- name: CreateTeam :one
INSERT INTO teams (season_id, name, logo_url, captain_email)
VALUES (?, ?, ?, ?)
RETURNING id, season_id, name, logo_url, captain_email, created_at
`

type CreateTeamParams struct {
	SeasonID     int64          `json:"seasonId"`
	Name         string         `json:"name"`
	LogoUrl      string         `json:"logoUrl"`
	CaptainEmail sql.NullString `json:"captainEmail"`
}

func (q *Queries) CreateTeam(ctx context.Context, arg CreateTeamParams) (Team, error) {
	row := q.db.QueryRowContext(ctx, createTeam,
		arg.SeasonID,
		arg.Name,
		arg.LogoUrl,
		arg.CaptainEmail,
	)
	var i Team
	err := row.Scan(
		&i.ID,
		&i.SeasonID,
		&i.Name,
		&i.LogoUrl,
		&i.CaptainEmail,
		&i.CreatedAt,
	)
	return i, err
}

const getTeam = `-- name: GetTeam :one
SELECT id, season_id, name, logo_url, captain_email, created_at FROM teams
WHERE id = ?
`

func (q *Queries) GetTeam(ctx context.Context, id int64) (Team, error) {
	row := q.db.QueryRowContext(ctx, getTeam, id)
	var i Team
	err := row.Scan(
		&i.ID,
		&i.SeasonID,
		&i.Name,
		&i.LogoUrl,
		&i.CaptainEmail,
		&i.CreatedAt,
	)
	return i, err
}

const listSeasonTeams = `-- name: ListSeasonTeams :many
SELECT id, season_id, name, logo_url, captain_email, created_at FROM teams
WHERE season_id = ?
ORDER BY name
`

func (q *Queries) ListSeasonTeams(ctx context.Context, seasonID int64) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, listSeasonTeams, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Team
	for rows.Next() {
		var i Team
		if err := rows.Scan(
			&i.ID,
			&i.SeasonID,
			&i.Name,
			&i.LogoUrl,
			&i.CaptainEmail,
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

const updateTeam = `-- name: UpdateTeam :one
UPDATE teams
SET name = ?, logo_url = ?, captain_email = ?
WHERE id = ?
RETURNING id, season_id, name, logo_url, captain_email, created_at
`

type UpdateTeamParams struct {
	Name         string         `json:"name"`
	LogoUrl      string         `json:"logoUrl"`
	CaptainEmail sql.NullString `json:"captainEmail"`
	ID           int64          `json:"id"`
}

func (q *Queries) UpdateTeam(ctx context.Context, arg UpdateTeamParams) (Team, error) {
	row := q.db.QueryRowContext(ctx, updateTeam,
		arg.Name,
		arg.LogoUrl,
		arg.CaptainEmail,
		arg.ID,
	)
	var i Team
	err := row.Scan(
		&i.ID,
		&i.SeasonID,
		&i.Name,
		&i.LogoUrl,
		&i.CaptainEmail,
		&i.CreatedAt,
	)
	return i, err
}
