package dbgen

import (
	"context"
	"time"
)

const createLeague = `-- name: CreateLeague :one
INSERT INTO leagues (name, slug, sport)
VALUES (?, ?, ?)
RETURNING id, name, slug, sport, created_at
`

type CreateLeagueParams struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Sport string `json:"sport"`
}

func (q *Queries) CreateLeague(ctx context.Context, arg CreateLeagueParams) (League, error) {
	row := q.db.QueryRowContext(ctx, createLeague, arg.Name, arg.Slug, arg.Sport)
	var i League
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Sport,
		&i.CreatedAt,
	)
	return i, err
}

const getLeague = `-- name: GetLeague :one
SELECT id, name, slug, sport, created_at FROM leagues
WHERE id = ?
`

func (q *Queries) GetLeague(ctx context.Context, id int64) (League, error) {
	row := q.db.QueryRowContext(ctx, getLeague, id)
	var i League
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Sport,
		&i.CreatedAt,
	)
	return i, err
}

const getLeagueBySlug = `-- name: GetLeagueBySlug :one
SELECT id, name, slug, sport, created_at FROM leagues
WHERE slug = ?
`

func (q *Queries) GetLeagueBySlug(ctx context.Context, slug string) (League, error) {
	row := q.db.QueryRowContext(ctx, getLeagueBySlug, slug)
	var i League
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Sport,
		&i.CreatedAt,
	)
	return i, err
}

const listLeagues = `-- name: ListLeagues :many
SELECT id, name, slug, sport, created_at FROM leagues
ORDER BY name
`

func (q *Queries) ListLeagues(ctx context.Context) ([]League, error) {
	rows, err := q.db.QueryContext(ctx, listLeagues)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []League
	for rows.Next() {
		var i League
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Slug,
			&i.Sport,
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

const createSeason = `-- name: CreateSeason :one
INSERT INTO seasons (league_id, name, start_date, end_date, status)
VALUES (?, ?, ?, ?, ?)
RETURNING id, league_id, name, start_date, end_date, status, created_at
`

type CreateSeasonParams struct {
	LeagueID  int64     `json:"leagueId"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Status    string    `json:"status"`
}

func (q *Queries) CreateSeason(ctx context.Context, arg CreateSeasonParams) (Season, error) {
	row := q.db.QueryRowContext(ctx, createSeason,
		arg.LeagueID,
		arg.Name,
		arg.StartDate,
		arg.EndDate,
		arg.Status,
	)
	var i Season
	err := row.Scan(
		&i.ID,
		&i.LeagueID,
		&i.Name,
		&i.StartDate,
		&i.EndDate,
		&i.Status,
		&i.CreatedAt,
	)
	return i, err
}

const getSeason = `-- name: GetSeason :one
SELECT id, league_id, name, start_date, end_date, status, created_at FROM seasons
WHERE id = ?
`

func (q *Queries) GetSeason(ctx context.Context, id int64) (Season, error) {
	row := q.db.QueryRowContext(ctx, getSeason, id)
	var i Season
	err := row.Scan(
		&i.ID,
		&i.LeagueID,
		&i.Name,
		&i.StartDate,
		&i.EndDate,
		&i.Status,
		&i.CreatedAt,
	)
	return i, err
}

const listActiveSeasons = `-- name: ListActiveSeasons :many
SELECT id, league_id, name, start_date, end_date, status, created_at FROM seasons
WHERE status = 'active'
ORDER BY id
`

func (q *Queries) ListActiveSeasons(ctx context.Context) ([]Season, error) {
	rows, err := q.db.QueryContext(ctx, listActiveSeasons)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Season
	for rows.Next() {
		var i Season
		if err := rows.Scan(
			&i.ID,
			&i.LeagueID,
			&i.Name,
			&i.StartDate,
			&i.EndDate,
			&i.Status,
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

const updateSeasonStatus = `-- name: UpdateSeasonStatus :one
UPDATE seasons
SET status = ?
WHERE id = ?
RETURNING id, league_id, name, start_date, end_date, status, created_at
`

type UpdateSeasonStatusParams struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

func (q *Queries) UpdateSeasonStatus(ctx context.Context, arg UpdateSeasonStatusParams) (Season, error) {
	row := q.db.QueryRowContext(ctx, updateSeasonStatus, arg.Status, arg.ID)
	var i Season
	err := row.Scan(
		&i.ID,
		&i.LeagueID,
		&i.Name,
		&i.StartDate,
		&i.EndDate,
		&i.Status,
		&i.CreatedAt,
	)
	return i, err
}
