package dbgen

import (
	"context"
)

const upsertPlayerGameStat = `-- name: UpsertPlayerGameStat :one
INSERT INTO player_game_stats (game_id, player_id, points, rebounds, assists, steals, blocks, fouls)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (game_id, player_id) DO UPDATE SET
    points = excluded.points,
    rebounds = excluded.rebounds,
    assists = excluded.assists,
    steals = excluded.steals,
    blocks = excluded.blocks,
    fouls = excluded.fouls
RETURNING id, game_id, player_id, points, rebounds, assists, steals, blocks, fouls
`

type UpsertPlayerGameStatParams struct {
	GameID   int64 `json:"gameId"`
	PlayerID int64 `json:"playerId"`
	Points   int64 `json:"points"`
	Rebounds int64 `json:"rebounds"`
	Assists  int64 `json:"assists"`
	Steals   int64 `json:"steals"`
	Blocks   int64 `json:"blocks"`
	Fouls    int64 `json:"fouls"`
}

func (q *Queries) UpsertPlayerGameStat(ctx context.Context, arg UpsertPlayerGameStatParams) (PlayerGameStat, error) {
	row := q.db.QueryRowContext(ctx, upsertPlayerGameStat,
		arg.GameID,
		arg.PlayerID,
		arg.Points,
		arg.Rebounds,
		arg.Assists,
		arg.Steals,
		arg.Blocks,
		arg.Fouls,
	)
	var i PlayerGameStat
	err := row.Scan(
		&i.ID,
		&i.GameID,
		&i.PlayerID,
		&i.Points,
		&i.Rebounds,
		&i.Assists,
		&i.Steals,
		&i.Blocks,
		&i.Fouls,
	)
	return i, err
}

const listGameStats = `-- name: ListGameStats :many
SELECT id, game_id, player_id, points, rebounds, assists, steals, blocks, fouls FROM player_game_stats
WHERE game_id = ?
ORDER BY player_id
`

func (q *Queries) ListGameStats(ctx context.Context, gameID int64) ([]PlayerGameStat, error) {
	rows, err := q.db.QueryContext(ctx, listGameStats, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PlayerGameStat
	for rows.Next() {
		var i PlayerGameStat
		if err := rows.Scan(
			&i.ID,
			&i.GameID,
			&i.PlayerID,
			&i.Points,
			&i.Rebounds,
			&i.Assists,
			&i.Steals,
			&i.Blocks,
			&i.Fouls,
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

const listSeasonPlayerTotals = `-- name: ListSeasonPlayerTotals :many
SELECT
    p.id AS player_id,
    p.first_name,
    p.last_name,
    t.id AS team_id,
    t.name AS team_name,
    COUNT(s.id) AS games_played,
    CAST(COALESCE(SUM(s.points), 0) AS INTEGER) AS points,
    CAST(COALESCE(SUM(s.rebounds), 0) AS INTEGER) AS rebounds,
    CAST(COALESCE(SUM(s.assists), 0) AS INTEGER) AS assists,
    CAST(COALESCE(SUM(s.steals), 0) AS INTEGER) AS steals,
    CAST(COALESCE(SUM(s.blocks), 0) AS INTEGER) AS blocks,
    CAST(COALESCE(SUM(s.fouls), 0) AS INTEGER) AS fouls
FROM player_game_stats s
JOIN players p ON p.id = s.player_id
JOIN teams t ON t.id = p.team_id
JOIN games g ON g.id = s.game_id
WHERE g.season_id = ?
GROUP BY p.id, p.first_name, p.last_name, t.id, t.name
ORDER BY p.id
`

type ListSeasonPlayerTotalsRow struct {
	PlayerID    int64  `json:"playerId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	TeamID      int64  `json:"teamId"`
	TeamName    string `json:"teamName"`
	GamesPlayed int64  `json:"gamesPlayed"`
	Points      int64  `json:"points"`
	Rebounds    int64  `json:"rebounds"`
	Assists     int64  `json:"assists"`
	Steals      int64  `json:"steals"`
	Blocks      int64  `json:"blocks"`
	Fouls       int64  `json:"fouls"`
}

func (q *Queries) ListSeasonPlayerTotals(ctx context.Context, seasonID int64) ([]ListSeasonPlayerTotalsRow, error) {
	rows, err := q.db.QueryContext(ctx, listSeasonPlayerTotals, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListSeasonPlayerTotalsRow
	for rows.Next() {
		var i ListSeasonPlayerTotalsRow
		if err := rows.Scan(
			&i.PlayerID,
			&i.FirstName,
			&i.LastName,
			&i.TeamID,
			&i.TeamName,
			&i.GamesPlayed,
			&i.Points,
			&i.Rebounds,
			&i.Assists,
			&i.Steals,
			&i.Blocks,
			&i.Fouls,
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
