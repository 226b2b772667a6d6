package dbgen

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64          `json:"id"`
	Email        string         `json:"email"`
	DisplayName  string         `json:"displayName"`
	Role         string         `json:"role"`
	PasswordHash sql.NullString `json:"-"`
	ClerkUserID  sql.NullString `json:"-"`
	CreatedAt    time.Time      `json:"createdAt"`
}

type League struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Sport     string    `json:"sport"`
	CreatedAt time.Time `json:"createdAt"`
}

type Season struct {
	ID        int64     `json:"id"`
	LeagueID  int64     `json:"leagueId"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Team struct {
	ID           int64          `json:"id"`
	SeasonID     int64          `json:"seasonId"`
	Name         string         `json:"name"`
	LogoUrl      string         `json:"logoUrl"`
	CaptainEmail sql.NullString `json:"captainEmail"`
	CreatedAt    time.Time      `json:"createdAt"`
}

type Player struct {
	ID           int64          `json:"id"`
	TeamID       int64          `json:"teamId"`
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName"`
	JerseyNumber sql.NullInt64  `json:"jerseyNumber"`
	Position     string         `json:"position"`
	Email        sql.NullString `json:"email"`
	Phone        sql.NullString `json:"phone"`
	CreatedAt    time.Time      `json:"createdAt"`
}

type Game struct {
	ID          int64         `json:"id"`
	SeasonID    int64         `json:"seasonId"`
	HomeTeamID  int64         `json:"homeTeamId"`
	AwayTeamID  int64         `json:"awayTeamId"`
	GameDate    time.Time     `json:"gameDate"`
	Venue       string        `json:"venue"`
	Round       int64         `json:"round"`
	IsCompleted bool          `json:"isCompleted"`
	HomeScore   sql.NullInt64 `json:"homeScore"`
	AwayScore   sql.NullInt64 `json:"awayScore"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type PlayerGameStat struct {
	ID       int64 `json:"id"`
	GameID   int64 `json:"gameId"`
	PlayerID int64 `json:"playerId"`
	Points   int64 `json:"points"`
	Rebounds int64 `json:"rebounds"`
	Assists  int64 `json:"assists"`
	Steals   int64 `json:"steals"`
	Blocks   int64 `json:"blocks"`
	Fouls    int64 `json:"fouls"`
}

type StandingsSnapshot struct {
	ID       int64     `json:"id"`
	SeasonID int64     `json:"seasonId"`
	TakenAt  time.Time `json:"takenAt"`
	Payload  string    `json:"payload"`
}
