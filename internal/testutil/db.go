package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/codr1/leaguehub/internal/db"
	"github.com/codr1/leaguehub/internal/db/dbgen"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// SeedSeason inserts a league and an active season.
func SeedSeason(t *testing.T, database *db.DB) dbgen.Season {
	t.Helper()

	ctx := context.Background()
	slug := fmt.Sprintf("league-%d", time.Now().UnixNano())
	league, err := database.Queries.CreateLeague(ctx, dbgen.CreateLeagueParams{
		Name:  "Test League",
		Slug:  slug,
		Sport: "basketball",
	})
	if err != nil {
		t.Fatalf("insert league: %v", err)
	}

	season, err := database.Queries.CreateSeason(ctx, dbgen.CreateSeasonParams{
		LeagueID:  league.ID,
		Name:      "Winter 2024",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:    "active",
	})
	if err != nil {
		t.Fatalf("insert season: %v", err)
	}
	return season
}

func SeedTeam(t *testing.T, database *db.DB, seasonID int64, name string) dbgen.Team {
	t.Helper()

	team, err := database.Queries.CreateTeam(context.Background(), dbgen.CreateTeamParams{
		SeasonID:     seasonID,
		Name:         name,
		LogoUrl:      "/static/logos/" + name + ".png",
		CaptainEmail: sql.NullString{String: name + "@example.com", Valid: true},
	})
	if err != nil {
		t.Fatalf("insert team %q: %v", name, err)
	}
	return team
}

// SeedGame inserts a game. Pass negative scores to leave them NULL.
func SeedGame(t *testing.T, database *db.DB, seasonID, homeID, awayID int64, date time.Time, completed bool, homeScore, awayScore int64) dbgen.Game {
	t.Helper()

	game, err := database.Queries.CreateGame(context.Background(), dbgen.CreateGameParams{
		SeasonID:    seasonID,
		HomeTeamID:  homeID,
		AwayTeamID:  awayID,
		GameDate:    date,
		Venue:       "Main Gym",
		IsCompleted: completed,
		HomeScore:   nullableScore(homeScore),
		AwayScore:   nullableScore(awayScore),
	})
	if err != nil {
		t.Fatalf("insert game: %v", err)
	}
	return game
}

func SeedUser(t *testing.T, database *db.DB, email, role, passwordHash string) dbgen.User {
	t.Helper()

	user, err := database.Queries.CreateUser(context.Background(), dbgen.CreateUserParams{
		Email:        email,
		DisplayName:  email,
		Role:         role,
		PasswordHash: sql.NullString{String: passwordHash, Valid: passwordHash != ""},
	})
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return user
}

func nullableScore(score int64) sql.NullInt64 {
	if score < 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: score, Valid: true}
}
